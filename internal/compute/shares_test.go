package compute

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"

	"github.com/popshare/popshare/internal/dataset"
)

// frame parses csv through the real loader so tests see the same column
// types production does.
func frame(t *testing.T, csv string) dataframe.DataFrame {
	t.Helper()
	df, err := dataset.Read(strings.NewReader(csv), dataset.Options{})
	if err != nil {
		t.Fatalf("dataset.Read() error = %v", err)
	}
	return df
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// --- Worked examples ---

func TestShares_TwoRows(t *testing.T) {
	res, err := Shares(frame(t, "age,male,female\n0,10,10\n1,20,10\n"), Options{})
	if err != nil {
		t.Fatalf("Shares() error = %v", err)
	}

	if res.Summary.Total != 50 {
		t.Errorf("Total = %v, want 50", res.Summary.Total)
	}
	m := res.Frame.Col(ColMalePct).Float()
	f := res.Frame.Col(ColFemalePct).Float()
	want := [][2]float64{{20, 20}, {40, 20}}
	for i, w := range want {
		if !almostEqual(m[i], w[0], 1e-9) || !almostEqual(f[i], w[1], 1e-9) {
			t.Errorf("row %d: m%%=%v f%%=%v, want %v", i, m[i], f[i], w)
		}
	}
}

func TestShares_MatchesDivideThenScale(t *testing.T) {
	res, err := Shares(frame(t, "age,male,female\n0,1,2\n1,3,7\n"), Options{})
	if err != nil {
		t.Fatalf("Shares() error = %v", err)
	}
	total := 13.0
	m := res.Frame.Col(ColMalePct).Float()
	for i, male := range []float64{1, 3} {
		if want := male / total * 100; m[i] != want {
			t.Errorf("m%%[%d] = %v, want exactly %v", i, m[i], want)
		}
	}
}

// --- Invariants ---

func TestShares_SumsToHundred(t *testing.T) {
	res, err := Shares(frame(t, `age,male,female
0-9,10,12
10-19,14,15
20-29,15,18
30-39,18,18
40-49,21,22
50-59,19,24
60-69,15,14
70-79,8,10
80-89,4,5
90-99,2,3
100-109,1,1
`), Options{})
	if err != nil {
		t.Fatalf("Shares() error = %v", err)
	}

	var sum float64
	for _, v := range res.Frame.Col(ColMalePct).Float() {
		sum += v
	}
	for _, v := range res.Frame.Col(ColFemalePct).Float() {
		sum += v
	}
	if !almostEqual(sum, 100, 1e-9) {
		t.Errorf("Σ shares = %v, want 100", sum)
	}
	if !almostEqual(res.Summary.MaleShare+res.Summary.FemaleShare, 100, 1e-9) {
		t.Errorf("MaleShare+FemaleShare = %v, want 100",
			res.Summary.MaleShare+res.Summary.FemaleShare)
	}
}

func TestShares_PreservesOrderAndColumns(t *testing.T) {
	in := frame(t, "region,age,male,female\nn,b,1,1\ns,a,2,2\ne,c,3,3\n")
	res, err := Shares(in, Options{})
	if err != nil {
		t.Fatalf("Shares() error = %v", err)
	}

	wantCols := []string{"region", "age", "male", "female", ColMalePct, ColFemalePct}
	if got := res.Frame.Names(); !reflect.DeepEqual(got, wantCols) {
		t.Errorf("Names = %v, want %v", got, wantCols)
	}
	if got := res.Frame.Col("age").Records(); !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Errorf("age order = %v, want [b a c]", got)
	}
}

func TestShares_Idempotent(t *testing.T) {
	in := frame(t, "age,male,female\n0,10,10\n1,20,10\n")

	a, err := Shares(in, Options{})
	if err != nil {
		t.Fatalf("first Shares() error = %v", err)
	}
	b, err := Shares(in, Options{})
	if err != nil {
		t.Fatalf("second Shares() error = %v", err)
	}

	if !reflect.DeepEqual(a.Frame.Records(), b.Frame.Records()) {
		t.Error("two runs over the same input produced different frames")
	}
	if a.Summary != b.Summary {
		t.Errorf("summaries differ: %+v vs %+v", a.Summary, b.Summary)
	}
	if in.Ncol() != 3 {
		t.Errorf("input frame mutated: Ncol = %d, want 3", in.Ncol())
	}
}

func TestShares_Summary(t *testing.T) {
	res, err := Shares(frame(t, "age,male,female\n0,10,10\n1,20,10\n"), Options{})
	if err != nil {
		t.Fatalf("Shares() error = %v", err)
	}
	s := res.Summary
	if s.Rows != 2 || s.MaleTotal != 30 || s.FemaleTotal != 20 {
		t.Errorf("Summary = %+v", s)
	}
	if !almostEqual(s.MaleShare, 60, 1e-9) || !almostEqual(s.FemaleShare, 40, 1e-9) {
		t.Errorf("shares = %v/%v, want 60/40", s.MaleShare, s.FemaleShare)
	}
	if !almostEqual(s.MaxShare, 40, 1e-9) {
		t.Errorf("MaxShare = %v, want 40", s.MaxShare)
	}
}

func TestShares_FloatCounts(t *testing.T) {
	res, err := Shares(frame(t, "age,male,female\n0,1.5,2.5\n1,3,3\n"), Options{})
	if err != nil {
		t.Fatalf("Shares() error = %v", err)
	}
	if !almostEqual(res.Summary.Total, 10, 1e-12) {
		t.Errorf("Total = %v, want 10", res.Summary.Total)
	}
	if got := res.Frame.Col(ColMalePct).Float()[0]; !almostEqual(got, 15, 1e-9) {
		t.Errorf("m%%[0] = %v, want 15", got)
	}
}

// --- Zero total policy ---

func TestShares_ZeroTotal_Error(t *testing.T) {
	_, err := Shares(frame(t, "age,male,female\n0,0,0\n"), Options{})
	if !errors.Is(err, ErrZeroTotal) {
		t.Fatalf("Shares() error = %v, want ErrZeroTotal", err)
	}
}

func TestShares_ZeroTotal_Propagate(t *testing.T) {
	res, err := Shares(frame(t, "age,male,female\n0,0,0\n"), Options{OnZeroTotal: ZeroTotalPropagate})
	if err != nil {
		t.Fatalf("Shares() error = %v", err)
	}
	if v := res.Frame.Col(ColMalePct).Float()[0]; !math.IsNaN(v) {
		t.Errorf("m%%[0] = %v, want NaN", v)
	}
}

func TestShares_HeaderOnly_Error(t *testing.T) {
	_, err := Shares(frame(t, "age,male,female\n"), Options{})
	if !errors.Is(err, ErrZeroTotal) {
		t.Fatalf("Shares() error = %v, want ErrZeroTotal", err)
	}
}

func TestShares_HeaderOnly_Propagate(t *testing.T) {
	res, err := Shares(frame(t, "age,male,female\n"), Options{OnZeroTotal: ZeroTotalPropagate})
	if err != nil {
		t.Fatalf("Shares() error = %v", err)
	}
	if res.Frame.Nrow() != 0 {
		t.Errorf("Nrow = %d, want 0", res.Frame.Nrow())
	}
	wantCols := []string{"age", "male", "female", ColMalePct, ColFemalePct}
	if got := res.Frame.Names(); !reflect.DeepEqual(got, wantCols) {
		t.Errorf("Names = %v, want %v", got, wantCols)
	}
	if res.Summary.Rows != 0 || res.Summary.Total != 0 || res.Summary.MaxShare != 0 {
		t.Errorf("Summary = %+v", res.Summary)
	}
}

// --- Failures ---

func TestShares_MissingColumn(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"age", "male"},
		{"0", "10"},
	})
	_, err := Shares(df, Options{})
	var se *dataset.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("Shares() error = %v, want *dataset.SchemaError", err)
	}
	if !reflect.DeepEqual(se.Missing, []string{dataset.ColFemale}) {
		t.Errorf("Missing = %v, want [female]", se.Missing)
	}
}

func TestShares_NonNumeric(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantCol string
		wantRow int
		wantVal string
	}{
		{"word in male", "age,male,female\n0,10,10\n1,lots,10\n", "male", 1, "lots"},
		{"word in female", "age,male,female\n0,10,ten\n", "female", 0, "ten"},
		{"bool column", "age,male,female\n0,true,1\n1,false,2\n", "male", 0, "true"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Shares(frame(t, tc.csv), Options{})
			var ce *ConversionError
			if !errors.As(err, &ce) {
				t.Fatalf("Shares() error = %v, want *ConversionError", err)
			}
			if ce.Column != tc.wantCol || ce.Row != tc.wantRow || ce.Value != tc.wantVal {
				t.Errorf("ConversionError = %+v, want %s/%d/%q", ce, tc.wantCol, tc.wantRow, tc.wantVal)
			}
		})
	}
}
