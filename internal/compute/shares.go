package compute

import (
	"errors"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"

	"github.com/popshare/popshare/internal/dataset"
)

// Names of the derived columns, appended in this order.
const (
	ColMalePct   = "m %"
	ColFemalePct = "f %"
)

// Zero-total policies.
const (
	ZeroTotalError     = "error"
	ZeroTotalPropagate = "propagate"
)

// ErrZeroTotal is returned when every count sums to zero and the policy is
// ZeroTotalError.
var ErrZeroTotal = errors.New("grand total is zero")

// ConversionError reports a male/female cell that is not numeric.
type ConversionError struct {
	Column string
	Row    int // 0-based data row, header excluded
	Value  string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("column %q row %d: cannot convert %q to a number", e.Column, e.Row, e.Value)
}

// Options controls the calculator.
type Options struct {
	// OnZeroTotal is ZeroTotalError (default when empty) or ZeroTotalPropagate.
	OnZeroTotal string
}

// Summary holds dataset-wide figures computed alongside the derived columns.
type Summary struct {
	Rows        int
	MaleTotal   float64
	FemaleTotal float64
	Total       float64

	// MaleShare and FemaleShare are percentages of Total.
	MaleShare   float64
	FemaleShare float64

	// MaxShare is the largest single value across both percentage columns.
	MaxShare float64
}

// Result is the derived dataset plus its summary.
type Result struct {
	Frame   dataframe.DataFrame
	Summary Summary
}

// Shares computes the m % and f % columns for df.
//
// total = Σ(male_i + female_i); m%_i = male_i / total * 100, likewise for f %.
// Row order and every original column are preserved.
func Shares(df dataframe.DataFrame, opts Options) (*Result, error) {
	if err := dataset.Require(df, dataset.ColMale, dataset.ColFemale); err != nil {
		return nil, fmt.Errorf("compute: %w", err)
	}

	male, err := floatColumn(df, dataset.ColMale)
	if err != nil {
		return nil, fmt.Errorf("compute: %w", err)
	}
	female, err := floatColumn(df, dataset.ColFemale)
	if err != nil {
		return nil, fmt.Errorf("compute: %w", err)
	}

	perRow := make([]float64, len(male))
	floats.AddTo(perRow, male, female)
	total := floats.Sum(perRow)

	if total == 0 && opts.OnZeroTotal != ZeroTotalPropagate {
		return nil, fmt.Errorf("compute: %w (%d rows)", ErrZeroTotal, len(male))
	}

	mPct := percentOf(male, total)
	fPct := percentOf(female, total)

	out := df.Mutate(series.New(mPct, series.Float, ColMalePct))
	out = out.Mutate(series.New(fPct, series.Float, ColFemalePct))
	if out.Err != nil {
		return nil, fmt.Errorf("compute: append share columns: %w", out.Err)
	}

	sum := Summary{
		Rows:        len(male),
		MaleTotal:   floats.Sum(male),
		FemaleTotal: floats.Sum(female),
		Total:       total,
	}
	sum.MaleShare = sum.MaleTotal / total * 100
	sum.FemaleShare = sum.FemaleTotal / total * 100
	if len(male) > 0 {
		sum.MaxShare = max(floats.Max(mPct), floats.Max(fPct))
	}

	return &Result{Frame: out, Summary: sum}, nil
}

// percentOf returns v_i / total * 100 for each element, in that operation order.
func percentOf(v []float64, total float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / total * 100
	}
	return out
}

// floatColumn returns the named column as float64 values. Int and float
// series are used as-is; anything else is re-parsed and the first cell that
// fails becomes a *ConversionError.
func floatColumn(df dataframe.DataFrame, name string) ([]float64, error) {
	col := df.Col(name)
	if col.Err != nil {
		return nil, col.Err
	}

	vals := col
	switch col.Type() {
	case series.Int, series.Float:
	default:
		vals = series.New(col.Records(), series.Float, name)
	}

	for i, na := range vals.IsNaN() {
		if na {
			return nil, &ConversionError{Column: name, Row: i, Value: col.Elem(i).String()}
		}
	}
	return vals.Float(), nil
}
