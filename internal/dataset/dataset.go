package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column names every population dataset must carry.
const (
	ColAge    = "age"
	ColMale   = "male"
	ColFemale = "female"
)

// Required is the ordered set of columns Read insists on.
var Required = []string{ColAge, ColMale, ColFemale}

// ErrNotFound is returned (wrapped) when the input file does not exist.
var ErrNotFound = errors.New("input file not found")

// SchemaError reports required columns absent from a dataset.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required column(s): %s", strings.Join(e.Missing, ", "))
}

// Options controls CSV parsing.
type Options struct {
	// Delimiter is the field separator. Zero means ','.
	Delimiter rune
}

// Load opens the CSV at path and parses it with Read.
func Load(path string, opts Options) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return dataframe.DataFrame{}, fmt.Errorf("dataset: %w: %w", ErrNotFound, err)
		}
		return dataframe.DataFrame{}, fmt.Errorf("dataset: open: %w", err)
	}
	defer f.Close()

	df, err := Read(f, opts)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w (file %s)", err, path)
	}
	return df, nil
}

// Read parses a CSV stream with a header row into a DataFrame and checks the
// required columns. A header with no data rows yields a zero-row frame, so an
// empty dataset reaches the calculator instead of failing here.
func Read(r io.Reader, opts Options) (dataframe.DataFrame, error) {
	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}

	cr := csv.NewReader(r)
	cr.Comma = delim
	records, err := cr.ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("dataset: parse csv: %w", err)
	}
	if len(records) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("dataset: parse csv: no header row")
	}

	var df dataframe.DataFrame
	if len(records) == 1 {
		df = emptyFrame(records[0])
	} else {
		df = dataframe.LoadRecords(records,
			dataframe.HasHeader(true),
			dataframe.WithTypes(map[string]series.Type{ColAge: series.String}),
		)
	}
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("dataset: parse csv: %w", df.Err)
	}

	if err := Require(df, Required...); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("dataset: %w", err)
	}
	return df, nil
}

// emptyFrame builds a zero-row DataFrame with one series per header name.
// The count columns are typed float so they coerce without re-parsing.
func emptyFrame(header []string) dataframe.DataFrame {
	cols := make([]series.Series, len(header))
	for i, name := range header {
		typ := series.String
		if name == ColMale || name == ColFemale {
			typ = series.Float
		}
		cols[i] = series.New([]string{}, typ, name)
	}
	return dataframe.New(cols...)
}

// Require returns a *SchemaError naming every column in cols that df lacks.
func Require(df dataframe.DataFrame, cols ...string) error {
	have := make(map[string]struct{}, df.Ncol())
	for _, name := range df.Names() {
		have[name] = struct{}{}
	}

	var missing []string
	for _, c := range cols {
		if _, ok := have[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}
