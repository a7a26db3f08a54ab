package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/popshare/popshare/internal/compute"
)

// Supported formats.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatProm  = "prom"
)

// Options controls rendering.
type Options struct {
	// Format is one of FormatTable (default when empty), FormatCSV, FormatProm.
	Format string

	// Summary appends the total population line to table output.
	Summary bool
}

// Write renders res to w in the requested format.
func Write(w io.Writer, res *compute.Result, opts Options) error {
	switch opts.Format {
	case FormatTable, "":
		return writeTable(w, res, opts.Summary)
	case FormatCSV:
		if err := res.Frame.WriteCSV(w); err != nil {
			return fmt.Errorf("render: write csv: %w", err)
		}
		return nil
	case FormatProm:
		return writeProm(w, res)
	default:
		return fmt.Errorf("render: unknown format %q", opts.Format)
	}
}

// Frames longer than maxTableRows are abbreviated to their first and last
// tableEdgeRows rows, the same cut-off pandas uses for its default repr.
const (
	maxTableRows  = 60
	tableEdgeRows = 5
)

func writeTable(w io.Writer, res *compute.Result, summary bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(tw, "\t%s\t\n", strings.Join(res.Frame.Names(), "\t"))
	var rows [][]string
	if recs := res.Frame.Records(); len(recs) > 1 {
		rows = recs[1:] // drop the header
	}
	for i, rec := range rows {
		if len(rows) > maxTableRows && i >= tableEdgeRows && i < len(rows)-tableEdgeRows {
			if i == tableEdgeRows {
				fmt.Fprintf(tw, "...\t%s\t\n", strings.Repeat("...\t", len(rec)-1)+"...")
			}
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t\n", i, strings.Join(rec, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("render: write table: %w", err)
	}
	if len(rows) > maxTableRows {
		if _, err := fmt.Fprintf(w, "\n[%d rows x %d columns]\n", len(rows), res.Frame.Ncol()); err != nil {
			return fmt.Errorf("render: write table: %w", err)
		}
	}

	if !summary {
		return nil
	}
	if _, err := fmt.Fprintf(w, "Total population: %s\n", formatCount(res.Summary.Total)); err != nil {
		return fmt.Errorf("render: write summary: %w", err)
	}
	return nil
}

// formatCount prints whole counts without a decimal point.
func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
