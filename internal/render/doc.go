// Package render writes a compute.Result to an io.Writer.
//
// Formats:
//   - table: every row of the frame, column-aligned with an index column,
//     abbreviated only past 60 rows; optionally followed by a
//     "Total population: N" line
//   - csv: the derived frame via DataFrame.WriteCSV, header included
//   - prom: Prometheus text exposition (expfmt) with per-bracket count and
//     share gauges labelled {age, sex}, plus dataset-wide totals
package render
