// Package dataset loads the population CSV into a gota DataFrame.
//
// Load(path, opts) opens the file and hands it to Read, which reads the rows
// with encoding/csv, builds the frame with dataframe.LoadRecords and then
// checks that the age, male and female columns are present. The age column is
// always loaded as a string series so that bracket labels ("0-4") and bare
// numbers behave the same; every other column keeps gota's type detection and
// passes through unchanged. A header-only file becomes a zero-row frame.
//
// Failures are typed: a missing file wraps ErrNotFound (and fs.ErrNotExist),
// a missing column is a *SchemaError listing every absent name.
package dataset
