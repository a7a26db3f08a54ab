// Package compute derives per-sex population shares from a loaded dataset.
//
// Shares(df, opts) is the whole calculator: it coerces the male and female
// columns to float64, sums male+female per row and then across rows to get
// the grand total, and appends "m %" and "f %" columns holding each count as
// a percentage of that total. The input frame is never mutated.
//
// A zero grand total is governed by Options.OnZeroTotal: the default returns
// ErrZeroTotal, "propagate" lets IEEE division yield NaN/Inf.
package compute
