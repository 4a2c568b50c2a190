// Package analytics implements the reporting pipeline behind the console's
// analytics pages: fetching raw aggregate rows from the managed backend,
// deriving rates, shaping chart-ready breakdowns, and computing
// period-over-period comparisons.
//
// The pipeline is deliberately thin: the backend owns event storage and
// aggregation; this package only computes derived values and normalizes
// the backend's snake_case rows into the camelCase report the UI consumes.
package analytics
