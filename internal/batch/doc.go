// Package batch orchestrates a full sheet import: row normalization,
// metadata resolution, author identity, duplicate reconciliation, and
// failure sidebanding, with counters for the end-of-run summary.
package batch
