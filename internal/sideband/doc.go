// Package sideband records rows that failed during import into a
// companion CSV file next to the input sheet.
package sideband
