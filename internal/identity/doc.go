// Package identity resolves declared author names to catalog author
// records, memoizing within a run and enriching stored authors with
// platform-reported channel identity.
package identity
