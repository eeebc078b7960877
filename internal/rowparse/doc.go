// Package rowparse turns raw catalog sheet lines into normalized working
// rows: BOM stripping, lenient quote-aware field splitting, author name
// cleanup, and video URL canonicalization.
package rowparse
