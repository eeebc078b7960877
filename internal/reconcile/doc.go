// Package reconcile settles normalized rows against the video catalog:
// new URLs are inserted, duplicates are merged automatically or routed
// through a pluggable decider for Skip, Overwrite, Merge, Add, or Cancel.
package reconcile
