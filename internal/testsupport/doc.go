// Package testsupport provides shared helpers for tests: temp-dir
// configs, catalog stores with cleanup, and scripted fakes for the
// resolver and duplicate decider.
package testsupport
