// Package logging constructs the slog loggers used across vidsync and
// provides small helpers for consistent attribute naming.
//
// Console output goes to stderr so batch summaries on stdout stay clean;
// when a log directory is configured, records are mirrored into a file.
package logging
