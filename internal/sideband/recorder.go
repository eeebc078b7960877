package sideband

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var header = []string{"Line Number", "CSV Content", "Error Message"}

// ErrorPath derives the sideband file path from the input sheet path:
// catalog.csv becomes catalog_errors.csv. Inputs without a .csv suffix
// get _errors.csv appended.
func ErrorPath(inputPath string) string {
	if strings.HasSuffix(inputPath, ".csv") {
		return strings.TrimSuffix(inputPath, ".csv") + "_errors.csv"
	}
	return inputPath + "_errors.csv"
}

// Recorder appends failed rows to a CSV sideband file so they can be
// fixed up and re-imported. The file is created lazily on the first
// failure and the header is written exactly once, even across runs that
// append to an existing file. Each record is flushed immediately, so rows
// survive a crash or cancellation mid-run.
type Recorder struct {
	path  string
	count int
}

// NewRecorder builds a recorder targeting path. Nothing is created until
// the first Record call.
func NewRecorder(path string) *Recorder {
	return &Recorder{path: path}
}

// Record appends one failed row with its original line text and the
// failure message.
func (r *Recorder) Record(lineNum int, lineContent, message string) error {
	file, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open sideband file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat sideband file: %w", err)
	}

	writer := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("write sideband header: %w", err)
		}
	}
	if err := writer.Write([]string{strconv.Itoa(lineNum), lineContent, message}); err != nil {
		return fmt.Errorf("write sideband row: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush sideband row: %w", err)
	}

	r.count++
	return nil
}

// Count reports how many rows this recorder has written.
func (r *Recorder) Count() int {
	return r.count
}

// Path returns the sideband file location.
func (r *Recorder) Path() string {
	return r.path
}
