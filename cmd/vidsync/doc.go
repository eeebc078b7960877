// Command vidsync imports catalog sheets into the video database,
// exports it back to CSV, and reports catalog statistics.
package main
