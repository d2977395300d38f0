// Package logtail reads the end of the lsfremote log file and highlights
// its records for the terminal.
//
// The log is written by slog's text handler, one record per line:
//
//	time=2026-10-19T14:32:15.120+02:00 level=WARN msg="state poll failed" component=connection error="state: http status 502"
//
// Read keeps only the last N lines in a ring buffer, so large files are
// read in one pass with O(N) memory. Level and Filter select records by
// level; lines that are not records (a panic trace) are kept. Highlight
// reorders a record as "time LEVEL msg key=value ..." and colors each part;
// lines it cannot parse are returned unchanged.
//
// Read returns nil, nil for a missing file: nothing has been logged yet.
package logtail
