// Package logs reads and follows the iriverpla log file.
//
// Read returns the last N lines with bounded memory, optionally narrowed to a
// single generation run by correlation ID. Follow polls for appended lines
// until its context is canceled and restarts from the top when the file is
// truncated. Both power `iriverpla logs`.
package logs
