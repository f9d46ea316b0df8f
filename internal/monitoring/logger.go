// Package monitoring provides the process-wide diagnostic log sink. The
// reconstruction core reports corrections, dropped vessels and empty query
// results through it but never depends on logging succeeding.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Infof logs an informational event.
func Infof(format string, v ...interface{}) {
	Logf("INFO: "+format, v...)
}

// Warnf logs a warning. Warnings cover recoverable conditions such as
// conflicting static records, empty time-filtered pools and vessels dropped
// after interpolation failures.
func Warnf(format string, v ...interface{}) {
	Logf("WARN: "+format, v...)
}

// Errorf logs an error that terminated an operation.
func Errorf(format string, v ...interface{}) {
	Logf("ERROR: "+format, v...)
}
