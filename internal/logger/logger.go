// Package logger prints pipeline progress for the grimoire CLI.
//
// Output is off unless --verbose is given, in which case lines go to stderr
// so they never mix with command output on stdout.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.Mutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose turns logging on or off.
func SetVerbose(v bool) {
	mu.Lock()
	verbose = v
	mu.Unlock()
}

// IsVerbose reports whether logging is on.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// SetOutput redirects log lines, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	output = w
	mu.Unlock()
}

// Debug logs low-level detail such as cache hits and per-stage counts.
func Debug(format string, args ...any) { logf("[DEBUG] ", format, args...) }

// Info logs a completed step.
func Info(format string, args ...any) { logf("[INFO] ", format, args...) }

// Warn logs a degradation that does not stop the command.
func Warn(format string, args ...any) { logf("[WARN] ", format, args...) }

// Section starts a titled group of lines.
func Section(name string) { logf("\n", "=== %s ===", name) }

// Elapsed logs the time since start, as in defer logger.Elapsed("embed", time.Now()).
func Elapsed(stage string, start time.Time) {
	logf("[TIME] ", "%s took %s", stage, time.Since(start).Round(time.Microsecond))
}

// logf writes one line. Holding mu across the write keeps lines from
// concurrent goroutines whole.
func logf(prefix, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}
