// Package logging wires the shared charmbracelet/log logger used across adcgo.
package logging

import (
	"os"
	"time"

	cblog "github.com/charmbracelet/log"
)

var base = cblog.NewWithOptions(os.Stderr, cblog.Options{
	ReportTimestamp: true,
	TimeFormat:      time.RFC3339,
	ReportCaller:    false,
})

// Configure sets the package-wide log level. Call once, before wiring a Bridge.
func Configure(level string) {
	switch level {
	case "debug":
		base.SetLevel(cblog.DebugLevel)
		base.SetReportCaller(true)
	case "warn":
		base.SetLevel(cblog.WarnLevel)
	case "error":
		base.SetLevel(cblog.ErrorLevel)
	default:
		base.SetLevel(cblog.InfoLevel)
	}
}

// For returns a sub-logger tagged with the given component name, the way the
// teacher tags per-request loggers with request/user fields.
func For(component string) *cblog.Logger {
	return base.With("component", component)
}

// Default returns the shared root logger.
func Default() *cblog.Logger {
	return base
}
