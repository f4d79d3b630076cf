// Package report displays errors, warnings, diagnostics and progress to the
// user.  Every function respects the selected log level and is synchronized:
// the driver reports from several goroutines at once.
package report

import (
	"sync"
	"time"
)

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays only warnings and errors to the user.
	LogLevelVerbose        // Displays all messages to the user (default).
)

// LogLevelNames lists the names accepted by ParseLogLevel in order.
var LogLevelNames = []string{"silent", "error", "warn", "verbose"}

// ParseLogLevel converts the name of a log level to its value.  Unknown names
// select the verbose level.
func ParseLogLevel(name string) int {
	switch name {
	case "silent":
		return LogLevelSilent
	case "error":
		return LogLevelError
	case "warn", "warning":
		return LogLevelWarn
	default:
		return LogLevelVerbose
	}
}

// Reporter is responsible for reporting messages to the user.
type Reporter struct {
	// m synchronizes the display of messages and the counters below.
	m sync.Mutex

	logLevel int

	errorCount int

	// warnings are held back and displayed together when the reporter
	// finishes so that they are not lost between errors.
	warnings []message

	startTime time.Time

	// The phase currently displayed by the spinner, if any.
	phase *phaseDisplay
}

// message is a message which can be displayed by the reporter.
type message interface {
	display()
	isError() bool
}

// NewReporter creates a new reporter with the given log level.
func NewReporter(logLevel int) *Reporter {
	return &Reporter{logLevel: logLevel, startTime: time.Now()}
}

// LogLevel returns the log level of the reporter.
func (r *Reporter) LogLevel() int {
	return r.logLevel
}

// handleMsg counts msg and displays it if the log level allows.  Warnings are
// deferred until Finish.
func (r *Reporter) handleMsg(msg message) {
	r.m.Lock()
	defer r.m.Unlock()

	if msg.isError() {
		r.errorCount++

		if r.logLevel >= LogLevelError {
			r.suspendPhase()
			msg.display()
		}
	} else {
		r.warnings = append(r.warnings, msg)
	}
}

// ErrorCount returns the number of errors reported so far.
func (r *Reporter) ErrorCount() int {
	r.m.Lock()
	defer r.m.Unlock()

	return r.errorCount
}

// WarningCount returns the number of warnings reported so far.
func (r *Reporter) WarningCount() int {
	r.m.Lock()
	defer r.m.Unlock()

	return len(r.warnings)
}

// ShouldProceed indicates whether or not there have been any errors that
// should stop the current phase.
func (r *Reporter) ShouldProceed() bool {
	return r.ErrorCount() == 0
}

// -----------------------------------------------------------------------------

// rep is the global reporter instance.
var (
	rep   = NewReporter(LogLevelVerbose)
	repMu sync.Mutex
)

// InitReporter replaces the global reporter with a new reporter at the given
// log level.
func InitReporter(logLevel int) {
	repMu.Lock()
	defer repMu.Unlock()

	rep = NewReporter(logLevel)
}

// Global returns the global reporter.
func Global() *Reporter {
	repMu.Lock()
	defer repMu.Unlock()

	return rep
}
