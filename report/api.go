package report

import (
	"fmt"
	"os"
	"time"
)

// NOTE: All report functions will only display if the appropriate log level is
// set.  Most report functions will simply fail silently if below their
// appropriate log level.

// ReportError reports an error which is not attached to a source position.
func (r *Reporter) ReportError(tag string, err error) {
	r.handleMsg(&errorMessage{Tag: tag, Err: err})
}

// ReportWarning reports a warning which is not attached to a source position.
func (r *Reporter) ReportWarning(tag, msg string) {
	r.handleMsg(&warningMessage{Tag: tag, Message: msg})
}

// ReportInfo reports an informational message.  It is only displayed at the
// verbose log level and is not counted.
func (r *Reporter) ReportInfo(tag, msg string) {
	r.m.Lock()
	defer r.m.Unlock()

	if r.logLevel == LogLevelVerbose {
		r.suspendPhase()
		PrintInfoMessage(tag, msg)
	}
}

// ReportDiagnostic reports a diagnostic produced by a front end.  Notes are
// displayed immediately at the verbose log level and are not counted.
func (r *Reporter) ReportDiagnostic(d Diagnostic) {
	if d.Severity >= SeverityWarning {
		r.handleMsg(&d)
		return
	}

	r.m.Lock()
	defer r.m.Unlock()

	if d.Severity == SeverityNote && r.logLevel == LogLevelVerbose {
		r.suspendPhase()
		d.display()
	}
}

// ReportHeader reports the pre-build header: the tool version, the target and
// whether caching is enabled.
func (r *Reporter) ReportHeader(version, target string, caching bool) {
	if r.logLevel == LogLevelVerbose {
		displayHeader(version, target, caching)
	}
}

// BeginPhase displays a spinner for the named phase of a build.  It ends the
// previous phase successfully if it is still running.
func (r *Reporter) BeginPhase(phase string) {
	r.m.Lock()
	defer r.m.Unlock()

	if r.logLevel != LogLevelVerbose {
		return
	}

	if r.phase != nil {
		r.phase.displayEndPhase(true)
	}

	r.phase = displayBeginPhase(phase)
}

// EndPhase ends the current phase.  The phase succeeds if no errors were
// reported since the build started.
func (r *Reporter) EndPhase() {
	r.m.Lock()
	defer r.m.Unlock()

	if r.phase != nil {
		r.phase.displayEndPhase(r.errorCount == 0)
		r.phase = nil
	}
}

// ReportFinished displays the deferred warnings followed by the concluding
// message of a build.
func (r *Reporter) ReportFinished(outputPath string) {
	r.m.Lock()
	defer r.m.Unlock()

	if r.logLevel >= LogLevelWarn {
		for _, warning := range r.warnings {
			warning.display()
		}
	}

	if r.logLevel == LogLevelVerbose {
		displayFinished(r.errorCount == 0, r.errorCount, len(r.warnings), outputPath, time.Since(r.startTime))
	}
}

// -----------------------------------------------------------------------------

// ReportFatal reports a fatal error and exits the program.  It also
// automatically formats error messages as necessary.
func ReportFatal(msg string, args ...interface{}) {
	r := Global()

	r.m.Lock()
	r.errorCount++
	r.suspendPhase()
	r.m.Unlock()

	displayFatalError(fmt.Sprintf(msg, args...))

	os.Exit(1)
}

// ReportError reports an error to the global reporter.
func ReportError(tag string, err error) {
	Global().ReportError(tag, err)
}

// ReportWarning reports a warning to the global reporter.
func ReportWarning(tag, msg string) {
	Global().ReportWarning(tag, msg)
}

// ReportInfo reports an informational message to the global reporter.
func ReportInfo(tag, msg string) {
	Global().ReportInfo(tag, msg)
}

// ReportDiagnostic reports a diagnostic to the global reporter.
func ReportDiagnostic(d Diagnostic) {
	Global().ReportDiagnostic(d)
}

// BeginPhase begins a phase of the global reporter.
func BeginPhase(phase string) {
	Global().BeginPhase(phase)
}

// EndPhase ends the current phase of the global reporter.
func EndPhase() {
	Global().EndPhase()
}

// ShouldProceed indicates whether or not the global reporter has seen any
// errors.
func ShouldProceed() bool {
	return Global().ShouldProceed()
}
