package report

import "fmt"

// errorMessage is an error which is not attached to a source position.
type errorMessage struct {
	Tag string
	Err error
}

func (em *errorMessage) isError() bool { return true }

func (em *errorMessage) display() {
	PrintErrorMessage(em.Tag, em.Err)
}

// warningMessage is a warning which is not attached to a source position.
type warningMessage struct {
	Tag     string
	Message string
}

func (wm *warningMessage) isError() bool { return false }

func (wm *warningMessage) display() {
	PrintWarningMessage(wm.Tag, wm.Message)
}

// Severity is the severity of a diagnostic.
type Severity int

// Enumeration of diagnostic severities.
const (
	SeverityIgnored Severity = iota
	SeverityNote
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityIgnored:
		return "Ignored"
	case SeverityNote:
		return "Note"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	case SeverityFatal:
		return "Fatal"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Diagnostic is a message produced by a front end about a position in a
// source file.  Lines and columns start at one; a zero line means the
// diagnostic has no position.
type Diagnostic struct {
	Severity Severity
	File     string
	Line     int
	Col      int
	Message  string
	Category string
}

func (d *Diagnostic) isError() bool {
	return d.Severity >= SeverityError
}

func (d *Diagnostic) display() {
	d.displayBanner()
	fmt.Println(d.Message)

	if d.Line > 0 {
		if sel, err := codeSelection(d.File, d.Line, d.Col); err == nil {
			fmt.Print(sel)
		}
	}
}
