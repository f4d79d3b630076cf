package clang

/*
#include "clang-c/Index.h"
*/
import "C"

import "fmt"

// Severity is the severity of a diagnostic.
type Severity int

// Enumeration of diagnostic severities.
const (
	SeverityIgnored Severity = C.CXDiagnostic_Ignored
	SeverityNote    Severity = C.CXDiagnostic_Note
	SeverityWarning Severity = C.CXDiagnostic_Warning
	SeverityError   Severity = C.CXDiagnostic_Error
	SeverityFatal   Severity = C.CXDiagnostic_Fatal
)

func (s Severity) String() string {
	switch s {
	case SeverityIgnored:
		return "ignored"
	case SeverityNote:
		return "note"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Diagnostic is a message produced while parsing a translation unit.  The
// diagnostic is copied out of libclang: it stays valid after its translation
// unit is disposed.
type Diagnostic struct {
	Severity Severity

	// The location of the diagnostic.  Line and Col are zero if the diagnostic
	// has no location.
	File string
	Line int
	Col  int

	Message string

	// Category is the name of the category of the diagnostic, eg. `Semantic
	// Issue`.  It may be empty.
	Category string

	// Option is the command line option which enables the diagnostic, eg.
	// `-Wunused-variable`.  It may be empty.
	Option string
}

// String formats the diagnostic the way clang prints it on the command line.
func (d Diagnostic) String() string {
	if d.Line == 0 {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}

	return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Line, d.Col, d.Severity, d.Message)
}

func newDiagnostic(cd C.CXDiagnostic) Diagnostic {
	d := Diagnostic{
		Severity: Severity(C.clang_getDiagnosticSeverity(cd)),
		Message:  goString(C.clang_getDiagnosticSpelling(cd)),
		Category: goString(C.clang_getDiagnosticCategoryText(cd)),
	}

	var disable C.CXString
	d.Option = goString(C.clang_getDiagnosticOption(cd, &disable))
	C.clang_disposeString(disable)

	var (
		file      C.CXFile
		line, col C.uint
	)

	C.clang_getExpansionLocation(C.clang_getDiagnosticLocation(cd), &file, &line, &col, nil)
	if file != nil {
		d.File = goString(C.clang_getFileName(file))
		d.Line = int(line)
		d.Col = int(col)
	}

	return d
}
