package clang

/*
#include <stdlib.h>

#include "clang-c/Index.h"
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// ParseFlags are the options of a translation unit parse.
type ParseFlags uint32

// Enumeration of the parse flags.
const (
	ParseNone                   ParseFlags = C.CXTranslationUnit_None
	ParseDetailedPreprocessing  ParseFlags = C.CXTranslationUnit_DetailedPreprocessingRecord
	ParseIncomplete             ParseFlags = C.CXTranslationUnit_Incomplete
	ParseSkipFunctionBodies     ParseFlags = C.CXTranslationUnit_SkipFunctionBodies
	ParseKeepGoing              ParseFlags = C.CXTranslationUnit_KeepGoing
	ParseSingleFileParse        ParseFlags = C.CXTranslationUnit_SingleFileParse
	ParseIncludeBriefComments   ParseFlags = C.CXTranslationUnit_IncludeBriefCommentsInCodeCompletion
	ParseRetainExcludedBlocks   ParseFlags = C.CXTranslationUnit_RetainExcludedConditionalBlocks
	ParseIgnoreIncludeWarnings  ParseFlags = C.CXTranslationUnit_IgnoreNonErrorsFromIncludedFiles
)

// ErrorCode is the result of a libclang operation which can fail.
type ErrorCode int

// Enumeration of the libclang error codes.
const (
	ErrorSuccess          ErrorCode = C.CXError_Success
	ErrorFailure          ErrorCode = C.CXError_Failure
	ErrorCrashed          ErrorCode = C.CXError_Crashed
	ErrorInvalidArguments ErrorCode = C.CXError_InvalidArguments
	ErrorASTReadError     ErrorCode = C.CXError_ASTReadError
)

func (ec ErrorCode) String() string {
	switch ec {
	case ErrorSuccess:
		return "success"
	case ErrorFailure:
		return "failure"
	case ErrorCrashed:
		return "libclang crashed"
	case ErrorInvalidArguments:
		return "invalid arguments"
	case ErrorASTReadError:
		return "AST read error"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(ec))
	}
}

// ParseError is returned when libclang fails to produce a translation unit.
// Ordinary compile errors do not cause a parse error: they are reported as
// diagnostics of the translation unit.
type ParseError struct {
	Path string
	Code ErrorCode
}

func (pe *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %s", pe.Path, pe.Code)
}

// TranslationUnit is a single parsed source file along with everything it
// includes.
type TranslationUnit struct {
	c        C.CXTranslationUnit
	idx      *Index
	disposed bool
}

// Parse parses the source file at path with the given compiler arguments,
// eg. `-I` and `-D` options.
func (idx *Index) Parse(path string, args []string, flags ParseFlags) (*TranslationUnit, error) {
	if err := idx.check("Index.Parse"); err != nil {
		return nil, err
	}

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	var cargs **C.char
	if len(args) > 0 {
		argv := make([]*C.char, len(args))
		for i, arg := range args {
			argv[i] = C.CString(arg)
			defer C.free(unsafe.Pointer(argv[i]))
		}

		// The argument strings are C memory: the slice holds no Go pointers.
		cargs = (**C.char)(C.malloc(C.size_t(len(argv)) * C.size_t(unsafe.Sizeof(argv[0]))))
		defer C.free(unsafe.Pointer(cargs))
		copy(unsafe.Slice(cargs, len(argv)), argv)
	}

	var tu C.CXTranslationUnit
	code := ErrorCode(C.clang_parseTranslationUnit2(
		idx.c,
		cpath,
		cargs,
		C.int(len(args)),
		nil,
		0,
		C.uint(flags),
		&tu,
	))

	if code != ErrorSuccess {
		return nil, &ParseError{Path: path, Code: code}
	}

	unit := &TranslationUnit{c: tu, idx: idx}
	idx.units = append(idx.units, unit)
	return unit, nil
}

// Dispose frees the translation unit.  Disposing a translation unit twice is a
// no-op.
func (tu *TranslationUnit) Dispose() {
	if tu.disposed {
		return
	}

	C.clang_disposeTranslationUnit(tu.c)
	tu.disposed = true
}

// IsDisposed returns whether the translation unit has been disposed.
func (tu *TranslationUnit) IsDisposed() bool {
	return tu.disposed
}

func (tu *TranslationUnit) mustBeAlive() {
	if tu.disposed {
		panic(fmt.Errorf("use of translation unit: %w", ErrDisposed))
	}
}

// Spelling returns the path of the main source file of the translation unit.
func (tu *TranslationUnit) Spelling() string {
	tu.mustBeAlive()
	return goString(C.clang_getTranslationUnitSpelling(tu.c))
}

// Diagnostics returns every diagnostic produced while parsing the translation
// unit, in order.
func (tu *TranslationUnit) Diagnostics() []Diagnostic {
	tu.mustBeAlive()

	n := C.clang_getNumDiagnostics(tu.c)
	diags := make([]Diagnostic, 0, int(n))

	for i := C.uint(0); i < n; i++ {
		cd := C.clang_getDiagnostic(tu.c, i)
		diags = append(diags, newDiagnostic(cd))
		C.clang_disposeDiagnostic(cd)
	}

	return diags
}

// HasErrors returns whether any diagnostic of the translation unit is an error.
func (tu *TranslationUnit) HasErrors() bool {
	for _, d := range tu.Diagnostics() {
		if d.Severity >= SeverityError {
			return true
		}
	}

	return false
}
