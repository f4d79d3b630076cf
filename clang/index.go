// Package clang is a thin binding of the libclang C API: it parses C source
// files into translation units and reports their diagnostics.
package clang

/*
#include <stdlib.h>

#include "clang-c/Index.h"
*/
import "C"

import (
	"errors"
	"fmt"
)

// ErrDisposed indicates that an index or translation unit was used after it
// was disposed.
var ErrDisposed = errors.New("handle used after its owner was disposed")

// Index is a set of translation units which would typically be linked
// together into one executable.  It owns every translation unit parsed in it.
type Index struct {
	c C.CXIndex

	units    []*TranslationUnit
	disposed bool
}

// NewIndex creates a new index.  If excludePCH is true, declarations from
// precompiled headers are not visible.  If displayDiagnostics is true, libclang
// prints diagnostics to standard error as it parses.
func NewIndex(excludePCH, displayDiagnostics bool) *Index {
	return &Index{c: C.clang_createIndex(cbool(excludePCH), cbool(displayDiagnostics))}
}

// Dispose frees the index and every translation unit parsed in it.  Disposing
// an index twice is a no-op.
func (idx *Index) Dispose() {
	if idx.disposed {
		return
	}

	// Translation units must be disposed before their index.
	for _, tu := range idx.units {
		tu.Dispose()
	}

	C.clang_disposeIndex(idx.c)
	idx.units = nil
	idx.disposed = true
}

// IsDisposed returns whether the index has been disposed.
func (idx *Index) IsDisposed() bool {
	return idx.disposed
}

func (idx *Index) check(op string) error {
	if idx.disposed {
		return fmt.Errorf("%s: %w: index", op, ErrDisposed)
	}

	return nil
}

// Version returns the version string of libclang, eg. `clang version 17.0.6`.
func Version() string {
	return goString(C.clang_getClangVersion())
}

// -----------------------------------------------------------------------------

func cbool(b bool) C.int {
	if b {
		return 1
	}

	return 0
}

// goString converts a libclang string to a Go string and disposes it.
func goString(s C.CXString) string {
	defer C.clang_disposeString(s)
	return C.GoString(C.clang_getCString(s))
}
