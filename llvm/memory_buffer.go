package llvm

/*
#include <stdlib.h>

#include "llvm-c/Core.h"
*/
import "C"

import (
	"unsafe"
)

// MemoryBuffer represents an LLVM memory buffer: a read-only block of bytes,
// usually the contents of a file or the output of code generation.  Memory
// buffers are not owned by a context and must be disposed by the caller unless
// they are passed to an operation which consumes them.
type MemoryBuffer struct {
	c  C.LLVMMemoryBufferRef
	lt *lifetime
}

func newMemoryBuffer(c C.LLVMMemoryBufferRef) *MemoryBuffer {
	return &MemoryBuffer{c: c, lt: newLifetime(nil, "memory buffer")}
}

// NewMemoryBufferFromFile creates a new memory buffer holding the contents of
// the file at path.
func NewMemoryBufferFromFile(path string) (*MemoryBuffer, error) {
	const op = "NewMemoryBufferFromFile"

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	var buf C.LLVMMemoryBufferRef
	var errMsg *C.char
	if fromBool(C.LLVMCreateMemoryBufferWithContentsOfFile(cpath, byref(&buf), byref(&errMsg))) {
		return nil, llvmError(op, messageString(errMsg))
	}

	if buf == nil {
		return nil, constructionFailed(op)
	}

	return newMemoryBuffer(buf), nil
}

// NewMemoryBufferFromBytes creates a new memory buffer holding a copy of data.
// The name identifies the buffer in diagnostics.
func NewMemoryBufferFromBytes(data []byte, name string) (*MemoryBuffer, error) {
	const op = "NewMemoryBufferFromBytes"

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	var start *C.char
	if len(data) > 0 {
		start = (*C.char)(unsafe.Pointer(&data[0]))
	}

	buf := C.LLVMCreateMemoryBufferWithMemoryRangeCopy(start, C.size_t(len(data)), cname)
	if buf == nil {
		return nil, constructionFailed(op)
	}

	return newMemoryBuffer(buf), nil
}

// Len returns the size of the buffer in bytes.
func (mb *MemoryBuffer) Len() int {
	mb.lt.mustBeAlive()
	return int(C.LLVMGetBufferSize(mb.c))
}

// Bytes returns a copy of the contents of the buffer.
func (mb *MemoryBuffer) Bytes() []byte {
	mb.lt.mustBeAlive()
	return C.GoBytes(unsafe.Pointer(C.LLVMGetBufferStart(mb.c)), C.int(C.LLVMGetBufferSize(mb.c)))
}

// Dispose releases the buffer.  Disposing a buffer twice is a no-op.
func (mb *MemoryBuffer) Dispose() {
	if mb.lt.dead {
		return
	}

	C.LLVMDisposeMemoryBuffer(mb.c)
	mb.lt.end()
}

// consume marks the buffer as owned by LLVM.  The buffer must not be used or
// disposed afterward.
func (mb *MemoryBuffer) consume() {
	mb.lt.what = "memory buffer (consumed by a parse)"
	mb.lt.end()
}
