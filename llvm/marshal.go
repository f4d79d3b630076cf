package llvm

/*
#include <stdlib.h>

#include "llvm-c/Core.h"
*/
import "C"

import (
	"unsafe"

	"fortio.org/safecast"
)

// Iterator represents an iterator of LLVM objects.  This is needed because many
// LLVM C API's don't expose a way to access elements by index but do allow you
// to iterate over them.  The pattern for using iterators is as follows:
//
//	for it := v.Items(); it.Next(); {
//		item := it.Item()
//		..
//	}
type Iterator[T any] interface {
	// Item returns the current item the iterator is positioned over if it
	// exists.  If the item does not exist, the return value is invalid.
	Item() T

	// Next moves the iterator forward one element if an element exists. It
	// returns whether or not it was able to move the iterator forward. Next
	// should be called to get the first element.
	Next() bool
}

// Collect drains an iterator into a slice.
func Collect[T any](it Iterator[T]) []T {
	var items []T
	for it.Next() {
		items = append(items, it.Item())
	}

	return items
}

// -----------------------------------------------------------------------------

// byref passes a Go value by reference to C.
func byref[T any](v *T) *T {
	return (*T)(unsafe.Pointer(v))
}

// llvmBool converts a boolean value to an LLVMBool.
func llvmBool(v bool) C.LLVMBool {
	if v {
		return 1
	}

	return 0
}

// fromBool converts an LLVMBool to a boolean: any nonzero value is true.
func fromBool(v C.LLVMBool) bool {
	return v != 0
}

// cuint narrows a Go count or index to a C `unsigned`.
func cuint(op string, n int) (C.uint, error) {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return 0, invalidArg(op, "%d is not a valid count or index", n)
	}

	return C.uint(v), nil
}

// mustCuint is cuint for indices which have already been bounds checked.
func mustCuint(n int) C.uint {
	v, err := cuint("index", n)
	if err != nil {
		panic(err)
	}

	return v
}

// messageString converts a message allocated by LLVM to a Go string and
// releases the message.
func messageString(msg *C.char) string {
	if msg == nil {
		return ""
	}

	defer C.LLVMDisposeMessage(msg)
	return C.GoString(msg)
}

// -----------------------------------------------------------------------------

// checkValues verifies that every value is non-nil and still alive.
func checkValues(op string, vals ...Value) error {
	for i, v := range vals {
		if v == nil || v.IsNil() {
			return invalidArg(op, "value operand %d is nil", i)
		}

		if err := v.owner().check(op); err != nil {
			return err
		}
	}

	return nil
}

// checkTypes verifies that every type is non-nil and still alive.
func checkTypes(op string, typs ...Type) error {
	for i, t := range typs {
		if t == nil || t.IsNil() {
			return invalidArg(op, "type operand %d is nil", i)
		}

		if err := t.owner().check(op); err != nil {
			return err
		}
	}

	return nil
}

// checkBlocks verifies that every basic block is non-nil and still alive.
func checkBlocks(op string, bbs ...BasicBlock) error {
	for i, bb := range bbs {
		if bb.c == nil {
			return invalidArg(op, "block operand %d is nil", i)
		}

		if err := bb.lt.check(op); err != nil {
			return err
		}
	}

	return nil
}

// valueRefs packs a list of values into a contiguous array of value handles
// preserving their order.  It returns a nil pointer for an empty list.
func valueRefs(vals []Value) (*C.LLVMValueRef, C.uint) {
	if len(vals) == 0 {
		return nil, 0
	}

	refs := make([]C.LLVMValueRef, len(vals))
	for i, v := range vals {
		refs[i] = v.ptr()
	}

	return byref(&refs[0]), mustCuint(len(vals))
}

// constantRefs is valueRefs for constants.
func constantRefs(vals []Constant) (*C.LLVMValueRef, C.uint) {
	if len(vals) == 0 {
		return nil, 0
	}

	refs := make([]C.LLVMValueRef, len(vals))
	for i, v := range vals {
		refs[i] = v.ptr()
	}

	return byref(&refs[0]), mustCuint(len(vals))
}

// typeRefs packs a list of types into a contiguous array of type handles.
func typeRefs(typs []Type) (*C.LLVMTypeRef, C.uint) {
	if len(typs) == 0 {
		return nil, 0
	}

	refs := make([]C.LLVMTypeRef, len(typs))
	for i, t := range typs {
		refs[i] = t.ptr()
	}

	return byref(&refs[0]), mustCuint(len(typs))
}

// withName calls fn with name converted to a C string.
func withName(name string, fn func(cname *C.char) C.LLVMValueRef) C.LLVMValueRef {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	return fn(cname)
}

// constants returns the constants as a list of values.
func constantsAsValues(cs []Constant) []Value {
	vals := make([]Value, len(cs))
	for i, c := range cs {
		vals[i] = c
	}

	return vals
}
