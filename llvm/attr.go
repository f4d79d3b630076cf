package llvm

/*
#include <stdlib.h>

#include "llvm-c/Core.h"
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// AttributeIndex selects what an attribute of a function or call site applies
// to: the function itself, its return value, or one of its parameters.
type AttributeIndex int

// The indices of the function and its return value.  Use ParamIndex for
// parameters.
const (
	FunctionIndex AttributeIndex = -1
	ReturnIndex   AttributeIndex = 0
)

// ParamIndex returns the attribute index of the parameter ndx.
func ParamIndex(ndx int) AttributeIndex {
	return AttributeIndex(ndx + 1)
}

func (ai AttributeIndex) String() string {
	switch ai {
	case FunctionIndex:
		return "function"
	case ReturnIndex:
		return "return"
	default:
		return fmt.Sprintf("param %d", int(ai)-1)
	}
}

func (ai AttributeIndex) c() C.LLVMAttributeIndex {
	return C.LLVMAttributeIndex(uint32(int32(ai)))
}

// check verifies that ai refers to the function, its return value or one
// of its nparams parameters.
func (ai AttributeIndex) check(op string, nparams int) error {
	if ai < FunctionIndex || int(ai) > nparams {
		return invalidArg(op, "attribute index %d out of range for %d parameters", int(ai), nparams)
	}

	return nil
}

// -----------------------------------------------------------------------------

// Attribute represents an LLVM attribute.  Attributes are uniqued by their
// context.
type Attribute struct {
	c  C.LLVMAttributeRef
	lt *lifetime
}

// AttributeKindByName returns the kind of the enum attribute named name, eg.
// `noinline`.
func AttributeKindByName(name string) (uint, bool) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	kind := uint(C.LLVMGetEnumAttributeKindForName(cname, C.size_t(len(name))))
	return kind, kind != 0
}

func enumKind(op, name string) (C.uint, error) {
	kind, ok := AttributeKindByName(name)
	if !ok {
		return 0, invalidArg(op, "unknown attribute %q", name)
	}

	return C.uint(kind), nil
}

// EnumAttribute creates the enum attribute named name with the integer
// argument val.  Attributes without an argument take a zero val.
func (c *Context) EnumAttribute(name string, val uint64) (Attribute, error) {
	const op = "Context.EnumAttribute"

	if err := c.lt.check(op); err != nil {
		return Attribute{}, err
	}

	kind, err := enumKind(op, name)
	if err != nil {
		return Attribute{}, err
	}

	attr := C.LLVMCreateEnumAttribute(c.c, kind, C.uint64_t(val))
	if attr == nil {
		return Attribute{}, constructionFailed(op)
	}

	return Attribute{c: attr, lt: c.lt}, nil
}

// TypeAttribute creates the type attribute named name, eg. `sret`.
func (c *Context) TypeAttribute(name string, typ Type) (Attribute, error) {
	const op = "Context.TypeAttribute"

	if err := c.lt.check(op); err != nil {
		return Attribute{}, err
	}

	if err := checkTypes(op, typ); err != nil {
		return Attribute{}, err
	}

	kind, err := enumKind(op, name)
	if err != nil {
		return Attribute{}, err
	}

	attr := C.LLVMCreateTypeAttribute(c.c, kind, typ.ptr())
	if attr == nil {
		return Attribute{}, constructionFailed(op)
	}

	return Attribute{c: attr, lt: c.lt}, nil
}

// StringAttribute creates a string attribute with the given key and value.
func (c *Context) StringAttribute(key, val string) (Attribute, error) {
	const op = "Context.StringAttribute"

	if err := c.lt.check(op); err != nil {
		return Attribute{}, err
	}

	ckey := C.CString(key)
	defer C.free(unsafe.Pointer(ckey))

	cval := C.CString(val)
	defer C.free(unsafe.Pointer(cval))

	attr := C.LLVMCreateStringAttribute(c.c, ckey, C.uint(len(key)), cval, C.uint(len(val)))
	if attr == nil {
		return Attribute{}, constructionFailed(op)
	}

	return Attribute{c: attr, lt: c.lt}, nil
}

// IsString returns whether the attribute is a string attribute.
func (a Attribute) IsString() bool {
	a.lt.mustBeAlive()
	return fromBool(C.LLVMIsStringAttribute(a.c))
}

// IsType returns whether the attribute is a type attribute.
func (a Attribute) IsType() bool {
	a.lt.mustBeAlive()
	return fromBool(C.LLVMIsTypeAttribute(a.c))
}

// Kind returns the kind of an enum or type attribute.
func (a Attribute) Kind() uint {
	a.lt.mustBeAlive()
	return uint(C.LLVMGetEnumAttributeKind(a.c))
}

// Value returns the integer argument of an enum attribute.
func (a Attribute) Value() uint64 {
	a.lt.mustBeAlive()
	return uint64(C.LLVMGetEnumAttributeValue(a.c))
}

// TypeValue returns the type argument of a type attribute.
func (a Attribute) TypeValue() Type {
	a.lt.mustBeAlive()
	return wrapType(C.LLVMGetTypeAttributeValue(a.c), a.lt)
}

// Key returns the key of a string attribute.
func (a Attribute) Key() string {
	a.lt.mustBeAlive()

	var n C.uint
	ckey := C.LLVMGetStringAttributeKind(a.c, byref(&n))
	return C.GoStringN(ckey, C.int(n))
}

// StringValue returns the value of a string attribute.
func (a Attribute) StringValue() string {
	a.lt.mustBeAlive()

	var n C.uint
	cval := C.LLVMGetStringAttributeValue(a.c, byref(&n))
	return C.GoStringN(cval, C.int(n))
}

// -----------------------------------------------------------------------------

// AddAttribute adds attr to the function at ndx.
func (f Function) AddAttribute(ndx AttributeIndex, attr Attribute) error {
	const op = "Function.AddAttribute"

	if err := f.lt.check(op); err != nil {
		return err
	}

	if err := attr.lt.check(op); err != nil {
		return err
	}

	if err := ndx.check(op, f.NumParams()); err != nil {
		return err
	}

	C.LLVMAddAttributeAtIndex(f.c, ndx.c(), attr.c)
	return nil
}

// Attributes returns the attributes of the function at ndx.
func (f Function) Attributes(ndx AttributeIndex) []Attribute {
	f.lt.mustBeAlive()

	if ndx.check("", f.NumParams()) != nil {
		return nil
	}

	n := int(C.LLVMGetAttributeCountAtIndex(f.c, ndx.c()))
	if n == 0 {
		return nil
	}

	refs := make([]C.LLVMAttributeRef, n)
	C.LLVMGetAttributesAtIndex(f.c, ndx.c(), byref(&refs[0]))
	return wrapAttributes(refs, f.lt.root())
}

// EnumAttribute returns the enum attribute named name of the function at ndx.
func (f Function) EnumAttribute(ndx AttributeIndex, name string) (Attribute, bool) {
	f.lt.mustBeAlive()

	kind, ok := AttributeKindByName(name)
	if !ok {
		return Attribute{}, false
	}

	attr := C.LLVMGetEnumAttributeAtIndex(f.c, ndx.c(), C.uint(kind))
	if attr == nil {
		return Attribute{}, false
	}

	return Attribute{c: attr, lt: f.lt.root()}, true
}

// StringAttribute returns the string attribute with the given key of the
// function at ndx.
func (f Function) StringAttribute(ndx AttributeIndex, key string) (Attribute, bool) {
	f.lt.mustBeAlive()

	ckey := C.CString(key)
	defer C.free(unsafe.Pointer(ckey))

	attr := C.LLVMGetStringAttributeAtIndex(f.c, ndx.c(), ckey, C.uint(len(key)))
	if attr == nil {
		return Attribute{}, false
	}

	return Attribute{c: attr, lt: f.lt.root()}, true
}

// RemoveEnumAttribute removes the enum attribute named name of the function at
// ndx if it is present.
func (f Function) RemoveEnumAttribute(ndx AttributeIndex, name string) error {
	const op = "Function.RemoveEnumAttribute"

	if err := f.lt.check(op); err != nil {
		return err
	}

	kind, err := enumKind(op, name)
	if err != nil {
		return err
	}

	C.LLVMRemoveEnumAttributeAtIndex(f.c, ndx.c(), kind)
	return nil
}

// RemoveStringAttribute removes the string attribute with the given key of
// the function at ndx if it is present.
func (f Function) RemoveStringAttribute(ndx AttributeIndex, key string) error {
	const op = "Function.RemoveStringAttribute"

	if err := f.lt.check(op); err != nil {
		return err
	}

	ckey := C.CString(key)
	defer C.free(unsafe.Pointer(ckey))

	C.LLVMRemoveStringAttributeAtIndex(f.c, ndx.c(), ckey, C.uint(len(key)))
	return nil
}

// AddAttribute adds attr to the call site at ndx.
func (cs callSite) AddAttribute(ndx AttributeIndex, attr Attribute) error {
	const op = "AddCallSiteAttribute"

	if err := cs.lt.check(op); err != nil {
		return err
	}

	if err := attr.lt.check(op); err != nil {
		return err
	}

	if err := ndx.check(op, cs.NumArgs()); err != nil {
		return err
	}

	C.LLVMAddCallSiteAttribute(cs.c, ndx.c(), attr.c)
	return nil
}

// Attributes returns the attributes of the call site at ndx.
func (cs callSite) Attributes(ndx AttributeIndex) []Attribute {
	cs.lt.mustBeAlive()

	if ndx.check("", cs.NumArgs()) != nil {
		return nil
	}

	n := int(C.LLVMGetCallSiteAttributeCount(cs.c, ndx.c()))
	if n == 0 {
		return nil
	}

	refs := make([]C.LLVMAttributeRef, n)
	C.LLVMGetCallSiteAttributes(cs.c, ndx.c(), byref(&refs[0]))
	return wrapAttributes(refs, cs.lt.root())
}

func wrapAttributes(refs []C.LLVMAttributeRef, lt *lifetime) []Attribute {
	attrs := make([]Attribute, len(refs))
	for i, ref := range refs {
		attrs[i] = Attribute{c: ref, lt: lt}
	}

	return attrs
}
