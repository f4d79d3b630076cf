package llvm

/*
#include <stdlib.h>

#include "llvm-c/Core.h"
*/
import "C"

import (
	"fmt"
	"reflect"
	"unsafe"
)

// ValueKind represents a kind of LLVM value.
type ValueKind C.LLVMValueKind

// Enumeration of LLVM value kinds.
const (
	ArgumentValueKind              ValueKind = C.LLVMArgumentValueKind
	BasicBlockValueKind            ValueKind = C.LLVMBasicBlockValueKind
	MemoryUseValueKind             ValueKind = C.LLVMMemoryUseValueKind
	MemoryDefValueKind             ValueKind = C.LLVMMemoryDefValueKind
	MemoryPhiValueKind             ValueKind = C.LLVMMemoryPhiValueKind
	FunctionValueKind              ValueKind = C.LLVMFunctionValueKind
	GlobalAliasValueKind           ValueKind = C.LLVMGlobalAliasValueKind
	GlobalIFuncValueKind           ValueKind = C.LLVMGlobalIFuncValueKind
	GlobalVariableValueKind        ValueKind = C.LLVMGlobalVariableValueKind
	BlockAddressValueKind          ValueKind = C.LLVMBlockAddressValueKind
	ConstantExprValueKind          ValueKind = C.LLVMConstantExprValueKind
	ConstantArrayValueKind         ValueKind = C.LLVMConstantArrayValueKind
	ConstantStructValueKind        ValueKind = C.LLVMConstantStructValueKind
	ConstantVectorValueKind        ValueKind = C.LLVMConstantVectorValueKind
	UndefValueValueKind            ValueKind = C.LLVMUndefValueValueKind
	ConstantAggregateZeroValueKind ValueKind = C.LLVMConstantAggregateZeroValueKind
	ConstantDataArrayValueKind     ValueKind = C.LLVMConstantDataArrayValueKind
	ConstantDataVectorValueKind    ValueKind = C.LLVMConstantDataVectorValueKind
	ConstantIntValueKind           ValueKind = C.LLVMConstantIntValueKind
	ConstantFPValueKind            ValueKind = C.LLVMConstantFPValueKind
	ConstantPointerNullValueKind   ValueKind = C.LLVMConstantPointerNullValueKind
	ConstantTokenNoneValueKind     ValueKind = C.LLVMConstantTokenNoneValueKind
	MetadataAsValueValueKind       ValueKind = C.LLVMMetadataAsValueValueKind
	InlineAsmValueKind             ValueKind = C.LLVMInlineAsmValueKind
	InstructionValueKind           ValueKind = C.LLVMInstructionValueKind
	PoisonValueValueKind           ValueKind = C.LLVMPoisonValueValueKind
	ConstantTargetNoneValueKind    ValueKind = C.LLVMConstantTargetNoneValueKind
)

// Value is an interface used to represent all LLVM values.
type Value interface {
	// ptr returns the internal LLVM object pointer to the value.
	ptr() C.LLVMValueRef

	// owner returns the lifetime of the object that owns the value.
	owner() *lifetime

	// Handle returns the raw identity of the value.
	Handle() uintptr

	// IsNil returns whether the value wraps a null handle.
	IsNil() bool

	// Type returns the type of the LLVM value.
	Type() Type

	// Kind returns the kind of the LLVM value.
	Kind() ValueKind

	// Context returns the context the value belongs to.
	Context() *Context

	// Name returns the name of the value.
	Name() string

	// SetName sets the name of the value to name.  LLVM may rename the value
	// to keep names unique within its scope.
	SetName(name string)

	// HasName returns whether the value has a name.
	HasName() bool

	// IsConstant returns whether the value is constant.
	IsConstant() bool

	// IsUndef returns whether the value is `undef`.
	IsUndef() bool

	// IsPoison returns whether the value is `poison`.
	IsPoison() bool

	// ReplaceAllUsesWith replaces every use of the value with v.
	ReplaceAllUsesWith(v Value) error

	// NumUses returns the number of uses of the value.
	NumUses() int

	// Users returns the values which use this value in the order of their
	// uses.  A user using the value more than once appears more than once.
	Users() []Value

	// String returns the textual IR representation of the value.
	String() string

	// Dump prints the value to standard error.
	Dump()
}

// valueBase is the base type for all values.
type valueBase struct {
	c  C.LLVMValueRef
	lt *lifetime
}

func (v valueBase) ptr() C.LLVMValueRef {
	return v.c
}

func (v valueBase) owner() *lifetime {
	return v.lt
}

func (v valueBase) Handle() uintptr {
	return uintptr(unsafe.Pointer(v.c))
}

func (v valueBase) IsNil() bool {
	return v.c == nil
}

func (v valueBase) Type() Type {
	v.lt.mustBeAlive()
	return wrapType(C.LLVMTypeOf(v.c), v.lt.root())
}

func (v valueBase) Kind() ValueKind {
	v.lt.mustBeAlive()
	return ValueKind(C.LLVMGetValueKind(v.c))
}

func (v valueBase) Context() *Context {
	return v.lt.context()
}

func (v valueBase) Name() string {
	v.lt.mustBeAlive()

	var strlen C.size_t
	str := C.LLVMGetValueName2(v.c, byref(&strlen))
	return C.GoStringN(str, C.int(strlen))
}

func (v valueBase) SetName(name string) {
	v.lt.mustBeAlive()

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	C.LLVMSetValueName2(v.c, cname, C.size_t(len(name)))
}

func (v valueBase) HasName() bool {
	return v.Name() != ""
}

func (v valueBase) IsConstant() bool {
	v.lt.mustBeAlive()
	return fromBool(C.LLVMIsConstant(v.c))
}

func (v valueBase) IsUndef() bool {
	v.lt.mustBeAlive()
	return fromBool(C.LLVMIsUndef(v.c))
}

func (v valueBase) IsPoison() bool {
	v.lt.mustBeAlive()
	return fromBool(C.LLVMIsPoison(v.c))
}

func (v valueBase) ReplaceAllUsesWith(nv Value) error {
	const op = "Value.ReplaceAllUsesWith"

	if err := checkValues(op, v, nv); err != nil {
		return err
	}

	if !SameType(v.Type(), nv.Type()) {
		return invalidArg(op, "replacement of type %s does not match type %s", nv.Type(), v.Type())
	}

	C.LLVMReplaceAllUsesWith(v.c, nv.ptr())
	return nil
}

func (v valueBase) NumUses() int {
	v.lt.mustBeAlive()

	n := 0
	for u := C.LLVMGetFirstUse(v.c); u != nil; u = C.LLVMGetNextUse(u) {
		n++
	}

	return n
}

func (v valueBase) Users() []Value {
	v.lt.mustBeAlive()

	var users []Value
	for u := C.LLVMGetFirstUse(v.c); u != nil; u = C.LLVMGetNextUse(u) {
		users = append(users, wrapValue(C.LLVMGetUser(u), v.lt))
	}

	return users
}

func (v valueBase) String() string {
	v.lt.mustBeAlive()
	return messageString(C.LLVMPrintValueToString(v.c))
}

func (v valueBase) Dump() {
	v.lt.mustBeAlive()
	C.LLVMDumpValue(v.c)
}

// -----------------------------------------------------------------------------

// User represents an LLVM value which has operands.
type User interface {
	Value

	// NumOperands returns the number of operands of the value.
	NumOperands() int

	// Operand returns the operand at index ndx.
	Operand(ndx int) (Value, error)

	// SetOperand sets the operand at index ndx to v.
	SetOperand(ndx int, v Value) error

	isUser()
}

// userBase is the base type for all users.
type userBase struct {
	valueBase
}

func (userBase) isUser() {}

func (u userBase) NumOperands() int {
	u.lt.mustBeAlive()
	return int(C.LLVMGetNumOperands(u.c))
}

func (u userBase) checkOperandIndex(op string, ndx int) error {
	if err := u.lt.check(op); err != nil {
		return err
	}

	if n := u.NumOperands(); ndx < 0 || ndx >= n {
		return invalidArg(op, "operand index %d out of range for %d operands", ndx, n)
	}

	return nil
}

func (u userBase) Operand(ndx int) (Value, error) {
	if err := u.checkOperandIndex("User.Operand", ndx); err != nil {
		return nil, err
	}

	return wrapValue(C.LLVMGetOperand(u.c, mustCuint(ndx)), u.lt), nil
}

func (u userBase) SetOperand(ndx int, v Value) error {
	const op = "User.SetOperand"

	if err := u.checkOperandIndex(op, ndx); err != nil {
		return err
	}

	if err := checkValues(op, v); err != nil {
		return err
	}

	C.LLVMSetOperand(u.c, mustCuint(ndx), v.ptr())
	return nil
}

// Operands returns all the operands of the user in order.
func Operands(u User) []Value {
	n := u.NumOperands()
	ops := make([]Value, n)
	for i := range ops {
		ops[i] = wrapValue(C.LLVMGetOperand(u.ptr(), mustCuint(i)), u.owner())
	}

	return ops
}

// -----------------------------------------------------------------------------

// OpaqueValue is a value with no more specific wrapper: inline assembly,
// metadata wrapped as a value, basic blocks used as values and memory SSA
// values.
type OpaqueValue struct {
	valueBase
}

// -----------------------------------------------------------------------------

// wrapValue wraps an LLVM value reference in the Go type matching its value
// kind and, for instructions, its opcode.  lt is the lifetime of the object
// the value was obtained through.
func wrapValue(c C.LLVMValueRef, lt *lifetime) Value {
	vb := valueBase{c: c, lt: lt}
	if c == nil {
		return OpaqueValue{vb}
	}

	ub := userBase{vb}
	cb := constantBase{ub}

	switch ValueKind(C.LLVMGetValueKind(c)) {
	case ArgumentValueKind:
		return Argument{vb}
	case FunctionValueKind:
		return Function{globalObjectBase{globalValueBase{cb}}}
	case GlobalVariableValueKind:
		return GlobalVariable{globalObjectBase{globalValueBase{cb}}}
	case GlobalAliasValueKind, GlobalIFuncValueKind:
		return GlobalAlias{globalValueBase{cb}}
	case ConstantIntValueKind:
		return ConstantInt{cb}
	case ConstantFPValueKind:
		return ConstantFP{cb}
	case ConstantArrayValueKind, ConstantStructValueKind, ConstantVectorValueKind,
		ConstantDataArrayValueKind, ConstantDataVectorValueKind:
		return ConstantAggregate{cb}
	case ConstantExprValueKind:
		return ConstantExpr{cb}
	case BlockAddressValueKind, UndefValueValueKind, PoisonValueValueKind,
		ConstantAggregateZeroValueKind, ConstantPointerNullValueKind,
		ConstantTokenNoneValueKind, ConstantTargetNoneValueKind:
		return ConstantData{cb}
	case InstructionValueKind:
		return wrapInstruction(instructionBase{ub})
	default:
		return OpaqueValue{vb}
	}
}

// Narrow returns v wrapped in the Go type matching its actual kind.  It is
// used to recover the concrete wrapper of a value held as a less specific
// type, eg. an operand or a user.
func Narrow(v Value) Value {
	if v == nil || v.IsNil() {
		return v
	}

	v.owner().mustBeAlive()
	return wrapValue(v.ptr(), v.owner())
}

// Cast narrows v to the wrapper type T if v actually is a T.  The check is
// made against the kind of the underlying LLVM object, not the static type of
// v.
func Cast[T Value](v Value) (T, bool) {
	var zero T
	if v == nil || v.IsNil() {
		return zero, false
	}

	t, ok := Narrow(v).(T)
	return t, ok
}

// MustCast is Cast which panics if v is not a T.
func MustCast[T Value](v Value) T {
	t, ok := Cast[T](v)
	if !ok {
		panic(fmt.Sprintf("llvm: value %s of kind %d is not a %s", describe(v), valueKindOf(v), reflect.TypeFor[T]()))
	}

	return t
}

func describe(v Value) string {
	if v == nil || v.IsNil() {
		return "<nil>"
	}

	if !v.owner().alive() {
		return "<disposed>"
	}

	return v.String()
}

func valueKindOf(v Value) int {
	if v == nil || v.IsNil() || !v.owner().alive() {
		return -1
	}

	return int(v.Kind())
}
