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

// TypeKind identifies a specific kind of LLVM type.
type TypeKind C.LLVMTypeKind

// Enumeration of different possible type kinds.
const (
	VoidTypeKind           TypeKind = C.LLVMVoidTypeKind
	HalfTypeKind           TypeKind = C.LLVMHalfTypeKind
	BFloatTypeKind         TypeKind = C.LLVMBFloatTypeKind
	FloatTypeKind          TypeKind = C.LLVMFloatTypeKind
	DoubleTypeKind         TypeKind = C.LLVMDoubleTypeKind
	X86_FP80TypeKind       TypeKind = C.LLVMX86_FP80TypeKind
	FP128TypeKind          TypeKind = C.LLVMFP128TypeKind
	PPC_FP128TypeKind      TypeKind = C.LLVMPPC_FP128TypeKind
	LabelTypeKind          TypeKind = C.LLVMLabelTypeKind
	IntegerTypeKind        TypeKind = C.LLVMIntegerTypeKind
	FunctionTypeKind       TypeKind = C.LLVMFunctionTypeKind
	StructTypeKind         TypeKind = C.LLVMStructTypeKind
	ArrayTypeKind          TypeKind = C.LLVMArrayTypeKind
	PointerTypeKind        TypeKind = C.LLVMPointerTypeKind
	VectorTypeKind         TypeKind = C.LLVMVectorTypeKind
	MetadataTypeKind       TypeKind = C.LLVMMetadataTypeKind
	X86_MMXTypeKind        TypeKind = C.LLVMX86_MMXTypeKind
	TokenTypeKind          TypeKind = C.LLVMTokenTypeKind
	ScalableVectorTypeKind TypeKind = C.LLVMScalableVectorTypeKind
	X86_AMXTypeKind        TypeKind = C.LLVMX86_AMXTypeKind
	TargetExtTypeKind      TypeKind = C.LLVMTargetExtTypeKind
)

var typeKindNames = map[TypeKind]string{
	VoidTypeKind:           "void",
	HalfTypeKind:           "half",
	BFloatTypeKind:         "bfloat",
	FloatTypeKind:          "float",
	DoubleTypeKind:         "double",
	X86_FP80TypeKind:       "x86_fp80",
	FP128TypeKind:          "fp128",
	PPC_FP128TypeKind:      "ppc_fp128",
	LabelTypeKind:          "label",
	IntegerTypeKind:        "integer",
	FunctionTypeKind:       "function",
	StructTypeKind:         "struct",
	ArrayTypeKind:          "array",
	PointerTypeKind:        "pointer",
	VectorTypeKind:         "vector",
	MetadataTypeKind:       "metadata",
	X86_MMXTypeKind:        "x86_mmx",
	TokenTypeKind:          "token",
	ScalableVectorTypeKind: "scalable vector",
	X86_AMXTypeKind:        "x86_amx",
	TargetExtTypeKind:      "target extension",
}

func (tk TypeKind) String() string {
	if name, ok := typeKindNames[tk]; ok {
		return name
	}

	return fmt.Sprintf("TypeKind(%d)", int(tk))
}

// The bounds on the bit width of an integer type.
const (
	MinIntBits = 1
	MaxIntBits = 1 << 23
)

// Type is an interface used to represent all LLVM types.
type Type interface {
	// ptr returns the internal LLVM object pointer to the type.
	ptr() C.LLVMTypeRef

	// owner returns the lifetime of the context the type belongs to.
	owner() *lifetime

	// Handle returns the raw identity of the type.  Types are uniqued by their
	// context so two types are the same iff their handles are equal.
	Handle() uintptr

	// IsNil returns whether the type wraps a null handle.
	IsNil() bool

	// Kind returns the type's type kind.
	Kind() TypeKind

	// Sized returns whether or not the type is sized.
	Sized() bool

	// Context returns the context that owns the type.
	Context() *Context

	// String returns the textual IR representation of the type.
	String() string

	// Dump prints the type to standard error.
	Dump()

	IsIntegerTy() bool
	IsPointerTy() bool
	IsFloatingPointTy() bool
	IsVoidTy() bool
	IsFunctionTy() bool
	IsStructTy() bool
	IsArrayTy() bool
	IsVectorTy() bool
	IsLabelTy() bool
	IsMetadataTy() bool
	IsTokenTy() bool

	// IsAggregateType returns whether the type is a struct or an array.
	IsAggregateType() bool

	// IsSingleValueType returns whether values of the type can be held in a
	// register.
	IsSingleValueType() bool

	// IsFirstClassType returns whether values of the type can be produced by
	// an instruction.
	IsFirstClassType() bool
}

// SameType returns whether a and b are the same type.
func SameType(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.Handle() == b.Handle()
}

// typeBase is the base struct used to build LLVM types.
type typeBase struct {
	c  C.LLVMTypeRef
	lt *lifetime
}

func (tb typeBase) ptr() C.LLVMTypeRef {
	return tb.c
}

func (tb typeBase) owner() *lifetime {
	return tb.lt
}

func (tb typeBase) Handle() uintptr {
	return uintptr(unsafe.Pointer(tb.c))
}

func (tb typeBase) IsNil() bool {
	return tb.c == nil
}

func (tb typeBase) Kind() TypeKind {
	tb.lt.mustBeAlive()
	return TypeKind(C.LLVMGetTypeKind(tb.c))
}

func (tb typeBase) Sized() bool {
	tb.lt.mustBeAlive()
	return fromBool(C.LLVMTypeIsSized(tb.c))
}

func (tb typeBase) Context() *Context {
	return tb.lt.context()
}

func (tb typeBase) String() string {
	tb.lt.mustBeAlive()
	return messageString(C.LLVMPrintTypeToString(tb.c))
}

func (tb typeBase) Dump() {
	tb.lt.mustBeAlive()
	C.LLVMDumpType(tb.c)
}

func (tb typeBase) IsIntegerTy() bool {
	return tb.Kind() == IntegerTypeKind
}

func (tb typeBase) IsPointerTy() bool {
	return tb.Kind() == PointerTypeKind
}

func (tb typeBase) IsFloatingPointTy() bool {
	switch tb.Kind() {
	case HalfTypeKind, BFloatTypeKind, FloatTypeKind, DoubleTypeKind,
		X86_FP80TypeKind, FP128TypeKind, PPC_FP128TypeKind:
		return true
	}

	return false
}

func (tb typeBase) IsVoidTy() bool {
	return tb.Kind() == VoidTypeKind
}

func (tb typeBase) IsFunctionTy() bool {
	return tb.Kind() == FunctionTypeKind
}

func (tb typeBase) IsStructTy() bool {
	return tb.Kind() == StructTypeKind
}

func (tb typeBase) IsArrayTy() bool {
	return tb.Kind() == ArrayTypeKind
}

func (tb typeBase) IsVectorTy() bool {
	kind := tb.Kind()
	return kind == VectorTypeKind || kind == ScalableVectorTypeKind
}

func (tb typeBase) IsLabelTy() bool {
	return tb.Kind() == LabelTypeKind
}

func (tb typeBase) IsMetadataTy() bool {
	return tb.Kind() == MetadataTypeKind
}

func (tb typeBase) IsTokenTy() bool {
	return tb.Kind() == TokenTypeKind
}

func (tb typeBase) IsAggregateType() bool {
	return tb.IsStructTy() || tb.IsArrayTy()
}

func (tb typeBase) IsSingleValueType() bool {
	if tb.IsFloatingPointTy() || tb.IsVectorTy() {
		return true
	}

	switch tb.Kind() {
	case IntegerTypeKind, PointerTypeKind, X86_MMXTypeKind, X86_AMXTypeKind:
		return true
	}

	return false
}

func (tb typeBase) IsFirstClassType() bool {
	kind := tb.Kind()
	return kind != FunctionTypeKind && kind != VoidTypeKind
}

// -----------------------------------------------------------------------------

// wrapType wraps an LLVM type reference in the Go type matching its kind.
func wrapType(c C.LLVMTypeRef, lt *lifetime) Type {
	tb := typeBase{c: c, lt: lt}
	if c == nil {
		return tb
	}

	switch TypeKind(C.LLVMGetTypeKind(c)) {
	case IntegerTypeKind:
		return IntegerType{tb}
	case FunctionTypeKind:
		return FunctionType{tb}
	case PointerTypeKind:
		return PointerType{tb}
	case ArrayTypeKind:
		return ArrayType{tb}
	case VectorTypeKind, ScalableVectorTypeKind:
		return VectorType{tb}
	case StructTypeKind:
		return StructType{tb}
	default:
		return tb
	}
}

// NarrowType returns t wrapped in the Go type matching its type kind.
func NarrowType(t Type) Type {
	if t == nil || t.IsNil() {
		return t
	}

	t.owner().mustBeAlive()
	return wrapType(t.ptr(), t.owner())
}

// CastType narrows t to the type T if t's kind corresponds to T.
func CastType[T Type](t Type) (T, bool) {
	var zero T
	if t == nil || t.IsNil() {
		return zero, false
	}

	tt, ok := NarrowType(t).(T)
	return tt, ok
}

// -----------------------------------------------------------------------------

// IntegerType represents an LLVM integer type.
type IntegerType struct {
	typeBase
}

// BitWidth returns the bit width of the integer type.
func (it IntegerType) BitWidth() int {
	it.lt.mustBeAlive()
	return int(C.LLVMGetIntTypeWidth(it.c))
}

// IntType returns the integer type with the given bit width.
func (c *Context) IntType(bits int) (IntegerType, error) {
	const op = "Context.IntType"

	if err := c.lt.check(op); err != nil {
		return IntegerType{}, err
	}

	if bits < MinIntBits || bits > MaxIntBits {
		return IntegerType{}, invalidArg(op, "bit width %d is outside [%d, %d]", bits, MinIntBits, MaxIntBits)
	}

	t := C.LLVMIntTypeInContext(c.c, mustCuint(bits))
	if t == nil {
		return IntegerType{}, constructionFailed(op)
	}

	return IntegerType{typeBase{c: t, lt: c.lt}}, nil
}

// intType returns an integer type created by fn.
func (c *Context) intType(fn func(C.LLVMContextRef) C.LLVMTypeRef) IntegerType {
	c.lt.mustBeAlive()
	return IntegerType{typeBase{c: fn(c.c), lt: c.lt}}
}

// Int1Type returns the `i1` type in the context.
func (c *Context) Int1Type() IntegerType {
	return c.intType(func(cc C.LLVMContextRef) C.LLVMTypeRef { return C.LLVMInt1TypeInContext(cc) })
}

// Int8Type returns the `i8` type in the context.
func (c *Context) Int8Type() IntegerType {
	return c.intType(func(cc C.LLVMContextRef) C.LLVMTypeRef { return C.LLVMInt8TypeInContext(cc) })
}

// Int16Type returns the `i16` type in the context.
func (c *Context) Int16Type() IntegerType {
	return c.intType(func(cc C.LLVMContextRef) C.LLVMTypeRef { return C.LLVMInt16TypeInContext(cc) })
}

// Int32Type returns the `i32` type in the context.
func (c *Context) Int32Type() IntegerType {
	return c.intType(func(cc C.LLVMContextRef) C.LLVMTypeRef { return C.LLVMInt32TypeInContext(cc) })
}

// Int64Type returns the `i64` type in the context.
func (c *Context) Int64Type() IntegerType {
	return c.intType(func(cc C.LLVMContextRef) C.LLVMTypeRef { return C.LLVMInt64TypeInContext(cc) })
}

// Int128Type returns the `i128` type in the context.
func (c *Context) Int128Type() IntegerType {
	return c.intType(func(cc C.LLVMContextRef) C.LLVMTypeRef { return C.LLVMInt128TypeInContext(cc) })
}

// -----------------------------------------------------------------------------

// simpleType returns a type with no parameters created by fn.
func (c *Context) simpleType(fn func(C.LLVMContextRef) C.LLVMTypeRef) Type {
	c.lt.mustBeAlive()
	return typeBase{c: fn(c.c), lt: c.lt}
}

// HalfType returns the 16-bit floating point type.
func (c *Context) HalfType() Type {
	return c.simpleType(func(cc C.LLVMContextRef) C.LLVMTypeRef { return C.LLVMHalfTypeInContext(cc) })
}

// BFloatType returns the 16-bit brain floating point type.
func (c *Context) BFloatType() Type {
	return c.simpleType(func(cc C.LLVMContextRef) C.LLVMTypeRef { return C.LLVMBFloatTypeInContext(cc) })
}

// FloatType returns the 32-bit floating point type.
func (c *Context) FloatType() Type {
	return c.simpleType(func(cc C.LLVMContextRef) C.LLVMTypeRef { return C.LLVMFloatTypeInContext(cc) })
}

// DoubleType returns the 64-bit floating point type.
func (c *Context) DoubleType() Type {
	return c.simpleType(func(cc C.LLVMContextRef) C.LLVMTypeRef { return C.LLVMDoubleTypeInContext(cc) })
}

// X86FP80Type returns the 80-bit x87 floating point type.
func (c *Context) X86FP80Type() Type {
	return c.simpleType(func(cc C.LLVMContextRef) C.LLVMTypeRef { return C.LLVMX86FP80TypeInContext(cc) })
}

// FP128Type returns the 128-bit floating point type.
func (c *Context) FP128Type() Type {
	return c.simpleType(func(cc C.LLVMContextRef) C.LLVMTypeRef { return C.LLVMFP128TypeInContext(cc) })
}

// PPCFP128Type returns the 128-bit PowerPC floating point type.
func (c *Context) PPCFP128Type() Type {
	return c.simpleType(func(cc C.LLVMContextRef) C.LLVMTypeRef { return C.LLVMPPCFP128TypeInContext(cc) })
}

// VoidType returns the `void` type.
func (c *Context) VoidType() Type {
	return c.simpleType(func(cc C.LLVMContextRef) C.LLVMTypeRef { return C.LLVMVoidTypeInContext(cc) })
}

// LabelType returns the `label` type.
func (c *Context) LabelType() Type {
	return c.simpleType(func(cc C.LLVMContextRef) C.LLVMTypeRef { return C.LLVMLabelTypeInContext(cc) })
}

// MetadataType returns the `metadata` type.
func (c *Context) MetadataType() Type {
	return c.simpleType(func(cc C.LLVMContextRef) C.LLVMTypeRef { return C.LLVMMetadataTypeInContext(cc) })
}

// TokenType returns the `token` type.
func (c *Context) TokenType() Type {
	return c.simpleType(func(cc C.LLVMContextRef) C.LLVMTypeRef { return C.LLVMTokenTypeInContext(cc) })
}

// -----------------------------------------------------------------------------

// PointerType represents an LLVM pointer type.  All pointers are opaque.
type PointerType struct {
	typeBase
}

// PointerType returns the pointer type in the address space addrSpace.
func (c *Context) PointerType(addrSpace int) (PointerType, error) {
	const op = "Context.PointerType"

	if err := c.lt.check(op); err != nil {
		return PointerType{}, err
	}

	as, err := cuint(op, addrSpace)
	if err != nil {
		return PointerType{}, err
	}

	return PointerType{typeBase{c: C.LLVMPointerTypeInContext(c.c, as), lt: c.lt}}, nil
}

// PointerTo returns the pointer type in addrSpace that would point to elem.
// Since pointers are opaque, this is the same as the context's pointer type in
// that address space.
func PointerTo(elem Type, addrSpace int) (PointerType, error) {
	const op = "PointerTo"

	if err := checkTypes(op, elem); err != nil {
		return PointerType{}, err
	}

	switch elem.Kind() {
	case VoidTypeKind, LabelTypeKind, MetadataTypeKind, TokenTypeKind:
		return PointerType{}, invalidArg(op, "can not point to values of type %s", elem)
	}

	as, err := cuint(op, addrSpace)
	if err != nil {
		return PointerType{}, err
	}

	return PointerType{typeBase{c: C.LLVMPointerType(elem.ptr(), as), lt: elem.owner()}}, nil
}

// AddrSpace returns the address space of the pointer.
func (pt PointerType) AddrSpace() int {
	pt.lt.mustBeAlive()
	return int(C.LLVMGetPointerAddressSpace(pt.c))
}

// -----------------------------------------------------------------------------

// FunctionType represents an LLVM function type.
type FunctionType struct {
	typeBase
}

// FunctionType returns the function type with the given return type and
// parameter types.
func (c *Context) FunctionType(returnType Type, paramTypes []Type, isVarArg bool) (FunctionType, error) {
	const op = "Context.FunctionType"

	if err := c.lt.check(op); err != nil {
		return FunctionType{}, err
	}

	if err := checkTypes(op, returnType); err != nil {
		return FunctionType{}, err
	}

	switch returnType.Kind() {
	case FunctionTypeKind, LabelTypeKind, MetadataTypeKind:
		return FunctionType{}, invalidArg(op, "invalid return type %s", returnType)
	}

	if err := checkTypes(op, paramTypes...); err != nil {
		return FunctionType{}, err
	}

	for i, pt := range paramTypes {
		if !pt.IsFirstClassType() || pt.IsLabelTy() {
			return FunctionType{}, invalidArg(op, "parameter %d has invalid type %s", i, pt)
		}
	}

	paramArrPtr, numParams := typeRefs(paramTypes)
	ft := C.LLVMFunctionType(returnType.ptr(), paramArrPtr, numParams, llvmBool(isVarArg))
	if ft == nil {
		return FunctionType{}, constructionFailed(op)
	}

	return FunctionType{typeBase{c: ft, lt: c.lt}}, nil
}

// IsVarArg returns whether or not the function is variadic.
func (ft FunctionType) IsVarArg() bool {
	ft.lt.mustBeAlive()
	return fromBool(C.LLVMIsFunctionVarArg(ft.c))
}

// ReturnType returns the return type of the function.
func (ft FunctionType) ReturnType() Type {
	ft.lt.mustBeAlive()
	return wrapType(C.LLVMGetReturnType(ft.c), ft.lt)
}

// NumParams returns the number of parameters of the function.
func (ft FunctionType) NumParams() int {
	ft.lt.mustBeAlive()
	return int(C.LLVMCountParamTypes(ft.c))
}

// Params returns the parameter types of the function.
func (ft FunctionType) Params() []Type {
	numParams := ft.NumParams()

	if numParams == 0 {
		return nil
	}

	paramArr := make([]C.LLVMTypeRef, numParams)
	C.LLVMGetParamTypes(ft.c, byref(&paramArr[0]))

	params := make([]Type, numParams)
	for i, paramPtr := range paramArr {
		params[i] = wrapType(paramPtr, ft.lt)
	}

	return params
}

// -----------------------------------------------------------------------------

// StructType represents an LLVM struct type.
type StructType struct {
	typeBase
}

// StructType returns the literal struct type with the given element types.
func (c *Context) StructType(elemTypes []Type, packed bool) (StructType, error) {
	const op = "Context.StructType"

	if err := c.lt.check(op); err != nil {
		return StructType{}, err
	}

	if err := checkStructElems(op, elemTypes); err != nil {
		return StructType{}, err
	}

	elemArrPtr, numElems := typeRefs(elemTypes)
	st := C.LLVMStructTypeInContext(c.c, elemArrPtr, numElems, llvmBool(packed))
	if st == nil {
		return StructType{}, constructionFailed(op)
	}

	return StructType{typeBase{c: st, lt: c.lt}}, nil
}

// NamedStructType creates a new opaque named struct type.  If the name is
// already taken in the context, LLVM renames the new struct to be unique.
func (c *Context) NamedStructType(name string) (StructType, error) {
	const op = "Context.NamedStructType"

	if err := c.lt.check(op); err != nil {
		return StructType{}, err
	}

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	st := C.LLVMStructCreateNamed(c.c, cname)
	if st == nil {
		return StructType{}, constructionFailed(op)
	}

	return StructType{typeBase{c: st, lt: c.lt}}, nil
}

// GetTypeByName looks up a named struct type in the context.
func (c *Context) GetTypeByName(name string) (StructType, bool) {
	c.lt.mustBeAlive()

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	st := C.LLVMGetTypeByName2(c.c, cname)
	if st == nil {
		return StructType{}, false
	}

	return StructType{typeBase{c: st, lt: c.lt}}, true
}

func checkStructElems(op string, elemTypes []Type) error {
	if err := checkTypes(op, elemTypes...); err != nil {
		return err
	}

	for i, et := range elemTypes {
		if !et.Sized() && !et.IsStructTy() || et.IsVoidTy() || et.IsFunctionTy() {
			return invalidArg(op, "element %d has invalid type %s", i, et)
		}
	}

	return nil
}

// SetBody sets the element types of an opaque named struct.
func (st StructType) SetBody(elemTypes []Type, packed bool) error {
	const op = "StructType.SetBody"

	if err := st.lt.check(op); err != nil {
		return err
	}

	if err := checkStructElems(op, elemTypes); err != nil {
		return err
	}

	elemArrPtr, numElems := typeRefs(elemTypes)
	C.LLVMStructSetBody(st.c, elemArrPtr, numElems, llvmBool(packed))
	return nil
}

// Name returns the name of the struct type if it has one.
func (st StructType) Name() (string, bool) {
	st.lt.mustBeAlive()

	name := C.LLVMGetStructName(st.c)
	if name == nil {
		return "", false
	}

	return C.GoString(name), true
}

// IsOpaque returns whether the struct has no body.
func (st StructType) IsOpaque() bool {
	st.lt.mustBeAlive()
	return fromBool(C.LLVMIsOpaqueStruct(st.c))
}

// IsPacked returns whether the struct is packed.
func (st StructType) IsPacked() bool {
	st.lt.mustBeAlive()
	return fromBool(C.LLVMIsPackedStruct(st.c))
}

// IsLiteral returns whether the struct is a literal (unnamed) struct.
func (st StructType) IsLiteral() bool {
	st.lt.mustBeAlive()
	return fromBool(C.LLVMIsLiteralStruct(st.c))
}

// NumElements returns the number of elements of the struct.
func (st StructType) NumElements() int {
	st.lt.mustBeAlive()
	return int(C.LLVMCountStructElementTypes(st.c))
}

// ElementType returns the type of the element at index ndx.
func (st StructType) ElementType(ndx int) (Type, error) {
	if ndx < 0 || ndx >= st.NumElements() {
		return nil, invalidArg("StructType.ElementType", "index %d out of range", ndx)
	}

	return wrapType(C.LLVMStructGetTypeAtIndex(st.c, mustCuint(ndx)), st.lt), nil
}

// Elements returns the element types of the struct.
func (st StructType) Elements() []Type {
	n := st.NumElements()
	if n == 0 {
		return nil
	}

	elemArr := make([]C.LLVMTypeRef, n)
	C.LLVMGetStructElementTypes(st.c, byref(&elemArr[0]))

	elems := make([]Type, n)
	for i, e := range elemArr {
		elems[i] = wrapType(e, st.lt)
	}

	return elems
}

// -----------------------------------------------------------------------------

// ArrayType represents an LLVM array type.
type ArrayType struct {
	typeBase
}

// ArrayType returns the type of arrays of n elements of type elemType.
func (c *Context) ArrayType(elemType Type, n uint64) (ArrayType, error) {
	const op = "Context.ArrayType"

	if err := c.lt.check(op); err != nil {
		return ArrayType{}, err
	}

	if err := checkTypes(op, elemType); err != nil {
		return ArrayType{}, err
	}

	if !elemType.Sized() {
		return ArrayType{}, invalidArg(op, "element type %s is not sized", elemType)
	}

	at := C.LLVMArrayType2(elemType.ptr(), C.uint64_t(n))
	if at == nil {
		return ArrayType{}, constructionFailed(op)
	}

	return ArrayType{typeBase{c: at, lt: c.lt}}, nil
}

// ElemType returns the element type of the array.
func (at ArrayType) ElemType() Type {
	at.lt.mustBeAlive()
	return wrapType(C.LLVMGetElementType(at.c), at.lt)
}

// Len returns the number of elements in the array.
func (at ArrayType) Len() uint64 {
	at.lt.mustBeAlive()
	return uint64(C.LLVMGetArrayLength2(at.c))
}

// -----------------------------------------------------------------------------

// VectorType represents an LLVM vector type.
type VectorType struct {
	typeBase
}

// VectorType returns the type of vectors of n elements of type elemType.  If
// scalable is true, the vector holds a runtime multiple of n elements.
func (c *Context) VectorType(elemType Type, n int, scalable bool) (VectorType, error) {
	const op = "Context.VectorType"

	if err := c.lt.check(op); err != nil {
		return VectorType{}, err
	}

	if err := checkTypes(op, elemType); err != nil {
		return VectorType{}, err
	}

	if n < 1 {
		return VectorType{}, invalidArg(op, "vector length %d must be at least 1", n)
	}

	if !elemType.IsIntegerTy() && !elemType.IsFloatingPointTy() && !elemType.IsPointerTy() {
		return VectorType{}, invalidArg(op, "invalid vector element type %s", elemType)
	}

	cn, err := cuint(op, n)
	if err != nil {
		return VectorType{}, err
	}

	var vt C.LLVMTypeRef
	if scalable {
		vt = C.LLVMScalableVectorType(elemType.ptr(), cn)
	} else {
		vt = C.LLVMVectorType(elemType.ptr(), cn)
	}

	if vt == nil {
		return VectorType{}, constructionFailed(op)
	}

	return VectorType{typeBase{c: vt, lt: c.lt}}, nil
}

// ElemType returns the element type of the vector.
func (vt VectorType) ElemType() Type {
	vt.lt.mustBeAlive()
	return wrapType(C.LLVMGetElementType(vt.c), vt.lt)
}

// Len returns the minimum number of elements in the vector.
func (vt VectorType) Len() int {
	vt.lt.mustBeAlive()
	return int(C.LLVMGetVectorSize(vt.c))
}

// IsScalable returns whether the vector is scalable.
func (vt VectorType) IsScalable() bool {
	return vt.Kind() == ScalableVectorTypeKind
}
