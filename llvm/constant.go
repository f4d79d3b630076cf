package llvm

/*
#include <stdlib.h>

#include "llvm-c/Core.h"
*/
import "C"

import (
	"unsafe"
)

// Constant represents an LLVM constant value.
type Constant interface {
	User

	// IsNull returns whether the constant is the null value of its type.
	IsNull() bool

	isConstant()
}

// constantBase is the base type for all constants.
type constantBase struct {
	userBase
}

func (constantBase) isConstant() {}

func (c constantBase) IsNull() bool {
	c.lt.mustBeAlive()
	return fromBool(C.LLVMIsNull(c.c))
}

// ConstantData is a constant with no more specific wrapper: `undef`, `poison`,
// `zeroinitializer`, null pointers, `none` tokens and block addresses.
type ConstantData struct {
	constantBase
}

// ConstantExpr is a constant expression.
type ConstantExpr struct {
	constantBase
}

// Opcode returns the opcode of the operation the expression computes.
func (ce ConstantExpr) Opcode() OpCode {
	ce.lt.mustBeAlive()
	return OpCode(C.LLVMGetConstOpcode(ce.c))
}

// -----------------------------------------------------------------------------

// ConstNull returns the null value of typ: zero, null or zeroinitializer.
func ConstNull(typ Type) (Constant, error) {
	const op = "ConstNull"

	if err := checkTypes(op, typ); err != nil {
		return nil, err
	}

	if !typ.IsFirstClassType() || typ.IsLabelTy() || typ.IsMetadataTy() {
		return nil, invalidArg(op, "type %s has no null value", typ)
	}

	return finishConst(op, C.LLVMConstNull(typ.ptr()), typ.owner())
}

// ConstAllOnes returns the value of the integer or integer vector type typ with
// every bit set.
func ConstAllOnes(typ Type) (Constant, error) {
	const op = "ConstAllOnes"

	if err := checkTypes(op, typ); err != nil {
		return nil, err
	}

	if !isIntOrIntVector(typ) {
		return nil, invalidArg(op, "type %s is not an integer or integer vector", typ)
	}

	return finishConst(op, C.LLVMConstAllOnes(typ.ptr()), typ.owner())
}

// Undef returns the `undef` value of typ.
func Undef(typ Type) (Constant, error) {
	const op = "Undef"

	if err := checkTypes(op, typ); err != nil {
		return nil, err
	}

	return finishConst(op, C.LLVMGetUndef(typ.ptr()), typ.owner())
}

// Poison returns the `poison` value of typ.
func Poison(typ Type) (Constant, error) {
	const op = "Poison"

	if err := checkTypes(op, typ); err != nil {
		return nil, err
	}

	return finishConst(op, C.LLVMGetPoison(typ.ptr()), typ.owner())
}

// ConstPointerNull returns the null pointer of type pt.
func ConstPointerNull(pt PointerType) (Constant, error) {
	const op = "ConstPointerNull"

	if err := checkTypes(op, pt); err != nil {
		return nil, err
	}

	return finishConst(op, C.LLVMConstPointerNull(pt.c), pt.lt)
}

func finishConst(op string, c C.LLVMValueRef, lt *lifetime) (Constant, error) {
	if c == nil {
		return nil, constructionFailed(op)
	}

	return wrapValue(c, lt).(Constant), nil
}

func isIntOrIntVector(typ Type) bool {
	if typ.IsIntegerTy() {
		return true
	}

	if vt, ok := CastType[VectorType](typ); ok {
		return vt.ElemType().IsIntegerTy()
	}

	return false
}

func isFPOrFPVector(typ Type) bool {
	if typ.IsFloatingPointTy() {
		return true
	}

	if vt, ok := CastType[VectorType](typ); ok {
		return vt.ElemType().IsFloatingPointTy()
	}

	return false
}

// -----------------------------------------------------------------------------

// ConstantInt represents an integer constant.
type ConstantInt struct {
	constantBase
}

// ConstInt creates a new integer constant of type intType with value n.  If
// signExtend is true, n is sign extended to the width of intType.
func ConstInt(intType IntegerType, n uint64, signExtend bool) (ConstantInt, error) {
	const op = "ConstInt"

	if err := checkTypes(op, intType); err != nil {
		return ConstantInt{}, err
	}

	c := C.LLVMConstInt(intType.c, C.ulonglong(n), llvmBool(signExtend))
	if c == nil {
		return ConstantInt{}, constructionFailed(op)
	}

	return ConstantInt{constantBase{userBase{valueBase{c: c, lt: intType.lt}}}}, nil
}

// ConstIntOfString creates a new integer constant of type intType from its
// textual representation in the given radix.  The text may start with a sign.
func ConstIntOfString(intType IntegerType, text string, radix int) (ConstantInt, error) {
	const op = "ConstIntOfString"

	if err := checkTypes(op, intType); err != nil {
		return ConstantInt{}, err
	}

	switch radix {
	case 2, 8, 10, 16, 36:
	default:
		return ConstantInt{}, invalidArg(op, "unsupported radix %d", radix)
	}

	if !validIntText(text, radix) {
		return ConstantInt{}, invalidArg(op, "%q is not a valid base %d integer", text, radix)
	}

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))

	c := C.LLVMConstIntOfStringAndSize(intType.c, ctext, C.uint(len(text)), C.uint8_t(radix))
	if c == nil {
		return ConstantInt{}, constructionFailed(op)
	}

	return ConstantInt{constantBase{userBase{valueBase{c: c, lt: intType.lt}}}}, nil
}

// validIntText returns whether text is an optionally signed sequence of digits
// in radix.
func validIntText(text string, radix int) bool {
	if len(text) > 0 && (text[0] == '-' || text[0] == '+') {
		text = text[1:]
	}

	if len(text) == 0 {
		return false
	}

	for _, r := range text {
		var d int
		switch {
		case '0' <= r && r <= '9':
			d = int(r - '0')
		case 'a' <= r && r <= 'z':
			d = int(r-'a') + 10
		case 'A' <= r && r <= 'Z':
			d = int(r-'A') + 10
		default:
			return false
		}

		if d >= radix {
			return false
		}
	}

	return true
}

// ZExtValue returns the value of the constant zero extended to 64 bits.
func (ci ConstantInt) ZExtValue() uint64 {
	ci.lt.mustBeAlive()
	return uint64(C.LLVMConstIntGetZExtValue(ci.c))
}

// SExtValue returns the value of the constant sign extended to 64 bits.
func (ci ConstantInt) SExtValue() int64 {
	ci.lt.mustBeAlive()
	return int64(C.LLVMConstIntGetSExtValue(ci.c))
}

// -----------------------------------------------------------------------------

// ConstantFP represents a floating point constant.
type ConstantFP struct {
	constantBase
}

// ConstFloat creates a new floating point constant of type floatType with value
// n.
func ConstFloat(floatType Type, n float64) (ConstantFP, error) {
	const op = "ConstFloat"

	if err := checkTypes(op, floatType); err != nil {
		return ConstantFP{}, err
	}

	if !floatType.IsFloatingPointTy() {
		return ConstantFP{}, invalidArg(op, "type %s is not a floating point type", floatType)
	}

	c := C.LLVMConstReal(floatType.ptr(), C.double(n))
	if c == nil {
		return ConstantFP{}, constructionFailed(op)
	}

	return ConstantFP{constantBase{userBase{valueBase{c: c, lt: floatType.owner()}}}}, nil
}

// Double returns the value of the constant as a float64 and whether converting
// it lost information.
func (cf ConstantFP) Double() (float64, bool) {
	cf.lt.mustBeAlive()

	var losesInfo C.LLVMBool
	v := C.LLVMConstRealGetDouble(cf.c, byref(&losesInfo))
	return float64(v), fromBool(losesInfo)
}

// -----------------------------------------------------------------------------

// ConstantAggregate represents a constant array, struct or vector.
type ConstantAggregate struct {
	constantBase
}

// ConstArray creates a new constant array of elements of elemType.
func ConstArray(elemType Type, elems []Constant) (ConstantAggregate, error) {
	const op = "ConstArray"

	if err := checkTypes(op, elemType); err != nil {
		return ConstantAggregate{}, err
	}

	if err := checkElemTypes(op, elemType, elems); err != nil {
		return ConstantAggregate{}, err
	}

	elemArrPtr, _ := constantRefs(elems)
	c := C.LLVMConstArray2(elemType.ptr(), elemArrPtr, C.uint64_t(len(elems)))
	return finishAggregate(op, c, elemType.owner())
}

// ConstStruct creates a new constant literal struct in ctx.
func (ctx *Context) ConstStruct(elems []Constant, packed bool) (ConstantAggregate, error) {
	const op = "Context.ConstStruct"

	if err := ctx.lt.check(op); err != nil {
		return ConstantAggregate{}, err
	}

	if err := checkValues(op, constantsAsValues(elems)...); err != nil {
		return ConstantAggregate{}, err
	}

	elemArrPtr, n := constantRefs(elems)
	c := C.LLVMConstStructInContext(ctx.c, elemArrPtr, n, llvmBool(packed))
	return finishAggregate(op, c, ctx.lt)
}

// ConstNamedStruct creates a new constant of the named struct type st.
func ConstNamedStruct(st StructType, elems []Constant) (ConstantAggregate, error) {
	const op = "ConstNamedStruct"

	if err := checkTypes(op, st); err != nil {
		return ConstantAggregate{}, err
	}

	if st.IsOpaque() {
		return ConstantAggregate{}, invalidArg(op, "struct %s has no body", st)
	}

	fields := st.Elements()
	if len(fields) != len(elems) {
		return ConstantAggregate{}, invalidArg(op, "struct %s has %d fields but %d values were given", st, len(fields), len(elems))
	}

	if err := checkValues(op, constantsAsValues(elems)...); err != nil {
		return ConstantAggregate{}, err
	}

	for i, e := range elems {
		if !SameType(e.Type(), fields[i]) {
			return ConstantAggregate{}, invalidArg(op, "field %d has type %s but value has type %s", i, fields[i], e.Type())
		}
	}

	elemArrPtr, n := constantRefs(elems)
	c := C.LLVMConstNamedStruct(st.c, elemArrPtr, n)
	return finishAggregate(op, c, st.lt)
}

// ConstVector creates a new constant vector.  At least one element is
// required.
func ConstVector(elems []Constant) (ConstantAggregate, error) {
	const op = "ConstVector"

	if len(elems) == 0 {
		return ConstantAggregate{}, invalidArg(op, "a vector must have at least one element")
	}

	if err := checkValues(op, elems[0]); err != nil {
		return ConstantAggregate{}, err
	}

	if err := checkElemTypes(op, elems[0].Type(), elems); err != nil {
		return ConstantAggregate{}, err
	}

	elemArrPtr, n := constantRefs(elems)
	c := C.LLVMConstVector(elemArrPtr, n)
	return finishAggregate(op, c, elems[0].owner().root())
}

// ConstString creates a new constant character array holding str.  If
// nullTerminate is true, a NUL byte is appended to the array.
func (ctx *Context) ConstString(str string, nullTerminate bool) (ConstantAggregate, error) {
	const op = "Context.ConstString"

	if err := ctx.lt.check(op); err != nil {
		return ConstantAggregate{}, err
	}

	n, err := cuint(op, len(str))
	if err != nil {
		return ConstantAggregate{}, err
	}

	cstr := C.CString(str)
	defer C.free(unsafe.Pointer(cstr))

	c := C.LLVMConstStringInContext(ctx.c, cstr, n, llvmBool(!nullTerminate))
	return finishAggregate(op, c, ctx.lt)
}

func checkElemTypes(op string, elemType Type, elems []Constant) error {
	if err := checkValues(op, constantsAsValues(elems)...); err != nil {
		return err
	}

	for i, e := range elems {
		if !SameType(e.Type(), elemType) {
			return invalidArg(op, "element %d has type %s, expected %s", i, e.Type(), elemType)
		}
	}

	return nil
}

func finishAggregate(op string, c C.LLVMValueRef, lt *lifetime) (ConstantAggregate, error) {
	if c == nil {
		return ConstantAggregate{}, constructionFailed(op)
	}

	return ConstantAggregate{constantBase{userBase{valueBase{c: c, lt: lt}}}}, nil
}

// NumElements returns the number of elements in the aggregate.
func (ca ConstantAggregate) NumElements() int {
	switch t := ca.Type().(type) {
	case ArrayType:
		return int(t.Len())
	case VectorType:
		return t.Len()
	case StructType:
		return t.NumElements()
	default:
		return 0
	}
}

// Element returns the element at index ndx.
func (ca ConstantAggregate) Element(ndx int) (Constant, error) {
	const op = "ConstantAggregate.Element"

	if err := ca.lt.check(op); err != nil {
		return nil, err
	}

	if n := ca.NumElements(); ndx < 0 || ndx >= n {
		return nil, invalidArg(op, "element index %d out of range for %d elements", ndx, n)
	}

	return finishConst(op, C.LLVMGetAggregateElement(ca.c, mustCuint(ndx)), ca.lt)
}

// AsString returns the contents of a constant character array.
func (ca ConstantAggregate) AsString() (string, bool) {
	ca.lt.mustBeAlive()

	if !fromBool(C.LLVMIsConstantString(ca.c)) {
		return "", false
	}

	var length C.size_t
	str := C.LLVMGetAsString(ca.c, byref(&length))
	return C.GoStringN(str, C.int(length)), true
}

// -----------------------------------------------------------------------------

// ConstBinOp folds the binary operation op over two constants of the same
// type.  Only the operations which the LLVM C API still exposes as constant
// expressions are supported: `add`, `sub` and `xor`.
func ConstBinOp(op OpCode, lhs, rhs Constant) (Constant, error) {
	const opName = "ConstBinOp"

	if err := checkValues(opName, lhs, rhs); err != nil {
		return nil, err
	}

	if !SameType(lhs.Type(), rhs.Type()) {
		return nil, invalidArg(opName, "operand types %s and %s differ", lhs.Type(), rhs.Type())
	}

	if !isIntOrIntVector(lhs.Type()) {
		return nil, invalidArg(opName, "operand type %s is not an integer or integer vector", lhs.Type())
	}

	var c C.LLVMValueRef
	switch op {
	case OpAdd:
		c = C.LLVMConstAdd(lhs.ptr(), rhs.ptr())
	case OpSub:
		c = C.LLVMConstSub(lhs.ptr(), rhs.ptr())
	case OpXor:
		c = C.LLVMConstXor(lhs.ptr(), rhs.ptr())
	default:
		return nil, unimplemented(opName, "no constant folding for "+op.String())
	}

	return finishConst(opName, c, lhs.owner())
}
