package llvm

/*
#include <stdlib.h>

#include "llvm-c/Core.h"
*/
import "C"

// The builder folds operations whose operands are all constants, so the
// arithmetic, cast, comparison and aggregate operations below return a Value
// which is either an instruction or a constant.

// primitiveBits returns the size in bits of a scalar or fixed vector type, or
// zero when the size depends on the target.
func primitiveBits(typ Type) int {
	switch typ.Kind() {
	case IntegerTypeKind:
		it, _ := CastType[IntegerType](typ)
		return it.BitWidth()
	case HalfTypeKind, BFloatTypeKind:
		return 16
	case FloatTypeKind:
		return 32
	case DoubleTypeKind, X86_MMXTypeKind:
		return 64
	case X86_FP80TypeKind:
		return 80
	case FP128TypeKind, PPC_FP128TypeKind:
		return 128
	case X86_AMXTypeKind:
		return 8192
	case VectorTypeKind:
		vt, _ := CastType[VectorType](typ)
		return vt.Len() * primitiveBits(vt.ElemType())
	}

	return 0
}

// scalarOf splits typ into its element type and vector length.  Scalars have
// length zero.
func scalarOf(typ Type) (Type, int, bool) {
	if vt, ok := CastType[VectorType](typ); ok {
		return vt.ElemType(), vt.Len(), vt.IsScalable()
	}

	return typ, 0, false
}

// isIntOfWidth returns whether typ is the integer type of the given width.
func isIntOfWidth(typ Type, bits int) bool {
	it, ok := CastType[IntegerType](typ)
	return ok && it.BitWidth() == bits
}

// castIsValid returns whether op converts values of type src to type dest.
func castIsValid(op CastOp, src, dest Type) bool {
	if !src.IsFirstClassType() || !dest.IsFirstClassType() ||
		src.IsAggregateType() || dest.IsAggregateType() {
		return false
	}

	srcElem, srcLen, srcScalable := scalarOf(src)
	destElem, destLen, destScalable := scalarOf(dest)

	if op == CastBitCast {
		if srcElem.IsPointerTy() || destElem.IsPointerTy() {
			return srcElem.IsPointerTy() && destElem.IsPointerTy() &&
				srcLen == destLen &&
				pointerAddrSpace(srcElem) == pointerAddrSpace(destElem)
		}

		if srcScalable != destScalable {
			return false
		}

		bits := primitiveBits(src)
		return bits != 0 && bits == primitiveBits(dest)
	}

	if srcLen != destLen || srcScalable != destScalable {
		return false
	}

	switch op {
	case CastTrunc:
		return srcElem.IsIntegerTy() && destElem.IsIntegerTy() && primitiveBits(srcElem) > primitiveBits(destElem)
	case CastZExt, CastSExt:
		return srcElem.IsIntegerTy() && destElem.IsIntegerTy() && primitiveBits(srcElem) < primitiveBits(destElem)
	case CastFPTrunc:
		return srcElem.IsFloatingPointTy() && destElem.IsFloatingPointTy() && primitiveBits(srcElem) > primitiveBits(destElem)
	case CastFPExt:
		return srcElem.IsFloatingPointTy() && destElem.IsFloatingPointTy() && primitiveBits(srcElem) < primitiveBits(destElem)
	case CastFPToUI, CastFPToSI:
		return srcElem.IsFloatingPointTy() && destElem.IsIntegerTy()
	case CastUIToFP, CastSIToFP:
		return srcElem.IsIntegerTy() && destElem.IsFloatingPointTy()
	case CastPtrToInt:
		return srcElem.IsPointerTy() && destElem.IsIntegerTy()
	case CastIntToPtr:
		return srcElem.IsIntegerTy() && destElem.IsPointerTy()
	case CastAddrSpaceCast:
		return srcElem.IsPointerTy() && destElem.IsPointerTy() &&
			pointerAddrSpace(srcElem) != pointerAddrSpace(destElem)
	}

	return false
}

func pointerAddrSpace(typ Type) int {
	pt, _ := CastType[PointerType](typ)
	return pt.AddrSpace()
}

// CreateCast creates the conversion instruction op converting v to the type
// dest.
func (b *Builder) CreateCast(op CastOp, v Value, dest Type, name string) (Value, error) {
	const opName = "Builder.CreateCast"

	if err := b.begin(opName, v); err != nil {
		return nil, err
	}

	if err := checkTypes(opName, dest); err != nil {
		return nil, err
	}

	if !op.IsValid() {
		return nil, invalidArg(opName, "%s is not a cast operation", OpCode(op))
	}

	if !castIsValid(op, v.Type(), dest) {
		return nil, invalidArg(opName, "can not %s %s to %s", op, v.Type(), dest)
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildCast(b.c, C.LLVMOpcode(op), v.ptr(), dest.ptr(), cname)
	})

	return b.finishValue(opName, ref)
}

// CreateTrunc creates a `trunc` instruction.
func (b *Builder) CreateTrunc(v Value, dest Type, name string) (Value, error) {
	return b.CreateCast(CastTrunc, v, dest, name)
}

// CreateZExt creates a `zext` instruction.
func (b *Builder) CreateZExt(v Value, dest Type, name string) (Value, error) {
	return b.CreateCast(CastZExt, v, dest, name)
}

// CreateSExt creates a `sext` instruction.
func (b *Builder) CreateSExt(v Value, dest Type, name string) (Value, error) {
	return b.CreateCast(CastSExt, v, dest, name)
}

// CreateFPToUI creates a `fptoui` instruction.
func (b *Builder) CreateFPToUI(v Value, dest Type, name string) (Value, error) {
	return b.CreateCast(CastFPToUI, v, dest, name)
}

// CreateFPToSI creates a `fptosi` instruction.
func (b *Builder) CreateFPToSI(v Value, dest Type, name string) (Value, error) {
	return b.CreateCast(CastFPToSI, v, dest, name)
}

// CreateUIToFP creates a `uitofp` instruction.
func (b *Builder) CreateUIToFP(v Value, dest Type, name string) (Value, error) {
	return b.CreateCast(CastUIToFP, v, dest, name)
}

// CreateSIToFP creates a `sitofp` instruction.
func (b *Builder) CreateSIToFP(v Value, dest Type, name string) (Value, error) {
	return b.CreateCast(CastSIToFP, v, dest, name)
}

// CreateFPTrunc creates a `fptrunc` instruction.
func (b *Builder) CreateFPTrunc(v Value, dest Type, name string) (Value, error) {
	return b.CreateCast(CastFPTrunc, v, dest, name)
}

// CreateFPExt creates a `fpext` instruction.
func (b *Builder) CreateFPExt(v Value, dest Type, name string) (Value, error) {
	return b.CreateCast(CastFPExt, v, dest, name)
}

// CreatePtrToInt creates a `ptrtoint` instruction.
func (b *Builder) CreatePtrToInt(v Value, dest Type, name string) (Value, error) {
	return b.CreateCast(CastPtrToInt, v, dest, name)
}

// CreateIntToPtr creates an `inttoptr` instruction.
func (b *Builder) CreateIntToPtr(v Value, dest Type, name string) (Value, error) {
	return b.CreateCast(CastIntToPtr, v, dest, name)
}

// CreateBitCast creates a `bitcast` instruction.
func (b *Builder) CreateBitCast(v Value, dest Type, name string) (Value, error) {
	return b.CreateCast(CastBitCast, v, dest, name)
}

// CreateAddrSpaceCast creates an `addrspacecast` instruction.
func (b *Builder) CreateAddrSpaceCast(v Value, dest Type, name string) (Value, error) {
	return b.CreateCast(CastAddrSpaceCast, v, dest, name)
}

// CreateIntCast converts the integer v to the integer type dest, truncating
// or extending as the widths require.  Values of the same width are returned
// unchanged.
func (b *Builder) CreateIntCast(v Value, dest IntegerType, signed bool, name string) (Value, error) {
	const op = "Builder.CreateIntCast"

	if err := b.begin(op, v); err != nil {
		return nil, err
	}

	if err := checkTypes(op, dest); err != nil {
		return nil, err
	}

	if !v.Type().IsIntegerTy() {
		return nil, invalidArg(op, "value must be an integer, got %s", v.Type())
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildIntCast2(b.c, v.ptr(), dest.c, llvmBool(signed), cname)
	})

	return b.finishValue(op, ref)
}

// -----------------------------------------------------------------------------

// isBinaryOp returns whether opc is a binary operator and whether it operates
// on floating point values.
func isBinaryOp(opc OpCode) (ok, float bool) {
	switch opc {
	case OpAdd, OpSub, OpMul, OpUDiv, OpSDiv, OpURem, OpSRem,
		OpShl, OpLShr, OpAShr, OpAnd, OpOr, OpXor:
		return true, false
	case OpFAdd, OpFSub, OpFMul, OpFDiv, OpFRem:
		return true, true
	}

	return false, false
}

// checkBinOp checks the operands of the binary operator opc.
func checkBinOp(op string, opc OpCode, lhs, rhs Value) error {
	ok, float := isBinaryOp(opc)
	if !ok {
		return invalidArg(op, "%s is not a binary operator", opc)
	}

	if !SameType(lhs.Type(), rhs.Type()) {
		return invalidArg(op, "operand types %s and %s differ", lhs.Type(), rhs.Type())
	}

	if float && !isFPOrFPVector(lhs.Type()) {
		return invalidArg(op, "%s requires floating point operands, got %s", opc, lhs.Type())
	}

	if !float && !isIntOrIntVector(lhs.Type()) {
		return invalidArg(op, "%s requires integer operands, got %s", opc, lhs.Type())
	}

	return nil
}

// CreateBinOp creates the binary operator opc applied to lhs and rhs.
func (b *Builder) CreateBinOp(opc OpCode, lhs, rhs Value, name string) (Value, error) {
	const op = "Builder.CreateBinOp"

	if err := b.begin(op, lhs, rhs); err != nil {
		return nil, err
	}

	if err := checkBinOp(op, opc, lhs, rhs); err != nil {
		return nil, err
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildBinOp(b.c, C.LLVMOpcode(opc), lhs.ptr(), rhs.ptr(), cname)
	})

	return b.finishValue(op, ref)
}

// buildFn is a foreign binary build call taking the operands and a name.
type buildFn func(b C.LLVMBuilderRef, lhs, rhs C.LLVMValueRef, name *C.char) C.LLVMValueRef

// createFlagged creates the binary operator opc carrying an `nsw`, `nuw` or
// `exact` flag through build.
func (b *Builder) createFlagged(op string, opc OpCode, lhs, rhs Value, name string, build buildFn) (Value, error) {
	if err := b.begin(op, lhs, rhs); err != nil {
		return nil, err
	}

	if err := checkBinOp(op, opc, lhs, rhs); err != nil {
		return nil, err
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return build(b.c, lhs.ptr(), rhs.ptr(), cname)
	})

	return b.finishValue(op, ref)
}

// CreateAdd creates an `add` instruction.
func (b *Builder) CreateAdd(lhs, rhs Value, name string) (Value, error) {
	return b.CreateBinOp(OpAdd, lhs, rhs, name)
}

// CreateNSWAdd creates an `add nsw` instruction.
func (b *Builder) CreateNSWAdd(lhs, rhs Value, name string) (Value, error) {
	return b.createFlagged("Builder.CreateNSWAdd", OpAdd, lhs, rhs, name,
		func(bc C.LLVMBuilderRef, l, r C.LLVMValueRef, n *C.char) C.LLVMValueRef {
			return C.LLVMBuildNSWAdd(bc, l, r, n)
		})
}

// CreateNUWAdd creates an `add nuw` instruction.
func (b *Builder) CreateNUWAdd(lhs, rhs Value, name string) (Value, error) {
	return b.createFlagged("Builder.CreateNUWAdd", OpAdd, lhs, rhs, name,
		func(bc C.LLVMBuilderRef, l, r C.LLVMValueRef, n *C.char) C.LLVMValueRef {
			return C.LLVMBuildNUWAdd(bc, l, r, n)
		})
}

// CreateSub creates a `sub` instruction.
func (b *Builder) CreateSub(lhs, rhs Value, name string) (Value, error) {
	return b.CreateBinOp(OpSub, lhs, rhs, name)
}

// CreateNSWSub creates a `sub nsw` instruction.
func (b *Builder) CreateNSWSub(lhs, rhs Value, name string) (Value, error) {
	return b.createFlagged("Builder.CreateNSWSub", OpSub, lhs, rhs, name,
		func(bc C.LLVMBuilderRef, l, r C.LLVMValueRef, n *C.char) C.LLVMValueRef {
			return C.LLVMBuildNSWSub(bc, l, r, n)
		})
}

// CreateNUWSub creates a `sub nuw` instruction.
func (b *Builder) CreateNUWSub(lhs, rhs Value, name string) (Value, error) {
	return b.createFlagged("Builder.CreateNUWSub", OpSub, lhs, rhs, name,
		func(bc C.LLVMBuilderRef, l, r C.LLVMValueRef, n *C.char) C.LLVMValueRef {
			return C.LLVMBuildNUWSub(bc, l, r, n)
		})
}

// CreateMul creates a `mul` instruction.
func (b *Builder) CreateMul(lhs, rhs Value, name string) (Value, error) {
	return b.CreateBinOp(OpMul, lhs, rhs, name)
}

// CreateNSWMul creates a `mul nsw` instruction.
func (b *Builder) CreateNSWMul(lhs, rhs Value, name string) (Value, error) {
	return b.createFlagged("Builder.CreateNSWMul", OpMul, lhs, rhs, name,
		func(bc C.LLVMBuilderRef, l, r C.LLVMValueRef, n *C.char) C.LLVMValueRef {
			return C.LLVMBuildNSWMul(bc, l, r, n)
		})
}

// CreateNUWMul creates a `mul nuw` instruction.
func (b *Builder) CreateNUWMul(lhs, rhs Value, name string) (Value, error) {
	return b.createFlagged("Builder.CreateNUWMul", OpMul, lhs, rhs, name,
		func(bc C.LLVMBuilderRef, l, r C.LLVMValueRef, n *C.char) C.LLVMValueRef {
			return C.LLVMBuildNUWMul(bc, l, r, n)
		})
}

// CreateUDiv creates a `udiv` instruction.
func (b *Builder) CreateUDiv(lhs, rhs Value, name string) (Value, error) {
	return b.CreateBinOp(OpUDiv, lhs, rhs, name)
}

// CreateExactUDiv creates a `udiv exact` instruction.
func (b *Builder) CreateExactUDiv(lhs, rhs Value, name string) (Value, error) {
	return b.createFlagged("Builder.CreateExactUDiv", OpUDiv, lhs, rhs, name,
		func(bc C.LLVMBuilderRef, l, r C.LLVMValueRef, n *C.char) C.LLVMValueRef {
			return C.LLVMBuildExactUDiv(bc, l, r, n)
		})
}

// CreateSDiv creates a `sdiv` instruction.
func (b *Builder) CreateSDiv(lhs, rhs Value, name string) (Value, error) {
	return b.CreateBinOp(OpSDiv, lhs, rhs, name)
}

// CreateExactSDiv creates a `sdiv exact` instruction.
func (b *Builder) CreateExactSDiv(lhs, rhs Value, name string) (Value, error) {
	return b.createFlagged("Builder.CreateExactSDiv", OpSDiv, lhs, rhs, name,
		func(bc C.LLVMBuilderRef, l, r C.LLVMValueRef, n *C.char) C.LLVMValueRef {
			return C.LLVMBuildExactSDiv(bc, l, r, n)
		})
}

// CreateURem creates a `urem` instruction.
func (b *Builder) CreateURem(lhs, rhs Value, name string) (Value, error) {
	return b.CreateBinOp(OpURem, lhs, rhs, name)
}

// CreateSRem creates a `srem` instruction.
func (b *Builder) CreateSRem(lhs, rhs Value, name string) (Value, error) {
	return b.CreateBinOp(OpSRem, lhs, rhs, name)
}

// CreateShl creates a `shl` instruction.
func (b *Builder) CreateShl(lhs, rhs Value, name string) (Value, error) {
	return b.CreateBinOp(OpShl, lhs, rhs, name)
}

// CreateLShr creates a `lshr` instruction.
func (b *Builder) CreateLShr(lhs, rhs Value, name string) (Value, error) {
	return b.CreateBinOp(OpLShr, lhs, rhs, name)
}

// CreateAShr creates an `ashr` instruction.
func (b *Builder) CreateAShr(lhs, rhs Value, name string) (Value, error) {
	return b.CreateBinOp(OpAShr, lhs, rhs, name)
}

// CreateAnd creates an `and` instruction.
func (b *Builder) CreateAnd(lhs, rhs Value, name string) (Value, error) {
	return b.CreateBinOp(OpAnd, lhs, rhs, name)
}

// CreateOr creates an `or` instruction.
func (b *Builder) CreateOr(lhs, rhs Value, name string) (Value, error) {
	return b.CreateBinOp(OpOr, lhs, rhs, name)
}

// CreateXor creates a `xor` instruction.
func (b *Builder) CreateXor(lhs, rhs Value, name string) (Value, error) {
	return b.CreateBinOp(OpXor, lhs, rhs, name)
}

// CreateFAdd creates an `fadd` instruction.
func (b *Builder) CreateFAdd(lhs, rhs Value, name string) (Value, error) {
	return b.CreateBinOp(OpFAdd, lhs, rhs, name)
}

// CreateFSub creates an `fsub` instruction.
func (b *Builder) CreateFSub(lhs, rhs Value, name string) (Value, error) {
	return b.CreateBinOp(OpFSub, lhs, rhs, name)
}

// CreateFMul creates an `fmul` instruction.
func (b *Builder) CreateFMul(lhs, rhs Value, name string) (Value, error) {
	return b.CreateBinOp(OpFMul, lhs, rhs, name)
}

// CreateFDiv creates an `fdiv` instruction.
func (b *Builder) CreateFDiv(lhs, rhs Value, name string) (Value, error) {
	return b.CreateBinOp(OpFDiv, lhs, rhs, name)
}

// CreateFRem creates an `frem` instruction.
func (b *Builder) CreateFRem(lhs, rhs Value, name string) (Value, error) {
	return b.CreateBinOp(OpFRem, lhs, rhs, name)
}

// CreateNeg creates the negation of the integer v as `sub 0, v`.
func (b *Builder) CreateNeg(v Value, name string) (Value, error) {
	const op = "Builder.CreateNeg"

	if err := b.begin(op, v); err != nil {
		return nil, err
	}

	if !isIntOrIntVector(v.Type()) {
		return nil, invalidArg(op, "operand must be an integer, got %s", v.Type())
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildNeg(b.c, v.ptr(), cname)
	})

	return b.finishValue(op, ref)
}

// CreateNot creates the bitwise complement of the integer v as `xor v, -1`.
func (b *Builder) CreateNot(v Value, name string) (Value, error) {
	const op = "Builder.CreateNot"

	if err := b.begin(op, v); err != nil {
		return nil, err
	}

	if !isIntOrIntVector(v.Type()) {
		return nil, invalidArg(op, "operand must be an integer, got %s", v.Type())
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildNot(b.c, v.ptr(), cname)
	})

	return b.finishValue(op, ref)
}

// CreateFNeg creates an `fneg` instruction.
func (b *Builder) CreateFNeg(v Value, name string) (Value, error) {
	const op = "Builder.CreateFNeg"

	if err := b.begin(op, v); err != nil {
		return nil, err
	}

	if !isFPOrFPVector(v.Type()) {
		return nil, invalidArg(op, "operand must be floating point, got %s", v.Type())
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildFNeg(b.c, v.ptr(), cname)
	})

	return b.finishValue(op, ref)
}

// -----------------------------------------------------------------------------

// CreateICmp creates an `icmp` instruction comparing two integers or pointers.
func (b *Builder) CreateICmp(pred Predicate, lhs, rhs Value, name string) (Value, error) {
	const op = "Builder.CreateICmp"

	if err := b.begin(op, lhs, rhs); err != nil {
		return nil, err
	}

	if !pred.IsIntPredicate() {
		return nil, invalidArg(op, "%s is not an integer predicate", pred)
	}

	if !SameType(lhs.Type(), rhs.Type()) {
		return nil, invalidArg(op, "operand types %s and %s differ", lhs.Type(), rhs.Type())
	}

	if elem, _, _ := scalarOf(lhs.Type()); !elem.IsIntegerTy() && !elem.IsPointerTy() {
		return nil, invalidArg(op, "operands must be integers or pointers, got %s", lhs.Type())
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildICmp(b.c, C.LLVMIntPredicate(pred), lhs.ptr(), rhs.ptr(), cname)
	})

	return b.finishValue(op, ref)
}

// CreateFCmp creates an `fcmp` instruction comparing two floating point
// values.
func (b *Builder) CreateFCmp(pred Predicate, lhs, rhs Value, name string) (Value, error) {
	const op = "Builder.CreateFCmp"

	if err := b.begin(op, lhs, rhs); err != nil {
		return nil, err
	}

	if !pred.IsFPPredicate() {
		return nil, invalidArg(op, "%s is not a floating point predicate", pred)
	}

	if !SameType(lhs.Type(), rhs.Type()) {
		return nil, invalidArg(op, "operand types %s and %s differ", lhs.Type(), rhs.Type())
	}

	if !isFPOrFPVector(lhs.Type()) {
		return nil, invalidArg(op, "operands must be floating point, got %s", lhs.Type())
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildFCmp(b.c, C.LLVMRealPredicate(pred), lhs.ptr(), rhs.ptr(), cname)
	})

	return b.finishValue(op, ref)
}

// CreateIsNull creates a comparison testing whether v is null or zero.
func (b *Builder) CreateIsNull(v Value, name string) (Value, error) {
	return b.createNullTest("Builder.CreateIsNull", v, name, false)
}

// CreateIsNotNull creates a comparison testing whether v is not null or zero.
func (b *Builder) CreateIsNotNull(v Value, name string) (Value, error) {
	return b.createNullTest("Builder.CreateIsNotNull", v, name, true)
}

func (b *Builder) createNullTest(op string, v Value, name string, negate bool) (Value, error) {
	if err := b.begin(op, v); err != nil {
		return nil, err
	}

	if !v.Type().IsIntegerTy() && !v.Type().IsPointerTy() {
		return nil, invalidArg(op, "operand must be an integer or pointer, got %s", v.Type())
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		if negate {
			return C.LLVMBuildIsNotNull(b.c, v.ptr(), cname)
		}

		return C.LLVMBuildIsNull(b.c, v.ptr(), cname)
	})

	return b.finishValue(op, ref)
}

// -----------------------------------------------------------------------------

// checkCallArgs checks args against the signature of callee.
func checkCallArgs(op string, callee FunctionCallee, args []Value) error {
	if err := checkTypes(op, callee.Type); err != nil {
		return err
	}

	if err := checkValues(op, callee.Callee); err != nil {
		return err
	}

	if err := checkValues(op, args...); err != nil {
		return err
	}

	if !callee.Callee.Type().IsPointerTy() {
		return invalidArg(op, "callee must be a pointer, got %s", callee.Callee.Type())
	}

	params := callee.Type.Params()
	if len(args) < len(params) || (len(args) > len(params) && !callee.Type.IsVarArg()) {
		return invalidArg(op, "%d arguments given for %d parameters", len(args), len(params))
	}

	for i, paramType := range params {
		if !SameType(args[i].Type(), paramType) {
			return invalidArg(op, "argument %d has type %s, expected %s", i, args[i].Type(), paramType)
		}
	}

	return nil
}

// CreateCall creates a `call` instruction calling fn with args.
func (b *Builder) CreateCall(fn Function, args []Value, name string) (CallInst, error) {
	if err := b.begin("Builder.CreateCall", fn); err != nil {
		return CallInst{}, err
	}

	return b.CreateCallee(fn.Callee(), args, name)
}

// CreateCallee creates a `call` instruction calling callee with args.  The
// callee may be any pointer called with the signature it is paired with.
func (b *Builder) CreateCallee(callee FunctionCallee, args []Value, name string) (CallInst, error) {
	const op = "Builder.CreateCall"

	if err := b.begin(op); err != nil {
		return CallInst{}, err
	}

	if err := checkCallArgs(op, callee, args); err != nil {
		return CallInst{}, err
	}

	if callee.Type.ReturnType().IsVoidTy() {
		name = ""
	}

	refs, n := valueRefs(args)
	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildCall2(b.c, callee.Type.c, callee.Callee.ptr(), refs, n, cname)
	})

	return finish[CallInst](b, op, ref)
}

// -----------------------------------------------------------------------------

// CreatePHI creates an empty `phi` instruction of type typ.
func (b *Builder) CreatePHI(typ Type, name string) (PHINode, error) {
	const op = "Builder.CreatePHI"

	if err := b.begin(op); err != nil {
		return PHINode{}, err
	}

	if err := checkTypes(op, typ); err != nil {
		return PHINode{}, err
	}

	if !typ.IsFirstClassType() || typ.IsLabelTy() || typ.IsMetadataTy() {
		return PHINode{}, invalidArg(op, "invalid phi type %s", typ)
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildPhi(b.c, typ.ptr(), cname)
	})

	return finish[PHINode](b, op, ref)
}

// CreateSelect creates a `select` instruction choosing between ifTrue and
// ifFalse.  The condition is an `i1` or a vector of `i1`.
func (b *Builder) CreateSelect(cond, ifTrue, ifFalse Value, name string) (Value, error) {
	const op = "Builder.CreateSelect"

	if err := b.begin(op, cond, ifTrue, ifFalse); err != nil {
		return nil, err
	}

	elem, n, scalable := scalarOf(cond.Type())
	if !isBool(elem) {
		return nil, invalidArg(op, "select condition must be i1, got %s", cond.Type())
	}

	if !SameType(ifTrue.Type(), ifFalse.Type()) {
		return nil, invalidArg(op, "operand types %s and %s differ", ifTrue.Type(), ifFalse.Type())
	}

	// a vector condition selects per element
	if cond.Type().IsVectorTy() {
		_, m, mScalable := scalarOf(ifTrue.Type())
		if !ifTrue.Type().IsVectorTy() || m != n || mScalable != scalable {
			return nil, invalidArg(op, "condition %s does not match operands of type %s", cond.Type(), ifTrue.Type())
		}
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildSelect(b.c, cond.ptr(), ifTrue.ptr(), ifFalse.ptr(), cname)
	})

	return b.finishValue(op, ref)
}

// aggregateLen returns the number of members of a struct or array type.
func aggregateLen(typ Type) (int, bool) {
	if st, ok := CastType[StructType](typ); ok {
		return st.NumElements(), true
	}

	if at, ok := CastType[ArrayType](typ); ok {
		return int(min(at.Len(), uint64(^uint32(0)))), true
	}

	return 0, false
}

// CreateExtractValue creates an `extractvalue` instruction reading the member
// ndx of the aggregate agg.
func (b *Builder) CreateExtractValue(agg Value, ndx int, name string) (Value, error) {
	const op = "Builder.CreateExtractValue"

	if err := b.begin(op, agg); err != nil {
		return nil, err
	}

	n, ok := aggregateLen(agg.Type())
	if !ok {
		return nil, invalidArg(op, "operand must be an aggregate, got %s", agg.Type())
	}

	if ndx < 0 || ndx >= n {
		return nil, invalidArg(op, "member index %d out of range for %d members", ndx, n)
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildExtractValue(b.c, agg.ptr(), mustCuint(ndx), cname)
	})

	return b.finishValue(op, ref)
}

// CreateInsertValue creates an `insertvalue` instruction replacing the member
// ndx of the aggregate agg with elem.
func (b *Builder) CreateInsertValue(agg, elem Value, ndx int, name string) (Value, error) {
	const op = "Builder.CreateInsertValue"

	if err := b.begin(op, agg, elem); err != nil {
		return nil, err
	}

	n, ok := aggregateLen(agg.Type())
	if !ok {
		return nil, invalidArg(op, "operand must be an aggregate, got %s", agg.Type())
	}

	if ndx < 0 || ndx >= n {
		return nil, invalidArg(op, "member index %d out of range for %d members", ndx, n)
	}

	var memberType Type
	if st, ok := CastType[StructType](agg.Type()); ok {
		memberType, _ = st.ElementType(ndx)
	} else {
		at, _ := CastType[ArrayType](agg.Type())
		memberType = at.ElemType()
	}

	if !SameType(memberType, elem.Type()) {
		return nil, invalidArg(op, "member %d has type %s, got %s", ndx, memberType, elem.Type())
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildInsertValue(b.c, agg.ptr(), elem.ptr(), mustCuint(ndx), cname)
	})

	return b.finishValue(op, ref)
}

// CreateExtractElement creates an `extractelement` instruction reading the
// element at ndx of the vector vec.
func (b *Builder) CreateExtractElement(vec, ndx Value, name string) (Value, error) {
	const op = "Builder.CreateExtractElement"

	if err := b.begin(op, vec, ndx); err != nil {
		return nil, err
	}

	if !vec.Type().IsVectorTy() {
		return nil, invalidArg(op, "operand must be a vector, got %s", vec.Type())
	}

	if !ndx.Type().IsIntegerTy() {
		return nil, invalidArg(op, "index must be an integer, got %s", ndx.Type())
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildExtractElement(b.c, vec.ptr(), ndx.ptr(), cname)
	})

	return b.finishValue(op, ref)
}

// CreateInsertElement creates an `insertelement` instruction replacing the
// element at ndx of the vector vec with elem.
func (b *Builder) CreateInsertElement(vec, elem, ndx Value, name string) (Value, error) {
	const op = "Builder.CreateInsertElement"

	if err := b.begin(op, vec, elem, ndx); err != nil {
		return nil, err
	}

	vt, ok := CastType[VectorType](vec.Type())
	if !ok {
		return nil, invalidArg(op, "operand must be a vector, got %s", vec.Type())
	}

	if !SameType(vt.ElemType(), elem.Type()) {
		return nil, invalidArg(op, "element must have type %s, got %s", vt.ElemType(), elem.Type())
	}

	if !ndx.Type().IsIntegerTy() {
		return nil, invalidArg(op, "index must be an integer, got %s", ndx.Type())
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildInsertElement(b.c, vec.ptr(), elem.ptr(), ndx.ptr(), cname)
	})

	return b.finishValue(op, ref)
}

// CreateShuffleVector creates a `shufflevector` instruction selecting the
// elements of v1 and v2 given by the constant mask.
func (b *Builder) CreateShuffleVector(v1, v2, mask Value, name string) (Value, error) {
	const op = "Builder.CreateShuffleVector"

	if err := b.begin(op, v1, v2, mask); err != nil {
		return nil, err
	}

	if !v1.Type().IsVectorTy() || !SameType(v1.Type(), v2.Type()) {
		return nil, invalidArg(op, "operands must be vectors of the same type, got %s and %s", v1.Type(), v2.Type())
	}

	if maskElem, _, _ := scalarOf(mask.Type()); !mask.IsConstant() || !mask.Type().IsVectorTy() || !isIntOfWidth(maskElem, 32) {
		return nil, invalidArg(op, "mask must be a constant vector of i32, got %s", mask.Type())
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildShuffleVector(b.c, v1.ptr(), v2.ptr(), mask.ptr(), cname)
	})

	return b.finishValue(op, ref)
}

// CreateFreeze creates a `freeze` instruction.
func (b *Builder) CreateFreeze(v Value, name string) (FreezeInst, error) {
	const op = "Builder.CreateFreeze"

	if err := b.begin(op, v); err != nil {
		return FreezeInst{}, err
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildFreeze(b.c, v.ptr(), cname)
	})

	return finish[FreezeInst](b, op, ref)
}

// CreateVAArg creates a `va_arg` instruction reading an argument of type typ
// from the variable argument list at list.
func (b *Builder) CreateVAArg(list Value, typ Type, name string) (VAArgInst, error) {
	const op = "Builder.CreateVAArg"

	if err := b.begin(op, list); err != nil {
		return VAArgInst{}, err
	}

	if err := checkSized(op, typ); err != nil {
		return VAArgInst{}, err
	}

	if !list.Type().IsPointerTy() {
		return VAArgInst{}, invalidArg(op, "argument list must be a pointer, got %s", list.Type())
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildVAArg(b.c, list.ptr(), typ.ptr(), cname)
	})

	return finish[VAArgInst](b, op, ref)
}

// -----------------------------------------------------------------------------

// CreateLandingPad creates a `landingpad` instruction producing a value of
// type typ.  numClauses is a hint for the number of clauses that will be
// added.  A zero personality leaves the personality of the function in
// effect.
func (b *Builder) CreateLandingPad(typ Type, personality Function, numClauses int, name string) (LandingPadInst, error) {
	const op = "Builder.CreateLandingPad"

	if err := b.begin(op); err != nil {
		return LandingPadInst{}, err
	}

	if err := checkTypes(op, typ); err != nil {
		return LandingPadInst{}, err
	}

	var pers C.LLVMValueRef
	if !personality.IsNil() {
		if err := checkValues(op, personality); err != nil {
			return LandingPadInst{}, err
		}

		pers = personality.c
	}

	n, err := cuint(op, numClauses)
	if err != nil {
		return LandingPadInst{}, err
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildLandingPad(b.c, typ.ptr(), pers, n, cname)
	})

	return finish[LandingPadInst](b, op, ref)
}

// CreateCatchPad creates a `catchpad` instruction handling exceptions
// dispatched by catchSwitch.
func (b *Builder) CreateCatchPad(catchSwitch CatchSwitchInst, args []Value, name string) (CatchPadInst, error) {
	const op = "Builder.CreateCatchPad"

	if err := b.begin(op, catchSwitch); err != nil {
		return CatchPadInst{}, err
	}

	if err := checkValues(op, args...); err != nil {
		return CatchPadInst{}, err
	}

	refs, n := valueRefs(args)
	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildCatchPad(b.c, catchSwitch.c, refs, n, cname)
	})

	return finish[CatchPadInst](b, op, ref)
}

// CreateCleanupPad creates a `cleanuppad` instruction.  A nil parentPad means
// the pad is not nested in another pad.
func (b *Builder) CreateCleanupPad(parentPad Value, args []Value, name string) (CleanupPadInst, error) {
	const op = "Builder.CreateCleanupPad"

	if err := b.begin(op); err != nil {
		return CleanupPadInst{}, err
	}

	if err := checkValues(op, args...); err != nil {
		return CleanupPadInst{}, err
	}

	parent, err := b.padParent(op, parentPad)
	if err != nil {
		return CleanupPadInst{}, err
	}

	refs, n := valueRefs(args)
	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildCleanupPad(b.c, parent, refs, n, cname)
	})

	return finish[CleanupPadInst](b, op, ref)
}

// -----------------------------------------------------------------------------

// CreateFence creates a `fence` instruction.
func (b *Builder) CreateFence(ordering AtomicOrdering, singleThread bool, name string) (FenceInst, error) {
	const op = "Builder.CreateFence"

	if err := b.begin(op); err != nil {
		return FenceInst{}, err
	}

	switch ordering {
	case Acquire, Release, AcquireRelease, SequentiallyConsistent:
	default:
		return FenceInst{}, invalidArg(op, "fence ordering must be acquire, release, acq_rel or seq_cst")
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildFence(b.c, C.LLVMAtomicOrdering(ordering), llvmBool(singleThread), cname)
	})

	return finish[FenceInst](b, op, ref)
}

// CreateAtomicRMW creates an `atomicrmw` instruction applying binOp to the
// value at ptr and val.
func (b *Builder) CreateAtomicRMW(binOp AtomicRMWBinOp, ptr, val Value, ordering AtomicOrdering, singleThread bool) (AtomicRMWInst, error) {
	const op = "Builder.CreateAtomicRMW"

	if err := b.begin(op, ptr, val); err != nil {
		return AtomicRMWInst{}, err
	}

	if !ptr.Type().IsPointerTy() {
		return AtomicRMWInst{}, invalidArg(op, "address must be a pointer, got %s", ptr.Type())
	}

	if ordering == NotAtomic || ordering == Unordered {
		return AtomicRMWInst{}, invalidArg(op, "atomicrmw ordering must be at least monotonic")
	}

	typ := val.Type()
	switch {
	case binOp == AtomicRMWXchg:
		if !typ.IsIntegerTy() && !typ.IsFloatingPointTy() && !typ.IsPointerTy() {
			return AtomicRMWInst{}, invalidArg(op, "xchg operand must be an integer, float or pointer, got %s", typ)
		}
	case binOp.IsFloat():
		if !typ.IsFloatingPointTy() {
			return AtomicRMWInst{}, invalidArg(op, "operand must be floating point, got %s", typ)
		}
	default:
		if !typ.IsIntegerTy() {
			return AtomicRMWInst{}, invalidArg(op, "operand must be an integer, got %s", typ)
		}
	}

	ref := C.LLVMBuildAtomicRMW(b.c, C.LLVMAtomicRMWBinOp(binOp), ptr.ptr(), val.ptr(), C.LLVMAtomicOrdering(ordering), llvmBool(singleThread))
	return finish[AtomicRMWInst](b, op, ref)
}

// CreateAtomicCmpXchg creates a `cmpxchg` instruction replacing the value at
// ptr with newVal if it equals cmp.
func (b *Builder) CreateAtomicCmpXchg(ptr, cmp, newVal Value, success, failure AtomicOrdering, singleThread bool) (AtomicCmpXchgInst, error) {
	const op = "Builder.CreateAtomicCmpXchg"

	if err := b.begin(op, ptr, cmp, newVal); err != nil {
		return AtomicCmpXchgInst{}, err
	}

	if !ptr.Type().IsPointerTy() {
		return AtomicCmpXchgInst{}, invalidArg(op, "address must be a pointer, got %s", ptr.Type())
	}

	if !SameType(cmp.Type(), newVal.Type()) {
		return AtomicCmpXchgInst{}, invalidArg(op, "operand types %s and %s differ", cmp.Type(), newVal.Type())
	}

	if !cmp.Type().IsIntegerTy() && !cmp.Type().IsPointerTy() {
		return AtomicCmpXchgInst{}, invalidArg(op, "operands must be integers or pointers, got %s", cmp.Type())
	}

	if success < Monotonic || failure < Monotonic {
		return AtomicCmpXchgInst{}, invalidArg(op, "cmpxchg orderings must be at least monotonic")
	}

	if failure == Release || failure == AcquireRelease {
		return AtomicCmpXchgInst{}, invalidArg(op, "cmpxchg failure ordering can not release")
	}

	ref := C.LLVMBuildAtomicCmpXchg(b.c, ptr.ptr(), cmp.ptr(), newVal.ptr(),
		C.LLVMAtomicOrdering(success), C.LLVMAtomicOrdering(failure), llvmBool(singleThread))
	return finish[AtomicCmpXchgInst](b, op, ref)
}
