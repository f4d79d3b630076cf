package llvm

/*
#include "llvm-c/Core.h"
*/
import "C"

// BinaryOperator represents a two-operand arithmetic or bitwise instruction.
type BinaryOperator struct {
	instructionBase
}

// hasWrapFlags returns whether the operator can carry `nsw` and `nuw`.
func (bo BinaryOperator) hasWrapFlags() bool {
	switch bo.Opcode() {
	case OpAdd, OpSub, OpMul, OpShl:
		return true
	}

	return false
}

// hasExactFlag returns whether the operator can carry `exact`.
func (bo BinaryOperator) hasExactFlag() bool {
	switch bo.Opcode() {
	case OpUDiv, OpSDiv, OpLShr, OpAShr:
		return true
	}

	return false
}

// NSW returns whether the operator is marked `nsw`.
func (bo BinaryOperator) NSW() bool {
	return bo.hasWrapFlags() && fromBool(C.LLVMGetNSW(bo.c))
}

// NUW returns whether the operator is marked `nuw`.
func (bo BinaryOperator) NUW() bool {
	return bo.hasWrapFlags() && fromBool(C.LLVMGetNUW(bo.c))
}

// Exact returns whether the operator is marked `exact`.
func (bo BinaryOperator) Exact() bool {
	return bo.hasExactFlag() && fromBool(C.LLVMGetExact(bo.c))
}

// SetNSW sets whether the operator is marked `nsw`.
func (bo BinaryOperator) SetNSW(nsw bool) error {
	if err := bo.lt.check("BinaryOperator.SetNSW"); err != nil {
		return err
	}

	if !bo.hasWrapFlags() {
		return invalidArg("BinaryOperator.SetNSW", "%s can not be marked nsw", bo.Opcode())
	}

	C.LLVMSetNSW(bo.c, llvmBool(nsw))
	return nil
}

// SetNUW sets whether the operator is marked `nuw`.
func (bo BinaryOperator) SetNUW(nuw bool) error {
	if err := bo.lt.check("BinaryOperator.SetNUW"); err != nil {
		return err
	}

	if !bo.hasWrapFlags() {
		return invalidArg("BinaryOperator.SetNUW", "%s can not be marked nuw", bo.Opcode())
	}

	C.LLVMSetNUW(bo.c, llvmBool(nuw))
	return nil
}

// SetExact sets whether the operator is marked `exact`.
func (bo BinaryOperator) SetExact(exact bool) error {
	if err := bo.lt.check("BinaryOperator.SetExact"); err != nil {
		return err
	}

	if !bo.hasExactFlag() {
		return invalidArg("BinaryOperator.SetExact", "%s can not be marked exact", bo.Opcode())
	}

	C.LLVMSetExact(bo.c, llvmBool(exact))
	return nil
}

// LHS returns the left operand.
func (bo BinaryOperator) LHS() Value {
	bo.lt.mustBeAlive()
	return wrapValue(C.LLVMGetOperand(bo.c, 0), bo.lt)
}

// RHS returns the right operand.
func (bo BinaryOperator) RHS() Value {
	bo.lt.mustBeAlive()
	return wrapValue(C.LLVMGetOperand(bo.c, 1), bo.lt)
}

// UnaryOperator represents a one-operand arithmetic instruction: `fneg`.
type UnaryOperator struct {
	instructionBase
}

// FreezeInst represents a `freeze` instruction.
type FreezeInst struct {
	instructionBase
}

// -----------------------------------------------------------------------------

// CastOp is the opcode of a conversion instruction.
type CastOp OpCode

// Enumeration of cast operations.
const (
	CastTrunc         = CastOp(OpTrunc)
	CastZExt          = CastOp(OpZExt)
	CastSExt          = CastOp(OpSExt)
	CastFPToUI        = CastOp(OpFPToUI)
	CastFPToSI        = CastOp(OpFPToSI)
	CastUIToFP        = CastOp(OpUIToFP)
	CastSIToFP        = CastOp(OpSIToFP)
	CastFPTrunc       = CastOp(OpFPTrunc)
	CastFPExt         = CastOp(OpFPExt)
	CastPtrToInt      = CastOp(OpPtrToInt)
	CastIntToPtr      = CastOp(OpIntToPtr)
	CastBitCast       = CastOp(OpBitCast)
	CastAddrSpaceCast = CastOp(OpAddrSpaceCast)
)

func (op CastOp) String() string {
	return OpCode(op).String()
}

// IsValid returns whether op is one of the cast operations.
func (op CastOp) IsValid() bool {
	switch op {
	case CastTrunc, CastZExt, CastSExt, CastFPToUI, CastFPToSI, CastUIToFP,
		CastSIToFP, CastFPTrunc, CastFPExt, CastPtrToInt, CastIntToPtr,
		CastBitCast, CastAddrSpaceCast:
		return true
	}

	return false
}

// CastInst represents a conversion instruction.
type CastInst struct {
	instructionBase
}

// CastOp returns the conversion the instruction performs.
func (ci CastInst) CastOp() CastOp {
	return CastOp(ci.Opcode())
}

// SrcType returns the type of the value being converted.
func (ci CastInst) SrcType() Type {
	ci.lt.mustBeAlive()
	return wrapType(C.LLVMTypeOf(C.LLVMGetOperand(ci.c, 0)), ci.lt.root())
}

// DestType returns the type the value is converted to.
func (ci CastInst) DestType() Type {
	return ci.Type()
}
