package llvm

/*
#include "llvm-c/Core.h"
*/
import "C"

import "fmt"

// OpCode represents an LLVM instruction opcode.
type OpCode C.LLVMOpcode

// Enumeration of LLVM opcodes.
const (
	// Terminator Instructions
	OpRet         OpCode = C.LLVMRet
	OpBr          OpCode = C.LLVMBr
	OpSwitch      OpCode = C.LLVMSwitch
	OpIndirectBr  OpCode = C.LLVMIndirectBr
	OpInvoke      OpCode = C.LLVMInvoke
	OpUnreachable OpCode = C.LLVMUnreachable
	OpCallBr      OpCode = C.LLVMCallBr

	// Standard Unary Operators
	OpFNeg OpCode = C.LLVMFNeg

	// Standard Binary Operators
	OpAdd  OpCode = C.LLVMAdd
	OpFAdd OpCode = C.LLVMFAdd
	OpSub  OpCode = C.LLVMSub
	OpFSub OpCode = C.LLVMFSub
	OpMul  OpCode = C.LLVMMul
	OpFMul OpCode = C.LLVMFMul
	OpUDiv OpCode = C.LLVMUDiv
	OpSDiv OpCode = C.LLVMSDiv
	OpFDiv OpCode = C.LLVMFDiv
	OpURem OpCode = C.LLVMURem
	OpSRem OpCode = C.LLVMSRem
	OpFRem OpCode = C.LLVMFRem

	// Logical Operators
	OpShl  OpCode = C.LLVMShl
	OpLShr OpCode = C.LLVMLShr
	OpAShr OpCode = C.LLVMAShr
	OpAnd  OpCode = C.LLVMAnd
	OpOr   OpCode = C.LLVMOr
	OpXor  OpCode = C.LLVMXor

	// Memory Operators
	OpAlloca        OpCode = C.LLVMAlloca
	OpLoad          OpCode = C.LLVMLoad
	OpStore         OpCode = C.LLVMStore
	OpGetElementPtr OpCode = C.LLVMGetElementPtr

	// Cast Operators
	OpTrunc         OpCode = C.LLVMTrunc
	OpZExt          OpCode = C.LLVMZExt
	OpSExt          OpCode = C.LLVMSExt
	OpFPToUI        OpCode = C.LLVMFPToUI
	OpFPToSI        OpCode = C.LLVMFPToSI
	OpUIToFP        OpCode = C.LLVMUIToFP
	OpSIToFP        OpCode = C.LLVMSIToFP
	OpFPTrunc       OpCode = C.LLVMFPTrunc
	OpFPExt         OpCode = C.LLVMFPExt
	OpPtrToInt      OpCode = C.LLVMPtrToInt
	OpIntToPtr      OpCode = C.LLVMIntToPtr
	OpBitCast       OpCode = C.LLVMBitCast
	OpAddrSpaceCast OpCode = C.LLVMAddrSpaceCast

	// Other Operators
	OpICmp           OpCode = C.LLVMICmp
	OpFCmp           OpCode = C.LLVMFCmp
	OpPHI            OpCode = C.LLVMPHI
	OpCall           OpCode = C.LLVMCall
	OpSelect         OpCode = C.LLVMSelect
	OpUserOp1        OpCode = C.LLVMUserOp1
	OpUserOp2        OpCode = C.LLVMUserOp2
	OpVAArg          OpCode = C.LLVMVAArg
	OpExtractElement OpCode = C.LLVMExtractElement
	OpInsertElement  OpCode = C.LLVMInsertElement
	OpShuffleVector  OpCode = C.LLVMShuffleVector
	OpExtractValue   OpCode = C.LLVMExtractValue
	OpInsertValue    OpCode = C.LLVMInsertValue
	OpFreeze         OpCode = C.LLVMFreeze

	// Atomic operators
	OpFence         OpCode = C.LLVMFence
	OpAtomicCmpXchg OpCode = C.LLVMAtomicCmpXchg
	OpAtomicRMW     OpCode = C.LLVMAtomicRMW

	// Exception Handling Operators
	OpResume      OpCode = C.LLVMResume
	OpLandingPad  OpCode = C.LLVMLandingPad
	OpCleanupRet  OpCode = C.LLVMCleanupRet
	OpCatchRet    OpCode = C.LLVMCatchRet
	OpCatchPad    OpCode = C.LLVMCatchPad
	OpCleanupPad  OpCode = C.LLVMCleanupPad
	OpCatchSwitch OpCode = C.LLVMCatchSwitch
)

var opcodeNames = map[OpCode]string{
	OpRet:            "ret",
	OpBr:             "br",
	OpSwitch:         "switch",
	OpIndirectBr:     "indirectbr",
	OpInvoke:         "invoke",
	OpUnreachable:    "unreachable",
	OpCallBr:         "callbr",
	OpFNeg:           "fneg",
	OpAdd:            "add",
	OpFAdd:           "fadd",
	OpSub:            "sub",
	OpFSub:           "fsub",
	OpMul:            "mul",
	OpFMul:           "fmul",
	OpUDiv:           "udiv",
	OpSDiv:           "sdiv",
	OpFDiv:           "fdiv",
	OpURem:           "urem",
	OpSRem:           "srem",
	OpFRem:           "frem",
	OpShl:            "shl",
	OpLShr:           "lshr",
	OpAShr:           "ashr",
	OpAnd:            "and",
	OpOr:             "or",
	OpXor:            "xor",
	OpAlloca:         "alloca",
	OpLoad:           "load",
	OpStore:          "store",
	OpGetElementPtr:  "getelementptr",
	OpTrunc:          "trunc",
	OpZExt:           "zext",
	OpSExt:           "sext",
	OpFPToUI:         "fptoui",
	OpFPToSI:         "fptosi",
	OpUIToFP:         "uitofp",
	OpSIToFP:         "sitofp",
	OpFPTrunc:        "fptrunc",
	OpFPExt:          "fpext",
	OpPtrToInt:       "ptrtoint",
	OpIntToPtr:       "inttoptr",
	OpBitCast:        "bitcast",
	OpAddrSpaceCast:  "addrspacecast",
	OpICmp:           "icmp",
	OpFCmp:           "fcmp",
	OpPHI:            "phi",
	OpCall:           "call",
	OpSelect:         "select",
	OpUserOp1:        "userop1",
	OpUserOp2:        "userop2",
	OpVAArg:          "va_arg",
	OpExtractElement: "extractelement",
	OpInsertElement:  "insertelement",
	OpShuffleVector:  "shufflevector",
	OpExtractValue:   "extractvalue",
	OpInsertValue:    "insertvalue",
	OpFreeze:         "freeze",
	OpFence:          "fence",
	OpAtomicCmpXchg:  "cmpxchg",
	OpAtomicRMW:      "atomicrmw",
	OpResume:         "resume",
	OpLandingPad:     "landingpad",
	OpCleanupRet:     "cleanupret",
	OpCatchRet:       "catchret",
	OpCatchPad:       "catchpad",
	OpCleanupPad:     "cleanuppad",
	OpCatchSwitch:    "catchswitch",
}

// String returns the textual IR mnemonic of the opcode.
func (oc OpCode) String() string {
	if name, ok := opcodeNames[oc]; ok {
		return name
	}

	return fmt.Sprintf("OpCode(%d)", int(oc))
}

// -----------------------------------------------------------------------------

// Instruction represents an LLVM instruction.
type Instruction interface {
	User

	// Opcode returns the opcode of the instruction.
	Opcode() OpCode

	// Parent returns the basic block containing the instruction.
	Parent() (BasicBlock, bool)

	// Function returns the function containing the instruction.
	Function() (Function, bool)

	// Next returns the instruction after this one in its block.
	Next() (Instruction, bool)

	// Prev returns the instruction before this one in its block.
	Prev() (Instruction, bool)

	// IsTerminator returns whether the instruction is a terminator.
	IsTerminator() bool

	// Clone returns a copy of the instruction which is not inserted into any
	// block and has no name.
	Clone() (Instruction, error)

	// RemoveFromParent unlinks the instruction from its block without
	// deleting it.
	RemoveFromParent() error

	// EraseFromParent unlinks the instruction from its block and deletes it.
	EraseFromParent() error

	isInstruction()
}

// instructionBase is the base type for all instructions.
type instructionBase struct {
	userBase
}

func (instructionBase) isInstruction() {}

func (ib instructionBase) Opcode() OpCode {
	ib.lt.mustBeAlive()
	return OpCode(C.LLVMGetInstructionOpcode(ib.c))
}

func (ib instructionBase) Parent() (BasicBlock, bool) {
	ib.lt.mustBeAlive()
	return wrapBlockRef(C.LLVMGetInstructionParent(ib.c), ib.lt)
}

func (ib instructionBase) Function() (Function, bool) {
	bb, ok := ib.Parent()
	if !ok {
		return Function{}, false
	}

	return bb.Parent()
}

func (ib instructionBase) Next() (Instruction, bool) {
	ib.lt.mustBeAlive()
	return wrapInstructionRef(C.LLVMGetNextInstruction(ib.c), ib.lt)
}

func (ib instructionBase) Prev() (Instruction, bool) {
	ib.lt.mustBeAlive()
	return wrapInstructionRef(C.LLVMGetPreviousInstruction(ib.c), ib.lt)
}

func (ib instructionBase) IsTerminator() bool {
	ib.lt.mustBeAlive()
	return C.LLVMIsATerminatorInst(ib.c) != nil
}

func (ib instructionBase) Clone() (Instruction, error) {
	const op = "Instruction.Clone"

	if err := ib.lt.check(op); err != nil {
		return nil, err
	}

	clone := C.LLVMInstructionClone(ib.c)
	if clone == nil {
		return nil, constructionFailed(op)
	}

	instr, _ := wrapInstructionRef(clone, ib.lt)
	return instr, nil
}

func (ib instructionBase) RemoveFromParent() error {
	const op = "Instruction.RemoveFromParent"

	if err := ib.lt.check(op); err != nil {
		return err
	}

	if _, ok := ib.Parent(); !ok {
		return invalidArg(op, "instruction is not in a block")
	}

	C.LLVMInstructionRemoveFromParent(ib.c)
	return nil
}

func (ib instructionBase) EraseFromParent() error {
	const op = "Instruction.EraseFromParent"

	if err := ib.lt.check(op); err != nil {
		return err
	}

	if _, ok := ib.Parent(); !ok {
		return invalidArg(op, "instruction is not in a block")
	}

	if n := ib.NumUses(); n > 0 {
		return invalidArg(op, "instruction still has %d uses", n)
	}

	ib.lt.context().forgetPositions(func(ip InsertPoint) bool {
		return ip.before == ib.c
	})

	C.LLVMInstructionEraseFromParent(ib.c)
	return nil
}

// The successor accessors are shared by terminatorBase and InvokeInst.

func (ib instructionBase) numSuccessors() int {
	ib.lt.mustBeAlive()
	return int(C.LLVMGetNumSuccessors(ib.c))
}

func (ib instructionBase) successor(ndx int) (BasicBlock, error) {
	const op = "Terminator.Successor"

	if err := ib.lt.check(op); err != nil {
		return BasicBlock{}, err
	}

	if n := ib.numSuccessors(); ndx < 0 || ndx >= n {
		return BasicBlock{}, invalidArg(op, "successor index %d out of range for %d successors", ndx, n)
	}

	return BasicBlock{c: C.LLVMGetSuccessor(ib.c, mustCuint(ndx)), lt: ib.lt}, nil
}

func (ib instructionBase) setSuccessor(ndx int, bb BasicBlock) error {
	const op = "Terminator.SetSuccessor"

	if err := ib.lt.check(op); err != nil {
		return err
	}

	if err := checkBlocks(op, bb); err != nil {
		return err
	}

	if n := ib.numSuccessors(); ndx < 0 || ndx >= n {
		return invalidArg(op, "successor index %d out of range for %d successors", ndx, n)
	}

	C.LLVMSetSuccessor(ib.c, mustCuint(ndx), bb.c)
	return nil
}

func (ib instructionBase) successors() []BasicBlock {
	n := ib.numSuccessors()
	succs := make([]BasicBlock, n)
	for i := range succs {
		succs[i] = BasicBlock{c: C.LLVMGetSuccessor(ib.c, mustCuint(i)), lt: ib.lt}
	}

	return succs
}

// OtherInst is an instruction with no more specific wrapper.
type OtherInst struct {
	instructionBase
}

// -----------------------------------------------------------------------------

// Terminator represents an instruction which ends a basic block.
type Terminator interface {
	Instruction

	// NumSuccessors returns the number of successors of the terminator.
	NumSuccessors() int

	// Successor returns the successor at index ndx.
	Successor(ndx int) (BasicBlock, error)

	// SetSuccessor sets the successor at index ndx to bb.
	SetSuccessor(ndx int, bb BasicBlock) error

	// Successors returns all the successors of the terminator in order.
	Successors() []BasicBlock

	isTerminator()
}

// terminatorBase is the base type for most terminators.
type terminatorBase struct {
	instructionBase
}

func (terminatorBase) isTerminator() {}

func (tb terminatorBase) NumSuccessors() int {
	return tb.numSuccessors()
}

func (tb terminatorBase) Successor(ndx int) (BasicBlock, error) {
	return tb.successor(ndx)
}

func (tb terminatorBase) SetSuccessor(ndx int, bb BasicBlock) error {
	return tb.setSuccessor(ndx, bb)
}

func (tb terminatorBase) Successors() []BasicBlock {
	return tb.successors()
}

// -----------------------------------------------------------------------------

// wrapInstructionRef wraps a nullable instruction reference.
func wrapInstructionRef(c C.LLVMValueRef, lt *lifetime) (Instruction, bool) {
	if c == nil {
		return nil, false
	}

	return wrapInstruction(instructionBase{userBase{valueBase{c: c, lt: lt}}}), true
}

// wrapInstruction wraps an instruction in the Go type matching its opcode.
func wrapInstruction(ib instructionBase) Instruction {
	tb := terminatorBase{ib}
	cs := callSite{ib}

	switch OpCode(C.LLVMGetInstructionOpcode(ib.c)) {
	case OpRet:
		return ReturnInst{tb}
	case OpBr:
		return BranchInst{tb}
	case OpSwitch:
		return SwitchInst{tb}
	case OpIndirectBr:
		return IndirectBrInst{tb}
	case OpInvoke:
		return InvokeInst{cs}
	case OpUnreachable:
		return UnreachableInst{tb}
	case OpCallBr:
		return CallBrInst{tb}
	case OpResume:
		return ResumeInst{tb}
	case OpCleanupRet:
		return CleanupReturnInst{tb}
	case OpCatchRet:
		return CatchReturnInst{tb}
	case OpCatchSwitch:
		return CatchSwitchInst{tb}
	case OpCall:
		return CallInst{cs}
	case OpCatchPad:
		return CatchPadInst{funcletPadBase{ib}}
	case OpCleanupPad:
		return CleanupPadInst{funcletPadBase{ib}}
	case OpLandingPad:
		return LandingPadInst{ib}
	case OpFNeg:
		return UnaryOperator{ib}
	case OpAdd, OpFAdd, OpSub, OpFSub, OpMul, OpFMul, OpUDiv, OpSDiv, OpFDiv,
		OpURem, OpSRem, OpFRem, OpShl, OpLShr, OpAShr, OpAnd, OpOr, OpXor:
		return BinaryOperator{ib}
	case OpTrunc, OpZExt, OpSExt, OpFPToUI, OpFPToSI, OpUIToFP, OpSIToFP,
		OpFPTrunc, OpFPExt, OpPtrToInt, OpIntToPtr, OpBitCast, OpAddrSpaceCast:
		return CastInst{ib}
	case OpICmp:
		return ICmpInst{cmpBase{ib}}
	case OpFCmp:
		return FCmpInst{cmpBase{ib}}
	case OpAlloca:
		return AllocaInst{ib}
	case OpLoad:
		return LoadInst{memAccess{ib}}
	case OpStore:
		return StoreInst{memAccess{ib}}
	case OpGetElementPtr:
		return GetElementPtrInst{ib}
	case OpPHI:
		return PHINode{ib}
	case OpSelect:
		return SelectInst{ib}
	case OpExtractValue:
		return ExtractValueInst{ib}
	case OpInsertValue:
		return InsertValueInst{ib}
	case OpExtractElement:
		return ExtractElementInst{ib}
	case OpInsertElement:
		return InsertElementInst{ib}
	case OpShuffleVector:
		return ShuffleVectorInst{ib}
	case OpFence:
		return FenceInst{ib}
	case OpAtomicRMW:
		return AtomicRMWInst{ib}
	case OpAtomicCmpXchg:
		return AtomicCmpXchgInst{ib}
	case OpVAArg:
		return VAArgInst{ib}
	case OpFreeze:
		return FreezeInst{ib}
	default:
		return OtherInst{ib}
	}
}
