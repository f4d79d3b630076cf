package llvm

/*
#include "llvm-c/Core.h"
*/
import "C"

// AtomicOrdering represents the memory ordering constraint of an atomic
// operation.
type AtomicOrdering C.LLVMAtomicOrdering

// Enumeration of atomic orderings.
const (
	NotAtomic              AtomicOrdering = C.LLVMAtomicOrderingNotAtomic
	Unordered              AtomicOrdering = C.LLVMAtomicOrderingUnordered
	Monotonic              AtomicOrdering = C.LLVMAtomicOrderingMonotonic
	Acquire                AtomicOrdering = C.LLVMAtomicOrderingAcquire
	Release                AtomicOrdering = C.LLVMAtomicOrderingRelease
	AcquireRelease         AtomicOrdering = C.LLVMAtomicOrderingAcquireRelease
	SequentiallyConsistent AtomicOrdering = C.LLVMAtomicOrderingSequentiallyConsistent
)

// AtomicRMWBinOp is the operation performed by an `atomicrmw` instruction.
type AtomicRMWBinOp C.LLVMAtomicRMWBinOp

// Enumeration of atomic read-modify-write operations.
const (
	AtomicRMWXchg AtomicRMWBinOp = C.LLVMAtomicRMWBinOpXchg
	AtomicRMWAdd  AtomicRMWBinOp = C.LLVMAtomicRMWBinOpAdd
	AtomicRMWSub  AtomicRMWBinOp = C.LLVMAtomicRMWBinOpSub
	AtomicRMWAnd  AtomicRMWBinOp = C.LLVMAtomicRMWBinOpAnd
	AtomicRMWNand AtomicRMWBinOp = C.LLVMAtomicRMWBinOpNand
	AtomicRMWOr   AtomicRMWBinOp = C.LLVMAtomicRMWBinOpOr
	AtomicRMWXor  AtomicRMWBinOp = C.LLVMAtomicRMWBinOpXor
	AtomicRMWMax  AtomicRMWBinOp = C.LLVMAtomicRMWBinOpMax
	AtomicRMWMin  AtomicRMWBinOp = C.LLVMAtomicRMWBinOpMin
	AtomicRMWUMax AtomicRMWBinOp = C.LLVMAtomicRMWBinOpUMax
	AtomicRMWUMin AtomicRMWBinOp = C.LLVMAtomicRMWBinOpUMin
	AtomicRMWFAdd AtomicRMWBinOp = C.LLVMAtomicRMWBinOpFAdd
	AtomicRMWFSub AtomicRMWBinOp = C.LLVMAtomicRMWBinOpFSub
	AtomicRMWFMax AtomicRMWBinOp = C.LLVMAtomicRMWBinOpFMax
	AtomicRMWFMin AtomicRMWBinOp = C.LLVMAtomicRMWBinOpFMin
)

// IsFloat returns whether the operation works on floating point values.
func (op AtomicRMWBinOp) IsFloat() bool {
	switch op {
	case AtomicRMWFAdd, AtomicRMWFSub, AtomicRMWFMax, AtomicRMWFMin:
		return true
	}

	return false
}

// -----------------------------------------------------------------------------

// AllocaInst represents an `alloca` instruction.
type AllocaInst struct {
	instructionBase
}

// AllocatedType returns the type of the stack slot.
func (ai AllocaInst) AllocatedType() Type {
	ai.lt.mustBeAlive()
	return wrapType(C.LLVMGetAllocatedType(ai.c), ai.lt.root())
}

// ArraySize returns the number of elements allocated.
func (ai AllocaInst) ArraySize() Value {
	ai.lt.mustBeAlive()
	return wrapValue(C.LLVMGetOperand(ai.c, 0), ai.lt)
}

// Alignment returns the alignment of the stack slot.
func (ai AllocaInst) Alignment() int {
	ai.lt.mustBeAlive()
	return int(C.LLVMGetAlignment(ai.c))
}

// SetAlignment sets the alignment of the stack slot.
func (ai AllocaInst) SetAlignment(align int) error {
	return setAlignment("AllocaInst.SetAlignment", ai.valueBase, align)
}

// -----------------------------------------------------------------------------

// memAccess holds the accessors shared by `load` and `store`.
type memAccess struct {
	instructionBase
}

// Alignment returns the alignment of the access.
func (ma memAccess) Alignment() int {
	ma.lt.mustBeAlive()
	return int(C.LLVMGetAlignment(ma.c))
}

// SetAlignment sets the alignment of the access.
func (ma memAccess) SetAlignment(align int) error {
	return setAlignment("SetAlignment", ma.valueBase, align)
}

// Volatile returns whether the access is volatile.
func (ma memAccess) Volatile() bool {
	ma.lt.mustBeAlive()
	return fromBool(C.LLVMGetVolatile(ma.c))
}

// SetVolatile sets whether the access is volatile.
func (ma memAccess) SetVolatile(volatile bool) {
	ma.lt.mustBeAlive()
	C.LLVMSetVolatile(ma.c, llvmBool(volatile))
}

// Ordering returns the atomic ordering of the access.
func (ma memAccess) Ordering() AtomicOrdering {
	ma.lt.mustBeAlive()
	return AtomicOrdering(C.LLVMGetOrdering(ma.c))
}

// SetOrdering sets the atomic ordering of the access.
func (ma memAccess) SetOrdering(ordering AtomicOrdering) {
	ma.lt.mustBeAlive()
	C.LLVMSetOrdering(ma.c, C.LLVMAtomicOrdering(ordering))
}

// LoadInst represents a `load` instruction.
type LoadInst struct {
	memAccess
}

// PointerOperand returns the address being loaded from.
func (li LoadInst) PointerOperand() Value {
	li.lt.mustBeAlive()
	return wrapValue(C.LLVMGetOperand(li.c, 0), li.lt)
}

// StoreInst represents a `store` instruction.
type StoreInst struct {
	memAccess
}

// ValueOperand returns the value being stored.
func (si StoreInst) ValueOperand() Value {
	si.lt.mustBeAlive()
	return wrapValue(C.LLVMGetOperand(si.c, 0), si.lt)
}

// PointerOperand returns the address being stored to.
func (si StoreInst) PointerOperand() Value {
	si.lt.mustBeAlive()
	return wrapValue(C.LLVMGetOperand(si.c, 1), si.lt)
}

// -----------------------------------------------------------------------------

// GetElementPtrInst represents a `getelementptr` instruction.
type GetElementPtrInst struct {
	instructionBase
}

// SourceElementType returns the type the indices step through.
func (gep GetElementPtrInst) SourceElementType() Type {
	gep.lt.mustBeAlive()
	return wrapType(C.LLVMGetGEPSourceElementType(gep.c), gep.lt.root())
}

// InBounds returns whether the GEP is marked `inbounds`.
func (gep GetElementPtrInst) InBounds() bool {
	gep.lt.mustBeAlive()
	return fromBool(C.LLVMIsInBounds(gep.c))
}

// SetInBounds sets whether the GEP is marked `inbounds`.
func (gep GetElementPtrInst) SetInBounds(inBounds bool) {
	gep.lt.mustBeAlive()
	C.LLVMSetIsInBounds(gep.c, llvmBool(inBounds))
}

// NumIndices returns the number of indices of the GEP.
func (gep GetElementPtrInst) NumIndices() int {
	gep.lt.mustBeAlive()
	return int(C.LLVMGetNumIndices(gep.c))
}

// PointerOperand returns the base address of the GEP.
func (gep GetElementPtrInst) PointerOperand() Value {
	gep.lt.mustBeAlive()
	return wrapValue(C.LLVMGetOperand(gep.c, 0), gep.lt)
}

// -----------------------------------------------------------------------------

// FenceInst represents a `fence` instruction.
type FenceInst struct {
	instructionBase
}

// Ordering returns the ordering the fence enforces.
func (fi FenceInst) Ordering() AtomicOrdering {
	fi.lt.mustBeAlive()
	return AtomicOrdering(C.LLVMGetOrdering(fi.c))
}

// SingleThread returns whether the fence only synchronizes with the current
// thread.
func (fi FenceInst) SingleThread() bool {
	fi.lt.mustBeAlive()
	return fromBool(C.LLVMIsAtomicSingleThread(fi.c))
}

// AtomicRMWInst represents an `atomicrmw` instruction.
type AtomicRMWInst struct {
	instructionBase
}

// BinOp returns the operation performed.
func (ai AtomicRMWInst) BinOp() AtomicRMWBinOp {
	ai.lt.mustBeAlive()
	return AtomicRMWBinOp(C.LLVMGetAtomicRMWBinOp(ai.c))
}

// Ordering returns the ordering of the operation.
func (ai AtomicRMWInst) Ordering() AtomicOrdering {
	ai.lt.mustBeAlive()
	return AtomicOrdering(C.LLVMGetOrdering(ai.c))
}

// AtomicCmpXchgInst represents a `cmpxchg` instruction.
type AtomicCmpXchgInst struct {
	instructionBase
}

// SuccessOrdering returns the ordering when the exchange succeeds.
func (ci AtomicCmpXchgInst) SuccessOrdering() AtomicOrdering {
	ci.lt.mustBeAlive()
	return AtomicOrdering(C.LLVMGetCmpXchgSuccessOrdering(ci.c))
}

// FailureOrdering returns the ordering when the exchange fails.
func (ci AtomicCmpXchgInst) FailureOrdering() AtomicOrdering {
	ci.lt.mustBeAlive()
	return AtomicOrdering(C.LLVMGetCmpXchgFailureOrdering(ci.c))
}

// Weak returns whether the exchange may spuriously fail.
func (ci AtomicCmpXchgInst) Weak() bool {
	ci.lt.mustBeAlive()
	return fromBool(C.LLVMGetWeak(ci.c))
}

// SetWeak sets whether the exchange may spuriously fail.
func (ci AtomicCmpXchgInst) SetWeak(weak bool) {
	ci.lt.mustBeAlive()
	C.LLVMSetWeak(ci.c, llvmBool(weak))
}

// VAArgInst represents a `va_arg` instruction.
type VAArgInst struct {
	instructionBase
}
