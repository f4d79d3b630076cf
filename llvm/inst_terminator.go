package llvm

/*
#include "llvm-c/Core.h"
*/
import "C"

// ReturnInst represents a `ret` instruction.
type ReturnInst struct {
	terminatorBase
}

// ReturnValue returns the returned value if the instruction returns one.
func (ri ReturnInst) ReturnValue() (Value, bool) {
	if ri.NumOperands() == 0 {
		return nil, false
	}

	v, err := ri.Operand(0)
	return v, err == nil
}

// -----------------------------------------------------------------------------

// BranchInst represents a conditional or unconditional `br` instruction.
type BranchInst struct {
	terminatorBase
}

// IsConditional returns whether the branch is conditional.
func (bi BranchInst) IsConditional() bool {
	bi.lt.mustBeAlive()
	return fromBool(C.LLVMIsConditional(bi.c))
}

// Condition returns the condition of a conditional branch.
func (bi BranchInst) Condition() (Value, bool) {
	if !bi.IsConditional() {
		return nil, false
	}

	return wrapValue(C.LLVMGetCondition(bi.c), bi.lt), true
}

// SetCondition sets the condition of a conditional branch to cond which must
// be an `i1`.
func (bi BranchInst) SetCondition(cond Value) error {
	const op = "BranchInst.SetCondition"

	if err := checkValues(op, bi, cond); err != nil {
		return err
	}

	if !bi.IsConditional() {
		return invalidArg(op, "branch is unconditional")
	}

	if !isBool(cond.Type()) {
		return invalidArg(op, "condition has type %s, expected i1", cond.Type())
	}

	C.LLVMSetCondition(bi.c, cond.ptr())
	return nil
}

// isBool returns whether typ is `i1`.
func isBool(typ Type) bool {
	it, ok := CastType[IntegerType](typ)
	return ok && it.BitWidth() == 1
}

// -----------------------------------------------------------------------------

// SwitchInst represents a `switch` instruction.
type SwitchInst struct {
	terminatorBase
}

// Condition returns the value being switched on.
func (si SwitchInst) Condition() Value {
	si.lt.mustBeAlive()
	return wrapValue(C.LLVMGetOperand(si.c, 0), si.lt)
}

// DefaultDest returns the block jumped to when no case matches.
func (si SwitchInst) DefaultDest() BasicBlock {
	si.lt.mustBeAlive()
	return BasicBlock{c: C.LLVMGetSwitchDefaultDest(si.c), lt: si.lt}
}

// NumCases returns the number of cases of the switch, not counting the
// default.
func (si SwitchInst) NumCases() int {
	return si.NumOperands()/2 - 1
}

// AddCase adds a case jumping to dest when the condition equals val.
func (si SwitchInst) AddCase(val ConstantInt, dest BasicBlock) error {
	const op = "SwitchInst.AddCase"

	if err := checkValues(op, si, val); err != nil {
		return err
	}

	if err := checkBlocks(op, dest); err != nil {
		return err
	}

	if cond := si.Condition(); !SameType(cond.Type(), val.Type()) {
		return invalidArg(op, "case value has type %s, expected %s", val.Type(), cond.Type())
	}

	C.LLVMAddCase(si.c, val.c, dest.c)
	return nil
}

// -----------------------------------------------------------------------------

// IndirectBrInst represents an `indirectbr` instruction.
type IndirectBrInst struct {
	terminatorBase
}

// Address returns the address being jumped to.
func (ib IndirectBrInst) Address() Value {
	ib.lt.mustBeAlive()
	return wrapValue(C.LLVMGetOperand(ib.c, 0), ib.lt)
}

// AddDestination adds a possible destination of the branch.
func (ib IndirectBrInst) AddDestination(dest BasicBlock) error {
	const op = "IndirectBrInst.AddDestination"

	if err := ib.lt.check(op); err != nil {
		return err
	}

	if err := checkBlocks(op, dest); err != nil {
		return err
	}

	C.LLVMAddDestination(ib.c, dest.c)
	return nil
}

// -----------------------------------------------------------------------------

// InvokeInst represents an `invoke` instruction: a call which may unwind to a
// landing pad.
type InvokeInst struct {
	callSite
}

func (InvokeInst) isTerminator() {}

func (ii InvokeInst) NumSuccessors() int {
	return ii.numSuccessors()
}

func (ii InvokeInst) Successor(ndx int) (BasicBlock, error) {
	return ii.successor(ndx)
}

func (ii InvokeInst) SetSuccessor(ndx int, bb BasicBlock) error {
	return ii.setSuccessor(ndx, bb)
}

func (ii InvokeInst) Successors() []BasicBlock {
	return ii.successors()
}

// NormalDest returns the block control reaches when the callee returns.
func (ii InvokeInst) NormalDest() BasicBlock {
	ii.lt.mustBeAlive()
	return BasicBlock{c: C.LLVMGetNormalDest(ii.c), lt: ii.lt}
}

// UnwindDest returns the block control reaches when the callee unwinds.
func (ii InvokeInst) UnwindDest() BasicBlock {
	ii.lt.mustBeAlive()
	return BasicBlock{c: C.LLVMGetUnwindDest(ii.c), lt: ii.lt}
}

// SetNormalDest sets the block control reaches when the callee returns.
func (ii InvokeInst) SetNormalDest(bb BasicBlock) error {
	if err := checkBlocks("InvokeInst.SetNormalDest", bb); err != nil {
		return err
	}

	C.LLVMSetNormalDest(ii.c, bb.c)
	return nil
}

// SetUnwindDest sets the block control reaches when the callee unwinds.
func (ii InvokeInst) SetUnwindDest(bb BasicBlock) error {
	if err := checkBlocks("InvokeInst.SetUnwindDest", bb); err != nil {
		return err
	}

	C.LLVMSetUnwindDest(ii.c, bb.c)
	return nil
}

// -----------------------------------------------------------------------------

// ResumeInst represents a `resume` instruction.
type ResumeInst struct {
	terminatorBase
}

// UnreachableInst represents an `unreachable` instruction.
type UnreachableInst struct {
	terminatorBase
}

// CallBrInst represents a `callbr` instruction.
type CallBrInst struct {
	terminatorBase
}

// -----------------------------------------------------------------------------

// CleanupReturnInst represents a `cleanupret` instruction.
type CleanupReturnInst struct {
	terminatorBase
}

// CleanupPad returns the cleanup pad being exited.
func (cr CleanupReturnInst) CleanupPad() Value {
	cr.lt.mustBeAlive()
	return wrapValue(C.LLVMGetOperand(cr.c, 0), cr.lt)
}

// UnwindDest returns the block unwound to if the instruction does not unwind
// to the caller.
func (cr CleanupReturnInst) UnwindDest() (BasicBlock, bool) {
	cr.lt.mustBeAlive()
	return wrapBlockRef(C.LLVMGetUnwindDest(cr.c), cr.lt)
}

// CatchReturnInst represents a `catchret` instruction.
type CatchReturnInst struct {
	terminatorBase
}

// CatchPad returns the catch pad being exited.
func (cr CatchReturnInst) CatchPad() Value {
	cr.lt.mustBeAlive()
	return wrapValue(C.LLVMGetOperand(cr.c, 0), cr.lt)
}

// -----------------------------------------------------------------------------

// CatchSwitchInst represents a `catchswitch` instruction.
type CatchSwitchInst struct {
	terminatorBase
}

// ParentPad returns the pad the catch switch is nested in, or `none`.
func (cs CatchSwitchInst) ParentPad() Value {
	cs.lt.mustBeAlive()
	return wrapValue(C.LLVMGetOperand(cs.c, 0), cs.lt)
}

// UnwindDest returns the block unwound to if no handler matches and the
// instruction does not unwind to the caller.
func (cs CatchSwitchInst) UnwindDest() (BasicBlock, bool) {
	cs.lt.mustBeAlive()
	return wrapBlockRef(C.LLVMGetUnwindDest(cs.c), cs.lt)
}

// NumHandlers returns the number of handlers of the catch switch.
func (cs CatchSwitchInst) NumHandlers() int {
	cs.lt.mustBeAlive()
	return int(C.LLVMGetNumHandlers(cs.c))
}

// AddHandler adds a handler block to the catch switch.
func (cs CatchSwitchInst) AddHandler(bb BasicBlock) error {
	const op = "CatchSwitchInst.AddHandler"

	if err := cs.lt.check(op); err != nil {
		return err
	}

	if err := checkBlocks(op, bb); err != nil {
		return err
	}

	C.LLVMAddHandler(cs.c, bb.c)
	return nil
}

// Handlers returns the handler blocks of the catch switch in order.
func (cs CatchSwitchInst) Handlers() []BasicBlock {
	n := cs.NumHandlers()
	if n == 0 {
		return nil
	}

	refs := make([]C.LLVMBasicBlockRef, n)
	C.LLVMGetHandlers(cs.c, byref(&refs[0]))

	handlers := make([]BasicBlock, n)
	for i, ref := range refs {
		handlers[i] = BasicBlock{c: ref, lt: cs.lt}
	}

	return handlers
}
