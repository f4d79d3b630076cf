package llvm

/*
#include "llvm-c/Core.h"
*/
import "C"

// callSite holds the accessors shared by `call` and `invoke`.
type callSite struct {
	instructionBase
}

// CalledValue returns the value being called.
func (cs callSite) CalledValue() Value {
	cs.lt.mustBeAlive()
	return wrapValue(C.LLVMGetCalledValue(cs.c), cs.lt)
}

// CalledFunction returns the function being called if the callee is a
// function rather than an arbitrary pointer.
func (cs callSite) CalledFunction() (Function, bool) {
	return Cast[Function](cs.CalledValue())
}

// CalledFunctionType returns the signature the callee is called with.
func (cs callSite) CalledFunctionType() FunctionType {
	cs.lt.mustBeAlive()
	return FunctionType{typeBase{c: C.LLVMGetCalledFunctionType(cs.c), lt: cs.lt.root()}}
}

// NumArgs returns the number of arguments passed to the callee.
func (cs callSite) NumArgs() int {
	cs.lt.mustBeAlive()
	return int(C.LLVMGetNumArgOperands(cs.c))
}

// ArgOperand returns the argument at index ndx.
func (cs callSite) ArgOperand(ndx int) (Value, error) {
	if n := cs.NumArgs(); ndx < 0 || ndx >= n {
		return nil, invalidArg("CallSite.ArgOperand", "argument index %d out of range for %d arguments", ndx, n)
	}

	return wrapValue(C.LLVMGetArgOperand(cs.c, mustCuint(ndx)), cs.lt), nil
}

// CallConv returns the calling convention of the call.
func (cs callSite) CallConv() CallConv {
	cs.lt.mustBeAlive()
	return CallConv(C.LLVMGetInstructionCallConv(cs.c))
}

// SetCallConv sets the calling convention of the call to cc.
func (cs callSite) SetCallConv(cc CallConv) {
	cs.lt.mustBeAlive()
	C.LLVMSetInstructionCallConv(cs.c, C.uint(cc))
}

// -----------------------------------------------------------------------------

// CallInst represents a `call` instruction.
type CallInst struct {
	callSite
}

// TailCall returns whether the call is marked `tail`.
func (ci CallInst) TailCall() bool {
	ci.lt.mustBeAlive()
	return fromBool(C.LLVMIsTailCall(ci.c))
}

// SetTailCall sets whether the call is marked `tail`.
func (ci CallInst) SetTailCall(tc bool) {
	ci.lt.mustBeAlive()
	C.LLVMSetTailCall(ci.c, llvmBool(tc))
}

// -----------------------------------------------------------------------------

// funcletPadBase holds the accessors shared by `catchpad` and `cleanuppad`.
type funcletPadBase struct {
	instructionBase
}

// ParentPad returns the pad enclosing this one: the catch switch of a catch
// pad, or the enclosing pad or `none` for a cleanup pad.
func (fp funcletPadBase) ParentPad() Value {
	fp.lt.mustBeAlive()
	n := C.LLVMGetNumOperands(fp.c)
	return wrapValue(C.LLVMGetOperand(fp.c, C.uint(n-1)), fp.lt)
}

// NumArgs returns the number of arguments of the pad.
func (fp funcletPadBase) NumArgs() int {
	fp.lt.mustBeAlive()
	return int(C.LLVMGetNumArgOperands(fp.c))
}

// ArgOperand returns the argument of the pad at index ndx.
func (fp funcletPadBase) ArgOperand(ndx int) (Value, error) {
	if n := fp.NumArgs(); ndx < 0 || ndx >= n {
		return nil, invalidArg("FuncletPad.ArgOperand", "argument index %d out of range for %d arguments", ndx, n)
	}

	return wrapValue(C.LLVMGetArgOperand(fp.c, mustCuint(ndx)), fp.lt), nil
}

// CatchPadInst represents a `catchpad` instruction.
type CatchPadInst struct {
	funcletPadBase
}

// CatchSwitch returns the catch switch the pad belongs to.
func (cp CatchPadInst) CatchSwitch() CatchSwitchInst {
	cp.lt.mustBeAlive()
	return MustCast[CatchSwitchInst](wrapValue(C.LLVMGetParentCatchSwitch(cp.c), cp.lt))
}

// CleanupPadInst represents a `cleanuppad` instruction.
type CleanupPadInst struct {
	funcletPadBase
}

// -----------------------------------------------------------------------------

// LandingPadInst represents a `landingpad` instruction.
type LandingPadInst struct {
	instructionBase
}

// NumClauses returns the number of clauses of the landing pad.
func (lp LandingPadInst) NumClauses() int {
	lp.lt.mustBeAlive()
	return int(C.LLVMGetNumClauses(lp.c))
}

// Clause returns the clause at index ndx.
func (lp LandingPadInst) Clause(ndx int) (Constant, error) {
	if n := lp.NumClauses(); ndx < 0 || ndx >= n {
		return nil, invalidArg("LandingPadInst.Clause", "clause index %d out of range for %d clauses", ndx, n)
	}

	return wrapValue(C.LLVMGetClause(lp.c, mustCuint(ndx)), lp.lt).(Constant), nil
}

// AddClause adds a catch or filter clause to the landing pad.
func (lp LandingPadInst) AddClause(clause Constant) error {
	if err := checkValues("LandingPadInst.AddClause", lp, clause); err != nil {
		return err
	}

	C.LLVMAddClause(lp.c, clause.ptr())
	return nil
}

// IsCleanup returns whether the landing pad is a cleanup.
func (lp LandingPadInst) IsCleanup() bool {
	lp.lt.mustBeAlive()
	return fromBool(C.LLVMIsCleanup(lp.c))
}

// SetCleanup sets whether the landing pad is a cleanup.
func (lp LandingPadInst) SetCleanup(cleanup bool) {
	lp.lt.mustBeAlive()
	C.LLVMSetCleanup(lp.c, llvmBool(cleanup))
}
