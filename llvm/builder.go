package llvm

/*
#include <stdlib.h>

#include "llvm-c/Core.h"
*/
import "C"

import "unsafe"

// Builder represents an LLVM IR builder: a cursor inserting new instructions
// at an insertion point inside a basic block.  Builders are owned by the
// context they were created in.
type Builder struct {
	c   C.LLVMBuilderRef
	ctx *Context
	lt  *lifetime

	// The insertion point as last set through this builder.
	ip InsertPoint
}

// InsertPoint is a saved builder position.  The zero value is the unpositioned
// state.
type InsertPoint struct {
	block BasicBlock

	// The instruction new instructions are inserted before.  Nil means at the
	// end of the block.
	before C.LLVMValueRef

	// The erasure count of the context when the point was saved.
	erasures uint64

	set bool
}

// IsSet returns whether the insertion point refers to a position.
func (ip InsertPoint) IsSet() bool {
	return ip.set
}

// Block returns the block of the insertion point.
func (ip InsertPoint) Block() (BasicBlock, bool) {
	return ip.block, ip.set
}

// AtEnd returns whether the insertion point is at the end of its block.
func (ip InsertPoint) AtEnd() bool {
	return ip.set && ip.before == nil
}

// NewBuilder creates a new IR builder in the context.  The builder starts out
// unpositioned.
func (c *Context) NewBuilder() (*Builder, error) {
	const op = "Context.NewBuilder"

	if err := c.lt.check(op); err != nil {
		return nil, err
	}

	bref := C.LLVMCreateBuilderInContext(c.c)
	if bref == nil {
		return nil, constructionFailed(op)
	}

	b := &Builder{c: bref, ctx: c, lt: newLifetime(c.lt, "builder")}
	c.takeOwnership(b)
	return b, nil
}

// dispose disposes of the builder.
func (b *Builder) dispose() {
	if b.lt.dead {
		return
	}

	C.LLVMDisposeBuilder(b.c)
	b.lt.end()
	b.ip = InsertPoint{}
}

// Dispose frees the builder before its context is disposed.  Disposing a
// builder twice is a no-op.
func (b *Builder) Dispose() {
	b.dispose()
}

// Context returns the context of the builder.
func (b *Builder) Context() *Context {
	return b.ctx
}

// -----------------------------------------------------------------------------

// IsPositioned returns whether the builder has an insertion point.
func (b *Builder) IsPositioned() bool {
	return b.ip.set && b.ip.block.lt.alive()
}

// InsertBlock returns the block the builder is positioned in.
func (b *Builder) InsertBlock() (BasicBlock, bool) {
	if !b.IsPositioned() {
		return BasicBlock{}, false
	}

	return b.ip.block, true
}

// SaveIP returns the current insertion point.  A saved point outlives the
// erasure of its block or instruction: RestoreIP then fails instead of
// positioning the builder.
func (b *Builder) SaveIP() InsertPoint {
	ip := b.ip
	ip.erasures = b.ctx.erasures
	return ip
}

// RestoreIP moves the builder to a previously saved insertion point.
// Restoring an unset insertion point clears the builder's position.  If
// anything was erased in the context since the point was saved, the point is
// only restored if its block is still in a function and its instruction still
// in that block.
func (b *Builder) RestoreIP(ip InsertPoint) error {
	const op = "Builder.RestoreIP"

	if err := b.lt.check(op); err != nil {
		return err
	}

	if !ip.set {
		b.ClearInsertionPoint()
		return nil
	}

	if err := checkBlocks(op, ip.block); err != nil {
		return err
	}

	if ip.erasures != b.ctx.erasures && !b.ctx.hasPosition(ip) {
		return invalidArg(op, "the saved position was erased")
	}

	if ip.before == nil {
		return b.SetInsertPointAtEnd(ip.block)
	}

	if C.LLVMGetInstructionParent(ip.before) != ip.block.c {
		return invalidArg(op, "saved instruction is no longer in block %q", ip.block.Name())
	}

	C.LLVMPositionBuilderBefore(b.c, ip.before)
	b.ip = ip
	return nil
}

// ClearInsertionPoint unpositions the builder.
func (b *Builder) ClearInsertionPoint() {
	b.lt.mustBeAlive()

	C.LLVMClearInsertionPosition(b.c)
	b.ip = InsertPoint{}
}

// SetInsertPointAtEnd positions the builder at the end of bb.
func (b *Builder) SetInsertPointAtEnd(bb BasicBlock) error {
	const op = "Builder.SetInsertPointAtEnd"

	if err := b.lt.check(op); err != nil {
		return err
	}

	if err := checkBlocks(op, bb); err != nil {
		return err
	}

	C.LLVMPositionBuilderAtEnd(b.c, bb.c)
	b.ip = InsertPoint{block: bb, set: true}
	return nil
}

// SetInsertPointBefore positions the builder before inst.
func (b *Builder) SetInsertPointBefore(inst Instruction) error {
	const op = "Builder.SetInsertPointBefore"

	if err := b.lt.check(op); err != nil {
		return err
	}

	if err := checkValues(op, inst); err != nil {
		return err
	}

	bb, ok := inst.Parent()
	if !ok {
		return invalidArg(op, "instruction is not in a block")
	}

	C.LLVMPositionBuilderBefore(b.c, inst.ptr())
	b.ip = InsertPoint{block: bb, before: inst.ptr(), set: true}
	return nil
}

// SetInsertPointAfter positions the builder after inst.
func (b *Builder) SetInsertPointAfter(inst Instruction) error {
	const op = "Builder.SetInsertPointAfter"

	if err := b.lt.check(op); err != nil {
		return err
	}

	if err := checkValues(op, inst); err != nil {
		return err
	}

	bb, ok := inst.Parent()
	if !ok {
		return invalidArg(op, "instruction is not in a block")
	}

	if next, ok := inst.Next(); ok {
		return b.SetInsertPointBefore(next)
	}

	return b.SetInsertPointAtEnd(bb)
}

// SetInsertPointAtStart positions the builder before the first instruction of
// bb, or at its end if it is empty.
func (b *Builder) SetInsertPointAtStart(bb BasicBlock) error {
	const op = "Builder.SetInsertPointAtStart"

	if err := b.lt.check(op); err != nil {
		return err
	}

	if err := checkBlocks(op, bb); err != nil {
		return err
	}

	if first, ok := bb.First(); ok {
		return b.SetInsertPointBefore(first)
	}

	return b.SetInsertPointAtEnd(bb)
}

// -----------------------------------------------------------------------------

// begin checks that the builder can create an instruction from operands.
func (b *Builder) begin(op string, operands ...Value) error {
	if err := b.lt.check(op); err != nil {
		return err
	}

	if !b.ip.set {
		return &OpError{Op: op, Err: ErrUnpositioned}
	}

	if err := b.ip.block.lt.check(op); err != nil {
		return err
	}

	return checkValues(op, operands...)
}

// owner returns the lifetime given to values the builder creates.
func (b *Builder) owner() *lifetime {
	return b.ip.block.owner()
}

// finishValue wraps the result of a build call which LLVM may constant fold.
func (b *Builder) finishValue(op string, ref C.LLVMValueRef) (Value, error) {
	if ref == nil {
		return nil, constructionFailed(op)
	}

	return wrapValue(ref, b.owner()), nil
}

// finish wraps the result of a build call which always produces an instruction
// of type T.
func finish[T Instruction](b *Builder, op string, ref C.LLVMValueRef) (T, error) {
	var zero T
	if ref == nil {
		return zero, constructionFailed(op)
	}

	inst, ok := wrapValue(ref, b.owner()).(T)
	if !ok {
		return zero, &OpError{Op: op, Err: ErrConstruction, Detail: "LLVM returned an unexpected instruction"}
	}

	return inst, nil
}

// function returns the function the builder is inserting into.
func (b *Builder) function() (Function, bool) {
	return b.ip.block.Parent()
}

// Insert inserts a detached instruction, such as a clone, at the insertion
// point and names it.
func (b *Builder) Insert(inst Instruction, name string) error {
	const op = "Builder.Insert"

	if err := b.begin(op, inst); err != nil {
		return err
	}

	if _, ok := inst.Parent(); ok {
		return invalidArg(op, "instruction is already in a block")
	}

	if inst.Type().IsVoidTy() {
		name = ""
	}

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	C.LLVMInsertIntoBuilderWithName(b.c, inst.ptr(), cname)
	return nil
}

// -----------------------------------------------------------------------------

// CreateRetVoid creates a `ret void` instruction.
func (b *Builder) CreateRetVoid() (ReturnInst, error) {
	const op = "Builder.CreateRetVoid"

	if err := b.begin(op); err != nil {
		return ReturnInst{}, err
	}

	if fn, ok := b.function(); ok {
		if rt := fn.FunctionType().ReturnType(); !rt.IsVoidTy() {
			return ReturnInst{}, invalidArg(op, "function %s must return %s", fn.Name(), rt)
		}
	}

	return finish[ReturnInst](b, op, C.LLVMBuildRetVoid(b.c))
}

// CreateRet creates a `ret` instruction returning v.
func (b *Builder) CreateRet(v Value) (ReturnInst, error) {
	const op = "Builder.CreateRet"

	if err := b.begin(op, v); err != nil {
		return ReturnInst{}, err
	}

	if fn, ok := b.function(); ok {
		if rt := fn.FunctionType().ReturnType(); !SameType(rt, v.Type()) {
			return ReturnInst{}, invalidArg(op, "function %s returns %s, got %s", fn.Name(), rt, v.Type())
		}
	}

	return finish[ReturnInst](b, op, C.LLVMBuildRet(b.c, v.ptr()))
}

// CreateAggregateRet creates a `ret` instruction returning a struct built from
// vals.
func (b *Builder) CreateAggregateRet(vals []Value) (ReturnInst, error) {
	const op = "Builder.CreateAggregateRet"

	if err := b.begin(op, vals...); err != nil {
		return ReturnInst{}, err
	}

	if len(vals) == 0 {
		return ReturnInst{}, invalidArg(op, "no values to return")
	}

	if fn, ok := b.function(); ok {
		rt := fn.FunctionType().ReturnType()

		st, ok := CastType[StructType](rt)
		if !ok || st.NumElements() != len(vals) {
			return ReturnInst{}, invalidArg(op, "function %s returns %s, not a struct of %d values", fn.Name(), rt, len(vals))
		}

		for i, elemType := range st.Elements() {
			if !SameType(elemType, vals[i].Type()) {
				return ReturnInst{}, invalidArg(op, "return value %d has type %s, expected %s", i, vals[i].Type(), elemType)
			}
		}
	}

	refs, n := valueRefs(vals)
	return finish[ReturnInst](b, op, C.LLVMBuildAggregateRet(b.c, refs, n))
}

// CreateBr creates an unconditional `br` instruction.
func (b *Builder) CreateBr(dest BasicBlock) (BranchInst, error) {
	const op = "Builder.CreateBr"

	if err := b.begin(op); err != nil {
		return BranchInst{}, err
	}

	if err := checkBlocks(op, dest); err != nil {
		return BranchInst{}, err
	}

	return finish[BranchInst](b, op, C.LLVMBuildBr(b.c, dest.c))
}

// CreateCondBr creates a conditional `br` instruction.  The condition must be
// an `i1`.
func (b *Builder) CreateCondBr(cond Value, thenBlock, elseBlock BasicBlock) (BranchInst, error) {
	const op = "Builder.CreateCondBr"

	if err := b.begin(op, cond); err != nil {
		return BranchInst{}, err
	}

	if err := checkBlocks(op, thenBlock, elseBlock); err != nil {
		return BranchInst{}, err
	}

	if !isBool(cond.Type()) {
		return BranchInst{}, invalidArg(op, "branch condition must be i1, got %s", cond.Type())
	}

	return finish[BranchInst](b, op, C.LLVMBuildCondBr(b.c, cond.ptr(), thenBlock.c, elseBlock.c))
}

// CreateSwitch creates a `switch` instruction on v.  numCases is a hint for
// the number of cases that will be added.
func (b *Builder) CreateSwitch(v Value, defaultBlock BasicBlock, numCases int) (SwitchInst, error) {
	const op = "Builder.CreateSwitch"

	if err := b.begin(op, v); err != nil {
		return SwitchInst{}, err
	}

	if err := checkBlocks(op, defaultBlock); err != nil {
		return SwitchInst{}, err
	}

	if !v.Type().IsIntegerTy() {
		return SwitchInst{}, invalidArg(op, "switch condition must be an integer, got %s", v.Type())
	}

	n, err := cuint(op, numCases)
	if err != nil {
		return SwitchInst{}, err
	}

	return finish[SwitchInst](b, op, C.LLVMBuildSwitch(b.c, v.ptr(), defaultBlock.c, n))
}

// CreateIndirectBr creates an `indirectbr` instruction jumping to addr.
// numDests is a hint for the number of destinations that will be added.
func (b *Builder) CreateIndirectBr(addr Value, numDests int) (IndirectBrInst, error) {
	const op = "Builder.CreateIndirectBr"

	if err := b.begin(op, addr); err != nil {
		return IndirectBrInst{}, err
	}

	if !addr.Type().IsPointerTy() {
		return IndirectBrInst{}, invalidArg(op, "branch address must be a pointer, got %s", addr.Type())
	}

	n, err := cuint(op, numDests)
	if err != nil {
		return IndirectBrInst{}, err
	}

	return finish[IndirectBrInst](b, op, C.LLVMBuildIndirectBr(b.c, addr.ptr(), n))
}

// CreateUnreachable creates an `unreachable` instruction.
func (b *Builder) CreateUnreachable() (UnreachableInst, error) {
	const op = "Builder.CreateUnreachable"

	if err := b.begin(op); err != nil {
		return UnreachableInst{}, err
	}

	return finish[UnreachableInst](b, op, C.LLVMBuildUnreachable(b.c))
}

// CreateInvoke creates an `invoke` instruction calling callee with args which
// continues at normal or unwinds to unwind.
func (b *Builder) CreateInvoke(callee FunctionCallee, args []Value, normal, unwind BasicBlock, name string) (InvokeInst, error) {
	const op = "Builder.CreateInvoke"

	if err := b.begin(op, callee.Callee); err != nil {
		return InvokeInst{}, err
	}

	if err := checkBlocks(op, normal, unwind); err != nil {
		return InvokeInst{}, err
	}

	if err := checkCallArgs(op, callee, args); err != nil {
		return InvokeInst{}, err
	}

	if callee.Type.ReturnType().IsVoidTy() {
		name = ""
	}

	refs, n := valueRefs(args)
	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildInvoke2(b.c, callee.Type.c, callee.Callee.ptr(), refs, n, normal.c, unwind.c, cname)
	})

	return finish[InvokeInst](b, op, ref)
}

// CreateResume creates a `resume` instruction rethrowing the exception v.
func (b *Builder) CreateResume(v Value) (ResumeInst, error) {
	const op = "Builder.CreateResume"

	if err := b.begin(op, v); err != nil {
		return ResumeInst{}, err
	}

	return finish[ResumeInst](b, op, C.LLVMBuildResume(b.c, v.ptr()))
}

// CreateCleanupRet creates a `cleanupret` instruction leaving pad.  A zero
// unwind block unwinds to the caller.
func (b *Builder) CreateCleanupRet(pad CleanupPadInst, unwind BasicBlock) (CleanupReturnInst, error) {
	const op = "Builder.CreateCleanupRet"

	if err := b.begin(op, pad); err != nil {
		return CleanupReturnInst{}, err
	}

	if !unwind.IsNil() {
		if err := checkBlocks(op, unwind); err != nil {
			return CleanupReturnInst{}, err
		}
	}

	return finish[CleanupReturnInst](b, op, C.LLVMBuildCleanupRet(b.c, pad.c, unwind.c))
}

// CreateCatchRet creates a `catchret` instruction leaving pad for dest.
func (b *Builder) CreateCatchRet(pad CatchPadInst, dest BasicBlock) (CatchReturnInst, error) {
	const op = "Builder.CreateCatchRet"

	if err := b.begin(op, pad); err != nil {
		return CatchReturnInst{}, err
	}

	if err := checkBlocks(op, dest); err != nil {
		return CatchReturnInst{}, err
	}

	return finish[CatchReturnInst](b, op, C.LLVMBuildCatchRet(b.c, pad.c, dest.c))
}

// CreateCatchSwitch creates a `catchswitch` instruction.  A nil parentPad
// means the switch is not nested in another pad, and a zero unwind block
// unwinds to the caller.  numHandlers is a hint for the number of handlers
// that will be added.
func (b *Builder) CreateCatchSwitch(parentPad Value, unwind BasicBlock, numHandlers int, name string) (CatchSwitchInst, error) {
	const op = "Builder.CreateCatchSwitch"

	if err := b.begin(op); err != nil {
		return CatchSwitchInst{}, err
	}

	if !unwind.IsNil() {
		if err := checkBlocks(op, unwind); err != nil {
			return CatchSwitchInst{}, err
		}
	}

	parent, err := b.padParent(op, parentPad)
	if err != nil {
		return CatchSwitchInst{}, err
	}

	n, err := cuint(op, numHandlers)
	if err != nil {
		return CatchSwitchInst{}, err
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildCatchSwitch(b.c, parent, unwind.c, n, cname)
	})

	return finish[CatchSwitchInst](b, op, ref)
}

// padParent returns the parent pad operand of a funclet pad: the `none` token
// when parentPad is nil.
func (b *Builder) padParent(op string, parentPad Value) (C.LLVMValueRef, error) {
	if parentPad == nil || parentPad.IsNil() {
		return C.LLVMConstNull(C.LLVMTokenTypeInContext(b.ctx.c)), nil
	}

	if err := checkValues(op, parentPad); err != nil {
		return nil, err
	}

	if !parentPad.Type().IsTokenTy() {
		return nil, invalidArg(op, "parent pad must be a token, got %s", parentPad.Type())
	}

	return parentPad.ptr(), nil
}

// -----------------------------------------------------------------------------

// CreateAlloca creates an `alloca` instruction reserving a stack slot of type
// typ.
func (b *Builder) CreateAlloca(typ Type, name string) (AllocaInst, error) {
	const op = "Builder.CreateAlloca"

	if err := b.begin(op); err != nil {
		return AllocaInst{}, err
	}

	if err := checkSized(op, typ); err != nil {
		return AllocaInst{}, err
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildAlloca(b.c, typ.ptr(), cname)
	})

	return finish[AllocaInst](b, op, ref)
}

// CreateArrayAlloca creates an `alloca` instruction reserving a stack slot of
// size elements of type typ.
func (b *Builder) CreateArrayAlloca(typ Type, size Value, name string) (AllocaInst, error) {
	const op = "Builder.CreateArrayAlloca"

	if err := b.begin(op, size); err != nil {
		return AllocaInst{}, err
	}

	if err := checkSized(op, typ); err != nil {
		return AllocaInst{}, err
	}

	if !size.Type().IsIntegerTy() {
		return AllocaInst{}, invalidArg(op, "array size must be an integer, got %s", size.Type())
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildArrayAlloca(b.c, typ.ptr(), size.ptr(), cname)
	})

	return finish[AllocaInst](b, op, ref)
}

// CreateLoad creates a `load` instruction reading a value of type typ from
// ptr.
func (b *Builder) CreateLoad(typ Type, ptr Value, name string) (LoadInst, error) {
	const op = "Builder.CreateLoad"

	if err := b.begin(op, ptr); err != nil {
		return LoadInst{}, err
	}

	if err := checkSized(op, typ); err != nil {
		return LoadInst{}, err
	}

	if !ptr.Type().IsPointerTy() {
		return LoadInst{}, invalidArg(op, "load address must be a pointer, got %s", ptr.Type())
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildLoad2(b.c, typ.ptr(), ptr.ptr(), cname)
	})

	return finish[LoadInst](b, op, ref)
}

// CreateStore creates a `store` instruction writing v to ptr.
func (b *Builder) CreateStore(v, ptr Value) (StoreInst, error) {
	const op = "Builder.CreateStore"

	if err := b.begin(op, v, ptr); err != nil {
		return StoreInst{}, err
	}

	if !ptr.Type().IsPointerTy() {
		return StoreInst{}, invalidArg(op, "store address must be a pointer, got %s", ptr.Type())
	}

	if !v.Type().Sized() {
		return StoreInst{}, invalidArg(op, "can not store value of unsized type %s", v.Type())
	}

	return finish[StoreInst](b, op, C.LLVMBuildStore(b.c, v.ptr(), ptr.ptr()))
}

// CreateGEP creates a `getelementptr` instruction indexing ptr as a pointer to
// elemType.
func (b *Builder) CreateGEP(elemType Type, ptr Value, indices []Value, name string) (Value, error) {
	return b.createGEP("Builder.CreateGEP", elemType, ptr, indices, name, false)
}

// CreateInBoundsGEP creates a `getelementptr inbounds` instruction.
func (b *Builder) CreateInBoundsGEP(elemType Type, ptr Value, indices []Value, name string) (Value, error) {
	return b.createGEP("Builder.CreateInBoundsGEP", elemType, ptr, indices, name, true)
}

func (b *Builder) createGEP(op string, elemType Type, ptr Value, indices []Value, name string, inBounds bool) (Value, error) {
	if err := b.begin(op, ptr); err != nil {
		return nil, err
	}

	if err := checkValues(op, indices...); err != nil {
		return nil, err
	}

	if err := checkSized(op, elemType); err != nil {
		return nil, err
	}

	if !ptr.Type().IsPointerTy() {
		return nil, invalidArg(op, "base address must be a pointer, got %s", ptr.Type())
	}

	for i, ndx := range indices {
		if !isIntOrIntVector(ndx.Type()) {
			return nil, invalidArg(op, "index %d must be an integer, got %s", i, ndx.Type())
		}
	}

	refs, n := valueRefs(indices)
	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		if inBounds {
			return C.LLVMBuildInBoundsGEP2(b.c, elemType.ptr(), ptr.ptr(), refs, n, cname)
		}

		return C.LLVMBuildGEP2(b.c, elemType.ptr(), ptr.ptr(), refs, n, cname)
	})

	return b.finishValue(op, ref)
}

// CreateStructGEP creates a `getelementptr` instruction computing the address
// of the field ndx of the struct of type st at ptr.
func (b *Builder) CreateStructGEP(st StructType, ptr Value, ndx int, name string) (Value, error) {
	const op = "Builder.CreateStructGEP"

	if err := b.begin(op, ptr); err != nil {
		return nil, err
	}

	if err := checkSized(op, st); err != nil {
		return nil, err
	}

	if !ptr.Type().IsPointerTy() {
		return nil, invalidArg(op, "base address must be a pointer, got %s", ptr.Type())
	}

	if n := st.NumElements(); ndx < 0 || ndx >= n {
		return nil, invalidArg(op, "field index %d out of range for %d fields", ndx, n)
	}

	ref := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMBuildStructGEP2(b.c, st.c, ptr.ptr(), mustCuint(ndx), cname)
	})

	return b.finishValue(op, ref)
}

// CreateGlobalString creates a private constant global holding str with a
// terminating NUL in the module of the insertion point.
func (b *Builder) CreateGlobalString(str, name string) (GlobalVariable, error) {
	const op = "Builder.CreateGlobalString"

	if err := b.begin(op); err != nil {
		return GlobalVariable{}, err
	}

	if _, ok := b.function(); !ok {
		return GlobalVariable{}, invalidArg(op, "insertion block is not in a function")
	}

	cstr := withName(str, func(cs *C.char) C.LLVMValueRef {
		return withName(name, func(cname *C.char) C.LLVMValueRef {
			return C.LLVMBuildGlobalString(b.c, cs, cname)
		})
	})

	if cstr == nil {
		return GlobalVariable{}, constructionFailed(op)
	}

	gv, ok := wrapValue(cstr, b.owner()).(GlobalVariable)
	if !ok {
		return GlobalVariable{}, &OpError{Op: op, Err: ErrConstruction, Detail: "LLVM returned a value which is not a global"}
	}

	return gv, nil
}

// checkSized checks that typ is a live type with a size.
func checkSized(op string, typ Type) error {
	if err := checkTypes(op, typ); err != nil {
		return err
	}

	if !typ.Sized() {
		return invalidArg(op, "type %s has no size", typ)
	}

	return nil
}
