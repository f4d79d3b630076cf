package llvm

/*
#include <stdlib.h>

#include "llvm-c/Core.h"
*/
import "C"

import (
	"unsafe"
)

// BasicBlock represents an LLVM basic block.
type BasicBlock struct {
	c  C.LLVMBasicBlockRef
	lt *lifetime
}

// CreateBasicBlock creates a new basic block which is not inserted into any
// function.  Use Function.AppendExistingBasicBlock to insert it.
func (c *Context) CreateBasicBlock(name string) (BasicBlock, error) {
	const op = "Context.CreateBasicBlock"

	if err := c.lt.check(op); err != nil {
		return BasicBlock{}, err
	}

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	bb := C.LLVMCreateBasicBlockInContext(c.c, cname)
	if bb == nil {
		return BasicBlock{}, constructionFailed(op)
	}

	lt := newLifetime(c.lt, "block "+name)
	lt.movable = true

	return BasicBlock{c: bb, lt: lt}, nil
}

// InsertBasicBlock inserts a new basic block named name before the block
// before.
func (c *Context) InsertBasicBlock(before BasicBlock, name string) (BasicBlock, error) {
	const op = "Context.InsertBasicBlock"

	if err := c.lt.check(op); err != nil {
		return BasicBlock{}, err
	}

	if err := checkBlocks(op, before); err != nil {
		return BasicBlock{}, err
	}

	if _, ok := before.Parent(); !ok {
		return BasicBlock{}, invalidArg(op, "block %%%s is not in a function", before.Name())
	}

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	bb := C.LLVMInsertBasicBlockInContext(c.c, before.c, cname)
	if bb == nil {
		return BasicBlock{}, constructionFailed(op)
	}

	return BasicBlock{c: bb, lt: before.owner()}, nil
}

// AppendExistingBasicBlock appends a detached basic block to the function.
func (f Function) AppendExistingBasicBlock(bb BasicBlock) error {
	const op = "Function.AppendExistingBasicBlock"

	if err := f.lt.check(op); err != nil {
		return err
	}

	if err := checkBlocks(op, bb); err != nil {
		return err
	}

	if bb.lt.context() != f.lt.context() {
		return invalidArg(op, "block %%%s belongs to another context", bb.Name())
	}

	if _, ok := bb.Parent(); ok {
		return invalidArg(op, "block %%%s already belongs to a function", bb.Name())
	}

	C.LLVMAppendExistingBasicBlock(f.c, bb.c)
	bb.lt.moveUnder(f.lt)
	return nil
}

// -----------------------------------------------------------------------------

// Handle returns the raw identity of the block.
func (bb BasicBlock) Handle() uintptr {
	return uintptr(unsafe.Pointer(bb.c))
}

// IsNil returns whether the block wraps a null handle.
func (bb BasicBlock) IsNil() bool {
	return bb.c == nil
}

// Name returns the name of the basic block.
func (bb BasicBlock) Name() string {
	bb.lt.mustBeAlive()
	return C.GoString(C.LLVMGetBasicBlockName(bb.c))
}

// AsValue returns the block as a value of type `label`.
func (bb BasicBlock) AsValue() Value {
	bb.lt.mustBeAlive()
	return wrapValue(C.LLVMBasicBlockAsValue(bb.c), bb.lt)
}

// Parent returns the function containing the block.
func (bb BasicBlock) Parent() (Function, bool) {
	bb.lt.mustBeAlive()

	fn := C.LLVMGetBasicBlockParent(bb.c)
	if fn == nil {
		return Function{}, false
	}

	return Cast[Function](wrapValue(fn, bb.lt))
}

// Terminator returns the terminator of the block if the block ends in one.
func (bb BasicBlock) Terminator() (Terminator, bool) {
	bb.lt.mustBeAlive()

	term := C.LLVMGetBasicBlockTerminator(bb.c)
	if term == nil {
		return nil, false
	}

	t, ok := wrapValue(term, bb.lt).(Terminator)
	return t, ok
}

// First returns the first instruction in the block.
func (bb BasicBlock) First() (Instruction, bool) {
	bb.lt.mustBeAlive()
	return wrapInstructionRef(C.LLVMGetFirstInstruction(bb.c), bb.lt)
}

// Last returns the last instruction in the block.
func (bb BasicBlock) Last() (Instruction, bool) {
	bb.lt.mustBeAlive()
	return wrapInstructionRef(C.LLVMGetLastInstruction(bb.c), bb.lt)
}

// instrIter is an iterator over the instructions of a block.
type instrIter struct {
	curr, next C.LLVMValueRef
	lt         *lifetime
}

func (it *instrIter) Item() Instruction {
	instr, _ := wrapInstructionRef(it.curr, it.lt)
	return instr
}

func (it *instrIter) Next() bool {
	it.lt.mustBeAlive()

	it.curr = it.next
	if it.curr != nil {
		it.next = C.LLVMGetNextInstruction(it.curr)
	}

	return it.curr != nil
}

// Instructions returns an iterator over the instructions of the block in
// order.
func (bb BasicBlock) Instructions() Iterator[Instruction] {
	bb.lt.mustBeAlive()
	return &instrIter{next: C.LLVMGetFirstInstruction(bb.c), lt: bb.lt}
}

// NumInstructions returns the number of instructions in the block.
func (bb BasicBlock) NumInstructions() int {
	bb.lt.mustBeAlive()

	n := 0
	for i := C.LLVMGetFirstInstruction(bb.c); i != nil; i = C.LLVMGetNextInstruction(i) {
		n++
	}

	return n
}

// FirstNonPHI returns the first instruction in the block which is not a `phi`.
func (bb BasicBlock) FirstNonPHI() (Instruction, bool) {
	bb.lt.mustBeAlive()

	for i := C.LLVMGetFirstInstruction(bb.c); i != nil; i = C.LLVMGetNextInstruction(i) {
		if OpCode(C.LLVMGetInstructionOpcode(i)) != OpPHI {
			return wrapInstructionRef(i, bb.lt)
		}
	}

	return nil, false
}

// IsWellFormed returns whether the block is non-empty and ends in its one and
// only terminator.
func (bb BasicBlock) IsWellFormed() bool {
	bb.lt.mustBeAlive()

	last := C.LLVMGetLastInstruction(bb.c)
	if last == nil || C.LLVMIsATerminatorInst(last) == nil {
		return false
	}

	for i := C.LLVMGetFirstInstruction(bb.c); i != last; i = C.LLVMGetNextInstruction(i) {
		if C.LLVMIsATerminatorInst(i) != nil {
			return false
		}
	}

	return true
}

// Next returns the block after this one in its function.
func (bb BasicBlock) Next() (BasicBlock, bool) {
	bb.lt.mustBeAlive()
	return wrapBlockRef(C.LLVMGetNextBasicBlock(bb.c), bb.lt)
}

// Prev returns the block before this one in its function.
func (bb BasicBlock) Prev() (BasicBlock, bool) {
	bb.lt.mustBeAlive()
	return wrapBlockRef(C.LLVMGetPreviousBasicBlock(bb.c), bb.lt)
}

func wrapBlockRef(c C.LLVMBasicBlockRef, lt *lifetime) (BasicBlock, bool) {
	if c == nil {
		return BasicBlock{}, false
	}

	return BasicBlock{c: c, lt: lt}, true
}

// MoveBefore moves the block to be immediately before pos.
func (bb BasicBlock) MoveBefore(pos BasicBlock) error {
	if err := checkBlocks("BasicBlock.MoveBefore", bb, pos); err != nil {
		return err
	}

	C.LLVMMoveBasicBlockBefore(bb.c, pos.c)
	return nil
}

// MoveAfter moves the block to be immediately after pos.
func (bb BasicBlock) MoveAfter(pos BasicBlock) error {
	if err := checkBlocks("BasicBlock.MoveAfter", bb, pos); err != nil {
		return err
	}

	C.LLVMMoveBasicBlockAfter(bb.c, pos.c)
	return nil
}

// RemoveFromParent unlinks the block from its function without deleting it.
func (bb BasicBlock) RemoveFromParent() error {
	const op = "BasicBlock.RemoveFromParent"

	if err := checkBlocks(op, bb); err != nil {
		return err
	}

	if _, ok := bb.Parent(); !ok {
		return invalidArg(op, "block %%%s is not in a function", bb.Name())
	}

	C.LLVMRemoveBasicBlockFromParent(bb.c)
	bb.lt.moveUnder(bb.lt.root())
	return nil
}

// EraseFromParent unlinks the block from its function and deletes it along
// with all its instructions.  The block handle is invalid afterward: builders
// positioned in the block are unpositioned and, for a block created with
// Context.CreateBasicBlock, the handle reports ErrDisposed.
func (bb BasicBlock) EraseFromParent() error {
	const op = "BasicBlock.EraseFromParent"

	if err := checkBlocks(op, bb); err != nil {
		return err
	}

	if _, ok := bb.Parent(); !ok {
		return invalidArg(op, "block %%%s is not in a function", bb.Name())
	}

	bb.lt.context().forgetPositions(func(ip InsertPoint) bool {
		return ip.block.c == bb.c
	})

	C.LLVMDeleteBasicBlock(bb.c)

	if bb.lt.movable {
		bb.lt.end()
	}

	return nil
}

// owner returns the lifetime of the module containing the block.  Detached
// blocks keep the lifetime they were obtained through.
func (bb BasicBlock) owner() *lifetime {
	fn := C.LLVMGetBasicBlockParent(bb.c)
	if fn == nil {
		return bb.lt
	}

	if m, ok := bb.lt.context().lookupModule(C.LLVMGetGlobalParent(fn)); ok {
		return m.lt
	}

	return bb.lt
}
