package llvm

/*
#include "llvm-c/Core.h"
*/
import "C"

import "unsafe"

// PHINode represents a `phi` instruction.
type PHINode struct {
	instructionBase
}

// NumIncoming returns the number of incoming edges of the phi.
func (phi PHINode) NumIncoming() int {
	phi.lt.mustBeAlive()
	return int(C.LLVMCountIncoming(phi.c))
}

// Incoming returns the incoming value and block at index ndx.
func (phi PHINode) Incoming(ndx int) (Value, BasicBlock, error) {
	if n := phi.NumIncoming(); ndx < 0 || ndx >= n {
		return nil, BasicBlock{}, invalidArg("PHINode.Incoming", "incoming index %d out of range for %d edges", ndx, n)
	}

	cndx := mustCuint(ndx)
	v := wrapValue(C.LLVMGetIncomingValue(phi.c, cndx), phi.lt)
	bb := BasicBlock{c: C.LLVMGetIncomingBlock(phi.c, cndx), lt: phi.lt}
	return v, bb, nil
}

// AddIncoming adds incoming edges to the phi: vals[i] flows in from
// blocks[i].  Every value must have the type of the phi.
func (phi PHINode) AddIncoming(vals []Value, blocks []BasicBlock) error {
	const op = "PHINode.AddIncoming"

	if err := checkValues(op, phi); err != nil {
		return err
	}

	if len(vals) != len(blocks) {
		return invalidArg(op, "%d values given for %d blocks", len(vals), len(blocks))
	}

	if err := checkValues(op, vals...); err != nil {
		return err
	}

	if err := checkBlocks(op, blocks...); err != nil {
		return err
	}

	typ := phi.Type()
	for i, v := range vals {
		if !SameType(v.Type(), typ) {
			return invalidArg(op, "incoming value %d has type %s, expected %s", i, v.Type(), typ)
		}
	}

	if len(vals) == 0 {
		return nil
	}

	valArrPtr, n := valueRefs(vals)

	blockArr := make([]C.LLVMBasicBlockRef, len(blocks))
	for i, bb := range blocks {
		blockArr[i] = bb.c
	}

	C.LLVMAddIncoming(phi.c, valArrPtr, byref(&blockArr[0]), n)
	return nil
}

// -----------------------------------------------------------------------------

// SelectInst represents a `select` instruction.
type SelectInst struct {
	instructionBase
}

// Condition returns the selecting condition.
func (si SelectInst) Condition() Value {
	si.lt.mustBeAlive()
	return wrapValue(C.LLVMGetOperand(si.c, 0), si.lt)
}

// TrueValue returns the value selected when the condition is true.
func (si SelectInst) TrueValue() Value {
	si.lt.mustBeAlive()
	return wrapValue(C.LLVMGetOperand(si.c, 1), si.lt)
}

// FalseValue returns the value selected when the condition is false.
func (si SelectInst) FalseValue() Value {
	si.lt.mustBeAlive()
	return wrapValue(C.LLVMGetOperand(si.c, 2), si.lt)
}

// -----------------------------------------------------------------------------

// aggregateIndices returns the constant indices of an `extractvalue` or
// `insertvalue` instruction.
func aggregateIndices(ib instructionBase) []int {
	ib.lt.mustBeAlive()

	n := int(C.LLVMGetNumIndices(ib.c))
	if n == 0 {
		return nil
	}

	raw := unsafe.Slice(C.LLVMGetIndices(ib.c), n)

	indices := make([]int, n)
	for i, ndx := range raw {
		indices[i] = int(ndx)
	}

	return indices
}

// ExtractValueInst represents an `extractvalue` instruction.
type ExtractValueInst struct {
	instructionBase
}

// Indices returns the path of the extracted member.
func (ev ExtractValueInst) Indices() []int {
	return aggregateIndices(ev.instructionBase)
}

// InsertValueInst represents an `insertvalue` instruction.
type InsertValueInst struct {
	instructionBase
}

// Indices returns the path of the inserted member.
func (iv InsertValueInst) Indices() []int {
	return aggregateIndices(iv.instructionBase)
}

// -----------------------------------------------------------------------------

// ExtractElementInst represents an `extractelement` instruction.
type ExtractElementInst struct {
	instructionBase
}

// InsertElementInst represents an `insertelement` instruction.
type InsertElementInst struct {
	instructionBase
}

// ShuffleVectorInst represents a `shufflevector` instruction.
type ShuffleVectorInst struct {
	instructionBase
}

// UndefMaskElem is the mask element used for lanes whose value is undefined.
const UndefMaskElem = -1

// Mask returns the shuffle mask.  Undefined lanes are UndefMaskElem.
func (sv ShuffleVectorInst) Mask() []int {
	sv.lt.mustBeAlive()

	n := int(C.LLVMGetNumMaskElements(sv.c))
	mask := make([]int, n)
	for i := range mask {
		elem := int(C.LLVMGetMaskValue(sv.c, mustCuint(i)))
		if elem == int(C.LLVMGetUndefMaskElem()) {
			elem = UndefMaskElem
		}

		mask[i] = elem
	}

	return mask
}
