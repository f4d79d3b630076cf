package llvm

/*
#include "llvm-c/Core.h"
*/
import "C"

import "fmt"

// Predicate is the condition tested by an `icmp` or `fcmp` instruction.
// Floating point predicates occupy the values 0 through 15 and integer
// predicates the values 32 through 41, matching LLVM's numbering.
type Predicate int

// Enumeration of floating point predicates.
const (
	FCmpFalse Predicate = C.LLVMRealPredicateFalse
	FCmpOEQ   Predicate = C.LLVMRealOEQ
	FCmpOGT   Predicate = C.LLVMRealOGT
	FCmpOGE   Predicate = C.LLVMRealOGE
	FCmpOLT   Predicate = C.LLVMRealOLT
	FCmpOLE   Predicate = C.LLVMRealOLE
	FCmpONE   Predicate = C.LLVMRealONE
	FCmpORD   Predicate = C.LLVMRealORD
	FCmpUNO   Predicate = C.LLVMRealUNO
	FCmpUEQ   Predicate = C.LLVMRealUEQ
	FCmpUGT   Predicate = C.LLVMRealUGT
	FCmpUGE   Predicate = C.LLVMRealUGE
	FCmpULT   Predicate = C.LLVMRealULT
	FCmpULE   Predicate = C.LLVMRealULE
	FCmpUNE   Predicate = C.LLVMRealUNE
	FCmpTrue  Predicate = C.LLVMRealPredicateTrue
)

// Enumeration of integer predicates.
const (
	ICmpEQ  Predicate = C.LLVMIntEQ
	ICmpNE  Predicate = C.LLVMIntNE
	ICmpUGT Predicate = C.LLVMIntUGT
	ICmpUGE Predicate = C.LLVMIntUGE
	ICmpULT Predicate = C.LLVMIntULT
	ICmpULE Predicate = C.LLVMIntULE
	ICmpSGT Predicate = C.LLVMIntSGT
	ICmpSGE Predicate = C.LLVMIntSGE
	ICmpSLT Predicate = C.LLVMIntSLT
	ICmpSLE Predicate = C.LLVMIntSLE
)

var predicateNames = map[Predicate]string{
	FCmpFalse: "false",
	FCmpOEQ:   "oeq",
	FCmpOGT:   "ogt",
	FCmpOGE:   "oge",
	FCmpOLT:   "olt",
	FCmpOLE:   "ole",
	FCmpONE:   "one",
	FCmpORD:   "ord",
	FCmpUNO:   "uno",
	FCmpUEQ:   "ueq",
	FCmpUGT:   "ugt",
	FCmpUGE:   "uge",
	FCmpULT:   "ult",
	FCmpULE:   "ule",
	FCmpUNE:   "une",
	FCmpTrue:  "true",
	ICmpEQ:    "eq",
	ICmpNE:    "ne",
	ICmpUGT:   "ugt",
	ICmpUGE:   "uge",
	ICmpULT:   "ult",
	ICmpULE:   "ule",
	ICmpSGT:   "sgt",
	ICmpSGE:   "sge",
	ICmpSLT:   "slt",
	ICmpSLE:   "sle",
}

// String returns the predicate as it is spelled in textual IR.
func (p Predicate) String() string {
	if name, ok := predicateNames[p]; ok {
		return name
	}

	return fmt.Sprintf("Predicate(%d)", int(p))
}

// ParsePredicate looks up a predicate by its textual IR spelling.  Integer
// and floating point predicates share some spellings, so the family must be
// given.
func ParsePredicate(name string, isFloat bool) (Predicate, bool) {
	for p, pname := range predicateNames {
		if pname == name && p.IsFPPredicate() == isFloat {
			return p, true
		}
	}

	return 0, false
}

// IsFPPredicate returns whether p is a floating point predicate.
func (p Predicate) IsFPPredicate() bool {
	return FCmpFalse <= p && p <= FCmpTrue
}

// IsIntPredicate returns whether p is an integer predicate.
func (p Predicate) IsIntPredicate() bool {
	return ICmpEQ <= p && p <= ICmpSLE
}

// IsSigned returns whether p compares integers as signed.
func (p Predicate) IsSigned() bool {
	return ICmpSGT <= p && p <= ICmpSLE
}

// IsUnsigned returns whether p compares integers as unsigned.
func (p Predicate) IsUnsigned() bool {
	return ICmpUGT <= p && p <= ICmpULE
}

// IsOrdered returns whether p is a floating point predicate which is false
// when either operand is NaN.
func (p Predicate) IsOrdered() bool {
	return FCmpOEQ <= p && p <= FCmpORD
}

// IsUnordered returns whether p is a floating point predicate which is true
// when either operand is NaN.
func (p Predicate) IsUnordered() bool {
	return FCmpUNO <= p && p <= FCmpUNE
}

// IsEquality returns whether p tests only for equality or inequality.
func (p Predicate) IsEquality() bool {
	switch p {
	case ICmpEQ, ICmpNE, FCmpOEQ, FCmpONE, FCmpUEQ, FCmpUNE:
		return true
	}

	return false
}

// Swapped returns the predicate which gives the same result when the operands
// of the comparison are exchanged.  Symmetric predicates are their own swap.
func (p Predicate) Swapped() Predicate {
	switch p {
	case ICmpSGT:
		return ICmpSLT
	case ICmpSLT:
		return ICmpSGT
	case ICmpSGE:
		return ICmpSLE
	case ICmpSLE:
		return ICmpSGE
	case ICmpUGT:
		return ICmpULT
	case ICmpULT:
		return ICmpUGT
	case ICmpUGE:
		return ICmpULE
	case ICmpULE:
		return ICmpUGE
	case FCmpOGT:
		return FCmpOLT
	case FCmpOLT:
		return FCmpOGT
	case FCmpOGE:
		return FCmpOLE
	case FCmpOLE:
		return FCmpOGE
	case FCmpUGT:
		return FCmpULT
	case FCmpULT:
		return FCmpUGT
	case FCmpUGE:
		return FCmpULE
	case FCmpULE:
		return FCmpUGE
	default:
		return p
	}
}

// Inverse returns the predicate which is true exactly when p is false.
func (p Predicate) Inverse() Predicate {
	if p.IsFPPredicate() {
		// The floating point predicates are a 4-bit mask of the outcomes
		// unordered, less, greater and equal.
		return FCmpTrue - p
	}

	switch p {
	case ICmpEQ:
		return ICmpNE
	case ICmpNE:
		return ICmpEQ
	case ICmpUGT:
		return ICmpULE
	case ICmpULE:
		return ICmpUGT
	case ICmpUGE:
		return ICmpULT
	case ICmpULT:
		return ICmpUGE
	case ICmpSGT:
		return ICmpSLE
	case ICmpSLE:
		return ICmpSGT
	case ICmpSGE:
		return ICmpSLT
	case ICmpSLT:
		return ICmpSGE
	default:
		return p
	}
}

// -----------------------------------------------------------------------------

// CmpInst represents an `icmp` or `fcmp` instruction.
type CmpInst interface {
	Instruction

	// Predicate returns the condition tested by the comparison.
	Predicate() Predicate

	IsSigned() bool
	IsOrdered() bool
	IsUnordered() bool
	IsEquality() bool
	SwappedPredicate() Predicate
	InversePredicate() Predicate

	isCmp()
}

// cmpBase is the base type for comparisons.  The predicate is always read
// from the instruction since it can be changed through LLVM.
type cmpBase struct {
	instructionBase
}

func (cmpBase) isCmp() {}

func (cb cmpBase) Predicate() Predicate {
	cb.lt.mustBeAlive()

	if OpCode(C.LLVMGetInstructionOpcode(cb.c)) == OpICmp {
		return Predicate(C.LLVMGetICmpPredicate(cb.c))
	}

	return Predicate(C.LLVMGetFCmpPredicate(cb.c))
}

func (cb cmpBase) IsSigned() bool {
	return cb.Predicate().IsSigned()
}

func (cb cmpBase) IsOrdered() bool {
	return cb.Predicate().IsOrdered()
}

func (cb cmpBase) IsUnordered() bool {
	return cb.Predicate().IsUnordered()
}

func (cb cmpBase) IsEquality() bool {
	return cb.Predicate().IsEquality()
}

func (cb cmpBase) SwappedPredicate() Predicate {
	return cb.Predicate().Swapped()
}

func (cb cmpBase) InversePredicate() Predicate {
	return cb.Predicate().Inverse()
}

// ICmpInst represents an `icmp` instruction.
type ICmpInst struct {
	cmpBase
}

// FCmpInst represents an `fcmp` instruction.
type FCmpInst struct {
	cmpBase
}
