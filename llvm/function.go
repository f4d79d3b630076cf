package llvm

/*
#include <stdlib.h>

#include "llvm-c/Core.h"
#include "llvm-c/Analysis.h"
*/
import "C"

import (
	"unsafe"
)

// CallConv represents an LLVM calling convention.
type CallConv C.LLVMCallConv

// Enumeration of different calling conventions.
const (
	CCallConv             CallConv = C.LLVMCCallConv
	FastCallConv          CallConv = C.LLVMFastCallConv
	ColdCallConv          CallConv = C.LLVMColdCallConv
	GHCCallConv           CallConv = C.LLVMGHCCallConv
	HiPECallConv          CallConv = C.LLVMHiPECallConv
	AnyRegCallConv        CallConv = C.LLVMAnyRegCallConv
	PreserveMostCallConv  CallConv = C.LLVMPreserveMostCallConv
	PreserveAllCallConv   CallConv = C.LLVMPreserveAllCallConv
	SwiftCallConv         CallConv = C.LLVMSwiftCallConv
	CXXFASTTLSCallConv    CallConv = C.LLVMCXXFASTTLSCallConv
	X86StdcallCallConv    CallConv = C.LLVMX86StdcallCallConv
	X86FastcallCallConv   CallConv = C.LLVMX86FastcallCallConv
	ARMAPCSCallConv       CallConv = C.LLVMARMAPCSCallConv
	ARMAAPCSCallConv      CallConv = C.LLVMARMAAPCSCallConv
	ARMAAPCSVFPCallConv   CallConv = C.LLVMARMAAPCSVFPCallConv
	X86ThisCallCallConv   CallConv = C.LLVMX86ThisCallCallConv
	PTXKernelCallConv     CallConv = C.LLVMPTXKernelCallConv
	PTXDeviceCallConv     CallConv = C.LLVMPTXDeviceCallConv
	SPIRFUNCCallConv      CallConv = C.LLVMSPIRFUNCCallConv
	SPIRKERNELCallConv    CallConv = C.LLVMSPIRKERNELCallConv
	X8664SysVCallConv     CallConv = C.LLVMX8664SysVCallConv
	Win64CallConv         CallConv = C.LLVMWin64CallConv
	X86VectorCallCallConv CallConv = C.LLVMX86VectorCallCallConv
	X86RegCallCallConv    CallConv = C.LLVMX86RegCallCallConv
)

// -----------------------------------------------------------------------------

// Function represents an LLVM function.
type Function struct {
	globalObjectBase
}

// FunctionType returns the signature of the function.
func (f Function) FunctionType() FunctionType {
	return f.ValueType().(FunctionType)
}

// Callee returns the function paired with its signature for use in calls.
func (f Function) Callee() FunctionCallee {
	return FunctionCallee{Type: f.FunctionType(), Callee: f}
}

// NumParams returns the number of parameters of the function.
func (f Function) NumParams() int {
	f.lt.mustBeAlive()
	return int(C.LLVMCountParams(f.c))
}

// Param returns the function parameter at index ndx.
func (f Function) Param(ndx int) (Argument, error) {
	if n := f.NumParams(); ndx < 0 || ndx >= n {
		return Argument{}, invalidArg("Function.Param", "parameter index %d out of range for %d parameters", ndx, n)
	}

	return Argument{valueBase{c: C.LLVMGetParam(f.c, mustCuint(ndx)), lt: f.lt}}, nil
}

// Params returns the parameters of the function in order.
func (f Function) Params() []Argument {
	n := f.NumParams()
	if n == 0 {
		return nil
	}

	refs := make([]C.LLVMValueRef, n)
	C.LLVMGetParams(f.c, byref(&refs[0]))

	params := make([]Argument, n)
	for i, ref := range refs {
		params[i] = Argument{valueBase{c: ref, lt: f.lt}}
	}

	return params
}

// CallConv returns the calling convention of the function.
func (f Function) CallConv() CallConv {
	f.lt.mustBeAlive()
	return CallConv(C.LLVMGetFunctionCallConv(f.c))
}

// SetCallConv sets the calling convention of the function to cc.
func (f Function) SetCallConv(cc CallConv) {
	f.lt.mustBeAlive()
	C.LLVMSetFunctionCallConv(f.c, C.uint(cc))
}

// GC returns the name of the garbage collector strategy of the function.
func (f Function) GC() (string, bool) {
	f.lt.mustBeAlive()

	name := C.LLVMGetGC(f.c)
	if name == nil {
		return "", false
	}

	return C.GoString(name), true
}

// SetGC sets the garbage collector strategy of the function.  An empty name
// clears it.
func (f Function) SetGC(name string) {
	f.lt.mustBeAlive()

	if name == "" {
		C.LLVMSetGC(f.c, nil)
		return
	}

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	C.LLVMSetGC(f.c, cname)
}

// Personality returns the personality function of the function.
func (f Function) Personality() (Function, bool) {
	f.lt.mustBeAlive()

	if !fromBool(C.LLVMHasPersonalityFn(f.c)) {
		return Function{}, false
	}

	return Cast[Function](wrapValue(C.LLVMGetPersonalityFn(f.c), f.lt))
}

// SetPersonality sets the personality function of the function.
func (f Function) SetPersonality(pers Function) error {
	if err := checkValues("Function.SetPersonality", f, pers); err != nil {
		return err
	}

	C.LLVMSetPersonalityFn(f.c, pers.c)
	return nil
}

// IntrinsicID returns the intrinsic ID of the function if it is intrinsic.
func (f Function) IntrinsicID() (id uint, isIntrinsic bool) {
	f.lt.mustBeAlive()

	id = uint(C.LLVMGetIntrinsicID(f.c))
	isIntrinsic = id != 0
	return
}

// Verify checks the function for errors.
func (f Function) Verify() error {
	const op = "Function.Verify"

	if err := f.lt.check(op); err != nil {
		return err
	}

	if fromBool(C.LLVMVerifyFunction(f.c, C.LLVMReturnStatusAction)) {
		return llvmError(op, "function @"+f.Name()+" is broken")
	}

	return nil
}

// EraseFromParent deletes the function from its module.  The function must
// have no uses.
func (f Function) EraseFromParent() error {
	const op = "Function.EraseFromParent"

	if err := f.lt.check(op); err != nil {
		return err
	}

	if n := f.NumUses(); n > 0 {
		return invalidArg(op, "function @%s still has %d uses", f.Name(), n)
	}

	f.lt.context().forgetPositions(func(ip InsertPoint) bool {
		return C.LLVMGetBasicBlockParent(ip.block.c) == f.c
	})

	C.LLVMDeleteFunction(f.c)
	return nil
}

// -----------------------------------------------------------------------------

// NumBasicBlocks returns the number of basic blocks in the function.
func (f Function) NumBasicBlocks() int {
	f.lt.mustBeAlive()
	return int(C.LLVMCountBasicBlocks(f.c))
}

// EntryBlock returns the entry block of the function if it has a body.
func (f Function) EntryBlock() (BasicBlock, bool) {
	f.lt.mustBeAlive()
	return f.wrapBlock(C.LLVMGetFirstBasicBlock(f.c))
}

// LastBlock returns the last basic block of the function.
func (f Function) LastBlock() (BasicBlock, bool) {
	f.lt.mustBeAlive()
	return f.wrapBlock(C.LLVMGetLastBasicBlock(f.c))
}

func (f Function) wrapBlock(bb C.LLVMBasicBlockRef) (BasicBlock, bool) {
	if bb == nil {
		return BasicBlock{}, false
	}

	return BasicBlock{c: bb, lt: f.lt}, true
}

// blockIter is an iterator over the blocks of a function.
type blockIter struct {
	curr, next C.LLVMBasicBlockRef
	lt         *lifetime
}

func (it *blockIter) Item() BasicBlock {
	return BasicBlock{c: it.curr, lt: it.lt}
}

func (it *blockIter) Next() bool {
	it.lt.mustBeAlive()

	it.curr = it.next
	if it.curr != nil {
		it.next = C.LLVMGetNextBasicBlock(it.curr)
	}

	return it.curr != nil
}

// Blocks returns an iterator over the blocks of the function in layout order.
func (f Function) Blocks() Iterator[BasicBlock] {
	f.lt.mustBeAlive()
	return &blockIter{next: C.LLVMGetFirstBasicBlock(f.c), lt: f.lt}
}

// AppendBasicBlock appends a new basic block named name to the function.
func (f Function) AppendBasicBlock(name string) (BasicBlock, error) {
	const op = "Function.AppendBasicBlock"

	if err := f.lt.check(op); err != nil {
		return BasicBlock{}, err
	}

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	bb := C.LLVMAppendBasicBlockInContext(f.Context().c, f.c, cname)
	if bb == nil {
		return BasicBlock{}, constructionFailed(op)
	}

	return BasicBlock{c: bb, lt: f.lt}, nil
}

// -----------------------------------------------------------------------------

// Argument represents a formal parameter of a function.
type Argument struct {
	valueBase
}

// Parent returns the function the argument belongs to.
func (a Argument) Parent() Function {
	a.lt.mustBeAlive()
	return wrapValue(C.LLVMGetParamParent(a.c), a.lt).(Function)
}

// Index returns the position of the argument in its function's parameter list.
func (a Argument) Index() int {
	a.lt.mustBeAlive()

	ndx := 0
	for p := C.LLVMGetPreviousParam(a.c); p != nil; p = C.LLVMGetPreviousParam(p) {
		ndx++
	}

	return ndx
}

// SetAlignment sets the alignment of the pointee of a pointer argument.
func (a Argument) SetAlignment(align int) error {
	const op = "Argument.SetAlignment"

	if err := a.lt.check(op); err != nil {
		return err
	}

	if align <= 0 || align&(align-1) != 0 {
		return invalidArg(op, "alignment %d is not a power of two", align)
	}

	calign, err := cuint(op, align)
	if err != nil {
		return err
	}

	C.LLVMSetParamAlignment(a.c, calign)
	return nil
}

// -----------------------------------------------------------------------------

// FunctionCallee pairs a callable value with the signature it is called with.
type FunctionCallee struct {
	Type   FunctionType
	Callee Value
}
