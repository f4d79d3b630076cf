package llvm

/*
#include <stdlib.h>

#include "llvm-c/Core.h"
#include "llvm-c/Analysis.h"
#include "llvm-c/BitReader.h"
#include "llvm-c/BitWriter.h"
#include "llvm-c/IRReader.h"
#include "llvm-c/Linker.h"
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// Module represents an LLVM module: a symbol table of functions and global
// variables along with target information.
type Module struct {
	c   C.LLVMModuleRef
	ctx *Context
	lt  *lifetime
}

// NewModule creates a new module with the given name in the context.
func (c *Context) NewModule(name string) (*Module, error) {
	const op = "Context.NewModule"

	if err := c.lt.check(op); err != nil {
		return nil, err
	}

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	m := C.LLVMModuleCreateWithNameInContext(cname, c.c)
	if m == nil {
		return nil, constructionFailed(op)
	}

	return c.adoptModule(m, name), nil
}

// adoptModule registers a module created by LLVM with the context.
func (c *Context) adoptModule(m C.LLVMModuleRef, name string) *Module {
	mod := &Module{
		c:   m,
		ctx: c,
		lt:  newLifetime(c.lt, fmt.Sprintf("module %q", name)),
	}

	c.modules[m] = mod
	return mod
}

// dispose disposes of the module if it is alive.
func (m *Module) dispose() {
	if !m.lt.alive() {
		return
	}

	C.LLVMDisposeModule(m.c)
	m.release()
}

// release ends the module's lifetime without disposing it: the module has
// either been disposed or been consumed by LLVM.
func (m *Module) release() {
	m.lt.end()
	if m.ctx.modules != nil {
		delete(m.ctx.modules, m.c)
	}
}

// Dispose frees the module along with everything in it.  Every handle obtained
// through the module is invalid afterward.  Disposing a module twice, or after
// its context, is a no-op.
func (m *Module) Dispose() {
	m.dispose()
}

// IsDisposed returns whether the module has been disposed.
func (m *Module) IsDisposed() bool {
	return !m.lt.alive()
}

// Handle returns the raw identity of the module.
func (m *Module) Handle() uintptr {
	return uintptr(unsafe.Pointer(m.c))
}

// Context returns the context owning the module.
func (m *Module) Context() *Context {
	return m.ctx
}

// Dump prints the LLVM IR of the module to standard error.
func (m *Module) Dump() {
	m.lt.mustBeAlive()
	C.LLVMDumpModule(m.c)
}

// String returns the LLVM IR of the module.
func (m *Module) String() string {
	m.lt.mustBeAlive()
	return messageString(C.LLVMPrintModuleToString(m.c))
}

// WriteToFile writes the LLVM IR of the module to a file.
func (m *Module) WriteToFile(path string) error {
	const op = "Module.WriteToFile"

	if err := m.lt.check(op); err != nil {
		return err
	}

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	var errMsg *C.char
	if fromBool(C.LLVMPrintModuleToFile(m.c, cpath, byref(&errMsg))) {
		return llvmError(op, messageString(errMsg))
	}

	return nil
}

// WriteBitcodeToFile writes the module as bitcode to a file.
func (m *Module) WriteBitcodeToFile(path string) error {
	const op = "Module.WriteBitcodeToFile"

	if err := m.lt.check(op); err != nil {
		return err
	}

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	if C.LLVMWriteBitcodeToFile(m.c, cpath) != 0 {
		return llvmError(op, "failed to write bitcode to "+path)
	}

	return nil
}

// WriteBitcodeToMemoryBuffer writes the module as bitcode to a new memory
// buffer.
func (m *Module) WriteBitcodeToMemoryBuffer() (*MemoryBuffer, error) {
	const op = "Module.WriteBitcodeToMemoryBuffer"

	if err := m.lt.check(op); err != nil {
		return nil, err
	}

	buf := C.LLVMWriteBitcodeToMemoryBuffer(m.c)
	if buf == nil {
		return nil, constructionFailed(op)
	}

	return newMemoryBuffer(buf), nil
}

// Verify checks the module for errors.  The error returned describes every
// problem found.
func (m *Module) Verify() error {
	const op = "Module.Verify"

	if err := m.lt.check(op); err != nil {
		return err
	}

	var errMsg *C.char
	broken := fromBool(C.LLVMVerifyModule(m.c, C.LLVMReturnStatusAction, byref(&errMsg)))
	msg := messageString(errMsg)

	if broken {
		return llvmError(op, msg)
	}

	return nil
}

// Link links src into the module.  The source module is consumed whether or
// not linking succeeds: its handles are invalid afterward.
func (m *Module) Link(src *Module) error {
	const op = "Module.Link"

	if err := m.lt.check(op); err != nil {
		return err
	}

	if err := src.lt.check(op); err != nil {
		return err
	}

	if src == m {
		return invalidArg(op, "a module can not be linked into itself")
	}

	if src.ctx != m.ctx {
		return invalidArg(op, "modules belong to different contexts")
	}

	failed := fromBool(C.LLVMLinkModules2(m.c, src.c))
	src.release()

	if failed {
		return llvmError(op, "failed to link module")
	}

	return nil
}

// Clone returns a deep copy of the module in the same context.
func (m *Module) Clone() (*Module, error) {
	const op = "Module.Clone"

	if err := m.lt.check(op); err != nil {
		return nil, err
	}

	clone := C.LLVMCloneModule(m.c)
	if clone == nil {
		return nil, constructionFailed(op)
	}

	return m.ctx.adoptModule(clone, m.Name()), nil
}

// -----------------------------------------------------------------------------

// ParseIR parses a module from a memory buffer holding either textual IR or
// bitcode.  The buffer is consumed whether or not parsing succeeds.
func (c *Context) ParseIR(buf *MemoryBuffer) (*Module, error) {
	const op = "Context.ParseIR"

	if err := c.lt.check(op); err != nil {
		return nil, err
	}

	if err := buf.lt.check(op); err != nil {
		return nil, err
	}

	var m C.LLVMModuleRef
	var errMsg *C.char
	failed := fromBool(C.LLVMParseIRInContext(c.c, buf.c, byref(&m), byref(&errMsg)))
	buf.consume()

	if failed {
		return nil, llvmError(op, messageString(errMsg))
	}

	mod := c.adoptModule(m, "")
	mod.lt.what = fmt.Sprintf("module %q", mod.Name())
	return mod, nil
}

// ParseBitcode parses a module from a memory buffer holding bitcode.  The
// buffer remains owned by the caller.
func (c *Context) ParseBitcode(buf *MemoryBuffer) (*Module, error) {
	const op = "Context.ParseBitcode"

	if err := c.lt.check(op); err != nil {
		return nil, err
	}

	if err := buf.lt.check(op); err != nil {
		return nil, err
	}

	var m C.LLVMModuleRef
	if fromBool(C.LLVMParseBitcodeInContext2(c.c, buf.c, byref(&m))) {
		return nil, llvmError(op, "invalid bitcode")
	}

	mod := c.adoptModule(m, "")
	mod.lt.what = fmt.Sprintf("module %q", mod.Name())
	return mod, nil
}

// ParseIRFile parses a module from a textual IR or bitcode file.
func (c *Context) ParseIRFile(path string) (*Module, error) {
	buf, err := NewMemoryBufferFromFile(path)
	if err != nil {
		return nil, err
	}

	return c.ParseIR(buf)
}

// ParseIRString parses a module from textual IR.  The name identifies the
// source in diagnostics.
func (c *Context) ParseIRString(src, name string) (*Module, error) {
	buf, err := NewMemoryBufferFromBytes([]byte(src), name)
	if err != nil {
		return nil, err
	}

	return c.ParseIR(buf)
}

// -----------------------------------------------------------------------------

// Name returns the name of the module.
func (m *Module) Name() string {
	m.lt.mustBeAlive()

	var strlen C.size_t
	str := C.LLVMGetModuleIdentifier(m.c, byref(&strlen))
	return C.GoStringN(str, C.int(strlen))
}

// SetName sets the name of the module.
func (m *Module) SetName(name string) {
	m.lt.mustBeAlive()

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	C.LLVMSetModuleIdentifier(m.c, cname, C.size_t(len(name)))
}

// SourceFileName returns the source file name of the module.
func (m *Module) SourceFileName() string {
	m.lt.mustBeAlive()

	var strlen C.size_t
	cname := C.LLVMGetSourceFileName(m.c, byref(&strlen))
	return C.GoStringN(cname, C.int(strlen))
}

// SetSourceFileName sets the source file name of the module to name.
func (m *Module) SetSourceFileName(name string) {
	m.lt.mustBeAlive()

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	C.LLVMSetSourceFileName(m.c, cname, C.size_t(len(name)))
}

// DataLayout returns the data layout string of the module.
func (m *Module) DataLayout() string {
	m.lt.mustBeAlive()
	return C.GoString(C.LLVMGetDataLayoutStr(m.c))
}

// SetDataLayout sets the data layout string of the module.
func (m *Module) SetDataLayout(layout string) {
	m.lt.mustBeAlive()

	clayout := C.CString(layout)
	defer C.free(unsafe.Pointer(clayout))
	C.LLVMSetDataLayout(m.c, clayout)
}

// TargetTriple returns the target triple string of the module.
func (m *Module) TargetTriple() string {
	m.lt.mustBeAlive()
	return C.GoString(C.LLVMGetTarget(m.c))
}

// SetTargetTriple sets the target triple string of the module.
func (m *Module) SetTargetTriple(triple string) {
	m.lt.mustBeAlive()

	ctriple := C.CString(triple)
	defer C.free(unsafe.Pointer(ctriple))
	C.LLVMSetTarget(m.c, ctriple)
}

// -----------------------------------------------------------------------------

// AddFunction adds a new function to the module.  If the name is already
// taken, LLVM renames the new function to be unique.
func (m *Module) AddFunction(name string, funcType FunctionType) (Function, error) {
	const op = "Module.AddFunction"

	if err := m.lt.check(op); err != nil {
		return Function{}, err
	}

	if err := checkTypes(op, funcType); err != nil {
		return Function{}, err
	}

	fn := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMAddFunction(m.c, cname, funcType.c)
	})

	if fn == nil {
		return Function{}, constructionFailed(op)
	}

	return wrapValue(fn, m.lt).(Function), nil
}

// GetFunction looks up a function by name in the module.
func (m *Module) GetFunction(name string) (Function, bool) {
	m.lt.mustBeAlive()

	fn := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMGetNamedFunction(m.c, cname)
	})

	if fn == nil {
		return Function{}, false
	}

	return Cast[Function](wrapValue(fn, m.lt))
}

// GetOrInsertFunction returns the function named name, declaring it with the
// signature funcType if it does not exist.  The callee always carries
// funcType, even when an existing function was declared with a different
// signature.
func (m *Module) GetOrInsertFunction(name string, funcType FunctionType) (FunctionCallee, error) {
	const op = "Module.GetOrInsertFunction"

	if err := m.lt.check(op); err != nil {
		return FunctionCallee{}, err
	}

	if err := checkTypes(op, funcType); err != nil {
		return FunctionCallee{}, err
	}

	if fn, ok := m.GetFunction(name); ok {
		return FunctionCallee{Type: funcType, Callee: fn}, nil
	}

	fn, err := m.AddFunction(name, funcType)
	if err != nil {
		return FunctionCallee{}, err
	}

	return FunctionCallee{Type: funcType, Callee: fn}, nil
}

// funcIter is an iterator over the functions of a module.
type funcIter struct {
	curr, next C.LLVMValueRef
	lt         *lifetime
}

func (it *funcIter) Item() Function {
	return wrapValue(it.curr, it.lt).(Function)
}

func (it *funcIter) Next() bool {
	it.lt.mustBeAlive()

	it.curr = it.next
	if it.curr != nil {
		it.next = C.LLVMGetNextFunction(it.curr)
	}

	return it.curr != nil
}

// Functions returns an iterator over the functions of the module.
func (m *Module) Functions() Iterator[Function] {
	m.lt.mustBeAlive()
	return &funcIter{next: C.LLVMGetFirstFunction(m.c), lt: m.lt}
}

// -----------------------------------------------------------------------------

// AddGlobal adds a new global variable of type typ to the module.
func (m *Module) AddGlobal(typ Type, name string) (GlobalVariable, error) {
	return m.AddGlobalInAddressSpace(typ, name, 0)
}

// AddGlobalInAddressSpace adds a new global variable of type typ in the
// address space addrSpace to the module.
func (m *Module) AddGlobalInAddressSpace(typ Type, name string, addrSpace int) (GlobalVariable, error) {
	const op = "Module.AddGlobal"

	if err := m.lt.check(op); err != nil {
		return GlobalVariable{}, err
	}

	if err := checkTypes(op, typ); err != nil {
		return GlobalVariable{}, err
	}

	if !typ.Sized() {
		return GlobalVariable{}, invalidArg(op, "global of unsized type %s", typ)
	}

	as, err := cuint(op, addrSpace)
	if err != nil {
		return GlobalVariable{}, err
	}

	gv := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMAddGlobalInAddressSpace(m.c, typ.ptr(), cname, as)
	})

	if gv == nil {
		return GlobalVariable{}, constructionFailed(op)
	}

	return wrapValue(gv, m.lt).(GlobalVariable), nil
}

// GetNamedGlobal looks up a global variable by name in the module.
func (m *Module) GetNamedGlobal(name string) (GlobalVariable, bool) {
	m.lt.mustBeAlive()

	gv := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMGetNamedGlobal(m.c, cname)
	})

	if gv == nil {
		return GlobalVariable{}, false
	}

	return Cast[GlobalVariable](wrapValue(gv, m.lt))
}

// globalIter is an iterator over the global variables of a module.
type globalIter struct {
	curr, next C.LLVMValueRef
	lt         *lifetime
}

func (it *globalIter) Item() GlobalVariable {
	return wrapValue(it.curr, it.lt).(GlobalVariable)
}

func (it *globalIter) Next() bool {
	it.lt.mustBeAlive()

	it.curr = it.next
	if it.curr != nil {
		it.next = C.LLVMGetNextGlobal(it.curr)
	}

	return it.curr != nil
}

// Globals returns an iterator over the global variables of the module.
func (m *Module) Globals() Iterator[GlobalVariable] {
	m.lt.mustBeAlive()
	return &globalIter{next: C.LLVMGetFirstGlobal(m.c), lt: m.lt}
}

// Aliases returns the global aliases of the module in order.
func (m *Module) Aliases() []GlobalAlias {
	m.lt.mustBeAlive()

	var aliases []GlobalAlias
	for ga := C.LLVMGetFirstGlobalAlias(m.c); ga != nil; ga = C.LLVMGetNextGlobalAlias(ga) {
		aliases = append(aliases, wrapValue(ga, m.lt).(GlobalAlias))
	}

	return aliases
}

// AddAlias adds a new alias named name for the aliasee of type valueType.
func (m *Module) AddAlias(valueType Type, addrSpace int, aliasee Constant, name string) (GlobalAlias, error) {
	const op = "Module.AddAlias"

	if err := m.lt.check(op); err != nil {
		return GlobalAlias{}, err
	}

	if err := checkTypes(op, valueType); err != nil {
		return GlobalAlias{}, err
	}

	if err := checkValues(op, aliasee); err != nil {
		return GlobalAlias{}, err
	}

	if !aliasee.Type().IsPointerTy() {
		return GlobalAlias{}, invalidArg(op, "aliasee must be a pointer, got %s", aliasee.Type())
	}

	as, err := cuint(op, addrSpace)
	if err != nil {
		return GlobalAlias{}, err
	}

	ga := withName(name, func(cname *C.char) C.LLVMValueRef {
		return C.LLVMAddAlias2(m.c, valueType.ptr(), as, aliasee.ptr(), cname)
	})

	if ga == nil {
		return GlobalAlias{}, constructionFailed(op)
	}

	return wrapValue(ga, m.lt).(GlobalAlias), nil
}
