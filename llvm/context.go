package llvm

/*
#include "llvm-c/Core.h"
*/
import "C"

import (
	"sync"
	"unsafe"
)

// ownedObject represents an LLVM object that is disposed along with the
// context that owns it.
type ownedObject interface {
	// dispose frees all the resources associated with the LLVM object.  It is
	// a no-op if the object has already been disposed.
	dispose()
}

// Context represents an LLVM context: the root scope owning type uniquing and
// allocation for a family of IR objects.
type Context struct {
	c C.LLVMContextRef

	// The lifetime at the root of the ownership tree of this context.
	lt *lifetime

	// Whether this is the process-wide global context.
	global bool

	// The list of LLVM objects owned by this context.
	ownedObjects []ownedObject

	// The modules created in this context by their LLVM reference.  This is
	// used to resolve the parent module of a global value.
	modules map[C.LLVMModuleRef]*Module

	// erasures counts the instructions, blocks and functions erased through
	// this context.  Saved insertion points record it.
	erasures uint64
}

// NewContext creates a new LLVM context.
func NewContext() *Context {
	return newContext(C.LLVMContextCreate(), false)
}

func newContext(c C.LLVMContextRef, global bool) *Context {
	ctx := &Context{
		c:       c,
		global:  global,
		modules: make(map[C.LLVMModuleRef]*Module),
	}

	ctx.lt = newLifetime(nil, "context")
	ctx.lt.ctx = ctx
	return ctx
}

var (
	globalCtx     *Context
	globalCtxOnce sync.Once
)

// GlobalContext returns the process-wide global LLVM context.  The global
// context lives for the duration of the process and can not be disposed.
func GlobalContext() *Context {
	globalCtxOnce.Do(func() {
		globalCtx = newContext(C.LLVMGetGlobalContext(), true)
	})

	return globalCtx
}

// Handle returns the raw identity of the context.
func (c *Context) Handle() uintptr {
	return uintptr(unsafe.Pointer(c.c))
}

// IsGlobal returns whether this is the global context.
func (c *Context) IsGlobal() bool {
	return c.global
}

// IsDisposed returns whether the context has been disposed.
func (c *Context) IsDisposed() bool {
	return !c.lt.alive()
}

// takeOwnership marks the given disposable LLVM object as being owned by this
// context: this context is responsible for its disposal.
func (c *Context) takeOwnership(obj ownedObject) {
	c.ownedObjects = append(c.ownedObjects, obj)
}

// Dispose frees all the resources associated with this context: the context
// itself and all the owned resources of this context.  Every handle obtained
// through the context is invalid after this call.  Disposing a context twice
// is a no-op.
func (c *Context) Dispose() error {
	if c.global {
		return invalidArg("Context.Dispose", "the global context can not be disposed")
	}

	if c.lt.dead {
		return nil
	}

	for _, obj := range c.ownedObjects {
		obj.dispose()
	}

	// Modules must be disposed before their context.
	for _, m := range c.modules {
		m.dispose()
	}

	c.ownedObjects = nil
	c.modules = nil

	C.LLVMContextDispose(c.c)
	c.lt.end()
	return nil
}

// SetDiscardValueNames sets whether the context discards the names of values
// which are not global values.
func (c *Context) SetDiscardValueNames(discard bool) {
	c.lt.mustBeAlive()
	C.LLVMContextSetDiscardValueNames(c.c, llvmBool(discard))
}

// DiscardsValueNames returns whether the context discards value names.
func (c *Context) DiscardsValueNames() bool {
	c.lt.mustBeAlive()
	return fromBool(C.LLVMContextShouldDiscardValueNames(c.c))
}

// lookupModule returns the module whose LLVM reference is mref if it was
// created in this context.
func (c *Context) lookupModule(mref C.LLVMModuleRef) (*Module, bool) {
	if c == nil || c.modules == nil {
		return nil, false
	}

	m, ok := c.modules[mref]
	return m, ok
}

// forgetPositions unpositions every builder of the context whose insertion
// point matches.  It must be called before the erasure it announces, while
// the insertion points still refer to live objects.
func (c *Context) forgetPositions(match func(ip InsertPoint) bool) {
	if c == nil {
		return
	}

	c.erasures++

	for _, obj := range c.ownedObjects {
		b, ok := obj.(*Builder)
		if !ok || !b.IsPositioned() {
			continue
		}

		if match(b.ip) {
			C.LLVMClearInsertionPosition(b.c)
			b.ip = InsertPoint{}
		}
	}
}

// hasPosition returns whether the block of ip is still in a function of a
// module of the context and, unless ip is at the end of its block, whether its
// instruction is still in that block.  It only reads objects reachable from
// live modules.
func (c *Context) hasPosition(ip InsertPoint) bool {
	for mref := range c.modules {
		for fn := C.LLVMGetFirstFunction(mref); fn != nil; fn = C.LLVMGetNextFunction(fn) {
			for bb := C.LLVMGetFirstBasicBlock(fn); bb != nil; bb = C.LLVMGetNextBasicBlock(bb) {
				if bb != ip.block.c {
					continue
				}

				if ip.before == nil {
					return true
				}

				for i := C.LLVMGetFirstInstruction(bb); i != nil; i = C.LLVMGetNextInstruction(i) {
					if i == ip.before {
						return true
					}
				}

				return false
			}
		}
	}

	return false
}
