package llvm

/*
#include <stdlib.h>

#include "llvm-c/Core.h"
*/
import "C"

import (
	"unsafe"
)

// Linkage represents an LLVM linkage.
type Linkage C.LLVMLinkage

// Enumeration of the different linkages.
const (
	ExternalLinkage            Linkage = C.LLVMExternalLinkage
	AvailableExternallyLinkage Linkage = C.LLVMAvailableExternallyLinkage
	LinkOnceAnyLinkage         Linkage = C.LLVMLinkOnceAnyLinkage
	LinkOnceODRLinkage         Linkage = C.LLVMLinkOnceODRLinkage
	WeakAnyLinkage             Linkage = C.LLVMWeakAnyLinkage
	WeakODRLinkage             Linkage = C.LLVMWeakODRLinkage
	AppendingLinkage           Linkage = C.LLVMAppendingLinkage
	InternalLinkage            Linkage = C.LLVMInternalLinkage
	PrivateLinkage             Linkage = C.LLVMPrivateLinkage
	ExternalWeakLinkage        Linkage = C.LLVMExternalWeakLinkage
	CommonLinkage              Linkage = C.LLVMCommonLinkage
)

// Visibility represents an LLVM global visibility.
type Visibility C.LLVMVisibility

// Enumeration of visibilities.
const (
	DefaultVisibility   Visibility = C.LLVMDefaultVisibility
	HiddenVisibility    Visibility = C.LLVMHiddenVisibility
	ProtectedVisibility Visibility = C.LLVMProtectedVisibility
)

// DLLStorageClass represents an LLVM DLL storage class.
type DLLStorageClass C.LLVMDLLStorageClass

// Enumeration of DLL storage classes.
const (
	DefaultStorageClass   DLLStorageClass = C.LLVMDefaultStorageClass
	DLLImportStorageClass DLLStorageClass = C.LLVMDLLImportStorageClass
	DLLExportStorageClass DLLStorageClass = C.LLVMDLLExportStorageClass
)

// UnnamedAddr represents whether the address of a global is significant.
type UnnamedAddr C.LLVMUnnamedAddr

// Enumeration of unnamed address kinds.
const (
	NoUnnamedAddr     UnnamedAddr = C.LLVMNoUnnamedAddr
	LocalUnnamedAddr  UnnamedAddr = C.LLVMLocalUnnamedAddr
	GlobalUnnamedAddr UnnamedAddr = C.LLVMGlobalUnnamedAddr
)

// ThreadLocalMode represents the thread local storage model of a global
// variable.
type ThreadLocalMode C.LLVMThreadLocalMode

// Enumeration of thread local modes.
const (
	NotThreadLocal         ThreadLocalMode = C.LLVMNotThreadLocal
	GeneralDynamicTLSModel ThreadLocalMode = C.LLVMGeneralDynamicTLSModel
	LocalDynamicTLSModel   ThreadLocalMode = C.LLVMLocalDynamicTLSModel
	InitialExecTLSModel    ThreadLocalMode = C.LLVMInitialExecTLSModel
	LocalExecTLSModel      ThreadLocalMode = C.LLVMLocalExecTLSModel
)

// -----------------------------------------------------------------------------

// GlobalValue represents a value whose address is fixed at link time:
// functions, global variables and aliases.
type GlobalValue interface {
	Constant

	Linkage() Linkage
	SetLinkage(linkage Linkage)
	Visibility() Visibility
	SetVisibility(vis Visibility)
	DLLStorageClass() DLLStorageClass
	SetDLLStorageClass(class DLLStorageClass)
	UnnamedAddr() UnnamedAddr
	SetUnnamedAddr(ua UnnamedAddr)

	// IsDeclaration returns whether the global value is only declared in its
	// module.
	IsDeclaration() bool

	// ValueType returns the type of the value the global refers to.
	ValueType() Type

	// Parent returns the module containing the global value.
	Parent() (*Module, bool)

	isGlobalValue()
}

type globalValueBase struct {
	constantBase
}

func (globalValueBase) isGlobalValue() {}

func (gv globalValueBase) Linkage() Linkage {
	gv.lt.mustBeAlive()
	return Linkage(C.LLVMGetLinkage(gv.c))
}

func (gv globalValueBase) SetLinkage(linkage Linkage) {
	gv.lt.mustBeAlive()
	C.LLVMSetLinkage(gv.c, C.LLVMLinkage(linkage))
}

func (gv globalValueBase) Visibility() Visibility {
	gv.lt.mustBeAlive()
	return Visibility(C.LLVMGetVisibility(gv.c))
}

func (gv globalValueBase) SetVisibility(vis Visibility) {
	gv.lt.mustBeAlive()
	C.LLVMSetVisibility(gv.c, C.LLVMVisibility(vis))
}

func (gv globalValueBase) DLLStorageClass() DLLStorageClass {
	gv.lt.mustBeAlive()
	return DLLStorageClass(C.LLVMGetDLLStorageClass(gv.c))
}

func (gv globalValueBase) SetDLLStorageClass(class DLLStorageClass) {
	gv.lt.mustBeAlive()
	C.LLVMSetDLLStorageClass(gv.c, C.LLVMDLLStorageClass(class))
}

func (gv globalValueBase) UnnamedAddr() UnnamedAddr {
	gv.lt.mustBeAlive()
	return UnnamedAddr(C.LLVMGetUnnamedAddress(gv.c))
}

func (gv globalValueBase) SetUnnamedAddr(ua UnnamedAddr) {
	gv.lt.mustBeAlive()
	C.LLVMSetUnnamedAddress(gv.c, C.LLVMUnnamedAddr(ua))
}

func (gv globalValueBase) IsDeclaration() bool {
	gv.lt.mustBeAlive()
	return fromBool(C.LLVMIsDeclaration(gv.c))
}

func (gv globalValueBase) ValueType() Type {
	gv.lt.mustBeAlive()
	return wrapType(C.LLVMGlobalGetValueType(gv.c), gv.lt.root())
}

func (gv globalValueBase) Parent() (*Module, bool) {
	gv.lt.mustBeAlive()
	return gv.Context().lookupModule(C.LLVMGetGlobalParent(gv.c))
}

// -----------------------------------------------------------------------------

// GlobalObject represents a global value which occupies storage: a function
// or a global variable.
type GlobalObject interface {
	GlobalValue

	Alignment() int
	SetAlignment(align int) error
	Section() string
	SetSection(section string)

	isGlobalObject()
}

type globalObjectBase struct {
	globalValueBase
}

func (globalObjectBase) isGlobalObject() {}

func (gob globalObjectBase) Alignment() int {
	gob.lt.mustBeAlive()
	return int(C.LLVMGetAlignment(gob.c))
}

func (gob globalObjectBase) SetAlignment(align int) error {
	return setAlignment("GlobalObject.SetAlignment", gob.valueBase, align)
}

func (gob globalObjectBase) Section() string {
	gob.lt.mustBeAlive()

	section := C.LLVMGetSection(gob.c)
	if section == nil {
		return ""
	}

	return C.GoString(section)
}

func (gob globalObjectBase) SetSection(section string) {
	gob.lt.mustBeAlive()

	csection := C.CString(section)
	defer C.free(unsafe.Pointer(csection))
	C.LLVMSetSection(gob.c, csection)
}

// setAlignment sets the alignment of a global object, alloca, load or store.
// The alignment must be zero or a power of two.
func setAlignment(op string, v valueBase, align int) error {
	if err := v.lt.check(op); err != nil {
		return err
	}

	if align < 0 || align&(align-1) != 0 {
		return invalidArg(op, "alignment %d is not a power of two", align)
	}

	calign, err := cuint(op, align)
	if err != nil {
		return err
	}

	C.LLVMSetAlignment(v.c, calign)
	return nil
}

// -----------------------------------------------------------------------------

// GlobalVariable represents an LLVM global variable.
type GlobalVariable struct {
	globalObjectBase
}

// Initializer returns the initializer of the global variable if it has one.
func (gv GlobalVariable) Initializer() (Constant, bool) {
	gv.lt.mustBeAlive()

	init := C.LLVMGetInitializer(gv.c)
	if init == nil {
		return nil, false
	}

	return wrapValue(init, gv.lt).(Constant), true
}

// SetInitializer sets the initializer of the global variable.  The type of the
// initializer must match the value type of the global.
func (gv GlobalVariable) SetInitializer(init Constant) error {
	const op = "GlobalVariable.SetInitializer"

	if err := checkValues(op, gv, init); err != nil {
		return err
	}

	if !SameType(init.Type(), gv.ValueType()) {
		return invalidArg(op, "initializer of type %s does not match global of type %s", init.Type(), gv.ValueType())
	}

	C.LLVMSetInitializer(gv.c, init.ptr())
	return nil
}

// IsGlobalConstant returns whether the global variable is marked constant.
func (gv GlobalVariable) IsGlobalConstant() bool {
	gv.lt.mustBeAlive()
	return fromBool(C.LLVMIsGlobalConstant(gv.c))
}

// SetGlobalConstant sets whether the global variable is marked constant.
func (gv GlobalVariable) SetGlobalConstant(isConst bool) {
	gv.lt.mustBeAlive()
	C.LLVMSetGlobalConstant(gv.c, llvmBool(isConst))
}

// ThreadLocalMode returns the thread local storage model of the global.
func (gv GlobalVariable) ThreadLocalMode() ThreadLocalMode {
	gv.lt.mustBeAlive()
	return ThreadLocalMode(C.LLVMGetThreadLocalMode(gv.c))
}

// SetThreadLocalMode sets the thread local storage model of the global.
func (gv GlobalVariable) SetThreadLocalMode(mode ThreadLocalMode) {
	gv.lt.mustBeAlive()
	C.LLVMSetThreadLocalMode(gv.c, C.LLVMThreadLocalMode(mode))
}

// IsExternallyInitialized returns whether the global may be initialized
// outside of the program.
func (gv GlobalVariable) IsExternallyInitialized() bool {
	gv.lt.mustBeAlive()
	return fromBool(C.LLVMIsExternallyInitialized(gv.c))
}

// SetExternallyInitialized sets whether the global may be initialized outside
// of the program.
func (gv GlobalVariable) SetExternallyInitialized(extInit bool) {
	gv.lt.mustBeAlive()
	C.LLVMSetExternallyInitialized(gv.c, llvmBool(extInit))
}

// EraseFromParent deletes the global variable from its module.  The global
// must have no uses.
func (gv GlobalVariable) EraseFromParent() error {
	const op = "GlobalVariable.EraseFromParent"

	if err := gv.lt.check(op); err != nil {
		return err
	}

	if n := gv.NumUses(); n > 0 {
		return invalidArg(op, "global @%s still has %d uses", gv.Name(), n)
	}

	C.LLVMDeleteGlobal(gv.c)
	return nil
}

// -----------------------------------------------------------------------------

// GlobalAlias represents an LLVM global alias or indirect function.
type GlobalAlias struct {
	globalValueBase
}

// Aliasee returns the value the alias refers to.
func (ga GlobalAlias) Aliasee() Constant {
	ga.lt.mustBeAlive()

	if ga.Kind() == GlobalIFuncValueKind {
		return wrapValue(C.LLVMGetGlobalIFuncResolver(ga.c), ga.lt).(Constant)
	}

	return wrapValue(C.LLVMAliasGetAliasee(ga.c), ga.lt).(Constant)
}
