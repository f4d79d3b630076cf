package llvm

/*
#include <stdlib.h>

#include "llvm-c/Core.h"
#include "llvm-c/Target.h"
#include "llvm-c/TargetMachine.h"

static void irkit_initialize_all_targets(void) {
	LLVMInitializeAllTargetInfos();
	LLVMInitializeAllTargets();
	LLVMInitializeAllTargetMCs();
	LLVMInitializeAllAsmPrinters();
	LLVMInitializeAllAsmParsers();
}

static LLVMBool irkit_initialize_native_target(void) {
	if (LLVMInitializeNativeTarget())
		return 1;

	return LLVMInitializeNativeAsmPrinter();
}
*/
import "C"

import (
	"errors"
	"sync"
	"unsafe"
)

// ByteOrdering represents an LLVM byte ordering.
type ByteOrdering C.enum_LLVMByteOrdering

// Enumeration of LLVM byte orderings.
const (
	BigEndian    ByteOrdering = C.LLVMBigEndian
	LittleEndian ByteOrdering = C.LLVMLittleEndian
)

func (bo ByteOrdering) String() string {
	if bo == BigEndian {
		return "big-endian"
	}

	return "little-endian"
}

// CodeGenOptLevel represents an LLVM code generation optimization level.
type CodeGenOptLevel C.LLVMCodeGenOptLevel

// Enumeration of LLVM codegen optimization levels.
const (
	CodeGenLevelNone       CodeGenOptLevel = C.LLVMCodeGenLevelNone
	CodeGenLevelLess       CodeGenOptLevel = C.LLVMCodeGenLevelLess
	CodeGenLevelDefault    CodeGenOptLevel = C.LLVMCodeGenLevelDefault
	CodeGenLevelAggressive CodeGenOptLevel = C.LLVMCodeGenLevelAggressive
)

// CodeModel represents an LLVM code model.
type CodeModel C.LLVMCodeModel

// Enumeration of LLVM code models.
const (
	CodeModelDefault    CodeModel = C.LLVMCodeModelDefault
	CodeModelJITDefault CodeModel = C.LLVMCodeModelJITDefault
	CodeModelTiny       CodeModel = C.LLVMCodeModelTiny
	CodeModelSmall      CodeModel = C.LLVMCodeModelSmall
	CodeModelKernel     CodeModel = C.LLVMCodeModelKernel
	CodeModelMedium     CodeModel = C.LLVMCodeModelMedium
	CodeModelLarge      CodeModel = C.LLVMCodeModelLarge
)

// RelocMode represents an LLVM relocation mode.
type RelocMode C.LLVMRelocMode

// Enumeration of LLVM relocation modes.
const (
	RelocDefault      RelocMode = C.LLVMRelocDefault
	RelocStatic       RelocMode = C.LLVMRelocStatic
	RelocPIC          RelocMode = C.LLVMRelocPIC
	RelocDynamicNoPic RelocMode = C.LLVMRelocDynamicNoPic
	RelocROPI         RelocMode = C.LLVMRelocROPI
	RelocRWPI         RelocMode = C.LLVMRelocRWPI
	RelocROPI_RWPI    RelocMode = C.LLVMRelocROPI_RWPI
)

// CodeGenFileType represents a possible code generation output type.
type CodeGenFileType C.LLVMCodeGenFileType

// Enumeration of LLVM codegen file types.
const (
	AssemblyFile CodeGenFileType = C.LLVMAssemblyFile
	ObjectFile   CodeGenFileType = C.LLVMObjectFile
)

// -----------------------------------------------------------------------------

var (
	allTargetsOnce sync.Once

	nativeTargetOnce sync.Once
	nativeTargetErr  error
)

// InitializeAllTargets initializes every target LLVM was configured to
// support along with its MC layer, assembly printer and assembly parser.  It
// may be called any number of times.
func InitializeAllTargets() {
	allTargetsOnce.Do(func() {
		C.irkit_initialize_all_targets()
	})
}

// InitializeNativeTarget initializes the target of the host machine and its
// assembly printer.  It may be called any number of times: every call returns
// the result of the first.
func InitializeNativeTarget() error {
	nativeTargetOnce.Do(func() {
		if fromBool(C.irkit_initialize_native_target()) {
			nativeTargetErr = &OpError{
				Op:  "InitializeNativeTarget",
				Err: errors.New("the host target is not compiled into LLVM"),
			}
		}
	})

	return nativeTargetErr
}

// -----------------------------------------------------------------------------

// HostTriple returns the target triple of the host system.
func HostTriple() string {
	return messageString(C.LLVMGetDefaultTargetTriple())
}

// NormalizeTriple returns the canonical form of a target triple.
func NormalizeTriple(triple string) string {
	ctriple := C.CString(triple)
	defer C.free(unsafe.Pointer(ctriple))

	return messageString(C.LLVMNormalizeTargetTriple(ctriple))
}

// HostCPUName returns the name of the host CPU.
func HostCPUName() string {
	return messageString(C.LLVMGetHostCPUName())
}

// HostCPUFeatures returns the feature string of the host CPU.
func HostCPUFeatures() string {
	return messageString(C.LLVMGetHostCPUFeatures())
}

// Target represents an LLVM output target.  Targets are registered globally by
// the initialization functions and live for the duration of the process.
type Target struct {
	c C.LLVMTargetRef
}

// TargetFromName finds the target corresponding to name, eg. `x86-64`.
func TargetFromName(name string) (Target, bool) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	t := C.LLVMGetTargetFromName(cname)
	if t == nil {
		return Target{}, false
	}

	return Target{c: t}, true
}

// TargetFromTriple finds the target corresponding to triple.
func TargetFromTriple(triple string) (Target, error) {
	const op = "TargetFromTriple"

	ctriple := C.CString(triple)
	defer C.free(unsafe.Pointer(ctriple))

	var t C.LLVMTargetRef
	var errMsg *C.char
	if fromBool(C.LLVMGetTargetFromTriple(ctriple, byref(&t), byref(&errMsg))) {
		return Target{}, llvmError(op, messageString(errMsg))
	}

	if t == nil {
		return Target{}, constructionFailed(op)
	}

	return Target{c: t}, nil
}

// Targets returns every registered target.
func Targets() []Target {
	var targets []Target
	for t := C.LLVMGetFirstTarget(); t != nil; t = C.LLVMGetNextTarget(t) {
		targets = append(targets, Target{c: t})
	}

	return targets
}

// Name returns the name of the target.
func (t Target) Name() string {
	return C.GoString(C.LLVMGetTargetName(t.c))
}

// Description returns the description of the target.
func (t Target) Description() string {
	return C.GoString(C.LLVMGetTargetDescription(t.c))
}

// HasJIT returns if the target has a JIT.
func (t Target) HasJIT() bool {
	return fromBool(C.LLVMTargetHasJIT(t.c))
}

// HasMachine returns if the target has a machine.
func (t Target) HasMachine() bool {
	return fromBool(C.LLVMTargetHasTargetMachine(t.c))
}

// HasASMBackend returns if the target has an ASM backend.
func (t Target) HasASMBackend() bool {
	return fromBool(C.LLVMTargetHasAsmBackend(t.c))
}

// -----------------------------------------------------------------------------

// TargetMachine represents an LLVM target machine: used to generate output.
// Target machines are owned by the context they were created in.
type TargetMachine struct {
	c   C.LLVMTargetMachineRef
	ctx *Context
	lt  *lifetime
}

// MachineOptions are the code generation options of a target machine.
type MachineOptions struct {
	CPU      string
	Features string
	OptLevel CodeGenOptLevel
	Reloc    RelocMode
	Model    CodeModel
}

// NewTargetMachine creates a new target machine for target generating code for
// triple.
func (c *Context) NewTargetMachine(target Target, triple string, opts MachineOptions) (*TargetMachine, error) {
	const op = "Context.NewTargetMachine"

	if err := c.lt.check(op); err != nil {
		return nil, err
	}

	if target.c == nil {
		return nil, invalidArg(op, "target is nil")
	}

	if !target.HasMachine() {
		return nil, invalidArg(op, "target %s can not create a machine", target.Name())
	}

	ctriple := C.CString(triple)
	defer C.free(unsafe.Pointer(ctriple))

	ccpu := C.CString(opts.CPU)
	defer C.free(unsafe.Pointer(ccpu))

	cfeatures := C.CString(opts.Features)
	defer C.free(unsafe.Pointer(cfeatures))

	tmref := C.LLVMCreateTargetMachine(
		target.c,
		ctriple,
		ccpu,
		cfeatures,
		(C.LLVMCodeGenOptLevel)(opts.OptLevel),
		(C.LLVMRelocMode)(opts.Reloc),
		(C.LLVMCodeModel)(opts.Model),
	)

	if tmref == nil {
		return nil, constructionFailed(op)
	}

	tm := &TargetMachine{c: tmref, ctx: c, lt: newLifetime(c.lt, "target machine for "+triple)}
	c.takeOwnership(tm)
	return tm, nil
}

// NewHostMachine creates a new target machine for the host system.  The CPU
// and features of the options are replaced with those of the host.  The
// native target must be initialized.
func (c *Context) NewHostMachine(opts MachineOptions) (*TargetMachine, error) {
	triple := HostTriple()

	target, err := TargetFromTriple(triple)
	if err != nil {
		return nil, err
	}

	opts.CPU = HostCPUName()
	opts.Features = HostCPUFeatures()
	return c.NewTargetMachine(target, triple, opts)
}

// dispose disposes of target machine.
func (tm *TargetMachine) dispose() {
	if tm.lt.dead {
		return
	}

	C.LLVMDisposeTargetMachine(tm.c)
	tm.lt.end()
}

// Target returns the target associated with the target machine.
func (tm *TargetMachine) Target() Target {
	tm.lt.mustBeAlive()
	return Target{c: C.LLVMGetTargetMachineTarget(tm.c)}
}

// Triple returns the target triple of the target machine.
func (tm *TargetMachine) Triple() string {
	tm.lt.mustBeAlive()
	return messageString(C.LLVMGetTargetMachineTriple(tm.c))
}

// CPU returns the CPU of the target machine.
func (tm *TargetMachine) CPU() string {
	tm.lt.mustBeAlive()
	return messageString(C.LLVMGetTargetMachineCPU(tm.c))
}

// Features returns the feature string of the target machine.
func (tm *TargetMachine) Features() string {
	tm.lt.mustBeAlive()
	return messageString(C.LLVMGetTargetMachineFeatureString(tm.c))
}

// SetASMVerbosity sets the ASM verbosity of the target machine.
func (tm *TargetMachine) SetASMVerbosity(verbose bool) {
	tm.lt.mustBeAlive()
	C.LLVMSetTargetMachineAsmVerbosity(tm.c, llvmBool(verbose))
}

// DataLayout creates the target data layout of the target machine.  The layout
// is owned by the context of the machine.
func (tm *TargetMachine) DataLayout() (*TargetData, error) {
	const op = "TargetMachine.DataLayout"

	if err := tm.lt.check(op); err != nil {
		return nil, err
	}

	tdref := C.LLVMCreateTargetDataLayout(tm.c)
	if tdref == nil {
		return nil, constructionFailed(op)
	}

	td := &TargetData{c: tdref, lt: newLifetime(tm.ctx.lt, "target data"), owned: true}
	tm.ctx.takeOwnership(td)
	return td, nil
}

// ConfigureModule sets the target triple and data layout of m to match the
// target machine.
func (tm *TargetMachine) ConfigureModule(m *Module) error {
	const op = "TargetMachine.ConfigureModule"

	if err := tm.lt.check(op); err != nil {
		return err
	}

	if err := m.lt.check(op); err != nil {
		return err
	}

	td, err := tm.DataLayout()
	if err != nil {
		return err
	}

	m.SetTargetTriple(tm.Triple())
	m.SetDataLayout(td.String())
	return nil
}

func (tm *TargetMachine) checkEmit(op string, m *Module, fileType CodeGenFileType) error {
	if err := tm.lt.check(op); err != nil {
		return err
	}

	if err := m.lt.check(op); err != nil {
		return err
	}

	if fileType != AssemblyFile && fileType != ObjectFile {
		return invalidArg(op, "unknown output file type %d", int(fileType))
	}

	return nil
}

// EmitToFile compiles m to fileType and writes the output to path.
func (tm *TargetMachine) EmitToFile(m *Module, path string, fileType CodeGenFileType) error {
	const op = "TargetMachine.EmitToFile"

	if err := tm.checkEmit(op, m, fileType); err != nil {
		return err
	}

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	var errMsg *C.char
	if fromBool(C.LLVMTargetMachineEmitToFile(tm.c, m.c, cpath, (C.LLVMCodeGenFileType)(fileType), byref(&errMsg))) {
		return llvmError(op, messageString(errMsg))
	}

	return nil
}

// EmitToMemoryBuffer compiles m to fileType and returns the output in a new
// memory buffer.
func (tm *TargetMachine) EmitToMemoryBuffer(m *Module, fileType CodeGenFileType) (*MemoryBuffer, error) {
	const op = "TargetMachine.EmitToMemoryBuffer"

	if err := tm.checkEmit(op, m, fileType); err != nil {
		return nil, err
	}

	var buf C.LLVMMemoryBufferRef
	var errMsg *C.char
	if fromBool(C.LLVMTargetMachineEmitToMemoryBuffer(tm.c, m.c, (C.LLVMCodeGenFileType)(fileType), byref(&errMsg), byref(&buf))) {
		return nil, llvmError(op, messageString(errMsg))
	}

	if buf == nil {
		return nil, constructionFailed(op)
	}

	return newMemoryBuffer(buf), nil
}

// -----------------------------------------------------------------------------

// TargetData represents an LLVM target data layout.
type TargetData struct {
	c  C.LLVMTargetDataRef
	lt *lifetime

	// Whether the layout must be disposed.  Layouts borrowed from a module are
	// disposed along with it.
	owned bool
}

// NewTargetData creates a new target data from the data layout string layout.
func (c *Context) NewTargetData(layout string) (*TargetData, error) {
	const op = "Context.NewTargetData"

	if err := c.lt.check(op); err != nil {
		return nil, err
	}

	clayout := C.CString(layout)
	defer C.free(unsafe.Pointer(clayout))

	tdref := C.LLVMCreateTargetData(clayout)
	if tdref == nil {
		return nil, constructionFailed(op)
	}

	td := &TargetData{c: tdref, lt: newLifetime(c.lt, "target data"), owned: true}
	c.takeOwnership(td)
	return td, nil
}

// TargetData returns the target data layout of a module.
func (m *Module) TargetData() *TargetData {
	m.lt.mustBeAlive()
	return &TargetData{c: C.LLVMGetModuleDataLayout(m.c), lt: m.lt}
}

// dispose disposes of the target data.
func (td *TargetData) dispose() {
	if !td.owned || td.lt.dead {
		return
	}

	C.LLVMDisposeTargetData(td.c)
	td.lt.end()
}

// String returns the data layout string of the target data.
func (td *TargetData) String() string {
	td.lt.mustBeAlive()
	return messageString(C.LLVMCopyStringRepOfTargetData(td.c))
}

// ByteOrder returns the byte ordering from the target data.
func (td *TargetData) ByteOrder() ByteOrdering {
	td.lt.mustBeAlive()
	return ByteOrdering(C.LLVMByteOrder(td.c))
}

// PointerSize returns the pointer size in bytes from the target data.
func (td *TargetData) PointerSize() int {
	td.lt.mustBeAlive()
	return int(C.LLVMPointerSize(td.c))
}

// IntPtrType returns the integer type with the width of a pointer on the
// target.
func (c *Context) IntPtrType(td *TargetData) IntegerType {
	c.lt.mustBeAlive()
	td.lt.mustBeAlive()

	return IntegerType{typeBase{c: C.LLVMIntPtrTypeInContext(c.c, td.c), lt: c.lt}}
}

// sizedQuery checks that typ can be laid out by the target data.
func (td *TargetData) sizedQuery(op string, typ Type) error {
	if err := td.lt.check(op); err != nil {
		return err
	}

	if err := checkTypes(op, typ); err != nil {
		return err
	}

	if !typ.Sized() {
		return invalidArg(op, "type %s has no size", typ)
	}

	return nil
}

// BitSizeOf returns the size of typ in bits on the target.
func (td *TargetData) BitSizeOf(typ Type) (uint64, error) {
	if err := td.sizedQuery("TargetData.BitSizeOf", typ); err != nil {
		return 0, err
	}

	return uint64(C.LLVMSizeOfTypeInBits(td.c, typ.ptr())), nil
}

// StoreSizeOf returns the storage size of typ in bytes on the target: the
// maximum number of bytes that may be overwritten by storing typ.
func (td *TargetData) StoreSizeOf(typ Type) (uint64, error) {
	if err := td.sizedQuery("TargetData.StoreSizeOf", typ); err != nil {
		return 0, err
	}

	return uint64(C.LLVMStoreSizeOfType(td.c, typ.ptr())), nil
}

// ABISizeOf returns the ABI size of typ in bytes on the target: the offset
// in bytes between successive objects of the typ, including alignment padding.
func (td *TargetData) ABISizeOf(typ Type) (uint64, error) {
	if err := td.sizedQuery("TargetData.ABISizeOf", typ); err != nil {
		return 0, err
	}

	return uint64(C.LLVMABISizeOfType(td.c, typ.ptr())), nil
}

// ABIAlignOf returns the minimum ABI-required alignment of typ on the target.
func (td *TargetData) ABIAlignOf(typ Type) (int, error) {
	if err := td.sizedQuery("TargetData.ABIAlignOf", typ); err != nil {
		return 0, err
	}

	return int(C.LLVMABIAlignmentOfType(td.c, typ.ptr())), nil
}

// PreferredAlignOf returns the preferred alignment of typ on the target.
func (td *TargetData) PreferredAlignOf(typ Type) (int, error) {
	if err := td.sizedQuery("TargetData.PreferredAlignOf", typ); err != nil {
		return 0, err
	}

	return int(C.LLVMPreferredAlignmentOfType(td.c, typ.ptr())), nil
}

// ElementOffset returns the offset in bytes of the element ndx of st.
func (td *TargetData) ElementOffset(st StructType, ndx int) (uint64, error) {
	const op = "TargetData.ElementOffset"

	if err := td.sizedQuery(op, st); err != nil {
		return 0, err
	}

	if n := st.NumElements(); ndx < 0 || ndx >= n {
		return 0, invalidArg(op, "element index %d out of range for %d elements", ndx, n)
	}

	return uint64(C.LLVMOffsetOfElement(td.c, st.c, mustCuint(ndx))), nil
}
