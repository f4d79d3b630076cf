package llvm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// hostMachine initializes the native target and creates a machine for the
// host, skipping the test if LLVM was built without the host target.
func hostMachine(t *testing.T, ctx *Context) *TargetMachine {
	t.Helper()

	if err := InitializeNativeTarget(); err != nil {
		t.Skipf("native target unavailable: %v", err)
	}

	tm, err := ctx.NewHostMachine(MachineOptions{
		OptLevel: CodeGenLevelNone,
		Reloc:    RelocPIC,
		Model:    CodeModelDefault,
	})
	require.NoError(t, err)
	return tm
}

func TestInitializeIsIdempotent(t *testing.T) {
	first := InitializeNativeTarget()
	require.Equal(t, first, InitializeNativeTarget())

	InitializeAllTargets()
	InitializeAllTargets()
	require.NotEmpty(t, Targets())
}

func TestHostTriple(t *testing.T) {
	triple := HostTriple()
	require.NotEmpty(t, triple)
	require.Equal(t, triple, NormalizeTriple(triple))
}

func TestTargetData(t *testing.T) {
	env := newTestEnv(t)

	td, err := env.ctx.NewTargetData("e-p:64:64-i64:64-S128")
	require.NoError(t, err)
	require.Equal(t, LittleEndian, td.ByteOrder())
	require.Equal(t, 8, td.PointerSize())
	require.Equal(t, 64, env.ctx.IntPtrType(td).BitWidth())

	st, err := env.ctx.StructType([]Type{env.ctx.Int8Type(), env.ctx.Int64Type()}, false)
	require.NoError(t, err)

	size, err := td.ABISizeOf(st)
	require.NoError(t, err)
	require.Equal(t, uint64(16), size)

	off, err := td.ElementOffset(st, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(8), off)

	_, err = td.ElementOffset(st, 2)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = td.ABISizeOf(env.ctx.VoidType())
	require.ErrorIs(t, err, ErrInvalidArgument)

	align, err := td.ABIAlignOf(env.ctx.Int64Type())
	require.NoError(t, err)
	require.Equal(t, 8, align)
}

func TestEmitObject(t *testing.T) {
	env := newTestEnv(t)
	tm := hostMachine(t, env.ctx)

	mod, err := env.ctx.ParseIRString(squareIR, "square.ll")
	require.NoError(t, err)
	require.NoError(t, tm.ConfigureModule(mod))
	require.Equal(t, tm.Triple(), mod.TargetTriple())

	obj, err := tm.EmitToMemoryBuffer(mod, ObjectFile)
	require.NoError(t, err)
	defer obj.Dispose()
	require.Greater(t, obj.Len(), 0)

	asm, err := tm.EmitToMemoryBuffer(mod, AssemblyFile)
	require.NoError(t, err)
	defer asm.Dispose()
	require.Contains(t, string(asm.Bytes()), "square")

	require.NoError(t, env.ctx.Dispose())
	_, err = tm.EmitToMemoryBuffer(mod, ObjectFile)
	require.ErrorIs(t, err, ErrDisposed)
}
