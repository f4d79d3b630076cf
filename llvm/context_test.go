package llvm

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const squareIR = `
define i32 @square(i32 %x) {
entry:
  %r = mul i32 %x, %x
  ret i32 %r
}
`

func TestStaleHandlesAfterContextDispose(t *testing.T) {
	ctx := NewContext()

	mod, err := ctx.NewModule("m")
	require.NoError(t, err)

	i32 := ctx.Int32Type()
	ft, err := ctx.FunctionType(i32, []Type{i32}, false)
	require.NoError(t, err)

	fn, err := mod.AddFunction("f", ft)
	require.NoError(t, err)

	b, err := ctx.NewBuilder()
	require.NoError(t, err)

	require.NoError(t, ctx.Dispose())
	require.True(t, ctx.IsDisposed())
	require.True(t, mod.IsDisposed())

	// Disposing twice is a no-op.
	require.NoError(t, ctx.Dispose())

	_, err = ctx.NewModule("again")
	require.ErrorIs(t, err, ErrDisposed)

	_, err = mod.AddFunction("g", ft)
	require.ErrorIs(t, err, ErrDisposed)

	_, err = b.CreateRetVoid()
	require.ErrorIs(t, err, ErrDisposed)

	_, err = ConstInt(i32, 1, false)
	require.ErrorIs(t, err, ErrDisposed)

	var opErr *OpError
	require.True(t, errors.As(err, &opErr))
	require.Equal(t, "ConstInt", opErr.Op)

	require.Panics(t, func() { _ = fn.Name() })
	require.Panics(t, func() { _ = i32.BitWidth() })
	require.Panics(t, func() { _ = mod.String() })

	require.Panics(t, func() { Cast[Function](fn) })
}

func TestStaleHandlesAfterModuleDispose(t *testing.T) {
	env := newTestEnv(t)

	i32 := env.ctx.Int32Type()
	fn := env.function("f", i32, []Type{i32})
	x := fn.Params()[0]

	env.mod.Dispose()
	env.mod.Dispose()
	require.True(t, env.mod.IsDisposed())

	// Types belong to the context and outlive the module.
	require.Equal(t, 32, i32.BitWidth())
	require.False(t, env.ctx.IsDisposed())

	_, err := env.b.CreateRet(x)
	require.ErrorIs(t, err, ErrDisposed)
	require.Contains(t, err.Error(), `module "test"`)

	require.Panics(t, func() { _ = x.Name() })

	_, err = env.mod.Clone()
	require.ErrorIs(t, err, ErrDisposed)
}

func TestGlobalContext(t *testing.T) {
	g := GlobalContext()
	require.Same(t, g, GlobalContext())
	require.True(t, g.IsGlobal())

	err := g.Dispose()
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.False(t, g.IsDisposed())

	mod, err := g.NewModule("global")
	require.NoError(t, err)
	defer mod.Dispose()

	require.True(t, SameType(g.Int8Type(), g.Int8Type()))
}

func TestParseAndVerify(t *testing.T) {
	env := newTestEnv(t)

	mod, err := env.ctx.ParseIRString(squareIR, "square.ll")
	require.NoError(t, err)
	require.NoError(t, mod.Verify())

	fn, ok := mod.GetFunction("square")
	require.True(t, ok)
	require.Equal(t, 1, fn.NumBasicBlocks())

	entry, ok := fn.EntryBlock()
	require.True(t, ok)
	require.True(t, entry.IsWellFormed())

	parent, ok := fn.Parent()
	require.True(t, ok)
	require.Same(t, mod, parent)

	_, err = env.ctx.ParseIRString("define i32 @broken( {", "broken.ll")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Context.ParseIR")
}

func TestVerifyReportsBrokenModule(t *testing.T) {
	env := newTestEnv(t)

	i32 := env.ctx.Int32Type()
	fn := env.function("open", i32, nil)

	// The entry block has no terminator.
	err := env.mod.Verify()
	require.Error(t, err)
	require.Error(t, fn.Verify())
}

func TestLinkConsumesSource(t *testing.T) {
	env := newTestEnv(t)

	src, err := env.ctx.ParseIRString(squareIR, "square.ll")
	require.NoError(t, err)

	require.ErrorIs(t, env.mod.Link(env.mod), ErrInvalidArgument)

	require.NoError(t, env.mod.Link(src))
	require.True(t, src.IsDisposed())

	_, ok := env.mod.GetFunction("square")
	require.True(t, ok)

	err = env.mod.Link(src)
	require.ErrorIs(t, err, ErrDisposed)

	other := NewContext()
	defer other.Dispose()

	foreign, err := other.NewModule("foreign")
	require.NoError(t, err)

	err = env.mod.Link(foreign)
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.False(t, foreign.IsDisposed())
}

func TestCloneAndBitcodeRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	mod, err := env.ctx.ParseIRString(squareIR, "square.ll")
	require.NoError(t, err)
	mod.SetSourceFileName("square.ll")

	clone, err := mod.Clone()
	require.NoError(t, err)
	require.NotEqual(t, mod.Handle(), clone.Handle())
	require.Equal(t, mod.String(), clone.String())

	clone.Dispose()
	require.False(t, mod.IsDisposed())

	buf, err := mod.WriteBitcodeToMemoryBuffer()
	require.NoError(t, err)
	defer buf.Dispose()
	require.Greater(t, buf.Len(), 0)

	decoded, err := env.ctx.ParseBitcode(buf)
	require.NoError(t, err)
	require.NoError(t, decoded.Verify())

	_, ok := decoded.GetFunction("square")
	require.True(t, ok)

	dir := t.TempDir()

	llPath := filepath.Join(dir, "square.ll")
	require.NoError(t, mod.WriteToFile(llPath))

	bcPath := filepath.Join(dir, "square.bc")
	require.NoError(t, mod.WriteBitcodeToFile(bcPath))

	for _, path := range []string{llPath, bcPath} {
		reloaded, err := env.ctx.ParseIRFile(path)
		require.NoError(t, err, path)
		require.Equal(t, "square.ll", reloaded.SourceFileName())
	}

	_, err = env.ctx.ParseIRFile(filepath.Join(dir, "missing.ll"))
	require.Error(t, err)
}

func TestModuleMetadata(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, "test", env.mod.Name())

	env.mod.SetName("renamed")
	require.Equal(t, "renamed", env.mod.Name())

	env.mod.SetTargetTriple("x86_64-unknown-linux-gnu")
	require.Equal(t, "x86_64-unknown-linux-gnu", env.mod.TargetTriple())

	env.mod.SetDataLayout("e-m:e-i64:64-n8:16:32:64-S128")
	require.Equal(t, "e-m:e-i64:64-n8:16:32:64-S128", env.mod.DataLayout())
}

func TestMemoryBufferLifetime(t *testing.T) {
	env := newTestEnv(t)

	buf, err := NewMemoryBufferFromBytes([]byte(squareIR), "square.ll")
	require.NoError(t, err)
	require.Equal(t, []byte(squareIR), buf.Bytes())

	_, err = env.ctx.ParseIR(buf)
	require.NoError(t, err)

	// The parse consumed the buffer.
	_, err = env.ctx.ParseIR(buf)
	require.ErrorIs(t, err, ErrDisposed)
	require.Panics(t, func() { buf.Len() })
	buf.Dispose()

	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))

	fbuf, err := NewMemoryBufferFromFile(path)
	require.NoError(t, err)
	require.Equal(t, 3, fbuf.Len())
	fbuf.Dispose()
	fbuf.Dispose()
}

func TestAliases(t *testing.T) {
	env := newTestEnv(t)

	i32 := env.ctx.Int32Type()
	gv, err := env.mod.AddGlobal(i32, "target")
	require.NoError(t, err)
	require.NoError(t, gv.SetInitializer(env.constInt(i32, 1)))

	alias, err := env.mod.AddAlias(i32, 0, gv, "alias")
	require.NoError(t, err)
	require.Equal(t, gv.Handle(), alias.Aliasee().Handle())

	aliases := env.mod.Aliases()
	require.Len(t, aliases, 1)
	require.Equal(t, "alias", aliases[0].Name())
}
