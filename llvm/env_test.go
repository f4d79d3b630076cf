package llvm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testEnv is a fresh context with one module and one builder.  The context is
// disposed when the test ends.
type testEnv struct {
	t   *testing.T
	ctx *Context
	mod *Module
	b   *Builder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx := NewContext()
	t.Cleanup(func() {
		require.NoError(t, ctx.Dispose())
	})

	mod, err := ctx.NewModule("test")
	require.NoError(t, err)

	b, err := ctx.NewBuilder()
	require.NoError(t, err)

	return &testEnv{t: t, ctx: ctx, mod: mod, b: b}
}

// function adds a function to the module, appends an entry block to it and
// positions the builder at the end of that block.
func (env *testEnv) function(name string, ret Type, params []Type) Function {
	env.t.Helper()

	ft, err := env.ctx.FunctionType(ret, params, false)
	require.NoError(env.t, err)

	fn, err := env.mod.AddFunction(name, ft)
	require.NoError(env.t, err)

	entry, err := fn.AppendBasicBlock("entry")
	require.NoError(env.t, err)
	require.NoError(env.t, env.b.SetInsertPointAtEnd(entry))

	return fn
}

// block appends a new block to fn.
func (env *testEnv) block(fn Function, name string) BasicBlock {
	env.t.Helper()

	bb, err := fn.AppendBasicBlock(name)
	require.NoError(env.t, err)
	return bb
}

func (env *testEnv) constInt(typ IntegerType, n uint64) ConstantInt {
	env.t.Helper()

	c, err := ConstInt(typ, n, false)
	require.NoError(env.t, err)
	return c
}

func (env *testEnv) ptrType() PointerType {
	env.t.Helper()

	pt, err := env.ctx.PointerType(0)
	require.NoError(env.t, err)
	return pt
}
