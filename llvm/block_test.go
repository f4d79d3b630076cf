package llvm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// blockOrder returns the handles of the blocks of fn in order.
func blockOrder(fn Function) []uintptr {
	var order []uintptr
	for _, bb := range Collect(fn.Blocks()) {
		order = append(order, bb.Handle())
	}

	return order
}

func handles(bbs ...BasicBlock) []uintptr {
	order := make([]uintptr, len(bbs))
	for i, bb := range bbs {
		order[i] = bb.Handle()
	}

	return order
}

func TestBlockPlacement(t *testing.T) {
	env := newTestEnv(t)

	fn := env.function("f", env.ctx.VoidType(), nil)
	entry, _ := fn.EntryBlock()
	a, b := env.block(fn, "a"), env.block(fn, "b")
	require.Equal(t, handles(entry, a, b), blockOrder(fn))

	require.NoError(t, b.MoveBefore(a))
	require.Equal(t, handles(entry, b, a), blockOrder(fn))

	require.NoError(t, entry.MoveAfter(a))
	require.Equal(t, handles(b, a, entry), blockOrder(fn))

	mid, err := env.ctx.InsertBasicBlock(a, "mid")
	require.NoError(t, err)
	require.Equal(t, handles(b, mid, a, entry), blockOrder(fn))

	loose, err := env.ctx.CreateBasicBlock("loose")
	require.NoError(t, err)

	_, ok := loose.Parent()
	require.False(t, ok)

	_, err = env.ctx.InsertBasicBlock(loose, "x")
	require.ErrorIs(t, err, ErrInvalidArgument)

	require.NoError(t, fn.AppendExistingBasicBlock(loose))
	require.Equal(t, handles(b, mid, a, entry, loose), blockOrder(fn))

	parent, ok := loose.Parent()
	require.True(t, ok)
	require.Equal(t, fn.Handle(), parent.Handle())

	err = fn.AppendExistingBasicBlock(loose)
	require.ErrorIs(t, err, ErrInvalidArgument)

	// Removing detaches the block without deleting it.
	require.NoError(t, mid.RemoveFromParent())
	_, ok = mid.Parent()
	require.False(t, ok)
	require.Equal(t, "mid", mid.Name())
	require.Equal(t, 4, fn.NumBasicBlocks())

	require.ErrorIs(t, mid.RemoveFromParent(), ErrInvalidArgument)
	require.ErrorIs(t, mid.EraseFromParent(), ErrInvalidArgument)

	require.NoError(t, fn.AppendExistingBasicBlock(mid))
	require.Equal(t, handles(b, a, entry, loose, mid), blockOrder(fn))

	require.NoError(t, a.EraseFromParent())
	require.Equal(t, 4, fn.NumBasicBlocks())
	require.Equal(t, handles(b, entry, loose, mid), blockOrder(fn))

	// An erased block made by CreateBasicBlock is stale.
	require.NoError(t, loose.EraseFromParent())
	require.Equal(t, handles(b, entry, mid), blockOrder(fn))
	require.Panics(t, func() { _ = loose.Name() })
	require.ErrorIs(t, env.b.SetInsertPointAtEnd(loose), ErrDisposed)
}

func TestAppendedBlockFollowsModule(t *testing.T) {
	env := newTestEnv(t)

	fn := env.function("f", env.ctx.VoidType(), nil)

	late, err := env.ctx.CreateBasicBlock("late")
	require.NoError(t, err)
	require.NoError(t, fn.AppendExistingBasicBlock(late))
	require.NoError(t, env.b.SetInsertPointAtEnd(late))

	env.mod.Dispose()

	require.False(t, env.b.IsPositioned())

	_, err = env.b.CreateRetVoid()
	require.ErrorIs(t, err, ErrDisposed)

	err = env.b.SetInsertPointAtEnd(late)
	require.ErrorIs(t, err, ErrDisposed)
	require.Contains(t, err.Error(), `module "test"`)

	require.Panics(t, func() { _ = late.Name() })
	require.False(t, env.ctx.IsDisposed())
}

func TestErasedPositions(t *testing.T) {
	env := newTestEnv(t)

	fn := env.function("f", env.ctx.VoidType(), []Type{env.ctx.Int32Type()})
	x := fn.Params()[0]

	dead, err := env.b.CreateAdd(x, x, "dead")
	require.NoError(t, err)

	ret, err := env.b.CreateRetVoid()
	require.NoError(t, err)

	// Erasing the instruction the builder inserts before unpositions it.
	require.NoError(t, env.b.SetInsertPointBefore(MustCast[Instruction](dead)))
	saved := env.b.SaveIP()

	require.NoError(t, MustCast[Instruction](dead).EraseFromParent())
	require.False(t, env.b.IsPositioned())

	_, err = env.b.CreateRetVoid()
	require.ErrorIs(t, err, ErrUnpositioned)
	require.ErrorIs(t, env.b.RestoreIP(saved), ErrInvalidArgument)

	// Likewise for the block the builder is in.
	extra := env.block(fn, "extra")
	require.NoError(t, env.b.SetInsertPointAtEnd(extra))
	saved = env.b.SaveIP()

	require.NoError(t, extra.EraseFromParent())
	require.False(t, env.b.IsPositioned())
	require.ErrorIs(t, env.b.RestoreIP(saved), ErrInvalidArgument)

	// Erasing elsewhere leaves saved points usable.
	require.NoError(t, env.b.SetInsertPointBefore(ret))
	saved = env.b.SaveIP()

	spare := env.block(fn, "spare")
	require.NoError(t, spare.EraseFromParent())

	env.b.ClearInsertionPoint()
	require.NoError(t, env.b.RestoreIP(saved))
	require.True(t, env.b.IsPositioned())

	// Erasing a function unpositions builders in any of its blocks.
	g := env.function("g", env.ctx.VoidType(), nil)
	require.True(t, env.b.IsPositioned())

	require.NoError(t, g.EraseFromParent())
	require.False(t, env.b.IsPositioned())

	_, ok := env.mod.GetFunction("g")
	require.False(t, ok)
}
