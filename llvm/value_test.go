package llvm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueNames(t *testing.T) {
	env := newTestEnv(t)

	i32 := env.ctx.Int32Type()
	fn := env.function("named", i32, []Type{i32})

	arg := fn.Params()[0]
	require.False(t, arg.HasName())

	arg.SetName("x")
	require.True(t, arg.HasName())
	require.Equal(t, "x", arg.Name())
	require.Equal(t, 0, arg.Index())
	require.Equal(t, fn.Handle(), arg.Parent().Handle())

	sum, err := env.b.CreateAdd(arg, arg, "x")
	require.NoError(t, err)
	require.NotEqual(t, "x", sum.Name(), "local names are kept unique")
}

func TestNarrowing(t *testing.T) {
	env := newTestEnv(t)

	i32 := env.ctx.Int32Type()
	fn := env.function("narrow", i32, []Type{i32, i32})
	a, b := fn.Params()[0], fn.Params()[1]

	v, err := env.b.CreateMul(a, b, "prod")
	require.NoError(t, err)

	bo, ok := Cast[BinaryOperator](v)
	require.True(t, ok)
	require.Equal(t, OpMul, bo.Opcode())

	inst, ok := Cast[Instruction](v)
	require.True(t, ok)
	require.False(t, inst.IsTerminator())

	_, ok = Cast[Constant](v)
	require.False(t, ok)

	_, ok = Cast[Argument](v)
	require.False(t, ok)

	// A value held as its interface type narrows back to its wrapper.
	var held Value = fn
	_, ok = Narrow(held).(Function)
	require.True(t, ok)

	_, ok = Cast[GlobalValue](held)
	require.True(t, ok)

	require.Panics(t, func() { MustCast[ConstantInt](v) })
	require.NotPanics(t, func() { MustCast[BinaryOperator](v) })

	_, ok = Cast[BinaryOperator](nil)
	require.False(t, ok)
}

func TestOperands(t *testing.T) {
	env := newTestEnv(t)

	i32 := env.ctx.Int32Type()
	fn := env.function("ops", i32, []Type{i32, i32})
	a, b := fn.Params()[0], fn.Params()[1]

	v, err := env.b.CreateSub(a, b, "diff")
	require.NoError(t, err)

	sub := MustCast[BinaryOperator](v)
	require.Equal(t, 2, sub.NumOperands())

	lhs, err := sub.Operand(0)
	require.NoError(t, err)
	require.Equal(t, a.Handle(), lhs.Handle())

	ops := Operands(sub)
	require.Len(t, ops, 2)
	require.Equal(t, b.Handle(), ops[1].Handle())

	_, err = sub.Operand(2)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = sub.Operand(-1)
	require.ErrorIs(t, err, ErrInvalidArgument)

	require.NoError(t, sub.SetOperand(1, a))
	require.Equal(t, a.Handle(), sub.RHS().Handle())
	require.Equal(t, 2, a.NumUses())
	require.Equal(t, 0, b.NumUses())

	err = sub.SetOperand(0, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestReplaceAllUsesWith(t *testing.T) {
	env := newTestEnv(t)

	i32 := env.ctx.Int32Type()
	fn := env.function("rauw", i32, []Type{i32, i32, env.ctx.Int64Type()})
	params := fn.Params()
	a, b, wide := params[0], params[1], params[2]

	sum, err := env.b.CreateAdd(a, a, "sum")
	require.NoError(t, err)

	_, err = env.b.CreateRet(sum)
	require.NoError(t, err)

	require.Equal(t, 2, a.NumUses())
	users := a.Users()
	require.Len(t, users, 2)
	require.Equal(t, sum.Handle(), users[0].Handle())

	err = a.ReplaceAllUsesWith(wide)
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.Equal(t, 2, a.NumUses())

	require.NoError(t, a.ReplaceAllUsesWith(b))
	require.Equal(t, 0, a.NumUses())
	require.Equal(t, 2, b.NumUses())
}

func TestGlobals(t *testing.T) {
	env := newTestEnv(t)

	_, ok := env.mod.GetNamedGlobal("counter")
	require.False(t, ok)

	i64 := env.ctx.Int64Type()
	gv, err := env.mod.AddGlobal(i64, "counter")
	require.NoError(t, err)
	require.True(t, gv.IsDeclaration())

	found, ok := env.mod.GetNamedGlobal("counter")
	require.True(t, ok)
	require.Equal(t, gv.Handle(), found.Handle())

	parent, ok := found.Parent()
	require.True(t, ok)
	require.Same(t, env.mod, parent)

	require.NoError(t, gv.SetInitializer(env.constInt(i64, 7)))
	require.False(t, gv.IsDeclaration())

	init, ok := gv.Initializer()
	require.True(t, ok)
	require.Equal(t, uint64(7), MustCast[ConstantInt](init).ZExtValue())

	err = gv.SetInitializer(env.constInt(env.ctx.Int8Type(), 1))
	require.ErrorIs(t, err, ErrInvalidArgument)

	gv.SetLinkage(InternalLinkage)
	require.Equal(t, InternalLinkage, gv.Linkage())

	require.NoError(t, gv.SetAlignment(8))
	require.Equal(t, 8, gv.Alignment())
	require.ErrorIs(t, gv.SetAlignment(3), ErrInvalidArgument)

	_, err = env.mod.AddGlobal(env.ctx.VoidType(), "bad")
	require.ErrorIs(t, err, ErrInvalidArgument)

	require.Len(t, Collect(env.mod.Globals()), 1)
	require.NoError(t, gv.EraseFromParent())
	require.Empty(t, Collect(env.mod.Globals()))
}

func TestFunctionsLookup(t *testing.T) {
	env := newTestEnv(t)

	_, ok := env.mod.GetFunction("main")
	require.False(t, ok)

	ft, err := env.ctx.FunctionType(env.ctx.Int32Type(), nil, false)
	require.NoError(t, err)

	fn, err := env.mod.AddFunction("main", ft)
	require.NoError(t, err)
	require.True(t, fn.IsDeclaration())

	found, ok := env.mod.GetFunction("main")
	require.True(t, ok)
	require.Equal(t, fn.Handle(), found.Handle())

	callee, err := env.mod.GetOrInsertFunction("main", ft)
	require.NoError(t, err)
	require.Equal(t, fn.Handle(), callee.Callee.Handle())

	callee, err = env.mod.GetOrInsertFunction("puts", ft)
	require.NoError(t, err)

	fns := Collect(env.mod.Functions())
	require.Len(t, fns, 2)
	require.Equal(t, "puts", fns[1].Name())
	require.True(t, SameType(ft, callee.Type))
}

func TestConstants(t *testing.T) {
	env := newTestEnv(t)

	i8 := env.ctx.Int8Type()

	neg, err := ConstInt(i8, ^uint64(0), true)
	require.NoError(t, err)
	require.Equal(t, int64(-1), neg.SExtValue())
	require.Equal(t, uint64(0xff), neg.ZExtValue())
	require.True(t, neg.IsConstant())

	hex, err := ConstIntOfString(i8, "7f", 16)
	require.NoError(t, err)
	require.Equal(t, uint64(127), hex.ZExtValue())

	_, err = ConstIntOfString(i8, "12z", 10)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = ConstIntOfString(i8, "1", 7)
	require.ErrorIs(t, err, ErrInvalidArgument)

	half, err := ConstFloat(env.ctx.DoubleType(), 0.5)
	require.NoError(t, err)
	d, lossy := half.Double()
	require.Equal(t, 0.5, d)
	require.False(t, lossy)

	_, err = ConstFloat(i8, 1)
	require.ErrorIs(t, err, ErrInvalidArgument)

	null, err := ConstNull(env.ctx.Int32Type())
	require.NoError(t, err)
	require.True(t, null.IsNull())

	undef, err := Undef(i8)
	require.NoError(t, err)
	require.True(t, undef.IsUndef())

	poison, err := Poison(i8)
	require.NoError(t, err)
	require.True(t, poison.IsPoison())

	str, err := env.ctx.ConstString("hi", true)
	require.NoError(t, err)
	require.Equal(t, 3, str.NumElements())
	s, ok := str.AsString()
	require.True(t, ok)
	require.Equal(t, "hi\x00", s)

	_, err = str.Element(3)
	require.ErrorIs(t, err, ErrInvalidArgument)

	arr, err := ConstArray(i8, []Constant{neg, hex})
	require.NoError(t, err)
	second, err := arr.Element(1)
	require.NoError(t, err)
	require.Equal(t, uint64(127), MustCast[ConstantInt](second).ZExtValue())

	_, err = ConstArray(i8, []Constant{neg, null})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = ConstVector(nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestConstBinOp(t *testing.T) {
	env := newTestEnv(t)

	i32 := env.ctx.Int32Type()
	two, three := env.constInt(i32, 2), env.constInt(i32, 3)

	sum, err := ConstBinOp(OpAdd, two, three)
	require.NoError(t, err)
	require.Equal(t, uint64(5), MustCast[ConstantInt](sum).ZExtValue())

	_, err = ConstBinOp(OpMul, two, three)
	require.ErrorIs(t, err, ErrUnimplemented)

	_, err = ConstBinOp(OpAdd, two, env.constInt(env.ctx.Int8Type(), 1))
	require.ErrorIs(t, err, ErrInvalidArgument)
}
