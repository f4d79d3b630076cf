package llvm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"irkit/irtext"
)

func TestBuildAddFunction(t *testing.T) {
	env := newTestEnv(t)

	i32 := env.ctx.Int32Type()
	fn := env.function("add", i32, []Type{i32, i32})
	a, b := fn.Params()[0], fn.Params()[1]

	sum, err := env.b.CreateAdd(a, b, "sum")
	require.NoError(t, err)

	ret, err := env.b.CreateRet(sum)
	require.NoError(t, err)

	rv, ok := ret.ReturnValue()
	require.True(t, ok)
	require.Equal(t, sum.Handle(), rv.Handle())

	require.NoError(t, env.mod.Verify())
	require.NoError(t, fn.Verify())

	src := env.mod.String()
	require.Contains(t, src, "add i32")

	m, err := irtext.ParseString("test.ll", src)
	require.NoError(t, err)
	require.NoError(t, irtext.CheckTerminators(m))

	summary := irtext.Summarize(m)
	add, ok := summary.Function("add")
	require.True(t, ok)
	require.Len(t, add.Blocks, 1)
	require.Equal(t, 1, add.Count("add"))
	require.Equal(t, 1, add.Count("ret"))
}

func TestUnpositionedBuilder(t *testing.T) {
	env := newTestEnv(t)

	i32 := env.ctx.Int32Type()
	fn := env.function("f", i32, []Type{i32})
	x := fn.Params()[0]

	env.b.ClearInsertionPoint()
	require.False(t, env.b.IsPositioned())

	_, err := env.b.CreateAdd(x, x, "")
	require.ErrorIs(t, err, ErrUnpositioned)

	_, err = env.b.CreateRetVoid()
	require.ErrorIs(t, err, ErrUnpositioned)

	_, ok := env.b.InsertBlock()
	require.False(t, ok)
}

func TestSaveAndRestoreInsertPoint(t *testing.T) {
	env := newTestEnv(t)

	i32 := env.ctx.Int32Type()
	fn := env.function("f", i32, []Type{i32})
	x := fn.Params()[0]
	entry, _ := fn.EntryBlock()

	saved := env.b.SaveIP()
	require.True(t, saved.IsSet())
	require.True(t, saved.AtEnd())

	other := env.block(fn, "other")
	require.NoError(t, env.b.SetInsertPointAtEnd(other))
	_, err := env.b.CreateRet(x)
	require.NoError(t, err)

	require.NoError(t, env.b.RestoreIP(saved))
	cur, ok := env.b.InsertBlock()
	require.True(t, ok)
	require.Equal(t, entry.Handle(), cur.Handle())

	v, err := env.b.CreateMul(x, x, "sq")
	require.NoError(t, err)

	parent, ok := MustCast[Instruction](v).Parent()
	require.True(t, ok)
	require.Equal(t, entry.Handle(), parent.Handle())

	// Insert before the multiply, then check the ordering.
	require.NoError(t, env.b.SetInsertPointBefore(MustCast[Instruction](v)))
	before := env.b.SaveIP()
	require.False(t, before.AtEnd())

	neg, err := env.b.CreateNeg(x, "neg")
	require.NoError(t, err)

	first, ok := entry.First()
	require.True(t, ok)
	require.Equal(t, neg.Handle(), first.Handle())

	// An insertion point whose instruction left the block can not be restored.
	require.NoError(t, MustCast[Instruction](v).RemoveFromParent())
	err = env.b.RestoreIP(before)
	require.ErrorIs(t, err, ErrInvalidArgument)

	require.NoError(t, env.b.RestoreIP(InsertPoint{}))
	require.False(t, env.b.IsPositioned())
}

func TestInsertPointAtStart(t *testing.T) {
	env := newTestEnv(t)

	fn := env.function("f", env.ctx.VoidType(), nil)
	entry, _ := fn.EntryBlock()

	_, err := env.b.CreateRetVoid()
	require.NoError(t, err)

	require.NoError(t, env.b.SetInsertPointAtStart(entry))
	slot, err := env.b.CreateAlloca(env.ctx.Int64Type(), "slot")
	require.NoError(t, err)

	first, ok := entry.First()
	require.True(t, ok)
	require.Equal(t, slot.Handle(), first.Handle())
	require.Equal(t, 2, entry.NumInstructions())
	require.True(t, entry.IsWellFormed())
}

func TestWellFormedBlocks(t *testing.T) {
	env := newTestEnv(t)

	i1 := env.ctx.Int1Type()
	fn := env.function("choose", env.ctx.VoidType(), []Type{i1, env.ctx.Int32Type()})
	entry, _ := fn.EntryBlock()
	cond, wide := fn.Params()[0], fn.Params()[1]

	require.False(t, entry.IsWellFormed())

	_, ok := entry.Terminator()
	require.False(t, ok)

	yes, no := env.block(fn, "yes"), env.block(fn, "no")

	_, err := env.b.CreateCondBr(wide, yes, no)
	require.ErrorIs(t, err, ErrInvalidArgument)

	br, err := env.b.CreateCondBr(cond, yes, no)
	require.NoError(t, err)
	require.True(t, br.IsConditional())
	require.Equal(t, 2, br.NumSuccessors())
	require.True(t, entry.IsWellFormed())

	term, ok := entry.Terminator()
	require.True(t, ok)
	require.Equal(t, br.Handle(), term.Handle())

	for _, bb := range []BasicBlock{yes, no} {
		require.NoError(t, env.b.SetInsertPointAtEnd(bb))
		_, err := env.b.CreateRetVoid()
		require.NoError(t, err)
	}

	require.NoError(t, fn.Verify())
	require.Len(t, Collect(fn.Blocks()), 3)

	// A second terminator is not rejected by the builder.
	require.NoError(t, env.b.SetInsertPointAtEnd(yes))
	_, err = env.b.CreateUnreachable()
	require.NoError(t, err)

	require.Equal(t, 2, yes.NumInstructions())
	require.False(t, yes.IsWellFormed())
	require.True(t, no.IsWellFormed())
	require.Error(t, fn.Verify())
}

func TestReturnTypeChecks(t *testing.T) {
	env := newTestEnv(t)

	i32 := env.ctx.Int32Type()
	fn := env.function("f", i32, []Type{env.ctx.Int64Type()})

	_, err := env.b.CreateRet(fn.Params()[0])
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.b.CreateRetVoid()
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.b.CreateRet(env.constInt(i32, 0))
	require.NoError(t, err)
}

func TestCastDispatch(t *testing.T) {
	env := newTestEnv(t)

	i32, i64 := env.ctx.Int32Type(), env.ctx.Int64Type()
	fn := env.function("casts", env.ctx.VoidType(), []Type{i32, env.ctx.DoubleType(), env.ptrType()})
	params := fn.Params()
	x, d, p := params[0], params[1], params[2]

	cases := []struct {
		op   CastOp
		v    Value
		dest Type
		ok   bool
	}{
		{CastZExt, x, i64, true},
		{CastSExt, x, i64, true},
		{CastTrunc, x, env.ctx.Int8Type(), true},
		{CastTrunc, x, i64, false},
		{CastZExt, x, env.ctx.Int16Type(), false},
		{CastFPToSI, d, i32, true},
		{CastSIToFP, x, env.ctx.FloatType(), true},
		{CastFPTrunc, d, env.ctx.FloatType(), true},
		{CastFPExt, d, env.ctx.FloatType(), false},
		{CastPtrToInt, p, i64, true},
		{CastIntToPtr, x, env.ptrType(), true},
		{CastBitCast, x, env.ctx.FloatType(), true},
		{CastBitCast, x, i64, false},
		{CastPtrToInt, x, i64, false},
	}

	for _, c := range cases {
		v, err := env.b.CreateCast(c.op, c.v, c.dest, "")
		if !c.ok {
			require.ErrorIs(t, err, ErrInvalidArgument, "%s %s to %s", c.op, c.v.Type(), c.dest)
			continue
		}

		require.NoError(t, err, "%s %s to %s", c.op, c.v.Type(), c.dest)

		ci, ok := Cast[CastInst](v)
		require.True(t, ok)
		require.Equal(t, c.op, ci.CastOp())
		require.True(t, SameType(c.dest, ci.DestType()))
	}

	_, err := env.b.CreateCast(CastOp(OpAdd), x, i64, "")
	require.ErrorIs(t, err, ErrInvalidArgument)

	widened, err := env.b.CreateIntCast(x, i64, true, "w")
	require.NoError(t, err)
	require.Equal(t, CastSExt, MustCast[CastInst](widened).CastOp())

	// Casting to the same integer type is the identity.
	same, err := env.b.CreateIntCast(x, i32, false, "")
	require.NoError(t, err)
	require.Equal(t, x.Handle(), same.Handle())
}

func TestBinaryOperatorChecks(t *testing.T) {
	env := newTestEnv(t)

	i32 := env.ctx.Int32Type()
	fn := env.function("bin", i32, []Type{i32, env.ctx.Int64Type(), env.ctx.DoubleType()})
	params := fn.Params()
	x, wide, d := params[0], params[1], params[2]

	_, err := env.b.CreateAdd(x, wide, "")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.b.CreateAdd(d, d, "")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.b.CreateFAdd(x, x, "")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.b.CreateBinOp(OpICmp, x, x, "")
	require.ErrorIs(t, err, ErrInvalidArgument)

	v, err := env.b.CreateNSWAdd(x, x, "")
	require.NoError(t, err)
	require.True(t, MustCast[BinaryOperator](v).NSW())

	v, err = env.b.CreateExactSDiv(x, x, "")
	require.NoError(t, err)
	require.True(t, MustCast[BinaryOperator](v).Exact())

	v, err = env.b.CreateBinOp(OpFMul, d, d, "")
	require.NoError(t, err)
	require.Equal(t, OpFMul, MustCast[BinaryOperator](v).Opcode())
}

func TestConstantFolding(t *testing.T) {
	env := newTestEnv(t)

	i32 := env.ctx.Int32Type()
	env.function("folded", i32, nil)

	v, err := env.b.CreateAdd(env.constInt(i32, 2), env.constInt(i32, 3), "five")
	require.NoError(t, err)

	ci, ok := Cast[ConstantInt](v)
	require.True(t, ok, "expected a folded constant, got %s", v)
	require.Equal(t, uint64(5), ci.ZExtValue())

	_, ok = Cast[Instruction](v)
	require.False(t, ok)

	cmp, err := env.b.CreateICmp(ICmpULT, env.constInt(i32, 2), env.constInt(i32, 3), "")
	require.NoError(t, err)
	require.True(t, cmp.IsConstant())
}

func TestCallArguments(t *testing.T) {
	env := newTestEnv(t)

	i32 := env.ctx.Int32Type()

	calleeType, err := env.ctx.FunctionType(i32, []Type{i32}, false)
	require.NoError(t, err)
	callee, err := env.mod.AddFunction("callee", calleeType)
	require.NoError(t, err)

	printfType, err := env.ctx.FunctionType(i32, []Type{env.ptrType()}, true)
	require.NoError(t, err)
	printf, err := env.mod.AddFunction("printf", printfType)
	require.NoError(t, err)

	sinkType, err := env.ctx.FunctionType(env.ctx.VoidType(), nil, false)
	require.NoError(t, err)
	sink, err := env.mod.AddFunction("sink", sinkType)
	require.NoError(t, err)

	fn := env.function("caller", i32, []Type{i32})
	x := fn.Params()[0]

	_, err = env.b.CreateCall(callee, nil, "")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.b.CreateCall(callee, []Value{x, x}, "")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.b.CreateCall(callee, []Value{env.constInt(env.ctx.Int8Type(), 1)}, "")
	require.ErrorIs(t, err, ErrInvalidArgument)

	call, err := env.b.CreateCall(callee, []Value{x}, "r")
	require.NoError(t, err)
	require.Equal(t, 1, call.NumArgs())
	require.Equal(t, "r", call.Name())

	called, ok := call.CalledFunction()
	require.True(t, ok)
	require.Equal(t, callee.Handle(), called.Handle())

	format, err := env.b.CreateGlobalString("%d\n", "fmt")
	require.NoError(t, err)

	vcall, err := env.b.CreateCall(printf, []Value{format, x, x}, "n")
	require.NoError(t, err)
	require.Equal(t, 3, vcall.NumArgs())

	void, err := env.b.CreateCall(sink, nil, "ignored")
	require.NoError(t, err)
	require.False(t, void.HasName())

	_, err = env.b.CreateRet(call)
	require.NoError(t, err)
	require.NoError(t, env.mod.Verify())
}

func TestPHIAndSwitch(t *testing.T) {
	env := newTestEnv(t)

	i32 := env.ctx.Int32Type()
	fn := env.function("pick", i32, []Type{i32})
	x := fn.Params()[0]

	one, two, join := env.block(fn, "one"), env.block(fn, "two"), env.block(fn, "join")

	sw, err := env.b.CreateSwitch(x, two, 1)
	require.NoError(t, err)
	require.NoError(t, sw.AddCase(env.constInt(i32, 1), one))
	require.Equal(t, 1, sw.NumCases())
	require.Equal(t, two.Handle(), sw.DefaultDest().Handle())

	err = sw.AddCase(env.constInt(env.ctx.Int8Type(), 2), two)
	require.ErrorIs(t, err, ErrInvalidArgument)

	for _, bb := range []BasicBlock{one, two} {
		require.NoError(t, env.b.SetInsertPointAtEnd(bb))
		_, err := env.b.CreateBr(join)
		require.NoError(t, err)
	}

	require.NoError(t, env.b.SetInsertPointAtEnd(join))
	phi, err := env.b.CreatePHI(i32, "r")
	require.NoError(t, err)

	err = phi.AddIncoming([]Value{env.constInt(i32, 10)}, []BasicBlock{one, two})
	require.ErrorIs(t, err, ErrInvalidArgument)

	err = phi.AddIncoming([]Value{env.constInt(i32, 10), env.constInt(i32, 20)}, []BasicBlock{one, two})
	require.NoError(t, err)
	require.Equal(t, 2, phi.NumIncoming())

	v, bb, err := phi.Incoming(1)
	require.NoError(t, err)
	require.Equal(t, uint64(20), MustCast[ConstantInt](v).ZExtValue())
	require.Equal(t, two.Handle(), bb.Handle())

	_, err = env.b.CreateRet(phi)
	require.NoError(t, err)
	require.NoError(t, env.mod.Verify())

	m, err := irtext.ParseString("pick.ll", env.mod.String())
	require.NoError(t, err)
	require.NoError(t, irtext.CheckTerminators(m))

	pick, ok := irtext.Summarize(m).Function("pick")
	require.True(t, ok)
	require.Len(t, pick.Blocks, 4)
	require.Equal(t, 1, pick.Count("phi"))
	require.Equal(t, 1, pick.Count("switch"))
}

func TestMemoryInstructions(t *testing.T) {
	env := newTestEnv(t)

	i32 := env.ctx.Int32Type()
	fn := env.function("mem", i32, []Type{i32})
	x := fn.Params()[0]

	pair, err := env.ctx.StructType([]Type{i32, i32}, false)
	require.NoError(t, err)

	slot, err := env.b.CreateAlloca(pair, "pair")
	require.NoError(t, err)
	require.True(t, SameType(pair, slot.AllocatedType()))

	_, err = env.b.CreateAlloca(env.ctx.VoidType(), "")
	require.ErrorIs(t, err, ErrInvalidArgument)

	field, err := env.b.CreateStructGEP(pair, slot, 1, "second")
	require.NoError(t, err)

	_, err = env.b.CreateStructGEP(pair, slot, 2, "")
	require.ErrorIs(t, err, ErrInvalidArgument)

	store, err := env.b.CreateStore(x, field)
	require.NoError(t, err)
	require.Equal(t, field.Handle(), store.PointerOperand().Handle())

	_, err = env.b.CreateStore(x, x)
	require.ErrorIs(t, err, ErrInvalidArgument)

	load, err := env.b.CreateLoad(i32, field, "v")
	require.NoError(t, err)
	load.SetVolatile(true)
	require.True(t, load.Volatile())

	_, err = env.b.CreateRet(load)
	require.NoError(t, err)
	require.NoError(t, env.mod.Verify())

	require.True(t, strings.Contains(env.mod.String(), "load volatile i32"))
}

func TestDisposedBuilder(t *testing.T) {
	env := newTestEnv(t)

	i32 := env.ctx.Int32Type()
	fn := env.function("f", i32, []Type{i32})
	x := fn.Params()[0]

	env.b.Dispose()
	env.b.Dispose()

	_, err := env.b.CreateRet(x)
	require.ErrorIs(t, err, ErrDisposed)
}

func TestVectorOperandChecks(t *testing.T) {
	env := newTestEnv(t)

	i32, i64 := env.ctx.Int32Type(), env.ctx.Int64Type()

	vectorOf := func(elem Type, n int) VectorType {
		vt, err := env.ctx.VectorType(elem, n, false)
		require.NoError(t, err)
		return vt
	}

	maskOf := func(elem IntegerType, ndxs ...uint64) Constant {
		elems := make([]Constant, len(ndxs))
		for i, ndx := range ndxs {
			elems[i] = env.constInt(elem, ndx)
		}

		mask, err := ConstVector(elems)
		require.NoError(t, err)
		return mask
	}

	v4i32 := vectorOf(i32, 4)
	fn := env.function("vec", env.ctx.VoidType(), []Type{
		v4i32, v4i32, vectorOf(env.ctx.Int1Type(), 4), vectorOf(env.ctx.Int1Type(), 2), env.ctx.Int1Type(),
	})
	params := fn.Params()
	a, b, c4, c2, c := params[0], params[1], params[2], params[3], params[4]

	_, err := env.b.CreateShuffleVector(a, b, maskOf(i64, 0, 4, 1, 5), "wide")
	require.ErrorIs(t, err, ErrInvalidArgument)

	shuf, err := env.b.CreateShuffleVector(a, b, maskOf(i32, 0, 4), "lo")
	require.NoError(t, err)
	require.Equal(t, "<2 x i32>", shuf.Type().String())

	_, err = env.b.CreateSelect(c2, a, b, "short")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.b.CreateSelect(c4, a, b, "each")
	require.NoError(t, err)

	_, err = env.b.CreateSelect(c, a, b, "all")
	require.NoError(t, err)

	_, err = env.b.CreateRetVoid()
	require.NoError(t, err)
	require.NoError(t, fn.Verify())
}
