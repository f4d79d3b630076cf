package llvm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIntegerTypesAreUniqued(t *testing.T) {
	env := newTestEnv(t)

	a, err := env.ctx.IntType(32)
	require.NoError(t, err)

	require.True(t, SameType(a, env.ctx.Int32Type()))
	require.False(t, SameType(a, env.ctx.Int64Type()))
	require.Equal(t, 32, a.BitWidth())
	require.Equal(t, "i32", a.String())

	odd, err := env.ctx.IntType(17)
	require.NoError(t, err)
	require.Equal(t, 17, odd.BitWidth())
	require.Equal(t, IntegerTypeKind, odd.Kind())
}

func TestIntTypeWidthBounds(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ctx.IntType(0)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.ctx.IntType(MaxIntBits + 1)
	require.ErrorIs(t, err, ErrInvalidArgument)

	widest, err := env.ctx.IntType(MaxIntBits)
	require.NoError(t, err)
	require.Equal(t, MaxIntBits, widest.BitWidth())
}

func TestNamedStructBody(t *testing.T) {
	env := newTestEnv(t)

	st, err := env.ctx.NamedStructType("pair")
	require.NoError(t, err)
	require.True(t, st.IsOpaque())
	require.False(t, st.IsLiteral())

	name, ok := st.Name()
	require.True(t, ok)
	require.Equal(t, "pair", name)

	found, ok := env.ctx.GetTypeByName("pair")
	require.True(t, ok)
	require.True(t, SameType(st, found))

	_, ok = env.ctx.GetTypeByName("missing")
	require.False(t, ok)

	i32 := env.ctx.Int32Type()
	require.NoError(t, st.SetBody([]Type{i32, env.ctx.DoubleType()}, false))
	require.False(t, st.IsOpaque())
	require.Equal(t, 2, st.NumElements())

	second, err := st.ElementType(1)
	require.NoError(t, err)
	require.Equal(t, DoubleTypeKind, second.Kind())

	_, err = st.ElementType(2)
	require.ErrorIs(t, err, ErrInvalidArgument)

	err = st.SetBody([]Type{env.ctx.VoidType()}, false)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestLiteralStructsAreUniqued(t *testing.T) {
	env := newTestEnv(t)

	elems := []Type{env.ctx.Int8Type(), env.ctx.Int64Type()}

	a, err := env.ctx.StructType(elems, false)
	require.NoError(t, err)

	b, err := env.ctx.StructType(elems, false)
	require.NoError(t, err)
	require.True(t, SameType(a, b))

	packed, err := env.ctx.StructType(elems, true)
	require.NoError(t, err)
	require.False(t, SameType(a, packed))
	require.True(t, packed.IsPacked())
	require.True(t, a.IsLiteral())
}

func TestVectorTypeValidation(t *testing.T) {
	env := newTestEnv(t)

	vt, err := env.ctx.VectorType(env.ctx.FloatType(), 4, false)
	require.NoError(t, err)
	require.Equal(t, 4, vt.Len())
	require.False(t, vt.IsScalable())
	require.Equal(t, "<4 x float>", vt.String())

	svt, err := env.ctx.VectorType(env.ctx.Int32Type(), 2, true)
	require.NoError(t, err)
	require.True(t, svt.IsScalable())

	_, err = env.ctx.VectorType(env.ctx.Int32Type(), 0, false)
	require.ErrorIs(t, err, ErrInvalidArgument)

	st, err := env.ctx.StructType(nil, false)
	require.NoError(t, err)

	_, err = env.ctx.VectorType(st, 2, false)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestArrayType(t *testing.T) {
	env := newTestEnv(t)

	at, err := env.ctx.ArrayType(env.ctx.Int8Type(), 16)
	require.NoError(t, err)
	require.Equal(t, uint64(16), at.Len())
	require.True(t, SameType(env.ctx.Int8Type(), at.ElemType()))
	require.True(t, at.IsAggregateType())

	_, err = env.ctx.ArrayType(env.ctx.VoidType(), 1)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFunctionTypeValidation(t *testing.T) {
	env := newTestEnv(t)

	i32 := env.ctx.Int32Type()

	ft, err := env.ctx.FunctionType(i32, []Type{i32, env.ptrType()}, true)
	require.NoError(t, err)
	require.True(t, ft.IsVarArg())
	require.Equal(t, 2, ft.NumParams())
	require.True(t, SameType(i32, ft.ReturnType()))
	require.Len(t, ft.Params(), 2)

	_, err = env.ctx.FunctionType(i32, []Type{env.ctx.VoidType()}, false)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.ctx.FunctionType(i32, []Type{env.ctx.LabelType()}, false)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.ctx.FunctionType(ft, nil, false)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.ctx.FunctionType(nil, nil, false)
	require.Error(t, err)
}

func TestCastType(t *testing.T) {
	env := newTestEnv(t)

	var typ Type = env.ctx.Int16Type()

	it, ok := CastType[IntegerType](typ)
	require.True(t, ok)
	require.Equal(t, 16, it.BitWidth())

	_, ok = CastType[PointerType](typ)
	require.False(t, ok)

	pt, ok := CastType[PointerType](NarrowType(env.ptrType()))
	require.True(t, ok)
	require.Equal(t, 0, pt.AddrSpace())

	_, ok = CastType[IntegerType](nil)
	require.False(t, ok)
}

func TestPointerTo(t *testing.T) {
	env := newTestEnv(t)

	pt, err := PointerTo(env.ctx.Int32Type(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, pt.AddrSpace())

	_, err = PointerTo(env.ctx.VoidType(), 0)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.ctx.PointerType(-1)
	require.ErrorIs(t, err, ErrInvalidArgument)
}
