package llvm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFunctionAttributes(t *testing.T) {
	env := newTestEnv(t)

	i32 := env.ctx.Int32Type()
	fn := env.function("attrs", i32, []Type{i32})

	kind, ok := AttributeKindByName("noinline")
	require.True(t, ok)
	require.NotZero(t, kind)

	_, ok = AttributeKindByName("no-such-attribute")
	require.False(t, ok)

	noinline, err := env.ctx.EnumAttribute("noinline", 0)
	require.NoError(t, err)
	require.False(t, noinline.IsString())
	require.Equal(t, kind, noinline.Kind())

	_, err = env.ctx.EnumAttribute("no-such-attribute", 0)
	require.ErrorIs(t, err, ErrInvalidArgument)

	require.NoError(t, fn.AddAttribute(FunctionIndex, noinline))

	got, ok := fn.EnumAttribute(FunctionIndex, "noinline")
	require.True(t, ok)
	require.Equal(t, kind, got.Kind())

	frame, err := env.ctx.StringAttribute("frame-pointer", "all")
	require.NoError(t, err)
	require.True(t, frame.IsString())
	require.Equal(t, "frame-pointer", frame.Key())
	require.Equal(t, "all", frame.StringValue())
	require.NoError(t, fn.AddAttribute(FunctionIndex, frame))

	sv, ok := fn.StringAttribute(FunctionIndex, "frame-pointer")
	require.True(t, ok)
	require.Equal(t, "all", sv.StringValue())

	require.Len(t, fn.Attributes(FunctionIndex), 2)

	zext, err := env.ctx.EnumAttribute("zeroext", 0)
	require.NoError(t, err)
	require.NoError(t, fn.AddAttribute(ParamIndex(0), zext))
	require.ErrorIs(t, fn.AddAttribute(ParamIndex(1), zext), ErrInvalidArgument)
	require.Equal(t, "param 0", ParamIndex(0).String())

	require.NoError(t, fn.RemoveEnumAttribute(FunctionIndex, "noinline"))
	_, ok = fn.EnumAttribute(FunctionIndex, "noinline")
	require.False(t, ok)

	require.NoError(t, fn.RemoveStringAttribute(FunctionIndex, "frame-pointer"))
	require.Empty(t, fn.Attributes(FunctionIndex))
}
