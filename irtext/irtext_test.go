package irtext

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSummarizeMatchesGolden(t *testing.T) {
	m, err := ParseFile(filepath.Join("testdata", "max.ll"))
	require.NoError(t, err)
	require.NoError(t, CheckTerminators(m))

	data, err := os.ReadFile(filepath.Join("testdata", "max.yaml"))
	require.NoError(t, err)

	var want Summary
	require.NoError(t, yaml.Unmarshal(data, &want))
	require.Equal(t, &want, Summarize(m))
}

func TestFunctionCounts(t *testing.T) {
	m, err := ParseFile(filepath.Join("testdata", "max.ll"))
	require.NoError(t, err)

	s := Summarize(m)

	maxFn, ok := s.Function("max")
	require.True(t, ok)
	require.Equal(t, 3, maxFn.Count("br"))
	require.Equal(t, 1, maxFn.Count("phi"))
	require.Equal(t, 0, maxFn.Count("call"))
	require.Equal(t, 6, maxFn.NumInstructions())

	abs, ok := s.Function("abs")
	require.True(t, ok)
	require.True(t, abs.Declaration)
	require.Zero(t, abs.NumInstructions())

	_, ok = s.Function("min")
	require.False(t, ok)
}

func TestOpcodeOf(t *testing.T) {
	cases := map[string]string{
		"%r = mul i32 %x, %x":             "mul",
		"store i32 1, i32* %p":            "store",
		"%1 = load volatile i32, i32* %p": "load",
		"%v = tail call i32 @f()":         "call",
		"musttail call void @g()":         "call",
		"ret void":                        "ret",
		"unreachable":                     "unreachable",
		"":                                "",
	}

	for text, want := range cases {
		require.Equal(t, want, opcodeOf(text), text)
	}
}

func TestParseErrors(t *testing.T) {
	_, err := ParseString("bad.ll", "define i32 @f( {")
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad.ll")

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.ll"))
	require.Error(t, err)
}

func TestCheckTerminatorsRejectsOpenBlocks(t *testing.T) {
	m := ir.NewModule()

	f := m.NewFunc("open", types.Void)
	entry := f.NewBlock("entry")
	f.NewBlock("exit").NewRet(nil)

	err := CheckTerminators(m)
	require.Error(t, err)
	require.Contains(t, err.Error(), "has no terminator")
	require.Contains(t, err.Error(), "@open")

	entry.NewRet(nil)
	require.NoError(t, CheckTerminators(m))
}

func TestCheckTerminatorsRejectsForeignTargets(t *testing.T) {
	m := ir.NewModule()

	g := m.NewFunc("g", types.Void)
	foreign := g.NewBlock("target")
	foreign.NewRet(nil)

	f := m.NewFunc("f", types.Void)
	f.NewBlock("entry").NewBr(foreign)

	err := CheckTerminators(m)
	require.Error(t, err)
	require.Contains(t, err.Error(), "outside the function")
}
