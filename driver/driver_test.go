package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"irkit/config"
	"irkit/irtext"
	"irkit/llvm"
	"irkit/report"
)

const squareIR = `
define i32 @square(i32 %x) {
entry:
  %r = mul i32 %x, %x
  ret i32 %r
}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newDriver creates a driver for a default profile rooted in a temporary
// directory, modified by modify.
func newDriver(t *testing.T, modify func(p *config.Profile)) (*Driver, *report.Reporter, string) {
	t.Helper()

	dir := t.TempDir()
	prof := config.Default(dir)
	modify(prof)

	rep := report.NewReporter(report.LogLevelSilent)
	d, err := New(prof, rep)
	require.NoError(t, err)

	return d, rep, dir
}

func TestCollectInputs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.ll"), squareIR)
	writeFile(t, filepath.Join(dir, "sub", "b.bc"), "")
	writeFile(t, filepath.Join(dir, ".irkit", "c.ll"), squareIR)
	writeFile(t, filepath.Join(dir, "notes.txt"), "")

	inputs, err := CollectInputs(dir)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "a.ll"),
		filepath.Join(dir, "sub", "b.bc"),
	}, inputs)

	single, err := CollectInputs(filepath.Join(dir, "a.ll"))
	require.NoError(t, err)
	require.Len(t, single, 1)

	_, err = CollectInputs(t.TempDir())
	require.ErrorIs(t, err, ErrNoInputs)

	_, err = CollectInputs(filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOutputNames(t *testing.T) {
	names := outputNames([]string{"x/main.ll", "y/main.bc", "z/util.ll", "w/main.ll"})
	require.Equal(t, []string{"main", "main_1", "util", "main_2"}, names)
}

func TestMachineOptions(t *testing.T) {
	prof := config.Default(t.TempDir())
	prof.OptLevel = "aggressive"
	prof.Reloc = "static"
	prof.CodeModel = "small"

	opts, err := machineOptions(prof)
	require.NoError(t, err)
	require.Equal(t, llvm.CodeGenLevelAggressive, opts.OptLevel)
	require.Equal(t, llvm.RelocStatic, opts.Reloc)
	require.Equal(t, llvm.CodeModelSmall, opts.Model)

	for _, name := range config.OptLevels {
		_, ok := optLevels[name]
		require.True(t, ok, name)
	}

	for _, name := range config.RelocModes {
		_, ok := relocModes[name]
		require.True(t, ok, name)
	}

	for _, name := range config.CodeModels {
		_, ok := codeModels[name]
		require.True(t, ok, name)
	}

	prof.CodeModel = "huge"
	_, err = machineOptions(prof)
	require.ErrorContains(t, err, "code-model")
}

func TestBuildTextualIR(t *testing.T) {
	d, rep, dir := newDriver(t, func(p *config.Profile) {
		p.Format = config.FormatLLVM
		p.ShouldCache = false
	})

	input := filepath.Join(dir, "src", "square.ll")
	writeFile(t, input, squareIR)

	outputs, err := d.Build(context.Background(), []string{input})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "bin", "square.ll")}, outputs)
	require.True(t, rep.ShouldProceed())

	m, err := irtext.ParseFile(outputs[0])
	require.NoError(t, err)

	square, ok := irtext.Summarize(m).Function("square")
	require.True(t, ok)
	require.Equal(t, 1, square.Count("mul"))
}

func TestBuildBitcode(t *testing.T) {
	d, _, dir := newDriver(t, func(p *config.Profile) {
		p.Format = config.FormatBitcode
		p.ShouldCache = false
	})

	input := filepath.Join(dir, "square.ll")
	writeFile(t, input, squareIR)

	outputs, err := d.Build(context.Background(), []string{input})
	require.NoError(t, err)

	res, err := Check(outputs[0])
	require.NoError(t, err)
	require.NotNil(t, res.Summary)
}

func TestBuildReportsBrokenModules(t *testing.T) {
	d, rep, dir := newDriver(t, func(p *config.Profile) {
		p.Format = config.FormatLLVM
		p.ShouldCache = false
	})

	good := filepath.Join(dir, "good.ll")
	writeFile(t, good, squareIR)

	bad := filepath.Join(dir, "bad.ll")
	writeFile(t, bad, "define i32 @f() {\nentry:\n  ret i64 0\n}\n")

	_, err := d.Build(context.Background(), []string{good, bad})
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad.ll")
	require.Equal(t, 1, rep.ErrorCount())

	_, err = d.Build(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoInputs)
}

func TestBuildObjectsUsesCache(t *testing.T) {
	if err := llvm.InitializeNativeTarget(); err != nil {
		t.Skipf("native target unavailable: %v", err)
	}

	d, _, dir := newDriver(t, func(p *config.Profile) {
		p.Format = config.FormatObject
	})
	require.NotNil(t, d.cache)

	input := filepath.Join(dir, "square.ll")
	writeFile(t, input, squareIR)

	outputs, err := d.Build(context.Background(), []string{input})
	require.NoError(t, err)
	require.Equal(t, 1, d.cache.Len())

	first, err := os.ReadFile(outputs[0])
	require.NoError(t, err)
	require.NotEmpty(t, first)

	require.NoError(t, os.Remove(outputs[0]))

	outputs, err = d.Build(context.Background(), []string{input})
	require.NoError(t, err)

	second, err := os.ReadFile(outputs[0])
	require.NoError(t, err)
	require.Equal(t, first, second)

	reopened, err := OpenCache(d.profile.CacheDirectory)
	require.NoError(t, err)
	require.Equal(t, 1, reopened.Len())
}

func TestBuildIsCancelled(t *testing.T) {
	d, _, dir := newDriver(t, func(p *config.Profile) {
		p.Format = config.FormatLLVM
		p.ShouldCache = false
	})

	input := filepath.Join(dir, "square.ll")
	writeFile(t, input, squareIR)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Build(ctx, []string{input})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.ll")
	writeFile(t, good, squareIR)

	res, err := Check(good)
	require.NoError(t, err)
	require.NoError(t, res.InspectErr)

	square, ok := res.Summary.Function("square")
	require.True(t, ok)
	require.Equal(t, 1, square.Count("ret"))

	bad := filepath.Join(dir, "bad.ll")
	writeFile(t, bad, "define void @f() {\nentry:\n  ret i32 1\n}\n")

	_, err = Check(bad)
	require.ErrorContains(t, err, "bad.ll")
}

func TestBuildDemo(t *testing.T) {
	lctx := llvm.NewContext()
	defer lctx.Dispose()

	mod, err := BuildDemo(lctx)
	require.NoError(t, err)
	require.NoError(t, mod.Verify())

	src := mod.String()
	require.Contains(t, src, "add i32 %a, %b")
	require.Contains(t, src, "@printf")

	add, ok := mod.GetFunction("add")
	require.True(t, ok)
	require.Equal(t, 1, add.NumBasicBlocks())
}
