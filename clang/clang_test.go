package clang

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, name, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestParseCleanFile(t *testing.T) {
	idx := NewIndex(false, false)
	defer idx.Dispose()

	path := writeSource(t, "ok.c", "int add(int a, int b) { return a + b; }\n")

	tu, err := idx.Parse(path, nil, ParseNone)
	require.NoError(t, err)
	require.Equal(t, path, tu.Spelling())
	require.Empty(t, tu.Diagnostics())
	require.False(t, tu.HasErrors())
}

func TestParseReportsDiagnostics(t *testing.T) {
	idx := NewIndex(false, false)
	defer idx.Dispose()

	src := "void f(void) {\n  int unused;\n}\nint main(void) { return missing; }\n"
	path := writeSource(t, "bad.c", src)

	tu, err := idx.Parse(path, []string{"-Wall", "-std=c11"}, ParseKeepGoing)
	require.NoError(t, err)
	require.True(t, tu.HasErrors())

	var sawError, sawWarning bool
	for _, d := range tu.Diagnostics() {
		switch d.Severity {
		case SeverityError:
			sawError = true
			require.Equal(t, 4, d.Line)
			require.Equal(t, path, d.File)
			require.Contains(t, d.Message, "missing")
			require.Contains(t, d.String(), "bad.c:4:")
		case SeverityWarning:
			sawWarning = true
			require.Equal(t, 2, d.Line)
			require.Equal(t, "-Wunused-variable", d.Option)
		}
	}

	require.True(t, sawError)
	require.True(t, sawWarning)
}

func TestDefinesArePassed(t *testing.T) {
	idx := NewIndex(false, false)
	defer idx.Dispose()

	path := writeSource(t, "def.c", "#ifndef ANSWER\n#error no answer\n#endif\n")

	tu, err := idx.Parse(path, nil, ParseNone)
	require.NoError(t, err)
	require.True(t, tu.HasErrors())

	tu, err = idx.Parse(path, []string{"-DANSWER=42"}, ParseNone)
	require.NoError(t, err)
	require.False(t, tu.HasErrors())
}

func TestDisposal(t *testing.T) {
	idx := NewIndex(true, false)

	path := writeSource(t, "ok.c", "int x;\n")
	tu, err := idx.Parse(path, nil, ParseNone)
	require.NoError(t, err)

	idx.Dispose()
	idx.Dispose()
	require.True(t, idx.IsDisposed())
	require.True(t, tu.IsDisposed())
	require.Panics(t, func() { tu.Diagnostics() })

	_, err = idx.Parse(path, nil, ParseNone)
	require.True(t, errors.Is(err, ErrDisposed))
}

func TestMissingFile(t *testing.T) {
	idx := NewIndex(false, false)
	defer idx.Dispose()

	_, err := idx.Parse(filepath.Join(t.TempDir(), "nope.c"), nil, ParseNone)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.NotEqual(t, ErrorSuccess, pe.Code)
}

func TestVersion(t *testing.T) {
	require.Contains(t, Version(), "clang version")
	require.Equal(t, "fatal error", SeverityFatal.String())
}
