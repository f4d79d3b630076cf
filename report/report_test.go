package report

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	for i, name := range LogLevelNames {
		require.Equal(t, i, ParseLogLevel(name), name)
	}

	require.Equal(t, LogLevelWarn, ParseLogLevel("warning"))
	require.Equal(t, LogLevelVerbose, ParseLogLevel("chatty"))
}

func TestCountsAreSynchronized(t *testing.T) {
	r := NewReporter(LogLevelSilent)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.ReportError("Build", errors.New("broken"))
			r.ReportWarning("Build", "suspicious")
		}()
	}
	wg.Wait()

	require.Equal(t, 16, r.ErrorCount())
	require.Equal(t, 16, r.WarningCount())
	require.False(t, r.ShouldProceed())
}

func TestDiagnosticSeverities(t *testing.T) {
	r := NewReporter(LogLevelSilent)

	r.ReportDiagnostic(Diagnostic{Severity: SeverityNote, Message: "declared here"})
	r.ReportDiagnostic(Diagnostic{Severity: SeverityIgnored, Message: "ignored"})
	require.True(t, r.ShouldProceed())
	require.Zero(t, r.WarningCount())

	r.ReportDiagnostic(Diagnostic{Severity: SeverityWarning, Message: "unused variable"})
	require.True(t, r.ShouldProceed())
	require.Equal(t, 1, r.WarningCount())

	r.ReportDiagnostic(Diagnostic{Severity: SeverityFatal, Message: "file not found"})
	r.ReportDiagnostic(Diagnostic{Severity: SeverityError, Message: "expected ';'"})
	require.Equal(t, 2, r.ErrorCount())

	require.Equal(t, "Warning", SeverityWarning.String())
	require.Equal(t, "Severity(9)", Severity(9).String())
}

func TestPhasesBelowVerboseAreQuiet(t *testing.T) {
	r := NewReporter(LogLevelError)

	r.BeginPhase("Loading")
	require.Nil(t, r.phase)
	r.EndPhase()

	r.ReportInfo("Cache", "hit")
	r.ReportFinished("out")
	require.True(t, r.ShouldProceed())
}

func TestCodeSelection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.c")
	src := "int main(void) {\n\treturn x;\n}\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	sel, err := codeSelection(path, 2, 9)
	require.NoError(t, err)
	require.Contains(t, sel, "|      return x;")
	require.Contains(t, sel, "^")

	_, err = codeSelection(path, 10, 1)
	require.Error(t, err)

	_, err = codeSelection(filepath.Join(t.TempDir(), "missing.c"), 1, 1)
	require.Error(t, err)
}

func TestInitReporterReplacesGlobal(t *testing.T) {
	InitReporter(LogLevelSilent)
	t.Cleanup(func() { InitReporter(LogLevelVerbose) })

	ReportError("Test", errors.New("boom"))
	require.False(t, ShouldProceed())
	require.Equal(t, LogLevelSilent, Global().LogLevel())

	InitReporter(LogLevelSilent)
	require.True(t, ShouldProceed())
}
