package linker

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandForUnixTriples(t *testing.T) {
	t.Setenv("CC", "clang")

	cmd, err := Command(context.Background(), Options{
		Output:    "app",
		Objects:   []string{"a.o", "b.o"},
		Libraries: []string{"-lm"},
		Triple:    "x86_64-unknown-linux-gnu",
	})
	require.NoError(t, err)

	require.Equal(t, "clang", filepath.Base(cmd.Args[0]))
	require.Equal(t, []string{"-o", "app", "a.o", "b.o", "-lm"}, cmd.Args[1:])
}

func TestCommandValidation(t *testing.T) {
	ctx := context.Background()

	_, err := Command(ctx, Options{Objects: []string{"a.o"}})
	require.ErrorContains(t, err, "no output path")

	_, err = Command(ctx, Options{Output: "app"})
	require.ErrorContains(t, err, "no object files")
}

func TestWindowsTriplesNeedMSVC(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("MSVC discovery depends on the installed tools")
	}

	_, err := Command(context.Background(), Options{
		Output:  "app.exe",
		Objects: []string{"a.obj"},
		Triple:  "x86_64-pc-windows-msvc",
	})
	require.ErrorContains(t, err, "only be located on Windows")
}

func TestArchOf(t *testing.T) {
	require.Equal(t, "aarch64", archOf("aarch64-apple-darwin"))
	require.Equal(t, "x86_64", archOf("x86_64"))
	require.True(t, isWindowsTriple("i686-pc-windows-gnu"))
	require.False(t, isWindowsTriple("x86_64-unknown-linux-gnu"))
}

func TestParseVSWhere(t *testing.T) {
	output := "instanceId: 1a2b3c\r\n" +
		"installationPath: C:\\Program Files\\Microsoft Visual Studio\\2022\\Community\r\n" +
		"installationVersion: 17.8.34330.188\r\n" +
		"isPrerelease: 0\r\n"

	instance, ok := parseVSWhere(output)
	require.True(t, ok)
	require.Equal(t, `C:\Program Files\Microsoft Visual Studio\2022\Community`, instance.InstallPath)
	require.Equal(t, "17.8.34330.188", instance.Version)

	_, ok = parseVSWhere("installationVersion: 17.0\n")
	require.False(t, ok)
}

func TestVersionInt(t *testing.T) {
	older, err := versionInt("16.11.2")
	require.NoError(t, err)

	newer, err := versionInt("17.0.1")
	require.NoError(t, err)
	require.Greater(t, newer, older)

	sdkA, err := versionInt("10.0.19041.0")
	require.NoError(t, err)

	sdkB, err := versionInt("10.0.22621.0")
	require.NoError(t, err)
	require.Greater(t, sdkB, sdkA)

	_, err = versionInt("17.x")
	require.Error(t, err)

	_, err = versionInt("1.2.3.4.5")
	require.Error(t, err)
}

func TestMergeEnv(t *testing.T) {
	merged := mergeEnv(
		[]string{"PATH=C:\\vc\\bin", "LIB=C:\\vc\\lib"},
		[]string{"Path=C:\\Windows", "TEMP=C:\\tmp"},
	)

	require.Equal(t, []string{
		"PATH=C:\\vc\\bin;C:\\Windows",
		"LIB=C:\\vc\\lib",
		"TEMP=C:\\tmp",
	}, merged)
}

func TestLinkErrorUnwraps(t *testing.T) {
	inner := context.Canceled
	le := &LinkError{Linker: "cc", Output: "undefined reference to `main'", Err: inner}

	require.ErrorIs(t, le, context.Canceled)
	require.Contains(t, le.Error(), "undefined reference")
}
