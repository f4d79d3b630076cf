package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"irkit/config"
)

func TestUsageErrorExitsNonZero(t *testing.T) {
	require.Equal(t, 2, run([]string{"irkit", "frobnicate"}))
}

func TestProfileInit(t *testing.T) {
	dir := t.TempDir()

	require.Equal(t, 0, run([]string{"irkit", "profile", "init", dir}))

	path := filepath.Join(dir, config.ProfileFileName)
	_, err := os.Stat(path)
	require.NoError(t, err)

	prof, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", prof.Name)

	// the existing profile is not overwritten
	require.Equal(t, 1, run([]string{"irkit", "profile", "init", dir}))
}

func TestLoadProfileFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()

	prof, err := loadProfile(dir, "")
	require.NoError(t, err)
	require.Equal(t, config.Default(dir), prof)

	require.NoError(t, config.Init(filepath.Join(dir, config.ProfileFileName)))

	input := filepath.Join(dir, "main.ll")
	require.NoError(t, os.WriteFile(input, nil, 0o644))

	prof, err = loadProfile(input, "")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "bin"), prof.OutputPath)
}
