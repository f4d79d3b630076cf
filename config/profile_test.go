package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	prof, err := Load(filepath.Join("testdata", "release.toml"))
	require.NoError(t, err)

	require.Equal(t, "release", prof.Name)
	require.Equal(t, "x86_64-unknown-linux-gnu", prof.Target)
	require.Equal(t, "aggressive", prof.OptLevel)
	require.Equal(t, "default", prof.Reloc)
	require.Equal(t, "default", prof.CodeModel)
	require.Equal(t, FormatBin, prof.Format)
	require.Equal(t, []string{"-lm"}, prof.Libraries)
	require.Equal(t, 4, prof.JobLimit())
	require.False(t, prof.ShouldCache)
	require.Empty(t, prof.CacheDirectory)

	require.Equal(t, "out/app.exe", prof.ExecutablePath("windows"))
	require.Equal(t, "out/app", prof.ExecutablePath("linux"))
}

func TestLoadRejectsInvalidProfiles(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "bad_reloc.toml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown reloc `sideways`")

	_, err = Load(filepath.Join("testdata", "no_table.toml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "[profile]")

	_, err = Load(filepath.Join("testdata", "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(p *Profile)
		errMsg string
	}{
		{"default", func(p *Profile) {}, ""},
		{"no name", func(p *Profile) { p.Name = "" }, "missing profile name"},
		{"opt level", func(p *Profile) { p.OptLevel = "O9" }, "unknown opt-level"},
		{"code model", func(p *Profile) { p.CodeModel = "huge" }, "unknown code-model"},
		{"format", func(p *Profile) { p.Format = "exe" }, "unknown format"},
		{"jobs", func(p *Profile) { p.Jobs = -1 }, "jobs must not be negative"},
		{"cache dir", func(p *Profile) { p.CacheDirectory = "" }, "no cache directory"},
		{"no cache", func(p *Profile) { p.ShouldCache, p.CacheDirectory = false, "" }, ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := Default(t.TempDir())
			c.modify(p)

			err := p.Validate()
			if c.errMsg == "" {
				require.NoError(t, err)
			} else {
				require.ErrorContains(t, err, c.errMsg)
			}
		})
	}
}

func TestInitWritesLoadableProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProfileFileName)

	require.NoError(t, Init(path))

	prof, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Default(dir), prof)

	err = Init(path)
	require.ErrorContains(t, err, "already exists")
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")

	prof := Default(dir)
	prof.Name = "custom"
	prof.Format = FormatASM
	prof.Libraries = []string{"a.o", "b.o"}
	prof.Jobs = 2
	require.NoError(t, prof.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, prof, loaded)
}
