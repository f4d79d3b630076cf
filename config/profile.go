// Package config loads and validates build profiles: the TOML files which
// tell the driver how to turn a set of IR modules into output files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/pelletier/go-toml"
)

// ProfileFileName is the name of the profile file looked up in a build
// directory when no profile is given explicitly.
const ProfileFileName = "irkit.toml"

// Output formats.
const (
	FormatLLVM    = "ll"  // Textual IR
	FormatBitcode = "bc"  // Bitcode
	FormatASM     = "asm" // Assembly
	FormatObject  = "obj" // Unlinked object files
	FormatBin     = "bin" // Linked executable
)

// The names accepted for each enumerated profile field.  The first name of
// each list is the default.
var (
	Formats    = []string{FormatObject, FormatLLVM, FormatBitcode, FormatASM, FormatBin}
	OptLevels  = []string{"default", "none", "less", "aggressive"}
	RelocModes = []string{"default", "static", "pic", "dynamic-no-pic", "ropi", "rwpi", "ropi-rwpi"}
	CodeModels = []string{"default", "tiny", "small", "kernel", "medium", "large"}
)

// tomlProfileFile represents the profile file as it is encoded in TOML
type tomlProfileFile struct {
	Profile *Profile `toml:"profile"`
}

// Profile is a build profile.
type Profile struct {
	Name string `toml:"name"`

	// Target is the target triple to generate code for.  The host triple is
	// used when it is empty.
	Target   string `toml:"target,omitempty"`
	CPU      string `toml:"cpu,omitempty"`
	Features string `toml:"features,omitempty"`

	OptLevel  string `toml:"opt-level"`
	Reloc     string `toml:"reloc"`
	CodeModel string `toml:"code-model"`

	// Format is one of the enumerated output formats (prefixed `Format`).
	Format string `toml:"format"`

	// OutputPath is the directory receiving per-module outputs, or the path of
	// the executable for the `bin` format.
	OutputPath string `toml:"output"`

	// Libraries are extra inputs passed to the linker.
	Libraries []string `toml:"libraries,omitempty"`

	// Jobs bounds the number of modules emitted at once.  Zero means one job
	// per CPU.
	Jobs int `toml:"jobs"`

	ShouldCache    bool   `toml:"caching"`
	CacheDirectory string `toml:"cache-directory,omitempty"`
}

// Default returns the default profile for a build rooted at dir.
func Default(dir string) *Profile {
	output := filepath.Join(dir, "bin")

	return &Profile{
		Name:           "debug",
		OptLevel:       "none",
		Reloc:          "pic",
		CodeModel:      "default",
		Format:         FormatObject,
		OutputPath:     output,
		ShouldCache:    true,
		CacheDirectory: filepath.Join(dir, ".irkit"),
	}
}

// Load reads and validates the profile file at path.  Fields missing from the
// file take their default values.
func Load(path string) (*Profile, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	tpf := &tomlProfileFile{}
	if err := toml.Unmarshal(buff, tpf); err != nil {
		return nil, fmt.Errorf("error parsing profile file at `%s`: %w", path, err)
	}

	if tpf.Profile == nil {
		return nil, fmt.Errorf("profile file at `%s` has no [profile] table", path)
	}

	prof := tpf.Profile
	prof.applyDefaults(filepath.Dir(path))

	if err := prof.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile at `%s`: %w", path, err)
	}

	return prof, nil
}

// applyDefaults fills in every empty field.
func (p *Profile) applyDefaults(dir string) {
	def := Default(dir)

	if p.Name == "" {
		p.Name = def.Name
	}

	for _, f := range []struct {
		field *string
		names []string
	}{
		{&p.OptLevel, OptLevels},
		{&p.Reloc, RelocModes},
		{&p.CodeModel, CodeModels},
		{&p.Format, Formats},
	} {
		if *f.field == "" {
			*f.field = f.names[0]
		}
	}

	if p.OutputPath == "" {
		p.OutputPath = def.OutputPath
	}

	if p.ShouldCache && p.CacheDirectory == "" {
		p.CacheDirectory = def.CacheDirectory
	}
}

// Validate checks that every enumerated field of the profile holds a known
// name.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return errors.New("missing profile name")
	}

	for _, f := range []struct {
		key, value string
		names      []string
	}{
		{"opt-level", p.OptLevel, OptLevels},
		{"reloc", p.Reloc, RelocModes},
		{"code-model", p.CodeModel, CodeModels},
		{"format", p.Format, Formats},
	} {
		if !slices.Contains(f.names, f.value) {
			return fmt.Errorf("unknown %s `%s`", f.key, f.value)
		}
	}

	if p.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", p.Jobs)
	}

	if p.ShouldCache && p.CacheDirectory == "" {
		return errors.New("caching is enabled but no cache directory is given")
	}

	return nil
}

// JobLimit returns the number of modules which may be emitted at once.
func (p *Profile) JobLimit() int {
	if p.Jobs == 0 {
		return runtime.NumCPU()
	}

	return p.Jobs
}

// ExecutablePath returns the path of the linked executable for the `bin`
// format.
func (p *Profile) ExecutablePath(goos string) string {
	if goos == "windows" && filepath.Ext(p.OutputPath) != ".exe" {
		return p.OutputPath + ".exe"
	}

	return p.OutputPath
}

// -----------------------------------------------------------------------------

// Init writes a default profile to a new profile file at path.  It fails if
// the file already exists.
func Init(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return errors.New("profile file already exists")
	}

	if !os.IsNotExist(err) {
		return fmt.Errorf("profile file error: %w", err)
	}

	return Default(filepath.Dir(path)).Save(path)
}

// Save encodes the profile to the file at path, replacing its contents.
func (p *Profile) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating profile file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(&tomlProfileFile{Profile: p}); err != nil {
		return fmt.Errorf("error encoding TOML: %w", err)
	}

	return nil
}
