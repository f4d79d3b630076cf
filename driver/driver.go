// Package driver turns IR files into output files: it loads and verifies each
// module, emits it in the format selected by the build profile, and links the
// emitted objects into an executable.
package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"irkit/config"
	"irkit/linker"
	"irkit/llvm"
	"irkit/report"
)

// ErrNoInputs is returned when a build finds no IR files to build.
var ErrNoInputs = errors.New("no .ll or .bc files found")

// Driver runs builds for a single profile.
type Driver struct {
	profile *config.Profile
	rep     *report.Reporter

	// triple is the target triple of the build.
	triple string

	cache *Cache
}

// New creates a new driver building with prof and reporting to rep.
func New(prof *config.Profile, rep *report.Reporter) (*Driver, error) {
	if err := prof.Validate(); err != nil {
		return nil, err
	}

	d := &Driver{profile: prof, rep: rep, triple: prof.Target}
	if d.triple == "" {
		d.triple = llvm.HostTriple()
	} else {
		d.triple = llvm.NormalizeTriple(d.triple)
	}

	if prof.ShouldCache && needsMachine(prof.Format) {
		cache, err := OpenCache(prof.CacheDirectory)
		if err != nil {
			return nil, err
		}

		d.cache = cache
	}

	return d, nil
}

// Triple returns the target triple of the build.
func (d *Driver) Triple() string {
	return d.triple
}

// CollectInputs returns the IR files at path: path itself if it is a file, or
// the `.ll` and `.bc` files of the directory tree rooted at path.
func CollectInputs(path string) ([]string, error) {
	finfo, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !finfo.IsDir() {
		return []string{path}, nil
	}

	var inputs []string
	err = filepath.WalkDir(path, func(p string, de os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if de.IsDir() {
			// skip hidden directories such as the cache
			if p != path && strings.HasPrefix(de.Name(), ".") {
				return filepath.SkipDir
			}

			return nil
		}

		switch filepath.Ext(p) {
		case ".ll", ".bc":
			inputs = append(inputs, p)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w in `%s`", ErrNoInputs, path)
	}

	sort.Strings(inputs)
	return inputs, nil
}

// -----------------------------------------------------------------------------

// Build builds every input.  It returns the paths of the outputs: one per
// input, or the executable for the `bin` format.  Errors from individual
// modules are reported as they happen; the first one is also returned.
func (d *Driver) Build(ctx context.Context, inputs []string) ([]string, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}

	if needsMachine(d.profile.Format) {
		if err := d.initializeTarget(); err != nil {
			return nil, err
		}
	}

	outDir := d.profile.OutputPath
	if d.profile.Format == config.FormatBin {
		// objects go next to the executable unless they are cached
		outDir = filepath.Join(filepath.Dir(d.profile.OutputPath), ".irkit-objects")
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	d.rep.BeginPhase("Emitting")

	outputs := make([]string, len(inputs))
	names := outputNames(inputs)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.profile.JobLimit())

	for i, input := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			out, err := d.buildModule(input, filepath.Join(outDir, names[i]+outputExt(d.profile.Format)))
			if err != nil {
				d.rep.ReportError("Build", err)
				return err
			}

			outputs[i] = out
			return nil
		})
	}

	err := g.Wait()

	if d.cache != nil {
		if cerr := d.cache.Save(); cerr != nil {
			d.rep.ReportWarning("Cache", cerr.Error())
		}
	}

	d.rep.EndPhase()

	if err != nil {
		return nil, err
	}

	if d.profile.Format != config.FormatBin {
		return outputs, nil
	}

	d.rep.BeginPhase("Linking")
	defer d.rep.EndPhase()

	exe := d.profile.ExecutablePath(runtime.GOOS)
	if err := linker.Link(ctx, linker.Options{
		Output:    exe,
		Objects:   outputs,
		Libraries: d.profile.Libraries,
		Triple:    d.triple,
	}); err != nil {
		d.rep.ReportError("Link", err)
		return nil, err
	}

	return []string{exe}, nil
}

// outputNames derives a distinct output name for every input from its base
// name.
func outputNames(inputs []string) []string {
	names := make([]string, len(inputs))
	seen := make(map[string]int)

	for i, input := range inputs {
		name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))

		if n := seen[name]; n > 0 {
			names[i] = fmt.Sprintf("%s_%d", name, n)
		} else {
			names[i] = name
		}

		seen[name]++
	}

	return names
}

// initializeTarget initializes the LLVM targets needed to generate code for
// the triple of the build.
func (d *Driver) initializeTarget() error {
	if d.profile.Target == "" {
		return llvm.InitializeNativeTarget()
	}

	llvm.InitializeAllTargets()
	return nil
}

// buildModule builds a single input into the file at outPath.  Each module is
// built in its own context so that modules can be built concurrently.
func (d *Driver) buildModule(input, outPath string) (string, error) {
	content, err := os.ReadFile(input)
	if err != nil {
		return "", err
	}

	var key string
	if d.cache != nil {
		prof := d.profile
		key = CacheKey(content, d.triple, prof.CPU, prof.Features, prof.OptLevel, prof.Reloc, prof.CodeModel, prof.Format)

		if cached, ok := d.cache.Lookup(key); ok {
			d.rep.ReportInfo("Cache", "reusing output for "+input)
			return outPath, copyFile(cached, outPath)
		}
	}

	lctx := llvm.NewContext()
	defer lctx.Dispose()

	buf, err := llvm.NewMemoryBufferFromBytes(content, input)
	if err != nil {
		return "", err
	}

	mod, err := lctx.ParseIR(buf)
	if err != nil {
		return "", fmt.Errorf("loading `%s`: %w", input, err)
	}

	if err := mod.Verify(); err != nil {
		return "", fmt.Errorf("verifying `%s`: %w", input, err)
	}

	switch d.profile.Format {
	case config.FormatLLVM:
		return outPath, mod.WriteToFile(outPath)
	case config.FormatBitcode:
		return outPath, mod.WriteBitcodeToFile(outPath)
	}

	tm, err := d.newMachine(lctx)
	if err != nil {
		return "", err
	}

	if err := tm.ConfigureModule(mod); err != nil {
		return "", err
	}

	fileType := llvm.ObjectFile
	if d.profile.Format == config.FormatASM {
		fileType = llvm.AssemblyFile
	}

	emitted, err := tm.EmitToMemoryBuffer(mod, fileType)
	if err != nil {
		return "", fmt.Errorf("emitting `%s`: %w", input, err)
	}
	defer emitted.Dispose()

	data := emitted.Bytes()
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", err
	}

	if d.cache != nil {
		if _, err := d.cache.Store(key, input, outputExt(d.profile.Format), data); err != nil {
			d.rep.ReportWarning("Cache", err.Error())
		}
	}

	return outPath, nil
}

// newMachine creates the target machine of the build in lctx.
func (d *Driver) newMachine(lctx *llvm.Context) (*llvm.TargetMachine, error) {
	opts, err := machineOptions(d.profile)
	if err != nil {
		return nil, err
	}

	if d.profile.Target == "" {
		if d.profile.CPU != "" || d.profile.Features != "" {
			opts.CPU, opts.Features = d.profile.CPU, d.profile.Features
		} else {
			opts.CPU, opts.Features = llvm.HostCPUName(), llvm.HostCPUFeatures()
		}
	} else {
		opts.CPU, opts.Features = d.profile.CPU, d.profile.Features
	}

	target, err := llvm.TargetFromTriple(d.triple)
	if err != nil {
		return nil, err
	}

	return lctx.NewTargetMachine(target, d.triple, opts)
}

// copyFile copies the file at src to dst.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	return os.WriteFile(dst, data, 0o644)
}
