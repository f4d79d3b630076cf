package linker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"golang.org/x/sys/execabs"
)

// The table mapping LLVM target architectures names to their VS component
// architecture names: used to lookup VS instances using `vswhere.exe`.
var llvmArchToVSArch = map[string]string{
	"i386":    "x86.x64",
	"i686":    "x86.x64",
	"x86_64":  "x86.x64",
	"arm":     "ARM",
	"aarch64": "ARM64",
}

// The table mapping GOARCH values to their VC path host suffixes.
var hostArchToVCHostSuffix = map[string]string{
	"386":   "X86",
	"amd64": "X64",
	"arm":   "X86",
	"arm64": "X64",
}

// The table mapping LLVM architecture names to their VC 15+ subdirectory.
var llvmArchToVCSubDir = map[string]string{
	"i386":    "x86",
	"i686":    "x86",
	"x86_64":  "x64",
	"arm":     "arm",
	"aarch64": "arm64",
}

// vsInstance is an installed Visual Studio instance.
type vsInstance struct {
	InstallPath string
	Version     string
}

// parseVSWhere extracts the instance described by the text output of
// `vswhere.exe -latest -format text`.
func parseVSWhere(output string) (vsInstance, bool) {
	var instance vsInstance

	for _, line := range strings.Split(output, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), ": ")
		if !ok {
			continue
		}

		switch key {
		case "installationPath":
			instance.InstallPath = value
		case "installationVersion":
			instance.Version = value
		}
	}

	return instance, instance.InstallPath != "" && instance.Version != ""
}

// versionInt converts a VS version string to an integer so it can be
// compared.  Each of the components is encoded into its own bit range.
func versionInt(version string) (uint64, error) {
	var components [4]uint64

	parts := strings.Split(version, ".")
	if len(parts) > len(components) {
		return 0, fmt.Errorf("malformed VS version `%s`", version)
	}

	for i, part := range parts {
		v, err := strconv.ParseUint(part, 10, 16)
		if err != nil {
			return 0, fmt.Errorf("malformed VS version `%s`: %w", version, err)
		}

		components[i] = v
	}

	return components[0]<<48 | (components[1]&255)<<32 | components[2]<<16 | components[3], nil
}

// -----------------------------------------------------------------------------

// toolEnv is a located MSVC tool and the search paths it must run with.
type toolEnv struct {
	ToolPath     string
	BinPaths     []string
	LibPaths     []string
	IncludePaths []string
}

// command creates the command running the tool in its environment.
func (te *toolEnv) command(ctx context.Context) *exec.Cmd {
	cmd := execabs.CommandContext(ctx, te.ToolPath)
	cmd.Env = mergeEnv([]string{
		"PATH=" + strings.Join(te.BinPaths, ";"),
		"LIB=" + strings.Join(te.LibPaths, ";"),
		"INCLUDE=" + strings.Join(te.IncludePaths, ";"),
	}, os.Environ())

	return cmd
}

// mergeEnv adds the variables of parent to env.  Variables present in both are
// joined as search paths with the values of env first.  Names are compared
// without regard to case as they are on Windows.
func mergeEnv(env, parent []string) []string {
	merged := append([]string(nil), env...)

outer:
	for _, pv := range parent {
		pk, pval, _ := strings.Cut(pv, "=")

		for i, ev := range merged {
			ek, _, _ := strings.Cut(ev, "=")

			if strings.EqualFold(pk, ek) {
				merged[i] += ";" + pval
				continue outer
			}
		}

		merged = append(merged, pv)
	}

	return merged
}
