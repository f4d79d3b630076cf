package driver

import (
	"fmt"

	"irkit/config"
	"irkit/llvm"
)

var optLevels = map[string]llvm.CodeGenOptLevel{
	"none":       llvm.CodeGenLevelNone,
	"less":       llvm.CodeGenLevelLess,
	"default":    llvm.CodeGenLevelDefault,
	"aggressive": llvm.CodeGenLevelAggressive,
}

var relocModes = map[string]llvm.RelocMode{
	"default":        llvm.RelocDefault,
	"static":         llvm.RelocStatic,
	"pic":            llvm.RelocPIC,
	"dynamic-no-pic": llvm.RelocDynamicNoPic,
	"ropi":           llvm.RelocROPI,
	"rwpi":           llvm.RelocRWPI,
	"ropi-rwpi":      llvm.RelocROPI_RWPI,
}

var codeModels = map[string]llvm.CodeModel{
	"default": llvm.CodeModelDefault,
	"tiny":    llvm.CodeModelTiny,
	"small":   llvm.CodeModelSmall,
	"kernel":  llvm.CodeModelKernel,
	"medium":  llvm.CodeModelMedium,
	"large":   llvm.CodeModelLarge,
}

// machineOptions converts the code generation settings of a profile to target
// machine options.  The CPU and features are left to the caller.
func machineOptions(prof *config.Profile) (llvm.MachineOptions, error) {
	var opts llvm.MachineOptions
	var ok bool

	if opts.OptLevel, ok = optLevels[prof.OptLevel]; !ok {
		return opts, fmt.Errorf("unknown opt-level `%s`", prof.OptLevel)
	}

	if opts.Reloc, ok = relocModes[prof.Reloc]; !ok {
		return opts, fmt.Errorf("unknown reloc `%s`", prof.Reloc)
	}

	if opts.Model, ok = codeModels[prof.CodeModel]; !ok {
		return opts, fmt.Errorf("unknown code-model `%s`", prof.CodeModel)
	}

	return opts, nil
}

// outputExt returns the file extension of the per-module output of format.
func outputExt(format string) string {
	switch format {
	case config.FormatLLVM:
		return ".ll"
	case config.FormatBitcode:
		return ".bc"
	case config.FormatASM:
		return ".s"
	default:
		return ".o"
	}
}

// needsMachine returns whether format requires code generation.
func needsMachine(format string) bool {
	return format != config.FormatLLVM && format != config.FormatBitcode
}
