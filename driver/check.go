package driver

import (
	"fmt"

	"irkit/irtext"
	"irkit/llvm"
)

// CheckResult is the outcome of checking one IR file.
type CheckResult struct {
	Path string

	// Summary outlines the module as printed by LLVM.  It is nil if the
	// printed IR could not be inspected.
	Summary *irtext.Summary

	// InspectErr is the reason the printed IR could not be inspected: the
	// textual reader does not understand every construct LLVM prints.
	InspectErr error
}

// Check loads the IR file at path with LLVM and verifies it, then reads back
// the IR LLVM prints for it and checks that every block is terminated.  An
// error is returned only if the module is invalid.
func Check(path string) (*CheckResult, error) {
	lctx := llvm.NewContext()
	defer lctx.Dispose()

	mod, err := lctx.ParseIRFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading `%s`: %w", path, err)
	}

	if err := mod.Verify(); err != nil {
		return nil, fmt.Errorf("verifying `%s`: %w", path, err)
	}

	for _, fn := range llvm.Collect(mod.Functions()) {
		for _, bb := range llvm.Collect(fn.Blocks()) {
			if !bb.IsWellFormed() {
				return nil, fmt.Errorf("block %%%s of @%s is not well formed", bb.Name(), fn.Name())
			}
		}
	}

	res := &CheckResult{Path: path}

	m, err := irtext.ParseString(path, mod.String())
	if err != nil {
		res.InspectErr = err
		return res, nil
	}

	if err := irtext.CheckTerminators(m); err != nil {
		return nil, err
	}

	res.Summary = irtext.Summarize(m)
	return res, nil
}
