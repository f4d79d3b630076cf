// Package linker runs the system linker over the object files emitted by the
// driver.  On Windows it locates the MSVC `link.exe` along with the SDK
// directories it needs; elsewhere it links through the C compiler driver so
// that the C runtime is linked in.
package linker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/execabs"
)

// Options describe a link.
type Options struct {
	// Output is the path of the executable to produce.
	Output string

	// Objects are the object files to link.
	Objects []string

	// Libraries are extra linker inputs: library files or `-l` flags.
	Libraries []string

	// Triple is the target triple of the objects.  It selects the linker
	// flavor and, for MSVC, the target architecture.
	Triple string
}

// LinkError is returned when the linker ran but failed.  It carries the
// linker's output.
type LinkError struct {
	Linker string
	Output string
	Err    error
}

func (le *LinkError) Error() string {
	return fmt.Sprintf("link error (%s): %s\n%s", le.Linker, le.Err, le.Output)
}

func (le *LinkError) Unwrap() error {
	return le.Err
}

// isWindowsTriple returns whether triple targets Windows.
func isWindowsTriple(triple string) bool {
	return strings.Contains(triple, "windows") || strings.Contains(triple, "win32")
}

// archOf returns the architecture component of triple.
func archOf(triple string) string {
	arch, _, _ := strings.Cut(triple, "-")
	return arch
}

// Command builds the link command for opts without running it.
func Command(ctx context.Context, opts Options) (*exec.Cmd, error) {
	if opts.Output == "" {
		return nil, errors.New("no output path given")
	}

	if len(opts.Objects) == 0 {
		return nil, errors.New("no object files to link")
	}

	if isWindowsTriple(opts.Triple) {
		return msvcCommand(ctx, opts)
	}

	return ccCommand(ctx, opts), nil
}

// ccCommand links through the C compiler driver named by `CC`, or `cc`.
func ccCommand(ctx context.Context, opts Options) *exec.Cmd {
	cc := os.Getenv("CC")
	if cc == "" {
		cc = "cc"
	}

	args := []string{"-o", opts.Output}
	args = append(args, opts.Objects...)
	args = append(args, opts.Libraries...)

	return execabs.CommandContext(ctx, cc, args...)
}

// msvcCommand links with the MSVC linker.
func msvcCommand(ctx context.Context, opts Options) (*exec.Cmd, error) {
	env, err := findMSVC(archOf(opts.Triple))
	if err != nil {
		return nil, err
	}

	cmd := env.command(ctx)
	cmd.Args = append(
		cmd.Args,
		"/subsystem:console", // Set the executable to be a console app.
		"/nologo",            // Turn off the logo banner for error reporting.
		"/out:"+opts.Output,
	)

	cmd.Args = append(cmd.Args, opts.Objects...)
	cmd.Args = append(cmd.Args, opts.Libraries...)
	cmd.Args = append(cmd.Args, "kernel32.lib", "libcmt.lib")

	return cmd, nil
}

// Link links the objects of opts into an executable.
func Link(ctx context.Context, opts Options) error {
	cmd, err := Command(ctx, opts)
	if err != nil {
		return err
	}

	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// we were able to find the linker, but there were link errors
			return &LinkError{Linker: cmd.Path, Output: string(out), Err: err}
		}

		return fmt.Errorf("failed to run linker: %w", err)
	}

	return nil
}
