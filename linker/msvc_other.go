//go:build !windows

package linker

import "errors"

// findMSVC locates the MSVC linker.  It is only available on Windows.
func findMSVC(targetArch string) (*toolEnv, error) {
	return nil, errors.New("the MSVC linker can only be located on Windows")
}
