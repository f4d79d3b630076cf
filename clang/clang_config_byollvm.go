//go:build byollvm

package clang

// With the byollvm tag, the include and library paths are taken from the
// CGO_CFLAGS and CGO_LDFLAGS environment variables.
import "C"
