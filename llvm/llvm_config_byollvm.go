//go:build byollvm

package llvm

// With the byollvm tag, the include and library paths are taken from the
// CGO_CFLAGS and CGO_LDFLAGS environment variables (eg. from `llvm-config`).
import "C"
