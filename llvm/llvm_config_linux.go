//go:build !byollvm && linux

package llvm

// #cgo CFLAGS: -I/usr/lib/llvm-17/include -D_GNU_SOURCE -D__STDC_CONSTANT_MACROS -D__STDC_FORMAT_MACROS -D__STDC_LIMIT_MACROS
// #cgo LDFLAGS: -L/usr/lib/llvm-17/lib -lLLVM-17
import "C"
