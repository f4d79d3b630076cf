//go:build !byollvm && linux

package clang

// #cgo CFLAGS: -I/usr/lib/llvm-17/include
// #cgo LDFLAGS: -L/usr/lib/llvm-17/lib -lclang
import "C"
