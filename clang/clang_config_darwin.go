//go:build !byollvm && darwin

package clang

// #cgo CFLAGS: -I/opt/homebrew/opt/llvm@17/include
// #cgo LDFLAGS: -L/opt/homebrew/opt/llvm@17/lib -Wl,-rpath,/opt/homebrew/opt/llvm@17/lib -lclang
import "C"
