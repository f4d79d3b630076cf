package llvm

import (
	"errors"
	"fmt"
)

// The kinds of failure reported by this package.  Every error returned by an
// operation wraps exactly one of these so that callers can test for it using
// `errors.Is`.
var (
	// ErrConstruction indicates that LLVM returned a null object from an
	// operation that is required to produce one.
	ErrConstruction = errors.New("construction failed")

	// ErrInvalidArgument indicates that an argument violated a precondition
	// checked before anything was passed to LLVM.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnimplemented indicates an operation whose semantics are not wired to
	// the LLVM C API.
	ErrUnimplemented = errors.New("not implemented")

	// ErrDisposed indicates that a handle was used after the context or module
	// that owns it was disposed.
	ErrDisposed = errors.New("handle used after its owner was disposed")

	// ErrUnpositioned indicates that a builder was asked to create an
	// instruction while it had no insertion point.
	ErrUnpositioned = errors.New("builder has no insertion point")
)

// OpError describes a failed operation: the operation attempted, the kind of
// failure, and optionally some detail about what went wrong.
type OpError struct {
	// The operation that failed, eg. `CreateAdd`.
	Op string

	// Additional information about the failure.  May be empty.
	Detail string

	// One of the sentinel errors above or an error produced by LLVM.
	Err error
}

func (e *OpError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}

	return fmt.Sprintf("%s: %s: %s", e.Op, e.Err, e.Detail)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// invalidArg returns a new invalid argument error for op.
func invalidArg(op, detail string, args ...interface{}) error {
	return &OpError{Op: op, Err: ErrInvalidArgument, Detail: fmt.Sprintf(detail, args...)}
}

// constructionFailed returns a new construction error for op.
func constructionFailed(op string) error {
	return &OpError{Op: op, Err: ErrConstruction, Detail: "LLVM returned a null handle"}
}

// unimplemented returns a new unimplemented error for op.
func unimplemented(op, detail string) error {
	return &OpError{Op: op, Err: ErrUnimplemented, Detail: detail}
}

// llvmError converts an error message produced by LLVM into an error.
func llvmError(op, msg string) error {
	return &OpError{Op: op, Err: errors.New(msg)}
}
