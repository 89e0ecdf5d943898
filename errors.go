package cnv

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrIllegalArgument indicates a bad window, capacity, name or substitution length.
	ErrIllegalArgument = errors.New("illegal argument")

	// ErrNotFound indicates an unknown codec name or alias, or a resource lookup miss.
	ErrNotFound = errors.New("not found")

	// ErrIllegalSequence indicates malformed input.
	ErrIllegalSequence = errors.New("illegal sequence")

	// ErrUnassigned indicates well-formed input with no mapping in the target codec.
	ErrUnassigned = errors.New("unassigned mapping")

	// ErrTruncated indicates a valid prefix that needs more input to complete.
	// With flush=false it is recoverable: the prefix is buffered in the converter
	// and the conversion resumes on the next call.
	ErrTruncated = errors.New("truncated sequence")

	// ErrOutputExhausted indicates the caller's output window is full. The
	// conversion resumes when called again with the same remaining input.
	ErrOutputExhausted = errors.New("output exhausted")

	// ErrBufferOverflow is the whole-buffer counterpart of ErrOutputExhausted.
	// It is always delivered as an *OverflowError carrying the required capacity.
	ErrBufferOverflow = errors.New("buffer overflow")

	// ErrFatal indicates a table load failure, a callback failure or a carry-over overflow.
	ErrFatal = errors.New("fatal conversion failure")

	// ErrClosed indicates use of a converter after Close.
	ErrClosed = errors.New("converter closed")
)

// Direction tells which way a conversion runs.
type Direction string

const (
	// DirectionDecode converts codec bytes to code units.
	DirectionDecode Direction = "decode"

	// DirectionEncode converts code units to codec bytes.
	DirectionEncode Direction = "encode"
)

// ConversionError reports input the engine could not convert.
// It wraps a sentinel error with the position and the offending data.
type ConversionError struct {
	Err       error     // Underlying sentinel error (ErrIllegalSequence, ErrUnassigned, ErrTruncated, ErrFatal)
	Codec     string    // Codec name
	Direction Direction // Conversion direction
	Reason    Reason    // Callback reason that triggered the error
	Offset    int       // Offset of the offending unit in the caller's input window
	Bytes     []byte    // Offending bytes (decode)
	Units     []uint16  // Offending code units (encode)
	Cause     error     // Original error returned by a callback
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("%s %s at offset %d", e.Direction, e.Err.Error(), e.Offset)
	if e.Codec != "" {
		msg = e.Codec + ": " + msg
	}
	switch {
	case len(e.Bytes) > 0:
		msg += fmt.Sprintf(" (bytes % X)", e.Bytes)
	case len(e.Units) > 0:
		msg += fmt.Sprintf(" (units %04X)", e.Units)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// OverflowError reports that a whole-buffer conversion did not fit.
// Required is the exact capacity the destination needs.
type OverflowError struct {
	Required int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s: %d units required", ErrBufferOverflow.Error(), e.Required)
}

func (e *OverflowError) Unwrap() error {
	return ErrBufferOverflow
}

// RegistryError represents a failed registry operation.
type RegistryError struct {
	Err   error  // Underlying sentinel error (ErrNotFound, ErrIllegalArgument, ErrFatal)
	Op    string // Operation that failed (open, load, name)
	Name  string // Codec name or alias involved
	Cause error  // Original error from a collaborator
}

func (e *RegistryError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
	if e.Name != "" {
		msg = fmt.Sprintf("%s %q: %s", e.Op, e.Name, e.Err.Error())
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RegistryError) Unwrap() error {
	return e.Err
}

// newRegistryError creates a RegistryError for a failed registry operation.
func newRegistryError(sentinel error, op, name string, cause error) error {
	return &RegistryError{
		Err:   sentinel,
		Op:    op,
		Name:  name,
		Cause: cause,
	}
}

// newFatalError wraps a callback or carry-over failure.
func newFatalError(codec string, dir Direction, offset int, cause error) error {
	return &ConversionError{
		Err:       ErrFatal,
		Codec:     codec,
		Direction: dir,
		Offset:    offset,
		Cause:     cause,
	}
}
