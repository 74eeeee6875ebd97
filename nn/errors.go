package nn

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidTopology   = errors.New("invalid topology")
	ErrLayerIndex        = errors.New("invalid layer index")
	ErrShapeMismatch     = errors.New("shape mismatch")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrUnknownActivation = errors.New("unknown activation function")
)

// ShapeError reports a matrix or vector whose dimensions differ from the
// ones a layer was created with.
type ShapeError struct {
	Op   string // operation that rejected the value, e.g. "SetWeights"
	Want [2]int // rows, cols expected
	Got  [2]int // rows, cols supplied
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %v: want %dx%d, got %dx%d",
		e.Op, ErrShapeMismatch, e.Want[0], e.Want[1], e.Got[0], e.Got[1])
}

// Unwrap lets errors.Is match ErrShapeMismatch.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}
