package nn

import (
	"fmt"
	"math"
	"strings"
)

// Activation selects the scalar nonlinearity applied after every layer's
// affine transform. The set is closed: each constant below has exactly one
// case in Resolve.
type Activation uint8

const (
	Sigmoid Activation = iota
	Tanh
	ReLU
	BinaryStep
)

// DefaultActivation is used by networks that never had one selected.
const DefaultActivation = Sigmoid

// Activations lists every declared activation in tag order.
func Activations() []Activation {
	return []Activation{Sigmoid, Tanh, ReLU, BinaryStep}
}

// Resolve returns the transform registered for a. It panics on a value
// outside the declared set.
func Resolve(a Activation) func(float64) float64 {
	f, ok := transform(a)
	if !ok {
		panic(fmt.Sprintf("nn: unregistered activation %d", uint8(a)))
	}
	return f
}

// Valid reports whether a is one of the declared activations.
func (a Activation) Valid() bool {
	_, ok := transform(a)
	return ok
}

// transform is the single registry of activations; Resolve and Valid both
// read it.
func transform(a Activation) (func(float64) float64, bool) {
	switch a {
	case Sigmoid:
		return sigmoid, true
	case Tanh:
		return math.Tanh, true
	case ReLU:
		return relu, true
	case BinaryStep:
		return binaryStep, true
	}
	return nil, false
}

func (a Activation) String() string {
	switch a {
	case Sigmoid:
		return "sigmoid"
	case Tanh:
		return "tanh"
	case ReLU:
		return "relu"
	case BinaryStep:
		return "binary_step"
	default:
		return fmt.Sprintf("Activation(%d)", uint8(a))
	}
}

// ParseActivation maps a name such as "sigmoid" or "binary_step" to its tag.
func ParseActivation(name string) (Activation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sigmoid":
		return Sigmoid, nil
	case "tanh":
		return Tanh, nil
	case "relu":
		return ReLU, nil
	case "binary_step", "binarystep":
		return BinaryStep, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownActivation, name)
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func relu(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

func binaryStep(x float64) float64 {
	if x >= 0 {
		return 1
	}
	return 0
}
