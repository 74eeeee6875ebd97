package nn

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Layer is a fully-connected layer: neurons × inputs weights plus one bias
// per neuron. Its dimensions are fixed at creation.
type Layer struct {
	size    int
	weights *mat.Dense
	bias    *mat.VecDense
}

// NewLayer allocates a layer with weights drawn uniformly from [-1, 1) using
// src and a zero bias. src is only used during the call.
func NewLayer(neurons, inputs int, src rand.Source) *Layer {
	return &Layer{
		size:    neurons,
		weights: mat.NewDense(neurons, inputs, randomArray(neurons*inputs, src)),
		bias:    mat.NewVecDense(neurons, nil),
	}
}

// NewLayerFrom builds a layer around copies of w and b, which must agree on
// the neuron count.
func NewLayerFrom(w mat.Matrix, b mat.Vector) (*Layer, error) {
	r, c := w.Dims()
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("%w: empty %dx%d layer", ErrInvalidTopology, r, c)
	}
	if b.Len() != r {
		return nil, &ShapeError{Op: "NewLayerFrom", Want: [2]int{r, 1}, Got: [2]int{b.Len(), 1}}
	}
	return &Layer{
		size:    r,
		weights: mat.DenseCopyOf(w),
		bias:    mat.VecDenseCopyOf(b),
	}, nil
}

func randomArray(size int, src rand.Source) []float64 {
	dist := distuv.Uniform{
		Min: -1,
		Max: 1,
		Src: src,
	}

	data := make([]float64, size)
	for i := range data {
		data[i] = dist.Rand()
	}
	return data
}

// Forward computes f(W·x + b) into a new vector.
func (l *Layer) Forward(x mat.Vector, f func(float64) float64) (*mat.VecDense, error) {
	if x.Len() != l.Inputs() {
		return nil, &ShapeError{Op: "Forward", Want: [2]int{l.Inputs(), 1}, Got: [2]int{x.Len(), 1}}
	}

	z := mat.NewVecDense(l.size, nil)
	z.MulVec(l.weights, x)
	z.AddVec(z, l.bias)
	for i := 0; i < z.Len(); i++ {
		z.SetVec(i, f(z.AtVec(i)))
	}
	return z, nil
}

func (l *Layer) checkIndex(neuron, input int) error {
	if neuron < 0 || neuron >= l.size || input < 0 || input >= l.Inputs() {
		return fmt.Errorf("%w: weight (%d, %d) of %dx%d layer",
			ErrIndexOutOfRange, neuron, input, l.size, l.Inputs())
	}
	return nil
}

// SetWeight sets the weight connecting input to neuron.
func (l *Layer) SetWeight(neuron, input int, v float64) error {
	if err := l.checkIndex(neuron, input); err != nil {
		return err
	}
	l.weights.Set(neuron, input, v)
	return nil
}

// Weight returns the weight connecting input to neuron.
func (l *Layer) Weight(neuron, input int) (float64, error) {
	if err := l.checkIndex(neuron, input); err != nil {
		return 0, err
	}
	return l.weights.At(neuron, input), nil
}

// SetWeights replaces the whole weight matrix. m must have exactly the
// layer's shape; on mismatch the layer is left untouched.
func (l *Layer) SetWeights(m mat.Matrix) error {
	r, c := m.Dims()
	wr, wc := l.weights.Dims()
	if r != wr || c != wc {
		return &ShapeError{Op: "SetWeights", Want: [2]int{wr, wc}, Got: [2]int{r, c}}
	}
	l.weights.Copy(m)
	return nil
}

// SetBiases replaces the bias vector. v must have one entry per neuron.
func (l *Layer) SetBiases(v mat.Vector) error {
	if v.Len() != l.size {
		return &ShapeError{Op: "SetBiases", Want: [2]int{l.size, 1}, Got: [2]int{v.Len(), 1}}
	}
	l.bias.CopyVec(v)
	return nil
}

// Weights returns a copy of the weight matrix.
func (l *Layer) Weights() *mat.Dense {
	return mat.DenseCopyOf(l.weights)
}

// Biases returns a copy of the bias vector.
func (l *Layer) Biases() *mat.VecDense {
	return mat.VecDenseCopyOf(l.bias)
}

// Size is the number of neurons.
func (l *Layer) Size() int {
	return l.size
}

// Inputs is the width of the vector the layer consumes.
func (l *Layer) Inputs() int {
	_, c := l.weights.Dims()
	return c
}
