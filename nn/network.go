package nn

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Network is a linear stack of fully-connected layers sharing one
// activation function.
//
// Layers are addressed by external index: 0 is the input layer, which has
// no parameters, and 1..NumLayers()-1 are the weighted layers. Setters and
// getters of parameters therefore reject 0, while LayerSize(0) reports the
// input width.
//
// A Network is not safe for concurrent mutation. Concurrent FeedForward
// calls are fine as long as nobody writes to it.
type Network struct {
	inputs     int
	layers     []*Layer
	activation Activation
}

// New builds a network from topology, whose first element is the input
// width and each following element a layer's neuron count. Weights are drawn
// from src; see NewLayer.
func New(topology []int, src rand.Source) (*Network, error) {
	if err := validateTopology(topology); err != nil {
		return nil, err
	}

	layers := make([]*Layer, 0, len(topology)-1)
	for i := 1; i < len(topology); i++ {
		layers = append(layers, NewLayer(topology[i], topology[i-1], src))
	}

	return &Network{
		inputs:     topology[0],
		layers:     layers,
		activation: DefaultActivation,
	}, nil
}

func validateTopology(topology []int) error {
	if len(topology) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidTopology)
	}
	for i, w := range topology {
		if w <= 0 {
			return fmt.Errorf("%w: width %d at position %d", ErrInvalidTopology, w, i)
		}
	}
	return nil
}

// Assemble builds a network around existing layers. Each layer must consume
// the previous layer's output, the first one a vector of width inputs.
func Assemble(inputs int, layers []*Layer, a Activation) (*Network, error) {
	if inputs <= 0 {
		return nil, fmt.Errorf("%w: input width %d", ErrInvalidTopology, inputs)
	}
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownActivation, uint8(a))
	}

	prev := inputs
	for i, l := range layers {
		if l.Inputs() != prev {
			return nil, fmt.Errorf("%w: layer %d takes %d inputs, previous width is %d",
				ErrInvalidTopology, i+1, l.Inputs(), prev)
		}
		prev = l.Size()
	}

	return &Network{
		inputs:     inputs,
		layers:     append([]*Layer(nil), layers...),
		activation: a,
	}, nil
}

// FeedForward propagates input through every layer and returns the output
// of the last one. With no weighted layers it returns a copy of input.
func (n *Network) FeedForward(input []float64) ([]float64, error) {
	if len(input) != n.inputs {
		return nil, &ShapeError{Op: "FeedForward", Want: [2]int{n.inputs, 1}, Got: [2]int{len(input), 1}}
	}

	f := Resolve(n.activation)
	out := mat.NewVecDense(len(input), append([]float64(nil), input...))
	for i, l := range n.layers {
		next, err := l.Forward(out, f)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i+1, err)
		}
		out = next
	}

	return out.RawVector().Data, nil
}

// layer translates an external layer index into the owning Layer.
func (n *Network) layer(layer int) (*Layer, error) {
	if layer < 1 || layer > len(n.layers) {
		return nil, fmt.Errorf("%w: %d (weighted layers are 1..%d)", ErrLayerIndex, layer, len(n.layers))
	}
	return n.layers[layer-1], nil
}

// SetLayerWeights replaces the weight matrix of layer.
func (n *Network) SetLayerWeights(layer int, m mat.Matrix) error {
	l, err := n.layer(layer)
	if err != nil {
		return err
	}
	return l.SetWeights(m)
}

// SetLayerBiases replaces the bias vector of layer.
func (n *Network) SetLayerBiases(layer int, v mat.Vector) error {
	l, err := n.layer(layer)
	if err != nil {
		return err
	}
	return l.SetBiases(v)
}

// SetWeight sets a single weight of layer.
func (n *Network) SetWeight(layer, neuron, input int, v float64) error {
	l, err := n.layer(layer)
	if err != nil {
		return err
	}
	return l.SetWeight(neuron, input, v)
}

// GetWeight reads a single weight of layer.
func (n *Network) GetWeight(layer, neuron, input int) (float64, error) {
	l, err := n.layer(layer)
	if err != nil {
		return 0, err
	}
	return l.Weight(neuron, input)
}

// LayerWeights returns a copy of the weight matrix of layer.
func (n *Network) LayerWeights(layer int) (*mat.Dense, error) {
	l, err := n.layer(layer)
	if err != nil {
		return nil, err
	}
	return l.Weights(), nil
}

// LayerBiases returns a copy of the bias vector of layer.
func (n *Network) LayerBiases(layer int) (*mat.VecDense, error) {
	l, err := n.layer(layer)
	if err != nil {
		return nil, err
	}
	return l.Biases(), nil
}

// NumLayers counts every layer including the input layer.
func (n *Network) NumLayers() int {
	return len(n.layers) + 1
}

// LayerSize returns the width of layer; 0 is the input width.
func (n *Network) LayerSize(layer int) (int, error) {
	if layer == 0 {
		return n.inputs, nil
	}
	l, err := n.layer(layer)
	if err != nil {
		return 0, err
	}
	return l.Size(), nil
}

// Topology returns the widths the network was built from.
func (n *Network) Topology() []int {
	t := make([]int, 0, n.NumLayers())
	t = append(t, n.inputs)
	for _, l := range n.layers {
		t = append(t, l.Size())
	}
	return t
}

// InputSize is the width FeedForward expects.
func (n *Network) InputSize() int {
	return n.inputs
}

// OutputSize is the width FeedForward returns.
func (n *Network) OutputSize() int {
	if len(n.layers) == 0 {
		return n.inputs
	}
	return n.layers[len(n.layers)-1].Size()
}

// Activation returns the activation applied by every layer.
func (n *Network) Activation() Activation {
	return n.activation
}

// SetActivation selects the activation applied by every layer.
func (n *Network) SetActivation(a Activation) error {
	if !a.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownActivation, uint8(a))
	}
	n.activation = a
	return nil
}

// Print writes each layer's weights followed by its biases with two
// decimals.
func (n *Network) Print(w io.Writer) error {
	for _, l := range n.layers {
		_, err := fmt.Fprintf(w, "%.2f\n\n%.2f\n\n",
			mat.Formatted(l.weights, mat.Squeeze()),
			mat.Formatted(l.bias, mat.Squeeze()))
		if err != nil {
			return err
		}
	}
	return nil
}

func (n *Network) String() string {
	var sb strings.Builder
	_ = n.Print(&sb)
	return sb.String()
}
