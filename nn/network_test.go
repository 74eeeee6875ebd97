package nn

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// referenceNetwork is the [2,3,2] network used as a regression fixture.
func referenceNetwork(t *testing.T) *Network {
	t.Helper()
	n, err := New([]int{2, 3, 2}, rand.NewSource(1))
	require.NoError(t, err)

	require.NoError(t, n.SetLayerWeights(1, mat.NewDense(3, 2, []float64{
		0.1, 0.2,
		0.3, 0.4,
		0.5, 0.6,
	})))
	require.NoError(t, n.SetLayerBiases(1, mat.NewVecDense(3, []float64{0.1, 0.2, 0.3})))
	require.NoError(t, n.SetLayerWeights(2, mat.NewDense(2, 3, []float64{
		0.9, 0.8, 0.7,
		0.6, 0.5, 0.4,
	})))
	require.NoError(t, n.SetLayerBiases(2, mat.NewVecDense(2, []float64{0.1, 0.2})))
	require.NoError(t, n.SetWeight(1, 0, 0, 0.99))
	return n
}

func TestFeedForwardGolden(t *testing.T) {
	n := referenceNetwork(t)

	out, err := n.FeedForward([]float64{0.5, 0.2})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.InDelta(t, 0.8369914557347536, out[0], 1e-12)
	assert.InDelta(t, 0.7612802882893874, out[1], 1e-12)
}

func TestFeedForwardDeterministic(t *testing.T) {
	n := referenceNetwork(t)
	in := []float64{0.5, 0.2}

	first, err := n.FeedForward(in)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := n.FeedForward(in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, []float64{0.5, 0.2}, in, "input must not be modified")
}

func TestFeedForwardOutputWidth(t *testing.T) {
	topologies := [][]int{
		{1, 1},
		{2, 3, 2},
		{4, 8, 8, 1},
		{3, 1, 5},
		{10, 2, 3, 4, 5, 6},
	}
	src := rand.NewSource(99)
	for _, topo := range topologies {
		n, err := New(topo, src)
		require.NoError(t, err, "%v", topo)

		out, err := n.FeedForward(make([]float64, topo[0]))
		require.NoError(t, err, "%v", topo)
		assert.Len(t, out, topo[len(topo)-1], "%v", topo)
		assert.Equal(t, topo[len(topo)-1], n.OutputSize())
	}
}

func TestFeedForwardInputOnly(t *testing.T) {
	n, err := New([]int{3}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n.NumLayers())

	in := []float64{1, -2, 3}
	out, err := n.FeedForward(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	out[0] = 42
	assert.Equal(t, 1.0, in[0], "identity pass must not alias the input")
}

func TestFeedForwardWrongInputLength(t *testing.T) {
	n := referenceNetwork(t)
	_, err := n.FeedForward([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestFeedForwardActivations(t *testing.T) {
	n, err := New([]int{1, 1}, nil)
	require.NoError(t, err)
	require.NoError(t, n.SetLayerWeights(1, mat.NewDense(1, 1, []float64{2})))
	require.NoError(t, n.SetLayerBiases(1, mat.NewVecDense(1, []float64{-1})))

	tests := []struct {
		a    Activation
		in   float64
		want float64
	}{
		{ReLU, 0.25, 0},
		{ReLU, 1, 1},
		{BinaryStep, 0.25, 0},
		{BinaryStep, 0.5, 1},
		{Tanh, 0.5, 0},
		{Sigmoid, 0.5, 0.5},
	}
	for _, tt := range tests {
		require.NoError(t, n.SetActivation(tt.a))
		out, err := n.FeedForward([]float64{tt.in})
		require.NoError(t, err)
		assert.Equal(t, tt.want, out[0], "%v(%v)", tt.a, tt.in)
	}
}

func TestNewInvalidTopology(t *testing.T) {
	for _, topo := range [][]int{nil, {}, {0}, {2, 0, 1}, {2, -1}} {
		_, err := New(topo, nil)
		assert.ErrorIs(t, err, ErrInvalidTopology, "%v", topo)
	}
}

func TestNewDefaults(t *testing.T) {
	n, err := New([]int{2, 3, 2}, rand.NewSource(5))
	require.NoError(t, err)

	assert.Equal(t, Sigmoid, n.Activation())
	assert.Equal(t, 3, n.NumLayers())
	assert.Equal(t, []int{2, 3, 2}, n.Topology())
	assert.Equal(t, 2, n.InputSize())

	for layer, want := range []int{2, 3, 2} {
		got, err := n.LayerSize(layer)
		require.NoError(t, err)
		assert.Equal(t, want, got, "layer %d", layer)
	}
	_, err = n.LayerSize(3)
	assert.ErrorIs(t, err, ErrLayerIndex)
	_, err = n.LayerSize(-1)
	assert.ErrorIs(t, err, ErrLayerIndex)

	for layer := 1; layer <= 2; layer++ {
		b, err := n.LayerBiases(layer)
		require.NoError(t, err)
		for i := 0; i < b.Len(); i++ {
			assert.Zero(t, b.AtVec(i))
		}
	}
}

func TestLayerIndexRules(t *testing.T) {
	n := referenceNetwork(t)

	for _, layer := range []int{0, -1, 3} {
		assert.ErrorIs(t, n.SetLayerWeights(layer, mat.NewDense(3, 2, nil)), ErrLayerIndex)
		assert.ErrorIs(t, n.SetLayerBiases(layer, mat.NewVecDense(3, nil)), ErrLayerIndex)
		assert.ErrorIs(t, n.SetWeight(layer, 0, 0, 1), ErrLayerIndex)
		_, err := n.GetWeight(layer, 0, 0)
		assert.ErrorIs(t, err, ErrLayerIndex)
		_, err = n.LayerWeights(layer)
		assert.ErrorIs(t, err, ErrLayerIndex)
		_, err = n.LayerBiases(layer)
		assert.ErrorIs(t, err, ErrLayerIndex)
	}
}

func TestSetLayerWeightsMismatchLeavesNetworkUnchanged(t *testing.T) {
	n := referenceNetwork(t)
	before, err := n.LayerWeights(1)
	require.NoError(t, err)
	out, err := n.FeedForward([]float64{0.5, 0.2})
	require.NoError(t, err)

	err = n.SetLayerWeights(1, mat.NewDense(2, 3, []float64{9, 9, 9, 9, 9, 9}))
	require.ErrorIs(t, err, ErrShapeMismatch)
	err = n.SetLayerBiases(2, mat.NewVecDense(3, []float64{9, 9, 9}))
	require.ErrorIs(t, err, ErrShapeMismatch)

	after, err := n.LayerWeights(1)
	require.NoError(t, err)
	assert.True(t, mat.Equal(before, after))

	again, err := n.FeedForward([]float64{0.5, 0.2})
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestSetGetWeight(t *testing.T) {
	n := referenceNetwork(t)

	v, err := n.GetWeight(1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.99, v)

	v, err = n.GetWeight(1, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.2, v)

	require.NoError(t, n.SetWeight(2, 1, 2, -0.125))
	v, err = n.GetWeight(2, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, -0.125, v)

	assert.ErrorIs(t, n.SetWeight(2, 2, 0, 1), ErrIndexOutOfRange)
	_, err = n.GetWeight(1, 0, 2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestSetActivationRejectsUnknown(t *testing.T) {
	n := referenceNetwork(t)
	assert.ErrorIs(t, n.SetActivation(Activation(200)), ErrUnknownActivation)
	assert.Equal(t, Sigmoid, n.Activation())
}

func TestAssemble(t *testing.T) {
	l1, err := NewLayerFrom(mat.NewDense(3, 2, nil), mat.NewVecDense(3, nil))
	require.NoError(t, err)
	l2, err := NewLayerFrom(mat.NewDense(1, 3, nil), mat.NewVecDense(1, nil))
	require.NoError(t, err)

	n, err := Assemble(2, []*Layer{l1, l2}, Tanh)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 1}, n.Topology())
	assert.Equal(t, Tanh, n.Activation())

	_, err = Assemble(3, []*Layer{l1, l2}, Tanh)
	assert.ErrorIs(t, err, ErrInvalidTopology)
	_, err = Assemble(2, []*Layer{l2, l1}, Tanh)
	assert.ErrorIs(t, err, ErrInvalidTopology)
	_, err = Assemble(0, nil, Tanh)
	assert.ErrorIs(t, err, ErrInvalidTopology)
	_, err = Assemble(2, []*Layer{l1, l2}, Activation(17))
	assert.ErrorIs(t, err, ErrUnknownActivation)

	n, err = Assemble(4, nil, Sigmoid)
	require.NoError(t, err)
	assert.Equal(t, 1, n.NumLayers())
}

func TestConcurrentFeedForward(t *testing.T) {
	n := referenceNetwork(t)
	want, err := n.FeedForward([]float64{0.5, 0.2})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]float64, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = n.FeedForward([]float64{0.5, 0.2})
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestPrint(t *testing.T) {
	n := referenceNetwork(t)

	var buf bytes.Buffer
	require.NoError(t, n.Print(&buf))
	s := buf.String()

	for _, want := range []string{"0.99", "0.20", "0.60", "0.30", "0.70", "0.40"} {
		assert.Contains(t, s, want)
	}
	assert.Equal(t, s, n.String())
	assert.Equal(t, 4, strings.Count(s, "\n\n"), "weights and biases of two layers")
}
