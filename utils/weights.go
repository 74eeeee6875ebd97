package utils

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"

	"onlybrain/nn"
)

// WeightData represents serializable weight data for a layer
type WeightData struct {
	Name  string    `json:"name"`
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// ModelWeights represents all weights in a network
type ModelWeights struct {
	Version    string                 `json:"version"`
	Activation string                 `json:"activation"`
	Topology   []int                  `json:"topology"`
	Layers     map[string]LayerWeight `json:"layers"`
}

// LayerWeight contains weights and bias for a layer
type LayerWeight struct {
	Weight *WeightData `json:"weight,omitempty"`
	Bias   *WeightData `json:"bias,omitempty"`
}

const weightsVersion = "1.0"

// LayerKey names layer i (1-based) inside ModelWeights.Layers
func LayerKey(layer int) string {
	return fmt.Sprintf("layer%d", layer)
}

// SaveWeights saves model weights to a JSON file
func SaveWeights(filepath string, weights *ModelWeights) error {
	data, err := json.MarshalIndent(weights, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal weights: %w", err)
	}
	return os.WriteFile(filepath, data, 0644)
}

// LoadWeights loads model weights from a JSON file
func LoadWeights(filepath string) (*ModelWeights, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read weights file: %w", err)
	}
	var weights ModelWeights
	if err := json.Unmarshal(data, &weights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal weights: %w", err)
	}
	return &weights, nil
}

// DenseToWeightData converts a matrix to serializable weight data
func DenseToWeightData(name string, m mat.Matrix) *WeightData {
	r, c := m.Dims()
	return &WeightData{
		Name:  name,
		Shape: []int{r, c},
		Data:  mat.DenseCopyOf(m).RawMatrix().Data,
	}
}

// VecToWeightData converts a vector to serializable weight data
func VecToWeightData(name string, v mat.Vector) *WeightData {
	return &WeightData{
		Name:  name,
		Shape: []int{v.Len()},
		Data:  mat.VecDenseCopyOf(v).RawVector().Data,
	}
}

// WeightDataToDense converts weight data back to a matrix
func WeightDataToDense(wd *WeightData) (*mat.Dense, error) {
	if len(wd.Shape) != 2 || wd.Shape[0] <= 0 || wd.Shape[1] <= 0 {
		return nil, fmt.Errorf("%s: invalid matrix shape %v", wd.Name, wd.Shape)
	}
	// Bound the columns first so the product below cannot overflow.
	if wd.Shape[1] > len(wd.Data)/wd.Shape[0] || len(wd.Data) != wd.Shape[0]*wd.Shape[1] {
		return nil, fmt.Errorf("%s: shape %v does not match %d values",
			wd.Name, wd.Shape, len(wd.Data))
	}
	return mat.NewDense(wd.Shape[0], wd.Shape[1], append([]float64(nil), wd.Data...)), nil
}

// WeightDataToVec converts weight data back to a vector
func WeightDataToVec(wd *WeightData) (*mat.VecDense, error) {
	if len(wd.Shape) != 1 || wd.Shape[0] <= 0 || len(wd.Data) != wd.Shape[0] {
		return nil, fmt.Errorf("%s: invalid vector shape %v for %d values", wd.Name, wd.Shape, len(wd.Data))
	}
	return mat.NewVecDense(wd.Shape[0], append([]float64(nil), wd.Data...)), nil
}

// ExportWeights collects every layer of n into ModelWeights
func ExportWeights(n *nn.Network) (*ModelWeights, error) {
	mw := &ModelWeights{
		Version:    weightsVersion,
		Activation: n.Activation().String(),
		Topology:   n.Topology(),
		Layers:     make(map[string]LayerWeight, n.NumLayers()-1),
	}
	for layer := 1; layer < n.NumLayers(); layer++ {
		w, err := n.LayerWeights(layer)
		if err != nil {
			return nil, err
		}
		b, err := n.LayerBiases(layer)
		if err != nil {
			return nil, err
		}
		key := LayerKey(layer)
		mw.Layers[key] = LayerWeight{
			Weight: DenseToWeightData(key+"_weight", w),
			Bias:   VecToWeightData(key+"_bias", b),
		}
	}
	return mw, nil
}

// ImportWeights rebuilds a network from ModelWeights. A missing bias is
// treated as zero.
func ImportWeights(mw *ModelWeights) (*nn.Network, error) {
	if len(mw.Topology) == 0 {
		return nil, fmt.Errorf("weights carry no topology")
	}
	act, err := nn.ParseActivation(mw.Activation)
	if err != nil {
		return nil, err
	}

	layers := make([]*nn.Layer, 0, len(mw.Topology)-1)
	for layer := 1; layer < len(mw.Topology); layer++ {
		key := LayerKey(layer)
		lw, ok := mw.Layers[key]
		if !ok || lw.Weight == nil {
			return nil, fmt.Errorf("missing weights for %s", key)
		}
		w, err := WeightDataToDense(lw.Weight)
		if err != nil {
			return nil, err
		}
		var b *mat.VecDense
		if lw.Bias != nil {
			if b, err = WeightDataToVec(lw.Bias); err != nil {
				return nil, err
			}
		} else {
			b = mat.NewVecDense(mw.Topology[layer], nil)
		}
		l, err := nn.NewLayerFrom(w, b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		if l.Size() != mw.Topology[layer] {
			return nil, fmt.Errorf("%s: %d neurons, topology says %d", key, l.Size(), mw.Topology[layer])
		}
		layers = append(layers, l)
	}

	return nn.Assemble(mw.Topology[0], layers, act)
}
