// onlybrain-example: builds the [2,3,2] reference network with fixed
// parameters, evaluates it, then dumps and reloads it.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/mat"

	"onlybrain/model"
	"onlybrain/nn"
	"onlybrain/utils"
)

var (
	outputFile = flag.String("output", "model.bin", "Where to dump the network")
	verbose    = flag.Bool("verbose", false, "Print timing statistics")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	var stats utils.TimingStats
	total := time.Now()

	start := time.Now()
	net, err := buildReference()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building network: %v\n", err)
		os.Exit(1)
	}
	stats.BuildTime = time.Since(start)

	start = time.Now()
	output, err := net.FeedForward([]float64{0.5, 0.2})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	stats.ForwardTime = time.Since(start)

	fmt.Print(net)
	fmt.Println(output)
	if err := describe(os.Stdout, net, 1, 0, 1); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	start = time.Now()
	if err := model.DumpFile(*outputFile, net); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to dump model: %v\n", err)
		os.Exit(1)
	}
	stats.DumpTime = time.Since(start)
	if info, err := os.Stat(*outputFile); err == nil {
		fmt.Printf("\nDumped to %s (%s)\n", *outputFile, humanize.Bytes(uint64(info.Size())))
	}

	start = time.Now()
	loaded, err := model.LoadFile(*outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load model: %v\n", err)
		os.Exit(1)
	}
	stats.LoadTime = time.Since(start)
	fmt.Print(loaded)

	stats.TotalTime = time.Since(total)
	utils.PrintTimingStats(&stats, 1)
}

// describe prints the layer count, every layer width and the weight
// linking input to neuron in layer.
func describe(w io.Writer, net *nn.Network, layer, neuron, input int) error {
	fmt.Fprintln(w, net.NumLayers())
	for i := 0; i < net.NumLayers(); i++ {
		size, err := net.LayerSize(i)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, size)
	}
	v, err := net.GetWeight(layer, neuron, input)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, v)
	return err
}

func buildReference() (*nn.Network, error) {
	net, err := nn.New([]int{2, 3, 2}, nil)
	if err != nil {
		return nil, err
	}

	steps := []func() error{
		func() error {
			return net.SetLayerWeights(1, mat.NewDense(3, 2, []float64{
				0.1, 0.2,
				0.3, 0.4,
				0.5, 0.6,
			}))
		},
		func() error { return net.SetLayerBiases(1, mat.NewVecDense(3, []float64{0.1, 0.2, 0.3})) },
		func() error {
			return net.SetLayerWeights(2, mat.NewDense(2, 3, []float64{
				0.9, 0.8, 0.7,
				0.6, 0.5, 0.4,
			}))
		},
		func() error { return net.SetLayerBiases(2, mat.NewVecDense(2, []float64{0.1, 0.2})) },
		func() error { return net.SetWeight(1, 0, 0, 0.99) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return net, nil
}
