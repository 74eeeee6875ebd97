// onlybrain-infer: runs a forward pass through a saved network
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"onlybrain/model"
	"onlybrain/nn"
	"onlybrain/utils"
)

var (
	modelFile   = flag.String("model", "model.bin", "Binary model file")
	weightsFile = flag.String("weights", "", "JSON weights file (used instead of -model)")
	input       = flag.String("input", "", "Comma separated input vector")
	passes      = flag.Int("passes", 1, "Number of forward passes to time")
	verbose     = flag.Bool("verbose", true, "Verbose output")
	printNet    = flag.Bool("print", false, "Print weights and biases")
	topK        = flag.Int("topk", 3, "Top outputs to show")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	var stats utils.TimingStats
	total := time.Now()

	start := time.Now()
	net, err := loadNetwork()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading network: %v\n", err)
		os.Exit(1)
	}
	stats.LoadTime = time.Since(start)
	fmt.Printf("Loaded network: topology %v, activation %s\n", net.Topology(), net.Activation())

	if *printNet {
		if err := net.Print(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error printing network: %v\n", err)
			os.Exit(1)
		}
	}

	inputData, err := utils.ParseInput(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing input: %v\n", err)
		os.Exit(1)
	}
	if len(inputData) == 0 {
		inputData = make([]float64, net.InputSize())
	}
	fmt.Printf("Input: %v\n", inputData)

	if *passes < 1 {
		*passes = 1
	}
	var output []float64
	start = time.Now()
	for i := 0; i < *passes; i++ {
		output, err = net.FeedForward(inputData)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	stats.ForwardTime = time.Since(start)
	fmt.Printf("Output: %v\n", output)

	showResults(output, *topK)

	stats.TotalTime = time.Since(total)
	utils.PrintTimingStats(&stats, *passes)
}

func loadNetwork() (*nn.Network, error) {
	if *weightsFile != "" {
		weights, err := utils.LoadWeights(*weightsFile)
		if err != nil {
			return nil, err
		}
		return utils.ImportWeights(weights)
	}

	info, err := os.Stat(*modelFile)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Reading %s (%s)\n", *modelFile, humanize.Bytes(uint64(info.Size())))
	return model.LoadFile(*modelFile)
}

func showResults(output []float64, k int) {
	indices := topKIndices(output, k)

	fmt.Printf("\nTop %d outputs:\n", len(indices))
	for i, idx := range indices {
		fmt.Printf("  %d. Output %d: %.4f\n", i+1, idx, output[idx])
	}
}

func topKIndices(vals []float64, k int) []int {
	if k > len(vals) {
		k = len(vals)
	}
	indices := make([]int, k)
	used := make(map[int]bool)
	for i := 0; i < k; i++ {
		maxIdx, maxVal := -1, math.Inf(-1)
		for j, v := range vals {
			if !used[j] && v > maxVal {
				maxVal, maxIdx = v, j
			}
		}
		if maxIdx < 0 {
			return indices[:i]
		}
		indices[i] = maxIdx
		used[maxIdx] = true
	}
	return indices
}
