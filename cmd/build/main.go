// onlybrain-build: creates a randomly initialized network and dumps it
//
// Usage:
//
//	onlybrain-build --topology="2 3 2" --activation=tanh --seed=7 --output=model.bin
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/exp/rand"

	"onlybrain/model"
	"onlybrain/nn"
	"onlybrain/utils"
)

var (
	topology   = flag.String("topology", "2 3 2", "Layer widths, input first")
	activation = flag.String("activation", "sigmoid", "Activation: sigmoid, tanh, relu, binary_step")
	seed       = flag.Uint64("seed", 42, "Random seed for weight initialization")
	outputFile = flag.String("output", "model.bin", "Output model file")
	jsonFile   = flag.String("json", "", "Also export weights as JSON to this file")
	verbose    = flag.Bool("verbose", true, "Verbose output")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	topo, err := utils.ParseTopology(*topology)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing topology: %v\n", err)
		os.Exit(1)
	}
	cfg := utils.Config{
		Topology:   topo,
		Activation: *activation,
		ModelPath:  *outputFile,
		Seed:       *seed,
	}
	if err := utils.ValidateConfig(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Configuration:\n")
	fmt.Printf("  Topology:   %v\n", cfg.Topology)
	fmt.Printf("  Activation: %s\n", cfg.Activation)
	fmt.Printf("  Seed:       %d\n", cfg.Seed)
	fmt.Printf("  Output:     %s\n", cfg.ModelPath)
	fmt.Println()

	var stats utils.TimingStats
	total := time.Now()

	start := time.Now()
	net, err := buildNetwork(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building network: %v\n", err)
		os.Exit(1)
	}
	stats.BuildTime = time.Since(start)

	start = time.Now()
	if err := model.DumpFile(cfg.ModelPath, net); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing model: %v\n", err)
		os.Exit(1)
	}
	stats.DumpTime = time.Since(start)

	if info, err := os.Stat(cfg.ModelPath); err == nil {
		fmt.Printf("Wrote %s (%s, %d weighted layers)\n",
			cfg.ModelPath, humanize.Bytes(uint64(info.Size())), net.NumLayers()-1)
	}

	if *jsonFile != "" {
		weights, err := utils.ExportWeights(net)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting weights: %v\n", err)
			os.Exit(1)
		}
		if err := utils.SaveWeights(*jsonFile, weights); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving JSON weights: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported weights to %s\n", *jsonFile)
	}

	stats.TotalTime = time.Since(total)
	utils.PrintTimingStats(&stats, 0)
}

// buildNetwork draws a network for cfg from its seed and applies the
// configured activation.
func buildNetwork(cfg *utils.Config) (*nn.Network, error) {
	act, err := nn.ParseActivation(cfg.Activation)
	if err != nil {
		return nil, err
	}
	net, err := nn.New(cfg.Topology, rand.NewSource(cfg.Seed))
	if err != nil {
		return nil, err
	}
	if err := net.SetActivation(act); err != nil {
		return nil, err
	}
	return net, nil
}
