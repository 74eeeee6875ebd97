package utils

import (
	"fmt"
	"strconv"
	"strings"

	"onlybrain/nn"
)

// Config holds the settings shared by the command-line tools
type Config struct {
	Topology   []int
	Activation string
	ModelPath  string
	Seed       uint64
}

// ParseTopology parses a topology string such as "2 3 2" or "2,3,2"
func ParseTopology(s string) ([]int, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	topology := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("topology entry %d: %w", i, err)
		}
		topology[i] = n
	}
	return topology, nil
}

// ParseInput parses a comma or space separated list of floats
func ParseInput(s string) ([]float64, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("input entry %d: %w", i, err)
		}
		values[i] = v
	}
	return values, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if len(config.Topology) < 1 {
		return fmt.Errorf("topology must have at least 1 layer (the input layer)")
	}

	for i, w := range config.Topology {
		if w <= 0 {
			return fmt.Errorf("layer %d width must be positive, got %d", i, w)
		}
	}

	if _, err := nn.ParseActivation(config.Activation); err != nil {
		return err
	}

	if config.ModelPath == "" {
		return fmt.Errorf("model path must not be empty")
	}

	return nil
}
