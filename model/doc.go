// Package model saves and loads nn.Network values in a compact binary form.
//
// Every multi-byte integer is little-endian:
//
//	[4 bytes: Magic "ONBR"]
//	[4 bytes: Format version (uint32)]
//	[1 byte:  Activation (nn.Activation)]
//	[4 bytes: Input width (uint32)]
//	[4 bytes: Layer count n (uint32)]
//	n times:
//	  [weights: gonum mat.Dense binary encoding, neurons x inputs]
//	  [biases:  gonum mat.VecDense binary encoding, neurons]
//	[32 bytes: SHA-256 of all preceding bytes]
//
// The gonum encodings carry their own dimensions, so the topology is
// recovered from the layer records. Float64 values are stored as raw IEEE-754
// bits and survive a round trip exactly.
//
// Example usage:
//
//	if err := model.DumpFile("model.bin", net); err != nil {
//	    log.Fatal(err)
//	}
//	net2, err := model.LoadFile("model.bin")
//	if err != nil {
//	    log.Fatal(err)
//	}
package model
