package model

import "encoding/binary"

// Format constants.
const (
	MagicBytes    = "ONBR"
	FormatVersion = 1
	ChecksumSize  = 32 // SHA-256
)

var byteOrder = binary.LittleEndian

// header is the fixed-size prefix of every model file.
type header struct {
	Magic      [4]byte
	Version    uint32
	Activation uint8
	Inputs     uint32
	Layers     uint32
}

var headerSize = binary.Size(header{})

func newHeader(activation uint8, inputs, layers int) header {
	h := header{
		Version:    FormatVersion,
		Activation: activation,
		Inputs:     uint32(inputs),
		Layers:     uint32(layers),
	}
	copy(h.Magic[:], MagicBytes)
	return h
}
