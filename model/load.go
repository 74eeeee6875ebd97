package model

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"

	"onlybrain/nn"
)

// Load reads the whole of r and decodes the network it holds.
func Load(r io.Reader) (*nn.Network, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}
	return Decode(data)
}

// LoadFile decodes the network stored at path.
func LoadFile(path string) (*nn.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Decode parses a buffer produced by Encode.
func Decode(data []byte) (*nn.Network, error) {
	if len(data) < headerSize+ChecksumSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}
	payload := data[:len(data)-ChecksumSize]

	var h header
	if err := binary.Read(bytes.NewReader(payload), byteOrder, &h); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrTruncated, err)
	}
	if string(h.Magic[:]) != MagicBytes {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMagic, h.Magic[:])
	}
	if h.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}

	var stored [ChecksumSize]byte
	copy(stored[:], data[len(payload):])
	if sha256.Sum256(payload) != stored {
		return nil, ErrChecksumMismatch
	}

	act := nn.Activation(h.Activation)
	if !act.Valid() {
		return nil, fmt.Errorf("%w: activation %d", ErrCorrupt, h.Activation)
	}

	r := bytes.NewReader(payload[headerSize:])
	var layers []*nn.Layer
	for i := 1; i <= int(h.Layers); i++ {
		l, err := readLayer(r)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		layers = append(layers, l)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, r.Len())
	}

	n, err := nn.Assemble(int(h.Inputs), layers, act)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return n, nil
}

func readLayer(r *bytes.Reader) (*nn.Layer, error) {
	wr, err := checkedRecord(r, "weights")
	if err != nil {
		return nil, err
	}
	var w mat.Dense
	if _, err := w.UnmarshalBinaryFrom(wr); err != nil {
		return nil, unmarshalError("weights", err)
	}

	br, err := checkedRecord(r, "biases")
	if err != nil {
		return nil, err
	}
	var b mat.VecDense
	if _, err := b.UnmarshalBinaryFrom(br); err != nil {
		return nil, unmarshalError("biases", err)
	}

	l, err := nn.NewLayerFrom(&w, &b)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return l, nil
}

// gonum prefixes every matrix and vector with a 40-byte storage header;
// rows and columns are the int64s at offsets 8 and 16.
const (
	matHeaderSize = 40
	matRowsOffset = 8
	matColsOffset = 16
	float64Size   = 8
)

// checkedRecord reads the gonum storage header of the next record and
// rejects dimensions that r cannot hold, since gonum allocates rows×cols
// before reading any element. It returns a reader that replays the header
// followed by the rest of r.
func checkedRecord(r *bytes.Reader, what string) (io.Reader, error) {
	hdr := make([]byte, matHeaderSize)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, unmarshalError(what, err)
	}

	rows := int64(byteOrder.Uint64(hdr[matRowsOffset:]))
	cols := int64(byteOrder.Uint64(hdr[matColsOffset:]))
	avail := int64(r.Len()) / float64Size
	if rows <= 0 || cols <= 0 || rows > avail || cols > avail/rows {
		return nil, fmt.Errorf("%w: %s: %dx%d does not fit in %d remaining bytes",
			ErrCorrupt, what, rows, cols, r.Len())
	}

	return io.MultiReader(bytes.NewReader(hdr), r), nil
}

func unmarshalError(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s: %w", ErrTruncated, what, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrCorrupt, what, err)
}
