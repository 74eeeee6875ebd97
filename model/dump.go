package model

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"onlybrain/nn"
)

// Dump writes n to w in a single Write call.
func Dump(w io.Writer, n *nn.Network) error {
	data, err := Encode(n)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing model: %w", err)
	}
	return nil
}

// DumpFile writes n to path. The bytes go to a temporary file in the same
// directory which is renamed over path once complete, so path never holds a
// partial model.
func DumpFile(path string, n *nn.Network) (err error) {
	data, err := Encode(n)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating model file: %w", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if _, err = f.Write(data); err != nil {
		return fmt.Errorf("writing model file: %w", err)
	}
	if err = f.Chmod(0o644); err != nil {
		return fmt.Errorf("setting model file mode: %w", err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("syncing model file: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("closing model file: %w", err)
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("renaming model file: %w", err)
	}
	return nil
}

// Encode returns the binary form of n, checksum included.
func Encode(n *nn.Network) ([]byte, error) {
	var buf bytes.Buffer
	layers := n.NumLayers() - 1

	h := newHeader(uint8(n.Activation()), n.InputSize(), layers)
	if err := binary.Write(&buf, byteOrder, h); err != nil {
		return nil, fmt.Errorf("encoding header: %w", err)
	}

	for layer := 1; layer <= layers; layer++ {
		w, err := n.LayerWeights(layer)
		if err != nil {
			return nil, err
		}
		if _, err := w.MarshalBinaryTo(&buf); err != nil {
			return nil, fmt.Errorf("marshalling layer %d weights: %w", layer, err)
		}
		b, err := n.LayerBiases(layer)
		if err != nil {
			return nil, err
		}
		if _, err := b.MarshalBinaryTo(&buf); err != nil {
			return nil, fmt.Errorf("marshalling layer %d biases: %w", layer, err)
		}
	}

	sum := sha256.Sum256(buf.Bytes())
	buf.Write(sum[:])
	return buf.Bytes(), nil
}
