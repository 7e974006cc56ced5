package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/guptarut/treemap/pkg/errors"
	"github.com/guptarut/treemap/pkg/tree"
)

// =============================================================================
// Tree Serialization API
// =============================================================================

// MarshalTree converts a tree to indented JSON bytes.
func MarshalTree(root *tree.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTree(root, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalTree decodes JSON produced by [MarshalTree].
func UnmarshalTree(data []byte) (*tree.Node, error) {
	return ReadTree(bytes.NewReader(data))
}

// WriteTree writes a tree as JSON to w.
func WriteTree(root *tree.Node, w io.Writer) error {
	return encode(w, FromTree(root))
}

// ReadTree decodes a JSON tree from r.
func ReadTree(r io.Reader) (*tree.Node, error) {
	var t Tree
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode tree")
	}
	return ToTree(t)
}

// WriteTreeFile writes a tree to a JSON file.
func WriteTreeFile(root *tree.Node, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteTree(root, w) })
}

// ReadTreeFile reads a JSON tree file.
func ReadTreeFile(path string) (*tree.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTree(f)
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout converts a layout to indented JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, l); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalLayout decodes JSON produced by [MarshalLayout].
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	return l, nil
}

// WriteLayoutFile writes a layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	return writeFile(path, func(w io.Writer) error { return encode(w, l) })
}

// ReadLayoutFile reads a JSON layout file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
