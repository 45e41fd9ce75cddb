package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Layout Serialization API
// =============================================================================

// Marshal converts a layout to indented JSON bytes.
func Marshal(l *Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeLayoutTo(l, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a layout document.
func Unmarshal(data []byte) (*Layout, error) {
	return readLayoutFrom(bytes.NewReader(data))
}

// Write writes a layout as JSON to w.
func Write(l *Layout, w io.Writer) error {
	return writeLayoutTo(l, w)
}

// WriteFile writes a layout to a JSON file.
func WriteFile(l *Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeLayoutTo(l, f)
}

// Read decodes a layout from r.
func Read(r io.Reader) (*Layout, error) {
	return readLayoutFrom(r)
}

// ReadFile reads a layout from a JSON file.
func ReadFile(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readLayoutFrom(f)
}

// Serialize returns a snapshot of l stamped with the current viewport size.
func Serialize(l *Layout, size Size) *Layout {
	out := l.Clone()
	out.ReferenceSize = size
	return out
}

// Deserialize returns a working copy of doc. An empty force config is
// replaced by defaults; a missing line style becomes straight.
func Deserialize(doc *Layout, defaults ForceOptions) *Layout {
	out := doc.Clone()
	if len(out.ForceConfig) == 0 {
		out.ForceConfig = defaults.Clone()
	}
	if out.ForceConfig == nil {
		out.ForceConfig = ForceOptions{}
	}
	if out.LineConfig.Style == "" {
		out.LineConfig.Style = LineStraight
	}
	return out
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeLayoutTo(l *Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readLayoutFrom(r io.Reader) (*Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if l.StyleConfigs == nil {
		l.StyleConfigs = []*StyleConfig{}
	}
	return &l, nil
}
