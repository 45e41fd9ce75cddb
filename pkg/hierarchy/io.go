package hierarchy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the serialized form of a hierarchy with its extra links.
type Document struct {
	Hierarchy RawNode   `json:"hierarchy" yaml:"hierarchy"`
	Links     []RawLink `json:"links,omitempty" yaml:"links,omitempty"`
}

// Build creates a [Tree] from the document.
func (d Document) Build() (*Tree, error) {
	return Build(d.Hierarchy, d.Links)
}

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Anything other than
// .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// =============================================================================
// Hierarchy Serialization API
// =============================================================================

// ReadFile reads a hierarchy document and builds the tree.
func ReadFile(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, FormatFromPath(path))
}

// Read decodes a hierarchy document from r and builds the tree.
func Read(r io.Reader, format Format) (*Tree, error) {
	doc, err := readDocumentFrom(r, format)
	if err != nil {
		return nil, err
	}
	return doc.Build()
}

// Unmarshal decodes a hierarchy document from data.
func Unmarshal(data []byte, format Format) (Document, error) {
	return readDocumentFrom(bytes.NewReader(data), format)
}

// Marshal encodes doc in the given format.
func Marshal(doc Document, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeDocumentTo(doc, &buf, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func readDocumentFrom(r io.Reader, format Format) (Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("decode: %w", err)
		}
	}
	return doc, nil
}

func writeDocumentTo(doc Document, w io.Writer, format Format) error {
	if format == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
