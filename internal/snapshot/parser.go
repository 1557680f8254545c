package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/klauspost/compress/zstd"
	"go.yaml.in/yaml/v3"
)

// Format is a snapshot serialization.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

const zstdExt = ".zst"

// FormatOf derives the format of a snapshot path from its extension. A
// trailing ".zst" marks a zstd-compressed file of the inner format.
func FormatOf(path string) (format Format, compressed bool, err error) {
	name := strings.ToLower(filepath.Base(path))
	if strings.HasSuffix(name, zstdExt) {
		compressed = true
		name = strings.TrimSuffix(name, zstdExt)
	}
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		return FormatYAML, compressed, nil
	case ".toml":
		return FormatTOML, compressed, nil
	default:
		return "", false, fmt.Errorf("unrecognized snapshot extension in %s (want .yaml, .yml or .toml, optionally with .zst)", path)
	}
}

// Load reads, validates and decodes a snapshot file.
func Load(path string) (*Document, error) {
	data, format, err := readSnapshot(path)
	if err != nil {
		return nil, err
	}
	doc, err := decode(data, format, path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Decode validates and decodes snapshot bytes. Schema violations are
// returned as *InvalidError.
func Decode(data []byte, format Format) (*Document, error) {
	return decode(data, format, string(format)+" input")
}

func decode(data []byte, format Format, source string) (*Document, error) {
	raw, err := decodeRaw(data, format)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", source, err)
	}

	result, err := validateRaw(raw)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, &InvalidError{Source: source, Issues: result.Issues}
	}

	// The schema already vouched for the shape, so the typed decode goes
	// through the normalized form for both formats.
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("converting %s to JSON: %w", source, err)
	}
	var doc Document
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", source, err)
	}
	return &doc, nil
}

// decodeRaw parses data into generic JSON-compatible values.
func decodeRaw(data []byte, format Format) (any, error) {
	switch format {
	case FormatYAML:
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
		return normalize(raw), nil
	case FormatTOML:
		raw := map[string]any{}
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing TOML: %w", err)
		}
		return normalize(raw), nil
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q", format)
	}
}

// Encode serializes doc in the given format.
func Encode(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encoding YAML: %w", err)
		}
		return data, nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding TOML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q", format)
	}
}

// Save writes doc to path in the format its extension names, compressing
// with zstd for ".zst" paths.
func Save(path string, doc *Document) error {
	format, compressed, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Encode(doc, format)
	if err != nil {
		return err
	}
	if compressed {
		if data, err = compress(data); err != nil {
			return fmt.Errorf("compressing %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// readSnapshot reads path and returns its decompressed content and format.
func readSnapshot(path string) ([]byte, Format, error) {
	format, compressed, err := FormatOf(path)
	if err != nil {
		return nil, "", err
	}
	data, err := readFile(path)
	if err != nil {
		return nil, "", err
	}
	if compressed {
		if data, err = decompress(data); err != nil {
			return nil, "", fmt.Errorf("decompressing %s: %w", path, err)
		}
	}
	return data, format, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}

func compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}
