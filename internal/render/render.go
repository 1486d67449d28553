// Package render encodes generated documents for output.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format is a supported output encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat accepts the format names and a few aliases ("yml", "mp").
// Empty input means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatMsgpack:
		return ".msgpack"
	default:
		return ".json"
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatMsgpack:
		return "application/msgpack"
	default:
		return "application/json"
	}
}

// Encode writes v to w. JSON is indented and keeps '<', '>' and '&' as is.
func Encode(w io.Writer, v any, f Format) error {
	switch f {
	case "", FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		// field names and omitempty follow the json tags
		enc.SetCustomStructTag("json")
		enc.SetSortMapKeys(true)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode msgpack: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format: %s", f)
	}
	return nil
}

func Marshal(v any, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, v, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes v into path, creating parent directories.
func WriteFile(path string, v any, f Format) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if err := Encode(file, v, f); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
