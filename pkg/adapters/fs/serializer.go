package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Decoder turns the bytes of one file into a document value.
type Decoder interface {
	Decode(r io.Reader) (map[string]any, error)
}

// DefaultDecoders returns the decoders keyed by file extension.
func DefaultDecoders() map[string]Decoder {
	return map[string]Decoder{
		".json": JSONDecoder{},
		".yaml": YAMLDecoder{},
		".yml":  YAMLDecoder{},
	}
}

// --- JSON ---

// JSONDecoder reads a JSON object. Numbers decode as float64.
type JSONDecoder struct{}

func (JSONDecoder) Decode(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	var payload map[string]any
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return payload, nil
}

// --- YAML ---

// YAMLDecoder reads a YAML mapping. Nested mappings with non-string keys
// are converted to string-keyed maps.
type YAMLDecoder struct{}

func (YAMLDecoder) Decode(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if payload == nil {
		return map[string]any{}, nil
	}
	return normalize(payload).(map[string]any), nil
}

// normalize traverses maps and slices so every mapping is a map[string]any.
func normalize(val any) any {
	switch v := val.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[k] = normalize(val)
		}
		return m
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case []any:
		l := make([]any, len(v))
		for i, val := range v {
			l[i] = normalize(val)
		}
		return l
	default:
		return v
	}
}
