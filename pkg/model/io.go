package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
)

// MarshalModel converts a model to pretty-printed JSON bytes.
func MarshalModel(m *Model) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	return data, nil
}

// UnmarshalModel decodes JSON bytes into a model and validates it.
func UnmarshalModel(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if err := normalizeModel(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ReadModel decodes a JSON model from an io.Reader.
// Use ReadModelFile for files or pass bytes.NewReader for in-memory data.
func ReadModel(r io.Reader) (*Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if err := normalizeModel(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ReadModelFile reads a JSON file and returns the decoded model.
func ReadModelFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadModel(f)
}

// WriteModel writes a model as indented JSON to an io.Writer.
func WriteModel(m *Model, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	return nil
}

// WriteModelFile writes a model to a JSON file.
// The file is created with 0644 permissions.
func WriteModelFile(m *Model, path string) error {
	data, err := MarshalModel(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// normalizeModel fills in generated IDs for elements imported without one,
// rejects duplicate shape IDs and refreshes the explicit-position flag when
// the source left it unset.
func normalizeModel(m *Model) error {
	seen := make(map[string]bool, len(m.Shapes))
	for _, s := range m.Shapes {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate shape ID %q", s.ID)
		}
		seen[s.ID] = true
	}
	for _, c := range m.Connectors {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if c.Kind == "" {
			c.Kind = FlowSequence
		}
	}
	for _, p := range m.Pools {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
	}
	for _, l := range m.Lanes {
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
	}
	if !m.HasExplicitPositions {
		m.RecomputeFlags()
	}
	return nil
}
