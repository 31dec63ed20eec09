package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Scene Serialization API
// =============================================================================

// Marshal converts a Scene to indented JSON bytes.
func Marshal(s *Scene) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes JSON bytes to a Scene and validates it.
func Unmarshal(data []byte) (*Scene, error) {
	return readFrom(bytes.NewReader(data))
}

// WriteFile writes a Scene to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(s *Scene, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(s, f)
}

// Write writes a Scene as JSON to an io.Writer.
// Use Marshal for in-memory serialization or WriteFile for files.
func Write(s *Scene, w io.Writer) error {
	return writeTo(s, w)
}

// ReadFile reads a JSON file and returns the decoded, validated Scene.
func ReadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readFrom(f)
}

// Read decodes a JSON scene from an io.Reader and validates it.
// Use ReadFile for files or pass bytes.NewReader for in-memory data.
func Read(r io.Reader) (*Scene, error) {
	return readFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTo(s *Scene, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readFrom(r io.Reader) (*Scene, error) {
	var s Scene
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
