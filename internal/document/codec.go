package document

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// FormatVersion is written into every encoded document.
const FormatVersion = 1

// ErrUnsupportedVersion indicates a document written by a newer format.
var ErrUnsupportedVersion = errors.New("unsupported document version")

type envelope struct {
	Version int   `yaml:"version"`
	Root    *Node `yaml:"root"`
}

// Marshal encodes a document tree as YAML.
func Marshal(root *Node) ([]byte, error) {
	if err := root.Validate(); err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}
	data, err := yaml.Marshal(envelope{Version: FormatVersion, Root: root})
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a YAML document and returns its root node.
func Unmarshal(data []byte) (*Node, error) {
	var env envelope
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if env.Version > FormatVersion {
		return nil, fmt.Errorf("version %d: %w", env.Version, ErrUnsupportedVersion)
	}
	if err := env.Root.Validate(); err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}
	return env.Root, nil
}
