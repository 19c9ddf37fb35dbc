package document

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrMissingAttr indicates a required attribute is absent.
	ErrMissingAttr = errors.New("missing attribute")
	// ErrBadAttr indicates an attribute value cannot be parsed.
	ErrBadAttr = errors.New("malformed attribute")
	// ErrEmptyTag indicates a node without a tag.
	ErrEmptyTag = errors.New("node without tag")
)

// Node is one record of an arrangement document: a tag, string attributes
// and ordered children. It mirrors an XML element closely enough that the
// attribute names used by older project files carry over unchanged.
type Node struct {
	Tag      string            `yaml:"tag"`
	Attrs    map[string]string `yaml:"attrs,omitempty"`
	Children []*Node           `yaml:"children,omitempty"`
}

// New returns an empty node with the given tag.
func New(tag string) *Node {
	return &Node{Tag: tag}
}

// AddChild appends a new child with the given tag and returns it.
func (n *Node) AddChild(tag string) *Node {
	return n.Append(New(tag))
}

// Append appends child and returns it.
func (n *Node) Append(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// FirstChild returns the first direct child with the given tag, or nil.
func (n *Node) FirstChild(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

func (n *Node) Set(key, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
}

func (n *Node) SetInt(key string, value int) {
	n.Set(key, strconv.Itoa(value))
}

func (n *Node) SetFloat(key string, value float64) {
	n.Set(key, strconv.FormatFloat(value, 'g', -1, 64))
}

// SetBool stores booleans as "1"/"0", the encoding older project files use.
func (n *Node) SetBool(key string, value bool) {
	if value {
		n.Set(key, "1")
		return
	}
	n.Set(key, "0")
}

// Attr returns the raw attribute value.
func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.Attrs[key]
	return v, ok
}

// String returns the attribute value or "" if absent.
func (n *Node) String(key string) string {
	return n.Attrs[key]
}

// Int parses an integer attribute.
func (n *Node) Int(key string) (int, error) {
	raw, ok := n.Attrs[key]
	if !ok {
		return 0, fmt.Errorf("%s.%s: %w", n.Tag, key, ErrMissingAttr)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s.%s=%q: %w", n.Tag, key, raw, ErrBadAttr)
	}
	return v, nil
}

// IntOr parses an optional integer attribute, returning def when absent.
func (n *Node) IntOr(key string, def int) (int, error) {
	if _, ok := n.Attrs[key]; !ok {
		return def, nil
	}
	return n.Int(key)
}

// FloatOr parses an optional float attribute, returning def when absent.
func (n *Node) FloatOr(key string, def float64) (float64, error) {
	raw, ok := n.Attrs[key]
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s.%s=%q: %w", n.Tag, key, raw, ErrBadAttr)
	}
	return v, nil
}

// Bool parses an optional boolean attribute; absent means false.
func (n *Node) Bool(key string) (bool, error) {
	raw, ok := n.Attrs[key]
	if !ok {
		return false, nil
	}
	switch raw {
	case "1", "true":
		return true, nil
	case "0", "false", "":
		return false, nil
	}
	return false, fmt.Errorf("%s.%s=%q: %w", n.Tag, key, raw, ErrBadAttr)
}

// Clone makes a deep copy of the node tree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	ret := &Node{Tag: n.Tag}
	if n.Attrs != nil {
		ret.Attrs = make(map[string]string, len(n.Attrs))
		for k, v := range n.Attrs {
			ret.Attrs[k] = v
		}
	}
	if n.Children != nil {
		ret.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			ret.Children[i] = c.Clone()
		}
	}
	return ret
}

// Validate checks that every node in the tree has a tag.
func (n *Node) Validate() error {
	if n == nil || n.Tag == "" {
		return ErrEmptyTag
	}
	for i, c := range n.Children {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%s child %d: %w", n.Tag, i, err)
		}
	}
	return nil
}
