// Package frontmatter reads and writes markdown files carrying a YAML
// front-matter block. Files without a usable block are not an error:
// callers get an empty mapping and treat the file as carrying no data.
package frontmatter

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// File is one parsed markdown file: its front-matter fields plus the
// remaining body text.
type File struct {
	Fields map[string]any
	Body   string

	// node preserves the original mapping (field order, unknown keys)
	// for in-place rewrites.
	node *yaml.Node
}

// Read parses a markdown file. Missing or malformed front matter yields
// an empty Fields map and the full text as Body; only I/O failures are
// errors.
func Read(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return parse(string(raw)), nil
}

func parse(text string) *File {
	text = strings.TrimPrefix(text, "\ufeff") // BOM

	lines := strings.Split(text, "\n")
	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}

	if i >= len(lines) || strings.TrimSpace(lines[i]) != delimiter {
		return &File{Fields: map[string]any{}, Body: text}
	}

	i++
	start := i
	for i < len(lines) {
		t := strings.TrimSpace(lines[i])
		if t == delimiter || t == "..." {
			break
		}
		i++
	}
	if i >= len(lines) {
		return &File{Fields: map[string]any{}, Body: text}
	}

	rawFM := strings.Join(lines[start:i], "\n")
	body := strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(rawFM), &doc); err != nil {
		return &File{Fields: map[string]any{}, Body: text}
	}

	fields := map[string]any{}
	var node *yaml.Node
	if len(doc.Content) > 0 && doc.Content[0].Kind == yaml.MappingNode {
		node = doc.Content[0]
		if err := node.Decode(&fields); err != nil {
			return &File{Fields: map[string]any{}, Body: text}
		}
	}

	return &File{Fields: fields, Body: body, node: node}
}

// String returns the string value of a field, or "" when absent or not
// a string.
func (f *File) String(key string) string {
	s, _ := f.Fields[key].(string)
	return s
}

// SetString updates a field value, preserving the position of existing
// keys for rewrite.
func (f *File) SetString(key, value string) {
	f.Fields[key] = value
	if f.node == nil {
		return
	}
	for i := 0; i+1 < len(f.node.Content); i += 2 {
		if f.node.Content[i].Value == key {
			f.node.Content[i+1] = scalarNode(value)
			return
		}
	}
	f.node.Content = append(f.node.Content, scalarNode(key), scalarNode(value))
}

// Rewrite writes the file back to disk, keeping its original field
// order and body.
func (f *File) Rewrite(path string) error {
	var in any = f.Fields
	if f.node != nil {
		in = f.node
	}
	return Write(path, in, f.Body)
}

// Write serializes front matter (a struct, map, or yaml.Node) followed
// by the body into a markdown file.
func Write(path string, fm any, body string) error {
	out, err := yaml.Marshal(fm)
	if err != nil {
		return fmt.Errorf("encoding front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString(delimiter + "\n")
	b.Write(out)
	if !strings.HasSuffix(b.String(), "\n") {
		b.WriteString("\n")
	}
	b.WriteString(delimiter + "\n")
	b.WriteString(body)

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func scalarNode(value string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
	return n
}
