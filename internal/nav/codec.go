package nav

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/navdesk/internal/apperr"
)

// Top-level collections a document must carry to be accepted, with the node
// kind each must have. A null or empty value does not count.
var requiredKeys = []struct {
	name string
	kind yaml.Kind
}{
	{"categories", yaml.SequenceNode},
	{"dock", yaml.MappingNode},
}

// Marshal serializes the document to human-editable YAML.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc.withCollections()); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// MarshalJSON always writes categories as a list so the output passes Parse.
func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	return json.Marshal(plain(*d.withCollections()))
}

// withCollections returns d, or a shallow copy with a nil category list
// replaced by an empty one.
func (d *Document) withCollections() *Document {
	if d.Categories != nil {
		return d
	}
	cp := *d
	cp.Categories = []Category{}
	return &cp
}

// Parse decodes YAML (JSON is accepted too, being a YAML subset).
// Every failure is an *apperr.ParseError.
func Parse(text []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(text, &root); err != nil {
		return nil, &apperr.ParseError{Reason: "malformed text", Err: err}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, &apperr.ParseError{Reason: "empty document"}
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, &apperr.ParseError{Reason: "top level is not a mapping"}
	}

	for _, key := range requiredKeys {
		v := lookup(top, key.name)
		if v == nil {
			return nil, &apperr.ParseError{Reason: fmt.Sprintf("missing %q", key.name)}
		}
		if v.Kind != key.kind {
			return nil, &apperr.ParseError{Reason: fmt.Sprintf("%q is not a %s", key.name, kindName(key.kind))}
		}
	}

	var doc Document
	if err := top.Decode(&doc); err != nil {
		return nil, &apperr.ParseError{Reason: "invalid field", Err: err}
	}
	return &doc, nil
}

// lookup returns the value node of key in mapping m, following aliases.
func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value != key {
			continue
		}
		v := m.Content[i+1]
		for v.Kind == yaml.AliasNode && v.Alias != nil {
			v = v.Alias
		}
		return v
	}
	return nil
}

func kindName(k yaml.Kind) string {
	if k == yaml.SequenceNode {
		return "list"
	}
	return "mapping"
}
