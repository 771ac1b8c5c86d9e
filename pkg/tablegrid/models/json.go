package models

import (
	"encoding/json"
	"fmt"
	"maps"
)

// nodeJSON is the serialized form of a node.
type nodeJSON struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []*nodeJSON    `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
}

// MarshalJSON encodes n as {"type", "attrs", "content", "text"}.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON())
}

func (n *Node) toJSON() *nodeJSON {
	out := &nodeJSON{Type: n.Type.Name, Text: n.Text}
	attrs := maps.Clone(n.Attrs.Extra)
	if n.Type.IsCell() {
		if attrs == nil {
			attrs = make(map[string]any)
		}
		attrs[AttrColspan] = n.Attrs.Colspan
		attrs[AttrRowspan] = n.Attrs.Rowspan
		if n.Attrs.Colwidth != nil {
			attrs[AttrColwidth] = n.Attrs.Colwidth
		}
	}
	if len(attrs) > 0 {
		out.Attrs = attrs
	}
	for _, child := range n.Content.nodes {
		out.Content = append(out.Content, child.toJSON())
	}
	return out
}

// NodeFromJSON decodes a node tree produced by MarshalJSON.
func (s *Schema) NodeFromJSON(data []byte) (*Node, error) {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return s.fromJSON(&raw)
}

func (s *Schema) fromJSON(raw *nodeJSON) (*Node, error) {
	if raw == nil || raw.Type == "" {
		return nil, fmt.Errorf("%w: missing node type", ErrInvalidJSON)
	}
	t, err := s.NodeType(raw.Type)
	if err != nil {
		return nil, err
	}
	if t.Text {
		return s.NewText(raw.Text), nil
	}
	attrs, err := attrsFromJSON(raw.Attrs)
	if err != nil {
		return nil, err
	}
	children := make([]*Node, 0, len(raw.Content))
	for _, c := range raw.Content {
		child, err := s.fromJSON(c)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return t.Create(attrs, children...), nil
}

func attrsFromJSON(raw map[string]any) (Attrs, error) {
	var a Attrs
	for name, v := range raw {
		switch name {
		case AttrColspan, AttrRowspan:
			n, ok := jsonInt(v)
			if !ok {
				return a, fmt.Errorf("%w: attribute %s is not an integer", ErrInvalidJSON, name)
			}
			if name == AttrColspan {
				a.Colspan = n
			} else {
				a.Rowspan = n
			}
		case AttrColwidth:
			if v == nil {
				continue
			}
			list, ok := v.([]any)
			if !ok {
				return a, fmt.Errorf("%w: colwidth is not a list", ErrInvalidJSON)
			}
			a.Colwidth = make([]int, len(list))
			for i, w := range list {
				if w == nil {
					continue
				}
				n, ok := jsonInt(w)
				if !ok {
					return a, fmt.Errorf("%w: colwidth entry %d is not an integer", ErrInvalidJSON, i)
				}
				a.Colwidth[i] = n
			}
		default:
			if a.Extra == nil {
				a.Extra = make(map[string]any)
			}
			a.Extra[name] = v
		}
	}
	return a, nil
}

func jsonInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), n == float64(int(n))
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}
