package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// SpecKind tells which of the value fields of a SpecNode is populated.
type SpecKind int

const (
	SpecScalar SpecKind = iota
	SpecList
	SpecMap
)

// SpecNode is one key of the specs tree. Source key order is preserved so
// rendering follows the order the catalog publishes.
type SpecNode struct {
	Key      string
	Kind     SpecKind
	Value    string
	Items    []string
	Children []SpecNode
}

// Specs is the top level of the specs tree: category name to node.
type Specs []SpecNode

// Lookup walks the tree by key path and returns the scalar found at the end.
func (s Specs) Lookup(path ...string) (string, bool) {
	nodes := []SpecNode(s)
	for i, key := range path {
		var found *SpecNode
		for j := range nodes {
			if nodes[j].Key == key {
				found = &nodes[j]
				break
			}
		}
		if found == nil {
			return "", false
		}
		if i == len(path)-1 {
			if found.Kind != SpecScalar {
				return "", false
			}
			return found.Value, true
		}
		if found.Kind != SpecMap {
			return "", false
		}
		nodes = found.Children
	}
	return "", false
}

// Category returns the node stored under the top-level key.
func (s Specs) Category(name string) (SpecNode, bool) {
	for _, n := range s {
		if n.Key == name {
			return n, true
		}
	}
	return SpecNode{}, false
}

func (s *Specs) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		// Not an object: treat as "no specs" rather than failing the product.
		*s = nil
		return nil
	}

	children, err := decodeObject(dec)
	if err != nil {
		return err
	}
	*s = children
	return nil
}

func (s Specs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	writeObject(&buf, s)
	return buf.Bytes(), nil
}

// decodeObject reads key/value pairs until the closing brace. The opening
// brace has already been consumed.
func decodeObject(dec *json.Decoder) ([]SpecNode, error) {
	var nodes []SpecNode
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("specs: unexpected key token %v", tok)
		}
		node, err := decodeValue(dec, key)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return nodes, nil
}

func decodeValue(dec *json.Decoder, key string) (SpecNode, error) {
	tok, err := dec.Token()
	if err != nil {
		return SpecNode{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			children, err := decodeObject(dec)
			if err != nil {
				return SpecNode{}, err
			}
			return SpecNode{Key: key, Kind: SpecMap, Children: children}, nil
		case '[':
			items, err := decodeList(dec)
			if err != nil {
				return SpecNode{}, err
			}
			return SpecNode{Key: key, Kind: SpecList, Items: items}, nil
		}
		return SpecNode{}, fmt.Errorf("specs: unexpected delimiter %v", t)
	default:
		return SpecNode{Key: key, Kind: SpecScalar, Value: scalarString(t)}, nil
	}
}

// decodeList flattens list items to strings. Nested containers inside a list
// are kept as compact JSON.
func decodeList(dec *json.Decoder) ([]string, error) {
	items := []string{}
	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		items = append(items, rawString(raw))
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return items, nil
}

func rawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if string(raw) == "null" {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func scalarString(tok json.Token) string {
	switch v := tok.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	}
	return fmt.Sprint(tok)
}

func writeObject(w io.Writer, nodes []SpecNode) {
	io.WriteString(w, "{")
	for i, n := range nodes {
		if i > 0 {
			io.WriteString(w, ",")
		}
		k, _ := json.Marshal(n.Key)
		w.Write(k)
		io.WriteString(w, ":")
		switch n.Kind {
		case SpecMap:
			writeObject(w, n.Children)
		case SpecList:
			items := n.Items
			if items == nil {
				items = []string{}
			}
			b, _ := json.Marshal(items)
			w.Write(b)
		default:
			b, _ := json.Marshal(n.Value)
			w.Write(b)
		}
	}
	io.WriteString(w, "}")
}
