package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// DecodeValue parses raw into a generic tree. Numbers stay json.Number so
// amounts round-trip without float conversion. Empty input and null decode
// to nil.
func DecodeValue(raw json.RawMessage) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return prune(v), nil
}

// EncodeValue is the inverse of DecodeValue; nil encodes to nil.
func EncodeValue(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	return b, nil
}

// Lookup descends into node along segs. List elements are addressed by
// index.
func Lookup(node any, segs []string) any {
	for _, seg := range segs {
		switch n := node.(type) {
		case map[string]any:
			node = n[seg]
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(n) {
				return nil
			}
			node = n[i]
		default:
			return nil
		}
		if node == nil {
			return nil
		}
	}
	return node
}

// Assign stores v at segs below node and returns the new node. A nil v
// deletes; objects left empty by a delete are removed too. Writing through a
// list or a scalar is rejected.
func Assign(node any, segs []string, v any) (any, error) {
	if len(segs) == 0 {
		return prune(v), nil
	}
	var m map[string]any
	switch n := node.(type) {
	case nil:
		m = make(map[string]any)
	case map[string]any:
		m = n
	default:
		return nil, fmt.Errorf("%q holds a %T: %w", segs[0], node, ErrInvalidPath)
	}

	child, err := Assign(m[segs[0]], segs[1:], v)
	if err != nil {
		return nil, err
	}
	if child == nil {
		delete(m, segs[0])
	} else {
		m[segs[0]] = child
	}
	if len(m) == 0 {
		return nil, nil
	}
	return m, nil
}

// prune drops empty arrays and objects, which the store never keeps.
func prune(v any) any {
	switch n := v.(type) {
	case map[string]any:
		for k, child := range n {
			if c := prune(child); c == nil {
				delete(n, k)
			} else {
				n[k] = c
			}
		}
		if len(n) == 0 {
			return nil
		}
	case []any:
		if len(n) == 0 {
			return nil
		}
	}
	return v
}
