package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReadExport reads a whole-tree export from disk. .yaml and .yml files are
// converted to JSON; anything else must already be JSON.
func ReadExport(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlToJSON(data)
	default:
		if !json.Valid(data) {
			return nil, fmt.Errorf("export %s is not valid JSON", path)
		}
		return data, nil
	}
}

func yamlToJSON(data []byte) (json.RawMessage, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse yaml export: %w", err)
	}
	b, err := json.Marshal(stringKeys(v))
	if err != nil {
		return nil, fmt.Errorf("convert yaml export: %w", err)
	}
	return b, nil
}

// stringKeys rewrites YAML maps so every key is a string. Unquoted year keys
// such as 2025 decode as ints.
func stringKeys(v any) any {
	switch n := v.(type) {
	case map[string]any:
		for k, child := range n {
			n[k] = stringKeys(child)
		}
		return n
	case map[any]any:
		m := make(map[string]any, len(n))
		for k, child := range n {
			m[fmt.Sprint(k)] = stringKeys(child)
		}
		return m
	case []any:
		for i, child := range n {
			n[i] = stringKeys(child)
		}
		return n
	default:
		return v
	}
}

// Import writes every top-level key of an export into w and returns the keys
// written, sorted.
func Import(ctx context.Context, w Writer, export json.RawMessage) ([]string, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(export, &top); err != nil {
		return nil, fmt.Errorf("export root must be an object: %w", err)
	}
	keys := make([]string, 0, len(top))
	for k := range top {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.Set(ctx, k, top[k]); err != nil {
			return nil, fmt.Errorf("import %s: %w", k, err)
		}
	}
	return keys, nil
}
