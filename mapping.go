package soundcloudclient

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrInvalidMapping is returned when a path mapping has an empty key or destination.
var ErrInvalidMapping = errors.New("invalid path mapping")

// PathMapping translates JSON response keys to the names the decoded types expect.
// The zero value is an empty mapping. A PathMapping is immutable once built.
type PathMapping struct {
	entries map[string]string
	// sources sorted ascending, so the greatest source wins a shared destination
	sources []string
}

// NewPathMapping copies mapping into a PathMapping.
func NewPathMapping(mapping map[string]string) (PathMapping, error) {
	entries := make(map[string]string, len(mapping))
	sources := make([]string, 0, len(mapping))
	for from, to := range mapping {
		if from == "" {
			return PathMapping{}, fmt.Errorf("%w: empty source key", ErrInvalidMapping)
		}
		if to == "" {
			return PathMapping{}, fmt.Errorf("%w: empty destination for key %q", ErrInvalidMapping, from)
		}
		entries[from] = to
		sources = append(sources, from)
	}
	sort.Strings(sources)
	return PathMapping{entries: entries, sources: sources}, nil
}

// MustPathMapping is like NewPathMapping but panics on an invalid mapping.
func MustPathMapping(mapping map[string]string) PathMapping {
	m, err := NewPathMapping(mapping)
	if err != nil {
		panic(err)
	}
	return m
}

// ParsePathMapping reads a YAML document of "source: destination" pairs.
func ParsePathMapping(data []byte) (PathMapping, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return PathMapping{}, fmt.Errorf("parse path mapping: %w", err)
	}
	return NewPathMapping(raw)
}

// LoadPathMapping reads a path mapping from a YAML file.
func LoadPathMapping(path string) (PathMapping, error) {
	// #nosec G304 -- path is provided by trusted config.
	b, err := os.ReadFile(path)
	if err != nil {
		return PathMapping{}, fmt.Errorf("read path mapping: %w", err)
	}
	return ParsePathMapping(b)
}

// Len returns the number of mapped keys.
func (m PathMapping) Len() int {
	return len(m.entries)
}

// Lookup returns the destination for key, if key is mapped.
func (m PathMapping) Lookup(key string) (string, bool) {
	to, ok := m.entries[key]
	return to, ok
}

// Map returns a copy of the mapping.
func (m PathMapping) Map() map[string]string {
	out := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}

// Apply returns a copy of v with mapped keys renamed in every object,
// including objects nested in other objects or arrays. Keys that are not
// mapped pass through unchanged. A null mapped value never replaces a
// destination key that is already present. v itself is never modified.
func (m PathMapping) Apply(v any) any {
	if len(m.entries) == 0 {
		return v
	}
	return m.apply(v)
}

func (m PathMapping) apply(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return m.applyObject(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = m.apply(item)
		}
		return out
	default:
		return v
	}
}

func (m PathMapping) applyObject(obj map[string]any) map[string]any {
	out := make(map[string]any, len(obj))
	for key, value := range obj {
		if _, mapped := m.entries[key]; mapped {
			continue
		}
		out[key] = m.apply(value)
	}
	// renamed keys override pass-through keys with the same name,
	// unless the renamed value is null and the destination already holds one
	for _, from := range m.sources {
		value, ok := obj[from]
		if !ok {
			continue
		}
		to := m.entries[from]
		if _, exists := out[to]; exists && value == nil {
			continue
		}
		out[to] = m.apply(value)
	}
	return out
}
