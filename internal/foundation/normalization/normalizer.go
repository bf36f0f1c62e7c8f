// Package normalization maps user-supplied enumeration strings onto typed values.
package normalization

import (
	"fmt"
	"slices"
	"strings"
)

// Normalizer maps case- and whitespace-insensitive strings onto values of T.
type Normalizer[T comparable] struct {
	values       map[string]T
	defaultValue T
	keys         []string
}

// NewNormalizer creates a normalizer from string->value pairs.
func NewNormalizer[T comparable](values map[string]T, defaultValue T) *Normalizer[T] {
	n := &Normalizer[T]{
		values:       make(map[string]T, len(values)),
		defaultValue: defaultValue,
	}
	for k, v := range values {
		key := clean(k)
		n.values[key] = v
		n.keys = append(n.keys, key)
	}
	slices.Sort(n.keys)
	return n
}

// Normalize returns the value for raw, or the default when raw is unknown or blank.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.values[clean(raw)]; ok {
		return v
	}
	return n.defaultValue
}

// Lookup returns the value for raw. Blank input yields the default and true.
func (n *Normalizer[T]) Lookup(raw string) (T, bool) {
	key := clean(raw)
	if key == "" {
		return n.defaultValue, true
	}
	v, ok := n.values[key]
	return v, ok
}

// Parse is Lookup with an error naming the accepted values.
func (n *Normalizer[T]) Parse(field, raw string) (T, error) {
	v, ok := n.Lookup(raw)
	if !ok {
		var zero T
		return zero, fmt.Errorf("invalid %s %q, valid options: %s", field, raw, strings.Join(n.keys, ", "))
	}
	return v, nil
}

// ValidKeys returns the accepted spellings in sorted order.
func (n *Normalizer[T]) ValidKeys() []string {
	return slices.Clone(n.keys)
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
