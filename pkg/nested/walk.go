package nested

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Walk calls fn for every leaf below m, depth first in insertion order,
// with the full key path to the leaf. A non-nil error from fn stops the walk
// and is returned. Empty child maps produce no calls.
func (m *Map[K, V]) Walk(fn func(path []K, leaf V) error) error {
	return m.walk(nil, fn)
}

func (m *Map[K, V]) walk(prefix []K, fn func(path []K, leaf V) error) error {
	for _, k := range m.order {
		n := m.entries[k]
		path := append(slices.Clip(prefix), k)
		if n.IsLeaf() {
			if err := fn(path, n.leaf); err != nil {
				return err
			}
			continue
		}
		if err := n.child.walk(path, fn); err != nil {
			return err
		}
	}
	return nil
}

// LeafCount returns the number of leaves below m.
func (m *Map[K, V]) LeafCount() int {
	count := 0
	for _, n := range m.entries {
		if n.IsLeaf() {
			count++
		} else {
			count += n.child.LeafCount()
		}
	}
	return count
}

// Plain converts m into ordinary nested Go maps: child maps become
// map[K]any values and leaves are stored as their V values.
func (m *Map[K, V]) Plain() map[K]any {
	out := make(map[K]any, len(m.entries))
	for k, n := range m.entries {
		if n.IsLeaf() {
			out[k] = n.leaf
		} else {
			out[k] = n.child.Plain()
		}
	}
	return out
}

// Merge loads ordinary nested Go maps into m. Values of type map[K]any
// become child maps, except at the deepest level of a bounded map where they
// are only accepted as leaves if they are assignable to V. Other values must
// be assignable to V; a nil value stores the zero V. Keys are inserted in map
// iteration order.
//
// Merge fails with [ErrLeafType] for values of the wrong type, with
// [ErrDepthExceeded] when the source nests deeper than m allows, and with
// [ErrNotMap] when a nested source map meets an existing leaf. Keys merged
// before the failure stay stored.
func (m *Map[K, V]) Merge(src map[K]any) error {
	return m.merge(nil, src)
}

func (m *Map[K, V]) merge(prefix []K, src map[K]any) error {
	for k, raw := range src {
		path := append(slices.Clip(prefix), k)
		if raw == nil {
			var zero V
			m.Set(k, zero)
			continue
		}
		sub, isMap := raw.(map[K]any)
		if isMap && m.depth != 1 {
			if existing, ok := m.entries[k]; ok && existing.IsLeaf() {
				return pathError(path, ErrNotMap)
			}
			child, _ := m.Get(k).Map()
			if err := child.merge(path, sub); err != nil {
				return err
			}
			continue
		}
		v, ok := raw.(V)
		if !ok {
			if isMap {
				return pathError(path, ErrDepthExceeded)
			}
			return fmt.Errorf("path %s: %w: %T", FormatPath(path), ErrLeafType, raw)
		}
		m.Set(k, v)
	}
	return nil
}

// MarshalJSON encodes m as a JSON object with keys in insertion order. Keys
// are formatted with fmt.Sprint; leaves are encoded with encoding/json.
func (m *Map[K, V]) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fmt.Sprint(k))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		n := m.entries[k]
		var val []byte
		if n.IsLeaf() {
			val, err = json.Marshal(n.leaf)
		} else {
			val, err = n.child.MarshalJSON()
		}
		if err != nil {
			return nil, fmt.Errorf("key %v: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
