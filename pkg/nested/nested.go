package nested

import (
	"fmt"
	"iter"
	"slices"
)

// Map is an auto-vivifying map from K to [Node] values.
//
// The zero value is an empty unbounded map ready to use.
type Map[K comparable, V any] struct {
	depth   int // levels remaining below this map, 0 means unbounded
	newLeaf func() V
	entries map[K]*Node[K, V]
	order   []K
}

// Node is a single value stored in a [Map]: either a leaf holding a V or a
// child map.
type Node[K comparable, V any] struct {
	leaf  V
	child *Map[K, V]
}

// Option configures a bounded map.
type Option[V any] func(*options[V])

type options[V any] struct {
	newLeaf func() V
}

// WithLeaf sets the factory used to create leaves on first access. Use it
// when the zero value of V is not a useful default, for example when every
// leaf needs its own freshly allocated slice or map.
func WithLeaf[V any](fn func() V) Option[V] {
	return func(o *options[V]) {
		if fn != nil {
			o.newLeaf = fn
		}
	}
}

func zeroLeaf[V any]() V {
	var zero V
	return zero
}

// NewBounded creates a map of the given depth. Reading a missing key at the
// deepest level stores and returns a new leaf; at every other level it stores
// and returns a bounded child map one level shallower.
//
// A depth below 1 returns [ErrInvalidDepth].
func NewBounded[K comparable, V any](depth int, opts ...Option[V]) (*Map[K, V], error) {
	if depth < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDepth, depth)
	}
	o := options[V]{newLeaf: zeroLeaf[V]}
	for _, opt := range opts {
		opt(&o)
	}
	return newMap[K](depth, o.newLeaf), nil
}

// MustBounded is like [NewBounded] but panics on an invalid depth.
func MustBounded[K comparable, V any](depth int, opts ...Option[V]) *Map[K, V] {
	m, err := NewBounded[K, V](depth, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// NewUnbounded creates a map whose missing keys vivify further unbounded
// maps at any depth. V is the type of leaves assigned with [Map.Set],
// [Map.SetPath] or [Node.Set]; use any for heterogeneous leaves.
func NewUnbounded[K comparable, V any]() *Map[K, V] {
	return newMap[K, V](0, nil)
}

func newMap[K comparable, V any](depth int, newLeaf func() V) *Map[K, V] {
	return &Map[K, V]{
		depth:   depth,
		newLeaf: newLeaf,
		entries: make(map[K]*Node[K, V]),
	}
}

// Depth returns the number of levels of this map including itself, or 0
// for an unbounded map.
func (m *Map[K, V]) Depth() int { return m.depth }

// Bounded reports whether the map has a fixed depth.
func (m *Map[K, V]) Bounded() bool { return m.depth > 0 }

// Len returns the number of keys held directly by the map.
func (m *Map[K, V]) Len() int { return len(m.order) }

// Get returns the node stored under key, creating and storing a default
// node first if the key is missing.
func (m *Map[K, V]) Get(key K) *Node[K, V] {
	if n, ok := m.entries[key]; ok {
		return n
	}
	n := m.vivify()
	m.insert(key, n)
	return n
}

func (m *Map[K, V]) vivify() *Node[K, V] {
	switch {
	case m.depth == 0:
		return &Node[K, V]{child: newMap[K](0, m.newLeaf)}
	case m.depth == 1:
		newLeaf := m.newLeaf
		if newLeaf == nil {
			newLeaf = zeroLeaf[V]
		}
		return &Node[K, V]{leaf: newLeaf()}
	default:
		return &Node[K, V]{child: newMap[K](m.depth-1, m.newLeaf)}
	}
}

func (m *Map[K, V]) insert(key K, n *Node[K, V]) {
	if m.entries == nil {
		m.entries = make(map[K]*Node[K, V])
	}
	m.entries[key] = n
	m.order = append(m.order, key)
}

// Child returns the child map stored under key, vivifying it if the key is
// missing. A leaf stored under key is replaced in place by a fresh child map,
// so the key keeps its position. Child reports false at the deepest level of
// a bounded map, which holds only leaves.
func (m *Map[K, V]) Child(key K) (*Map[K, V], bool) {
	if m.depth == 1 {
		return nil, false
	}
	n := m.Get(key)
	if n.IsLeaf() {
		var zero V
		n.leaf = zero
		n.child = m.vivify().child
	}
	return n.child, true
}

// Lookup walks keys from m, vivifying every missing level, and returns the
// node at the end of the path. It fails with [ErrNotMap] if a leaf is reached
// before the keys run out; levels vivified up to that point stay stored.
func (m *Map[K, V]) Lookup(keys ...K) (*Node[K, V], error) {
	if len(keys) == 0 {
		return nil, ErrEmptyPath
	}
	cur := m
	for i, k := range keys[:len(keys)-1] {
		n := cur.Get(k)
		if n.IsLeaf() {
			return nil, pathError(keys[:i+1], ErrNotMap)
		}
		cur = n.child
	}
	return cur.Get(keys[len(keys)-1]), nil
}

// Peek walks keys from m without creating anything. It reports false if any
// key along the path is missing or runs through a leaf.
func (m *Map[K, V]) Peek(keys ...K) (*Node[K, V], bool) {
	if len(keys) == 0 {
		return nil, false
	}
	cur := m
	for i, k := range keys {
		n, ok := cur.entries[k]
		if !ok {
			return nil, false
		}
		if i == len(keys)-1 {
			return n, true
		}
		if n.IsLeaf() {
			return nil, false
		}
		cur = n.child
	}
	return nil, false
}

// Has reports whether key is stored directly in m. It never vivifies.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.entries[key]
	return ok
}

// Set stores v as a leaf under key, replacing whatever was there.
func (m *Map[K, V]) Set(key K, v V) {
	if n, ok := m.entries[key]; ok {
		n.Set(v)
		return
	}
	m.insert(key, &Node[K, V]{leaf: v})
}

// SetPath vivifies every level above the last key and stores v as a leaf
// under it. It fails with [ErrNotMap] if an intermediate key holds a leaf.
func (m *Map[K, V]) SetPath(v V, keys ...K) error {
	if len(keys) == 0 {
		return ErrEmptyPath
	}
	parent := m
	if len(keys) > 1 {
		n, err := m.Lookup(keys[:len(keys)-1]...)
		if err != nil {
			return err
		}
		child, ok := n.Map()
		if !ok {
			return pathError(keys[:len(keys)-1], ErrNotMap)
		}
		parent = child
	}
	parent.Set(keys[len(keys)-1], v)
	return nil
}

// Delete removes key from m and reports whether it was present.
func (m *Map[K, V]) Delete(key K) bool {
	if _, ok := m.entries[key]; !ok {
		return false
	}
	delete(m.entries, key)
	if i := slices.Index(m.order, key); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
	return true
}

// Clear removes every key from m.
func (m *Map[K, V]) Clear() {
	clear(m.entries)
	m.order = m.order[:0]
}

// Keys returns the keys held directly by m in insertion order.
func (m *Map[K, V]) Keys() []K {
	return slices.Clone(m.order)
}

// All iterates over the keys and nodes held directly by m in insertion
// order. The map must not be modified during iteration.
func (m *Map[K, V]) All() iter.Seq2[K, *Node[K, V]] {
	return func(yield func(K, *Node[K, V]) bool) {
		for _, k := range m.order {
			if !yield(k, m.entries[k]) {
				return
			}
		}
	}
}

// IsLeaf reports whether the node holds a leaf value.
func (n *Node[K, V]) IsLeaf() bool { return n.child == nil }

// Leaf returns the leaf value and true, or the zero value and false if the
// node holds a map.
func (n *Node[K, V]) Leaf() (V, bool) {
	if !n.IsLeaf() {
		var zero V
		return zero, false
	}
	return n.leaf, true
}

// Value returns the leaf value, or the zero value if the node holds a map.
func (n *Node[K, V]) Value() V {
	v, _ := n.Leaf()
	return v
}

// Map returns the child map and true, or nil and false if the node is a leaf.
func (n *Node[K, V]) Map() (*Map[K, V], bool) {
	return n.child, n.child != nil
}

// Get is shorthand for Map().Get(key). It fails with [ErrNotMap] on a leaf.
func (n *Node[K, V]) Get(key K) (*Node[K, V], error) {
	if n.IsLeaf() {
		return nil, ErrNotMap
	}
	return n.child.Get(key), nil
}

// Set turns the node into a leaf holding v, dropping any child map.
func (n *Node[K, V]) Set(v V) {
	n.child = nil
	n.leaf = v
}

// Update replaces the leaf value with fn applied to it. It fails with
// [ErrNotMap] if the node holds a map.
func (n *Node[K, V]) Update(fn func(V) V) error {
	if !n.IsLeaf() {
		return ErrNotMap
	}
	n.leaf = fn(n.leaf)
	return nil
}
