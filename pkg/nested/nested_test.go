package nested

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"testing"
)

func TestNewBoundedInvalidDepth(t *testing.T) {
	for _, depth := range []int{0, -1, -10} {
		t.Run(fmt.Sprint(depth), func(t *testing.T) {
			m, err := NewBounded[string, int](depth)
			if !errors.Is(err, ErrInvalidDepth) {
				t.Fatalf("NewBounded(%d) error = %v, want ErrInvalidDepth", depth, err)
			}
			if m != nil {
				t.Errorf("NewBounded(%d) returned non-nil map", depth)
			}
		})
	}
}

func TestMustBoundedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustBounded(0) did not panic")
		}
	}()
	MustBounded[string, int](0)
}

func TestBoundedDepths(t *testing.T) {
	for depth := 1; depth <= 5; depth++ {
		t.Run(fmt.Sprintf("depth=%d", depth), func(t *testing.T) {
			m := MustBounded[int, int](depth)
			if m.Depth() != depth {
				t.Errorf("Depth() = %d, want %d", m.Depth(), depth)
			}

			keys := make([]int, depth)
			for i := range keys {
				keys[i] = i
			}

			for n := 1; n < depth; n++ {
				node, err := m.Lookup(keys[:n]...)
				if err != nil {
					t.Fatalf("Lookup(%v) error = %v", keys[:n], err)
				}
				if node.IsLeaf() {
					t.Errorf("Lookup(%v) returned a leaf, want a map", keys[:n])
				}
			}

			node, err := m.Lookup(keys...)
			if err != nil {
				t.Fatalf("Lookup(%v) error = %v", keys, err)
			}
			v, ok := node.Leaf()
			if !ok {
				t.Fatalf("Lookup(%v) returned a map, want a leaf", keys)
			}
			if v != 0 {
				t.Errorf("leaf = %d, want 0", v)
			}
		})
	}
}

func TestBoundedTwoInt(t *testing.T) {
	m := MustBounded[string, int](2)

	b, err := m.Lookup("a", "b")
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	if got := b.Value(); got != 0 {
		t.Errorf("m[a][b] = %d, want 0", got)
	}

	a, ok := m.Get("a").Map()
	if !ok {
		t.Fatal("m[a] is not a map")
	}
	if !a.Has("b") {
		t.Error("m[a] does not contain b")
	}
	if a.Len() != 1 {
		t.Errorf("m[a].Len() = %d, want 1", a.Len())
	}
	if a.Depth() != 1 {
		t.Errorf("m[a].Depth() = %d, want 1", a.Depth())
	}
}

func TestBoundedOneString(t *testing.T) {
	m := MustBounded[string, string](1)
	v, ok := m.Get("k").Leaf()
	if !ok {
		t.Fatal("m[k] is not a leaf")
	}
	if v != "" {
		t.Errorf("m[k] = %q, want empty string", v)
	}
	if !m.Has("k") {
		t.Error("reading m[k] did not store it")
	}
}

func TestBoundedPathTooLong(t *testing.T) {
	m := MustBounded[string, int](2)
	_, err := m.Lookup("a", "b", "c")
	if !errors.Is(err, ErrNotMap) {
		t.Fatalf("Lookup error = %v, want ErrNotMap", err)
	}
	// Levels read before the failure stay stored.
	if _, ok := m.Peek("a", "b"); !ok {
		t.Error("m[a][b] was not vivified before the failure")
	}
}

func TestChildReplacesLeaf(t *testing.T) {
	m := NewUnbounded[string, any]()
	m.Set("a", 1)
	m.Set("z", 2)

	child, ok := m.Child("a")
	if !ok {
		t.Fatal("Child(a) = false on an unbounded map")
	}
	child.Set("b", 3)
	if got := m.Keys(); !slices.Equal(got, []string{"a", "z"}) {
		t.Errorf("Keys = %v, want [a z]", got)
	}
	if n, ok := m.Peek("a", "b"); !ok || n.Value() != 3 {
		t.Errorf("m[a][b] = %v, %v; want 3, true", n, ok)
	}

	again, _ := m.Child("a")
	if again != child {
		t.Error("Child returned a different map for an existing child")
	}

	b := MustBounded[string, int](2)
	if _, ok := b.Child("x"); !ok {
		t.Error("Child(x) = false at depth 2")
	}
	last, _ := b.Child("x")
	if _, ok := last.Child("y"); ok {
		t.Error("Child(y) = true at the leaf level")
	}
	if last.Has("y") {
		t.Error("Child vivified a key at the leaf level")
	}
}

func TestWithLeaf(t *testing.T) {
	m := MustBounded[string](2, WithLeaf(func() []string { return make([]string, 0, 4) }))

	a, _ := m.Lookup("x", "a")
	b, _ := m.Lookup("x", "b")
	_ = a.Update(func(s []string) []string { return append(s, "one") })

	if got := b.Value(); len(got) != 0 {
		t.Errorf("sibling leaf shares storage: %v", got)
	}
	if got := a.Value(); !slices.Equal(got, []string{"one"}) {
		t.Errorf("leaf = %v, want [one]", got)
	}
	if got := b.Value(); got == nil {
		t.Error("factory leaf should be non-nil")
	}
}

func TestWithLeafNilKeepsZero(t *testing.T) {
	m := MustBounded[string](1, WithLeaf[int](nil))
	if got := m.Get("a").Value(); got != 0 {
		t.Errorf("leaf = %d, want 0", got)
	}
}

func TestUnbounded(t *testing.T) {
	u := NewUnbounded[string, any]()

	if err := u.SetPath(5, "x", "y", "z"); err != nil {
		t.Fatalf("SetPath error: %v", err)
	}
	z, err := u.Lookup("x", "y", "z")
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	if got := z.Value(); got != 5 {
		t.Errorf("u[x][y][z] = %v, want 5", got)
	}

	w, err := u.Lookup("x", "w")
	if err != nil {
		t.Fatalf("Lookup(x, w) error: %v", err)
	}
	child, ok := w.Map()
	if !ok {
		t.Fatal("u[x][w] is not a map")
	}
	if child.Len() != 0 {
		t.Errorf("u[x][w].Len() = %d, want 0", child.Len())
	}
	if u.Bounded() || child.Bounded() {
		t.Error("unbounded maps report Bounded() = true")
	}
}

func TestUnboundedArbitraryDepth(t *testing.T) {
	u := NewUnbounded[int, string]()
	keys := make([]int, 64)
	for i := range keys {
		keys[i] = i * 7
	}
	for n := 1; n <= len(keys); n++ {
		node, err := u.Lookup(keys[:n]...)
		if err != nil {
			t.Fatalf("Lookup(%d keys) error: %v", n, err)
		}
		if node.IsLeaf() {
			t.Fatalf("Lookup(%d keys) returned a leaf", n)
		}
		if _, err := node.Get(-1); err != nil {
			t.Fatalf("node.Get at depth %d error: %v", n, err)
		}
	}
}

func TestZeroValueMap(t *testing.T) {
	var m Map[string, int]
	node, err := m.Lookup("a", "b")
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	node.Set(3)
	if n, ok := m.Peek("a", "b"); !ok || n.Value() != 3 {
		t.Errorf("Peek(a, b) = %v, %v, want 3, true", n, ok)
	}
}

func TestGetIdempotent(t *testing.T) {
	m := MustBounded[string, int](2)
	first := m.Get("a")
	second := m.Get("a")
	if first != second {
		t.Error("Get returned different nodes for the same key")
	}

	leaf1, _ := m.Lookup("a", "b")
	leaf1.Set(9)
	leaf2, _ := m.Lookup("a", "b")
	if leaf1 != leaf2 {
		t.Error("Lookup returned different nodes for the same path")
	}
	if leaf2.Value() != 9 {
		t.Errorf("second read = %d, want 9", leaf2.Value())
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestLookupEmptyPath(t *testing.T) {
	m := NewUnbounded[string, int]()
	if _, err := m.Lookup(); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("Lookup() error = %v, want ErrEmptyPath", err)
	}
	if err := m.SetPath(1); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("SetPath() error = %v, want ErrEmptyPath", err)
	}
}

func TestPeekDoesNotVivify(t *testing.T) {
	m := NewUnbounded[string, int]()
	if _, ok := m.Peek("a", "b"); ok {
		t.Error("Peek on empty map reported a hit")
	}
	if m.Len() != 0 {
		t.Errorf("Peek vivified keys: Len() = %d", m.Len())
	}
	if _, ok := m.Peek(); ok {
		t.Error("Peek() with no keys reported a hit")
	}

	m.Set("leaf", 1)
	if _, ok := m.Peek("leaf", "below"); ok {
		t.Error("Peek through a leaf reported a hit")
	}
}

func TestSetPathThroughLeaf(t *testing.T) {
	m := NewUnbounded[string, int]()
	m.Set("a", 1)
	err := m.SetPath(2, "a", "b")
	if !errors.Is(err, ErrNotMap) {
		t.Fatalf("SetPath error = %v, want ErrNotMap", err)
	}
	if got := err.Error(); got != "path a: value is a leaf, not a map" {
		t.Errorf("error message = %q", got)
	}
}

func TestNodeSetReplacesMap(t *testing.T) {
	m := NewUnbounded[string, int]()
	_, _ = m.Lookup("a", "b", "c")
	a := m.Get("a")
	a.Set(7)
	if !a.IsLeaf() {
		t.Fatal("node is still a map after Set")
	}
	if got := m.Get("a").Value(); got != 7 {
		t.Errorf("m[a] = %d, want 7", got)
	}
	if _, err := a.Get("b"); !errors.Is(err, ErrNotMap) {
		t.Errorf("Get on leaf error = %v, want ErrNotMap", err)
	}
}

func TestUpdateCounts(t *testing.T) {
	m := MustBounded[string, int](2)
	rows := [][2]string{{"eu", "apples"}, {"eu", "pears"}, {"eu", "apples"}, {"us", "apples"}}
	for _, r := range rows {
		n, err := m.Lookup(r[0], r[1])
		if err != nil {
			t.Fatalf("Lookup error: %v", err)
		}
		if err := n.Update(func(c int) int { return c + 1 }); err != nil {
			t.Fatalf("Update error: %v", err)
		}
	}

	tests := []struct {
		path []string
		want int
	}{
		{[]string{"eu", "apples"}, 2},
		{[]string{"eu", "pears"}, 1},
		{[]string{"us", "apples"}, 1},
	}
	for _, tt := range tests {
		n, ok := m.Peek(tt.path...)
		if !ok {
			t.Errorf("Peek(%v) missing", tt.path)
			continue
		}
		if n.Value() != tt.want {
			t.Errorf("count %v = %d, want %d", tt.path, n.Value(), tt.want)
		}
	}

	if err := m.Get("eu").Update(func(c int) int { return c }); !errors.Is(err, ErrNotMap) {
		t.Errorf("Update on map error = %v, want ErrNotMap", err)
	}
}

func TestKeysOrderAndDelete(t *testing.T) {
	m := NewUnbounded[string, int]()
	for _, k := range []string{"c", "a", "b", "d"} {
		m.Set(k, len(k))
	}
	if got := m.Keys(); !slices.Equal(got, []string{"c", "a", "b", "d"}) {
		t.Errorf("Keys() = %v", got)
	}

	if !m.Delete("a") {
		t.Error("Delete(a) = false, want true")
	}
	if m.Delete("a") {
		t.Error("second Delete(a) = true, want false")
	}
	if got := m.Keys(); !slices.Equal(got, []string{"c", "b", "d"}) {
		t.Errorf("Keys() after delete = %v", got)
	}

	var seen []string
	for k := range m.All() {
		seen = append(seen, k)
		if k == "b" {
			break
		}
	}
	if !slices.Equal(seen, []string{"c", "b"}) {
		t.Errorf("All() with break = %v", seen)
	}

	m.Clear()
	if m.Len() != 0 || m.Has("c") {
		t.Error("Clear() left keys behind")
	}
	m.Set("z", 1)
	if got := m.Keys(); !slices.Equal(got, []string{"z"}) {
		t.Errorf("Keys() after clear = %v", got)
	}
}

func TestWalk(t *testing.T) {
	m := NewUnbounded[string, int]()
	_ = m.SetPath(1, "a", "x")
	_ = m.SetPath(2, "a", "y", "deep")
	_ = m.SetPath(3, "b")
	_, _ = m.Lookup("empty")

	var got []string
	err := m.Walk(func(path []string, leaf int) error {
		got = append(got, fmt.Sprintf("%s=%d", FormatPath(path), leaf))
		return nil
	})
	if err != nil {
		t.Fatalf("Walk error: %v", err)
	}
	want := []string{"a.x=1", "a.y.deep=2", "b=3"}
	if !slices.Equal(got, want) {
		t.Errorf("Walk visited %v, want %v", got, want)
	}
	if m.LeafCount() != 3 {
		t.Errorf("LeafCount() = %d, want 3", m.LeafCount())
	}

	stop := errors.New("stop")
	calls := 0
	err = m.Walk(func([]string, int) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("Walk error = %v, want stop", err)
	}
	if calls != 1 {
		t.Errorf("Walk kept going after error: %d calls", calls)
	}
}

func TestWalkPathsAreIndependent(t *testing.T) {
	m := NewUnbounded[string, int]()
	_ = m.SetPath(1, "a", "b")
	_ = m.SetPath(2, "a", "c")

	var paths [][]string
	_ = m.Walk(func(path []string, _ int) error {
		paths = append(paths, path)
		return nil
	})
	if !slices.Equal(paths[0], []string{"a", "b"}) || !slices.Equal(paths[1], []string{"a", "c"}) {
		t.Errorf("retained paths were overwritten: %v", paths)
	}
}

func TestPlain(t *testing.T) {
	m := MustBounded[string, int](2)
	n, _ := m.Lookup("a", "b")
	n.Set(4)

	plain := m.Plain()
	inner, ok := plain["a"].(map[string]any)
	if !ok {
		t.Fatalf("plain[a] = %T, want map[string]any", plain["a"])
	}
	if inner["b"] != 4 {
		t.Errorf("plain[a][b] = %v, want 4", inner["b"])
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Map[string, int]
		src     map[string]any
		wantErr error
		check   func(t *testing.T, m *Map[string, int])
	}{
		{
			name:  "unbounded nested",
			build: NewUnbounded[string, int],
			src: map[string]any{
				"a": map[string]any{"b": 1, "c": map[string]any{"d": 2}},
				"e": 3,
			},
			check: func(t *testing.T, m *Map[string, int]) {
				if n, ok := m.Peek("a", "c", "d"); !ok || n.Value() != 2 {
					t.Errorf("a.c.d = %v, %v", n, ok)
				}
				if m.LeafCount() != 3 {
					t.Errorf("LeafCount() = %d, want 3", m.LeafCount())
				}
			},
		},
		{
			name:    "wrong leaf type",
			build:   NewUnbounded[string, int],
			src:     map[string]any{"a": "text"},
			wantErr: ErrLeafType,
		},
		{
			name:    "too deep",
			build:   func() *Map[string, int] { return MustBounded[string, int](1) },
			src:     map[string]any{"a": map[string]any{"b": 1}},
			wantErr: ErrDepthExceeded,
		},
		{
			name:  "nil stores zero",
			build: func() *Map[string, int] { return MustBounded[string, int](1) },
			src:   map[string]any{"a": nil},
			check: func(t *testing.T, m *Map[string, int]) {
				if n, ok := m.Peek("a"); !ok || !n.IsLeaf() || n.Value() != 0 {
					t.Errorf("a = %v, %v, want zero leaf", n, ok)
				}
			},
		},
		{
			name: "map over existing leaf",
			build: func() *Map[string, int] {
				m := NewUnbounded[string, int]()
				m.Set("a", 1)
				return m
			},
			src:     map[string]any{"a": map[string]any{"b": 2}},
			wantErr: ErrNotMap,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.build()
			err := m.Merge(tt.src)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Merge error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Merge error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, m)
			}
		})
	}
}

func TestMergeAnyLeavesAtLastLevel(t *testing.T) {
	m := MustBounded[string, any](1)
	if err := m.Merge(map[string]any{"a": map[string]any{"b": 1}}); err != nil {
		t.Fatalf("Merge error: %v", err)
	}
	n, ok := m.Peek("a")
	if !ok || !n.IsLeaf() {
		t.Fatal("nested source map was not stored as a leaf")
	}
}

func TestMarshalJSON(t *testing.T) {
	m := NewUnbounded[string, any]()
	_ = m.SetPath(1, "z", "b")
	_ = m.SetPath("two", "z", "a")
	_ = m.SetPath(true, "a")
	_, _ = m.Lookup("empty")

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	want := `{"z":{"b":1,"a":"two"},"a":true,"empty":{}}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var nilMap *Map[string, int]
	data, err = json.Marshal(nilMap)
	if err != nil || string(data) != "null" {
		t.Errorf("Marshal(nil) = %s, %v", data, err)
	}
}

func TestMarshalJSONNonStringKeys(t *testing.T) {
	m := MustBounded[int, float64](2)
	n, _ := m.Lookup(1, 2)
	n.Set(0.5)
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(data) != `{"1":{"2":0.5}}` {
		t.Errorf("Marshal = %s", data)
	}
}

func TestFormatPath(t *testing.T) {
	if got := FormatPath([]string{"a", "b"}); got != "a.b" {
		t.Errorf("FormatPath = %q", got)
	}
	if got := FormatPath([]int{1, 2, 3}); got != "1.2.3" {
		t.Errorf("FormatPath = %q", got)
	}
	if got := FormatPath[string](nil); got != "" {
		t.Errorf("FormatPath(nil) = %q", got)
	}
}
