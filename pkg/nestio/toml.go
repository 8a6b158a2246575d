package nestio

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	verrors "github.com/matzehuels/vivify/pkg/errors"
	"github.com/matzehuels/vivify/pkg/nested"
)

// ReadTOML decodes a TOML document from r. Tables become child maps and
// every other value becomes a leaf; keys are inserted in document order.
//
// With a bounded depth, tables nested deeper than the map allows fail with
// [nested.ErrDepthExceeded].
func ReadTOML(r io.Reader, opts ReadOptions) (*nested.Map[string, any], error) {
	m, err := opts.newMap()
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	md, err := toml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return nil, verrors.Wrap(verrors.ErrCodeInvalidInput, err, "decode")
	}

	for _, key := range md.Keys() {
		value, ok := lookupRaw(raw, key)
		if !ok {
			// Keys inside arrays of tables belong to their array leaf.
			continue
		}
		if _, isTable := value.(map[string]any); isTable {
			node, err := m.Lookup(key...)
			if err != nil {
				return nil, verrors.Wrap(verrors.ErrCodeInvalidInput, err, "key %s", key)
			}
			if node.IsLeaf() {
				return nil, verrors.Wrap(verrors.ErrCodeInvalidInput, depthExceeded(key), "key %s", key)
			}
			continue
		}
		if err := m.SetPath(value, key...); err != nil {
			return nil, verrors.Wrap(verrors.ErrCodeInvalidInput, err, "key %s", key)
		}
	}

	// Picks up anything the key listing does not name individually.
	if err := m.Merge(raw); err != nil {
		return nil, verrors.Wrap(verrors.ErrCodeInvalidInput, err, "merge")
	}
	return m, nil
}

func lookupRaw(raw map[string]any, key toml.Key) (any, bool) {
	var cur any = raw
	for _, k := range key {
		tbl, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = tbl[k]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// WriteTOML encodes m as a TOML document. Leaves must be values TOML can
// represent; nil leaves are rejected by the encoder.
func WriteTOML[V any](w io.Writer, m *nested.Map[string, V]) error {
	if err := toml.NewEncoder(w).Encode(m.Plain()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
