package nestio

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	verrors "github.com/matzehuels/vivify/pkg/errors"
	"github.com/matzehuels/vivify/pkg/nested"
)

// ReadJSON decodes a JSON object from r, keeping key order. Nested objects
// become child maps; arrays and scalars become leaves. Integral numbers are
// stored as int64, other numbers as float64.
//
// With a bounded depth, objects nested deeper than the map allows fail with
// [nested.ErrDepthExceeded].
func ReadJSON(r io.Reader, opts ReadOptions) (*nested.Map[string, any], error) {
	m, err := opts.newMap()
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, verrors.Wrap(verrors.ErrCodeInvalidInput, err, "decode")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, verrors.New(verrors.ErrCodeInvalidInput, "top-level JSON value must be an object")
	}
	if err := readObject(dec, m, nil); err != nil {
		return nil, verrors.Wrap(verrors.ErrCodeInvalidInput, err, "decode")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, verrors.New(verrors.ErrCodeInvalidInput, "unexpected data after top-level object")
	}
	return m, nil
}

func readObject(dec *json.Decoder, m *nested.Map[string, any], path []string) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		keyPath := append(slices.Clip(path), key)

		tok, err = dec.Token()
		if err != nil {
			return err
		}
		switch v := tok.(type) {
		case json.Delim:
			if v == '{' {
				child, ok := m.Child(key)
				if !ok {
					return depthExceeded(keyPath)
				}
				if err := readObject(dec, child, keyPath); err != nil {
					return err
				}
				continue
			}
			arr, err := readArray(dec)
			if err != nil {
				return err
			}
			m.Set(key, arr)
		default:
			m.Set(key, jsonScalar(v))
		}
	}
	_, err := dec.Token() // closing '}'
	return err
}

func readArray(dec *json.Decoder) ([]any, error) {
	out := []any{}
	for dec.More() {
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, normalizeJSON(v))
	}
	_, err := dec.Token() // closing ']'
	return out, err
}

func jsonScalar(v any) any {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i
		}
		f, _ := n.Float64()
		return f
	}
	return v
}

func normalizeJSON(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeJSON(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeJSON(e)
		}
		return t
	default:
		return jsonScalar(v)
	}
}

// WriteJSON encodes m as an indented JSON object in insertion order.
func WriteJSON[V any](w io.Writer, m *nested.Map[string, V]) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
