package nestio

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"

	verrors "github.com/matzehuels/vivify/pkg/errors"
	"github.com/matzehuels/vivify/pkg/nested"
)

// ReadPaths decodes the paths format: one "key.path = value" entry per line.
// A key that contains the separator, "=", a quote or surrounding whitespace is
// written as a TOML basic string, as in a."b.c" = 1.
//
// Reading stops with ctx's error if ctx is cancelled between lines. Errors
// for malformed lines carry the 1-based line number.
func ReadPaths(ctx context.Context, r io.Reader, opts ReadOptions) (*nested.Map[string, any], error) {
	sep := opts.separator()
	if err := verrors.ValidateSeparator(sep); err != nil {
		return nil, err
	}
	m, err := opts.newMap()
	if err != nil {
		return nil, err
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := applyPathLine(m, text, sep); err != nil {
			return nil, verrors.AtLine(err, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, verrors.Wrap(verrors.ErrCodeInvalidInput, err, "read input")
	}
	return m, nil
}

func applyPathLine(m *nested.Map[string, any], text, sep string) error {
	keys, rawValue, hasValue, err := parsePathLine(text, sep)
	if err != nil {
		return err
	}

	if !hasValue {
		_, err := m.Lookup(keys...)
		return err
	}

	value := ParseValue(rawValue)
	table, isTable := value.(map[string]any)
	if !isTable {
		return m.SetPath(value, keys...)
	}
	parent := m
	if len(keys) > 1 {
		node, err := m.Lookup(keys[:len(keys)-1]...)
		if err != nil {
			return err
		}
		var ok bool
		if parent, ok = node.Map(); !ok {
			return fmt.Errorf("path %s: %w", nested.FormatPath(keys[:len(keys)-1]), nested.ErrNotMap)
		}
	}
	child, ok := parent.Child(keys[len(keys)-1])
	if !ok {
		return depthExceeded(keys)
	}
	return child.Merge(table)
}

// parsePathLine splits a line into its keys and, after an unquoted "=", its
// trimmed raw value.
func parsePathLine(text, sep string) (keys []string, rawValue string, hasValue bool, err error) {
	rest := text
	for {
		rest = strings.TrimLeft(rest, " \t")
		var key string
		if strings.HasPrefix(rest, `"`) {
			end := closingQuote(rest)
			if end < 0 {
				return nil, "", false, verrors.New(verrors.ErrCodeInvalidKeyPath, "unterminated quoted key in %q", text)
			}
			if key, err = unquoteKey(rest[:end+1]); err != nil {
				return nil, "", false, err
			}
			rest = rest[end+1:]
		} else {
			end := len(rest)
			if i := strings.Index(rest, sep); i >= 0 {
				end = i
			}
			if i := strings.Index(rest[:end], "="); i >= 0 {
				end = i
			}
			key = strings.TrimSpace(rest[:end])
			if key == "" {
				return nil, "", false, verrors.New(verrors.ErrCodeInvalidKeyPath, "key path in %q has an empty segment", text)
			}
			rest = rest[end:]
		}
		keys = append(keys, key)

		trimmed := strings.TrimLeft(rest, " \t")
		switch {
		case trimmed == "":
			return keys, "", false, verrors.ValidateKeyPath(text)
		case strings.HasPrefix(trimmed, "=") && !strings.HasPrefix(trimmed, sep):
			path := text[:len(text)-len(trimmed)]
			return keys, strings.TrimSpace(trimmed[1:]), true, verrors.ValidateKeyPath(path)
		case strings.HasPrefix(rest, sep):
			rest = rest[len(sep):]
		case strings.HasPrefix(trimmed, sep):
			rest = trimmed[len(sep):]
		default:
			return nil, "", false, verrors.New(verrors.ErrCodeInvalidKeyPath, "unexpected %q after key %q", trimmed, key)
		}
	}
}

// closingQuote returns the index of the quote ending the basic string that
// s starts with, or -1.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

func unquoteKey(quoted string) (string, error) {
	var holder struct {
		V string `toml:"v"`
	}
	if _, err := toml.Decode("v = "+quoted, &holder); err != nil {
		return "", verrors.Wrap(verrors.ErrCodeInvalidKeyPath, err, "quoted key %s", quoted)
	}
	return holder.V, nil
}

// SplitPath splits a raw key path into keys. Keys are separated by sep and
// trimmed; quoted keys are decoded as TOML basic strings.
func SplitPath(path, sep string) ([]string, error) {
	keys, _, hasValue, err := parsePathLine(path, sep)
	if err != nil {
		return nil, err
	}
	if hasValue {
		return nil, verrors.New(verrors.ErrCodeInvalidKeyPath, "key path %q contains an unquoted \"=\"", path)
	}
	return keys, nil
}

// JoinPath joins keys with sep, quoting every key that [SplitPath] would not
// read back unchanged.
func JoinPath(keys []string, sep string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = quoteKey(k, sep)
	}
	return strings.Join(parts, sep)
}

func quoteKey(key, sep string) string {
	plain := key != "" &&
		key == strings.TrimSpace(key) &&
		!strings.Contains(key, sep) &&
		!strings.ContainsAny(key, `="#\`) &&
		!strings.ContainsFunc(key, unicode.IsControl)
	if plain {
		return key
	}
	s, _ := encodeValue(key)
	return s
}

// ParseValue parses raw as a TOML value. Input that is not valid TOML is
// returned unchanged as a string.
func ParseValue(raw string) any {
	var holder struct {
		V any `toml:"v"`
	}
	if _, err := toml.Decode("v = "+raw, &holder); err == nil && holder.V != nil {
		return holder.V
	}
	return raw
}

// FormatValue renders v as a TOML value, falling back to a quoted Go string
// for values TOML cannot express inline.
func FormatValue(v any) string {
	if v == nil {
		return `""`
	}
	if s, ok := encodeValue(v); ok {
		return s
	}
	return fmt.Sprintf("%q", fmt.Sprint(v))
}

// encodeValue renders v as an inline TOML value.
func encodeValue(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(map[string]any{"v": v}); err != nil {
		return "", false
	}
	s := strings.TrimSpace(buf.String())
	rest, ok := strings.CutPrefix(s, "v = ")
	if !ok || strings.Contains(rest, "\n") {
		return "", false
	}
	return rest, true
}

// WritePaths encodes m in the paths format. Leaves become "path = value"
// lines; empty child maps become bare path lines so they survive a round
// trip through [ReadPaths]. Leaves without an inline TOML form, such as nil,
// fail with INVALID_INPUT.
func WritePaths[V any](w io.Writer, m *nested.Map[string, V], opts WriteOptions) error {
	bw := bufio.NewWriter(w)
	if err := writePathLines(bw, m, nil, opts.separator()); err != nil {
		return err
	}
	return bw.Flush()
}

func writePathLines[V any](w *bufio.Writer, m *nested.Map[string, V], prefix []string, sep string) error {
	for k, n := range m.All() {
		path := append(prefix[:len(prefix):len(prefix)], k)
		if v, ok := n.Leaf(); ok {
			value, ok := encodeValue(any(v))
			if !ok {
				return verrors.New(verrors.ErrCodeInvalidInput,
					"path %s: %T value has no paths-format representation", nested.FormatPath(path), any(v))
			}
			fmt.Fprintf(w, "%s = %s\n", JoinPath(path, sep), value)
			continue
		}
		child, _ := n.Map()
		if child.Len() == 0 {
			fmt.Fprintln(w, JoinPath(path, sep))
			continue
		}
		if err := writePathLines(w, child, path, sep); err != nil {
			return err
		}
	}
	return nil
}
