package nestio

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	verrors "github.com/matzehuels/vivify/pkg/errors"
	"github.com/matzehuels/vivify/pkg/nested"
	"github.com/matzehuels/vivify/pkg/observability"
)

// Format constants for input and output formats.
const (
	FormatPaths = "paths"
	FormatJSON  = "json"
	FormatTOML  = "toml"
	FormatTree  = "tree"
	FormatDOT   = "dot"
	FormatSVG   = "svg"
)

// DefaultSeparator separates keys in the paths format.
const DefaultSeparator = "."

// InputFormats lists the formats accepted by [Read].
var InputFormats = []string{FormatPaths, FormatJSON, FormatTOML}

// OutputFormats lists the formats accepted by [Write].
var OutputFormats = []string{FormatJSON, FormatTOML, FormatPaths, FormatTree, FormatDOT, FormatSVG}

// ReadOptions configures the readers.
type ReadOptions struct {
	// Depth builds a bounded map of this depth. Zero builds an unbounded map.
	Depth int

	// Separator splits key paths in the paths format. Defaults to ".".
	Separator string
}

func (o ReadOptions) separator() string {
	if o.Separator == "" {
		return DefaultSeparator
	}
	return o.Separator
}

func (o ReadOptions) newMap() (*nested.Map[string, any], error) {
	if err := verrors.ValidateDepth(o.Depth); err != nil {
		return nil, err
	}
	if o.Depth == 0 {
		return nested.NewUnbounded[string, any](), nil
	}
	m, err := nested.NewBounded[string, any](o.Depth)
	if err != nil {
		return nil, verrors.Wrap(verrors.ErrCodeInvalidDepth, err, "create map")
	}
	return m, nil
}

// WriteOptions configures the writers.
type WriteOptions struct {
	// Separator joins key paths in the paths format. Defaults to ".".
	Separator string

	// Root labels the root node in the tree, dot and svg formats.
	// Defaults to ".".
	Root string
}

func (o WriteOptions) separator() string {
	if o.Separator == "" {
		return DefaultSeparator
	}
	return o.Separator
}

func (o WriteOptions) root() string {
	if o.Root == "" {
		return "."
	}
	return o.Root
}

// ValidateFormat checks that format is one of allowed.
func ValidateFormat(format string, allowed []string) error {
	if !slices.Contains(allowed, format) {
		return verrors.New(verrors.ErrCodeInvalidFormat, "invalid format: %s (must be one of %s)",
			format, strings.Join(allowed, ", "))
	}
	return nil
}

// InferFormat guesses the input format from a file name's extension,
// falling back to paths.
func InferFormat(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatPaths
	}
}

// Read decodes r in the given input format. Progress is reported to the
// registered [observability.CodecHooks].
func Read(ctx context.Context, r io.Reader, format string, opts ReadOptions) (*nested.Map[string, any], error) {
	if err := ValidateFormat(format, InputFormats); err != nil {
		return nil, err
	}

	hooks := observability.Codec()
	hooks.OnReadStart(ctx, format)
	start := time.Now()

	var m *nested.Map[string, any]
	var err error
	switch format {
	case FormatPaths:
		m, err = ReadPaths(ctx, r, opts)
	case FormatJSON:
		m, err = ReadJSON(r, opts)
	case FormatTOML:
		m, err = ReadTOML(r, opts)
	}

	leaves := 0
	if err == nil {
		leaves = m.LeafCount()
	}
	hooks.OnReadComplete(ctx, format, leaves, time.Since(start), err)
	return m, err
}

// Write encodes m to w in the given output format. Progress is reported to
// the registered [observability.CodecHooks].
func Write[V any](ctx context.Context, w io.Writer, m *nested.Map[string, V], format string, opts WriteOptions) error {
	if err := ValidateFormat(format, OutputFormats); err != nil {
		return err
	}

	hooks := observability.Codec()
	hooks.OnWriteStart(ctx, format, m.LeafCount())
	start := time.Now()
	err := write(ctx, w, m, format, opts)
	hooks.OnWriteComplete(ctx, format, time.Since(start), err)
	return err
}

func write[V any](ctx context.Context, w io.Writer, m *nested.Map[string, V], format string, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, m)
	case FormatTOML:
		return WriteTOML(w, m)
	case FormatPaths:
		return WritePaths(w, m, opts)
	case FormatTree:
		_, err := io.WriteString(w, RenderTree(m, opts)+"\n")
		return err
	case FormatDOT:
		_, err := io.WriteString(w, ToDOT(m, opts))
		return err
	case FormatSVG:
		svg, err := RenderSVG(ctx, ToDOT(m, opts))
		if err != nil {
			return err
		}
		_, err = w.Write(svg)
		return err
	}
	return nil
}

func depthExceeded(path []string) error {
	return fmt.Errorf("path %s: %w", nested.FormatPath(path), nested.ErrDepthExceeded)
}
