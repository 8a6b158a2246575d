// Package pkg provides the libraries behind the vivify command.
//
// # Overview
//
// Vivify works with auto-vivifying nested maps: maps in which reading a
// missing key creates and stores a default value instead of failing. The
// pkg directory is organized into these areas:
//
//  1. [nested] - The auto-vivifying map itself, bounded or unbounded
//  2. [nestio] - Readers and writers for key paths, JSON, TOML, trees, DOT and SVG
//  3. [errors] - Coded errors and input validation
//  4. [observability] - Hooks reporting codec events
//  5. [buildinfo] - Version information injected at build time
//
// # Architecture
//
// The typical data flow through vivify:
//
//	Key-path listing / JSON / TOML / delimited records
//	         ↓
//	    [nestio] package (decode, keeping key order)
//	         ↓
//	    [nested] package (vivify, count, walk)
//	         ↓
//	    [nestio] package (encode)
//	         ↓
//	JSON / TOML / key paths / tree / DOT / SVG
//
// # Quick Start
//
// Count words per file and extension with a two-level map of counters:
//
//	import "github.com/matzehuels/vivify/pkg/nested"
//
//	counts := nested.MustBounded[string, int](2)
//	for _, f := range files {
//	    n, _ := counts.Lookup(filepath.Ext(f.Name), f.Name)
//	    n.Update(func(c int) int { return c + f.Words })
//	}
//
// Build a configuration tree from key paths and print it as JSON:
//
//	m, err := nestio.ReadPaths(ctx, strings.NewReader("server.port = 8080"), nestio.ReadOptions{})
//	if err != nil {
//	    return err
//	}
//	return nestio.WriteJSON(os.Stdout, m)
//
// [nested]: https://pkg.go.dev/github.com/matzehuels/vivify/pkg/nested
// [nestio]: https://pkg.go.dev/github.com/matzehuels/vivify/pkg/nestio
// [errors]: https://pkg.go.dev/github.com/matzehuels/vivify/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/vivify/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/vivify/pkg/buildinfo
package pkg
