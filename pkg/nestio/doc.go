// Package nestio reads and writes [nested.Map] values in text formats.
//
// # Input Formats
//
//   - paths: one key path per line, optionally followed by "= value".
//     Values use TOML syntax (numbers, booleans, quoted strings, arrays,
//     inline tables); anything that does not parse as TOML is kept as a raw
//     string. A line without a value vivifies an empty map at that path.
//     Blank lines and lines starting with '#' are skipped. A key containing
//     the separator, '=', '#', a quote or surrounding whitespace is written
//     as a TOML basic string: a."b.c" = 1.
//   - json: a single JSON object. Key order is preserved.
//   - toml: a TOML document. Key order follows the document.
//
// Example paths input:
//
//	# region.product = count
//	eu.apples = 3
//	eu.pears  = 1
//	us.apples = "unknown"
//	us.cherries
//
// # Output Formats
//
//   - json: indented JSON object in insertion order
//   - toml: TOML document (keys sorted by the encoder)
//   - paths: the paths input format, one line per leaf; nil leaves and
//     values without an inline TOML form are rejected
//   - tree: indented text tree drawn with lipgloss
//   - dot: Graphviz DOT source
//   - svg: DOT rendered to SVG with Graphviz
//
// All readers produce a map[string]any [nested.Map]; writers accept any leaf
// type.
package nestio
