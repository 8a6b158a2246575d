package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	verrors "github.com/matzehuels/vivify/pkg/errors"
	"github.com/matzehuels/vivify/pkg/nested"
	"github.com/matzehuels/vivify/pkg/nestio"
)

// countOpts holds the command-line flags for the count command.
type countOpts struct {
	sep     string // field separator, whitespace when empty
	depth   int    // number of fields per record, 0 to take it from the first record
	pathSep string // key-path separator for paths output
	trim    bool   // trim whitespace around fields
}

// countCommand creates the count command, which tallies delimited records
// into a bounded map of counters.
func (c *CLI) countCommand() *cobra.Command {
	var opts countOpts
	var out outputOpts

	cmd := &cobra.Command{
		Use:   "count [file]",
		Short: "Count delimited records into a nested map of counters",
		Long: `Count delimited records into a nested map of counters.

Each input line is split into fields and the counter at the path formed by
the fields is incremented. Every record must have the same number of fields,
which is also the depth of the map:

  $ printf 'go std\ngo x\ngo std\n' | vivify count -f paths
  go.std = 2
  go.x = 1
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("sep") {
				opts.sep = c.Config.Separator
			}
			if opts.pathSep == "" {
				opts.pathSep = c.Config.PathSeparator
			}
			c.applyDefaults(nil, &out)
			if err := nestio.ValidateFormat(out.format, nestio.OutputFormats); err != nil {
				return err
			}
			if err := verrors.ValidateDepth(opts.depth); err != nil {
				return err
			}
			if opts.sep != "" {
				if err := verrors.ValidateSeparator(opts.sep); err != nil {
					return err
				}
			}
			return c.runCount(cmd, args, opts, out)
		},
	}

	cmd.Flags().StringVarP(&opts.sep, "sep", "s", "", "field separator (default from config, else whitespace)")
	cmd.Flags().IntVarP(&opts.depth, "depth", "d", 0, "fields per record (default: fields on the first record)")
	cmd.Flags().StringVar(&opts.pathSep, "path-sep", "", "key-path separator for paths output (default from config, else \".\")")
	cmd.Flags().BoolVar(&opts.trim, "trim", true, "trim whitespace around fields")
	out.register(cmd)

	return cmd
}

func (c *CLI) runCount(cmd *cobra.Command, args []string, opts countOpts, out outputOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	r, name, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer r.Close()

	prog := newProgress(logger)
	m, total, err := countRecords(ctx, r, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	prog.done(fmt.Sprintf("Counted %d records", total))
	logger.Debug("counted", "input", name, "depth", m.Depth(), "distinct", m.LeafCount())

	if out.root == "" {
		out.root = name
	}
	if err := writeMap(ctx, cmd, m, out, opts.pathSep); err != nil {
		return err
	}
	if out.output != "" {
		w := cmd.OutOrStdout()
		printSuccess(w, "Wrote %s", out.format)
		printFile(w, out.output)
		printStats(w, m.Len(), m.LeafCount(), total)
	}
	return nil
}

// countRecords reads records from r and increments one counter per record.
// It returns the counters and the number of records read.
func countRecords(ctx context.Context, r io.Reader, opts countOpts) (*nested.Map[string, int], int, error) {
	var m *nested.Map[string, int]
	total := 0

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		fields := splitRecord(sc.Text(), opts.sep, opts.trim)

		if m == nil {
			depth := opts.depth
			if depth == 0 {
				depth = len(fields)
			}
			var err error
			if m, err = nested.NewBounded[string, int](depth); err != nil {
				return nil, 0, verrors.Wrap(verrors.ErrCodeInvalidDepth, err, "line %d", line)
			}
		}
		if len(fields) != m.Depth() {
			return nil, 0, verrors.AtLine(fmt.Errorf("got %d fields, want %d", len(fields), m.Depth()), line)
		}

		n, err := m.Lookup(fields...)
		if err == nil {
			err = n.Update(increment)
		}
		if err != nil {
			return nil, 0, verrors.Wrap(verrors.ErrCodeInternal, err, "line %d", line)
		}
		total++
	}
	if err := sc.Err(); err != nil {
		return nil, 0, verrors.Wrap(verrors.ErrCodeInvalidInput, err, "read input")
	}

	if m == nil {
		depth := max(opts.depth, 1)
		m = nested.MustBounded[string, int](depth)
	}
	return m, total, nil
}

func increment(n int) int { return n + 1 }

// splitRecord splits a record on sep, or on runs of whitespace when sep is
// empty.
func splitRecord(text, sep string, trim bool) []string {
	if sep == "" {
		return strings.Fields(text)
	}
	fields := strings.Split(text, sep)
	if trim {
		for i, f := range fields {
			fields[i] = strings.TrimSpace(f)
		}
	}
	return fields
}
