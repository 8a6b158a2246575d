package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	verrors "github.com/matzehuels/vivify/pkg/errors"
	"github.com/matzehuels/vivify/pkg/nested"
	"github.com/matzehuels/vivify/pkg/nestio"
)

// mapOpts holds the flags shared by commands that read a mapping.
type mapOpts struct {
	input   string // input format: "paths", "json", "toml", or empty to infer
	depth   int    // bounded depth, 0 for unbounded
	pathSep string // key-path separator
}

// outputOpts holds the flags shared by commands that write a mapping.
type outputOpts struct {
	output string // output file path, stdout when empty
	format string // output format
	root   string // root label for tree, dot and svg output
}

func (o *mapOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.input, "input", "i", "", "input format: paths, json, toml (default: from file extension)")
	cmd.Flags().IntVarP(&o.depth, "depth", "d", 0, "bounded map depth (0 for unbounded)")
	cmd.Flags().StringVar(&o.pathSep, "path-sep", "", "key-path separator (default from config, else \".\")")
}

func (o *outputOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "output format: json, toml, paths, tree, dot, svg (default from config)")
	cmd.Flags().StringVar(&o.root, "root", "", "root label for tree, dot and svg output (default: input name)")
}

// buildCommand creates the build command, which reads a mapping and writes
// it in another format.
func (c *CLI) buildCommand() *cobra.Command {
	var in mapOpts
	var out outputOpts

	cmd := &cobra.Command{
		Use:   "build [file]",
		Short: "Build a nested map from key paths, JSON or TOML",
		Long: `Build a nested map and print it.

Key-path input has one entry per line. Missing levels are created on the fly:

  server.host = "localhost"
  server.port = 8080
  server.tls            # an empty map
  # comments and blank lines are ignored

Values are TOML values; anything that is not valid TOML is kept as a string.
Reads standard input when no file (or "-") is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyDefaults(&in, &out)
			if err := nestio.ValidateFormat(out.format, nestio.OutputFormats); err != nil {
				return err
			}
			if err := verrors.ValidateDepth(in.depth); err != nil {
				return err
			}
			return c.runBuild(cmd, args, in, out)
		},
	}

	in.register(cmd)
	out.register(cmd)
	return cmd
}

// applyDefaults fills unset flags from the loaded configuration.
func (c *CLI) applyDefaults(in *mapOpts, out *outputOpts) {
	if in != nil && in.pathSep == "" {
		in.pathSep = c.Config.PathSeparator
	}
	if out != nil && out.format == "" {
		out.format = c.Config.Format
	}
}

func (c *CLI) runBuild(cmd *cobra.Command, args []string, in mapOpts, out outputOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	m, name, err := readMap(cmd, args, in)
	if err != nil {
		return err
	}
	logger.Debug("built map", "input", name, "keys", m.Len(), "leaves", m.LeafCount())

	if out.root == "" {
		out.root = name
	}
	if err := writeMap(ctx, cmd, m, out, in.pathSep); err != nil {
		return err
	}
	if out.output != "" {
		w := cmd.OutOrStdout()
		printSuccess(w, "Wrote %s", out.format)
		printFile(w, out.output)
		printStats(w, m.Len(), m.LeafCount(), 0)
	}
	return nil
}

// readMap opens the input named by args and decodes it with in.
func readMap(cmd *cobra.Command, args []string, in mapOpts) (*nested.Map[string, any], string, error) {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	r, name, err := openInput(cmd, args)
	if err != nil {
		return nil, "", err
	}
	defer r.Close()

	format := in.input
	if format == "" {
		format = nestio.InferFormat(name)
	}
	if err := nestio.ValidateFormat(format, nestio.InputFormats); err != nil {
		return nil, "", err
	}

	prog := newProgress(logger)
	m, err := nestio.Read(ctx, r, format, nestio.ReadOptions{Depth: in.depth, Separator: in.pathSep})
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", name, err)
	}
	prog.done(fmt.Sprintf("Read %s (%s)", name, format))
	return m, name, nil
}

// writeMap encodes m in out.format to stdout or out.output. SVG rendering
// to a file shows a spinner on stderr.
func writeMap[V any](ctx context.Context, cmd *cobra.Command, m *nested.Map[string, V], out outputOpts, pathSep string) error {
	wopts := nestio.WriteOptions{Separator: pathSep, Root: out.root}
	return writeOutput(cmd, out.output, func(w io.Writer) error {
		if out.format != nestio.FormatSVG || out.output == "" {
			return nestio.Write(ctx, w, m, out.format, wopts)
		}
		spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering SVG...")
		spinner.Start()
		err := nestio.Write(ctx, w, m, out.format, wopts)
		spinner.Stop()
		if spinner.Cancelled() {
			return ctx.Err()
		}
		if err != nil {
			spinner.StopWithError("SVG rendering failed")
			return err
		}
		spinner.StopWithSuccess("Rendered SVG")
		return nil
	})
}
