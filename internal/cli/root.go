package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/vivify/pkg/buildinfo"
	"github.com/matzehuels/vivify/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Before any subcommand runs, the configuration file is loaded and the log
// level is set from it; --verbose (-v) forces debug level. The logger is
// attached to the command context and accessible via loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Vivify builds and explores auto-vivifying nested maps",
		Long: `Vivify builds nested mappings from key-path listings, JSON or TOML documents,
counts delimited records into bounded mappings, and prints the result as JSON,
TOML, key paths, a text tree, Graphviz DOT or SVG.`,
		Version:       buildinfo.Resolved(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $VIVIFY_CONFIG or ~/.config/vivify/config.toml)")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.countCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config file and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	path, explicit := c.configPath, c.configPath != ""
	if !explicit {
		path = configPath()
	}
	cfg, err := loadConfig(path, explicit, c.Logger)
	if err != nil {
		return err
	}
	c.Config = cfg

	level, err := cfg.level()
	if err != nil {
		return err
	}
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	if cfg.path != "" {
		c.Logger.Debug("loaded config", "path", cfg.path)
	}

	observability.SetCodecHooks(logHooks{})
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}
