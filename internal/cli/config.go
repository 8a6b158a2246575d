package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	verrors "github.com/matzehuels/vivify/pkg/errors"
	"github.com/matzehuels/vivify/pkg/nestio"
)

// configEnv names the environment variable that overrides the config path.
const configEnv = "VIVIFY_CONFIG"

// Config holds user defaults read from the TOML config file. Flags given on
// the command line take precedence.
type Config struct {
	// Format is the default output format.
	Format string `toml:"format"`

	// Separator splits records in the count command. Empty splits on
	// runs of whitespace.
	Separator string `toml:"separator"`

	// PathSeparator splits and joins key paths.
	PathSeparator string `toml:"path_separator"`

	// LogLevel is the default log level: debug, info, warn or error.
	LogLevel string `toml:"log_level"`

	path string // file the config was loaded from, empty for defaults
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Format:        nestio.FormatJSON,
		PathSeparator: nestio.DefaultSeparator,
		LogLevel:      "info",
	}
}

func (c Config) level() (log.Level, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return LogInfo, verrors.Wrap(verrors.ErrCodeInvalidConfig, err, "log_level")
	}
	return level, nil
}

func (c Config) validate() error {
	if err := nestio.ValidateFormat(c.Format, nestio.OutputFormats); err != nil {
		return verrors.Wrap(verrors.ErrCodeInvalidConfig, err, "format")
	}
	if err := verrors.ValidateSeparator(c.PathSeparator); err != nil {
		return verrors.Wrap(verrors.ErrCodeInvalidConfig, err, "path_separator")
	}
	if c.Separator != "" {
		if err := verrors.ValidateSeparator(c.Separator); err != nil {
			return verrors.Wrap(verrors.ErrCodeInvalidConfig, err, "separator")
		}
	}
	_, err := c.level()
	return err
}

// configPath returns the config file location: $VIVIFY_CONFIG, else the XDG
// config directory (~/.config/vivify/config.toml).
func configPath() string {
	if p := os.Getenv(configEnv); p != "" {
		return p
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// loadConfig reads the config file at path over the defaults. A missing file
// yields the defaults unless the path was given explicitly. Unknown keys are
// logged as warnings.
func loadConfig(path string, explicit bool, logger *log.Logger) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		if explicit {
			return cfg, verrors.Wrap(verrors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return DefaultConfig(), nil
	}
	if err != nil {
		return cfg, verrors.Wrap(verrors.ErrCodeInvalidConfig, err, "config %s", path)
	}

	for _, key := range md.Undecoded() {
		logger.Warn("unknown config key", "key", key.String(), "file", path)
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	cfg.path = path
	return cfg, nil
}

// configCommand creates the config command, which prints the config file in
// use and the effective settings.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the configuration file and effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			source := c.Config.path
			if source == "" {
				source = StyleDim.Render("(defaults)")
			}
			printKeyValue(w, "file", source)
			printKeyValue(w, "format", c.Config.Format)
			printKeyValue(w, "separator", displaySeparator(c.Config.Separator))
			printKeyValue(w, "path_sep", displaySeparator(c.Config.PathSeparator))
			printKeyValue(w, "log_level", c.Config.LogLevel)
			return nil
		},
	}
}

func displaySeparator(sep string) string {
	if sep == "" {
		return "whitespace"
	}
	return strings.Trim(nestio.FormatValue(sep), `"`)
}
