package cli

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	verrors "github.com/matzehuels/vivify/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "vivify"

	// stdinName selects standard input in place of a file argument.
	stdinName = "-"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configPath string // --config flag
	verbose    bool   // --verbose flag
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Input & Output
// =============================================================================

// openInput opens the file named by the first argument, or the command's
// standard input when there is none or it is "-". The returned name is used
// for format inference and log messages.
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == stdinName {
		return io.NopCloser(cmd.InOrStdin()), stdinName, nil
	}
	path := args[0]
	if err := verrors.ValidatePath(path); err != nil {
		return nil, "", err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", verrors.Wrap(verrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, "", verrors.Wrap(verrors.ErrCodeInvalidInput, err, "open %s", path)
	}
	return f, path, nil
}

// writeOutput calls write with the command's standard output, or with the
// file at path when path is set. A partially written file is removed on
// error.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" || path == stdinName {
		return write(cmd.OutOrStdout())
	}
	if err := verrors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return verrors.Wrap(verrors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
