package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/matzehuels/vivify/internal/cli"
	verrors "github.com/matzehuels/vivify/pkg/errors"
	"github.com/matzehuels/vivify/pkg/nestio"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		os.Exit(report(os.Stderr, err))
	}
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}

// report prints err to w and returns the exit status for it.
func report(w io.Writer, err error) int {
	if errors.Is(err, context.Canceled) {
		return 130 // Standard shell convention for SIGINT
	}
	if code := verrors.GetCode(err); code != "" {
		fmt.Fprintf(w, "Error [%s]: %s\n", code, verrors.UserMessage(err))
	} else {
		fmt.Fprintln(w, "Error:", err)
	}
	if verrors.Is(err, verrors.ErrCodeInvalidFormat) {
		fmt.Fprintf(w, "Input formats: %s\nOutput formats: %s\n",
			strings.Join(nestio.InputFormats, ", "), strings.Join(nestio.OutputFormats, ", "))
	}
	return 1
}
