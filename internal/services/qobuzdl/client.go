package qobuzdl

import (
	"context"
	"errors"
	"os"
	"os/exec"
)

var commandContext = exec.CommandContext

// Client defines the download tool behaviour the pipeline depends on. The
// tool offers no structured output; success only means it exited zero after
// (supposedly) creating one new folder under the destination.
type Client interface {
	Download(ctx context.Context, albumURL, destDir string) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the qobuz-dl command-line downloader.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "qobuz-dl"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Download invokes `qobuz-dl dl <url> -d <dir>` and waits for completion.
// Output passes through to the terminal; the tool renders its own progress.
func (c *CLI) Download(ctx context.Context, albumURL, destDir string) error {
	if albumURL == "" {
		return errors.New("album url required")
	}
	if destDir == "" {
		return errors.New("destination directory required")
	}

	cmd := commandContext(ctx, c.binary, "dl", albumURL, "-d", destDir) //nolint:gosec
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

var _ Client = (*CLI)(nil)
