package flaccli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"

	"presser/internal/fileutil"
	"presser/internal/logging"
	"presser/internal/services"
)

var commandContext = exec.CommandContext

// Client defines the recompression behaviour the pipeline depends on.
type Client interface {
	RecompressFolder(ctx context.Context, folder string) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary path.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the flac reference encoder for maximum-compression re-encoding.
type CLI struct {
	binary string
	logger *slog.Logger
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(logger *slog.Logger, opts ...Option) *CLI {
	cli := &CLI{binary: "flac", logger: logging.NewComponentLogger(logger, "recompress")}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// RecompressFolder re-encodes every FLAC file directly inside folder at
// compression level 8, overwriting in place. Files are processed one at a
// time; the first failure stops the run.
func (c *CLI) RecompressFolder(ctx context.Context, folder string) error {
	if folder == "" {
		return errors.New("folder required")
	}

	names, err := fileutil.FilesWithExt(folder, ".flac")
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "recompress", "list files", folder, err)
	}
	if len(names) == 0 {
		c.logger.Warn("no flac files to recompress", logging.String("folder", folder))
		return nil
	}

	for i, name := range names {
		path := filepath.Join(folder, name)
		cmd := commandContext(ctx, c.binary, "-f8", path) //nolint:gosec
		if output, err := cmd.CombinedOutput(); err != nil {
			return services.Wrap(services.ErrExternalTool, "recompress", "flac -f8",
				fmt.Sprintf("%s: %s", name, firstLine(output)), err)
		}
		c.logger.Debug("recompressed",
			logging.String("file", name),
			logging.Int("index", i+1),
			logging.Int("count", len(names)))
	}
	c.logger.Info("recompression complete", logging.Int("files", len(names)))
	return nil
}

func firstLine(output []byte) string {
	for i, b := range output {
		if b == '\n' {
			return string(output[:i])
		}
	}
	return string(output)
}

var _ Client = (*CLI)(nil)
