package qobuzdl

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestNewCLIWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/qobuz-dl"))
	if cli.binary != "/opt/qobuz-dl" {
		t.Fatalf("expected binary override to be applied, got %q", cli.binary)
	}
}

func TestDownloadRequiresURL(t *testing.T) {
	cli := NewCLI()
	if err := cli.Download(context.Background(), "", "/tmp"); err == nil {
		t.Fatal("expected error when url is empty")
	}
}

func TestDownloadRequiresDestDir(t *testing.T) {
	cli := NewCLI()
	if err := cli.Download(context.Background(), "https://example.com/album/1", ""); err == nil {
		t.Fatal("expected error when destination is empty")
	}
}

func TestDownloadBuildsArguments(t *testing.T) {
	var capturedName string
	var capturedArgs []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		capturedName = name
		capturedArgs = append([]string(nil), args...)
		return exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
	}
	t.Cleanup(func() {
		commandContext = original
	})

	cli := NewCLI(WithBinary("qobuz-dl"))
	_ = cli.Download(context.Background(), "https://example.com/album/1", t.TempDir())

	if capturedName != "qobuz-dl" {
		t.Fatalf("unexpected binary %q", capturedName)
	}
	joined := strings.Join(capturedArgs, " ")
	if !strings.HasPrefix(joined, "dl https://example.com/album/1 -d ") {
		t.Fatalf("unexpected arguments %q", joined)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	os.Exit(0)
}
