package flaccli

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestRecompressFolderRequiresFolder(t *testing.T) {
	cli := NewCLI(nil)
	if err := cli.RecompressFolder(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty folder")
	}
}

func TestRecompressFolderNoFlacsIsNoOp(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cover.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	original := commandContext
	called := 0
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		called++
		return exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
	}
	t.Cleanup(func() { commandContext = original })

	cli := NewCLI(nil)
	if err := cli.RecompressFolder(context.Background(), dir); err != nil {
		t.Fatalf("RecompressFolder: %v", err)
	}
	if called != 0 {
		t.Fatalf("expected no invocations, got %d", called)
	}
}

func TestRecompressFolderInvokesPerFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"01.flac", "02.flac", "03.FLAC"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var invocations [][]string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		invocations = append(invocations, append([]string{name}, args...))
		return exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
	}
	t.Cleanup(func() { commandContext = original })

	cli := NewCLI(nil, WithBinary("/usr/bin/flac"))
	if err := cli.RecompressFolder(context.Background(), dir); err != nil {
		t.Fatalf("RecompressFolder: %v", err)
	}
	if len(invocations) != 3 {
		t.Fatalf("expected 3 invocations, got %d", len(invocations))
	}
	for _, args := range invocations {
		if args[0] != "/usr/bin/flac" || args[1] != "-f8" {
			t.Fatalf("unexpected invocation %v", args)
		}
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	os.Exit(0)
}
