package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")

	content := []byte("hello world")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestMoveDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "album")
	dst := filepath.Join(dir, "dest", "album")
	if err := os.MkdirAll(filepath.Join(src, "scans"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "01.flac"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := MoveDir(src, dst); err != nil {
		t.Fatal(err)
	}
	if Exists(src) {
		t.Fatal("source should be gone")
	}
	if !Exists(filepath.Join(dst, "01.flac")) || !IsDir(filepath.Join(dst, "scans")) {
		t.Fatal("destination missing contents")
	}
}

func TestTotalSize(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.flac"), make([]byte, 100), 0o644); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "b.flac"), make([]byte, 50), 0o644); err != nil {
		t.Fatal(err)
	}

	total, err := TotalSize(dir)
	if err != nil {
		t.Fatal(err)
	}
	if total != 150 {
		t.Fatalf("expected 150 bytes, got %d", total)
	}
}

func TestSubdirNames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b", "a"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "file.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	names, err := SubdirNames(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 subdirs, got %d", len(names))
	}
	if _, ok := names["file.txt"]; ok {
		t.Fatal("files must not be listed")
	}

	missing, err := SubdirNames(filepath.Join(dir, "nope"))
	if err != nil {
		t.Fatal(err)
	}
	if len(missing) != 0 {
		t.Fatal("missing directory should yield empty set")
	}
}

func TestFilesWithExt(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"02.FLAC", "01.flac", "cover.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	names, err := FilesWithExt(dir, ".flac")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "01.flac" || names[1] != "02.FLAC" {
		t.Fatalf("unexpected listing: %v", names)
	}
}
