package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateListExtractRoundTrip(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	if err := os.MkdirAll(srcDir, 0o777); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "readme.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	archivePath := filepath.Join(dir, "out.zip")
	if code := run([]string{"-c", "-C", srcDir, archivePath, "readme.txt"}); code != 0 {
		t.Fatalf("create exit code = %d, want 0", code)
	}
	if _, err := os.Stat(archivePath); err != nil {
		t.Fatalf("archive not created: %v", err)
	}

	if code := run([]string{"-l", archivePath}); code != 0 {
		t.Fatalf("list exit code = %d, want 0", code)
	}

	destDir := filepath.Join(dir, "dest")
	if code := run([]string{"-e", "-C", destDir, archivePath}); code != 0 {
		t.Fatalf("extract exit code = %d, want 0", code)
	}
	// Extraction uses NFS-encoded names; readme.txt is Text (0xFFF).
	got, err := os.ReadFile(filepath.Join(destDir, "readme.txt,fff"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("extracted content = %q, want %q", got, "hello")
	}
}

func TestMissingArchiveArgument(t *testing.T) {
	if code := run([]string{"-l"}); code != 1 {
		t.Errorf("exit code = %d, want 1 when no archive given", code)
	}
}

func TestNoActionSpecified(t *testing.T) {
	if code := run([]string{"somefile.zip"}); code != 1 {
		t.Errorf("exit code = %d, want 1 when no action flag given", code)
	}
}

func TestBadFiletypeName(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "out.zip")
	if code := run([]string{"-c", "-T", "not-a-filetype", archivePath}); code != 1 {
		t.Errorf("exit code = %d, want 1 for an unrecognised -T value", code)
	}
}
