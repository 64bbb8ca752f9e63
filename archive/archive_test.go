package archive

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rozip/rozip/riscosmeta"
)

func TestAddFileExtractRoundTrip(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "hello.txt")
	if err := os.WriteFile(srcPath, []byte("hello world"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	archivePath := filepath.Join(dir, "out.zip")
	cfg := riscosmeta.DefaultConfig().WithTypeCache()

	w, err := Create(archivePath, cfg)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := w.AddFile(srcPath, "hello.txt", 0); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil { // idempotent
		t.Fatalf("second Close: %v", err)
	}

	r, err := Open(archivePath, cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	recs := r.Records()
	if len(recs) != 1 {
		t.Fatalf("Records() = %d entries, want 1", len(recs))
	}
	rec := recs[0]
	if got := rec.RiscosFiletype(); got != 0xFFF {
		t.Errorf("filetype = %#x, want 0xFFF (Text, from .txt extension)", got)
	}

	destDir := filepath.Join(dir, "extracted")
	if err := r.Extract(rec, destDir); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(destDir, "hello.txt"))
	if err != nil {
		t.Fatalf("ReadFile extracted: %v", err)
	}
	if !bytes.Equal(got, []byte("hello world")) {
		t.Errorf("extracted content = %q, want %q", got, "hello world")
	}
}

func TestListPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	names := []string{"b.txt", "a.txt", "c.txt"}
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte(n), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	archivePath := filepath.Join(dir, "order.zip")
	cfg := riscosmeta.DefaultConfig()

	w, err := Create(archivePath, cfg)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, n := range names {
		if err := w.AddFile(filepath.Join(dir, n), n, 0); err != nil {
			t.Fatalf("AddFile(%s): %v", n, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := Open(archivePath, cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	var got []string
	for rec, err := range r.List() {
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		got = append(got, rec.Filename)
	}
	for i, n := range names {
		if got[i] != n {
			t.Errorf("List()[%d] = %q, want %q (central-directory order must be preserved)", i, got[i], n)
		}
	}
}

func TestMatchesGlob(t *testing.T) {
	cfg := riscosmeta.DefaultConfig()
	rec := riscosmeta.FromFileInfo(cfg, "dir/file.txt", time.Date(2020, 5, 17, 23, 8, 7, 0, time.UTC), false, 0o644, 5)

	if !MatchesGlob([]string{"**/*.txt"}, rec) {
		t.Errorf("expected **/*.txt to match dir/file.txt")
	}
	if MatchesGlob([]string{"**/*.bin"}, rec) {
		t.Errorf("expected **/*.bin not to match dir/file.txt")
	}
	if !MatchesGlob(nil, rec) {
		t.Errorf("expected no patterns to match everything")
	}
}

func TestCorruptExtraDoesNotFailList(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "corrupt.zip")
	f, err := os.Create(archivePath)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	zw := zip.NewWriter(f)
	// The extra field declares a chunk length that overruns the buffer.
	fw, err := zw.CreateHeader(&zip.FileHeader{Name: "plain.txt", Method: zip.Store, Extra: []byte{0x41, 0x43, 0xff, 0xff, 1, 2}})
	if err != nil {
		t.Fatalf("CreateHeader: %v", err)
	}
	if _, err := fw.Write([]byte("x")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip Close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	cfg := riscosmeta.DefaultConfig()
	r, err := Open(archivePath, cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	count := 0
	for rec, err := range r.List() {
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if !rec.CorruptExtra() {
			t.Errorf("CorruptExtra() = false, want true")
		}
		if rec.RiscosPresent() {
			t.Errorf("RiscosPresent() = true, want false for a corrupt extra field")
		}
		count++
	}
	if count != 1 {
		t.Fatalf("List() yielded %d records, want 1", count)
	}
}
