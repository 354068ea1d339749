// pkg/extract/extract_test.go
package extract_test

import (
	"archive/tar"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/creativeyann17/solidfs/pkg/archive"
	"github.com/creativeyann17/solidfs/pkg/extract"
	"github.com/creativeyann17/solidfs/pkg/progress"
)

var mtime = time.Date(2022, 1, 2, 3, 4, 5, 0, time.UTC)

// writeTarZst creates a .tar.zst archive holding files (a trailing "/"
// marks a directory).
func writeTarZst(t *testing.T, files map[string]string) string {
	t.Helper()
	var raw bytes.Buffer
	tw := tar.NewWriter(&raw)
	for name, body := range files {
		hdr := &tar.Header{Name: name, Mode: 0644, Size: int64(len(body)), ModTime: mtime, Typeflag: tar.TypeReg}
		if name[len(name)-1] == '/' {
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0755
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("write header: %v", err)
		}
		if _, err := tw.Write([]byte(body)); err != nil {
			t.Fatalf("write body: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar: %v", err)
	}

	var compressed bytes.Buffer
	enc, err := zstd.NewWriter(&compressed)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	if _, err := enc.Write(raw.Bytes()); err != nil {
		t.Fatalf("zstd write: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("zstd close: %v", err)
	}

	path := filepath.Join(t.TempDir(), "test.tar.zst")
	if err := os.WriteFile(path, compressed.Bytes(), 0644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}

var testFiles = map[string]string{
	"file1.txt":         "hello world",
	"file2.log":         "log line",
	"subdir/":           "",
	"subdir/file3.txt":  "nested content",
	"build/out.bin":     "binary",
	"empty.txt":         "",
	"deep/er/file4.txt": "deeper",
}

func TestExtract(t *testing.T) {
	archivePath := writeTarZst(t, testFiles)
	outDir := t.TempDir()

	var events []progress.EventType
	opts := &extract.Options{InputPath: archivePath, OutputPath: outDir, Quiet: true}
	result, err := extract.Extract(opts, func(e progress.Event) { events = append(events, e.Type) })
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !result.Success() {
		t.Fatalf("Extract reported errors: %v", result.Errors)
	}
	if result.FilesTotal != 6 || result.FilesProcessed != 6 {
		t.Errorf("files %d/%d, want 6/6", result.FilesProcessed, result.FilesTotal)
	}
	if result.BlocksDecoded != 1 {
		t.Errorf("BlocksDecoded = %d, want 1", result.BlocksDecoded)
	}
	var want uint64
	for _, body := range testFiles {
		want += uint64(len(body))
	}
	if result.BytesWritten != want {
		t.Errorf("BytesWritten = %d, want %d", result.BytesWritten, want)
	}
	sawProgress := false
	for _, ev := range events {
		sawProgress = sawProgress || ev == progress.EventFileProgress
	}
	if !sawProgress {
		t.Error("no file progress events")
	}

	for name, body := range testFiles {
		if name[len(name)-1] == '/' {
			continue
		}
		got, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Errorf("read %s: %v", name, err)
			continue
		}
		if string(got) != body {
			t.Errorf("%s = %q, want %q", name, got, body)
		}
	}

	info, err := os.Stat(filepath.Join(outDir, "file1.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(mtime) {
		t.Errorf("mtime = %v, want %v", info.ModTime(), mtime)
	}

	if len(events) == 0 || events[0] != progress.EventStart || events[len(events)-1] != progress.EventComplete {
		t.Errorf("unexpected event sequence %v", events)
	}
}

func TestExtractPatterns(t *testing.T) {
	archivePath := writeTarZst(t, testFiles)

	t.Run("Exclude", func(t *testing.T) {
		outDir := t.TempDir()
		opts := &extract.Options{
			InputPath:  archivePath,
			OutputPath: outDir,
			Exclude:    []string{"*.log", "build/"},
		}
		result, err := extract.Extract(opts, nil)
		if err != nil {
			t.Fatalf("Extract failed: %v", err)
		}
		if result.Skipped != 2 {
			t.Errorf("Skipped = %d, want 2", result.Skipped)
		}
		for _, gone := range []string{"file2.log", "build/out.bin"} {
			if _, err := os.Stat(filepath.Join(outDir, gone)); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("%s should not be extracted", gone)
			}
		}
		if _, err := os.Stat(filepath.Join(outDir, "subdir", "file3.txt")); err != nil {
			t.Errorf("subdir/file3.txt missing: %v", err)
		}
	})

	t.Run("Include", func(t *testing.T) {
		outDir := t.TempDir()
		opts := &extract.Options{
			InputPath:  archivePath,
			OutputPath: outDir,
			Include:    []string{"*.txt"},
		}
		result, err := extract.Extract(opts, nil)
		if err != nil {
			t.Fatalf("Extract failed: %v", err)
		}
		if result.FilesTotal != 4 {
			t.Errorf("FilesTotal = %d, want 4", result.FilesTotal)
		}
		if _, err := os.Stat(filepath.Join(outDir, "build", "out.bin")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("build/out.bin should not be extracted")
		}
	})

	t.Run("ExcludeFrom", func(t *testing.T) {
		patterns := filepath.Join(t.TempDir(), "patterns")
		if err := os.WriteFile(patterns, []byte("deep/\n"), 0644); err != nil {
			t.Fatal(err)
		}
		outDir := t.TempDir()
		opts := &extract.Options{InputPath: archivePath, OutputPath: outDir, ExcludeFrom: patterns}
		result, err := extract.Extract(opts, nil)
		if err != nil {
			t.Fatalf("Extract failed: %v", err)
		}
		if result.Skipped != 1 {
			t.Errorf("Skipped = %d, want 1", result.Skipped)
		}
	})
}

func TestExtractNoOverwrite(t *testing.T) {
	archivePath := writeTarZst(t, map[string]string{"a.txt": "new"})
	outDir := t.TempDir()
	existing := filepath.Join(outDir, "a.txt")
	if err := os.WriteFile(existing, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := extract.Extract(&extract.Options{InputPath: archivePath, OutputPath: outDir}, nil)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(result.Errors) != 1 || !errors.Is(result.Errors[0], extract.ErrFileExists) {
		t.Fatalf("expected ErrFileExists, got %v", result.Errors)
	}
	if got, _ := os.ReadFile(existing); string(got) != "old" {
		t.Errorf("file was overwritten: %q", got)
	}

	result, err = extract.Extract(&extract.Options{InputPath: archivePath, OutputPath: outDir, Overwrite: true}, nil)
	if err != nil || !result.Success() {
		t.Fatalf("overwrite extract failed: %v %v", err, result.Errors)
	}
	if got, _ := os.ReadFile(existing); string(got) != "new" {
		t.Errorf("file not overwritten: %q", got)
	}
}

func TestExtractErrors(t *testing.T) {
	if _, err := extract.Extract(&extract.Options{}, nil); !errors.Is(err, extract.ErrInputRequired) {
		t.Errorf("expected ErrInputRequired, got %v", err)
	}

	notArchive := filepath.Join(t.TempDir(), "plain.txt")
	if err := os.WriteFile(notArchive, []byte("just text"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := extract.Extract(&extract.Options{InputPath: notArchive, OutputPath: t.TempDir()}, nil)
	if !errors.Is(err, archive.ErrNotThisFormat) {
		t.Errorf("expected ErrNotThisFormat, got %v", err)
	}
}
