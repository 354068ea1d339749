// pkg/verify/verify_test.go
package verify_test

import (
	"archive/tar"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/pierrec/lz4/v4"
	"github.com/zeebo/blake3"

	"github.com/creativeyann17/solidfs/pkg/verify"
)

var files = map[string]string{
	"file1.txt":        "hello world",
	"file2.txt":        "test data here",
	"subdir/file3.txt": "nested content",
	"empty.txt":        "",
}

func writeTarLZ4(t *testing.T, files map[string]string) string {
	t.Helper()
	var raw bytes.Buffer
	tw := tar.NewWriter(&raw)
	for name, body := range files {
		if err := tw.WriteHeader(&tar.Header{Name: name, Mode: 0644, Size: int64(len(body)), Typeflag: tar.TypeReg}); err != nil {
			t.Fatalf("write header: %v", err)
		}
		if _, err := tw.Write([]byte(body)); err != nil {
			t.Fatalf("write body: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(raw.Bytes()); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "test.tar.lz4")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func digest(s string) string {
	sum := blake3.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func writeManifest(t *testing.T, entries map[string]string) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("# generated by b3sum\n")
	for name, body := range entries {
		fmt.Fprintf(&sb, "%s  %s\n", digest(body), name)
	}
	path := filepath.Join(t.TempDir(), "SUMS.b3")
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVerifyStructure(t *testing.T) {
	archivePath := writeTarLZ4(t, files)

	result, err := verify.Verify(&verify.Options{InputPath: archivePath}, nil)
	if err != nil {
		t.Fatalf("Verification failed: %v", err)
	}
	if !result.IsValid() {
		t.Errorf("Expected valid archive, errors: %v", result.Errors)
	}
	if result.Format != "tar.lz4" {
		t.Errorf("Format = %q", result.Format)
	}
	if result.FileCount != 4 || result.EmptyFiles != 1 || result.DirCount != 1 {
		t.Errorf("files=%d empty=%d dirs=%d", result.FileCount, result.EmptyFiles, result.DirCount)
	}
	if result.BlockCount != 1 {
		t.Errorf("BlockCount = %d, want 1", result.BlockCount)
	}
	if result.DataVerified {
		t.Error("data should not be verified without VerifyData")
	}
	if !strings.Contains(result.Summary(), "[VALID]") {
		t.Errorf("summary: %s", result.Summary())
	}
}

func TestVerifyData(t *testing.T) {
	archivePath := writeTarLZ4(t, files)

	result, err := verify.Verify(&verify.Options{InputPath: archivePath, VerifyData: true}, nil)
	if err != nil {
		t.Fatalf("Verification failed: %v", err)
	}
	if !result.IsValid() || result.FilesVerified != 4 {
		t.Fatalf("verified %d files, errors: %v", result.FilesVerified, result.Errors)
	}
	if result.BlocksDecoded != 1 {
		t.Errorf("BlocksDecoded = %d, want 1", result.BlocksDecoded)
	}
	if result.BytesVerified != result.TotalSize {
		t.Errorf("BytesVerified = %d, want %d", result.BytesVerified, result.TotalSize)
	}
	for _, fi := range result.Files {
		if fi.Digest != digest(files[fi.Path]) {
			t.Errorf("%s digest = %s", fi.Path, fi.Digest)
		}
	}
}

func TestVerifyManifest(t *testing.T) {
	archivePath := writeTarLZ4(t, files)

	t.Run("Match", func(t *testing.T) {
		opts := &verify.Options{InputPath: archivePath, Manifest: writeManifest(t, files)}
		result, err := verify.Verify(opts, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !result.IsValid() || result.Mismatched != 0 {
			t.Errorf("expected match, errors: %v", result.Errors)
		}
	})

	t.Run("Mismatch", func(t *testing.T) {
		changed := map[string]string{"file1.txt": "tampered", "missing.txt": "x"}
		opts := &verify.Options{InputPath: archivePath, Manifest: writeManifest(t, changed)}
		result, err := verify.Verify(opts, nil)
		if err != nil {
			t.Fatal(err)
		}
		if result.IsValid() {
			t.Fatal("expected invalid result")
		}
		if result.Mismatched != 1 || result.MissingFiles != 1 {
			t.Errorf("mismatched=%d missing=%d", result.Mismatched, result.MissingFiles)
		}
		if result.FilesVerified != result.FileCount-1 {
			t.Errorf("FilesVerified = %d of %d, mismatched file must not count", result.FilesVerified, result.FileCount)
		}
		var sawMismatch, sawMissing bool
		for _, err := range result.Errors {
			sawMismatch = sawMismatch || errors.Is(err, verify.ErrDigestMismatch)
			sawMissing = sawMissing || errors.Is(err, verify.ErrMissingFile)
		}
		if !sawMismatch || !sawMissing {
			t.Errorf("errors: %v", result.Errors)
		}
	})
}

func TestVerifyCorruptZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{"good.txt", "bad.txt"} {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte("content of " + name)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	at := bytes.Index(data, []byte("content of bad.txt"))
	data[at] ^= 0xFF

	path := filepath.Join(t.TempDir(), "corrupt.zip")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	result, err := verify.Verify(&verify.Options{InputPath: path, VerifyData: true}, nil)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if result.IsValid() {
		t.Fatal("corrupted archive reported valid")
	}
	if result.CorruptFiles != 1 || result.FilesVerified != 1 {
		t.Errorf("corrupt=%d verified=%d", result.CorruptFiles, result.FilesVerified)
	}
	if !errors.Is(result.Errors[0], verify.ErrCorruptData) {
		t.Errorf("error = %v", result.Errors[0])
	}
}

func TestVerifyErrors(t *testing.T) {
	if _, err := verify.Verify(&verify.Options{}, nil); !errors.Is(err, verify.ErrInputRequired) {
		t.Errorf("expected ErrInputRequired, got %v", err)
	}
	if _, err := verify.Verify(&verify.Options{InputPath: "/nonexistent/archive.7z"}, nil); err == nil {
		t.Error("expected error for missing archive")
	}
}

func TestReadManifest(t *testing.T) {
	good := digest("x")
	m, err := verify.ReadManifest(strings.NewReader(good + "  ./dir/x.txt\n\n" + good + " *bin.dat\n"))
	if err != nil {
		t.Fatal(err)
	}
	if m["dir/x.txt"] != good || m["bin.dat"] != good {
		t.Errorf("manifest = %v", m)
	}

	for _, bad := range []string{"abc  short.txt", good, strings.Repeat("z", 64) + "  x"} {
		if _, err := verify.ReadManifest(strings.NewReader(bad)); !errors.Is(err, verify.ErrInvalidManifest) {
			t.Errorf("ReadManifest(%q) err = %v", bad, err)
		}
	}
}
