// cmd/solidfs/config_test.go
package main

import (
	"archive/tar"
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creativeyann17/solidfs/pkg/archive"
	"github.com/creativeyann17/solidfs/pkg/decoder"
)

func TestParseMemoryBudget(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"0", 0},
		{"unlimited", 0},
		{"512MiB", 512 << 20},
		{"2 GB", 2_000_000_000},
		{"1024", 1024},
	}
	for _, tt := range tests {
		got, err := parseMemoryBudget(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseMemoryBudget("lots")
	assert.Error(t, err)
}

func TestCatMember(t *testing.T) {
	cfg.Logger = slog.New(slog.DiscardHandler)

	var raw bytes.Buffer
	tw := tar.NewWriter(&raw)
	for name, body := range map[string]string{"msg.txt": "hello, solid world", "empty": ""} {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0o644, Size: int64(len(body)), Typeflag: tar.TypeReg}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, err := zw.Write(raw.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	session, err := archive.Open(archive.NewBytesStream(gz.Bytes()), false, decoder.TarGzip())
	require.NoError(t, err)
	defer session.Close()

	var out bytes.Buffer
	require.NoError(t, catMember(&out, session, "msg.txt", 7, 5))
	assert.Equal(t, "solid", out.String())

	out.Reset()
	require.NoError(t, catMember(&out, session, "msg.txt", 0, -1))
	assert.Equal(t, "hello, solid world", out.String())

	out.Reset()
	require.NoError(t, catMember(&out, session, "empty", 0, -1))
	assert.Empty(t, out.String())

	assert.ErrorIs(t, catMember(&out, session, "missing", 0, -1), archive.ErrNotFound)
	assert.ErrorIs(t, catMember(&out, session, "msg.txt", 99, -1), archive.ErrPastEnd)
	assert.Zero(t, session.OpenHandles())
}

func TestOpenArchiveNamesContainer(t *testing.T) {
	cfg.Logger = slog.New(slog.DiscardHandler)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("plain text, not a tarball"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "notes.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	_, err = openArchive(path)
	require.ErrorIs(t, err, archive.ErrNotThisFormat)
	assert.Contains(t, err.Error(), "GZIP")
}
