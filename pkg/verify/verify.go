// pkg/verify/verify.go
package verify

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/zeebo/blake3"

	"github.com/creativeyann17/solidfs/pkg/archive"
	"github.com/creativeyann17/solidfs/pkg/decoder"
	"github.com/creativeyann17/solidfs/pkg/progress"
)

// Verify verifies an archive and returns comprehensive results
func Verify(opts *Options, progressCb progress.Callback) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	info, err := os.Stat(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}

	session, err := decoder.NewRegistry().OpenFile(opts.InputPath, opts.sessionOptions()...)
	if err != nil {
		result := &Result{ArchivePath: opts.InputPath, ArchiveSize: uint64(info.Size())}
		result.Errors = append(result.Errors, err)
		return result, fmt.Errorf("open archive: %w", err)
	}
	defer session.Close()

	result, err := VerifySession(session, opts, progressCb)
	if result != nil {
		result.ArchivePath = opts.InputPath
		result.ArchiveSize = uint64(info.Size())
	}
	return result, err
}

// VerifySession checks an already open session. opts.InputPath is ignored.
func VerifySession(session *archive.Session, opts *Options, progressCb progress.Callback) (*Result, error) {
	opts.applyDefaults()
	emit := func(event progress.Event) {
		if progressCb != nil {
			progressCb(event)
		}
	}

	var manifest Manifest
	if opts.Manifest != "" {
		var err error
		if manifest, err = LoadManifest(opts.Manifest); err != nil {
			return nil, err
		}
	}

	result := &Result{
		Format:         session.Decoder().Name(),
		ArchivePath:    session.Name(),
		BlockCount:     session.BlockCount(),
		ManifestLoaded: manifest != nil,
	}

	entries := session.Index().Entries()
	var empty []*archive.Entry
	for _, e := range entries {
		switch {
		case e.IsDir:
			result.DirCount++
		case !e.HasBlock():
			result.FileCount++
			result.EmptyFiles++
			empty = append(empty, e)
		default:
			result.FileCount++
			result.TotalSize += e.Size
		}
	}
	if !opts.VerifyData {
		return result, nil
	}

	result.DataVerified = true
	emit(progress.Event{Type: progress.EventStart, Total: int64(result.FileCount)})

	seen := make(map[string]bool, result.FileCount)
	record := func(e *archive.Entry, digest string, err error) {
		fi := FileInfo{Path: e.Path, Size: e.Size, Block: uint32(e.Block), Digest: digest, Error: err}
		seen[e.Path] = true
		if err == nil && manifest != nil {
			if want, ok := manifest[e.Path]; ok && want != digest {
				fi.Error = fmt.Errorf("%w: %s", ErrDigestMismatch, e.Path)
				result.Mismatched++
				result.Errors = append(result.Errors, fi.Error)
			}
		}
		switch {
		case err != nil:
			result.CorruptFiles++
			result.Errors = append(result.Errors, fmt.Errorf("%w: %s: %w", ErrCorruptData, e.Path, err))
			emit(progress.Event{Type: progress.EventError, FilePath: e.Path})
			opts.Logger.Warn("member failed verification", "path", e.Path, "error", err)
		case fi.Error != nil:
			emit(progress.Event{Type: progress.EventError, FilePath: e.Path})
			opts.Logger.Warn("member does not match manifest", "path", e.Path)
		default:
			result.FilesVerified++
			emit(progress.Event{Type: progress.EventFileComplete, FilePath: e.Path, Current: int64(e.Size), Total: int64(e.Size)})
		}
		result.Files = append(result.Files, fi)
	}

	for _, e := range empty {
		emit(progress.Event{Type: progress.EventFileStart, FilePath: e.Path})
		record(e, hex.EncodeToString(blake3.New().Sum(nil)), nil)
	}

	order, groups := archive.GroupByBlock(entries)
	for _, id := range order {
		decoded, read := verifyBlock(session, groups[id], record, emit)
		if decoded {
			result.BlocksDecoded++
		}
		result.BytesVerified += uint64(read)
	}

	if manifest != nil {
		missing := make([]string, 0)
		for path := range manifest {
			if !seen[path] {
				missing = append(missing, path)
			}
		}
		sort.Strings(missing)
		for _, path := range missing {
			result.MissingFiles++
			result.Errors = append(result.Errors, fmt.Errorf("%w: %s", ErrMissingFile, path))
		}
	}

	emit(progress.Event{Type: progress.EventComplete, Current: int64(result.FilesVerified), Total: int64(result.FileCount)})
	return result, nil
}

// verifyBlock digests every entry of one block. All handles are opened
// first so the block is decompressed once. It reports whether any entry
// could be read and how many member bytes were hashed.
func verifyBlock(session *archive.Session, entries []*archive.Entry,
	record func(*archive.Entry, string, error), emit func(progress.Event)) (bool, int64) {
	handles := make([]*archive.Handle, len(entries))
	for i, e := range entries {
		h, err := session.OpenRead(e.Path)
		if err != nil {
			record(e, "", err)
			continue
		}
		handles[i] = h
	}

	decoded := false
	var total int64
	for i, e := range entries {
		h := handles[i]
		if h == nil {
			continue
		}
		emit(progress.Event{Type: progress.EventFileStart, FilePath: e.Path, Total: h.Len()})

		hasher := blake3.New()
		meter := &progress.Meter{Path: e.Path, Total: h.Len(), Emit: emit}
		_, err := io.Copy(hasher, meter.Reader(h))
		h.Close()
		total += meter.N
		if err != nil {
			record(e, "", err)
			continue
		}
		decoded = true
		record(e, hex.EncodeToString(hasher.Sum(nil)), nil)
	}
	return decoded, total
}
