// pkg/extract/extract.go
package extract

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/creativeyann17/solidfs/pkg/archive"
	"github.com/creativeyann17/solidfs/pkg/decoder"
	"github.com/creativeyann17/solidfs/pkg/progress"
)

// Extract opens the archive at opts.InputPath and writes its contents
// under opts.OutputPath.
func Extract(opts *Options, progressCb progress.Callback) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	session, err := decoder.NewRegistry().OpenFile(opts.InputPath, opts.sessionOptions()...)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer session.Close()

	return ExtractSession(session, opts, progressCb)
}

// plan groups the selected entries so that each block is decompressed
// once: all handles of a block are opened before the first read, and the
// block is evicted when the last of them closes.
type plan struct {
	dirs   []*archive.Entry
	empty  []*archive.Entry
	blocks []archive.BlockID
	files  map[archive.BlockID][]*archive.Entry
}

func makePlan(entries []*archive.Entry, filter *patternFilter, result *Result) *plan {
	p := &plan{}
	var stored []*archive.Entry
	for _, e := range entries {
		if e.IsDir {
			if filter.SelectedDir(e.Path) {
				p.dirs = append(p.dirs, e)
			}
			continue
		}
		if !filter.Selected(e.Path) {
			result.Skipped++
			continue
		}
		result.FilesTotal++
		if !e.HasBlock() {
			p.empty = append(p.empty, e)
			continue
		}
		stored = append(stored, e)
	}
	p.blocks, p.files = archive.GroupByBlock(stored)
	return p
}

// extractor carries the state of one extraction run.
type extractor struct {
	session    *archive.Session
	opts       *Options
	progressCb progress.Callback
	result     *Result
}

// ExtractSession writes the entries of an already open session.
// opts.InputPath is ignored.
func ExtractSession(session *archive.Session, opts *Options, progressCb progress.Callback) (*Result, error) {
	opts.applyDefaults()
	filter, err := newPatternFilter(opts.Include, opts.Exclude, opts.ExcludeFrom)
	if err != nil {
		return nil, fmt.Errorf("compile patterns: %w", err)
	}
	if err := os.MkdirAll(opts.OutputPath, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	x := &extractor{session: session, opts: opts, progressCb: progressCb, result: &Result{}}
	p := makePlan(session.Index().Entries(), filter, x.result)

	x.emit(progress.Event{Type: progress.EventStart, Total: int64(x.result.FilesTotal)})

	for _, e := range p.dirs {
		x.extractDir(e)
	}
	for _, e := range p.empty {
		x.extractEmpty(e)
	}
	for _, id := range p.blocks {
		x.extractBlock(id, p.files[id])
	}

	x.emit(progress.Event{
		Type:    progress.EventComplete,
		Current: int64(x.result.FilesProcessed),
		Total:   int64(x.result.FilesTotal),
	})

	// Per-file failures are reported through result.Errors
	return x.result, nil
}

func (x *extractor) emit(event progress.Event) {
	if x.progressCb != nil {
		x.progressCb(event)
	}
}

func (x *extractor) fail(e *archive.Entry, err error) {
	x.result.Errors = append(x.result.Errors, fmt.Errorf("%s: %w", e.Path, err))
	x.emit(progress.Event{Type: progress.EventError, FilePath: e.Path})
	x.opts.Logger.Warn("extract failed", "path", e.Path, "error", err)
}

func (x *extractor) outPath(e *archive.Entry) (string, error) {
	rel := filepath.FromSlash(e.Path)
	if !filepath.IsLocal(rel) {
		return "", ErrUnsafePath
	}
	return filepath.Join(x.opts.OutputPath, rel), nil
}

func (x *extractor) extractDir(e *archive.Entry) {
	out, err := x.outPath(e)
	if err != nil {
		x.result.Errors = append(x.result.Errors, fmt.Errorf("%s: %w", e.Path, err))
		return
	}
	if err := os.MkdirAll(out, 0755); err != nil {
		x.result.Errors = append(x.result.Errors, fmt.Errorf("%s: mkdir: %w", e.Path, err))
		return
	}
	x.result.DirsCreated++
}

func (x *extractor) extractEmpty(e *archive.Entry) {
	x.emit(progress.Event{Type: progress.EventFileStart, FilePath: e.Path})
	n, err := x.writeFile(e, eofReader{})
	if err != nil {
		x.fail(e, err)
		return
	}
	x.complete(e, n)
}

// extractBlock pins the block with one handle per entry, then drains them
// in index order.
func (x *extractor) extractBlock(id archive.BlockID, entries []*archive.Entry) {
	handles := make([]*archive.Handle, len(entries))
	for i, e := range entries {
		h, err := x.session.OpenRead(e.Path)
		if err != nil {
			x.fail(e, err)
			continue
		}
		handles[i] = h
	}
	x.opts.Logger.Debug("extracting block", "block", id, "files", len(entries))

	decoded := false
	for i, e := range entries {
		h := handles[i]
		if h == nil {
			continue
		}
		x.emit(progress.Event{Type: progress.EventFileStart, FilePath: e.Path, Total: h.Len()})
		n, err := x.writeFile(e, h)
		h.Close()
		if err != nil {
			x.fail(e, err)
			continue
		}
		decoded = true
		x.complete(e, n)
	}
	if decoded {
		x.result.BlocksDecoded++
	}
}

func (x *extractor) complete(e *archive.Entry, written int64) {
	x.result.FilesProcessed++
	x.result.BytesWritten += uint64(written)
	x.emit(progress.Event{
		Type:     progress.EventFileComplete,
		FilePath: e.Path,
		Current:  int64(e.Size),
		Total:    int64(e.Size),
	})
	x.opts.Logger.Debug("extracted", "path", e.Path, "size", e.Size)
}

// writeFile copies r to the entry's output path and returns the bytes
// written.
func (x *extractor) writeFile(e *archive.Entry, r io.Reader) (int64, error) {
	out, err := x.outPath(e)
	if err != nil {
		return 0, err
	}
	if !x.opts.Overwrite {
		if _, err := os.Stat(out); err == nil {
			return 0, ErrFileExists
		}
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return 0, fmt.Errorf("mkdir: %w", err)
	}

	f, err := os.Create(out)
	if err != nil {
		return 0, fmt.Errorf("create: %w", err)
	}
	meter := &progress.Meter{Path: e.Path, Total: int64(e.Size), Emit: x.emit}
	_, copyErr := io.Copy(meter.Writer(f), r)
	if err := errors.Join(copyErr, f.Close()); err != nil {
		return meter.N, fmt.Errorf("write: %w", err)
	}

	if !e.ModTime.IsZero() {
		if err := os.Chtimes(out, e.ModTime, e.ModTime); err != nil {
			return meter.N, fmt.Errorf("chtimes: %w", err)
		}
	}
	return meter.N, nil
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }
