// pkg/archive/session.go
package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sync"
)

// Session is one open archive: its decoder database, File Index and
// Block Cache. Sessions are safe for concurrent use.
type Session struct {
	name    string
	decoder Decoder
	stream  Stream
	db      Database
	index   *Index
	cache   *blockCache
	logger  *slog.Logger

	mu      sync.Mutex
	handles map[*Handle]struct{}
	closed  bool
}

// Open reads the archive on stream with dec. The session owns stream only
// when Open succeeds; on any error the caller keeps it.
func Open(stream Stream, forWriting bool, dec Decoder, opts ...Option) (*Session, error) {
	if forWriting {
		return nil, ErrReadOnly
	}
	cfg := newConfig(opts)
	if cfg.name == "" {
		cfg.name = dec.Name()
	}

	sig := make([]byte, dec.SignatureSize())
	n, err := stream.ReadAt(sig, 0)
	if n < len(sig) {
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("%w: read signature: %w", ErrIO, err)
		}
		return nil, ErrNotThisFormat
	}
	if !dec.ValidateSignature(sig) {
		return nil, ErrNotThisFormat
	}

	db, err := dec.OpenDatabase(guardedStream{stream})
	if err != nil {
		if errors.Is(err, ErrNotThisFormat) {
			return nil, ErrNotThisFormat
		}
		return nil, fmt.Errorf("open %s database: %w", dec.Name(), translateDecoderError(err))
	}

	members := db.Members()
	blocks := db.BlockCount()
	for _, m := range members {
		if !m.IsDir && m.Block != NoBlock && int(m.Block) >= blocks {
			db.Close()
			return nil, fmt.Errorf("%w: member %q references block %d of %d", ErrCorrupt, m.Path, m.Block, blocks)
		}
	}

	logger := cfg.logger.With("archive", cfg.name)
	s := &Session{
		name:    cfg.name,
		decoder: dec,
		stream:  stream,
		db:      db,
		index:   BuildIndex(members, logger),
		cache:   newBlockCache(blocks, cfg.budget),
		logger:  logger,
		handles: make(map[*Handle]struct{}),
	}
	logger.Debug("archive opened", "format", dec.Name(), "entries", s.index.Len(), "blocks", blocks)
	return s, nil
}

// Name returns the session name used in logs.
func (s *Session) Name() string { return s.name }

// Decoder returns the decoder that claimed the archive.
func (s *Session) Decoder() Decoder { return s.decoder }

// Index returns the File Index.
func (s *Session) Index() *Index { return s.index }

// BlockCount returns the number of compression blocks.
func (s *Session) BlockCount() int { return len(s.cache.slots) }

// Refcount returns the number of open handles bound to block id.
func (s *Session) Refcount(id BlockID) int { return s.cache.refcount(id) }

// Resident reports whether block id is currently decompressed in memory.
func (s *Session) Resident(id BlockID) bool { return s.cache.resident(id) != nil }

// ResidentBytes returns the total size of resident blocks.
func (s *Session) ResidentBytes() uint64 { return s.cache.residentBytes() }

// OpenHandles returns the number of live handles.
func (s *Session) OpenHandles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

func (s *Session) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Enumerate calls visit with the bare name of every direct child of dir,
// in index order. Returning fs.SkipAll stops early without error; any
// other error aborts the enumeration wrapped in ErrAppCallback.
func (s *Session) Enumerate(dir string, visit func(name string) error) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	children, err := s.index.ReadDir(dir)
	if err != nil {
		return &fs.PathError{Op: "enumerate", Path: dir, Err: err}
	}
	for _, e := range children {
		if err := visit(e.Name()); err != nil {
			if errors.Is(err, fs.SkipAll) {
				return nil
			}
			return fmt.Errorf("%w: %w", ErrAppCallback, err)
		}
	}
	return nil
}

// ReadDir returns the entries directly under dir.
func (s *Session) ReadDir(dir string) ([]*Entry, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	children, err := s.index.ReadDir(dir)
	if err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: dir, Err: err}
	}
	return children, nil
}

// Stat reports metadata for name. The root ("") is a directory.
func (s *Session) Stat(name string) (Stat, error) {
	if err := s.checkOpen(); err != nil {
		return Stat{}, err
	}
	if cleanQuery(name) == "" {
		return Stat{Type: TypeDirectory, ReadOnly: true}, nil
	}
	e, err := s.index.Lookup(name)
	if err != nil {
		return Stat{}, &fs.PathError{Op: "stat", Path: name, Err: err}
	}
	return statOf(e), nil
}

// FileInfo is Stat as an fs.FileInfo.
func (s *Session) FileInfo(name string) (fs.FileInfo, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if cleanQuery(name) == "" {
		return rootInfo{name: "."}, nil
	}
	e, err := s.index.Lookup(name)
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
	}
	return e.FileInfo(), nil
}

// OpenRead opens a regular entry. Each call takes its own reference on
// the entry's block, so the same path may be opened several times.
func (s *Session) OpenRead(name string) (*Handle, error) {
	e, err := s.index.Lookup(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	if !e.HasBlock() {
		return nil, &fs.PathError{Op: "open", Path: name, Err: ErrNotAFile}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	s.cache.acquire(e.Block)
	h := &Handle{session: s, entry: e}
	s.handles[h] = struct{}{}
	return h, nil
}

// OpenWrite always fails.
func (s *Session) OpenWrite(name string) (*Handle, error) {
	return nil, &fs.PathError{Op: "openwrite", Path: name, Err: ErrReadOnly}
}

// OpenAppend always fails.
func (s *Session) OpenAppend(name string) (*Handle, error) {
	return nil, &fs.PathError{Op: "openappend", Path: name, Err: ErrReadOnly}
}

// Remove always fails.
func (s *Session) Remove(name string) error {
	return &fs.PathError{Op: "remove", Path: name, Err: ErrReadOnly}
}

// Mkdir always fails.
func (s *Session) Mkdir(name string) error {
	return &fs.PathError{Op: "mkdir", Path: name, Err: ErrReadOnly}
}

// loadBlock returns the decompressed block, decoding it on first use.
func (s *Session) loadBlock(id BlockID) (*BlockData, error) {
	declared := func() (uint64, error) {
		size, err := s.db.BlockSize(id)
		if err != nil {
			return 0, translateDecoderError(err)
		}
		return size, nil
	}
	return s.cache.ensure(id, declared, func() (data *BlockData, err error) {
		defer func() {
			if r := recover(); r != nil {
				data, err = nil, fmt.Errorf("%w: block %d: decoder panic: %v", ErrCorrupt, id, r)
			}
		}()

		data, err = s.db.DecompressBlock(id)
		if err != nil {
			err = translateDecoderError(err)
			s.logger.Warn("block decompression failed", "block", id, "error", err)
			return nil, err
		}
		s.logger.Debug("block decompressed", "block", id, "bytes", len(data.Data))
		return data, nil
	})
}

func (s *Session) releaseHandle(h *Handle) {
	s.mu.Lock()
	delete(s.handles, h)
	s.mu.Unlock()

	if s.cache.release(h.entry.Block) {
		s.logger.Debug("block evicted", "block", h.entry.Block)
	}
}

// Close releases the decoder database and the stream. It refuses while
// handles are open.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if n := len(s.handles); n > 0 {
		return fmt.Errorf("%w: %d", ErrHandlesOpen, n)
	}
	s.closed = true
	s.logger.Debug("archive closed")
	return errors.Join(s.db.Close(), s.stream.Close())
}
