// pkg/archive/fake_test.go
package archive_test

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/creativeyann17/solidfs/pkg/archive"
)

var fakeMagic = []byte("FAKE")

type fakeFile struct {
	path  string
	data  string
	block archive.BlockID
	dir   bool
	mtime time.Time
}

// fakeDecoder serves members from memory and counts block decompressions.
type fakeDecoder struct {
	files  []fakeFile
	blocks int

	mu          sync.Mutex
	calls       map[archive.BlockID]int
	failures    int   // remaining DecompressBlock calls that fail
	sizeSkew    int64 // added to every reported extent size
	openErr     error
	closed      bool
	decodeDelay time.Duration
	declared    map[archive.BlockID]uint64 // BlockSize overrides
	panics      bool
	stream      archive.Stream
}

func newFake(files ...fakeFile) *fakeDecoder {
	blocks := 0
	for _, f := range files {
		if f.block != archive.NoBlock && int(f.block)+1 > blocks {
			blocks = int(f.block) + 1
		}
	}
	return &fakeDecoder{files: files, blocks: blocks, calls: map[archive.BlockID]int{}}
}

func file(path, data string, block archive.BlockID) fakeFile {
	return fakeFile{path: path, data: data, block: block}
}

func dir(path string) fakeFile {
	return fakeFile{path: path, dir: true, block: archive.NoBlock}
}

func (d *fakeDecoder) Name() string        { return "fake" }
func (d *fakeDecoder) Description() string { return "in-memory test format" }
func (d *fakeDecoder) SignatureSize() int  { return len(fakeMagic) }

func (d *fakeDecoder) ValidateSignature(sig []byte) bool {
	return string(sig) == string(fakeMagic)
}

func (d *fakeDecoder) OpenDatabase(stream archive.Stream) (archive.Database, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	if err := readHeader(stream); err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.stream = stream
	d.mu.Unlock()
	return d, nil
}

func readHeader(stream archive.Stream) error {
	hdr := make([]byte, len(fakeMagic))
	if _, err := stream.ReadAt(hdr, 0); err != nil {
		return fmt.Errorf("fake header: %w", err)
	}
	return nil
}

func (d *fakeDecoder) Members() []archive.Member {
	members := make([]archive.Member, len(d.files))
	for i, f := range d.files {
		members[i] = archive.Member{
			Path:    f.path,
			Size:    uint64(len(f.data)),
			IsDir:   f.dir,
			Block:   f.block,
			ModTime: f.mtime,
		}
	}
	return members
}

func (d *fakeDecoder) BlockCount() int { return d.blocks }

func (d *fakeDecoder) BlockSize(id archive.BlockID) (uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if size, ok := d.declared[id]; ok {
		return size, nil
	}
	var size uint64
	for _, f := range d.files {
		if !f.dir && f.block == id {
			size += uint64(len(f.data))
		}
	}
	return size, nil
}

func (d *fakeDecoder) DecompressBlock(id archive.BlockID) (*archive.BlockData, error) {
	d.mu.Lock()
	d.calls[id]++
	fail := d.failures > 0
	if fail {
		d.failures--
	}
	skew := d.sizeSkew
	delay := d.decodeDelay
	stream := d.stream
	panics := d.panics
	d.mu.Unlock()

	if panics {
		panic(fmt.Sprintf("fake: block %d table truncated", id))
	}

	if err := readHeader(stream); err != nil {
		return nil, err
	}

	if delay > 0 {
		time.Sleep(delay)
	}
	if fail {
		return nil, errors.New("crc mismatch")
	}

	block := &archive.BlockData{Extents: map[int]archive.Extent{}}
	for i, f := range d.files {
		if f.dir || f.block != id {
			continue
		}
		block.Extents[i] = archive.Extent{
			Offset: uint64(len(block.Data)),
			Size:   uint64(int64(len(f.data)) + skew),
		}
		block.Data = append(block.Data, f.data...)
	}
	return block, nil
}

func (d *fakeDecoder) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *fakeDecoder) decompressions(id archive.BlockID) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[id]
}

func fakeStream() archive.Stream {
	return archive.NewBytesStream(append([]byte(nil), fakeMagic...))
}

var errDisk = errors.New("input/output error")

// failingStream passes reads through until its allowance runs out, then
// fails every ReadAt with errDisk.
type failingStream struct {
	archive.Stream

	mu      sync.Mutex
	allowed int // successful reads left; negative means unlimited
}

func newFailingStream(s archive.Stream, allowed int) *failingStream {
	return &failingStream{Stream: s, allowed: allowed}
}

func (f *failingStream) ReadAt(p []byte, off int64) (int, error) {
	f.mu.Lock()
	switch {
	case f.allowed == 0:
		f.mu.Unlock()
		return 0, errDisk
	case f.allowed > 0:
		f.allowed--
	}
	f.mu.Unlock()
	return f.Stream.ReadAt(p, off)
}

func (f *failingStream) breakDown() {
	f.mu.Lock()
	f.allowed = 0
	f.mu.Unlock()
}
