// pkg/archive/index.go
package archive

import (
	"log/slog"
	"path"
	"sort"
	"strings"
)

// Index is the sorted, immutable table of archive entries. Paths are
// compared byte-wise so that every directory's descendants form one
// contiguous run.
type Index struct {
	entries []*Entry
}

// BuildIndex normalizes member paths, resolves duplicates (the last
// member wins), synthesizes missing parent directories and sorts.
func BuildIndex(members []Member, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	byPath := make(map[string]*Entry, len(members))
	for i, m := range members {
		p, ok := normalizePath(m.Path)
		if !ok {
			logger.Warn("skipping member with invalid path", "path", m.Path)
			continue
		}
		if _, dup := byPath[p]; dup {
			logger.Warn("duplicate member path, keeping last", "path", p)
		}
		e := &Entry{
			Path:    p,
			Size:    m.Size,
			IsDir:   m.IsDir,
			Block:   m.Block,
			ModTime: m.ModTime,
			member:  i,
		}
		if e.IsDir {
			e.Size = 0
			e.Block = NoBlock
		}
		byPath[p] = e
	}

	for p := range byPath {
		for dir := path.Dir(p); dir != "."; dir = path.Dir(dir) {
			parent, ok := byPath[dir]
			if ok {
				if !parent.IsDir {
					logger.Warn("file shadows directory", "path", dir, "child", p)
				}
				break
			}
			byPath[dir] = &Entry{Path: dir, IsDir: true, Block: NoBlock, member: -1}
		}
	}

	entries := make([]*Entry, 0, len(byPath))
	for _, e := range byPath {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
	return &Index{entries: entries}
}

// normalizePath turns an archive member name into an index key. Names
// that escape the root or are empty are rejected.
func normalizePath(name string) (string, bool) {
	p := path.Clean(strings.TrimLeft(name, "/"))
	if p == "." || p == ".." || strings.HasPrefix(p, "../") {
		return "", false
	}
	return p, true
}

// cleanQuery normalizes a lookup path; the root is "".
func cleanQuery(name string) string {
	p := path.Clean(strings.TrimLeft(name, "/"))
	if p == "." || p == "/" {
		return ""
	}
	return p
}

// Len returns the number of entries.
func (x *Index) Len() int { return len(x.entries) }

// Entries returns the entries in index order.
func (x *Index) Entries() []*Entry {
	out := make([]*Entry, len(x.entries))
	copy(out, x.entries)
	return out
}

func (x *Index) search(p string) int {
	return sort.Search(len(x.entries), func(i int) bool {
		return x.entries[i].Path >= p
	})
}

// Lookup finds the entry for p.
func (x *Index) Lookup(p string) (*Entry, error) {
	p = cleanQuery(p)
	i := x.search(p)
	if i < len(x.entries) && x.entries[i].Path == p {
		return x.entries[i], nil
	}
	return nil, ErrNotFound
}

// RangeForDirectory returns the half-open range [first, last) holding
// every descendant of dir. The root spans the whole table.
func (x *Index) RangeForDirectory(dir string) (int, int, error) {
	dir = cleanQuery(dir)
	if dir == "" {
		return 0, len(x.entries), nil
	}
	e, err := x.Lookup(dir)
	if err != nil {
		return 0, 0, err
	}
	if !e.IsDir {
		return 0, 0, ErrNotADirectory
	}

	prefix := dir + "/"
	first := x.search(prefix)
	rest := x.entries[first:]
	last := first + sort.Search(len(rest), func(i int) bool {
		return !strings.HasPrefix(rest[i].Path, prefix)
	})
	return first, last, nil
}

// ReadDir returns the direct children of dir in index order.
func (x *Index) ReadDir(dir string) ([]*Entry, error) {
	dir = cleanQuery(dir)
	first, last, err := x.RangeForDirectory(dir)
	if err != nil {
		return nil, err
	}
	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}

	var children []*Entry
	for _, e := range x.entries[first:last] {
		if strings.Contains(e.Path[len(prefix):], "/") {
			continue
		}
		children = append(children, e)
	}
	return children, nil
}

// GroupByBlock buckets entries with stored data by block, preserving
// their order inside each bucket. Blocks are returned in ascending order.
func GroupByBlock(entries []*Entry) ([]BlockID, map[BlockID][]*Entry) {
	groups := make(map[BlockID][]*Entry)
	var order []BlockID
	for _, e := range entries {
		if !e.HasBlock() {
			continue
		}
		if _, ok := groups[e.Block]; !ok {
			order = append(order, e.Block)
		}
		groups[e.Block] = append(groups[e.Block], e)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	return order, groups
}
