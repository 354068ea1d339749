// pkg/inspect/inspect.go
package inspect

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/creativeyann17/solidfs/pkg/archive"
)

// ErrUnknownFormat is returned by ParseFormat and Write for unsupported output formats.
var ErrUnknownFormat = errors.New("unknown output format")

// Format selects how a Listing is rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// Formats lists the accepted output formats.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatCBOR}

// ParseFormat resolves a user supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatText, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Listing describes an archive's table of contents.
type Listing struct {
	Archive string  `json:"archive" yaml:"archive" cbor:"1,keyasint"`
	Format  string  `json:"format" yaml:"format" cbor:"2,keyasint"`
	Blocks  int     `json:"blocks" yaml:"blocks" cbor:"3,keyasint"`
	Files   int     `json:"files" yaml:"files" cbor:"4,keyasint"`
	Dirs    int     `json:"dirs" yaml:"dirs" cbor:"5,keyasint"`
	Bytes   uint64  `json:"bytes" yaml:"bytes" cbor:"6,keyasint"`
	Entries []Entry `json:"entries" yaml:"entries" cbor:"7,keyasint"`
}

// Entry is one row of a Listing.
type Entry struct {
	Path    string     `json:"path" yaml:"path" cbor:"1,keyasint"`
	Dir     bool       `json:"dir,omitempty" yaml:"dir,omitempty" cbor:"2,keyasint,omitempty"`
	Size    uint64     `json:"size" yaml:"size" cbor:"3,keyasint"`
	Block   *uint32    `json:"block,omitempty" yaml:"block,omitempty" cbor:"4,keyasint,omitempty"`
	ModTime *time.Time `json:"mtime,omitempty" yaml:"mtime,omitempty" cbor:"5,keyasint,omitempty"`
}

// Build collects the listing of every entry below dir ("" for the whole archive).
// With recursive unset only direct children of dir are listed.
func Build(session *archive.Session, dir string, recursive bool) (*Listing, error) {
	l := &Listing{
		Archive: session.Name(),
		Format:  session.Decoder().Name(),
		Blocks:  session.BlockCount(),
	}

	var entries []*archive.Entry
	if recursive {
		first, last, err := session.Index().RangeForDirectory(dir)
		if err != nil {
			return nil, err
		}
		all := session.Index().Entries()
		entries = all[first:last]
	} else {
		var err error
		if entries, err = session.ReadDir(dir); err != nil {
			return nil, err
		}
	}

	l.Entries = make([]Entry, 0, len(entries))
	for _, e := range entries {
		row := Entry{Path: e.Path, Dir: e.IsDir, Size: e.Size}
		if e.HasBlock() {
			block := uint32(e.Block)
			row.Block = &block
		}
		if !e.ModTime.IsZero() {
			mtime := e.ModTime.UTC()
			row.ModTime = &mtime
		}
		if e.IsDir {
			l.Dirs++
		} else {
			l.Files++
			l.Bytes += e.Size
		}
		l.Entries = append(l.Entries, row)
	}
	return l, nil
}

// Write renders l to w in the given format.
func Write(w io.Writer, l *Listing, format Format) error {
	switch format {
	case FormatText, "":
		return writeText(w, l)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(l)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(l); err != nil {
			return err
		}
		return enc.Close()
	case FormatCBOR:
		return encMode.NewEncoder(w).Encode(l)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func writeText(w io.Writer, l *Listing) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range l.Entries {
		block, mtime := "-", "-"
		if e.Block != nil {
			block = fmt.Sprint(*e.Block)
		}
		if e.ModTime != nil {
			mtime = e.ModTime.Format(time.DateTime)
		}
		name, size := e.Path, humanize.IBytes(e.Size)
		if e.Dir {
			name, size = name+"/", "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", size, block, mtime, name)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d files, %d dirs, %s in %d blocks (%s)\n",
		l.Files, l.Dirs, humanize.IBytes(l.Bytes), l.Blocks, l.Format)
	return err
}

// Unmarshal decodes a CBOR encoded listing.
func Unmarshal(data []byte) (*Listing, error) {
	var l Listing
	if err := cbor.Unmarshal(data, &l); err != nil {
		return nil, err
	}
	return &l, nil
}
