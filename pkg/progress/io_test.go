// pkg/progress/io_test.go
package progress

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestMeterReader(t *testing.T) {
	var events []Event
	m := &Meter{Path: "dir/a.txt", Total: 11, Emit: func(e Event) { events = append(events, e) }}

	var out bytes.Buffer
	if _, err := io.Copy(&out, m.Reader(io.LimitReader(strings.NewReader("hello world"), 11))); err != nil {
		t.Fatal(err)
	}
	if m.N != 11 || out.String() != "hello world" {
		t.Fatalf("N = %d, copied %q", m.N, out.String())
	}
	if len(events) == 0 {
		t.Fatal("no progress events")
	}
	last := events[len(events)-1]
	if last.Type != EventFileProgress || last.FilePath != "dir/a.txt" || last.Current != 11 || last.Total != 11 {
		t.Errorf("last event = %+v", last)
	}
}

type shortWriter struct{ max int }

func (w shortWriter) Write(p []byte) (int, error) {
	if len(p) > w.max {
		return w.max, io.ErrShortWrite
	}
	return len(p), nil
}

func TestMeterWriterCountsAcceptedBytes(t *testing.T) {
	m := &Meter{Path: "f"}
	w := m.Writer(shortWriter{max: 3})

	if _, err := w.Write([]byte("ab")); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("cdefg")); err != io.ErrShortWrite {
		t.Fatalf("err = %v", err)
	}
	if m.N != 5 {
		t.Errorf("N = %d, want 5", m.N)
	}
}

func TestMeterIgnoresEmptyReads(t *testing.T) {
	calls := 0
	m := &Meter{Emit: func(Event) { calls++ }}
	if _, err := m.Reader(strings.NewReader("")).Read(make([]byte, 4)); err != io.EOF {
		t.Fatalf("err = %v", err)
	}
	if calls != 0 || m.N != 0 {
		t.Errorf("calls = %d, N = %d", calls, m.N)
	}
}
