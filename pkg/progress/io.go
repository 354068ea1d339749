// pkg/progress/io.go
package progress

import "io"

// Meter counts the bytes of one archive member as they are copied and
// reports each step as an EventFileProgress. N is the running total.
type Meter struct {
	Path  string
	Total int64
	Emit  Callback
	N     int64
}

func (m *Meter) add(n int) {
	if n <= 0 {
		return
	}
	m.N += int64(n)
	if m.Emit != nil {
		m.Emit(Event{Type: EventFileProgress, FilePath: m.Path, Current: m.N, Total: m.Total})
	}
}

// Reader meters everything read from r.
func (m *Meter) Reader(r io.Reader) io.Reader {
	return &meteredReader{r: r, m: m}
}

// Writer meters everything written to w.
func (m *Meter) Writer(w io.Writer) io.Writer {
	return &meteredWriter{w: w, m: m}
}

type meteredReader struct {
	r io.Reader
	m *Meter
}

func (mr *meteredReader) Read(p []byte) (int, error) {
	n, err := mr.r.Read(p)
	mr.m.add(n)
	return n, err
}

type meteredWriter struct {
	w io.Writer
	m *Meter
}

func (mw *meteredWriter) Write(p []byte) (int, error) {
	n, err := mw.w.Write(p)
	mw.m.add(n)
	return n, err
}
