// pkg/archive/registry.go
package archive

import (
	"errors"
	"sync"
)

// Registry holds decoders in probe order.
type Registry struct {
	mu       sync.RWMutex
	decoders []Decoder
}

// NewRegistry creates a registry probing decoders in the given order.
func NewRegistry(decoders ...Decoder) *Registry {
	return &Registry{decoders: decoders}
}

// Register appends a decoder.
func (r *Registry) Register(dec Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders = append(r.decoders, dec)
}

// Decoders returns the registered decoders in probe order.
func (r *Registry) Decoders() []Decoder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Decoder, len(r.decoders))
	copy(out, r.decoders)
	return out
}

// OpenAny tries each decoder until one claims the stream. A decoder that
// claims the stream and then fails ends the search with its error.
func (r *Registry) OpenAny(stream Stream, opts ...Option) (*Session, error) {
	logger := newConfig(opts).logger
	for _, dec := range r.Decoders() {
		s, err := Open(stream, false, dec, opts...)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrNotThisFormat) {
			return nil, err
		}
		logger.Debug("decoder declined stream", "format", dec.Name())
	}
	return nil, ErrNotThisFormat
}

// OpenFile opens path and probes it with OpenAny.
func (r *Registry) OpenFile(path string, opts ...Option) (*Session, error) {
	stream, err := OpenFileStream(path)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithName(path)}, opts...)
	s, err := r.OpenAny(stream, opts...)
	if err != nil {
		stream.Close()
		return nil, err
	}
	return s, nil
}
