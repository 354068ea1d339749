// pkg/archive/options.go
package archive

import (
	"log/slog"
	"sync"
)

// Option configures a Session.
type Option func(*config)

type config struct {
	name   string
	logger *slog.Logger
	budget *MemoryBudget
}

// WithLogger sets the logger used for diagnostics. Default: discard.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMemoryBudget bounds the bytes held by resident blocks. A budget may
// be shared by several sessions.
func WithMemoryBudget(budget *MemoryBudget) Option {
	return func(c *config) {
		c.budget = budget
	}
}

// WithName sets the name used in logs, usually the archive path.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

func newConfig(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// MemoryBudget accounts for decompressed block bytes. A nil budget or a
// zero limit is unlimited.
type MemoryBudget struct {
	mu    sync.Mutex
	limit uint64
	used  uint64
}

// NewMemoryBudget creates a budget of limit bytes.
func NewMemoryBudget(limit uint64) *MemoryBudget {
	return &MemoryBudget{limit: limit}
}

// Reserve claims n bytes or fails with ErrOutOfMemory.
func (b *MemoryBudget) Reserve(n uint64) error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.limit > 0 && b.used+n > b.limit {
		return ErrOutOfMemory
	}
	b.used += n
	return nil
}

// Release returns n bytes to the budget.
func (b *MemoryBudget) Release(n uint64) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if n > b.used {
		n = b.used
	}
	b.used -= n
}

// Used returns the bytes currently reserved.
func (b *MemoryBudget) Used() uint64 {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}

// Limit returns the configured limit, 0 for unlimited.
func (b *MemoryBudget) Limit() uint64 {
	if b == nil {
		return 0
	}
	return b.limit
}
