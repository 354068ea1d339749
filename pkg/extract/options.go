// pkg/extract/options.go
package extract

import (
	"log/slog"

	"github.com/creativeyann17/solidfs/pkg/archive"
)

// Options configures the extraction behavior
type Options struct {
	// Input archive path
	InputPath string

	// Output directory path
	OutputPath string

	// Include limits extraction to entries matching these gitignore-style
	// patterns. Empty means everything.
	Include []string

	// Exclude skips entries matching these gitignore-style patterns
	Exclude []string

	// ExcludeFrom is a file of exclude patterns (optional)
	ExcludeFrom string

	// MemoryBudget caps resident decompressed blocks in bytes
	// Default: 0 (unlimited)
	MemoryBudget uint64

	// Overwrite existing files without prompting
	Overwrite bool

	// Verbose enables detailed logging
	Verbose bool

	// Quiet suppresses all output except errors
	Quiet bool

	// Logger receives diagnostics (optional)
	Logger *slog.Logger
}

// DefaultOptions returns options with sensible defaults
func DefaultOptions() *Options {
	return &Options{
		OutputPath: ".",
	}
}

// Validate checks if options are valid
func (o *Options) Validate() error {
	if o.InputPath == "" {
		return ErrInputRequired
	}
	o.applyDefaults()
	return nil
}

func (o *Options) applyDefaults() {
	if o.OutputPath == "" {
		o.OutputPath = "."
	}
	if o.Quiet {
		o.Verbose = false
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
}

func (o *Options) sessionOptions() []archive.Option {
	opts := []archive.Option{archive.WithLogger(o.Logger)}
	if o.MemoryBudget > 0 {
		opts = append(opts, archive.WithMemoryBudget(archive.NewMemoryBudget(o.MemoryBudget)))
	}
	return opts
}
