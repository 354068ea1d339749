// pkg/verify/options.go
package verify

import (
	"log/slog"

	"github.com/creativeyann17/solidfs/pkg/archive"
)

// Options configures the verify operation
type Options struct {
	// InputPath is the archive file to verify (required)
	InputPath string

	// VerifyData reads every member back and computes its BLAKE3 digest
	// When false, only the index is checked (faster)
	// Default: false
	VerifyData bool

	// Manifest is a b3sum-style file ("<hex digest>  <path>" per line)
	// to compare digests against. Implies VerifyData.
	Manifest string

	// MemoryBudget caps resident decompressed blocks in bytes
	MemoryBudget uint64

	// Verbose enables detailed logging during verification
	Verbose bool

	// Quiet suppresses all output except errors
	Quiet bool

	// Logger receives diagnostics (optional)
	Logger *slog.Logger
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
	if o.Quiet {
		o.Verbose = false
	}
	if o.Manifest != "" {
		o.VerifyData = true
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
