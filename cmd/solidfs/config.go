// cmd/solidfs/config.go
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/creativeyann17/solidfs/internal/format"
	"github.com/creativeyann17/solidfs/internal/logger"
	"github.com/creativeyann17/solidfs/pkg/archive"
	"github.com/creativeyann17/solidfs/pkg/decoder"
)

const (
	envLogLevel     = "SOLIDFS_LOG_LEVEL"
	envMemoryBudget = "SOLIDFS_MEMORY_BUDGET"
)

// config is resolved once per invocation from flags, the environment
// and an optional .env file, in that order of precedence.
type config struct {
	LogLevel     string
	MemoryBudget uint64
	Logger       *slog.Logger
}

var cfg config

func setupConfig(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	level := os.Getenv(envLogLevel)
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		level = f.Value.String()
	}
	if level == "" {
		level = "WARN"
	}

	memory := os.Getenv(envMemoryBudget)
	if f := cmd.Flags().Lookup("memory"); f != nil && f.Changed {
		memory = f.Value.String()
	}
	budget, err := parseMemoryBudget(memory)
	if err != nil {
		return err
	}

	cfg = config{
		LogLevel:     level,
		MemoryBudget: budget,
		Logger:       logger.Init(os.Stderr, level),
	}
	cfg.Logger.Debug("configuration loaded", "log_level", level, "memory_budget", humanize.IBytes(budget))
	return nil
}

// parseMemoryBudget accepts sizes like "512MiB" or "2GB". An empty value
// defaults to half of system RAM; "0" and "unlimited" disable the cap.
func parseMemoryBudget(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return defaultMemoryBudget(), nil
	case "0", "unlimited", "none":
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid memory budget %q: %w", s, err)
	}
	return n, nil
}

func defaultMemoryBudget() uint64 {
	total, err := getTotalSystemMemory()
	if err != nil {
		return 0
	}
	return total / 2
}

func sessionOptions() []archive.Option {
	opts := []archive.Option{archive.WithLogger(cfg.Logger)}
	if cfg.MemoryBudget > 0 {
		opts = append(opts, archive.WithMemoryBudget(archive.NewMemoryBudget(cfg.MemoryBudget)))
	}
	return opts
}

// openArchive probes every built-in decoder against path. When none
// claims it, the error names the container the magic bytes point at.
func openArchive(path string) (*archive.Session, error) {
	session, err := decoder.NewRegistry().OpenFile(path, sessionOptions()...)
	if errors.Is(err, archive.ErrNotThisFormat) {
		if f := sniffFormat(path); f != format.FormatUnknown {
			return nil, fmt.Errorf("%s: %s stream without a readable archive inside: %w", path, f, err)
		}
	}
	return session, err
}

func sniffFormat(path string) format.ArchiveFormat {
	f, err := os.Open(path)
	if err != nil {
		return format.FormatUnknown
	}
	defer f.Close()

	magic := make([]byte, format.MagicSize)
	n, _ := io.ReadFull(f, magic)
	return format.DetectFormat(magic[:n])
}
