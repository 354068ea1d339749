// cmd/solidfs/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "solidfs",
	Short: "solidfs - read-only access to solid archives",
	Long: `solidfs reads 7z, zip and compressed tarballs without unpacking them.

Solid blocks are decompressed once, shared by every open member and
dropped as soon as the last reader closes.`,
	Version:           fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
	SilenceUsage:      true,
	PersistentPreRunE: setupConfig,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Log level: DEBUG, INFO, WARN, ERROR (env SOLIDFS_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("memory", "", "Cap on decompressed blocks held in memory, e.g. 512MiB or 0 for unlimited (env SOLIDFS_MEMORY_BUDGET)")
	rootCmd.AddCommand(versionCmd())
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("solidfs %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
		},
	}
}
