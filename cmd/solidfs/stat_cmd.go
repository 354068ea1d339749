// cmd/solidfs/stat_cmd.go
package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statCmd())
}

func statCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat ARCHIVE PATH...",
		Short: "Show metadata of archive members",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openArchive(args[0])
			if err != nil {
				return err
			}
			defer session.Close()

			for _, name := range args[1:] {
				st, err := session.Stat(name)
				if err != nil {
					return err
				}

				mtime := "unknown"
				if st.HasModTime() {
					mtime = st.ModTime.Format(time.RFC3339)
				}
				fmt.Printf("  Path:     %s\n", name)
				fmt.Printf("  Type:     %s\n", st.Type)
				fmt.Printf("  Size:     %s (%d bytes)\n", humanize.IBytes(st.Size), st.Size)
				fmt.Printf("  Modified: %s\n", mtime)
				fmt.Printf("  Access:   read-only\n")

				if e, err := session.Index().Lookup(name); err == nil && e.HasBlock() {
					fmt.Printf("  Block:    %d\n", e.Block)
				}
				fmt.Println()
			}
			return nil
		},
	}
}
