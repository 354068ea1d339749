// cmd/solidfs/inspect_cmd.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/solidfs/pkg/inspect"
)

func init() {
	rootCmd.AddCommand(inspectCmd())
}

func inspectCmd() *cobra.Command {
	var format string
	var dir string
	var outputPath string

	formats := make([]string, len(inspect.Formats))
	for i, f := range inspect.Formats {
		formats[i] = string(f)
	}

	cmd := &cobra.Command{
		Use:   "inspect ARCHIVE",
		Short: "Dump the archive table of contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := inspect.ParseFormat(format)
			if err != nil {
				return err
			}

			session, err := openArchive(args[0])
			if err != nil {
				return err
			}
			defer session.Close()

			listing, err := inspect.Build(session, dir, true)
			if err != nil {
				return err
			}

			out := os.Stdout
			if outputPath != "" {
				if out, err = os.Create(outputPath); err != nil {
					return err
				}
				defer out.Close()
			}
			if err := inspect.Write(out, listing, f); err != nil {
				return fmt.Errorf("write listing: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: "+strings.Join(formats, ", "))
	cmd.Flags().StringVar(&dir, "dir", "", "Only describe entries below this directory")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to this file instead of standard output")

	return cmd
}
