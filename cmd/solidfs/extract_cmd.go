// cmd/solidfs/extract_cmd.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"

	"github.com/creativeyann17/solidfs/pkg/extract"
	"github.com/creativeyann17/solidfs/pkg/progress"
)

func init() {
	rootCmd.AddCommand(extractCmd())
}

func extractCmd() *cobra.Command {
	var inputPath, outputPath string
	var include, exclude []string
	var excludeFrom string
	var verbose bool
	var quiet bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract archive members to a directory",
		Long: `Extract members of a 7z, zip or compressed tar archive.

Members sharing a solid block are written together so each block is
decompressed exactly once. --include and --exclude take gitignore-style
patterns.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Prepare options
			opts := &extract.Options{
				InputPath:    inputPath,
				OutputPath:   outputPath,
				Include:      include,
				Exclude:      exclude,
				ExcludeFrom:  excludeFrom,
				MemoryBudget: cfg.MemoryBudget,
				Overwrite:    overwrite,
				Verbose:      verbose,
				Quiet:        quiet,
				Logger:       cfg.Logger,
			}

			// Validate and set defaults
			if err := opts.Validate(); err != nil {
				return err
			}

			log := func(format string, args ...interface{}) {
				if !quiet {
					fmt.Printf(format+"\n", args...)
				}
			}

			log("Starting extraction...")
			log("  Input:       %s", opts.InputPath)
			log("  Output:      %s", opts.OutputPath)
			if overwrite {
				log("  Mode:        OVERWRITE (replacing existing files)")
			}
			log("")

			var progressCb progress.Callback
			var bars *mpb.Progress

			switch {
			case !quiet && !verbose:
				progressCb, bars = progress.BarCallback()
			case verbose:
				progressCb = func(event progress.Event) {
					switch event.Type {
					case progress.EventFileComplete:
						fmt.Printf("  %s\n", event.FilePath)
					case progress.EventError:
						fmt.Printf("  FAILED %s\n", event.FilePath)
					}
				}
			}

			result, err := extract.Extract(opts, progressCb)

			// Wait for progress bars to finish rendering
			if bars != nil {
				bars.Wait()
			}

			if err != nil {
				return err
			}

			fmt.Println()
			fmt.Print(progress.FormatSummary(result, progress.OperationExtract))

			if len(result.Errors) > 0 {
				return fmt.Errorf("finished with %d errors", len(result.Errors))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input archive file (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", ".", "Output directory")
	cmd.Flags().StringSliceVar(&include, "include", nil, "Only extract members matching these patterns")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Skip members matching these patterns")
	cmd.Flags().StringVar(&excludeFrom, "exclude-from", "", "Read exclude patterns from a file")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Show detailed output")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Minimal output (overrides verbose)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}
