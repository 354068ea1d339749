// cmd/solidfs/verify_cmd.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"

	"github.com/creativeyann17/solidfs/pkg/progress"
	"github.com/creativeyann17/solidfs/pkg/verify"
)

func init() {
	rootCmd.AddCommand(verifyCmd())
}

func verifyCmd() *cobra.Command {
	var inputPath string
	var manifest string
	var verifyData bool
	var verbose bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify archive integrity",
		Long: `Verify the integrity of an archive.

By default, only the member index is checked. Use --data to decompress
every block and compute BLAKE3 digests, or --manifest to also compare them
against a b3sum listing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &verify.Options{
				InputPath:    inputPath,
				VerifyData:   verifyData,
				Manifest:     manifest,
				MemoryBudget: cfg.MemoryBudget,
				Verbose:      verbose,
				Quiet:        quiet,
				Logger:       cfg.Logger,
			}

			if err := opts.Validate(); err != nil {
				return err
			}

			log := func(format string, args ...interface{}) {
				if !quiet {
					fmt.Printf(format+"\n", args...)
				}
			}

			log("Verifying archive: %s", inputPath)
			switch {
			case opts.Manifest != "":
				log("Mode: Data integrity check against %s", opts.Manifest)
			case opts.VerifyData:
				log("Mode: Full data integrity check")
			default:
				log("Mode: Structural validation only")
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
					case progress.EventStart:
						fmt.Printf("Checking %d files...\n", event.Total)
					case progress.EventFileComplete:
						fmt.Printf("  ok     %s\n", event.FilePath)
					case progress.EventError:
						fmt.Printf("  FAILED %s\n", event.FilePath)
					case progress.EventComplete:
						fmt.Printf("Verification complete\n")
					}
				}
			}

			result, err := verify.Verify(opts, progressCb)
			if bars != nil {
				bars.Wait()
			}
			if err != nil && result == nil {
				return err
			}

			fmt.Println()
			fmt.Print(result.Summary())

			if !result.IsValid() {
				return fmt.Errorf("archive verification failed")
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input archive file (required)")
	cmd.Flags().BoolVar(&verifyData, "data", false, "Verify data integrity by decompressing all content")
	cmd.Flags().StringVar(&manifest, "manifest", "", "Compare digests with a b3sum manifest (implies --data)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Show detailed output")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Minimal output (overrides verbose)")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}
