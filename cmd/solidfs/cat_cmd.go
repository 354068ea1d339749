// cmd/solidfs/cat_cmd.go
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/solidfs/pkg/archive"
	"github.com/creativeyann17/solidfs/pkg/progress"
)

func init() {
	rootCmd.AddCommand(catCmd())
}

func catCmd() *cobra.Command {
	var offset int64
	var length int64

	cmd := &cobra.Command{
		Use:   "cat ARCHIVE PATH...",
		Short: "Write archive members to standard output",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openArchive(args[0])
			if err != nil {
				return err
			}
			defer session.Close()

			out := bufio.NewWriter(os.Stdout)
			defer out.Flush()

			for _, name := range args[1:] {
				if err := catMember(out, session, name, offset, length); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&offset, "offset", 0, "Start reading at this byte offset")
	cmd.Flags().Int64Var(&length, "length", -1, "Stop after this many bytes (-1 for all)")

	return cmd
}

func catMember(w io.Writer, session *archive.Session, name string, offset, length int64) error {
	st, err := session.Stat(name)
	if err != nil {
		return err
	}
	if st.IsDir() {
		return fmt.Errorf("%s: %w", name, archive.ErrNotAFile)
	}
	if st.Size == 0 {
		return nil
	}

	h, err := session.OpenRead(name)
	if err != nil {
		return err
	}
	defer h.Close()

	if offset > 0 {
		if _, err := h.Seek(offset, io.SeekStart); err != nil {
			return err
		}
	}
	var r io.Reader = h
	if length >= 0 {
		r = io.LimitReader(h, length)
	}
	meter := &progress.Meter{Path: name, Total: h.Len()}
	if _, err := io.Copy(meter.Writer(w), r); err != nil {
		return err
	}
	cfg.Logger.Debug("member written", "path", name, "bytes", meter.N, "block", h.Entry().Block)
	return nil
}
