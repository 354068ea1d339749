// cmd/solidfs/mount_cmd_linux.go

//go:build linux

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/solidfs/internal/fusefs"
)

func init() {
	rootCmd.AddCommand(mountCmd())
}

func mountCmd() *cobra.Command {
	var allowOther bool

	cmd := &cobra.Command{
		Use:   "mount ARCHIVE MOUNTPOINT",
		Short: "Mount an archive read-only with FUSE",
		Long: `Mount an archive read-only with FUSE until interrupted.

Blocks are decompressed when a member is first read and dropped once no
open file references them.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openArchive(args[0])
			if err != nil {
				return err
			}

			server, err := fusefs.Mount(fusefs.Options{
				Mountpoint: args[1],
				Session:    session,
				AllowOther: allowOther,
				Logger:     cfg.Logger,
			})
			if err != nil {
				session.Close()
				return err
			}
			fmt.Printf("Mounted %s at %s (Ctrl-C to unmount)\n", args[0], args[1])

			signals := make(chan os.Signal, 1)
			signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-signals
				if err := server.Unmount(); err != nil {
					cfg.Logger.Error("unmount failed", "mountpoint", args[1], "error", err)
				}
			}()

			server.Wait()
			return session.Close()
		},
	}

	cmd.Flags().BoolVar(&allowOther, "allow-other", false, "Let other users access the mount (needs user_allow_other)")

	return cmd
}
