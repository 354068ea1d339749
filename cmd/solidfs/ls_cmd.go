// cmd/solidfs/ls_cmd.go
package main

import (
	"fmt"
	"os"
	"path"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/solidfs/pkg/inspect"
)

func init() {
	rootCmd.AddCommand(lsCmd())
}

func lsCmd() *cobra.Command {
	var long bool
	var recursive bool

	cmd := &cobra.Command{
		Use:   "ls ARCHIVE [DIR]",
		Short: "List directory entries inside an archive",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openArchive(args[0])
			if err != nil {
				return err
			}
			defer session.Close()

			dir := ""
			if len(args) > 1 {
				dir = args[1]
			}

			if long || recursive {
				listing, err := inspect.Build(session, dir, recursive)
				if err != nil {
					return err
				}
				return inspect.Write(os.Stdout, listing, inspect.FormatText)
			}

			return session.Enumerate(dir, func(name string) error {
				st, err := session.Stat(path.Join(dir, name))
				if err != nil {
					return err
				}
				if st.IsDir() {
					name += "/"
				}
				_, err = fmt.Println(name)
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&long, "long", "l", false, "Show size, block and modification time")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "List every descendant (implies --long)")

	return cmd
}
