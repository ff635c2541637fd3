package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/odvcencio/wyag/pkg/index"
)

func newLsFilesCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "ls-files [--verbose]",
		Short: "List the files in the staging index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			idx, err := r.ReadIndex()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if verbose {
				fmt.Fprintf(out, "Index file format v%d, containing %d entries.\n", idx.Version, len(idx.Entries))
			}
			for _, e := range idx.Entries {
				fmt.Fprintln(out, e.Name)
				if verbose {
					printIndexEntry(out, e)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "show everything")

	return cmd
}

func printIndexEntry(out io.Writer, e index.Entry) {
	fmt.Fprintf(out, "  %s with perms: %o\n", e.ModeTypeName(), e.ModePerms)
	fmt.Fprintf(out, "  on blob: %s\n", e.Hash)
	fmt.Fprintf(out, "  created: %s, modified: %s\n", formatIndexTime(e.CTime), formatIndexTime(e.MTime))
	fmt.Fprintf(out, "  device: %d, inode: %d\n", e.Dev, e.Ino)
	fmt.Fprintf(out, "  user: %d  group: %d\n", e.UID, e.GID)
	fmt.Fprintf(out, "  flags: stage=%d assume_valid=%t\n", e.Stage, e.AssumeValid)
}

func formatIndexTime(ts index.Timestamp) string {
	t := time.Unix(int64(ts.Seconds), int64(ts.Nanoseconds)).UTC()
	return fmt.Sprintf("%s.%d", t.Format("2006-01-02 15:04:05"), ts.Nanoseconds)
}
