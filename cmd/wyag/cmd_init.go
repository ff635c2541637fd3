package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/odvcencio/wyag/pkg/repo"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			r, err := repo.Create(path)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty repository in %s\n", r.GitDir+string(filepath.Separator))
			return nil
		},
	}
}
