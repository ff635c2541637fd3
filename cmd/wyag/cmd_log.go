package main

import (
	"github.com/spf13/cobra"

	"github.com/odvcencio/wyag/pkg/object"
	"github.com/odvcencio/wyag/pkg/repo"
)

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log [commit]",
		Short: "Print the history of a commit as a Graphviz graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "HEAD"
			if len(args) > 0 {
				name = args[0]
			}
			r, err := openRepo()
			if err != nil {
				return err
			}

			start, err := r.FindObject(name, object.TypeCommit, true)
			if err != nil {
				return err
			}
			nodes, err := r.LogGraph(start, nil)
			if err != nil {
				return err
			}
			return repo.WriteGraphviz(cmd.OutOrStdout(), nodes)
		},
	}
}
