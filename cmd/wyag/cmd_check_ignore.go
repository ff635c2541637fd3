package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckIgnoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-ignore <path>...",
		Short: "Print the given paths that are ignored",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			ignored, err := r.CheckIgnore(args)
			if err != nil {
				return err
			}
			for _, p := range ignored {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}
