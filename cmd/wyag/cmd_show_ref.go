package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShowRefCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-ref",
		Short: "List references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			root, err := r.ListRefs("")
			if err != nil {
				return err
			}
			for _, ref := range root.Flatten() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ref.Hash, ref.Name)
			}
			return nil
		},
	}
}
