package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/wyag/pkg/object"
)

func newRevParseCmd() *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "rev-parse [--wyag-type type] <name>",
		Short: "Resolve a name to an object ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var want object.ObjectType
			if typeName != "" {
				t, err := parseObjectType(typeName)
				if err != nil {
					return err
				}
				want = t
			}
			r, err := openRepo()
			if err != nil {
				return err
			}

			h, err := r.FindObject(args[0], want, true)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().StringVar(&typeName, "wyag-type", "", "peel the object to this type (blob, tree, commit, tag)")

	return cmd
}
