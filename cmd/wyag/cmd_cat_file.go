package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/wyag/pkg/object"
)

func parseObjectType(s string) (object.ObjectType, error) {
	t := object.ObjectType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown object type %q (want blob, tree, commit or tag)", s)
	}
	return t, nil
}

func newCatFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat-file <type> <object>",
		Short: "Print the content of an object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			objType, err := parseObjectType(args[0])
			if err != nil {
				return err
			}
			r, err := openRepo()
			if err != nil {
				return err
			}

			h, err := r.FindObject(args[1], objType, true)
			if err != nil {
				return err
			}
			_, data, err := r.Store.ReadRaw(h)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
