package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/odvcencio/wyag/pkg/object"
)

func newHashObjectCmd() *cobra.Command {
	var write bool
	var typeName string

	cmd := &cobra.Command{
		Use:   "hash-object [-w] [-t type] <file>",
		Short: "Compute an object ID and optionally store the object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			objType, err := parseObjectType(typeName)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("hash-object: %w", err)
			}

			// HashBytes rejects payloads that do not parse as objType.
			h, err := object.HashBytes(objType, data)
			if err != nil {
				return fmt.Errorf("hash-object %s: %w", args[0], err)
			}
			if write {
				r, err := openRepo()
				if err != nil {
					return err
				}
				if h, err = r.Store.WriteRaw(objType, data); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the object into the repository")
	cmd.Flags().StringVarP(&typeName, "type", "t", string(object.TypeBlob), "object type")

	return cmd
}
