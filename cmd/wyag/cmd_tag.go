package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const defaultTagMessage = "A tag generated by wyag.\n"

func newTagCmd() *cobra.Command {
	var annotated bool
	var message string
	var tagger string

	cmd := &cobra.Command{
		Use:   "tag [-a] [name [object]]",
		Short: "List or create tags",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				tags, err := r.ListTags()
				if err != nil {
					return err
				}
				for _, t := range tags {
					fmt.Fprintln(cmd.OutOrStdout(), t.Name)
				}
				return nil
			}

			name := args[0]
			targetName := "HEAD"
			if len(args) == 2 {
				targetName = args[1]
			}
			target, err := r.FindObject(targetName, "", true)
			if err != nil {
				return err
			}

			if !annotated {
				return r.CreateTag(name, target)
			}
			_, err = r.CreateAnnotatedTag(name, target, tagger, message)
			return err
		},
	}

	cmd.Flags().BoolVarP(&annotated, "annotate", "a", false, "create a tag object")
	cmd.Flags().StringVarP(&message, "message", "m", defaultTagMessage, "annotated tag message")
	cmd.Flags().StringVar(&tagger, "tagger", "", "annotated tag author (default \"wyag <wyag@example.com>\")")

	return cmd
}
