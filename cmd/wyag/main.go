package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/odvcencio/wyag/internal/log"
	"github.com/odvcencio/wyag/pkg/repo"
)

const version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("WYAG")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "wyag",
		Short:         "A content-addressable version control store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return log.Configure(v.GetString("log-format"), v.GetString("log-level"))
		},
	}

	flags := root.PersistentFlags()
	flags.String("log-level", "warning", "log level (trace, debug, info, warning, error)")
	flags.String("log-format", "text", "log format (text, json)")
	for _, name := range []string{"log-level", "log-format"} {
		// BindPFlag only fails for a nil flag.
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newCatFileCmd())
	root.AddCommand(newHashObjectCmd())
	root.AddCommand(newLogCmd())
	root.AddCommand(newLsTreeCmd())
	root.AddCommand(newLsFilesCmd())
	root.AddCommand(newRevParseCmd())
	root.AddCommand(newShowRefCmd())
	root.AddCommand(newTagCmd())
	root.AddCommand(newCheckoutCmd())
	root.AddCommand(newCheckIgnoreCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wyag %s\n", version)
		},
	}
}

// openRepo finds the repository containing the current directory.
func openRepo() (*repo.Repo, error) {
	return repo.Find(".")
}
