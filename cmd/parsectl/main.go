// Command parsectl is an operator tool for the parse pipeline: parse a local
// file, probe the parser server and list recent parse attempts.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var output string

	root := &cobra.Command{
		Use:           "parsectl",
		Short:         "Operate the document parse pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()
			if output != "json" && output != "yaml" {
				return fmt.Errorf("unsupported output %q (json or yaml)", output)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")

	root.AddCommand(newParseCmd(&output), newHealthCmd(&output), newHistoryCmd(&output))
	return root
}
