package main

import (
	"fmt"

	"github.com/spf13/cobra"

	goschema "github.com/reoring/goschema"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of goschema",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "goschema version %s\n", goschema.Version)
		},
	}
}
