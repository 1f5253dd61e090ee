package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	goschema "github.com/reoring/goschema"
	"github.com/reoring/goschema/jsonschema"
)

func newSchemaCmd(o *rootOptions) *cobra.Command {
	var (
		typeName string
		many     bool
	)
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print a schema type as a JSON Schema document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, _, err := o.registry()
			if err != nil {
				return err
			}
			t, err := reg.Resolve(typeName)
			if err != nil {
				return err
			}
			doc, err := jsonschema.For(t.New(goschema.Many(many)))
			if err != nil {
				return fmt.Errorf("%s: %w", t.FullName(), err)
			}
			b, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "schema type to export")
	cmd.Flags().BoolVar(&many, "many", false, "export an array of the type")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
