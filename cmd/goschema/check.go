package main

import (
	"fmt"

	"github.com/spf13/cobra"

	goschema "github.com/reoring/goschema"
)

func newCheckCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that definition files build and every nested reference resolves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, types, err := o.registry()
			if err != nil {
				return err
			}
			for _, t := range types {
				if err := resolveNested(t); err != nil {
					return fmt.Errorf("%s: %w", t.FullName(), err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.FullName())
			}
			return nil
		},
	}
}

type schemaRef interface {
	Schema() (*goschema.Schema, error)
}

type innerField interface {
	Inner() goschema.Field
}

// resolveNested forces resolution of the nested references of one instance
// of t. References are lazy, so a typo in a ref would otherwise surface only
// on the first load that reaches it.
func resolveNested(t *goschema.SchemaType) error {
	for _, d := range t.New().Fields() {
		f := d.Field
		for {
			in, ok := f.(innerField)
			if !ok {
				break
			}
			f = in.Inner()
		}
		if ref, ok := f.(schemaRef); ok {
			if _, err := ref.Schema(); err != nil {
				return fmt.Errorf("%s: %w", d.Name, err)
			}
		}
	}
	return nil
}
