package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	goschema "github.com/reoring/goschema"
	"github.com/reoring/goschema/source"
)

// errLoadFailed is returned after the failure has already been rendered.
var errLoadFailed = errors.New("load failed")

type loadOptions struct {
	*rootOptions
	typeName    string
	many        bool
	inputFormat string
	dupKeys     bool
}

func newLoadCmd(o *rootOptions) *cobra.Command {
	lo := &loadOptions{rootOptions: o}
	cmd := &cobra.Command{
		Use:   "load [file|-]",
		Short: "Load a data document through a schema and print the result as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return lo.run(cmd, path)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&lo.typeName, "type", "t", "", "schema type to load with (simple or fully qualified name)")
	f.BoolVar(&lo.many, "many", false, "expect a sequence of objects")
	f.StringVar(&lo.inputFormat, "input-format", "", "input format: json or yaml (default from extension, json for stdin)")
	f.BoolVar(&lo.dupKeys, "allow-duplicate-keys", false, "accept JSON objects with repeated keys (last one wins)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func (lo *loadOptions) run(cmd *cobra.Command, path string) error {
	reg, _, err := lo.registry()
	if err != nil {
		return err
	}
	t, err := reg.Resolve(lo.typeName)
	if err != nil {
		return err
	}

	format := source.FormatJSON
	if path != "-" {
		format = source.FormatFromPath(path)
	}
	if lo.inputFormat != "" {
		if format, err = source.ParseFormat(lo.inputFormat); err != nil {
			return err
		}
	}
	var in io.Reader = cmd.InOrStdin()
	if path != "-" {
		fh, err := os.Open(path)
		if err != nil {
			return err
		}
		defer fh.Close()
		in = fh
	}
	var opts []source.Option
	if lo.dupKeys {
		opts = append(opts, source.AllowDuplicateKeys())
	}
	data, err := source.DecodeReader(in, format, opts...)
	if err != nil {
		return err
	}

	mode := goschema.ManyOff
	if lo.many {
		mode = goschema.ManyOn
	}
	out, err := t.New().Load(cmd.Context(), data, goschema.LoadOpt{Many: mode})
	if err != nil {
		newPrinter(cmd.ErrOrStderr(), lo.noColor).failure(err)
		return errLoadFailed
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}
