package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	goschema "github.com/reoring/goschema"
	"github.com/reoring/goschema/schemafile"
)

type rootOptions struct {
	logLevel string
	defs     []string
	noColor  bool
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "goschema",
		Short:         "Validate and deserialize data with declarative schemas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.setupLogging(cmd)
		},
	}
	f := cmd.PersistentFlags()
	f.StringVar(&o.logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	f.StringSliceVar(&o.defs, "defs", nil, "schema definition files (YAML or JSON); repeatable")
	f.BoolVar(&o.noColor, "no-color", false, "disable colored failure output")

	cmd.AddCommand(
		newLoadCmd(o),
		newCheckCmd(o),
		newSchemaCmd(o),
		newWatchCmd(o),
		newVersionCmd(),
	)
	return cmd
}

func (o *rootOptions) setupLogging(cmd *cobra.Command) error {
	level, err := zerolog.ParseLevel(strings.ToLower(o.logLevel))
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	out := zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen, NoColor: o.noColor}
	goschema.SetLogger(zerolog.New(out).Level(level).With().Timestamp().Logger())
	return nil
}

// registry defines every definition file in a fresh registry.
func (o *rootOptions) registry() (*goschema.Registry, []*goschema.SchemaType, error) {
	if len(o.defs) == 0 {
		return nil, nil, fmt.Errorf("at least one --defs file is required")
	}
	reg := goschema.NewRegistry()
	var all []*goschema.SchemaType
	for _, path := range o.defs {
		types, err := schemafile.LoadFile(path, reg)
		if err != nil {
			return nil, nil, err
		}
		all = append(all, types...)
	}
	return reg, all, nil
}
