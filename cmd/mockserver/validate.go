package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newValidateCmd(root *rootFlags) *cobra.Command {
	var source, schema string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a routes document without starting the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if source == "" {
				return errNoConfig
			}
			s, err := loadSettings(cmd, root)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("schema") {
				s.Schema = schema
			}
			routeSchema, err := s.RouteSchema()
			if err != nil {
				return err
			}

			defs, err := newLoader(s, zerolog.Nop()).Load(cmd.Context(), source, routeSchema)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✅ %s is valid (%s schema, %d routes)\n", source, routeSchema, len(defs))
			for _, def := range defs {
				line := def.Summary(def.Success.Status)
				if def.Paired() {
					line = fmt.Sprintf("%s | error %d", line, def.Error.Status)
				}
				fmt.Fprintf(out, "  %s\n", line)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "config", "c", "", "path or URI of the routes document")
	cmd.Flags().StringVar(&schema, "schema", "", "route schema: single or pair (env MOCK_SCHEMA)")
	return cmd
}
