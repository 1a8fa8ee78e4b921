package main

import (
	"fmt"

	"github.com/raywall/fast-mock-server/pkg/scaffold"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var (
		endpoints int
		compact   bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print an example pair-schema config with N endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := scaffold.Generate(endpoints, compact)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(doc))
			return err
		},
	}

	cmd.Flags().IntVarP(&endpoints, "endpoints", "n", 0, "number of endpoints to generate")
	cmd.Flags().BoolVar(&compact, "compact", false, "print the document on a single line")
	_ = cmd.MarkFlagRequired("endpoints")
	return cmd
}
