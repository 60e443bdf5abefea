package main

import (
	"github.com/born-ml/reparam/internal/scenario"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the default scenario file",
		Long: `Prints the built-in scenarios as YAML, ready to be edited and passed
back with --config.

Example:
  reparam config -o scenarios.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := scenario.Default()
			if output != "" {
				return cfg.Save(output)
			}
			return cfg.Encode(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
