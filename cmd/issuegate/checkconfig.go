package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newCheckConfigCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Validate the configuration and print the effective values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckConfig(cmd.OutOrStdout(), gf)
		},
	}
}

func runCheckConfig(stdout io.Writer, gf *globalFlags) error {
	cfg, err := loadConfig(gf)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if name := cfg.EncodingName(); name != "" {
		fmt.Fprintf(stdout, "# source code encoding resolves to %s\n", name)
	}
	_, err = stdout.Write(data)
	return err
}
