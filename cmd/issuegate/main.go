package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	gf := &globalFlags{}
	root := &cobra.Command{
		Use:           "issuegate",
		Short:         "Summarise static-analysis results per build and enforce quality gates",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&gf.configPath, "config", "", "Config file (default: .issuegate.yaml in the working directory)")
	pf.StringVar(&gf.db, "db", "", "Build registry database path (overrides config)")
	pf.BoolVar(&gf.verbose, "verbose", false, "Log processing steps to stderr")

	root.AddCommand(newRecordCmd(gf))
	root.AddCommand(newSummaryCmd(gf))
	root.AddCommand(newServeCmd(gf))
	root.AddCommand(newCheckConfigCmd(gf))
	return root
}
