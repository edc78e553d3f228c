package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "loopd",
		Short:         "Phased tick loop with hookable update callbacks",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "",
		"config file (default: $LOOPD_CONFIG or config/loopd.toml)")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Start the loop and run until interrupted",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(resolveConfigPath(cfgPath))
			},
		},
		newPhasesCmd(&cfgPath),
	)
	return root
}

func newPhasesCmd(cfgPath *string) *cobra.Command {
	var layoutPath string
	cmd := &cobra.Command{
		Use:   "phases",
		Short: "Print the phase order from the configured layout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printPhases(cmd, resolveConfigPath(*cfgPath), layoutPath)
		},
	}
	cmd.Flags().StringVarP(&layoutPath, "layout", "l", "",
		"phase layout file (default: loop.layout_path from the config)")
	return cmd
}

func resolveConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	if p := os.Getenv("LOOPD_CONFIG"); p != "" {
		return p
	}
	return "config/loopd.toml"
}
