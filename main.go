package main

import (
	"os"

	"github.com/go-extras/cobraflags"

	"github.com/kubev2v/assessment-report-agent/cmd"
	"github.com/kubev2v/assessment-report-agent/internal/config"
)

func main() {
	cfg := config.NewConfigurationWithOptionsAndDefaults()

	rootCmd := cmd.NewRootCommand(cfg)
	rootCmd.AddCommand(
		cmd.NewRunCommand(cfg),
		cmd.NewExportCommand(cfg),
		cmd.NewVersionCommand(),
	)

	cobraflags.CobraOnInitialize(cmd.EnvPrefix, rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
