package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/handiism/suno-exporter/internal/config"
	"github.com/handiism/suno-exporter/internal/tui"
)

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:          "suno-tui",
		Short:        "Interactive terminal front-end for suno-export.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := settings.Validate(); err != nil {
				return err
			}
			return tui.Run(settings)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultFileName, "Settings file (JSON5).")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
