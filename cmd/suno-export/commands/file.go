package commands

import (
	"github.com/spf13/cobra"

	"github.com/handiism/suno-exporter/internal/pipeline"
	"github.com/handiism/suno-exporter/internal/progress"
)

var fileFlags struct {
	extract extractFlags
	baseURL string
}

func init() {
	fileCmd.Flags().StringVar(&fileFlags.baseURL, "base-url", pipeline.DefaultBaseURL, "URL relative links in the saved pages resolve against.")
	fileFlags.extract.register(fileCmd)
	rootCmd.AddCommand(fileCmd)
}

var fileCmd = &cobra.Command{
	Use:   "file <page.html>...",
	Short: "Exports the songs of fully scrolled pages saved from a browser.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		fileFlags.extract.apply(cmd, settings)

		logger, err := validate(settings)
		if err != nil {
			return err
		}

		runner := pipeline.NewRunner(settings, progress.SlogFunc(logger))
		res, err := runner.Run(cmd.Context(), &pipeline.FileSource{
			Paths:   args,
			BaseURL: fileFlags.baseURL,
		})
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}
