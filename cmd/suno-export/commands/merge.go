package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/handiism/suno-exporter/internal/export"
	"github.com/handiism/suno-exporter/internal/model"
	"github.com/handiism/suno-exporter/internal/pipeline"
	"github.com/handiism/suno-exporter/internal/progress"
)

func init() {
	rootCmd.AddCommand(mergeCmd)
}

var mergeCmd = &cobra.Command{
	Use:   "merge <export.csv|export.json>...",
	Short: "Merges earlier exports into one, keeping the first record of every song.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		logger, err := validate(settings)
		if err != nil {
			return err
		}

		all := make([][]model.Song, 0, len(args))
		for _, path := range args {
			songs, err := export.ReadFile(path)
			if err != nil {
				return fmt.Errorf("%w: %w", errUsage, err)
			}
			logger.Debug("read export", "path", path, "songs", len(songs))
			all = append(all, songs)
		}

		merged, err := export.Merge(all...)
		if err != nil {
			return err
		}
		logger.Info(fmt.Sprintf("Merged %d records into %d songs", merged.Total, len(merged.Songs)),
			"duplicates", merged.Duplicates)

		runner := pipeline.NewRunner(settings, progress.SlogFunc(logger))
		res, err := runner.Export(cmd.Context(), merged.Songs, strings.Join(args, ", "))
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}
