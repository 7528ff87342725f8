package commands

import (
	"github.com/spf13/cobra"

	"github.com/handiism/suno-exporter/internal/http"
	"github.com/handiism/suno-exporter/internal/pipeline"
	"github.com/handiism/suno-exporter/internal/progress"
)

var fetchFlags struct {
	extract extractFlags
}

func init() {
	fetchFlags.extract.register(fetchCmd)
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <url...>",
	Short: "Downloads pages without a browser and exports the songs they render on the server.",
	Long: "Downloads pages without a browser and exports the songs they render on the server.\n" +
		"Several playlist URLs can be given; songs found on more than one are exported once.\n" +
		"Only the first screen of songs is available this way; use live for complete pages.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		settings.PageURL = args[0]
		fetchFlags.extract.apply(cmd, settings)

		logger, err := validate(settings)
		if err != nil {
			return err
		}
		onProgress := progress.SlogFunc(logger)

		opts := []http.Option{
			http.WithTimeout(settings.HTTPTimeout()),
			http.WithProgress(onProgress),
		}
		if settings.UserAgent != "" {
			opts = append(opts, http.WithUserAgent(settings.UserAgent))
		}
		client := http.NewClient(opts...)

		runner := pipeline.NewRunner(settings, onProgress)
		res, err := runner.Run(cmd.Context(), &pipeline.FetchSource{URLs: args, Client: client})
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}
