package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/handiism/suno-exporter/internal/pipeline"
	"github.com/handiism/suno-exporter/internal/progress"
)

var liveFlags struct {
	extract    extractFlags
	remoteURL  string
	headless   bool
	delay      time.Duration
	maxScrolls int
	threshold  int
	signal     string
}

func init() {
	fl := liveCmd.Flags()
	fl.StringVar(&liveFlags.remoteURL, "remote-url", "", "DevTools websocket URL of a running, logged-in Chrome.")
	fl.BoolVar(&liveFlags.headless, "headless", true, "Run the started browser without a window.")
	fl.DurationVar(&liveFlags.delay, "delay", 2*time.Second, "Wait before every scroll.")
	fl.IntVar(&liveFlags.maxScrolls, "max-scrolls", 500, "Stop scrolling after this many scrolls.")
	fl.IntVar(&liveFlags.threshold, "threshold", 5, "Unchanged scrolls that count as fully loaded.")
	fl.StringVar(&liveFlags.signal, "signal", "identifiers", "Load progress signal: identifiers or height.")
	liveFlags.extract.register(liveCmd)
	rootCmd.AddCommand(liveCmd)
}

var liveCmd = &cobra.Command{
	Use:   "live [url]",
	Short: "Opens a Suno page in Chrome, scrolls until every song is loaded and exports them.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			settings.PageURL = args[0]
		}
		if settings.PageURL == "" {
			return fmt.Errorf("%w: a page url is required, as an argument or page_url in %s", errUsage, configPath)
		}

		fl := cmd.Flags()
		if fl.Changed("remote-url") {
			settings.RemoteURL = liveFlags.remoteURL
		}
		if fl.Changed("headless") {
			settings.Headless = liveFlags.headless
		}
		if fl.Changed("delay") {
			settings.ScrollDelayMs = int(liveFlags.delay / time.Millisecond)
		}
		if fl.Changed("max-scrolls") {
			settings.MaxScrolls = liveFlags.maxScrolls
		}
		if fl.Changed("threshold") {
			settings.StagnationThreshold = liveFlags.threshold
		}
		if fl.Changed("signal") {
			settings.ProgressSignal = liveFlags.signal
		}
		liveFlags.extract.apply(cmd, settings)

		logger, err := validate(settings)
		if err != nil {
			return err
		}

		runner := pipeline.NewRunner(settings, progress.SlogFunc(logger))
		res, err := runner.Run(cmd.Context(), &pipeline.LiveSource{
			Browser: settings.ToBrowserOptions(),
			Scroll:  settings.ToScrollConfig(),
		})
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}
