package main

import (
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/litmap/internal/inbox"
	"github.com/ShayCichocki/litmap/internal/locations"
)

var watchDebounce = inbox.DefaultDebounce

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Convert manuscripts dropped into a directory to GeoJSON",
	Long: `Watch a directory for plain-text manuscripts. Each new or updated
.txt, .text or .md file is converted to <name>.geojson next to it once
writes to it have settled.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		w, err := inbox.New(args[0],
			inbox.Converter(a.locations, locations.PlainText{}),
			inbox.WithDebounce(watchDebounce),
			inbox.WithLogger(logger),
		)
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()
		return w.Run(ctx)
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", inbox.DefaultDebounce, "Quiet period before a file is processed")
}
