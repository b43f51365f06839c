package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/litmap/internal/locations"
)

var (
	extractTitle  string
	extractAuthor string
	extractYear   string
	extractFile   string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a book's real-world locations as GeoJSON",
	Long: `Extract the locations of a book, ranked by narrative relevance.

With --title alone the locations are recalled from the title. With --file the
manuscript text is read instead (plain UTF-8 text; --title then overrides the
title derived from the file name).

Examples:
  litmap extract --title "The Joy Luck Club" --author "Amy Tan"
  litmap extract --file manuscripts/home_to_harlem.txt --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if extractTitle == "" && extractFile == "" {
			return errors.New("one of --title or --file is required")
		}
		a, err := loadApp()
		if err != nil {
			return err
		}

		var upload *locations.Upload
		if extractFile != "" {
			f, err := os.Open(extractFile)
			if err != nil {
				return err
			}
			defer f.Close()
			upload, err = a.locations.Process(cmd.Context(), locations.PlainText{}, filepath.Base(extractFile), f, extractTitle)
			if err != nil {
				return err
			}
		} else {
			upload, err = a.locations.ProcessTitle(cmd.Context(), extractTitle, extractAuthor, extractYear)
			if err != nil {
				return err
			}
		}

		return output(cmd.OutOrStdout(), upload, func(w io.Writer) { renderUpload(w, upload) })
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractTitle, "title", "", "Book title")
	extractCmd.Flags().StringVar(&extractAuthor, "author", "", "Author name")
	extractCmd.Flags().StringVar(&extractYear, "year", "", "First publication year")
	extractCmd.Flags().StringVar(&extractFile, "file", "", "Path to a plain-text manuscript")
}
