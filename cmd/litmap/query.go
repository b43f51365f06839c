package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/litmap/internal/orchestrator"
	"github.com/ShayCichocki/litmap/pkg/models"
)

var (
	orchestrateLandmark string
	orchestrateEra      string
	booksLimit          int
	vibeTop             int
	chatLandmark        string
)

var orchestrateCmd = &cobra.Command{
	Use:   "orchestrate",
	Short: "Run every relevant specialist for a landmark or era",
	Long: `Dispatch the archivist, linguist and stylist concurrently and synthesize
their results. The era is inferred from the landmark when omitted.

Examples:
  litmap orchestrate --landmark hr-harlem
  litmap orchestrate --era 1940s --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		resp, err := a.conductor.Orchestrate(cmd.Context(), models.OrchestrationRequest{
			LandmarkID: orchestrateLandmark,
			Era:        orchestrateEra,
		})
		if err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), resp, func(w io.Writer) { renderResponse(w, resp) })
	},
}

var booksCmd = &cobra.Command{
	Use:   "books <query>",
	Short: "Search Open Library by title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if booksLimit < 1 || booksLimit > 100 {
			return fmt.Errorf("--limit must be between 1 and 100, got %d", booksLimit)
		}
		a, err := loadApp()
		if err != nil {
			return err
		}
		res, err := a.conductor.SearchBooks(cmd.Context(), strings.Join(args, " "), booksLimit)
		if err != nil {
			return err
		}
		if err := output(cmd.OutOrStdout(), res, func(w io.Writer) { renderBooks(w, res) }); err != nil {
			return err
		}
		if res.Failed() {
			return errors.New("book search failed")
		}
		return nil
	},
}

var vibeCmd = &cobra.Command{
	Use:   "vibe <query>",
	Short: "Find landmarks that match a mood",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		resp, err := a.conductor.VibeSearch(cmd.Context(), strings.Join(args, " "), vibeTop)
		if err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), resp, func(w io.Writer) { renderVibe(w, resp) })
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat <question>",
	Short: "Ask a question about a place",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		var place *models.Feature
		if chatLandmark != "" {
			lm, ok := a.catalog.Landmark(chatLandmark)
			if !ok {
				return fmt.Errorf("unknown landmark: %s", chatLandmark)
			}
			place = lm.AsFeature()
		}

		resp, err := a.conductor.Chat(cmd.Context(), strings.Join(args, " "), place)
		if err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), resp, func(w io.Writer) { renderChat(w, resp) })
	},
}

func init() {
	orchestrateCmd.Flags().StringVar(&orchestrateLandmark, "landmark", "", "Curated landmark id, e.g. hr-harlem")
	orchestrateCmd.Flags().StringVar(&orchestrateEra, "era", "", "Era key, e.g. 1920s")

	booksCmd.Flags().IntVar(&booksLimit, "limit", orchestrator.DefaultSearchLimit, "Maximum number of books (1-100)")

	vibeCmd.Flags().IntVar(&vibeTop, "top", orchestrator.DefaultVibeMatches, "Number of matches")

	chatCmd.Flags().StringVar(&chatLandmark, "landmark", "", "Landmark the question is about")
}
