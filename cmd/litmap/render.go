package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/ShayCichocki/litmap/internal/locations"
	"github.com/ShayCichocki/litmap/internal/orchestrator"
	"github.com/ShayCichocki/litmap/pkg/models"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(72)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// printStatus prints a status line with color
func printStatus(w io.Writer, symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Fprintf(w, "%s %s\n", c.Sprint(symbol), message)
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// output prints v as JSON when --json is set, otherwise through human.
func output(w io.Writer, v any, human func(io.Writer)) error {
	if jsonOutput {
		return printJSON(w, v)
	}
	human(w)
	return nil
}

func printTimeline(w io.Writer, timeline []models.TimelineEntry) {
	for _, e := range timeline {
		msg := fmt.Sprintf("%-15s %-24s %5dms", e.Agent, e.Tool, e.ElapsedMS)
		switch e.Status {
		case models.StatusSuccess:
			printStatus(w, "✓", msg, color.FgGreen)
		case models.StatusSkipped:
			printStatus(w, "-", msg+"  skipped", color.FgYellow)
		default:
			printStatus(w, "✗", msg+"  "+e.Error, color.FgRed)
		}
	}
}

func panel(title, body string) string {
	return panelStyle.Render(titleStyle.Render(title) + "\n\n" + body)
}

func renderResponse(w io.Writer, resp *orchestrator.Response) {
	if resp.Search != nil {
		renderBooks(w, resp.Search)
		return
	}

	fmt.Fprintf(w, "%s %s\n\n", labelStyle.Render("orchestration"), resp.ID)
	printTimeline(w, resp.Timeline)
	fmt.Fprintln(w)

	if resp.Synthesis != nil {
		fmt.Fprintln(w, panel("Synthesis", *resp.Synthesis))
	} else {
		printStatus(w, "⚠", "No synthesis: no specialist succeeded or generation failed", color.FgYellow)
	}
	fmt.Fprintf(w, "\n%s %dms\n", labelStyle.Render("total"), resp.TotalElapsedMS)
}

func renderBooks(w io.Writer, res *orchestrator.BookSearch) {
	printTimeline(w, res.Timeline)
	fmt.Fprintf(w, "\n%d books found for %q\n\n", res.NumFound, res.Query)
	for i, b := range res.Books {
		year := ""
		if b.FirstPublishYear > 0 {
			year = fmt.Sprintf(" (%d)", b.FirstPublishYear)
		}
		fmt.Fprintf(w, "%2d. %s%s\n", i+1, titleStyle.Render(b.Title), year)
		if len(b.Authors) > 0 {
			fmt.Fprintf(w, "    %s\n", strings.Join(b.Authors, ", "))
		}
	}
}

func renderVibe(w io.Writer, resp *orchestrator.VibeResponse) {
	if len(resp.Matches) == 0 {
		printStatus(w, "⚠", fmt.Sprintf("No landmarks matched %q", resp.Query), color.FgYellow)
		return
	}
	for _, m := range resp.Matches {
		printStatus(w, "✓", fmt.Sprintf("%.2f  %s, %s (%s)", m.VibeScore, m.Title, m.Book, m.Era), color.FgGreen)
		if m.Reason != "" {
			fmt.Fprintf(w, "      %s\n", labelStyle.Render(m.Reason))
		}
	}
}

func renderChat(w io.Writer, resp *orchestrator.ChatResponse) {
	fmt.Fprintln(w, panel("Answer", resp.Answer))
	fmt.Fprintf(w, "%s %dms\n", labelStyle.Render("elapsed"), resp.ElapsedMS)
}

func renderUpload(w io.Writer, up *locations.Upload) {
	header := up.BookTitle
	if up.Author != "" {
		header += " by " + up.Author
	}
	fmt.Fprintf(w, "%s: %d locations\n\n", titleStyle.Render(header), up.LocationsFound)
	for _, f := range up.GeoJSON.Features {
		p := f.Properties
		printStatus(w, "•", fmt.Sprintf("%-32s %s  relevance %g", p.Title, p.Era, p.Relevance), color.FgCyan)
	}
}
