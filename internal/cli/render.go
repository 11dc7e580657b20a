package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/pointsexport/internal/engine"
	"github.com/rshade/pointsexport/internal/logging"
	"github.com/rshade/pointsexport/internal/points"
)

// RenderSummary writes the completion summary for res. Terminals get a styled box.
func RenderSummary(w io.Writer, mode points.Mode, res *engine.Result) error {
	if res == nil {
		return nil
	}
	if logging.IsTerminal(w) {
		return renderStyledSummary(w, mode, res)
	}
	return renderPlainSummary(w, mode, res)
}

func summaryLines(p *message.Printer, mode points.Mode, res *engine.Result) []string {
	lines := []string{
		p.Sprintf("Leaderboard: %s", mode),
		p.Sprintf("Users written: %d of %d", res.Rows, res.Total),
		p.Sprintf("Pages fetched: %d of %d", res.Fetches, res.Pages),
	}
	if res.Stopped {
		lines = append(lines, "Stopped early: cutoff reached")
	}
	lines = append(lines, "File: "+res.Path)
	return lines
}

func renderPlainSummary(w io.Writer, mode points.Mode, res *engine.Result) error {
	p := message.NewPrinter(language.English)

	if _, err := fmt.Fprintln(w, "Export complete"); err != nil {
		return err
	}
	for _, line := range summaryLines(p, mode, res) {
		if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
			return err
		}
	}
	return nil
}

func renderStyledSummary(w io.Writer, mode points.Mode, res *engine.Result) error {
	p := message.NewPrinter(language.English)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("42"))
	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	body := titleStyle.Render("Export complete")
	for _, line := range summaryLines(p, mode, res) {
		body += "\n" + line
	}

	_, err := fmt.Fprintln(w, boxStyle.Render(body))
	return err
}
