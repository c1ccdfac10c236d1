package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/docanchor/internal/client/models"
)

var (
	colorSuccess = lipgloss.AdaptiveColor{Light: "2", Dark: "2"}
	colorError   = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}
	colorPrimary = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	colorInfo    = lipgloss.AdaptiveColor{Light: "6", Dark: "6"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "8", Dark: "8"}
	colorWarning = lipgloss.AdaptiveColor{Light: "3", Dark: "3"}

	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	styleInfo    = lipgloss.NewStyle().Foreground(colorInfo)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleHeader  = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	styleBold    = lipgloss.NewStyle().Bold(true)
)

func formatSuccess(msg string) string { return styleSuccess.Render("✔ " + msg) }
func formatError(msg string) string   { return styleError.Render("✘ " + msg) }
func formatWarning(msg string) string { return styleWarning.Render("⚠ " + msg) }
func formatInfo(msg string) string    { return styleInfo.Render("ℹ " + msg) }
func formatMuted(msg string) string   { return styleMuted.Render(msg) }

// statusBadge colors a status the way the web badge did.
func statusBadge(s models.Status) string {
	switch s {
	case models.StatusAnchored, models.StatusVerified:
		return styleSuccess.Render(string(s))
	case models.StatusRejected:
		return styleError.Render(string(s))
	case models.StatusPending, models.StatusAnchoring, models.StatusUploading:
		return styleWarning.Render(string(s))
	}
	return styleMuted.Render(string(s))
}

func newBar() progress.Model {
	return progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage())
}

// table renders left-aligned columns separated by two spaces.
type table struct {
	headers []string
	rows    [][]string
}

func (t *table) add(cells ...string) { t.rows = append(t.rows, cells) }

func (t *table) render(w io.Writer) {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range t.rows {
		for i, c := range r {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(c))
			}
		}
	}

	line := func(cells []string, style *lipgloss.Style) string {
		parts := make([]string, len(widths))
		for i := range widths {
			var c string
			if i < len(cells) {
				c = cells[i]
			}
			parts[i] = c + strings.Repeat(" ", widths[i]-lipgloss.Width(c))
		}
		s := strings.TrimRight(strings.Join(parts, "  "), " ")
		if style != nil {
			s = style.Render(s)
		}
		return s
	}

	fmt.Fprintln(w, line(t.headers, &styleHeader))
	sep := make([]string, len(widths))
	for i, wd := range widths {
		sep[i] = strings.Repeat("─", wd)
	}
	fmt.Fprintln(w, formatMuted(strings.Join(sep, "  ")))
	for _, r := range t.rows {
		fmt.Fprintln(w, line(r, nil))
	}
}

// syncWriter serializes writes from concurrent uploads.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
