package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/studiodesk/internal/schedule"
	"github.com/manav03panchal/studiodesk/internal/validate"
)

// maxClientWidth caps names in the day box.
const maxClientWidth = 28

// Tabs renders the six day tabs with selected highlighted.
func Tabs(w *schedule.Week, selected int) string {
	tabs := make([]string, len(w.Days))
	for i, b := range w.Days {
		label := fmt.Sprintf("%d %s (%d)", i+1, b.Day.Label(), len(b.Entries))
		if i == selected {
			tabs[i] = StyleTabActive.Render(label)
		} else {
			tabs[i] = StyleTab.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// DayComponent displays one day's slots.
type DayComponent struct {
	Bucket schedule.DayBucket
	Width  int
}

// View renders the day component.
func (d *DayComponent) View() string {
	var content strings.Builder
	content.WriteString(StyleTitle.Render(d.Bucket.Day.Label()))
	content.WriteString("\n\n")

	if len(d.Bucket.Entries) == 0 {
		content.WriteString(StyleSubtitle.Render("Nenhum horário neste dia"))
	}
	for i, e := range d.Bucket.Entries {
		if i > 0 {
			content.WriteString("\n")
		}
		fmt.Fprintf(&content, "%s  %s %s  %s",
			StyleClock.Render(e.Time.DisplayKey()),
			validate.TruncateString(e.Client, maxClientWidth),
			StyleProfessional.Render("("+validate.TruncateString(e.Professional, maxClientWidth)+")"),
			StyleSubtitle.Render(fmt.Sprintf("%d min  #%d", e.DurationMinutes, e.ID)))
	}

	box := StyleDayBox
	if d.Width > 4 {
		box = box.Width(d.Width - 4)
	}
	return box.Render(content.String())
}

// HelpBar renders the help bar with keyboard shortcuts.
func HelpBar() string {
	keys := []struct {
		key  string
		desc string
	}{
		{"←/→", "day"},
		{"1-6", "jump"},
		{"r", "reload"},
		{"q", "quit"},
	}

	var parts []string
	for _, k := range keys {
		part := StyleHelpKey.Render(k.key) + " " + StyleHelpDesc.Render(k.desc)
		parts = append(parts, part)
	}

	return StyleHelp.Render(strings.Join(parts, "  •  "))
}
