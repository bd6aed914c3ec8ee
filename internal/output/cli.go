package output

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/studiodesk/internal/assessment"
	"github.com/manav03panchal/studiodesk/internal/model"
	"github.com/manav03panchal/studiodesk/internal/schedule"
)

// Styles for CLI output.
var (
	// Colors
	colorPrimary   = lipgloss.Color("#7C3AED") // Purple
	colorSecondary = lipgloss.Color("#10B981") // Green
	colorMuted     = lipgloss.Color("#6B7280") // Gray
	colorWarning   = lipgloss.Color("#F59E0B") // Yellow
	colorError     = lipgloss.Color("#EF4444") // Red
	colorSuccess   = lipgloss.Color("#10B981") // Green

	// Styles
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)

	styleDay = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleClock = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSecondary)
)

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

func (c *CLIFormatter) render(s lipgloss.Style, text string) string {
	if c.IsColorEnabled() {
		return s.Render(text)
	}
	return text
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	c.Println(c.render(styleTitle, text))
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	c.Println(c.render(styleSuccess, "✓ "+text))
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	c.Println(c.render(styleWarning, "⚠ "+text))
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	c.Println(c.render(styleError, "✗ "+text))
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	c.Println(c.render(styleMuted, text))
}

// Table helpers for CLI output.
type TableRow struct {
	Columns []string
}

// PrintTable prints a simple table. Widths are measured in cells, so
// accented names line up.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(col))
			}
		}
	}

	pad := func(s string, w int) string {
		return s + strings.Repeat(" ", w-lipgloss.Width(s)) + "  "
	}

	var headerLine strings.Builder
	for i, h := range headers {
		headerLine.WriteString(pad(h, widths[i]))
	}
	c.Println(c.render(styleBold, strings.TrimRight(headerLine.String(), " ")))

	var sep strings.Builder
	for _, w := range widths {
		sep.WriteString(strings.Repeat("─", w) + "  ")
	}
	c.Println(strings.TrimRight(sep.String(), " "))

	for _, row := range rows {
		var rowLine strings.Builder
		for i, col := range row.Columns {
			if i < len(widths) {
				rowLine.WriteString(pad(col, widths[i]))
			}
		}
		c.Println(strings.TrimRight(rowLine.String(), " "))
	}
}

// PrintWeek prints the agenda day by day. CLI output gets one table per
// day; plain output one line per entry.
func (c *CLIFormatter) PrintWeek(w *schedule.Week) {
	if w.Empty() {
		c.Muted("Nenhum horário cadastrado.")
		c.Muted("Use 'studiodesk schedule add' to book a slot.")
		return
	}

	for i, b := range w.Days {
		if c.Format == FormatPlain {
			c.Println(b.Day.Label())
			for _, e := range b.Entries {
				c.Printf("  [%d] %s\n", e.ID, e.Line())
			}
			continue
		}

		if i > 0 {
			c.Println()
		}
		c.Println(c.render(styleDay, fmt.Sprintf("%s (%d)", b.Day.Label(), len(b.Entries))))
		if len(b.Entries) == 0 {
			c.Muted("  —")
			continue
		}
		rows := make([]TableRow, len(b.Entries))
		for j, e := range b.Entries {
			rows[j] = TableRow{Columns: []string{
				fmt.Sprint(e.ID),
				c.render(styleClock, e.Time.DisplayKey()),
				e.Client,
				e.Professional,
				fmt.Sprintf("%d min", e.DurationMinutes),
			}}
		}
		c.PrintTable([]string{"ID", "Horário", "Nome", "Profissional", "Duração"}, rows)
	}

	if n := len(w.Unscheduled); n > 0 {
		c.Println()
		c.Warning(fmt.Sprintf("%d row(s) have a day outside segunda..sábado and are not shown", n))
	}
}

// PrintEntry prints one booked slot after a change.
func (c *CLIFormatter) PrintEntry(verb string, e model.Entry) {
	c.Success(fmt.Sprintf("%s [%d] %s %s", verb, e.ID, e.Day.Label(), e.Line()))
}

// PrintRepair summarises what sanitizing the agenda changed.
func (c *CLIFormatter) PrintRepair(w *schedule.Week) {
	if len(w.Dropped) == 0 && !w.Reindexed {
		c.Success(fmt.Sprintf("Agenda is clean (%d entries)", w.Count()))
		return
	}
	for _, d := range w.Dropped {
		c.Warning(fmt.Sprintf("dropped %s: id=%q dia=%q horario=%q nome=%q",
			d.Reason, d.Row.ID, d.Row.Day, d.Row.Time, d.Row.Client))
	}
	if w.Reindexed {
		c.Muted("ids renumbered 1.." + fmt.Sprint(len(w.Rows)))
	}
	c.Success(fmt.Sprintf("Agenda repaired (%d entries)", w.Count()))
}

// PrintAssessments lists assessments, newest first.
func (c *CLIFormatter) PrintAssessments(list []model.Assessment) {
	if len(list) == 0 {
		c.Muted("Nenhuma avaliação encontrada.")
		return
	}
	if c.Format == FormatPlain {
		for _, a := range list {
			c.Printf("%d\t%s\t%s\t%d\n", a.ID, a.DateString(), a.Name, len(a.Photos))
		}
		return
	}
	rows := make([]TableRow, len(list))
	for i, a := range list {
		rows[i] = TableRow{Columns: []string{fmt.Sprint(a.ID), a.DateString(), a.Name, fmt.Sprint(len(a.Photos))}}
	}
	c.PrintTable([]string{"ID", "Data", "Nome", "Fotos"}, rows)
}

// PrintAssessment prints one assessment with its photos.
func (c *CLIFormatter) PrintAssessment(a model.Assessment) {
	c.Title(fmt.Sprintf("%s — %s", a.Name, a.DateString()))
	c.Printf("  ID: %d\n", a.ID)
	if len(a.Photos) == 0 {
		c.Muted("  Sem fotos registradas.")
		return
	}
	c.Printf("  Fotos: %d imagens\n", len(a.Photos))
	for _, p := range a.Photos {
		c.Printf("    %s  %s\n", p.File, c.render(styleMuted, p.UploadedAt))
	}
}

// PrintComparison prints two assessments side by side.
func (c *CLIFormatter) PrintComparison(cmp assessment.Comparison) {
	left := comparisonColumn("Avaliação 1", cmp.Left)
	right := comparisonColumn("Avaliação 2", cmp.Right)

	width := 0
	for _, l := range left {
		width = max(width, lipgloss.Width(l))
	}

	for i := range max(len(left), len(right)) {
		var l, r string
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		line := l + strings.Repeat(" ", width-lipgloss.Width(l)) + "  │  " + r
		if i == 0 {
			line = c.render(styleBold, line)
		}
		c.Println(strings.TrimRight(line, " "))
	}
}

func comparisonColumn(title string, a model.Assessment) []string {
	lines := []string{title, a.Name + " — " + a.DateString(), ""}
	if len(a.Photos) == 0 {
		return append(lines, "Sem fotos registradas.")
	}
	for _, p := range a.Photos {
		lines = append(lines, p.File+" ("+p.UploadedAt+")")
	}
	return lines
}

// PrintSettings prints settings sorted by dotted key.
func (c *CLIFormatter) PrintSettings(settings map[string]any) {
	flat := map[string]any{}
	flatten("", settings, flat)

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		c.Printf("%s = %v\n", c.render(styleBold, k), flat[k])
	}
}

func flatten(prefix string, in, out map[string]any) {
	for k, v := range in {
		if prefix != "" {
			k = prefix + "." + k
		}
		if m, ok := v.(map[string]any); ok {
			flatten(k, m, out)
			continue
		}
		out[k] = v
	}
}
