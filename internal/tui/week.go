package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/studiodesk/internal/schedule"
)

// Loader loads the sanitized agenda.
type Loader interface {
	Load(ctx context.Context) (*schedule.Week, error)
}

// tickMsg is sent when the timer ticks.
type tickMsg time.Time

// weekMsg carries a freshly loaded agenda.
type weekMsg struct {
	week *schedule.Week
}

// errMsg is sent when an error occurs.
type errMsg struct {
	err error
}

// WeekModel is the bubbletea model for the week view.
type WeekModel struct {
	ctx    context.Context
	loader Loader

	week     *schedule.Week
	selected int

	// UI state
	width      int
	height     int
	err        error
	message    string
	messageExp time.Time
	now        func() time.Time
}

// NewWeekModel creates a week view that starts on today's weekday, or
// Monday on Sunday.
func NewWeekModel(ctx context.Context, loader Loader) *WeekModel {
	m := &WeekModel{ctx: ctx, loader: loader, now: time.Now}
	m.selected = todayIndex(m.now())
	return m
}

func todayIndex(t time.Time) int {
	if wd := t.Weekday(); wd >= time.Monday && wd <= time.Saturday {
		return int(wd) - 1
	}
	return 0
}

// Init initializes the model.
func (m *WeekModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.tickCmd())
}

// Update handles messages and updates the model.
func (m *WeekModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		// Clear expired messages
		if !m.messageExp.IsZero() && m.now().After(m.messageExp) {
			m.message = ""
			m.messageExp = time.Time{}
		}
		return m, m.tickCmd()

	case weekMsg:
		m.week = msg.week
		m.err = nil
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m *WeekModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k := msg.String(); k {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "left", "h", "shift+tab":
		m.selected = (m.selected + 5) % 6
		return m, nil

	case "right", "l", "tab":
		m.selected = (m.selected + 1) % 6
		return m, nil

	case "1", "2", "3", "4", "5", "6":
		m.selected = int(k[0] - '1')
		return m, nil

	case "r":
		m.setMessage("Reloaded", time.Second)
		return m, m.loadCmd()
	}

	return m, nil
}

// View renders the week view.
func (m *WeekModel) View() string {
	if m.week == nil && m.err == nil {
		return "Loading..."
	}

	sections := []string{StyleTitle.Render("Agenda Semanal") + "  " +
		StyleSubtitle.Render(m.now().Format("Mon Jan 2, 15:04"))}

	if m.err != nil {
		sections = append(sections, StyleError.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	if m.message != "" {
		sections = append(sections, StyleWarning.Render(m.message))
	}

	if m.week != nil {
		sections = append(sections, "", Tabs(m.week, m.selected))
		day := &DayComponent{Bucket: m.week.Days[m.selected], Width: m.width}
		sections = append(sections, day.View())
		sections = append(sections, StyleSubtitle.Render(fmt.Sprintf("%d slots this week", m.week.Count())))
	}

	sections = append(sections, HelpBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Selected returns the index of the selected day.
func (m *WeekModel) Selected() int {
	return m.selected
}

func (m *WeekModel) setMessage(msg string, d time.Duration) {
	m.message = msg
	m.messageExp = m.now().Add(d)
}

func (m *WeekModel) tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *WeekModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		w, err := m.loader.Load(m.ctx)
		if err != nil {
			return errMsg{err: err}
		}
		return weekMsg{week: w}
	}
}

// Run starts the week view.
func Run(ctx context.Context, loader Loader) error {
	p := tea.NewProgram(NewWeekModel(ctx, loader), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
