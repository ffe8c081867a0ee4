package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"keychord/config"
	"keychord/key"
)

// TUI message types
type MatchMsg struct {
	Name string
	Keys string
	At   time.Time
}
type ProgressMsg struct {
	Name        string
	Step, Total int
}
type ResetMsg struct{ Name string }
type HeldMsg struct{ Keys []key.Key }
type tickMsg time.Time

const (
	matchHistory = 8
	flashFor     = 600 * time.Millisecond
)

type bindingRow struct {
	name    string
	desc    string
	step    int
	total   int
	count   int
	flashed time.Time
}

type tuiModel struct {
	backend       string
	rows          []bindingRow
	held          []key.Key
	history       []MatchMsg
	matches       int
	width, height int
	now           time.Time
}

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	flashStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("42"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	heldStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	historyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
)

func newTUIModel(backend string, compiled []config.Compiled) tuiModel {
	m := tuiModel{backend: backend, now: time.Now()}
	for _, c := range compiled {
		m.rows = append(m.rows, bindingRow{name: c.Name, desc: c.Describe(), total: stepsOf(c.Matcher)})
	}
	return m
}

func NewTUIProgram(backend string, compiled []config.Compiled) *tea.Program {
	return tea.NewProgram(newTUIModel(backend, compiled), tea.WithAltScreen())
}

func tuiTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func (m tuiModel) row(name string) *bindingRow {
	for i := range m.rows {
		if m.rows[i].name == name {
			return &m.rows[i]
		}
	}
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case tickMsg:
		m.now = time.Time(msg)
		return m, tuiTick()

	case MatchMsg:
		m.rows = append([]bindingRow(nil), m.rows...)
		if r := m.row(msg.Name); r != nil {
			r.count++
			r.step = 0
			r.flashed = m.now
		}
		m.matches++
		m.history = append([]MatchMsg{msg}, m.history...)
		if len(m.history) > matchHistory {
			m.history = m.history[:matchHistory]
		}

	case ProgressMsg:
		m.rows = append([]bindingRow(nil), m.rows...)
		if r := m.row(msg.Name); r != nil {
			r.step = msg.Step
			r.total = msg.Total
		}

	case ResetMsg:
		m.rows = append([]bindingRow(nil), m.rows...)
		if r := m.row(msg.Name); r != nil {
			r.step = 0
		}

	case HeldMsg:
		m.held = msg.Keys
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("keychord "+version) + dimStyle.Render("  hook: "+m.backend) + "\n\n")

	nameWidth := 8
	for _, r := range m.rows {
		if len(r.name) > nameWidth {
			nameWidth = len(r.name)
		}
	}

	var rows []string
	for _, r := range m.rows {
		name := fmt.Sprintf("%-*s", nameWidth, r.name)
		if !r.flashed.IsZero() && m.now.Sub(r.flashed) < flashFor {
			name = flashStyle.Render(name)
		} else {
			name = nameStyle.Render(name)
		}
		line := name + "  " + dimStyle.Render(r.desc)
		if r.step > 0 {
			line += "  " + stepStyle.Render(fmt.Sprintf("[%d/%d]", r.step, r.total))
		}
		if r.count > 0 {
			line += dimStyle.Render(fmt.Sprintf("  ×%d", r.count))
		}
		rows = append(rows, line)
	}
	if len(rows) == 0 {
		rows = append(rows, dimStyle.Render("No bindings configured"))
	}
	b.WriteString(panelStyle.Render(strings.Join(rows, "\n")) + "\n\n")

	held := "none"
	if len(m.held) > 0 {
		held = key.FormatCombo(m.held)
	}
	b.WriteString(dimStyle.Render("held: ") + heldStyle.Render(held) + "\n\n")

	if len(m.history) == 0 {
		b.WriteString(dimStyle.Render("No matches yet") + "\n")
	} else {
		b.WriteString(dimStyle.Render(fmt.Sprintf("Matches (%d)", m.matches)) + "\n")
		for _, h := range m.history {
			b.WriteString(historyStyle.Render(fmt.Sprintf("%s  %s", h.At.Format("15:04:05.000"), h.Name)) + "\n")
		}
	}

	b.WriteString("\n" + dimStyle.Render("q or ctrl+c to quit"))
	return lipgloss.NewStyle().MaxWidth(m.width).MaxHeight(m.height).Render(b.String())
}

func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()

	if p != nil {
		p.Send(msg)
	}
}

// tuiSink forwards dispatcher activity to the running program.
type tuiSink struct{}

func (tuiSink) Matched(name, keys string, at time.Time) {
	tuiSend(MatchMsg{Name: name, Keys: keys, At: at})
}

func (tuiSink) Progress(name string, step, total int) {
	tuiSend(ProgressMsg{Name: name, Step: step, Total: total})
}

func (tuiSink) Reset(name string) { tuiSend(ResetMsg{Name: name}) }

func (tuiSink) Held(keys []key.Key) { tuiSend(HeldMsg{Keys: keys}) }
