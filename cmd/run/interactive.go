package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wippyai/js-runtime/engine"
	"github.com/wippyai/js-runtime/runtime"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const maxHistory = 200

type replEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	rt      *runtime.Runtime
	ctx     *runtime.Context
	input   textinput.Model
	history []replEntry
	seq     int
}

func newReplModel(log *zap.Logger) *replModel {
	platform := engine.NewPlatform(engine.WithLogger(log))
	rt := runtime.New(runtime.WithPlatform(platform), runtime.WithLogger(log))
	ctx := rt.NewContext(1)

	ti := textinput.New()
	ti.Prompt = promptStyle.Render("js> ")
	ti.Placeholder = "1 + 2"
	ti.Width = 60
	ti.Focus()

	return &replModel{
		rt:    rt,
		ctx:   ctx,
		input: ti,
	}
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			m.rt.Close()
			return m, tea.Quit

		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			m.eval(line)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// eval runs one REPL line inside its own value scope. Globals persist in
// the environment across lines; the references minted for the line do not.
func (m *replModel) eval(line string) {
	m.seq++
	origin := fmt.Sprintf("repl-%d.js", m.seq)

	scope := m.ctx.PushScope()
	defer m.ctx.PopScope(scope)

	entry := replEntry{input: line}
	result, err := m.ctx.RunScript(origin, line)
	if err != nil {
		entry.output = err.Error()
		entry.isErr = true
	} else if m.ctx.IsUndefined(result) {
		entry.output = "undefined"
	} else if out, jerr := m.ctx.JSONStringify(result); jerr == nil && out != "" {
		entry.output = out
	} else {
		entry.output = m.ctx.String(result)
	}

	m.history = append(m.history, entry)
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
}

func (m *replModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("js-runtime REPL"))
	b.WriteString("\n\n")

	start := 0
	if len(m.history) > 12 {
		start = len(m.history) - 12
	}
	for _, e := range m.history[start:] {
		b.WriteString(promptStyle.Render("js> "))
		b.WriteString(e.input)
		b.WriteString("\n")
		if e.isErr {
			b.WriteString(errorStyle.Render(e.output))
		} else {
			b.WriteString(resultStyle.Render(e.output))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("context %d • %d live slots", m.ctx.ID(), m.ctx.ValueCount())))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter evaluate • ctrl+c quit"))

	return b.String()
}

func runInteractive(log *zap.Logger) error {
	p := tea.NewProgram(newReplModel(log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
