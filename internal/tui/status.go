// Package tui renders a read-only status dashboard over the
// orchestrator's agent roster: name, role, health, and status, refreshed
// on a timer. It follows the Init/Update/View bubbletea model the
// teacher's interactive hiring wizard used, stripped to a single
// non-interactive view built on bubbles' table component instead of the
// wizard's list component.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/skill-docket/skd/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	healthStyle = map[model.HealthState]lipgloss.Style{
		model.HealthHealthy:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		model.HealthDegraded:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		model.HealthUnhealthy: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		model.HealthUnknown:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
)

var columns = []table.Column{
	{Title: "NAME", Width: 16},
	{Title: "ROLE", Width: 12},
	{Title: "STATUS", Width: 10},
	{Title: "HEALTH", Width: 10},
	{Title: "TASK", Width: 24},
}

// AgentSource supplies the current agent roster on demand. The
// orchestrator itself (via its View method) satisfies this.
type AgentSource interface {
	View() []*model.Agent
}

type refreshMsg struct{}

// Model is the bubbletea model for the status dashboard.
type Model struct {
	source   AgentSource
	interval time.Duration
	table    table.Model
	agents   []*model.Agent
	quitting bool
}

// New constructs a status dashboard polling source every interval.
func New(source AgentSource, interval time.Duration) Model {
	if interval <= 0 {
		interval = time.Second
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
		table.WithHeight(20),
	)
	style := table.DefaultStyles()
	style.Header = style.Header.Bold(true)
	style.Selected = lipgloss.NewStyle()
	t.SetStyles(style)
	return Model{source: source, interval: interval, table: t}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), func() tea.Msg { return refreshMsg{} })
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return refreshMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	case refreshMsg:
		m.agents = m.source.View()
		m.table.SetRows(agentRows(m.agents))
		return m, m.tick()
	}
	return m, nil
}

func agentRows(agents []*model.Agent) []table.Row {
	rows := make([]table.Row, 0, len(agents))
	for _, agent := range agents {
		task := "-"
		if agent.Task != nil {
			task = *agent.Task
		}
		health := string(agent.Health)
		if style, ok := healthStyle[agent.Health]; ok {
			health = style.Render(health)
		}
		rows = append(rows, table.Row{agent.Name, agent.Role, string(agent.Status), health, task})
	}
	return rows
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	header := headerStyle.Render("skill docket — agent status") + "\n\n"
	if len(m.agents) == 0 {
		return header + "no agents running\n"
	}
	return header + m.table.View() + "\n\npress q to quit\n"
}
