// Command slipcast-tui is a terminal dashboard over slipcast-d: a live stream
// of recent analyses with outcome counts.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/slipcast-io/slipcast/pkg/client"
)

// Config
const (
	pollRate       = time.Second
	maxAnalyses    = 20
	viewportHeight = 20
)

// Styles
var (
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			Width(100)

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Width(100)

	timeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(12)
	kindStyle = lipgloss.NewStyle().Width(20).Bold(true)
	metaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))

	failStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // Red
	degradedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")) // Orange
	passStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))  // Green
)

type tickMsg time.Time

type dataMsg struct {
	analyses []client.AnalysisRecord
	err      error
}

type model struct {
	api      *client.Client
	spinner  spinner.Model
	viewport viewport.Model
	analyses []client.AnalysisRecord
	err      error
	ready    bool
}

func initialModel(api *client.Client) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{
		api:      api,
		spinner:  s,
		analyses: []client.AnalysisRecord{},
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		fetchData(m.api),
		tick(),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tickMsg:
		cmds = append(cmds, fetchData(m.api), tick())

	case dataMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.analyses = msg.analyses
			m.updateViewportContent()
		}

		if !m.ready {
			m.ready = true
		}

	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, viewportHeight)
			m.viewport.Style = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				PaddingRight(2)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = viewportHeight
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *model) updateViewportContent() {
	var sb strings.Builder

	for _, a := range m.analyses {
		ts := a.TsStarted.Format("15:04:05")

		var kindStr string
		switch a.Outcome {
		case "error":
			kindStr = failStyle.Render(a.Kind)
		case "degraded":
			kindStr = degradedStyle.Render(a.Kind)
		default:
			kindStr = passStyle.Render(a.Kind)
		}

		// Format: [TIMESTAMP] [KIND] nodes/edges, duration
		line := fmt.Sprintf("%s %s %s\n",
			timeStyle.Render(ts),
			kindStyle.Render(kindStr),
			metaStyle.Render(fmt.Sprintf("%d nodes, %d edges, %dms", a.NodeCount, a.EdgeCount, a.DurationMs)),
		)
		sb.WriteString(line)
	}

	m.viewport.SetContent(sb.String())
}

func (m model) View() string {
	if !m.ready {
		return fmt.Sprintf("\n%s Initializing...", m.spinner.View())
	}

	// Top pane: outcome summary
	var ok, degraded, failed int
	for _, a := range m.analyses {
		switch a.Outcome {
		case "error":
			failed++
		case "degraded":
			degraded++
		default:
			ok++
		}
	}

	var summary strings.Builder
	summary.WriteString(lipgloss.NewStyle().Bold(true).Underline(true).Render("Recent Analyses") + "\n\n")
	if len(m.analyses) == 0 {
		summary.WriteString(subtleStyle.Render("No analyses recorded yet."))
	} else {
		summary.WriteString(fmt.Sprintf("%s  %s  %s\n",
			passStyle.Render(fmt.Sprintf("✓ %d ok", ok)),
			degradedStyle.Render(fmt.Sprintf("~ %d degraded", degraded)),
			failStyle.Render(fmt.Sprintf("✗ %d error", failed)),
		))
	}

	topPane := paneStyle.Render(summary.String())

	header := headerStyle.Render(fmt.Sprintf("%s Analysis Stream", m.spinner.View()))
	bottomPane := m.viewport.View()

	var status string
	if m.err != nil {
		status = errorStyle.Render(fmt.Sprintf("Offline: %v", m.err))
	} else {
		status = okStyle.Render(fmt.Sprintf("Online • %d Analyses", len(m.analyses)))
	}
	footer := subtleStyle.Render(fmt.Sprintf("\n%s\nPress q to quit", status))

	return lipgloss.JoinVertical(lipgloss.Left, topPane, header, bottomPane, footer)
}

// Commands

func fetchData(api *client.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		analyses, err := api.GetAnalyses(ctx, maxAnalyses)
		if err != nil {
			return dataMsg{err: err}
		}

		return dataMsg{analyses: analyses}
	}
}

func tick() tea.Cmd {
	return tea.Tick(pollRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func main() {
	endpoint := os.Getenv("SLIPCAST_URL")
	api := client.NewClient(endpoint)
	api.SetRetries(0)

	p := tea.NewProgram(initialModel(api), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
