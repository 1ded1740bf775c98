package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/horizon/internal/calculation"
	"github.com/rgehrsitz/horizon/internal/tui/components"
	"github.com/rgehrsitz/horizon/internal/tui/tuistyles"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return InfoStyle.Render(fmt.Sprintf("Running projection for %s...", m.configPath))
	}
	if m.err != nil {
		return ErrorStyle.Render("Error: "+m.err.Error()) + "\n\n" + InfoStyle.Render("Press q to quit")
	}

	var content string
	switch m.currentScene {
	case SceneOverview:
		content = m.renderOverview()
	case SceneMilestones:
		content = m.milestonesModel.View()
	case SceneTimeline:
		content = m.renderTimeline()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}
	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	contentHeight := m.height - 4
	if contentHeight < 1 {
		contentHeight = 1
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		lipgloss.NewStyle().Height(contentHeight).Render(content),
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	return TitleStyle.Render("Horizon") + "  " + SubtitleStyle.Render(m.currentScene.String())
}

func (m Model) renderStatusBar() string {
	keys := []string{"o overview", "m milestones", "t timeline", "r rerun", "? help", "q quit"}
	parts := make([]string, len(keys))
	for i, k := range keys {
		key, label, _ := strings.Cut(k, " ")
		parts[i] = StatusKeyStyle.Render(key) + " " + label
	}
	return StatusBarStyle.Width(m.width).Render(strings.Join(parts, "  "))
}

func (m Model) renderOverview() string {
	if m.result == nil || len(m.result.States) == 0 {
		return InfoStyle.Render("No projection loaded")
	}
	first, last := m.result.States[0], m.result.States[len(m.result.States)-1]
	change := last.NetWorth.Sub(first.NetWorth)
	peak, _ := m.result.PeakNetWorth()

	cards := components.MetricRow(
		components.NewMetricCard("Net worth", tuistyles.FormatCurrency(last.NetWorth)).
			WithTrend(!change.IsNegative(), tuistyles.FormatCurrency(change.Abs())),
		components.NewMetricCard("Peak net worth", tuistyles.FormatCurrency(peak)),
		components.NewMetricCard("Loans remaining", tuistyles.FormatCurrency(last.LoanBalance)),
		components.NewMetricCard("Milestones", fmt.Sprint(len(m.detection.Milestones))),
	)

	points := make([]float64, len(m.result.States))
	for i, s := range m.result.States {
		points[i] = s.NetWorth.InexactFloat64()
	}
	chart := components.NewLineChart("Net worth", points, max(m.width-2, 40), 12)
	for _, ms := range m.detection.Milestones {
		if idx := m.stateIndexAt(ms.Date.Unix()); idx >= 0 {
			chart.Mark(idx)
		}
	}

	var b strings.Builder
	b.WriteString(cards)
	b.WriteString("\n\n")
	b.WriteString(chart.Render())
	for _, e := range m.detection.Errors {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("%s: %s", e.Code, e.Message)))
	}
	for _, w := range m.detection.Warnings {
		b.WriteString("\n")
		b.WriteString(tuistyles.WarningStyle.Render("! " + w))
	}
	return b.String()
}

// stateIndexAt returns the last state on or before the unix time
func (m Model) stateIndexAt(unix int64) int {
	idx := -1
	for i, s := range m.result.States {
		if s.Date.Unix() > unix {
			break
		}
		idx = i
	}
	return idx
}

func (m Model) renderTimeline() string {
	if m.result == nil {
		return InfoStyle.Render("No projection loaded")
	}
	header := fmt.Sprintf("%-10s %14s %14s %14s %14s %14s", "Date", "Cash", "Investments", "Super", "Loans", "Net worth")
	var b strings.Builder
	b.WriteString(tuistyles.TableHeaderStyle.Render(header))
	b.WriteString("\n")
	step := 1
	if m.config != nil {
		step = calculation.PeriodsPerYear(m.config.BaseParameters.TimeInterval)
	}
	for i := 0; i < len(m.result.States); i += step {
		s := m.result.States[i]
		b.WriteString(fmt.Sprintf("%-10s %14s %14s %14s %14s %14s\n", s.Date.Format("2006-01-02"),
			money(s.Cash), money(s.Investments), money(s.Superannuation), money(s.LoanBalance), money(s.NetWorth)))
	}
	return b.String()
}

func (m Model) renderHelp() string {
	lines := []string{
		TitleStyle.Render("Keyboard shortcuts"),
		"",
		"o        overview",
		"m        milestones",
		"t        yearly timeline",
		"r        reload the configuration and rerun",
		"↑/↓ j/k  move through milestones",
		"enter    toggle milestone details",
		"esc      previous screen",
		"q        quit",
	}
	return strings.Join(lines, "\n")
}

func money(d decimal.Decimal) string {
	return tuistyles.FormatCurrency(d)
}
