package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/rgehrsitz/horizon/internal/tui/tuistyles"
)

// MilestonesModel is the milestone list with a detail pane
type MilestonesModel struct {
	milestones    []domain.Milestone
	selectedIndex int
	showDetail    bool
	width         int
	height        int
}

// NewMilestonesModel creates an empty milestones scene
func NewMilestonesModel() *MilestonesModel {
	return &MilestonesModel{}
}

// SetMilestones replaces the list and resets the selection when out of range
func (m *MilestonesModel) SetMilestones(ms []domain.Milestone) {
	m.milestones = ms
	if m.selectedIndex >= len(ms) {
		m.selectedIndex = 0
	}
	m.showDetail = false
}

// SetSize updates the scene dimensions
func (m *MilestonesModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Selected returns the highlighted milestone, or nil when the list is empty
func (m *MilestonesModel) Selected() *domain.Milestone {
	if m.selectedIndex >= 0 && m.selectedIndex < len(m.milestones) {
		return &m.milestones[m.selectedIndex]
	}
	return nil
}

// Update handles messages for the milestones scene
func (m *MilestonesModel) Update(msg tea.Msg) (*MilestonesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m *MilestonesModel) handleKeyPress(msg tea.KeyMsg) (*MilestonesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.selectedIndex < len(m.milestones)-1 {
			m.selectedIndex++
		}
	case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
		m.showDetail = !m.showDetail
	case key.Matches(msg, key.NewBinding(key.WithKeys("g"))):
		m.selectedIndex = 0
	case key.Matches(msg, key.NewBinding(key.WithKeys("G"))):
		m.selectedIndex = max(len(m.milestones)-1, 0)
	}
	return m, nil
}

// View renders the scene
func (m *MilestonesModel) View() string {
	var b strings.Builder
	b.WriteString(tuistyles.TitleStyle.Render("Milestones"))
	b.WriteString("\n\n")

	if len(m.milestones) == 0 {
		b.WriteString(tuistyles.InfoStyle.Render("No milestones found in this projection."))
		return b.String()
	}

	for i, ms := range m.milestones {
		line := fmt.Sprintf("%s  %-10s  %s", ms.Date.Format("2006-01-02"),
			tuistyles.CategoryStyle(ms.Category).Render(string(ms.Category)), ms.Title)
		if ms.FinancialImpact != nil {
			line += "  " + tuistyles.MetricTrendStyle(!ms.FinancialImpact.IsNegative()).
				Render(tuistyles.FormatCurrency(*ms.FinancialImpact))
		}
		if i == m.selectedIndex {
			b.WriteString(tuistyles.SelectedItemStyle.Render("▶ " + line))
		} else {
			b.WriteString(tuistyles.UnselectedItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if sel := m.Selected(); m.showDetail && sel != nil {
		b.WriteString("\n")
		b.WriteString(tuistyles.BorderStyle.Render(detail(sel)))
	}
	b.WriteString("\n")
	b.WriteString(tuistyles.InfoStyle.Render("↑/↓ select • enter details • g/G top/bottom"))
	return b.String()
}

func detail(ms *domain.Milestone) string {
	lines := []string{
		tuistyles.SubtitleStyle.Render(ms.Title),
		ms.Description,
		"",
		field("Type", string(ms.Type)),
		field("Date", ms.Date.Format("2 Jan 2006")),
	}
	switch {
	case ms.LoanPayoff != nil:
		d := ms.LoanPayoff
		lines = append(lines,
			field("Loan", d.LoanLabel),
			field("Months to payoff", fmt.Sprint(d.MonthsToPayoff)),
			field("Final payment", tuistyles.FormatCurrency(d.FinalPayment)),
			field("Interest paid", tuistyles.FormatCurrency(d.TotalInterestPaid)))
		if d.InterestEstimated {
			lines = append(lines, tuistyles.WarningStyle.Render("Interest is an estimate"))
		}
	case ms.OffsetCompletion != nil:
		d := ms.OffsetCompletion
		lines = append(lines,
			field("Loan", d.LoanLabel),
			field("Loan balance", tuistyles.FormatCurrency(d.LoanBalance)),
			field("Offset balance", tuistyles.FormatCurrency(d.OffsetBalance)))
	case ms.RetirementEligibility != nil:
		d := ms.RetirementEligibility
		if d.PersonName != "" {
			lines = append(lines, field("Person", d.PersonName))
		}
		lines = append(lines,
			field("Age", fmt.Sprint(d.Age)),
			field("Safe withdrawal", tuistyles.FormatCurrency(d.SafeWithdrawal)),
			field("Desired income", tuistyles.FormatCurrency(d.DesiredIncome)))
	case ms.ParameterTransition != nil:
		d := ms.ParameterTransition
		keys := make([]string, len(d.ChangedKeys))
		for i, k := range d.ChangedKeys {
			keys[i] = string(k)
		}
		lines = append(lines,
			field("Changed", strings.Join(keys, ", ")),
			field("Net worth before", tuistyles.FormatCurrency(d.NetWorthBefore)),
			field("Net worth after", tuistyles.FormatCurrency(d.NetWorthAfter)))
	case ms.ExpenseExpiration != nil:
		d := ms.ExpenseExpiration
		lines = append(lines,
			field("Expense", d.ExpenseName),
			field("Annual savings", tuistyles.FormatCurrency(d.AnnualSavings)))
	}
	return strings.Join(lines, "\n")
}

func field(label, value string) string {
	return tuistyles.MetricLabelStyle.Render(label+": ") + value
}
