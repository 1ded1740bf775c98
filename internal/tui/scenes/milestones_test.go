package scenes

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/horizon/internal/domain"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sample() []domain.Milestone {
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	interest := decimal.NewFromInt(812)
	return []domain.Milestone{
		{ID: "loan", Title: "Car loan paid off", Date: date, Category: domain.CategoryDebt, Type: domain.MilestoneLoanPayoff,
			FinancialImpact: &interest,
			LoanPayoff: &domain.LoanPayoffDetails{LoanLabel: "Car loan", MonthsToPayoff: 14,
				TotalInterestPaid: interest, InterestEstimated: true}},
		{ID: "expense", Title: "Childcare ends", Date: date.AddDate(0, 4, 0), Category: domain.CategoryExpense,
			Type:              domain.MilestoneExpenseExpiration,
			ExpenseExpiration: &domain.ExpenseExpirationDetails{ExpenseName: "Childcare", AnnualSavings: decimal.NewFromInt(18000)}},
		{ID: "retire", Title: "Retirement possible", Date: date.AddDate(5, 0, 0), Category: domain.CategoryRetirement,
			Type:                  domain.MilestoneRetirementEligibility,
			RetirementEligibility: &domain.RetirementEligibilityDetails{Age: 60, PersonName: "Alex"}},
	}
}

func press(m *MilestonesModel, keys ...string) *MilestonesModel {
	for _, k := range keys {
		m, _ = m.Update(keyMsg(k))
	}
	return m
}

func TestMilestonesModel_Navigation(t *testing.T) {
	m := NewMilestonesModel()
	m.SetMilestones(sample())
	require.Equal(t, "loan", m.Selected().ID)

	tests := []struct {
		keys []string
		want string
	}{
		{[]string{"down"}, "expense"},
		{[]string{"j", "j", "j"}, "retire"},
		{[]string{"up"}, "loan"},
		{[]string{"G"}, "retire"},
		{[]string{"G", "k"}, "expense"},
		{[]string{"G", "g"}, "loan"},
	}
	for _, tt := range tests {
		m := NewMilestonesModel()
		m.SetMilestones(sample())
		m = press(m, tt.keys...)
		assert.Equal(t, tt.want, m.Selected().ID, "%v", tt.keys)
	}
}

func TestMilestonesModel_Detail(t *testing.T) {
	m := NewMilestonesModel()
	m.SetMilestones(sample())

	assert.NotContains(t, m.View(), "Months to payoff")
	m = press(m, "enter")
	view := m.View()
	assert.Contains(t, view, "Months to payoff: 14")
	assert.Contains(t, view, "Interest is an estimate")

	m = press(m, "G")
	assert.Contains(t, m.View(), "Person: Alex")

	m = press(m, "enter")
	assert.NotContains(t, m.View(), "Person: Alex")
}

func TestMilestonesModel_SetMilestonesResets(t *testing.T) {
	m := NewMilestonesModel()
	m.SetMilestones(sample())
	m = press(m, "G", "enter")

	m.SetMilestones(sample()[:1])
	assert.Equal(t, "loan", m.Selected().ID)
	assert.False(t, m.showDetail)
}

func TestMilestonesModel_Empty(t *testing.T) {
	m := NewMilestonesModel()
	assert.Nil(t, m.Selected())
	m = press(m, "G", "down")
	assert.Nil(t, m.Selected())
	assert.Contains(t, m.View(), "No milestones found")
}
