package milestone

import (
	"fmt"
	"time"

	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/shopspring/decimal"
)

const maxHorizonYears = 50

var (
	maxImpact = decimal.New(1, 12)
	minImpact = maxImpact.Neg()
)

var defaultTitles = map[domain.MilestoneType]string{
	domain.MilestoneLoanPayoff:            "Loan paid off",
	domain.MilestoneOffsetCompletion:      "Loan fully offset",
	domain.MilestoneRetirementEligibility: "Retirement income reachable",
	domain.MilestoneParameterTransition:   "Plan change",
	domain.MilestoneExpenseExpiration:     "Expense ends",
}

// Sanitize returns copies of the milestones made safe for display, plus a
// warning for every field it had to touch. Dates far beyond the first state
// are reported but left alone.
func Sanitize(ms []domain.Milestone, first time.Time) ([]domain.Milestone, []string) {
	var warnings []string
	limit := first.AddDate(maxHorizonYears, 0, 0)
	out := make([]domain.Milestone, 0, len(ms))

	for _, m := range ms {
		if m.Date.After(limit) {
			warnings = append(warnings, fmt.Sprintf("milestone %q is dated %s, more than %d years after the start",
				m.Title, m.Date.Format("2006-01-02"), maxHorizonYears))
		}
		if m.Title == "" {
			m.Title = defaultTitles[m.Type]
			warnings = append(warnings, fmt.Sprintf("milestone %s had no title; using %q", m.ID, m.Title))
		}
		if m.FinancialImpact != nil {
			impact := *m.FinancialImpact
			switch {
			case impact.GreaterThan(maxImpact):
				impact = maxImpact
			case impact.LessThan(minImpact):
				impact = minImpact
			}
			if !impact.Equal(*m.FinancialImpact) {
				warnings = append(warnings, fmt.Sprintf("milestone %q impact %s clamped to %s", m.Title, m.FinancialImpact.String(), impact.String()))
			}
			m.FinancialImpact = &impact
		}
		if m.LoanPayoff != nil && m.LoanPayoff.MonthsToPayoff < 0 {
			details := *m.LoanPayoff
			warnings = append(warnings, fmt.Sprintf("milestone %q had a negative month count (%d)", m.Title, details.MonthsToPayoff))
			details.MonthsToPayoff = 0
			m.LoanPayoff = &details
		}
		out = append(out, m)
	}
	return out, warnings
}
