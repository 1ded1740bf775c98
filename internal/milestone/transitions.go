package milestone

import (
	"strings"

	"github.com/rgehrsitz/horizon/internal/domain"
)

var categoryTitles = map[domain.ChangeCategory]string{
	domain.ChangePeople:     "Household change",
	domain.ChangeIncome:     "Income change",
	domain.ChangeRetirement: "Retirement plan change",
	domain.ChangeTax:        "Tax change",
	domain.ChangeExpense:    "Expense change",
	domain.ChangeLoan:       "Loan change",
	domain.ChangeInvestment: "Investment change",
}

// Categories returns the distinct categories of keys in first-seen order
func Categories(keys []domain.ParameterKey) []domain.ChangeCategory {
	seen := make(map[domain.ChangeCategory]bool)
	var out []domain.ChangeCategory
	for _, k := range keys {
		c := k.Category()
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// TransitionTitle names a change by the areas of the plan it touches
func TransitionTitle(keys []domain.ParameterKey) string {
	cats := Categories(keys)
	switch len(cats) {
	case 0:
		return "Plan change"
	case 1:
		return categoryTitles[cats[0]]
	}
	return "Multiple changes"
}

func (s *scan) detectTransitions() ([]domain.Milestone, []string) {
	byID := make(map[string]*domain.ParameterTransition, len(s.in.Transitions))
	for i := range s.in.Transitions {
		byID[s.in.Transitions[i].ID] = &s.in.Transitions[i]
	}

	var out []domain.Milestone
	var warnings []string
	for _, tp := range s.in.TransitionPoints {
		if tp.StateIndex <= 0 || tp.StateIndex >= len(s.in.States) {
			warnings = append(warnings, s.text.sprintf("transition %s points at state %d outside the series", tp.TransitionID, tp.StateIndex))
			continue
		}
		before := s.in.States[tp.StateIndex-1].NetWorth
		after := s.in.States[tp.StateIndex].NetWorth
		impact := after.Sub(before)

		desc := tp.Description
		if desc == "" {
			desc = s.describeChanges(byID[tp.TransitionID], tp.ChangedKeys)
		}

		out = append(out, domain.Milestone{
			ID:              milestoneID(domain.MilestoneParameterTransition, tp.TransitionID, tp.Date),
			Type:            domain.MilestoneParameterTransition,
			Date:            tp.Date,
			Title:           TransitionTitle(tp.ChangedKeys),
			Description:     desc,
			FinancialImpact: &impact,
			Category:        domain.CategoryPlanning,
			ParameterTransition: &domain.ParameterTransitionDetails{
				TransitionID:   tp.TransitionID,
				StateIndex:     tp.StateIndex,
				ChangedKeys:    tp.ChangedKeys,
				Categories:     Categories(tp.ChangedKeys),
				NetWorthBefore: before,
				NetWorthAfter:  after,
			},
		})
	}
	return out, warnings
}

// describeChanges writes one sentence per changed key. Without the
// transition itself only the key names are known.
func (s *scan) describeChanges(t *domain.ParameterTransition, keys []domain.ParameterKey) string {
	if t != nil {
		keys = t.Changes.ChangedKeys()
	}
	var parts []string
	for _, k := range keys {
		parts = append(parts, s.describeKey(t, k))
	}
	if len(parts) == 0 {
		return "Parameters change."
	}
	return strings.Join(parts, " ")
}

func (s *scan) describeKey(t *domain.ParameterTransition, k domain.ParameterKey) string {
	if t == nil {
		return s.text.sprintf("%s changes.", string(k))
	}
	c := &t.Changes
	switch k {
	case domain.KeyHouseholdMode:
		return s.text.sprintf("Planning switches to %s mode.", string(*c.HouseholdMode))
	case domain.KeyPeople:
		return s.text.sprintf("The household now has %d members.", len(c.People))
	case domain.KeyAnnualSalary:
		return s.text.sprintf("Salary becomes %s a year.", s.text.money(*c.AnnualSalary))
	case domain.KeyIncomeSources:
		return s.text.sprintf("Income is now drawn from %d sources.", len(c.IncomeSources))
	case domain.KeyRetirementAge:
		return s.text.sprintf("Target retirement age moves to %d.", *c.RetirementAge)
	case domain.KeyDesiredRetirementIncome:
		return s.text.sprintf("Desired retirement income becomes %s a year.", s.text.money(*c.DesiredRetirementIncome))
	case domain.KeyTaxBrackets:
		return s.text.sprintf("A new tax table with %d brackets applies.", len(c.TaxBrackets))
	case domain.KeyTaxRate:
		return s.text.sprintf("Flat tax rate becomes %s%%.", c.TaxRate.String())
	case domain.KeyExpenseItems:
		return s.text.sprintf("The budget now lists %d expenses.", len(c.ExpenseItems))
	case domain.KeyMonthlyLivingExpenses:
		return s.text.sprintf("Living expenses become %s a month.", s.text.money(*c.MonthlyLivingExpenses))
	case domain.KeyMonthlyRentOrMortgage:
		return s.text.sprintf("Rent or mortgage becomes %s a month.", s.text.money(*c.MonthlyRentOrMortgage))
	case domain.KeyLoans:
		return s.text.sprintf("The plan now carries %d loans.", len(c.Loans))
	case domain.KeyLoanInterestRate:
		return s.text.sprintf("Loan interest rate becomes %s%%.", c.LoanInterestRate.String())
	case domain.KeyLoanPayment:
		return s.text.sprintf("Loan repayments become %s.", s.text.money(*c.LoanPayment))
	case domain.KeyUseOffset:
		if *c.UseOffset {
			return "The offset account is switched on."
		}
		return "The offset account is switched off."
	case domain.KeyMonthlyInvestmentContribution:
		return s.text.sprintf("Investment contributions become %s a month.", s.text.money(*c.MonthlyInvestmentContribution))
	case domain.KeyInvestmentReturnRate:
		return s.text.sprintf("Expected investment return becomes %s%%.", c.InvestmentReturnRate.String())
	case domain.KeySuperContributionRate:
		return s.text.sprintf("Super contributions become %s%% of salary.", c.SuperContributionRate.String())
	case domain.KeySuperReturnRate:
		return s.text.sprintf("Expected super return becomes %s%%.", c.SuperReturnRate.String())
	}
	return s.text.sprintf("%s changes.", string(k))
}
