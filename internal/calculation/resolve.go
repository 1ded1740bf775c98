package calculation

import (
	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// LegacyLoanID keys the single legacy loan in the per-loan state maps
	LegacyLoanID = "primary-loan"
	// LegacySuperID keys the single-mode super account
	LegacySuperID = "primary-super"
	// SingleEarnerID keys the single-mode earner
	SingleEarnerID = "self"
)

// Earner is one taxpayer: a household member, or the single-mode user
type Earner struct {
	ID            string
	Name          string
	CurrentAge    int
	RetirementAge int
	IncomeSources []domain.IncomeSource
	SuperAccounts []domain.SuperAccount
}

// ResolvedParameters is UserParameters with every modern/legacy choice made
// once. Processors work on this shape and never look at legacy fields.
type ResolvedParameters struct {
	Mode     domain.HouseholdMode
	Earners  []Earner
	Brackets []domain.TaxBracket
	FlatRate decimal.Decimal

	ExpenseItems     []domain.ExpenseItem
	UseExpenseItems  bool
	LegacyMonthlyOut decimal.Decimal

	Loans []domain.Loan

	MonthlyInvestmentContribution decimal.Decimal
	InvestmentReturnRate          decimal.Decimal

	DesiredRetirementIncome decimal.Decimal
	CurrentAge              int
	RetirementAge           int

	Interval domain.TimeInterval
}

// Resolve normalizes a parameter snapshot
func Resolve(p domain.UserParameters) ResolvedParameters {
	r := ResolvedParameters{
		Mode:                          domain.ModeSingle,
		Brackets:                      p.TaxBrackets,
		FlatRate:                      p.TaxRate,
		MonthlyInvestmentContribution: p.MonthlyInvestmentContribution,
		InvestmentReturnRate:          p.InvestmentReturnRate,
		DesiredRetirementIncome:       p.DesiredRetirementIncome,
		CurrentAge:                    p.CurrentAge,
		RetirementAge:                 p.RetirementAge,
		Interval:                      p.TimeInterval,
	}
	if !r.Interval.Valid() {
		r.Interval = domain.IntervalMonth
	}

	if p.IsHousehold() {
		r.Mode = domain.ModeHousehold
		for _, person := range p.People {
			r.Earners = append(r.Earners, Earner{
				ID:            person.ID,
				Name:          person.Name,
				CurrentAge:    person.CurrentAge,
				RetirementAge: person.RetirementAge,
				IncomeSources: person.IncomeSources,
				SuperAccounts: person.SuperAccounts,
			})
		}
	} else {
		r.Earners = []Earner{singleEarner(p)}
	}

	if len(p.ExpenseItems) > 0 {
		r.UseExpenseItems = true
		r.ExpenseItems = p.ExpenseItems
	} else {
		r.LegacyMonthlyOut = p.MonthlyLivingExpenses.Add(p.MonthlyRentOrMortgage)
	}

	if len(p.Loans) > 0 {
		r.Loans = p.Loans
	} else if p.LoanPrincipal.GreaterThan(decimal.Zero) {
		freq := p.LoanPaymentFrequency
		if !freq.Valid() {
			freq = domain.FrequencyMonthly
		}
		r.Loans = []domain.Loan{{
			ID:               LegacyLoanID,
			Label:            "Loan",
			Principal:        p.LoanPrincipal,
			InterestRate:     p.LoanInterestRate,
			PaymentAmount:    p.LoanPayment,
			PaymentFrequency: freq,
			HasOffset:        p.UseOffset,
			OffsetBalance:    p.OffsetBalance,
		}}
	}
	return r
}

func singleEarner(p domain.UserParameters) Earner {
	e := Earner{
		ID:            SingleEarnerID,
		Name:          "You",
		CurrentAge:    p.CurrentAge,
		RetirementAge: p.RetirementAge,
	}
	if len(p.IncomeSources) > 0 {
		e.IncomeSources = p.IncomeSources
	} else if !p.AnnualSalary.IsZero() {
		e.IncomeSources = []domain.IncomeSource{{
			ID:          "salary",
			Name:        "Salary",
			Amount:      p.AnnualSalary,
			Frequency:   domain.FrequencyYearly,
			Enabled:     true,
			IsBeforeTax: true,
		}}
	}
	if !p.SuperBalance.IsZero() || !p.SuperContributionRate.IsZero() {
		e.SuperAccounts = []domain.SuperAccount{{
			ID:               LegacySuperID,
			Label:            "Superannuation",
			Balance:          p.SuperBalance,
			ContributionRate: p.SuperContributionRate,
			ReturnRate:       p.SuperReturnRate,
		}}
	}
	return e
}

// SuperAccounts lists every super account across earners
func (r *ResolvedParameters) SuperAccounts() []domain.SuperAccount {
	var out []domain.SuperAccount
	for _, e := range r.Earners {
		out = append(out, e.SuperAccounts...)
	}
	return out
}
