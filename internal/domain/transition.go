package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParameterKey names a field of UserParameters that a transition can change
type ParameterKey string

const (
	KeyHouseholdMode                 ParameterKey = "householdMode"
	KeyPeople                        ParameterKey = "people"
	KeyAnnualSalary                  ParameterKey = "annualSalary"
	KeyIncomeSources                 ParameterKey = "incomeSources"
	KeyRetirementAge                 ParameterKey = "retirementAge"
	KeyDesiredRetirementIncome       ParameterKey = "desiredRetirementIncome"
	KeyTaxBrackets                   ParameterKey = "taxBrackets"
	KeyTaxRate                       ParameterKey = "taxRate"
	KeyExpenseItems                  ParameterKey = "expenseItems"
	KeyMonthlyLivingExpenses         ParameterKey = "monthlyLivingExpenses"
	KeyMonthlyRentOrMortgage         ParameterKey = "monthlyRentOrMortgage"
	KeyLoans                         ParameterKey = "loans"
	KeyLoanInterestRate              ParameterKey = "loanInterestRate"
	KeyLoanPayment                   ParameterKey = "loanPayment"
	KeyUseOffset                     ParameterKey = "useOffset"
	KeyMonthlyInvestmentContribution ParameterKey = "monthlyInvestmentContribution"
	KeyInvestmentReturnRate          ParameterKey = "investmentReturnRate"
	KeySuperContributionRate         ParameterKey = "superContributionRate"
	KeySuperReturnRate               ParameterKey = "superReturnRate"
)

// ChangeCategory groups parameter keys for milestone wording
type ChangeCategory string

const (
	ChangePeople     ChangeCategory = "people"
	ChangeIncome     ChangeCategory = "income"
	ChangeRetirement ChangeCategory = "retirement"
	ChangeTax        ChangeCategory = "tax"
	ChangeExpense    ChangeCategory = "expense"
	ChangeLoan       ChangeCategory = "loan"
	ChangeInvestment ChangeCategory = "investment"
)

// Category maps a key to the area of the plan it affects
func (k ParameterKey) Category() ChangeCategory {
	switch k {
	case KeyHouseholdMode, KeyPeople:
		return ChangePeople
	case KeyAnnualSalary, KeyIncomeSources:
		return ChangeIncome
	case KeyRetirementAge, KeyDesiredRetirementIncome:
		return ChangeRetirement
	case KeyTaxBrackets, KeyTaxRate:
		return ChangeTax
	case KeyExpenseItems, KeyMonthlyLivingExpenses, KeyMonthlyRentOrMortgage:
		return ChangeExpense
	case KeyLoans, KeyLoanInterestRate, KeyLoanPayment, KeyUseOffset:
		return ChangeLoan
	default:
		return ChangeInvestment
	}
}

// ParameterChanges is a partial override of UserParameters. Nil pointers and
// nil slices leave the corresponding field untouched; an empty non-nil slice
// clears it.
type ParameterChanges struct {
	HouseholdMode                 *HouseholdMode   `yaml:"household_mode,omitempty" json:"householdMode,omitempty"`
	People                        []Person         `yaml:"people,omitempty" json:"people,omitempty"`
	AnnualSalary                  *decimal.Decimal `yaml:"annual_salary,omitempty" json:"annualSalary,omitempty"`
	IncomeSources                 []IncomeSource   `yaml:"income_sources,omitempty" json:"incomeSources,omitempty"`
	RetirementAge                 *int             `yaml:"retirement_age,omitempty" json:"retirementAge,omitempty"`
	DesiredRetirementIncome       *decimal.Decimal `yaml:"desired_retirement_income,omitempty" json:"desiredRetirementIncome,omitempty"`
	TaxBrackets                   []TaxBracket     `yaml:"tax_brackets,omitempty" json:"taxBrackets,omitempty"`
	TaxRate                       *decimal.Decimal `yaml:"tax_rate,omitempty" json:"taxRate,omitempty"`
	ExpenseItems                  []ExpenseItem    `yaml:"expense_items,omitempty" json:"expenseItems,omitempty"`
	MonthlyLivingExpenses         *decimal.Decimal `yaml:"monthly_living_expenses,omitempty" json:"monthlyLivingExpenses,omitempty"`
	MonthlyRentOrMortgage         *decimal.Decimal `yaml:"monthly_rent_or_mortgage,omitempty" json:"monthlyRentOrMortgage,omitempty"`
	Loans                         []Loan           `yaml:"loans,omitempty" json:"loans,omitempty"`
	LoanInterestRate              *decimal.Decimal `yaml:"loan_interest_rate,omitempty" json:"loanInterestRate,omitempty"`
	LoanPayment                   *decimal.Decimal `yaml:"loan_payment,omitempty" json:"loanPayment,omitempty"`
	UseOffset                     *bool            `yaml:"use_offset,omitempty" json:"useOffset,omitempty"`
	MonthlyInvestmentContribution *decimal.Decimal `yaml:"monthly_investment_contribution,omitempty" json:"monthlyInvestmentContribution,omitempty"`
	InvestmentReturnRate          *decimal.Decimal `yaml:"investment_return_rate,omitempty" json:"investmentReturnRate,omitempty"`
	SuperContributionRate         *decimal.Decimal `yaml:"super_contribution_rate,omitempty" json:"superContributionRate,omitempty"`
	SuperReturnRate               *decimal.Decimal `yaml:"super_return_rate,omitempty" json:"superReturnRate,omitempty"`
}

// ChangedKeys lists the keys set on the change, in declaration order
func (c *ParameterChanges) ChangedKeys() []ParameterKey {
	var keys []ParameterKey
	add := func(set bool, k ParameterKey) {
		if set {
			keys = append(keys, k)
		}
	}
	add(c.HouseholdMode != nil, KeyHouseholdMode)
	add(c.People != nil, KeyPeople)
	add(c.AnnualSalary != nil, KeyAnnualSalary)
	add(c.IncomeSources != nil, KeyIncomeSources)
	add(c.RetirementAge != nil, KeyRetirementAge)
	add(c.DesiredRetirementIncome != nil, KeyDesiredRetirementIncome)
	add(c.TaxBrackets != nil, KeyTaxBrackets)
	add(c.TaxRate != nil, KeyTaxRate)
	add(c.ExpenseItems != nil, KeyExpenseItems)
	add(c.MonthlyLivingExpenses != nil, KeyMonthlyLivingExpenses)
	add(c.MonthlyRentOrMortgage != nil, KeyMonthlyRentOrMortgage)
	add(c.Loans != nil, KeyLoans)
	add(c.LoanInterestRate != nil, KeyLoanInterestRate)
	add(c.LoanPayment != nil, KeyLoanPayment)
	add(c.UseOffset != nil, KeyUseOffset)
	add(c.MonthlyInvestmentContribution != nil, KeyMonthlyInvestmentContribution)
	add(c.InvestmentReturnRate != nil, KeyInvestmentReturnRate)
	add(c.SuperContributionRate != nil, KeySuperContributionRate)
	add(c.SuperReturnRate != nil, KeySuperReturnRate)
	return keys
}

// Apply returns a copy of base with the change applied. base is not modified.
func (c *ParameterChanges) Apply(base UserParameters) UserParameters {
	out := base.Clone()
	if c.HouseholdMode != nil {
		out.HouseholdMode = *c.HouseholdMode
	}
	if c.People != nil {
		out.People = UserParameters{People: c.People}.Clone().People
	}
	if c.AnnualSalary != nil {
		out.AnnualSalary = *c.AnnualSalary
	}
	if c.IncomeSources != nil {
		out.IncomeSources = cloneSlice(c.IncomeSources)
	}
	if c.RetirementAge != nil {
		out.RetirementAge = *c.RetirementAge
	}
	if c.DesiredRetirementIncome != nil {
		out.DesiredRetirementIncome = *c.DesiredRetirementIncome
	}
	if c.TaxBrackets != nil {
		out.TaxBrackets = cloneSlice(c.TaxBrackets)
	}
	if c.TaxRate != nil {
		out.TaxRate = *c.TaxRate
	}
	if c.ExpenseItems != nil {
		out.ExpenseItems = cloneSlice(c.ExpenseItems)
	}
	if c.MonthlyLivingExpenses != nil {
		out.MonthlyLivingExpenses = *c.MonthlyLivingExpenses
	}
	if c.MonthlyRentOrMortgage != nil {
		out.MonthlyRentOrMortgage = *c.MonthlyRentOrMortgage
	}
	if c.Loans != nil {
		out.Loans = cloneSlice(c.Loans)
	}
	if c.LoanInterestRate != nil {
		out.LoanInterestRate = *c.LoanInterestRate
	}
	if c.LoanPayment != nil {
		out.LoanPayment = *c.LoanPayment
	}
	if c.UseOffset != nil {
		out.UseOffset = *c.UseOffset
	}
	if c.MonthlyInvestmentContribution != nil {
		out.MonthlyInvestmentContribution = *c.MonthlyInvestmentContribution
	}
	if c.InvestmentReturnRate != nil {
		out.InvestmentReturnRate = *c.InvestmentReturnRate
	}
	if c.SuperContributionRate != nil {
		out.SuperContributionRate = *c.SuperContributionRate
	}
	if c.SuperReturnRate != nil {
		out.SuperReturnRate = *c.SuperReturnRate
	}
	return out
}

// ParameterTransition is a dated partial override of the base parameters
type ParameterTransition struct {
	ID          string           `yaml:"id" json:"id"`
	Date        time.Time        `yaml:"date" json:"date"`
	Description string           `yaml:"description,omitempty" json:"description,omitempty"`
	Changes     ParameterChanges `yaml:"changes" json:"changes"`
}

// ParameterPeriod is a span [Start, End) during which parameters are constant
type ParameterPeriod struct {
	Start      time.Time      `json:"start"`
	End        time.Time      `json:"end"`
	Parameters UserParameters `json:"parameters"`
	// Transitions that open this period, empty for the first one
	Transitions []ParameterTransition `json:"transitions,omitempty"`
}

// TransitionPoint records where a transition took effect in a state series.
// StateIndex is the first state computed under the new parameters.
type TransitionPoint struct {
	TransitionID string         `json:"transitionId"`
	Date         time.Time      `json:"date"`
	StateIndex   int            `json:"stateIndex"`
	ChangedKeys  []ParameterKey `json:"changedKeys"`
	Description  string         `json:"description,omitempty"`
}
