package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// HouseholdMode selects which income/retirement fields are authoritative
type HouseholdMode string

const (
	ModeSingle    HouseholdMode = "single"
	ModeHousehold HouseholdMode = "household"
)

// TaxBracket is one band of a progressive tax table. A nil Max marks the
// unbounded top bracket. Rate is a percentage.
type TaxBracket struct {
	Min  decimal.Decimal  `yaml:"min" json:"min"`
	Max  *decimal.Decimal `yaml:"max" json:"max"`
	Rate decimal.Decimal  `yaml:"rate" json:"rate"`
}

// DefaultAUTaxBrackets returns the Australian resident brackets used when a
// configuration asks for the defaults
func DefaultAUTaxBrackets() []TaxBracket {
	bound := func(v int64) *decimal.Decimal {
		d := decimal.NewFromInt(v)
		return &d
	}
	return []TaxBracket{
		{Min: decimal.Zero, Max: bound(18200), Rate: decimal.Zero},
		{Min: decimal.NewFromInt(18200), Max: bound(45000), Rate: decimal.NewFromInt(19)},
		{Min: decimal.NewFromInt(45000), Max: bound(120000), Rate: decimal.NewFromFloat(32.5)},
		{Min: decimal.NewFromInt(120000), Max: bound(180000), Rate: decimal.NewFromInt(37)},
		{Min: decimal.NewFromInt(180000), Max: nil, Rate: decimal.NewFromInt(45)},
	}
}

// IncomeSource is a single stream of income. The window is [StartDate, EndDate).
type IncomeSource struct {
	ID          string           `yaml:"id" json:"id"`
	Name        string           `yaml:"name" json:"name"`
	Amount      decimal.Decimal  `yaml:"amount" json:"amount"`
	Frequency   PaymentFrequency `yaml:"frequency" json:"frequency"`
	Enabled     bool             `yaml:"enabled" json:"enabled"`
	IsBeforeTax bool             `yaml:"is_before_tax" json:"isBeforeTax"`
	StartDate   *time.Time       `yaml:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate     *time.Time       `yaml:"end_date,omitempty" json:"endDate,omitempty"`
	IsOneOff    bool             `yaml:"is_one_off,omitempty" json:"isOneOff,omitempty"`
	OneOffDate  *time.Time       `yaml:"one_off_date,omitempty" json:"oneOffDate,omitempty"`
}

// ExpenseItem is a single household expense. The window is [StartDate, EndDate).
type ExpenseItem struct {
	ID         string           `yaml:"id" json:"id"`
	Name       string           `yaml:"name" json:"name"`
	Category   string           `yaml:"category,omitempty" json:"category,omitempty"`
	Amount     decimal.Decimal  `yaml:"amount" json:"amount"`
	Frequency  PaymentFrequency `yaml:"frequency" json:"frequency"`
	Enabled    bool             `yaml:"enabled" json:"enabled"`
	StartDate  *time.Time       `yaml:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate    *time.Time       `yaml:"end_date,omitempty" json:"endDate,omitempty"`
	IsOneOff   bool             `yaml:"is_one_off,omitempty" json:"isOneOff,omitempty"`
	OneOffDate *time.Time       `yaml:"one_off_date,omitempty" json:"oneOffDate,omitempty"`
}

// Loan is an amortizing debt with an optional offset account
type Loan struct {
	ID               string           `yaml:"id" json:"id"`
	Label            string           `yaml:"label" json:"label"`
	Principal        decimal.Decimal  `yaml:"principal" json:"principal"`
	InterestRate     decimal.Decimal  `yaml:"interest_rate" json:"interestRate"` // annual percentage
	PaymentAmount    decimal.Decimal  `yaml:"payment_amount" json:"paymentAmount"`
	PaymentFrequency PaymentFrequency `yaml:"payment_frequency" json:"paymentFrequency"`
	HasOffset        bool             `yaml:"has_offset,omitempty" json:"hasOffset,omitempty"`
	OffsetBalance    decimal.Decimal  `yaml:"offset_balance,omitempty" json:"offsetBalance"`
	IsDebtRecycling  bool             `yaml:"is_debt_recycling,omitempty" json:"isDebtRecycling,omitempty"`
}

// SuperAccount is a preserved retirement account
type SuperAccount struct {
	ID               string          `yaml:"id" json:"id"`
	Label            string          `yaml:"label" json:"label"`
	Balance          decimal.Decimal `yaml:"balance" json:"balance"`
	ContributionRate decimal.Decimal `yaml:"contribution_rate" json:"contributionRate"` // % of gross income
	ReturnRate       decimal.Decimal `yaml:"return_rate" json:"returnRate"`             // annual percentage
}

// Person is a household member in household mode
type Person struct {
	ID            string         `yaml:"id" json:"id"`
	Name          string         `yaml:"name" json:"name"`
	CurrentAge    int            `yaml:"current_age" json:"currentAge"`
	RetirementAge int            `yaml:"retirement_age" json:"retirementAge"`
	IncomeSources []IncomeSource `yaml:"income_sources" json:"incomeSources"`
	SuperAccounts []SuperAccount `yaml:"super_accounts" json:"superAccounts"`
}

// UserParameters is a full configuration snapshot. Each modern field has a
// legacy fallback; the modern field wins whenever it is non-empty.
type UserParameters struct {
	HouseholdMode HouseholdMode `yaml:"household_mode" json:"householdMode"`
	People        []Person      `yaml:"people,omitempty" json:"people,omitempty"`

	// Single-person fields
	AnnualSalary  decimal.Decimal `yaml:"annual_salary" json:"annualSalary"`
	IncomeSources []IncomeSource  `yaml:"income_sources,omitempty" json:"incomeSources,omitempty"`
	CurrentAge    int             `yaml:"current_age" json:"currentAge"`
	RetirementAge int             `yaml:"retirement_age" json:"retirementAge"`

	// Tax: brackets when present, otherwise a flat percentage
	TaxBrackets []TaxBracket    `yaml:"tax_brackets,omitempty" json:"taxBrackets,omitempty"`
	TaxRate     decimal.Decimal `yaml:"tax_rate" json:"taxRate"`

	// Expenses
	ExpenseItems          []ExpenseItem   `yaml:"expense_items,omitempty" json:"expenseItems,omitempty"`
	MonthlyLivingExpenses decimal.Decimal `yaml:"monthly_living_expenses" json:"monthlyLivingExpenses"`
	MonthlyRentOrMortgage decimal.Decimal `yaml:"monthly_rent_or_mortgage" json:"monthlyRentOrMortgage"`

	// Loans
	Loans                []Loan           `yaml:"loans,omitempty" json:"loans,omitempty"`
	LoanPrincipal        decimal.Decimal  `yaml:"loan_principal" json:"loanPrincipal"`
	LoanInterestRate     decimal.Decimal  `yaml:"loan_interest_rate" json:"loanInterestRate"`
	LoanPayment          decimal.Decimal  `yaml:"loan_payment" json:"loanPayment"`
	LoanPaymentFrequency PaymentFrequency `yaml:"loan_payment_frequency" json:"loanPaymentFrequency"`
	UseOffset            bool             `yaml:"use_offset" json:"useOffset"`
	OffsetBalance        decimal.Decimal  `yaml:"offset_balance" json:"offsetBalance"`

	// Investments
	InitialCash                   decimal.Decimal `yaml:"initial_cash" json:"initialCash"`
	InitialInvestments            decimal.Decimal `yaml:"initial_investments" json:"initialInvestments"`
	MonthlyInvestmentContribution decimal.Decimal `yaml:"monthly_investment_contribution" json:"monthlyInvestmentContribution"`
	InvestmentReturnRate          decimal.Decimal `yaml:"investment_return_rate" json:"investmentReturnRate"` // annual percentage

	// Legacy superannuation
	SuperBalance          decimal.Decimal `yaml:"super_balance" json:"superBalance"`
	SuperContributionRate decimal.Decimal `yaml:"super_contribution_rate" json:"superContributionRate"`
	SuperReturnRate       decimal.Decimal `yaml:"super_return_rate" json:"superReturnRate"`

	// Retirement target
	DesiredRetirementIncome decimal.Decimal `yaml:"desired_retirement_income" json:"desiredRetirementIncome"`

	// Simulation horizon
	SimulationYears int          `yaml:"simulation_years" json:"simulationYears"`
	StartDate       time.Time    `yaml:"start_date" json:"startDate"`
	TimeInterval    TimeInterval `yaml:"time_interval" json:"timeInterval"`
}

// IsHousehold reports whether the people list is authoritative
func (p *UserParameters) IsHousehold() bool {
	return p.HouseholdMode == ModeHousehold && len(p.People) > 0
}

// EndDate returns the exclusive end of the simulation horizon
func (p *UserParameters) EndDate() time.Time {
	return IntervalYear.Step(p.StartDate, p.SimulationYears)
}

// Clone returns a copy that shares no slices with the receiver
func (p UserParameters) Clone() UserParameters {
	out := p
	if p.People != nil {
		out.People = make([]Person, len(p.People))
		for i, person := range p.People {
			person.IncomeSources = append([]IncomeSource(nil), person.IncomeSources...)
			person.SuperAccounts = append([]SuperAccount(nil), person.SuperAccounts...)
			out.People[i] = person
		}
	}
	out.IncomeSources = cloneSlice(p.IncomeSources)
	out.TaxBrackets = cloneSlice(p.TaxBrackets)
	out.ExpenseItems = cloneSlice(p.ExpenseItems)
	out.Loans = cloneSlice(p.Loans)
	return out
}

// SimulationConfiguration is a base parameter set plus dated overrides
type SimulationConfiguration struct {
	BaseParameters UserParameters        `yaml:"base_parameters" json:"baseParameters"`
	Transitions    []ParameterTransition `yaml:"transitions,omitempty" json:"transitions,omitempty"`
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append([]T(nil), in...)
}
