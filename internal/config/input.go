package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/horizon/internal/calculation"
	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// maxSimulationYears bounds the horizon a single run may cover
const maxSimulationYears = 100

// Format is the encoding of an input document
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ValidationError describes one invalid field of an input document
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// inputDocument is the on-disk shape: a configuration plus loader switches
type inputDocument struct {
	domain.SimulationConfiguration `yaml:",inline"`
	DefaultTaxBrackets             bool `yaml:"default_tax_brackets" json:"defaultTaxBrackets"`
}

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads and validates a configuration from a YAML or JSON file.
// Files ending in .json are read as JSON, everything else as YAML.
func (ip *InputParser) LoadFromFile(filename string) (*domain.SimulationConfiguration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	format := FormatYAML
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		format = FormatJSON
	}
	return ip.Parse(data, format)
}

// Parse decodes and validates a configuration document
func (ip *InputParser) Parse(data []byte, format Format) (*domain.SimulationConfiguration, error) {
	var doc inputDocument
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	cfg := doc.SimulationConfiguration
	if doc.DefaultTaxBrackets && len(cfg.BaseParameters.TaxBrackets) == 0 {
		cfg.BaseParameters.TaxBrackets = domain.DefaultAUTaxBrackets()
	}
	if cfg.BaseParameters.TimeInterval == "" {
		cfg.BaseParameters.TimeInterval = domain.IntervalMonth
	}
	if cfg.BaseParameters.HouseholdMode == "" {
		cfg.BaseParameters.HouseholdMode = domain.ModeSingle
	}

	if err := ip.ValidateConfiguration(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// ValidateConfiguration checks a configuration before a run. Every problem
// found is reported as a *ValidationError joined into the returned error.
func (ip *InputParser) ValidateConfiguration(cfg *domain.SimulationConfiguration) error {
	v := &validator{}
	v.parameters("base_parameters", &cfg.BaseParameters)
	v.transitions(cfg)
	if len(v.errs) == 0 {
		// mode switches are only checkable once transitions are applied
		for _, p := range calculation.DerivePeriods(cfg.BaseParameters, cfg.Transitions) {
			if p.Parameters.HouseholdMode == domain.ModeHousehold && len(p.Parameters.People) == 0 {
				v.add("transitions", "household mode from %s has no people", p.Start.Format("2006-01-02"))
			}
		}
	}
	return errors.Join(v.errs...)
}

// ValidationErrors unpacks the individual field errors from a validation error
func ValidationErrors(err error) []*ValidationError {
	var out []*ValidationError
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if ve, ok := e.(*ValidationError); ok {
			out = append(out, ve)
			return
		}
		if joined, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				walk(inner)
			}
			return
		}
		walk(errors.Unwrap(e))
	}
	walk(err)
	return out
}

type validator struct {
	errs []error
}

func (v *validator) add(field, format string, args ...any) {
	v.errs = append(v.errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) nonNegative(field string, d decimal.Decimal) {
	if d.IsNegative() {
		v.add(field, "cannot be negative")
	}
}

func (v *validator) percent(field string, d decimal.Decimal) {
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		v.add(field, "must be between 0 and 100")
	}
}

func (v *validator) returnRate(field string, d decimal.Decimal) {
	if d.LessThanOrEqual(decimal.NewFromInt(-100)) {
		v.add(field, "must be greater than -100")
	}
}

func (v *validator) frequency(field string, f domain.PaymentFrequency) {
	if !f.Valid() {
		v.add(field, "unknown frequency %q", string(f))
	}
}

func (v *validator) parameters(prefix string, p *domain.UserParameters) {
	if p.SimulationYears <= 0 || p.SimulationYears > maxSimulationYears {
		v.add(prefix+".simulation_years", "must be between 1 and %d", maxSimulationYears)
	}
	if p.StartDate.IsZero() {
		v.add(prefix+".start_date", "is required")
	}
	if p.TimeInterval != "" && !p.TimeInterval.Valid() {
		v.add(prefix+".time_interval", "unknown interval %q", string(p.TimeInterval))
	}
	switch p.HouseholdMode {
	case "", domain.ModeSingle:
	case domain.ModeHousehold:
		if len(p.People) == 0 {
			v.add(prefix+".people", "household mode requires at least one person")
		}
	default:
		v.add(prefix+".household_mode", "unknown mode %q", string(p.HouseholdMode))
	}

	v.people(prefix+".people", p.People)
	v.nonNegative(prefix+".annual_salary", p.AnnualSalary)
	v.incomeSources(prefix+".income_sources", p.IncomeSources)
	v.age(prefix+".current_age", p.CurrentAge)
	v.age(prefix+".retirement_age", p.RetirementAge)

	v.brackets(prefix+".tax_brackets", p.TaxBrackets)
	v.percent(prefix+".tax_rate", p.TaxRate)

	v.expenseItems(prefix+".expense_items", p.ExpenseItems)
	v.nonNegative(prefix+".monthly_living_expenses", p.MonthlyLivingExpenses)
	v.nonNegative(prefix+".monthly_rent_or_mortgage", p.MonthlyRentOrMortgage)

	v.loans(prefix+".loans", p.Loans)
	v.nonNegative(prefix+".loan_principal", p.LoanPrincipal)
	v.nonNegative(prefix+".loan_interest_rate", p.LoanInterestRate)
	v.nonNegative(prefix+".loan_payment", p.LoanPayment)
	if p.LoanPaymentFrequency != "" {
		v.frequency(prefix+".loan_payment_frequency", p.LoanPaymentFrequency)
	}
	v.nonNegative(prefix+".offset_balance", p.OffsetBalance)

	v.nonNegative(prefix+".initial_investments", p.InitialInvestments)
	v.nonNegative(prefix+".monthly_investment_contribution", p.MonthlyInvestmentContribution)
	v.returnRate(prefix+".investment_return_rate", p.InvestmentReturnRate)

	v.nonNegative(prefix+".super_balance", p.SuperBalance)
	v.percent(prefix+".super_contribution_rate", p.SuperContributionRate)
	v.returnRate(prefix+".super_return_rate", p.SuperReturnRate)

	v.nonNegative(prefix+".desired_retirement_income", p.DesiredRetirementIncome)
}

func (v *validator) age(field string, age int) {
	if age < 0 || age > 120 {
		v.add(field, "must be between 0 and 120")
	}
}

func (v *validator) people(prefix string, people []domain.Person) {
	ids := make(map[string]bool)
	for i, person := range people {
		field := fmt.Sprintf("%s[%d]", prefix, i)
		if person.ID == "" {
			v.add(field+".id", "is required")
		} else if ids[person.ID] {
			v.add(field+".id", "duplicate id %q", person.ID)
		}
		ids[person.ID] = true
		v.age(field+".current_age", person.CurrentAge)
		v.age(field+".retirement_age", person.RetirementAge)
		v.incomeSources(field+".income_sources", person.IncomeSources)
		v.superAccounts(field+".super_accounts", person.SuperAccounts)
	}
}

func (v *validator) incomeSources(prefix string, sources []domain.IncomeSource) {
	ids := make(map[string]bool)
	for i, src := range sources {
		field := fmt.Sprintf("%s[%d]", prefix, i)
		if src.ID == "" {
			v.add(field+".id", "is required")
		} else if ids[src.ID] {
			v.add(field+".id", "duplicate id %q", src.ID)
		}
		ids[src.ID] = true
		v.nonNegative(field+".amount", src.Amount)
		if src.IsOneOff {
			if src.OneOffDate == nil {
				v.add(field+".one_off_date", "is required for one-off income")
			}
			continue
		}
		v.frequency(field+".frequency", src.Frequency)
		if src.StartDate != nil && src.EndDate != nil && !src.EndDate.After(*src.StartDate) {
			v.add(field+".end_date", "must be after start_date")
		}
	}
}

func (v *validator) expenseItems(prefix string, items []domain.ExpenseItem) {
	ids := make(map[string]bool)
	for i, item := range items {
		field := fmt.Sprintf("%s[%d]", prefix, i)
		if item.ID == "" {
			v.add(field+".id", "is required")
		} else if ids[item.ID] {
			v.add(field+".id", "duplicate id %q", item.ID)
		}
		ids[item.ID] = true
		v.nonNegative(field+".amount", item.Amount)
		if item.IsOneOff {
			if item.OneOffDate == nil {
				v.add(field+".one_off_date", "is required for one-off expenses")
			}
			continue
		}
		v.frequency(field+".frequency", item.Frequency)
		if item.StartDate != nil && item.EndDate != nil && !item.EndDate.After(*item.StartDate) {
			v.add(field+".end_date", "must be after start_date")
		}
	}
}

func (v *validator) loans(prefix string, loans []domain.Loan) {
	ids := make(map[string]bool)
	for i, loan := range loans {
		field := fmt.Sprintf("%s[%d]", prefix, i)
		if loan.ID == "" {
			v.add(field+".id", "is required")
		} else if ids[loan.ID] {
			v.add(field+".id", "duplicate id %q", loan.ID)
		}
		ids[loan.ID] = true
		v.nonNegative(field+".principal", loan.Principal)
		v.nonNegative(field+".interest_rate", loan.InterestRate)
		v.nonNegative(field+".payment_amount", loan.PaymentAmount)
		v.frequency(field+".payment_frequency", loan.PaymentFrequency)
		v.nonNegative(field+".offset_balance", loan.OffsetBalance)
	}
}

func (v *validator) superAccounts(prefix string, accounts []domain.SuperAccount) {
	ids := make(map[string]bool)
	for i, acct := range accounts {
		field := fmt.Sprintf("%s[%d]", prefix, i)
		if acct.ID == "" {
			v.add(field+".id", "is required")
		} else if ids[acct.ID] {
			v.add(field+".id", "duplicate id %q", acct.ID)
		}
		ids[acct.ID] = true
		v.nonNegative(field+".balance", acct.Balance)
		v.percent(field+".contribution_rate", acct.ContributionRate)
		v.returnRate(field+".return_rate", acct.ReturnRate)
	}
}

// brackets must ascend without gaps or overlaps; only the last may be open
func (v *validator) brackets(prefix string, brackets []domain.TaxBracket) {
	for i, b := range brackets {
		field := fmt.Sprintf("%s[%d]", prefix, i)
		v.nonNegative(field+".min", b.Min)
		v.percent(field+".rate", b.Rate)
		if b.Max == nil {
			if i != len(brackets)-1 {
				v.add(field+".max", "only the last bracket may be unbounded")
			}
		} else if !b.Max.GreaterThan(b.Min) {
			v.add(field+".max", "must be greater than min")
		}
		if i > 0 {
			prev := brackets[i-1]
			if prev.Max != nil && !prev.Max.Equal(b.Min) {
				v.add(field+".min", "must equal the previous bracket's max (%s)", prev.Max.String())
			}
		}
	}
}

func (v *validator) transitions(cfg *domain.SimulationConfiguration) {
	ids := make(map[string]bool)
	for i := range cfg.Transitions {
		t := &cfg.Transitions[i]
		field := fmt.Sprintf("transitions[%d]", i)
		if t.ID == "" {
			v.add(field+".id", "is required")
		} else if ids[t.ID] {
			v.add(field+".id", "duplicate id %q", t.ID)
		}
		ids[t.ID] = true
		if t.Date.IsZero() {
			v.add(field+".date", "is required")
		}
		if len(t.Changes.ChangedKeys()) == 0 {
			v.add(field+".changes", "must change at least one parameter")
		}
		v.changes(field+".changes", &t.Changes)
	}
}

func (v *validator) changes(prefix string, c *domain.ParameterChanges) {
	if c.HouseholdMode != nil && *c.HouseholdMode != domain.ModeSingle && *c.HouseholdMode != domain.ModeHousehold {
		v.add(prefix+".household_mode", "unknown mode %q", string(*c.HouseholdMode))
	}
	v.people(prefix+".people", c.People)
	v.incomeSources(prefix+".income_sources", c.IncomeSources)
	v.expenseItems(prefix+".expense_items", c.ExpenseItems)
	v.loans(prefix+".loans", c.Loans)
	v.brackets(prefix+".tax_brackets", c.TaxBrackets)
	if c.RetirementAge != nil {
		v.age(prefix+".retirement_age", *c.RetirementAge)
	}
	optional := func(field string, d *decimal.Decimal, check func(string, decimal.Decimal)) {
		if d != nil {
			check(prefix+"."+field, *d)
		}
	}
	optional("annual_salary", c.AnnualSalary, v.nonNegative)
	optional("desired_retirement_income", c.DesiredRetirementIncome, v.nonNegative)
	optional("tax_rate", c.TaxRate, v.percent)
	optional("monthly_living_expenses", c.MonthlyLivingExpenses, v.nonNegative)
	optional("monthly_rent_or_mortgage", c.MonthlyRentOrMortgage, v.nonNegative)
	optional("loan_interest_rate", c.LoanInterestRate, v.nonNegative)
	optional("loan_payment", c.LoanPayment, v.nonNegative)
	optional("monthly_investment_contribution", c.MonthlyInvestmentContribution, v.nonNegative)
	optional("investment_return_rate", c.InvestmentReturnRate, v.returnRate)
	optional("super_contribution_rate", c.SuperContributionRate, v.percent)
	optional("super_return_rate", c.SuperReturnRate, v.returnRate)
}
