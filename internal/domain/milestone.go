package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MilestoneType discriminates the Milestone variants
type MilestoneType string

const (
	MilestoneLoanPayoff            MilestoneType = "loan_payoff"
	MilestoneOffsetCompletion      MilestoneType = "offset_completion"
	MilestoneRetirementEligibility MilestoneType = "retirement_eligibility"
	MilestoneParameterTransition   MilestoneType = "parameter_transition"
	MilestoneExpenseExpiration     MilestoneType = "expense_expiration"
)

// Order is used to break ties between milestones on the same date
func (t MilestoneType) Order() int {
	switch t {
	case MilestoneParameterTransition:
		return 0
	case MilestoneLoanPayoff:
		return 1
	case MilestoneOffsetCompletion:
		return 2
	case MilestoneExpenseExpiration:
		return 3
	case MilestoneRetirementEligibility:
		return 4
	}
	return 5
}

// MilestoneCategory is the display grouping of a milestone
type MilestoneCategory string

const (
	CategoryDebt       MilestoneCategory = "debt"
	CategoryRetirement MilestoneCategory = "retirement"
	CategoryPlanning   MilestoneCategory = "planning"
	CategoryExpense    MilestoneCategory = "expense"
)

// Milestone is a dated event found in a finished projection. Exactly one of
// the detail pointers is set and it matches Type.
type Milestone struct {
	ID              string            `json:"id"`
	Type            MilestoneType     `json:"type"`
	Date            time.Time         `json:"date"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	FinancialImpact *decimal.Decimal  `json:"financialImpact,omitempty"`
	Category        MilestoneCategory `json:"category"`

	LoanPayoff            *LoanPayoffDetails            `json:"loanPayoff,omitempty"`
	OffsetCompletion      *OffsetCompletionDetails      `json:"offsetCompletion,omitempty"`
	RetirementEligibility *RetirementEligibilityDetails `json:"retirementEligibility,omitempty"`
	ParameterTransition   *ParameterTransitionDetails   `json:"parameterTransition,omitempty"`
	ExpenseExpiration     *ExpenseExpirationDetails     `json:"expenseExpiration,omitempty"`
}

// LoanPayoffDetails describes a loan reaching zero
type LoanPayoffDetails struct {
	LoanID            string          `json:"loanId"`
	LoanLabel         string          `json:"loanLabel"`
	StateIndex        int             `json:"stateIndex"`
	MonthsToPayoff    int             `json:"monthsToPayoff"`
	FinalPayment      decimal.Decimal `json:"finalPayment"`
	TotalInterestPaid decimal.Decimal `json:"totalInterestPaid"`
	InterestEstimated bool            `json:"interestEstimated"`
}

// OffsetCompletionDetails describes an offset account covering its loan
type OffsetCompletionDetails struct {
	LoanID        string          `json:"loanId"`
	LoanLabel     string          `json:"loanLabel"`
	StateIndex    int             `json:"stateIndex"`
	LoanBalance   decimal.Decimal `json:"loanBalance"`
	OffsetBalance decimal.Decimal `json:"offsetBalance"`
}

// RetirementEligibilityDetails describes when a desired income becomes sustainable
type RetirementEligibilityDetails struct {
	PersonID       string          `json:"personId,omitempty"` // empty for household-wide and single mode
	PersonName     string          `json:"personName,omitempty"`
	Age            int             `json:"age"`
	StateIndex     int             `json:"stateIndex"`
	SafeWithdrawal decimal.Decimal `json:"safeWithdrawal"`
	DesiredIncome  decimal.Decimal `json:"desiredIncome"`
	IncomeShare    decimal.Decimal `json:"incomeShare"`
	Household      bool            `json:"household"`
}

// ParameterTransitionDetails describes a mid-run change of parameters
type ParameterTransitionDetails struct {
	TransitionID   string           `json:"transitionId"`
	StateIndex     int              `json:"stateIndex"`
	ChangedKeys    []ParameterKey   `json:"changedKeys"`
	Categories     []ChangeCategory `json:"categories"`
	NetWorthBefore decimal.Decimal  `json:"netWorthBefore"`
	NetWorthAfter  decimal.Decimal  `json:"netWorthAfter"`
}

// ExpenseExpirationDetails describes an expense ending inside the horizon
type ExpenseExpirationDetails struct {
	ExpenseID     string          `json:"expenseId"`
	ExpenseName   string          `json:"expenseName"`
	Category      string          `json:"category,omitempty"`
	AnnualSavings decimal.Decimal `json:"annualSavings"`
}

// Severity grades a detection error
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// ErrCodeDetectionFailed is reported when detection aborts
const ErrCodeDetectionFailed = "DETECTION_FAILED"

// DetectionError is a non-throwing error record returned with detection output
type DetectionError struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// DetectionResult is the output of milestone detection
type DetectionResult struct {
	Milestones []Milestone      `json:"milestones"`
	Errors     []DetectionError `json:"errors"`
	Warnings   []string         `json:"warnings"`
}
