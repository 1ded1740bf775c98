package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialState is the household position at the end of one step.
// Offset balances are the part of Cash held against a loan.
type FinancialState struct {
	Date               time.Time       `json:"date"`
	Cash               decimal.Decimal `json:"cash"`
	Investments        decimal.Decimal `json:"investments"`
	Superannuation     decimal.Decimal `json:"superannuation"`
	LoanBalance        decimal.Decimal `json:"loanBalance"`
	OffsetBalance      decimal.Decimal `json:"offsetBalance"`
	NetWorth           decimal.Decimal `json:"netWorth"`
	CashFlow           decimal.Decimal `json:"cashFlow"`
	GrossIncome        decimal.Decimal `json:"grossIncome"`
	TaxPaid            decimal.Decimal `json:"taxPaid"`
	Expenses           decimal.Decimal `json:"expenses"`
	InterestSaved      decimal.Decimal `json:"interestSaved"`
	DeductibleInterest decimal.Decimal `json:"deductibleInterest"`

	// Per-entity balances keyed by loan or super account id
	LoanBalances     map[string]decimal.Decimal `json:"loanBalances,omitempty"`
	SuperBalances    map[string]decimal.Decimal `json:"superBalances,omitempty"`
	OffsetBalances   map[string]decimal.Decimal `json:"offsetBalances,omitempty"`
	LoanInterestPaid map[string]decimal.Decimal `json:"loanInterestPaid,omitempty"` // cumulative
}

// ComputeNetWorth applies the net worth identity to the state's aggregates
func (s *FinancialState) ComputeNetWorth() decimal.Decimal {
	return s.Cash.Add(s.Investments).Add(s.Superannuation).Sub(s.LoanBalance)
}

// SimulationResult is the output of one projection run
type SimulationResult struct {
	States           []FinancialState  `json:"states"`
	TransitionPoints []TransitionPoint `json:"transitionPoints"`
	Periods          []ParameterPeriod `json:"periods"`
}

// Final returns the last state, or nil for an empty run
func (r *SimulationResult) Final() *FinancialState {
	if r == nil || len(r.States) == 0 {
		return nil
	}
	return &r.States[len(r.States)-1]
}

// PeakNetWorth returns the highest net worth reached and its index
func (r *SimulationResult) PeakNetWorth() (decimal.Decimal, int) {
	if r == nil || len(r.States) == 0 {
		return decimal.Zero, -1
	}
	peak, idx := r.States[0].NetWorth, 0
	for i := range r.States {
		if r.States[i].NetWorth.GreaterThan(peak) {
			peak, idx = r.States[i].NetWorth, i
		}
	}
	return peak, idx
}
