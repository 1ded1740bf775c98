package milestone

import (
	"sort"

	"github.com/rgehrsitz/horizon/internal/calculation"
	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/shopspring/decimal"
)

// approxInterestRate backs the total-interest estimate used when a state
// series carries no interest ledger
var approxInterestRate = decimal.NewFromFloat(0.05)

// balanceSeries is one loan's balance across the states. Missing entries are
// states in which the loan was not configured.
type balanceSeries struct {
	states []domain.FinancialState
	loanID string
}

func (b balanceSeries) at(i int) (decimal.Decimal, bool) {
	v, ok := b.states[i].LoanBalances[b.loanID]
	return v, ok
}

func (b balanceSeries) len() int { return len(b.states) }

// FindPayoffLinear returns the first index at which the loan's balance drops
// from above zero to zero, or -1. A loan already at zero when it first
// appears has nothing to pay off.
func FindPayoffLinear(states []domain.FinancialState, loanID string) int {
	return findPayoffLinear(balanceSeries{states: states, loanID: loanID})
}

// FindPayoffBinary is FindPayoffLinear for a series in which the loan is
// present throughout with a non-increasing balance
func FindPayoffBinary(states []domain.FinancialState, loanID string) int {
	return findPayoffBinary(balanceSeries{states: states, loanID: loanID})
}

func findPayoffLinear(b balanceSeries) int {
	first := -1
	for i := 0; i < b.len(); i++ {
		if _, ok := b.at(i); ok {
			first = i
			break
		}
	}
	if first < 0 {
		return -1
	}
	if v, _ := b.at(first); !v.IsPositive() {
		return -1
	}
	for i := first + 1; i < b.len(); i++ {
		prev, okPrev := b.at(i - 1)
		cur, okCur := b.at(i)
		if okPrev && okCur && prev.IsPositive() && !cur.IsPositive() {
			return i
		}
	}
	return -1
}

func findPayoffBinary(b balanceSeries) int {
	n := b.len()
	if n == 0 {
		return -1
	}
	idx := sort.Search(n, func(i int) bool {
		v, _ := b.at(i)
		return !v.IsPositive()
	})
	if idx == 0 || idx == n {
		return -1
	}
	return idx
}

// detectLoanPayoffs emits one milestone per loan that reaches zero
func (d *Detector) detectLoanPayoffs(s *scan) ([]domain.Milestone, []string) {
	var out []domain.Milestone
	var warnings []string
	loans := s.loans()
	for _, loan := range loans {
		series := balanceSeries{states: s.in.States, loanID: loan.ID}
		idx := d.payoffIndex(s, series, loan, len(loans))
		if idx < 0 {
			if v, ok := series.at(series.len() - 1); ok && v.IsPositive() {
				d.logger().Debugf("loan %s not paid off within the horizon (%s remaining)", loan.ID, v.StringFixed(2))
			}
			continue
		}
		m, warning := s.payoffMilestone(loan, idx)
		out = append(out, m)
		if warning != "" {
			warnings = append(warnings, warning)
		}
	}
	return out, warnings
}

// payoffIndex finds the payoff, bisecting long series whose balance is
// guaranteed monotone and consulting the cache first
func (d *Detector) payoffIndex(s *scan, series balanceSeries, loan domain.Loan, loanCount int) int {
	n := series.len()
	first, okFirst := series.at(0)
	mid, okMid := series.at(n / 2)
	last, okLast := series.at(n - 1)
	key := payoffKey{
		loanID:    loan.ID,
		length:    n,
		start:     s.in.States[0].Date.Unix(),
		end:       s.in.States[n-1].Date.Unix(),
		first:     balanceKey(first, okFirst),
		mid:       balanceKey(mid, okMid),
		last:      balanceKey(last, okLast),
		loanCount: loanCount,
		principal: loan.Principal.String(),
	}
	if hit, ok := d.cache.get(key); ok {
		return hit.index
	}

	var idx int
	if n > d.opts.BinarySearchThreshold && okFirst && okLast && s.inEveryPeriod(loan.ID) {
		idx = findPayoffBinary(series)
	} else {
		idx = findPayoffLinear(series)
	}
	d.cache.add(key, payoffHit{index: idx})
	return idx
}

func (s *scan) payoffMilestone(loan domain.Loan, idx int) (domain.Milestone, string) {
	state := s.in.States[idx]
	finalPayment, _ := balanceSeries{states: s.in.States, loanID: loan.ID}.at(idx - 1)
	months := s.monthsAt(idx)

	details := &domain.LoanPayoffDetails{
		LoanID:         loan.ID,
		LoanLabel:      loanLabel(loan),
		StateIndex:     idx,
		MonthsToPayoff: months,
		FinalPayment:   finalPayment,
	}
	var warning string
	if paid, ok := state.LoanInterestPaid[loan.ID]; ok {
		details.TotalInterestPaid = paid
	} else {
		details.TotalInterestPaid = loan.Principal.Mul(approxInterestRate).
			Mul(decimal.NewFromInt(int64(months))).Div(decimal.NewFromInt(12)).Round(2)
		details.InterestEstimated = true
		warning = "total interest for " + details.LoanLabel + " is estimated"
	}

	freed := calculation.AnnualizeAmount(loan.PaymentAmount, loan.PaymentFrequency)
	return domain.Milestone{
		ID:    milestoneID(domain.MilestoneLoanPayoff, loan.ID, state.Date),
		Type:  domain.MilestoneLoanPayoff,
		Date:  state.Date,
		Title: details.LoanLabel + " paid off",
		Description: s.text.sprintf("Final payment of %s clears %s after %s, with %s paid in interest. Frees %s a year in repayments.",
			s.text.money(finalPayment), details.LoanLabel, s.text.duration(months),
			s.text.money(details.TotalInterestPaid), s.text.money(freed)),
		FinancialImpact: &freed,
		Category:        domain.CategoryDebt,
		LoanPayoff:      details,
	}, warning
}

func loanLabel(loan domain.Loan) string {
	if loan.Label != "" {
		return loan.Label
	}
	return loan.ID
}
