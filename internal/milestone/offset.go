package milestone

import (
	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/shopspring/decimal"
)

// FindOffsetCompletion returns the first index at which the offset covers a
// loan that is still outstanding, having been short of it before. -1 when
// that never happens.
func FindOffsetCompletion(states []domain.FinancialState, loanID string) int {
	below := false
	for i := range states {
		loan, okLoan := states[i].LoanBalances[loanID]
		offset, okOffset := states[i].OffsetBalances[loanID]
		if !okLoan || !okOffset {
			continue
		}
		if offset.LessThan(loan) {
			below = true
			continue
		}
		if below && loan.IsPositive() {
			return i
		}
	}
	return -1
}

func (s *scan) detectOffsetCompletions() ([]domain.Milestone, []string) {
	var out []domain.Milestone
	for _, loan := range s.loans() {
		if !loan.HasOffset {
			continue
		}
		idx := FindOffsetCompletion(s.in.States, loan.ID)
		if idx < 0 {
			continue
		}
		state := s.in.States[idx]
		balance := state.LoanBalances[loan.ID]
		offset := state.OffsetBalances[loan.ID]
		saving := balance.Mul(loan.InterestRate).Div(decimal.NewFromInt(100)).Round(2)
		label := loanLabel(loan)

		out = append(out, domain.Milestone{
			ID:    milestoneID(domain.MilestoneOffsetCompletion, loan.ID, state.Date),
			Type:  domain.MilestoneOffsetCompletion,
			Date:  state.Date,
			Title: label + " fully offset",
			Description: s.text.sprintf("The offset account (%s) now covers the remaining %s balance of %s. Interest stops accruing, saving about %s a year.",
				s.text.money(offset), label, s.text.money(balance), s.text.money(saving)),
			FinancialImpact: &saving,
			Category:        domain.CategoryDebt,
			OffsetCompletion: &domain.OffsetCompletionDetails{
				LoanID:        loan.ID,
				LoanLabel:     label,
				StateIndex:    idx,
				LoanBalance:   balance,
				OffsetBalance: offset,
			},
		})
	}
	return out, nil
}
