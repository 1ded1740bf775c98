package milestone

import (
	"github.com/rgehrsitz/horizon/internal/calculation"
	"github.com/rgehrsitz/horizon/internal/domain"
)

// expenseItems lists the expense items of every period. An item that keeps
// its id and end date across periods is reported once.
func (s *scan) expenseItems() []domain.ExpenseItem {
	type key struct {
		id  string
		end int64
	}
	seen := make(map[key]bool)
	var out []domain.ExpenseItem
	for _, p := range s.periods {
		r := calculation.Resolve(p.Parameters)
		if !r.UseExpenseItems {
			continue
		}
		for _, item := range r.ExpenseItems {
			if item.EndDate == nil {
				continue
			}
			k := key{id: item.ID, end: item.EndDate.Unix()}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, item)
		}
	}
	return out
}

func (s *scan) detectExpenseExpirations() ([]domain.Milestone, []string) {
	first := s.in.States[0].Date
	last := s.in.States[len(s.in.States)-1].Date

	var out []domain.Milestone
	for _, item := range s.expenseItems() {
		if !item.Enabled || item.IsOneOff {
			continue
		}
		end := *item.EndDate
		if !end.After(first) || end.After(last) {
			continue
		}
		savings := calculation.AnnualizedExpense(item).Round(2)
		name := item.Name
		if name == "" {
			name = item.ID
		}
		out = append(out, domain.Milestone{
			ID:              milestoneID(domain.MilestoneExpenseExpiration, item.ID, end),
			Type:            domain.MilestoneExpenseExpiration,
			Date:            end,
			Title:           name + " ends",
			Description:     s.text.sprintf("%s stops, freeing %s a year.", name, s.text.money(savings)),
			FinancialImpact: &savings,
			Category:        domain.CategoryExpense,
			ExpenseExpiration: &domain.ExpenseExpirationDetails{
				ExpenseID:     item.ID,
				ExpenseName:   name,
				Category:      item.Category,
				AnnualSavings: savings,
			},
		})
	}
	return out, nil
}
