package calculation

import (
	"time"

	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/shopspring/decimal"
)

// AnnualizedExpense is the yearly cost of a recurring item, or the amount of
// a one-off
func AnnualizedExpense(item domain.ExpenseItem) decimal.Decimal {
	if item.IsOneOff {
		return item.Amount
	}
	return AnnualizeAmount(item.Amount, item.Frequency)
}

// CalculatePeriodExpenses is the spending for the step of interval that
// starts at date
func CalculatePeriodExpenses(params domain.UserParameters, interval domain.TimeInterval, date time.Time) decimal.Decimal {
	r := Resolve(params)
	r.Interval = interval
	return r.PeriodExpenses(date, interval.Next(date))
}

// PeriodExpenses is the spending for the window [start, end). Recurring
// items active at start are annualized then spread over the year; a one-off
// is charged in full when its date falls inside the window.
func (r *ResolvedParameters) PeriodExpenses(start, end time.Time) decimal.Decimal {
	if !r.UseExpenseItems {
		return AnnualToPeriod(r.LegacyMonthlyOut.Mul(decimal.NewFromInt(12)), r.Interval)
	}

	var annual, oneOff decimal.Decimal
	for _, item := range r.ExpenseItems {
		if !item.Enabled {
			continue
		}
		if item.IsOneOff {
			if item.OneOffDate != nil && inWindow(*item.OneOffDate, &start, &end) {
				oneOff = oneOff.Add(item.Amount)
			}
			continue
		}
		if inWindow(start, item.StartDate, item.EndDate) {
			annual = annual.Add(AnnualizeAmount(item.Amount, item.Frequency))
		}
	}
	return AnnualToPeriod(annual, r.Interval).Add(oneOff)
}
