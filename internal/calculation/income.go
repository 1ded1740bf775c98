package calculation

import (
	"time"

	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/shopspring/decimal"
)

// IsIncomeActive reports whether a source pays at date. Recurring sources
// are bounded by [StartDate, EndDate); one-off sources only count in the
// calendar month of their one-off date.
func IsIncomeActive(src domain.IncomeSource, date time.Time) bool {
	if !src.Enabled {
		return false
	}
	if src.IsOneOff {
		return src.OneOffDate != nil && sameMonth(*src.OneOffDate, date)
	}
	return inWindow(date, src.StartDate, src.EndDate)
}

// AnnualIncomeAmount is what a source contributes to a yearly figure. A
// one-off contributes its amount once.
func AnnualIncomeAmount(src domain.IncomeSource) decimal.Decimal {
	if src.IsOneOff {
		return src.Amount
	}
	return AnnualizeAmount(src.Amount, src.Frequency)
}

// CalculateTotalAnnualIncome is the household's before-tax income at date
func CalculateTotalAnnualIncome(params domain.UserParameters, date time.Time) decimal.Decimal {
	r := Resolve(params)
	var total decimal.Decimal
	for _, e := range r.Earners {
		total = total.Add(earnerAnnualIncome(e, date, true))
	}
	return total
}

// CalculateNetAnnualIncome is the household's untaxed (after-tax) income at date
func CalculateNetAnnualIncome(params domain.UserParameters, date time.Time) decimal.Decimal {
	r := Resolve(params)
	var total decimal.Decimal
	for _, e := range r.Earners {
		total = total.Add(earnerAnnualIncome(e, date, false))
	}
	return total
}

// CalculateHouseholdTax is the annual tax at date. Household members are
// taxed separately against the same table and the results summed.
func CalculateHouseholdTax(params domain.UserParameters, date time.Time) decimal.Decimal {
	r := Resolve(params)
	var total decimal.Decimal
	for _, e := range r.Earners {
		total = total.Add(CalculateTax(earnerAnnualIncome(e, date, true), r.Brackets, r.FlatRate))
	}
	return total
}

// PersonIncomeShare is the fraction of household gross income earned by the
// given person at date. With no household income the share is split evenly.
func PersonIncomeShare(params domain.UserParameters, personID string, date time.Time) decimal.Decimal {
	r := Resolve(params)
	return r.IncomeShare(personID, date)
}

// IncomeShare is PersonIncomeShare on resolved parameters
func (r *ResolvedParameters) IncomeShare(earnerID string, date time.Time) decimal.Decimal {
	if len(r.Earners) == 0 {
		return decimal.Zero
	}
	var total, mine decimal.Decimal
	found := false
	for _, e := range r.Earners {
		income := earnerAnnualIncome(e, date, true)
		total = total.Add(income)
		if e.ID == earnerID {
			mine = income
			found = true
		}
	}
	if !found {
		return decimal.Zero
	}
	if total.IsZero() {
		return one.Div(decimal.NewFromInt(int64(len(r.Earners))))
	}
	return mine.Div(total)
}

// PeriodIncome is the income and tax for one simulation step
type PeriodIncome struct {
	Gross    decimal.Decimal
	Net      decimal.Decimal
	Tax      decimal.Decimal
	ByEarner map[string]decimal.Decimal // gross per earner
}

// AfterTax is what reaches the household's cash
func (pi PeriodIncome) AfterTax() decimal.Decimal {
	return pi.Gross.Sub(pi.Tax).Add(pi.Net)
}

// CalculatePeriodIncome computes one step of income for the window
// [start, end). Recurring income is spread evenly over the year; a one-off
// lands in the single step whose window holds its date and is taxed at the
// earner's marginal rate on top of the recurring income.
func CalculatePeriodIncome(r *ResolvedParameters, start, end time.Time) PeriodIncome {
	out := PeriodIncome{ByEarner: make(map[string]decimal.Decimal, len(r.Earners))}
	for _, e := range r.Earners {
		var recurringGross, recurringNet, oneOffGross, oneOffNet decimal.Decimal
		for _, src := range e.IncomeSources {
			if !src.Enabled {
				continue
			}
			if src.IsOneOff {
				if src.OneOffDate == nil || !inWindow(*src.OneOffDate, &start, &end) {
					continue
				}
				if src.IsBeforeTax {
					oneOffGross = oneOffGross.Add(src.Amount)
				} else {
					oneOffNet = oneOffNet.Add(src.Amount)
				}
				continue
			}
			if !inWindow(start, src.StartDate, src.EndDate) {
				continue
			}
			if src.IsBeforeTax {
				recurringGross = recurringGross.Add(AnnualizeAmount(src.Amount, src.Frequency))
			} else {
				recurringNet = recurringNet.Add(AnnualizeAmount(src.Amount, src.Frequency))
			}
		}

		gross := AnnualToPeriod(recurringGross, r.Interval).Add(oneOffGross)
		tax := AnnualToPeriod(CalculateTax(recurringGross, r.Brackets, r.FlatRate), r.Interval).
			Add(MarginalTax(recurringGross, oneOffGross, r.Brackets, r.FlatRate))

		out.Gross = out.Gross.Add(gross)
		out.Tax = out.Tax.Add(tax)
		out.Net = out.Net.Add(AnnualToPeriod(recurringNet, r.Interval)).Add(oneOffNet)
		out.ByEarner[e.ID] = gross
	}
	return out
}

func earnerAnnualIncome(e Earner, date time.Time, beforeTax bool) decimal.Decimal {
	var total decimal.Decimal
	for _, src := range e.IncomeSources {
		if src.IsBeforeTax != beforeTax || !IsIncomeActive(src, date) {
			continue
		}
		total = total.Add(AnnualIncomeAmount(src))
	}
	return total
}

func inWindow(date time.Time, start, end *time.Time) bool {
	if start != nil && date.Before(*start) {
		return false
	}
	if end != nil && !date.Before(*end) {
		return false
	}
	return true
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
