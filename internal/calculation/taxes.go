package calculation

import (
	"sort"

	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Brackets are supplied by the user and applied as given. They are
//    expected to be contiguous and non-overlapping; the engine does not
//    check this beyond sorting by Min.
//
// 2. With no brackets, a flat percentage applies to the whole income.
//
// 3. Households are taxed per person against the shared table. Progressive
//    brackets are never pooled across people.
//
// 4. Debt recycling deductions are reported, not subtracted from income.

// CalculateTaxWithBrackets applies a progressive bracket table to income
func CalculateTaxWithBrackets(income decimal.Decimal, brackets []domain.TaxBracket) decimal.Decimal {
	if income.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	ordered := sortedBrackets(brackets)
	var totalTax decimal.Decimal
	for _, bracket := range ordered {
		if income.LessThanOrEqual(bracket.Min) {
			break
		}
		upper := income
		if bracket.Max != nil {
			upper = decimal.Min(income, *bracket.Max)
		}
		taxable := upper.Sub(bracket.Min)
		if taxable.GreaterThan(decimal.Zero) {
			totalTax = totalTax.Add(taxable.Mul(bracket.Rate).Div(hundred))
		}
	}
	return totalTax
}

// CalculateTax uses the brackets when any are configured and otherwise the
// flat percentage rate
func CalculateTax(income decimal.Decimal, brackets []domain.TaxBracket, flatRate decimal.Decimal) decimal.Decimal {
	if len(brackets) > 0 {
		return CalculateTaxWithBrackets(income, brackets)
	}
	if income.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return income.Mul(flatRate).Div(hundred)
}

// MarginalTax is the extra tax due on extra when added on top of base
func MarginalTax(base, extra decimal.Decimal, brackets []domain.TaxBracket, flatRate decimal.Decimal) decimal.Decimal {
	if extra.IsZero() {
		return decimal.Zero
	}
	return CalculateTax(base.Add(extra), brackets, flatRate).Sub(CalculateTax(base, brackets, flatRate))
}

func sortedBrackets(brackets []domain.TaxBracket) []domain.TaxBracket {
	if sort.SliceIsSorted(brackets, func(i, j int) bool { return brackets[i].Min.LessThan(brackets[j].Min) }) {
		return brackets
	}
	ordered := append([]domain.TaxBracket(nil), brackets...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Min.LessThan(ordered[j].Min) })
	return ordered
}
