package calculation

import (
	"math"

	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// PeriodsPerYear returns how many steps of the interval make up a year
func PeriodsPerYear(interval domain.TimeInterval) int {
	switch interval {
	case domain.IntervalWeek:
		return 52
	case domain.IntervalFortnight:
		return 26
	case domain.IntervalYear:
		return 1
	default:
		return 12
	}
}

// FrequencyPerYear returns how many payments of the frequency occur in a year
func FrequencyPerYear(freq domain.PaymentFrequency) int {
	switch freq {
	case domain.FrequencyWeekly:
		return 52
	case domain.FrequencyFortnightly:
		return 26
	case domain.FrequencyYearly:
		return 1
	default:
		return 12
	}
}

// AnnualToPeriodRate converts an annual rate (as a fraction) into the
// compounding-equivalent rate for one step: (1+annual)^(1/n) - 1.
func AnnualToPeriodRate(annualRate decimal.Decimal, interval domain.TimeInterval) decimal.Decimal {
	n := PeriodsPerYear(interval)
	if n == 1 {
		return annualRate
	}
	base, _ := one.Add(annualRate).Float64()
	if base <= 0 {
		// a rate of -100% or worse wipes the balance out in every step
		return one.Neg()
	}
	rate := math.Pow(base, 1/float64(n)) - 1
	return decimal.NewFromFloat(rate)
}

// PercentToPeriodRate is AnnualToPeriodRate for a rate given as a percentage
func PercentToPeriodRate(annualPercent decimal.Decimal, interval domain.TimeInterval) decimal.Decimal {
	return AnnualToPeriodRate(annualPercent.Div(hundred), interval)
}

// AnnualizeAmount converts an amount paid at freq into a yearly total
func AnnualizeAmount(amount decimal.Decimal, freq domain.PaymentFrequency) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(int64(FrequencyPerYear(freq))))
}

// ToPeriodAmount converts an amount paid at freq into the amount for one step
// of interval. The conversion always goes through the annual total.
func ToPeriodAmount(amount decimal.Decimal, freq domain.PaymentFrequency, interval domain.TimeInterval) decimal.Decimal {
	return AnnualToPeriod(AnnualizeAmount(amount, freq), interval)
}

// AnnualToPeriod spreads a yearly total evenly over the steps of a year
func AnnualToPeriod(annual decimal.Decimal, interval domain.TimeInterval) decimal.Decimal {
	return annual.Div(decimal.NewFromInt(int64(PeriodsPerYear(interval))))
}
