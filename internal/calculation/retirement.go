package calculation

import (
	"time"

	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/shopspring/decimal"
)

// PreservationAge is the age from which super counts as accessible
const PreservationAge = 60

// SafeWithdrawalRate is the 4% rule
var SafeWithdrawalRate = decimal.NewFromFloat(0.04)

// CalculateSafeWithdrawal is the sustainable annual draw from accessible
// assets. Super only counts from preservation age.
func CalculateSafeWithdrawal(investments, super decimal.Decimal, age int) decimal.Decimal {
	withdrawal := investments.Mul(SafeWithdrawalRate)
	if age >= PreservationAge {
		withdrawal = withdrawal.Add(super.Mul(SafeWithdrawalRate))
	}
	return withdrawal
}

// RetirementEstimate is the earliest point a desired income is sustainable.
// Nil Date and Age mean the target is not reached within the horizon.
type RetirementEstimate struct {
	Date           *time.Time      `json:"date"`
	Age            *int            `json:"age"`
	StateIndex     int             `json:"stateIndex"`
	SafeWithdrawal decimal.Decimal `json:"safeWithdrawal"`
}

// Achievable reports whether a retirement point was found
func (re RetirementEstimate) Achievable() bool {
	return re.Date != nil
}

// WithdrawalFunc gives the safe withdrawal available at a state for an age
type WithdrawalFunc func(state *domain.FinancialState, age int) decimal.Decimal

// HouseholdWithdrawal counts every investment and super dollar in the state
func HouseholdWithdrawal(state *domain.FinancialState, age int) decimal.Decimal {
	return CalculateSafeWithdrawal(state.Investments, state.Superannuation, age)
}

// AgeAt is currentAge plus the whole years elapsed between start and date
func AgeAt(currentAge int, start, date time.Time) int {
	years := date.Year() - start.Year()
	if date.Month() < start.Month() || (date.Month() == start.Month() && date.Day() < start.Day()) {
		years--
	}
	if years < 0 {
		years = 0
	}
	return currentAge + years
}

// FindRetirementDate returns the first state, starting from the one nearest
// targetAge, whose safe withdrawal meets desiredIncome
func FindRetirementDate(states []domain.FinancialState, desiredIncome decimal.Decimal, currentAge, targetAge int) RetirementEstimate {
	return FindRetirementDateWith(states, desiredIncome, currentAge, targetAge, HouseholdWithdrawal)
}

// FindRetirementDateWith is FindRetirementDate with a custom view of the
// assets available to the person retiring
func FindRetirementDateWith(states []domain.FinancialState, desiredIncome decimal.Decimal, currentAge, targetAge int, withdrawal WithdrawalFunc) RetirementEstimate {
	if len(states) == 0 {
		return RetirementEstimate{StateIndex: -1}
	}
	start := states[0].Date

	// the state nearest the target age is the first one at or past it, or
	// the last state when the horizon ends before the target age
	target := len(states) - 1
	for i := range states {
		if AgeAt(currentAge, start, states[i].Date) >= targetAge {
			target = i
			break
		}
	}

	for i := target; i < len(states); i++ {
		age := AgeAt(currentAge, start, states[i].Date)
		amount := withdrawal(&states[i], age)
		if amount.GreaterThanOrEqual(desiredIncome) {
			date := states[i].Date
			return RetirementEstimate{Date: &date, Age: &age, StateIndex: i, SafeWithdrawal: amount}
		}
	}
	return RetirementEstimate{StateIndex: -1}
}
