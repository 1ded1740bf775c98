package calculation

import (
	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculateInvestmentGrowth compounds a balance and this step's contribution
// for one step. The contribution earns a full step of growth. annualRate is a
// fraction.
func CalculateInvestmentGrowth(balance, contribution, annualRate decimal.Decimal, interval domain.TimeInterval) decimal.Decimal {
	factor := one.Add(AnnualToPeriodRate(annualRate, interval))
	return balance.Mul(factor).Add(contribution.Mul(factor))
}

// SuperContribution is the employer contribution for one step of gross income
func SuperContribution(periodGross decimal.Decimal, account domain.SuperAccount) decimal.Decimal {
	if periodGross.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return periodGross.Mul(account.ContributionRate).Div(hundred)
}
