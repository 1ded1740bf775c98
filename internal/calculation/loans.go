package calculation

import (
	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/shopspring/decimal"
)

// LoanPaymentResult is the outcome of one repayment step
type LoanPaymentResult struct {
	InterestPaid       decimal.Decimal
	PrincipalPaid      decimal.Decimal
	TotalPayment       decimal.Decimal
	NewBalance         decimal.Decimal
	InterestSaved      decimal.Decimal
	DeductibleInterest decimal.Decimal
}

// CalculateLoanPayment applies one step of interest and repayment. annualRate
// is a fraction. An offset reduces the balance that accrues interest but
// never the principal itself. Unpaid interest is not capitalized.
func CalculateLoanPayment(balance, offsetBalance, annualRate, payment decimal.Decimal, interval domain.TimeInterval, useOffset, isDebtRecycling bool) LoanPaymentResult {
	if balance.LessThanOrEqual(decimal.Zero) {
		return LoanPaymentResult{}
	}

	effective := balance
	if useOffset {
		effective = decimal.Max(decimal.Zero, balance.Sub(offsetBalance))
	}

	periodRate := AnnualToPeriodRate(annualRate, interval)
	interest := effective.Mul(periodRate)

	var saved decimal.Decimal
	if useOffset {
		saved = balance.Mul(periodRate).Sub(interest)
	}

	var deductible decimal.Decimal
	if isDebtRecycling {
		deductible = interest
	}

	principal := payment.Sub(interest)
	if principal.LessThan(decimal.Zero) {
		principal = decimal.Zero
	}
	if principal.GreaterThan(balance) {
		principal = balance
	}

	return LoanPaymentResult{
		InterestPaid:       interest,
		PrincipalPaid:      principal,
		TotalPayment:       interest.Add(principal),
		NewBalance:         decimal.Max(decimal.Zero, balance.Sub(principal)),
		InterestSaved:      saved,
		DeductibleInterest: deductible,
	}
}

// StepLoan runs CalculateLoanPayment for a configured loan over one step
func StepLoan(loan domain.Loan, balance, offsetBalance decimal.Decimal, interval domain.TimeInterval) LoanPaymentResult {
	payment := ToPeriodAmount(loan.PaymentAmount, loan.PaymentFrequency, interval)
	return CalculateLoanPayment(balance, offsetBalance, loan.InterestRate.Div(hundred), payment, interval, loan.HasOffset, loan.IsDebtRecycling)
}

// AnnualLoanPayments sums the annualized repayments of all loans
func AnnualLoanPayments(loans []domain.Loan) decimal.Decimal {
	var total decimal.Decimal
	for _, loan := range loans {
		total = total.Add(AnnualizeAmount(loan.PaymentAmount, loan.PaymentFrequency))
	}
	return total
}
