package calculation

import (
	"testing"

	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateInvestmentGrowth(t *testing.T) {
	t.Run("one year at the annual rate", func(t *testing.T) {
		assertDecimal(t, "1070", CalculateInvestmentGrowth(dec("1000"), decimal.Zero, dec("0.07"), domain.IntervalYear))
	})

	t.Run("contribution grows with the balance", func(t *testing.T) {
		assertDecimal(t, "1177", CalculateInvestmentGrowth(dec("1000"), dec("100"), dec("0.07"), domain.IntervalYear))
	})

	t.Run("twelve months compound to the annual rate", func(t *testing.T) {
		balance := dec("1000")
		for i := 0; i < 12; i++ {
			balance = CalculateInvestmentGrowth(balance, decimal.Zero, dec("0.07"), domain.IntervalMonth)
		}
		assertDecimalNear(t, 1070, balance, 1e-6)
	})

	t.Run("zero rate only adds contributions", func(t *testing.T) {
		assertDecimal(t, "1100", CalculateInvestmentGrowth(dec("1000"), dec("100"), decimal.Zero, domain.IntervalMonth))
	})
}

func TestSuperContribution(t *testing.T) {
	acct := domain.SuperAccount{ContributionRate: dec("11")}
	assertDecimal(t, "1100", SuperContribution(dec("10000"), acct))
	assert.True(t, SuperContribution(dec("-10"), acct).IsZero())
	assert.True(t, SuperContribution(decimal.Zero, acct).IsZero())
}
