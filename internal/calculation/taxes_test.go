package calculation

import (
	"testing"

	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateTaxWithBrackets_DefaultAU(t *testing.T) {
	brackets := domain.DefaultAUTaxBrackets()

	tests := []struct {
		name   string
		income string
		want   float64
	}{
		{"tax free threshold", "18200", 0},
		{"second bracket", "45000", 5092},
		{"eighty thousand", "80000", 16467},
		{"third bracket top", "120000", 29467},
		{"top bracket", "200000", 29467 + 22200 + 9000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimalNear(t, tt.want, CalculateTaxWithBrackets(dec(tt.income), brackets), 1)
		})
	}
}

func TestCalculateTaxWithBrackets_NonPositiveIncome(t *testing.T) {
	brackets := domain.DefaultAUTaxBrackets()
	assert.True(t, CalculateTaxWithBrackets(decimal.Zero, brackets).IsZero())
	assert.True(t, CalculateTaxWithBrackets(dec("-5000"), brackets).IsZero())
}

func TestCalculateTaxWithBrackets_MonotoneAndContinuous(t *testing.T) {
	brackets := domain.DefaultAUTaxBrackets()

	prev := decimal.Zero
	for income := int64(0); income <= 250000; income += 250 {
		tax := CalculateTaxWithBrackets(decimal.NewFromInt(income), brackets)
		assert.False(t, tax.LessThan(prev), "tax decreased at income %d", income)
		assert.False(t, tax.IsNegative(), "negative tax at income %d", income)
		prev = tax
	}

	cent := dec("0.01")
	for _, b := range brackets {
		below := CalculateTaxWithBrackets(b.Min, brackets)
		above := CalculateTaxWithBrackets(b.Min.Add(cent), brackets)
		assert.True(t, above.Sub(below).LessThan(cent), "jump at bracket boundary %s", b.Min)
	}
}

func TestCalculateTaxWithBrackets_UnsortedInput(t *testing.T) {
	sorted := domain.DefaultAUTaxBrackets()
	reversed := make([]domain.TaxBracket, len(sorted))
	for i := range sorted {
		reversed[len(sorted)-1-i] = sorted[i]
	}

	income := dec("95000")
	assert.True(t, CalculateTaxWithBrackets(income, sorted).Equal(CalculateTaxWithBrackets(income, reversed)))
}

func TestCalculateTax_FlatRate(t *testing.T) {
	assertDecimal(t, "10000", CalculateTax(dec("50000"), nil, dec("20")))
	assert.True(t, CalculateTax(dec("-1"), nil, dec("20")).IsZero())
}

func TestMarginalTax(t *testing.T) {
	brackets := domain.DefaultAUTaxBrackets()

	assertDecimal(t, "3250", MarginalTax(dec("80000"), dec("10000"), brackets, decimal.Zero))
	assert.True(t, MarginalTax(dec("80000"), decimal.Zero, brackets, decimal.Zero).IsZero())
}
