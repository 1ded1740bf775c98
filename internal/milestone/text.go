package milestone

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// formatter renders money and counts for titles and descriptions
type formatter struct {
	p *message.Printer
}

func newFormatter(tag language.Tag) *formatter {
	return &formatter{p: message.NewPrinter(tag)}
}

// money renders whole dollars with grouping, cents when they are not zero
func (f *formatter) money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	v := d.Round(2).InexactFloat64()
	if d.Round(2).Equal(d.Round(0)) {
		return sign + f.p.Sprintf("$%.0f", v)
	}
	return sign + f.p.Sprintf("$%.2f", v)
}

func (f *formatter) sprintf(format string, args ...any) string {
	return f.p.Sprintf(format, args...)
}

// duration renders a month count as years and months
func (f *formatter) duration(months int) string {
	years, rest := months/12, months%12
	var parts []string
	switch {
	case years == 1:
		parts = append(parts, "1 year")
	case years > 1:
		parts = append(parts, f.p.Sprintf("%d years", years))
	}
	switch {
	case rest == 1:
		parts = append(parts, "1 month")
	case rest > 1:
		parts = append(parts, f.p.Sprintf("%d months", rest))
	}
	if len(parts) == 0 {
		return "less than a month"
	}
	return strings.Join(parts, " ")
}
