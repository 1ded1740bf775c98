package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// CSVFormatter writes one row per simulated state
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Index", "Date", "Cash", "Investments", "Superannuation", "LoanBalance", "OffsetBalance",
		"NetWorth", "CashFlow", "GrossIncome", "TaxPaid", "Expenses", "InterestSaved", "DeductibleInterest"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i, s := range report.States() {
		row := []string{
			strconv.Itoa(i),
			s.Date.Format("2006-01-02"),
			s.Cash.StringFixed(2),
			s.Investments.StringFixed(2),
			s.Superannuation.StringFixed(2),
			s.LoanBalance.StringFixed(2),
			s.OffsetBalance.StringFixed(2),
			s.NetWorth.StringFixed(2),
			s.CashFlow.StringFixed(2),
			s.GrossIncome.StringFixed(2),
			s.TaxPaid.StringFixed(2),
			s.Expenses.StringFixed(2),
			s.InterestSaved.StringFixed(2),
			s.DeductibleInterest.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// MilestoneCSVFormatter writes one row per detected milestone
type MilestoneCSVFormatter struct{}

func (c MilestoneCSVFormatter) Name() string { return "milestones-csv" }

func (c MilestoneCSVFormatter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Date", "Type", "Category", "Title", "Impact", "ID"}); err != nil {
		return nil, err
	}
	for _, m := range report.Detection.Milestones {
		impact := ""
		if m.FinancialImpact != nil {
			impact = m.FinancialImpact.StringFixed(2)
		}
		row := []string{m.Date.Format("2006-01-02"), string(m.Type), string(m.Category), m.Title, impact, m.ID}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}
