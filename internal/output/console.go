package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/rgehrsitz/horizon/internal/tui/tuistyles"
)

// ConsoleFormatter renders the full console report: assumptions, a yearly
// table and the milestone timeline
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("nil report")
	}
	var buf bytes.Buffer

	fmt.Fprintln(&buf, tuistyles.TitleStyle.Render("HOUSEHOLD FINANCIAL PROJECTION"))
	fmt.Fprintln(&buf, strings.Repeat("=", 60))
	writeSummary(&buf, report)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, tuistyles.SectionStyle.Render("KEY ASSUMPTIONS"))
	assumptions := report.Assumptions
	if len(assumptions) == 0 {
		assumptions = DefaultAssumptions
	}
	for _, a := range assumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, tuistyles.SectionStyle.Render("YEAR BY YEAR"))
	writeYearlyTable(&buf, report)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, tuistyles.SectionStyle.Render("MILESTONES"))
	writeMilestones(&buf, report.Detection)

	if report.Retirement != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, tuistyles.SectionStyle.Render("RETIREMENT"))
		writeRetirement(&buf, report)
	}
	return buf.Bytes(), nil
}

// ConsoleLiteFormatter prints only the headline numbers and milestones
type ConsoleLiteFormatter struct{}

func (c ConsoleLiteFormatter) Name() string { return "console-lite" }

func (c ConsoleLiteFormatter) Format(report *Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("nil report")
	}
	var buf bytes.Buffer
	writeSummary(&buf, report)
	fmt.Fprintln(&buf)
	writeMilestones(&buf, report.Detection)
	return buf.Bytes(), nil
}

func writeSummary(buf *bytes.Buffer, report *Report) {
	states := report.States()
	if len(states) == 0 {
		fmt.Fprintln(buf, "No projection available.")
		return
	}
	first, last := states[0], states[len(states)-1]
	peak, peakIdx := report.Result.PeakNetWorth()

	label := func(s string) string { return tuistyles.MetricLabelStyle.Render(fmt.Sprintf("%-20s", s)) }
	fmt.Fprintf(buf, "%s %s to %s (%d steps)\n", label("Horizon:"),
		first.Date.Format("2006-01-02"), last.Date.Format("2006-01-02"), len(states)-1)
	fmt.Fprintf(buf, "%s %s\n", label("Opening net worth:"), tuistyles.FormatCurrency(first.NetWorth))

	change := last.NetWorth.Sub(first.NetWorth)
	trend := tuistyles.MetricTrendStyle(!change.IsNegative()).
		Render(tuistyles.TrendIndicator(!change.IsNegative()) + " " + tuistyles.FormatCurrency(change))
	fmt.Fprintf(buf, "%s %s %s\n", label("Final net worth:"),
		tuistyles.MetricValueStyle.Render(tuistyles.FormatCurrency(last.NetWorth)), trend)
	fmt.Fprintf(buf, "%s %s on %s\n", label("Peak net worth:"),
		tuistyles.FormatCurrency(peak), states[peakIdx].Date.Format("2006-01-02"))
	fmt.Fprintf(buf, "%s %s\n", label("Debt remaining:"), tuistyles.FormatCurrency(last.LoanBalance))
}

func writeYearlyTable(buf *bytes.Buffer, report *Report) {
	rows := report.YearlyStates()
	if len(rows) == 0 {
		fmt.Fprintln(buf, "No projection available.")
		return
	}
	header := fmt.Sprintf("%-12s %14s %14s %14s %14s %14s", "Date", "Cash", "Investments", "Super", "Loans", "Net worth")
	fmt.Fprintln(buf, tuistyles.TableHeaderStyle.Render(header))
	fmt.Fprintln(buf, strings.Repeat("-", lipgloss.Width(header)))
	for _, s := range rows {
		fmt.Fprintf(buf, "%-12s %14s %14s %14s %14s %14s\n",
			s.Date.Format("2006-01-02"),
			tuistyles.FormatCurrency(s.Cash),
			tuistyles.FormatCurrency(s.Investments),
			tuistyles.FormatCurrency(s.Superannuation),
			tuistyles.FormatCurrency(s.LoanBalance),
			tuistyles.FormatCurrency(s.NetWorth))
	}
}

func writeMilestones(buf *bytes.Buffer, detection domain.DetectionResult) {
	for _, e := range detection.Errors {
		fmt.Fprintln(buf, tuistyles.ErrorStyle.Render(fmt.Sprintf("[%s] %s: %s", e.Severity, e.Code, e.Message)))
	}
	if len(detection.Milestones) == 0 {
		fmt.Fprintln(buf, "No milestones detected.")
	}
	for _, m := range detection.Milestones {
		title := tuistyles.CategoryStyle(m.Category).Render(m.Title)
		impact := impactString(m)
		if impact != "" {
			impact = "  (" + impact + ")"
		}
		fmt.Fprintf(buf, "%s  %s%s\n", m.Date.Format("2006-01-02"), title, impact)
		if m.Description != "" {
			fmt.Fprintf(buf, "            %s\n", tuistyles.SubtitleStyle.Render(m.Description))
		}
	}
	for _, w := range detection.Warnings {
		fmt.Fprintln(buf, tuistyles.WarningStyle.Render("warning: "+w))
	}
}

func writeRetirement(buf *bytes.Buffer, report *Report) {
	est := report.Retirement
	if !est.Achievable() {
		fmt.Fprintf(buf, "Desired income of %s is not reached within the horizon.\n",
			tuistyles.FormatCurrency(report.Configuration.BaseParameters.DesiredRetirementIncome))
		return
	}
	fmt.Fprintf(buf, "Retire on %s at age %d with a safe withdrawal of %s a year.\n",
		est.Date.Format("2006-01-02"), *est.Age, tuistyles.FormatCurrency(est.SafeWithdrawal))
}
