package milestone

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNewDetector_Defaults(t *testing.T) {
	d := NewDetector(Options{})

	assert.Nil(t, d.opts.MinimumImpactThreshold, "nil threshold disables filtering")
	assert.Equal(t, 50, d.opts.BinarySearchThreshold)
	assert.Equal(t, language.English, d.opts.Language)
	assert.Nil(t, d.cache, "zero cache size stores nothing")

	d.SetLogger(nil)
	assert.NotNil(t, d.Logger)
	d.SetTracer(nil)
	assert.NotNil(t, d.Tracer)
}

func TestDetect_EmptyStates(t *testing.T) {
	detection := NewDetector(DefaultOptions()).Detect(context.Background(), DetectionInput{})

	assert.NotNil(t, detection.Milestones)
	assert.Empty(t, detection.Milestones)
	assert.Empty(t, detection.Errors)
	assert.Equal(t, []string{"no simulation states to analyse"}, detection.Warnings)
}

func TestDetect_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := DetectionInput{States: loanSeries("car", amortizing(30, 10000, 500)...), Parameters: carLoanConfig(2).BaseParameters}
	detection := NewDetector(DefaultOptions()).Detect(ctx, in)

	require.Len(t, detection.Errors, 1)
	assert.Equal(t, domain.ErrCodeDetectionFailed, detection.Errors[0].Code)
	assert.Equal(t, domain.SeverityCritical, detection.Errors[0].Severity)
	assert.NotNil(t, detection.Milestones)
	assert.Empty(t, detection.Milestones)
	assert.NotNil(t, detection.Warnings)
	assert.Empty(t, detection.Warnings)
}

func TestRecovering_ConvertsPanics(t *testing.T) {
	d := NewDetector(DefaultOptions())

	result, err := d.recovering(func() (domain.DetectionResult, error) {
		var states []domain.FinancialState
		_ = states[3]
		return domain.DetectionResult{}, nil
	})

	var pe *PanicError
	require.True(t, errors.As(err, &pe))
	assert.NotEmpty(t, pe.Stack)
	assert.Contains(t, err.Error(), "panic during milestone detection")
	assert.Empty(t, result.Milestones)

	failed := failedResult(err)
	require.Len(t, failed.Errors, 1)
	assert.Equal(t, domain.ErrCodeDetectionFailed, failed.Errors[0].Code)
	assert.Equal(t, err.Error(), failed.Errors[0].Message)
	assert.NotNil(t, failed.Milestones)
	assert.NotNil(t, failed.Warnings)
}

func TestDetect_StableIDs(t *testing.T) {
	_, first := project(t, transitionConfig(), unfiltered())
	_, second := project(t, transitionConfig(), unfiltered())

	require.NotEmpty(t, first.Milestones)
	require.Equal(t, len(first.Milestones), len(second.Milestones))
	seen := map[string]bool{}
	for i := range first.Milestones {
		assert.Equal(t, first.Milestones[i].ID, second.Milestones[i].ID)
		assert.False(t, seen[first.Milestones[i].ID], "duplicate id")
		seen[first.Milestones[i].ID] = true
	}
}

func TestMilestoneID(t *testing.T) {
	a := milestoneID(domain.MilestoneLoanPayoff, "car", day(2026, 1, 1))
	b := milestoneID(domain.MilestoneLoanPayoff, "car", day(2026, 2, 1))
	c := milestoneID(domain.MilestoneOffsetCompletion, "car", day(2026, 1, 1))

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, a, milestoneID(domain.MilestoneLoanPayoff, "car", day(2026, 1, 1)))

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), parsed.Version())
}

func TestDetect_OrderedByDate(t *testing.T) {
	_, detection := project(t, transitionConfig(), unfiltered())

	for i := 1; i < len(detection.Milestones); i++ {
		assert.False(t, detection.Milestones[i].Date.Before(detection.Milestones[i-1].Date), "milestone %d out of order", i)
	}
}

func TestSortMilestones(t *testing.T) {
	date := day(2026, 1, 1)
	ms := []domain.Milestone{
		{ID: "r", Type: domain.MilestoneRetirementEligibility, Date: date},
		{ID: "late", Type: domain.MilestoneParameterTransition, Date: day(2027, 1, 1)},
		{ID: "p2", Type: domain.MilestoneLoanPayoff, Date: date},
		{ID: "t", Type: domain.MilestoneParameterTransition, Date: date},
		{ID: "p1", Type: domain.MilestoneLoanPayoff, Date: date},
		{ID: "early", Type: domain.MilestoneExpenseExpiration, Date: day(2025, 1, 1)},
	}
	SortMilestones(ms)

	var ids []string
	for _, m := range ms {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"early", "t", "p1", "p2", "r", "late"}, ids)
}

func TestFilterByImpact(t *testing.T) {
	impact := func(s string) *decimal.Decimal { return ptr(dec(s)) }
	ms := []domain.Milestone{
		{ID: "small", FinancialImpact: impact("500")},
		{ID: "negative", FinancialImpact: impact("-1500")},
		{ID: "edge", FinancialImpact: impact("1000")},
		{ID: "none"},
	}

	threshold := dec("1000")
	kept := FilterByImpact(ms, &threshold)
	var ids []string
	for _, m := range kept {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"negative", "edge", "none"}, ids)
	assert.Len(t, FilterByImpact(ms, nil), 4)
	assert.NotNil(t, FilterByImpact(nil, &threshold))
}

func TestSanitize(t *testing.T) {
	start := day(2025, 1, 1)
	ms := []domain.Milestone{
		{ID: "huge", Title: "Huge", Type: domain.MilestoneParameterTransition, Date: start, FinancialImpact: ptr(dec("2000000000000"))},
		{ID: "tiny", Title: "Tiny", Type: domain.MilestoneParameterTransition, Date: start, FinancialImpact: ptr(dec("-3000000000000"))},
		{ID: "untitled", Type: domain.MilestoneExpenseExpiration, Date: start},
		{ID: "far", Title: "Far", Type: domain.MilestoneLoanPayoff, Date: day(2090, 1, 1),
			LoanPayoff: &domain.LoanPayoffDetails{MonthsToPayoff: -3}},
		{ID: "fine", Title: "Fine", Type: domain.MilestoneLoanPayoff, Date: start, FinancialImpact: ptr(dec("100"))},
	}
	original := *ms[0].FinancialImpact

	out, warnings := Sanitize(ms, start)
	require.Len(t, out, 5)
	assert.True(t, out[0].FinancialImpact.Equal(decimal.New(1, 12)))
	assert.True(t, out[1].FinancialImpact.Equal(decimal.New(-1, 12)))
	assert.Equal(t, "Expense ends", out[2].Title)
	assert.Equal(t, 0, out[3].LoanPayoff.MonthsToPayoff)
	assert.Equal(t, day(2090, 1, 1), out[3].Date, "distant dates are kept")
	assert.True(t, out[4].FinancialImpact.Equal(dec("100")))
	assert.Len(t, warnings, 5)

	assert.True(t, ms[0].FinancialImpact.Equal(original), "input is not modified")
	assert.Equal(t, -3, ms[3].LoanPayoff.MonthsToPayoff)
}

func TestFormatter(t *testing.T) {
	f := newFormatter(language.English)

	assert.Equal(t, "$1,234", f.money(dec("1234")))
	assert.Equal(t, "$1,234.50", f.money(dec("1234.5")))
	assert.Equal(t, "-$50", f.money(dec("-50")))
	assert.Equal(t, "$0", f.money(decimal.Zero))

	assert.Equal(t, "less than a month", f.duration(0))
	assert.Equal(t, "1 month", f.duration(1))
	assert.Equal(t, "1 year 2 months", f.duration(14))
	assert.Equal(t, "3 years", f.duration(36))
}
