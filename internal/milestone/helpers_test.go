package milestone

import (
	"context"
	"testing"
	"time"

	"github.com/rgehrsitz/horizon/internal/calculation"
	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T { return &v }

// loanSeries builds monthly states from 2025-01-01 with one loan balance each
func loanSeries(loanID string, balances ...decimal.Decimal) []domain.FinancialState {
	states := make([]domain.FinancialState, len(balances))
	for i, b := range balances {
		states[i] = domain.FinancialState{
			Date:         day(2025, 1, 1).AddDate(0, i, 0),
			LoanBalance:  b,
			LoanBalances: map[string]decimal.Decimal{loanID: b},
		}
	}
	return states
}

// amortizing returns n balances starting at principal, falling by step and
// floored at zero
func amortizing(n int, principal, step int64) []decimal.Decimal {
	out := make([]decimal.Decimal, n)
	for i := range out {
		v := principal - int64(i)*step
		if v < 0 {
			v = 0
		}
		out[i] = decimal.NewFromInt(v)
	}
	return out
}

func ofType(ms []domain.Milestone, t domain.MilestoneType) []domain.Milestone {
	var out []domain.Milestone
	for _, m := range ms {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

func unfiltered() Options {
	opts := DefaultOptions()
	opts.MinimumImpactThreshold = nil
	return opts
}

// project runs the engine and detection over cfg
func project(t *testing.T, cfg domain.SimulationConfiguration, opts Options) (*domain.SimulationResult, domain.DetectionResult) {
	t.Helper()
	result, err := calculation.NewEngine().Run(context.Background(), cfg)
	require.NoError(t, err)
	return result, NewDetector(opts).Detect(context.Background(), InputFromResult(cfg, result))
}
