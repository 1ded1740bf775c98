package calculation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func householdConfig() domain.SimulationConfiguration {
	return domain.SimulationConfiguration{
		BaseParameters: domain.UserParameters{
			AnnualSalary:                  dec("110000"),
			CurrentAge:                    35,
			RetirementAge:                 60,
			TaxBrackets:                   domain.DefaultAUTaxBrackets(),
			MonthlyLivingExpenses:         dec("3500"),
			InitialCash:                   dec("20000"),
			InitialInvestments:            dec("50000"),
			MonthlyInvestmentContribution: dec("500"),
			InvestmentReturnRate:          dec("7"),
			SuperBalance:                  dec("80000"),
			SuperContributionRate:         dec("11"),
			SuperReturnRate:               dec("6"),
			DesiredRetirementIncome:       dec("60000"),
			Loans: []domain.Loan{{
				ID:               "home",
				Label:            "Home loan",
				Principal:        dec("400000"),
				InterestRate:     dec("6"),
				PaymentAmount:    dec("2800"),
				PaymentFrequency: domain.FrequencyMonthly,
				HasOffset:        true,
				OffsetBalance:    dec("10000"),
			}},
			SimulationYears: 3,
			StartDate:       day(2025, 1, 1),
			TimeInterval:    domain.IntervalMonth,
		},
	}
}

func TestNewEngine(t *testing.T) {
	engine := NewEngine()

	assert.NotNil(t, engine)
	assert.IsType(t, NopLogger{}, engine.Logger)
	assert.NotNil(t, engine.Tracer)
}

func TestEngine_SetLogger(t *testing.T) {
	engine := NewEngine()

	custom := &recordingLogger{}
	engine.SetLogger(custom)
	assert.Equal(t, custom, engine.Logger)

	engine.SetLogger(nil)
	assert.IsType(t, NopLogger{}, engine.Logger)

	engine.SetTracer(nil)
	assert.NotNil(t, engine.Tracer)
}

func TestEngine_Run_Shape(t *testing.T) {
	cfg := householdConfig()
	result, err := NewEngine().Run(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, result.States, 3*12+1)
	assert.Equal(t, cfg.BaseParameters.StartDate, result.States[0].Date)
	assert.Equal(t, cfg.BaseParameters.EndDate(), result.States[len(result.States)-1].Date)
	require.Len(t, result.Periods, 1)
	assert.Empty(t, result.TransitionPoints)

	opening := result.States[0]
	assertDecimal(t, "30000", opening.Cash, "offset money is part of the opening cash")
	assertDecimal(t, "10000", opening.OffsetBalances["home"])
	assertDecimal(t, "400000", opening.LoanBalances["home"])
	assertDecimal(t, "80000", opening.SuperBalances[LegacySuperID])
	assert.True(t, opening.CashFlow.IsZero())
}

func TestEngine_Run_Invariants(t *testing.T) {
	result, err := NewEngine().Run(context.Background(), householdConfig())
	require.NoError(t, err)

	prevLoan := result.States[0].LoanBalances["home"]
	prevInterest := decimal.Zero
	for i, s := range result.States {
		assert.True(t, s.NetWorth.Equal(s.ComputeNetWorth()), "net worth identity at state %d", i)
		assert.False(t, s.LoanBalances["home"].GreaterThan(prevLoan), "loan balance rose at state %d", i)
		assert.False(t, s.LoanInterestPaid["home"].LessThan(prevInterest), "cumulative interest fell at state %d", i)
		assert.False(t, s.OffsetBalance.GreaterThan(decimal.Max(decimal.Zero, s.Cash)), "offsets exceed cash at state %d", i)
		assert.False(t, s.LoanBalance.IsNegative())
		if i > 0 {
			assert.True(t, s.Cash.Equal(result.States[i-1].Cash.Add(s.CashFlow)), "cash flow reconciles at state %d", i)
			assert.True(t, s.Date.After(result.States[i-1].Date))
		}
		prevLoan = s.LoanBalances["home"]
		prevInterest = s.LoanInterestPaid["home"]
	}

	last := result.States[len(result.States)-1]
	assert.True(t, last.Superannuation.GreaterThan(dec("80000")), "super grows with contributions")
	assert.True(t, last.OffsetBalance.GreaterThan(dec("10000")), "surplus is swept into the offset")
}

func TestEngine_Run_Idempotent(t *testing.T) {
	cfg := householdConfig()
	raise := dec("130000")
	cfg.Transitions = []domain.ParameterTransition{{
		ID:      "promotion",
		Date:    day(2026, 1, 1),
		Changes: domain.ParameterChanges{AnnualSalary: &raise},
	}}

	engine := NewEngine()
	first, err := engine.Run(context.Background(), cfg)
	require.NoError(t, err)
	second, err := engine.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngine_Run_TransitionPoints(t *testing.T) {
	cfg := householdConfig()
	raise := dec("130000")
	cfg.Transitions = []domain.ParameterTransition{{
		ID:          "promotion",
		Date:        day(2025, 7, 1),
		Description: "Promotion",
		Changes:     domain.ParameterChanges{AnnualSalary: &raise},
	}}

	result, err := NewEngine().Run(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, result.TransitionPoints, 1)
	tp := result.TransitionPoints[0]
	assert.Equal(t, "promotion", tp.TransitionID)
	assert.Equal(t, 7, tp.StateIndex)
	assert.Equal(t, []domain.ParameterKey{domain.KeyAnnualSalary}, tp.ChangedKeys)
	assert.Equal(t, "Promotion", tp.Description)

	before := result.States[tp.StateIndex-1].GrossIncome
	after := result.States[tp.StateIndex].GrossIncome
	assertDecimalNear(t, 110000.0/12, before, 0.01)
	assertDecimalNear(t, 130000.0/12, after, 0.01)
}

func TestEngine_Run_LoanIntroducedLater(t *testing.T) {
	cfg := householdConfig()
	cfg.BaseParameters.Loans = nil
	car := []domain.Loan{
		{ID: "car", Principal: dec("15000"), InterestRate: dec("8"), PaymentAmount: dec("700"), PaymentFrequency: domain.FrequencyMonthly},
	}
	cfg.Transitions = []domain.ParameterTransition{{ID: "buy-car", Date: day(2026, 1, 1), Changes: domain.ParameterChanges{Loans: car}}}

	result, err := NewEngine().Run(context.Background(), cfg)
	require.NoError(t, err)

	// state 12 closes the last step before the transition
	_, ok := result.States[12].LoanBalances["car"]
	assert.False(t, ok, "loan is not reported before it exists")
	require.Contains(t, result.States[13].LoanBalances, "car")
	assert.True(t, result.States[13].LoanBalances["car"].LessThan(dec("15000")))
	assert.True(t, result.States[13].LoanBalances["car"].GreaterThan(dec("14000")))
}

func TestEngine_Run_WarnsAboutTransitionAfterLastStep(t *testing.T) {
	cfg := householdConfig()
	cfg.BaseParameters.SimulationYears = 1
	cfg.BaseParameters.TimeInterval = domain.IntervalWeek
	raise := dec("200000")
	cfg.Transitions = []domain.ParameterTransition{{ID: "late", Date: day(2025, 12, 31), Changes: domain.ParameterChanges{AnnualSalary: &raise}}}

	log := &recordingLogger{}
	engine := NewEngine()
	engine.SetLogger(log)

	result, err := engine.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, result.States, 53)
	assert.Empty(t, result.TransitionPoints)
	require.Len(t, log.warn, 1)
	assert.Contains(t, log.warn[0], "late")
}

func TestEngine_Run_Errors(t *testing.T) {
	cfg := householdConfig()
	cfg.BaseParameters.SimulationYears = 0
	_, err := NewEngine().Run(context.Background(), cfg)
	assert.Error(t, err)

	cfg = householdConfig()
	cfg.BaseParameters.StartDate = time.Time{}
	_, err = NewEngine().Run(context.Background(), cfg)
	assert.Error(t, err, "zero start date is rejected")

	cfg = householdConfig()
	cfg.Transitions = []domain.ParameterTransition{{ID: "undated"}}
	_, err = NewEngine().Run(context.Background(), cfg)
	assert.ErrorContains(t, err, "undated")
}

func TestEngine_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewEngine().Run(ctx, householdConfig())
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestEngine_Run_YearlyInterval(t *testing.T) {
	cfg := domain.SimulationConfiguration{BaseParameters: domain.UserParameters{
		InitialInvestments:   dec("1000"),
		InvestmentReturnRate: dec("7"),
		SimulationYears:      2,
		StartDate:            day(2025, 1, 1),
		TimeInterval:         domain.IntervalYear,
	}}

	result, err := NewEngine().Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, result.States, 3)
	assertDecimal(t, "1070", result.States[1].Investments)
	assertDecimal(t, "1144.9", result.States[2].Investments)
}

func TestEngine_Run_MonthEndStartKeepsCalendar(t *testing.T) {
	cfg := householdConfig()
	cfg.BaseParameters.StartDate = day(2025, 1, 31)
	cfg.BaseParameters.SimulationYears = 1
	raise := dec("130000")
	cfg.Transitions = []domain.ParameterTransition{{ID: "march", Date: day(2025, 3, 1), Changes: domain.ParameterChanges{AnnualSalary: &raise}}}

	result, err := NewEngine().Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, result.States, 13)

	assert.Equal(t, day(2025, 2, 28), result.States[1].Date)
	assert.Equal(t, day(2025, 3, 31), result.States[2].Date)
	assert.Equal(t, day(2025, 4, 30), result.States[3].Date)
	assert.Equal(t, cfg.BaseParameters.EndDate(), result.States[12].Date)
	assert.Equal(t, day(2026, 1, 31), result.States[12].Date)

	// the step starting 2025-02-28 still runs on the old salary
	require.Len(t, result.TransitionPoints, 1)
	assert.Equal(t, 3, result.TransitionPoints[0].StateIndex)
}

func TestEngine_Run_LogsTransitionFoldedIntoStart(t *testing.T) {
	cfg := householdConfig()
	raise := dec("130000")
	cfg.Transitions = []domain.ParameterTransition{
		{ID: "backdated", Date: day(2024, 6, 1), Changes: domain.ParameterChanges{AnnualSalary: &raise}},
		{ID: "opening", Date: day(2025, 1, 1), Changes: domain.ParameterChanges{AnnualSalary: &raise}},
	}

	log := &recordingLogger{}
	engine := NewEngine()
	engine.SetLogger(log)

	result, err := engine.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Empty(t, result.TransitionPoints)
	assert.Empty(t, log.warn)
	require.Len(t, log.info, 2)
	assert.Contains(t, log.info[0], "backdated")
	assert.Contains(t, log.info[0], "folded")
	assert.Contains(t, log.info[1], "opening")
	assertDecimalNear(t, 130000.0/12, result.States[1].GrossIncome, 0.01)
}
