package calculation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// moneyPlaces is the rounding applied to every balance at the end of a step
const moneyPlaces = 2

// Engine runs projections. It holds no state between runs.
type Engine struct {
	Logger Logger
	Tracer trace.Tracer
}

// NewEngine creates an engine with no-op logging and tracing
func NewEngine() *Engine {
	return &Engine{
		Logger: NopLogger{},
		Tracer: noop.NewTracerProvider().Tracer(""),
	}
}

// SetLogger replaces the logger; nil restores the no-op logger
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// SetTracer replaces the tracer; nil restores the no-op tracer
func (e *Engine) SetTracer(t trace.Tracer) {
	if t == nil {
		e.Tracer = noop.NewTracerProvider().Tracer("")
		return
	}
	e.Tracer = t
}

// Run projects the configuration. The first state is the opening position at
// the start date; each following state is one step of the base interval.
func (e *Engine) Run(ctx context.Context, cfg domain.SimulationConfiguration) (*domain.SimulationResult, error) {
	base := cfg.BaseParameters
	if base.SimulationYears <= 0 {
		return nil, fmt.Errorf("simulation years must be positive, got %d", base.SimulationYears)
	}
	if base.StartDate.IsZero() {
		return nil, fmt.Errorf("start date is required")
	}
	for i, t := range cfg.Transitions {
		if t.Date.IsZero() {
			return nil, fmt.Errorf("transition %d (%s) has no date", i, t.ID)
		}
	}

	interval := base.TimeInterval
	if !interval.Valid() {
		interval = domain.IntervalMonth
	}
	steps := base.SimulationYears * PeriodsPerYear(interval)

	_, span := e.tracer().Start(ctx, "simulation.run", trace.WithAttributes(
		attribute.Int("steps", steps),
		attribute.String("interval", string(interval)),
		attribute.Int("transitions", len(cfg.Transitions)),
	))
	defer span.End()

	for _, t := range cfg.Transitions {
		if !t.Date.After(base.StartDate) {
			e.logger().Infof("transition %s on %s is on or before the start and was folded into the opening parameters", t.ID, t.Date.Format("2006-01-02"))
		}
	}
	periods := DerivePeriods(base, cfg.Transitions)
	e.logger().Debugf("simulating %d steps of %s across %d parameter periods", steps, interval, len(periods))

	periodIdx := 0
	resolved := Resolve(periods[0].Parameters)
	resolved.Interval = interval

	l := newLedger()
	l.open(&resolved, base)

	result := &domain.SimulationResult{
		States:  make([]domain.FinancialState, 0, steps+1),
		Periods: periods,
	}
	result.States = append(result.States, l.snapshot(base.StartDate, &resolved, stepFlows{}))

	date := base.StartDate
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("simulation cancelled at step %d: %w", i, err)
		}
		next := interval.Step(base.StartDate, i+1)

		for periodIdx+1 < len(periods) && !periods[periodIdx+1].Start.After(date) {
			periodIdx++
			p := periods[periodIdx]
			resolved = Resolve(p.Parameters)
			resolved.Interval = interval
			l.seed(&resolved)
			for _, t := range p.Transitions {
				result.TransitionPoints = append(result.TransitionPoints, domain.TransitionPoint{
					TransitionID: t.ID,
					Date:         t.Date,
					StateIndex:   i + 1,
					ChangedKeys:  t.Changes.ChangedKeys(),
					Description:  t.Description,
				})
				span.AddEvent("transition", trace.WithAttributes(
					attribute.String("id", t.ID),
					attribute.Int("state_index", i+1),
				))
				e.logger().Debugf("transition %s applied from %s (state %d)", t.ID, date.Format("2006-01-02"), i+1)
			}
		}

		flows := l.step(&resolved, date, next)
		result.States = append(result.States, l.snapshot(next, &resolved, flows))
		date = next
	}

	for periodIdx+1 < len(periods) {
		periodIdx++
		for _, t := range periods[periodIdx].Transitions {
			e.logger().Warnf("transition %s on %s falls after the last step and was not applied", t.ID, t.Date.Format("2006-01-02"))
		}
	}

	return result, nil
}

func (e *Engine) logger() Logger {
	if e.Logger == nil {
		return NopLogger{}
	}
	return e.Logger
}

func (e *Engine) tracer() trace.Tracer {
	if e.Tracer == nil {
		return noop.NewTracerProvider().Tracer("")
	}
	return e.Tracer
}

// stepFlows are the per-step totals reported on a state
type stepFlows struct {
	cashFlow      decimal.Decimal
	gross         decimal.Decimal
	tax           decimal.Decimal
	expenses      decimal.Decimal
	interestSaved decimal.Decimal
	deductible    decimal.Decimal
}

// ledger carries balances between steps, keyed by entity id
type ledger struct {
	cash         decimal.Decimal
	investments  decimal.Decimal
	loans        map[string]decimal.Decimal
	offsets      map[string]decimal.Decimal
	supers       map[string]decimal.Decimal
	interestPaid map[string]decimal.Decimal
}

func newLedger() *ledger {
	return &ledger{
		loans:        make(map[string]decimal.Decimal),
		offsets:      make(map[string]decimal.Decimal),
		supers:       make(map[string]decimal.Decimal),
		interestPaid: make(map[string]decimal.Decimal),
	}
}

// open sets the opening balances. Money held in offset accounts is added to
// the opening cash.
func (l *ledger) open(r *ResolvedParameters, base domain.UserParameters) {
	l.cash = base.InitialCash
	l.investments = base.InitialInvestments
	for _, loan := range r.Loans {
		l.loans[loan.ID] = loan.Principal
		if loan.HasOffset {
			l.offsets[loan.ID] = loan.OffsetBalance
			l.cash = l.cash.Add(loan.OffsetBalance)
		}
	}
	for _, acct := range r.SuperAccounts() {
		l.supers[acct.ID] = acct.Balance
	}
}

// seed adds entities that first appear in a later period. Existing balances
// carry over untouched. A new offset is funded from undesignated cash.
func (l *ledger) seed(r *ResolvedParameters) {
	for _, loan := range r.Loans {
		if _, ok := l.loans[loan.ID]; !ok {
			l.loans[loan.ID] = loan.Principal
		}
		if _, ok := l.offsets[loan.ID]; loan.HasOffset && !ok {
			free := decimal.Max(decimal.Zero, l.cash.Sub(l.offsetTotal(r)))
			l.offsets[loan.ID] = decimal.Min(loan.OffsetBalance, free)
		}
	}
	for _, acct := range r.SuperAccounts() {
		if _, ok := l.supers[acct.ID]; !ok {
			l.supers[acct.ID] = acct.Balance
		}
	}
}

// step advances one window [date, next) in the order income, tax, expenses,
// loans, investments, super
func (l *ledger) step(r *ResolvedParameters, date, next time.Time) stepFlows {
	var flows stepFlows

	income := CalculatePeriodIncome(r, date, next)
	flows.gross = income.Gross
	flows.tax = income.Tax

	flows.expenses = r.PeriodExpenses(date, next)

	var loanOutflow decimal.Decimal
	for _, loan := range r.Loans {
		offset := decimal.Zero
		if loan.HasOffset {
			offset = l.offsets[loan.ID]
		}
		res := StepLoan(loan, l.loans[loan.ID], offset, r.Interval)
		l.loans[loan.ID] = res.NewBalance.Round(moneyPlaces)
		l.interestPaid[loan.ID] = l.interestPaid[loan.ID].Add(res.InterestPaid).Round(moneyPlaces)
		loanOutflow = loanOutflow.Add(res.TotalPayment)
		flows.interestSaved = flows.interestSaved.Add(res.InterestSaved)
		flows.deductible = flows.deductible.Add(res.DeductibleInterest)
	}

	contribution := ToPeriodAmount(r.MonthlyInvestmentContribution, domain.FrequencyMonthly, r.Interval)
	l.investments = CalculateInvestmentGrowth(l.investments, contribution, r.InvestmentReturnRate.Div(hundred), r.Interval).Round(moneyPlaces)

	for _, e := range r.Earners {
		gross := income.ByEarner[e.ID]
		for _, acct := range e.SuperAccounts {
			added := SuperContribution(gross, acct)
			l.supers[acct.ID] = CalculateInvestmentGrowth(l.supers[acct.ID], added, acct.ReturnRate.Div(hundred), r.Interval).Round(moneyPlaces)
		}
	}

	flows.cashFlow = income.AfterTax().Sub(flows.expenses).Sub(loanOutflow).Sub(contribution).Round(moneyPlaces)
	l.cash = l.cash.Add(flows.cashFlow)
	l.sweepOffset(r, flows.cashFlow)

	flows.gross = flows.gross.Round(moneyPlaces)
	flows.tax = flows.tax.Round(moneyPlaces)
	flows.expenses = flows.expenses.Round(moneyPlaces)
	flows.interestSaved = flows.interestSaved.Round(moneyPlaces)
	flows.deductible = flows.deductible.Round(moneyPlaces)
	return flows
}

// sweepOffset moves the step's cash flow into the first offset account whose
// loan is still outstanding, then keeps offsets within the cash they belong to
func (l *ledger) sweepOffset(r *ResolvedParameters, cashFlow decimal.Decimal) {
	for _, loan := range r.Loans {
		if !loan.HasOffset || !l.loans[loan.ID].GreaterThan(decimal.Zero) {
			continue
		}
		l.offsets[loan.ID] = decimal.Max(decimal.Zero, l.offsets[loan.ID].Add(cashFlow))
		break
	}

	excess := l.offsetTotal(r).Sub(decimal.Max(decimal.Zero, l.cash))
	for i := len(r.Loans) - 1; i >= 0 && excess.GreaterThan(decimal.Zero); i-- {
		id := r.Loans[i].ID
		if !r.Loans[i].HasOffset {
			continue
		}
		cut := decimal.Min(excess, l.offsets[id])
		l.offsets[id] = l.offsets[id].Sub(cut)
		excess = excess.Sub(cut)
	}
}

func (l *ledger) offsetTotal(r *ResolvedParameters) decimal.Decimal {
	var total decimal.Decimal
	for _, loan := range r.Loans {
		if loan.HasOffset {
			total = total.Add(l.offsets[loan.ID])
		}
	}
	return total
}

// snapshot reports the entities active under r
func (l *ledger) snapshot(date time.Time, r *ResolvedParameters, flows stepFlows) domain.FinancialState {
	s := domain.FinancialState{
		Date:               date,
		Cash:               l.cash,
		Investments:        l.investments,
		CashFlow:           flows.cashFlow,
		GrossIncome:        flows.gross,
		TaxPaid:            flows.tax,
		Expenses:           flows.expenses,
		InterestSaved:      flows.interestSaved,
		DeductibleInterest: flows.deductible,
		LoanBalances:       make(map[string]decimal.Decimal, len(r.Loans)),
		SuperBalances:      make(map[string]decimal.Decimal),
		OffsetBalances:     make(map[string]decimal.Decimal),
		LoanInterestPaid:   make(map[string]decimal.Decimal, len(r.Loans)),
	}
	for _, loan := range r.Loans {
		bal := l.loans[loan.ID]
		s.LoanBalances[loan.ID] = bal
		s.LoanBalance = s.LoanBalance.Add(bal)
		s.LoanInterestPaid[loan.ID] = l.interestPaid[loan.ID]
		if loan.HasOffset {
			off := l.offsets[loan.ID]
			s.OffsetBalances[loan.ID] = off
			s.OffsetBalance = s.OffsetBalance.Add(off)
		}
	}

	accounts := r.SuperAccounts()
	sort.SliceStable(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	for _, acct := range accounts {
		bal := l.supers[acct.ID]
		s.SuperBalances[acct.ID] = bal
		s.Superannuation = s.Superannuation.Add(bal)
	}

	s.NetWorth = s.ComputeNetWorth()
	return s
}
