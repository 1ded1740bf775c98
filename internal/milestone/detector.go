// Package milestone scans a finished projection for dated events worth
// showing to the household.
package milestone

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rgehrsitz/horizon/internal/calculation"
	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/text/language"
)

// Options tunes a Detector
type Options struct {
	// MinimumImpactThreshold drops milestones whose absolute impact is below
	// it. Nil disables filtering. Milestones without an impact are kept.
	MinimumImpactThreshold *decimal.Decimal
	// BinarySearchThreshold is the series length above which loan payoff is
	// located by bisection
	BinarySearchThreshold int
	// CacheSize and CacheTTL bound the payoff cache. A size of zero disables it.
	CacheSize int
	CacheTTL  time.Duration
	// Language selects number formatting in titles and descriptions
	Language language.Tag
}

// DefaultOptions filters at $1,000 and caches 50 payoff lookups for five minutes
func DefaultOptions() Options {
	threshold := decimal.NewFromInt(1000)
	return Options{
		MinimumImpactThreshold: &threshold,
		BinarySearchThreshold:  50,
		CacheSize:              50,
		CacheTTL:               5 * time.Minute,
		Language:               language.English,
	}
}

// DetectionInput is everything detection looks at. Parameters and
// Transitions are the configuration the states were produced from.
type DetectionInput struct {
	States           []domain.FinancialState
	Parameters       domain.UserParameters
	Transitions      []domain.ParameterTransition
	TransitionPoints []domain.TransitionPoint
}

// InputFromResult pairs a configuration with the result of running it
func InputFromResult(cfg domain.SimulationConfiguration, result *domain.SimulationResult) DetectionInput {
	in := DetectionInput{
		Parameters:  cfg.BaseParameters,
		Transitions: cfg.Transitions,
	}
	if result != nil {
		in.States = result.States
		in.TransitionPoints = result.TransitionPoints
	}
	return in
}

// Detector finds milestones. Each Detector owns its payoff cache; separate
// detectors never share one.
type Detector struct {
	Logger calculation.Logger
	Tracer trace.Tracer

	opts  Options
	cache *payoffCache
	text  *formatter
}

// NewDetector creates a detector. Zero-valued options fall back to the defaults,
// except MinimumImpactThreshold where nil means no filtering.
func NewDetector(opts Options) *Detector {
	def := DefaultOptions()
	if opts.BinarySearchThreshold <= 0 {
		opts.BinarySearchThreshold = def.BinarySearchThreshold
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = def.CacheTTL
	}
	if opts.Language == language.Und {
		opts.Language = def.Language
	}
	return &Detector{
		Logger: calculation.NopLogger{},
		Tracer: noop.NewTracerProvider().Tracer(""),
		opts:   opts,
		cache:  newPayoffCache(opts.CacheSize, opts.CacheTTL),
		text:   newFormatter(opts.Language),
	}
}

// SetLogger replaces the logger; nil restores the no-op logger
func (d *Detector) SetLogger(l calculation.Logger) {
	if l == nil {
		d.Logger = calculation.NopLogger{}
		return
	}
	d.Logger = l
}

// SetTracer replaces the tracer; nil restores the no-op tracer
func (d *Detector) SetTracer(t trace.Tracer) {
	if t == nil {
		d.Tracer = noop.NewTracerProvider().Tracer("")
		return
	}
	d.Tracer = t
}

// ResetCache discards memoized payoff lookups
func (d *Detector) ResetCache() {
	d.cache.purge()
}

// Detect runs every detector over the input. It never panics and never
// returns an error: a failure yields no milestones and one critical
// DETECTION_FAILED record.
func (d *Detector) Detect(ctx context.Context, in DetectionInput) domain.DetectionResult {
	tracer := d.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	ctx, span := tracer.Start(ctx, "milestones.detect", trace.WithAttributes(
		attribute.Int("states", len(in.States)),
		attribute.Int("transition_points", len(in.TransitionPoints)),
	))
	defer span.End()

	result, err := d.safeDetect(ctx, in)
	if err != nil {
		d.logger().Errorf("milestone detection failed: %v", err)
		span.RecordError(err)
		return failedResult(err)
	}
	span.SetAttributes(attribute.Int("milestones", len(result.Milestones)))
	return result
}

// failedResult is the whole output of a detection that aborted
func failedResult(err error) domain.DetectionResult {
	return domain.DetectionResult{
		Milestones: []domain.Milestone{},
		Errors: []domain.DetectionError{{
			Code:     domain.ErrCodeDetectionFailed,
			Message:  err.Error(),
			Severity: domain.SeverityCritical,
		}},
		Warnings: []string{},
	}
}

func (d *Detector) detect(ctx context.Context, in DetectionInput) (domain.DetectionResult, error) {
	result := domain.DetectionResult{
		Milestones: []domain.Milestone{},
		Errors:     []domain.DetectionError{},
		Warnings:   []string{},
	}
	if len(in.States) == 0 {
		result.Warnings = append(result.Warnings, "no simulation states to analyse")
		return result, nil
	}

	periods := calculation.DerivePeriods(in.Parameters, in.Transitions)
	interval := in.Parameters.TimeInterval
	if !interval.Valid() {
		interval = domain.IntervalMonth
	}
	sc := &scan{
		in:       in,
		periods:  periods,
		interval: interval,
		text:     d.text,
	}

	passes := []struct {
		name string
		run  func() ([]domain.Milestone, []string)
	}{
		{"loan payoff", func() ([]domain.Milestone, []string) { return d.detectLoanPayoffs(sc) }},
		{"offset completion", sc.detectOffsetCompletions},
		{"retirement eligibility", sc.detectRetirement},
		{"parameter transition", sc.detectTransitions},
		{"expense expiration", sc.detectExpenseExpirations},
	}

	var found []domain.Milestone
	for _, pass := range passes {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("%s detection: %w", pass.name, err)
		}
		ms, warnings := pass.run()
		d.logger().Debugf("%s detection found %d milestones", pass.name, len(ms))
		found = append(found, ms...)
		result.Warnings = append(result.Warnings, warnings...)
	}

	found, warnings := Sanitize(found, in.States[0].Date)
	result.Warnings = append(result.Warnings, warnings...)

	SortMilestones(found)
	result.Milestones = FilterByImpact(found, d.opts.MinimumImpactThreshold)
	return result, nil
}

func (d *Detector) logger() calculation.Logger {
	if d.Logger == nil {
		return calculation.NopLogger{}
	}
	return d.Logger
}

// SortMilestones orders milestones by date. Milestones on the same date are
// ordered by type, then id.
func SortMilestones(ms []domain.Milestone) {
	sort.SliceStable(ms, func(i, j int) bool {
		a, b := ms[i], ms[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Type.Order() != b.Type.Order() {
			return a.Type.Order() < b.Type.Order()
		}
		return a.ID < b.ID
	})
}

// FilterByImpact keeps milestones whose absolute impact reaches threshold.
// A nil threshold keeps everything, as does a nil impact.
func FilterByImpact(ms []domain.Milestone, threshold *decimal.Decimal) []domain.Milestone {
	out := make([]domain.Milestone, 0, len(ms))
	for _, m := range ms {
		if threshold != nil && m.FinancialImpact != nil && m.FinancialImpact.Abs().LessThan(*threshold) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// scan is the shared view of one detection run
type scan struct {
	in       DetectionInput
	periods  []domain.ParameterPeriod
	interval domain.TimeInterval
	text     *formatter
}

// loans lists every loan configured in any period. The first definition wins,
// except that an offset enabled in any period marks the loan as offset.
func (s *scan) loans() []domain.Loan {
	index := make(map[string]int)
	var out []domain.Loan
	for _, p := range s.periods {
		r := calculation.Resolve(p.Parameters)
		for _, loan := range r.Loans {
			if i, ok := index[loan.ID]; ok {
				if loan.HasOffset {
					out[i].HasOffset = true
				}
				continue
			}
			index[loan.ID] = len(out)
			out = append(out, loan)
		}
	}
	return out
}

// inEveryPeriod reports whether the loan is configured for the whole horizon
func (s *scan) inEveryPeriod(loanID string) bool {
	for _, p := range s.periods {
		r := calculation.Resolve(p.Parameters)
		present := false
		for _, loan := range r.Loans {
			if loan.ID == loanID {
				present = true
				break
			}
		}
		if !present {
			return false
		}
	}
	return true
}

// latest is the parameter snapshot in force at the end of the horizon
func (s *scan) latest() domain.UserParameters {
	return s.periods[len(s.periods)-1].Parameters
}

// monthsAt converts a state index into elapsed months
func (s *scan) monthsAt(index int) int {
	ppy := calculation.PeriodsPerYear(s.interval)
	return (index*12 + ppy/2) / ppy
}
