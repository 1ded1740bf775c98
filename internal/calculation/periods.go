package calculation

import (
	"sort"

	"github.com/rgehrsitz/horizon/internal/domain"
)

// SortTransitions returns the transitions ordered by date. Transitions on
// the same date keep their input order. The input slice is not modified.
func SortTransitions(transitions []domain.ParameterTransition) []domain.ParameterTransition {
	sorted := append([]domain.ParameterTransition(nil), transitions...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	return sorted
}

// DerivePeriods splits the horizon of base into contiguous spans of constant
// parameters. Transitions dated on or before the start are folded into the
// opening snapshot; those on or after the end of the horizon are dropped.
// Transitions sharing a date open a single period.
func DerivePeriods(base domain.UserParameters, transitions []domain.ParameterTransition) []domain.ParameterPeriod {
	start, end := base.StartDate, base.EndDate()
	current := base.Clone()

	var periods []domain.ParameterPeriod
	open := domain.ParameterPeriod{Start: start}

	for _, t := range SortTransitions(transitions) {
		if !t.Date.After(start) {
			current = t.Changes.Apply(current)
			continue
		}
		if !t.Date.Before(end) {
			break
		}
		if t.Date.Equal(open.Start) {
			// same-date transition joins the period already opened for it
			current = t.Changes.Apply(current)
			open.Transitions = append(open.Transitions, t)
			continue
		}
		open.End = t.Date
		open.Parameters = current
		periods = append(periods, open)

		current = t.Changes.Apply(current)
		open = domain.ParameterPeriod{Start: t.Date, Transitions: []domain.ParameterTransition{t}}
	}

	open.End = end
	open.Parameters = current
	return append(periods, open)
}
