package domain

import (
	"fmt"
	"time"
)

// TimeInterval is the granularity of one simulation step
type TimeInterval string

const (
	IntervalWeek      TimeInterval = "week"
	IntervalFortnight TimeInterval = "fortnight"
	IntervalMonth     TimeInterval = "month"
	IntervalYear      TimeInterval = "year"
)

// Valid reports whether the interval is one of the known values
func (ti TimeInterval) Valid() bool {
	switch ti {
	case IntervalWeek, IntervalFortnight, IntervalMonth, IntervalYear:
		return true
	}
	return false
}

// Next returns the start of the step following the one that begins at date
func (ti TimeInterval) Next(date time.Time) time.Time {
	return ti.Step(date, 1)
}

// Step returns the start of step k counted from anchor. Weeks and
// fortnights advance by days. Months and years are counted from the anchor
// and clamped to the last day of shorter months.
func (ti TimeInterval) Step(anchor time.Time, k int) time.Time {
	switch ti {
	case IntervalWeek:
		return anchor.AddDate(0, 0, 7*k)
	case IntervalFortnight:
		return anchor.AddDate(0, 0, 14*k)
	case IntervalYear:
		return addMonths(anchor, 12*k)
	default:
		return addMonths(anchor, k)
	}
}

// addMonths is AddDate(0, n, 0) without the overflow into the next month
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

// PaymentFrequency is the cadence of an income, expense or loan repayment
type PaymentFrequency string

const (
	FrequencyWeekly      PaymentFrequency = "weekly"
	FrequencyFortnightly PaymentFrequency = "fortnightly"
	FrequencyMonthly     PaymentFrequency = "monthly"
	FrequencyYearly      PaymentFrequency = "yearly"
)

// Valid reports whether the frequency is one of the known values
func (pf PaymentFrequency) Valid() bool {
	switch pf {
	case FrequencyWeekly, FrequencyFortnightly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// ParseTimeInterval converts user input into a TimeInterval
func ParseTimeInterval(s string) (TimeInterval, error) {
	ti := TimeInterval(s)
	if !ti.Valid() {
		return "", fmt.Errorf("unknown time interval %q (want week, fortnight, month or year)", s)
	}
	return ti, nil
}
