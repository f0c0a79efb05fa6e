package report

import (
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/jinzhu/now"
)

// TimeRange is an immutable half-open interval [Start, End) of instants.
// It is never empty: Start is strictly before End.
type TimeRange struct {
	start time.Time
	end   time.Time
}

// NewTimeRange creates a TimeRange, rejecting empty or inverted intervals
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if !start.Before(end) {
		return TimeRange{}, errors.New("time range start must be before end")
	}
	return TimeRange{start: start, end: end}, nil
}

// Start returns the inclusive lower bound
func (r TimeRange) Start() time.Time {
	return r.start
}

// End returns the exclusive upper bound
func (r TimeRange) End() time.Time {
	return r.end
}

// Contains reports whether t falls inside [Start, End)
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.start) && t.Before(r.end)
}

// String returns a human-readable representation
func (r TimeRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.start.Format(time.RFC3339), r.end.Format(time.RFC3339))
}

// calendar configures bucket boundaries: weeks start on Monday 00:00:00.
var calendar = &now.Config{WeekStartDay: time.Monday}

// DayRange returns the calendar day bucket offset days before the one
// containing ref, in ref's location.
func DayRange(ref time.Time, offset int) TimeRange {
	start := calendar.With(ref).BeginningOfDay().AddDate(0, 0, -offset)
	return TimeRange{start: start, end: start.AddDate(0, 0, 1)}
}

// WeekRange returns the Monday-to-Monday week bucket offset weeks before
// the one containing ref.
func WeekRange(ref time.Time, offset int) TimeRange {
	start := calendar.With(ref).BeginningOfWeek().AddDate(0, 0, -7*offset)
	return TimeRange{start: start, end: start.AddDate(0, 0, 7)}
}

// MonthRange returns the calendar month bucket offset months before the
// one containing ref. Subtraction is calendar-aware: one month before a
// January bucket is December of the previous year, and variable month
// lengths and leap years fall out of AddDate on the first of the month.
func MonthRange(ref time.Time, offset int) TimeRange {
	start := calendar.With(ref).BeginningOfMonth().AddDate(0, -offset, 0)
	return TimeRange{start: start, end: start.AddDate(0, 1, 0)}
}

// YearRange returns the calendar year bucket offset years before the one
// containing ref.
func YearRange(ref time.Time, offset int) TimeRange {
	start := calendar.With(ref).BeginningOfYear().AddDate(-offset, 0, 0)
	return TimeRange{start: start, end: start.AddDate(1, 0, 0)}
}

// TrailingMonths yields the n month buckets up to and including the one
// containing ref, oldest first. The sequence is finite and restartable.
func TrailingMonths(ref time.Time, n int) iter.Seq[TimeRange] {
	return func(yield func(TimeRange) bool) {
		for i := n - 1; i >= 0; i-- {
			if !yield(MonthRange(ref, i)) {
				return
			}
		}
	}
}

// TrailingWeeks yields the n week buckets up to and including the one
// containing ref, oldest first.
func TrailingWeeks(ref time.Time, n int) iter.Seq[TimeRange] {
	return func(yield func(TimeRange) bool) {
		for i := n - 1; i >= 0; i-- {
			if !yield(WeekRange(ref, i)) {
				return
			}
		}
	}
}
