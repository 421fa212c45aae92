package daterange

import (
	"fmt"
	"time"

	"github.com/de-tools/time-atlas/pkg/models/domain"
)

// Resolver turns a period token into a concrete inclusive date range.
// The clock is injectable so resolution stays deterministic under test.
type Resolver struct {
	now func() time.Time
}

func NewResolver() *Resolver {
	return &Resolver{now: time.Now}
}

func NewResolverAt(now func() time.Time) *Resolver {
	return &Resolver{now: now}
}

// Resolve computes the start and end dates for period. Open periods
// (this month/quarter/year) end at the current date rather than the end of
// the calendar period, so reports never cover unelapsed time. Custom ranges
// require explicit bounds and must not end in the future.
func (r *Resolver) Resolve(period domain.Period, customStart, customEnd time.Time) (domain.DateRange, error) {
	today := toDate(r.now())

	switch period {
	case domain.PeriodLast7Days:
		return rangeOf(today.AddDate(0, 0, -7), today, "Last 7 days"), nil
	case domain.PeriodLast30Days:
		return rangeOf(today.AddDate(0, 0, -30), today, "Last 30 days"), nil
	case domain.PeriodLast90Days:
		return rangeOf(today.AddDate(0, 0, -90), today, "Last 90 days"), nil
	case domain.PeriodThisMonth:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		desc := fmt.Sprintf("This month (through %s)", today.Format("January 2"))
		return rangeOf(start, today, desc), nil
	case domain.PeriodLastMonth:
		firstOfThis := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := firstOfThis.AddDate(0, 0, -1)
		start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
		return rangeOf(start, end, end.Format("January 2006")), nil
	case domain.PeriodThisQuarter:
		start, _ := quarterBounds(today.Year(), quarterOf(today.Month()))
		desc := fmt.Sprintf("This quarter (through %s)", today.Format("January 2"))
		return rangeOf(start, today, desc), nil
	case domain.PeriodLastQuarter:
		year, q := today.Year(), quarterOf(today.Month())-1
		if q == 0 {
			year, q = year-1, 4
		}
		start, end := quarterBounds(year, q)
		return rangeOf(start, end, fmt.Sprintf("Q%d %d", q, year)), nil
	case domain.PeriodThisYear:
		start := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		desc := fmt.Sprintf("This year (through %s)", today.Format("January 2"))
		return rangeOf(start, today, desc), nil
	case domain.PeriodCustom:
		return r.resolveCustom(customStart, customEnd, today)
	default:
		return domain.DateRange{}, fmt.Errorf("%w: unknown period %q", domain.ErrInvalidDateRange, period)
	}
}

func (r *Resolver) resolveCustom(start, end, today time.Time) (domain.DateRange, error) {
	if start.IsZero() || end.IsZero() {
		return domain.DateRange{}, fmt.Errorf("%w: custom period requires explicit start and end dates", domain.ErrInvalidDateRange)
	}
	start, end = toDate(start), toDate(end)
	if start.After(end) {
		return domain.DateRange{}, fmt.Errorf("%w: start %s is after end %s",
			domain.ErrInvalidDateRange, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	if end.After(today) {
		return domain.DateRange{}, fmt.Errorf("%w: end %s is in the future",
			domain.ErrInvalidDateRange, end.Format(time.DateOnly))
	}
	desc := fmt.Sprintf("%s to %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
	return rangeOf(start, end, desc), nil
}

// quarterOf maps a month to its quarter; quarter q spans months [3q-2, 3q].
func quarterOf(m time.Month) int {
	return (int(m) + 2) / 3
}

func quarterBounds(year, q int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(3*q-2), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, -1)
	return start, end
}

func rangeOf(start, end time.Time, desc string) domain.DateRange {
	return domain.DateRange{Start: start, End: end, Description: desc}
}

func toDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
