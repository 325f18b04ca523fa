package models

import (
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/common"
)

// NormalizeDate drops the clock part of t and returns midnight UTC of the
// same calendar date.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "2006-01-02" calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(common.DateLayout, s)
	if err != nil {
		return time.Time{}, invalid("invalid date %q", s)
	}
	return t, nil
}

// MaxRangeDays bounds every DateRange, in days.
const MaxRangeDays = 366

const secondsPerDay = 24 * 60 * 60

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	From time.Time
	To   time.Time
}

// NewDateRange normalizes both ends and rejects ranges that end before they
// start or span more than MaxRangeDays.
func NewDateRange(from, to time.Time) (DateRange, error) {
	r := DateRange{From: NormalizeDate(from), To: NormalizeDate(to)}
	if r.To.Before(r.From) {
		return DateRange{}, invalid("range end %s is before start %s", r.To.Format(common.DateLayout), r.From.Format(common.DateLayout))
	}
	if r.Days() > MaxRangeDays {
		return DateRange{}, invalid("range %s..%s is longer than %d days", r.From.Format(common.DateLayout), r.To.Format(common.DateLayout), MaxRangeDays)
	}
	return r, nil
}

// Days returns the number of calendar days in the range.
func (r DateRange) Days() int {
	// both ends are UTC midnights
	return int((r.To.Unix()-r.From.Unix())/secondsPerDay) + 1
}

// EndExclusive returns midnight after the last day, for timestamp queries.
func (r DateRange) EndExclusive() time.Time {
	return r.To.AddDate(0, 0, 1)
}

// Each calls fn for every day of the range in order.
func (r DateRange) Each(fn func(day time.Time)) {
	for d := r.From; !d.After(r.To); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// MonthStart returns midnight UTC of the first day of t's month.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
