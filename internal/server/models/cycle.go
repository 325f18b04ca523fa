package models

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/common"
)

const (
	MaxFlow              = 4
	DefaultCycleLength   = 28
	cyclePredictionDepth = 6
)

type Cycle struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"-"`
	StartDate time.Time  `json:"start_date"`
	Notes     string     `json:"notes,omitempty"`
	Days      []CycleDay `json:"days"`
	CreatedAt time.Time  `json:"created_at"`
}

type CycleDay struct {
	Date     time.Time `json:"date"`
	IsPeriod bool      `json:"is_period"`
	Flow     int       `json:"flow"`
	Symptoms []string  `json:"symptoms"`
	Notes    string    `json:"notes,omitempty"`
}

func NewCycle(ownerID string, start time.Time, notes string) (*Cycle, error) {
	if start.IsZero() {
		return nil, invalid("start date is required")
	}
	return &Cycle{OwnerID: ownerID, StartDate: NormalizeDate(start), Notes: strings.TrimSpace(notes)}, nil
}

// AddOrUpdateDay records d, replacing any day already stored for the same
// date. Days stay ordered by date.
func (c *Cycle) AddOrUpdateDay(d CycleDay) (*CycleDay, error) {
	d.Date = NormalizeDate(d.Date)
	if d.Date.Before(c.StartDate) {
		return nil, invalid("day is before the cycle start")
	}
	if d.Flow < 0 || d.Flow > MaxFlow {
		return nil, invalid("flow must be between 0 and %d", MaxFlow)
	}
	d.Symptoms = cleanSymptoms(d.Symptoms)

	for i := range c.Days {
		if c.Days[i].Date.Equal(d.Date) {
			c.Days[i] = d
			return &c.Days[i], nil
		}
	}
	c.Days = append(c.Days, d)
	slices.SortFunc(c.Days, func(a, b CycleDay) int { return a.Date.Compare(b.Date) })
	for i := range c.Days {
		if c.Days[i].Date.Equal(d.Date) {
			return &c.Days[i], nil
		}
	}
	return &d, nil
}

// RemoveDay deletes the day recorded for date.
func (c *Cycle) RemoveDay(date time.Time) error {
	date = NormalizeDate(date)
	for i := range c.Days {
		if c.Days[i].Date.Equal(date) {
			c.Days = slices.Delete(c.Days, i, i+1)
			return nil
		}
	}
	return common.ErrorNotFound
}

func cleanSymptoms(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// CyclePrediction is the expected start of the next cycle.
type CyclePrediction struct {
	AverageLength  int       `json:"average_length"`
	CyclesUsed     int       `json:"cycles_used"`
	LastStart      time.Time `json:"last_start"`
	PredictedStart time.Time `json:"predicted_start"`
}

// PredictNextCycle averages the start-to-start lengths of the last six
// completed cycles. With fewer than two cycles the default length of 28
// days is used. It returns nil when there are no cycles at all.
func PredictNextCycle(cycles []*Cycle) *CyclePrediction {
	if len(cycles) == 0 {
		return nil
	}
	starts := make([]time.Time, 0, len(cycles))
	for _, c := range cycles {
		starts = append(starts, NormalizeDate(c.StartDate))
	}
	slices.SortFunc(starts, func(a, b time.Time) int { return a.Compare(b) })

	var lengths []int
	for i := 1; i < len(starts); i++ {
		lengths = append(lengths, int(starts[i].Sub(starts[i-1]).Hours()/24))
	}
	if len(lengths) > cyclePredictionDepth {
		lengths = lengths[len(lengths)-cyclePredictionDepth:]
	}

	avg := DefaultCycleLength
	if len(lengths) > 0 {
		sum := 0
		for _, l := range lengths {
			sum += l
		}
		avg = int(math.Round(float64(sum) / float64(len(lengths))))
	}

	last := starts[len(starts)-1]
	return &CyclePrediction{
		AverageLength:  avg,
		CyclesUsed:     len(lengths),
		LastStart:      last,
		PredictedStart: last.AddDate(0, 0, avg),
	}
}
