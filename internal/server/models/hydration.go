package models

import "time"

const MaxHydrationML = 5000

type HydrationEntry struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"-"`
	Timestamp time.Time `json:"timestamp"`
	AmountML  int       `json:"amount_ml"`
	CreatedAt time.Time `json:"created_at"`
}

func NewHydrationEntry(ownerID string, ts time.Time, amountML int) (*HydrationEntry, error) {
	if amountML <= 0 || amountML > MaxHydrationML {
		return nil, invalid("amount must be between 1 and %d ml", MaxHydrationML)
	}
	if ts.IsZero() {
		ts = time.Now()
	}
	return &HydrationEntry{OwnerID: ownerID, Timestamp: ts.UTC(), AmountML: amountML}, nil
}

// DailyHydration summarizes one day of water intake against the user's goal.
type DailyHydration struct {
	Date     time.Time         `json:"date"`
	Entries  []*HydrationEntry `json:"entries"`
	TotalML  int               `json:"total_ml"`
	GoalML   int               `json:"goal_ml"`
	Progress float64           `json:"progress"`
}

func NewDailyHydration(date time.Time, entries []*HydrationEntry, goalML int) *DailyHydration {
	d := &DailyHydration{Date: NormalizeDate(date), Entries: entries, GoalML: goalML}
	if d.Entries == nil {
		d.Entries = []*HydrationEntry{}
	}
	for _, e := range entries {
		d.TotalML += e.AmountML
	}
	if goalML > 0 {
		d.Progress = float64(d.TotalML) / float64(goalML)
	}
	return d
}
