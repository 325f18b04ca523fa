package models

import "time"

// MeasurementKind selects the body measurement series.
type MeasurementKind string

const (
	MeasurementWeight MeasurementKind = "weight"
	MeasurementWaist  MeasurementKind = "waist"
)

// Measurement is a weight (kg) or waist (cm) reading. There is at most one
// reading per owner, kind and date.
type Measurement struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"-"`
	Date      time.Time `json:"date"`
	Value     float64   `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewMeasurement(ownerID string, date time.Time, value float64) (*Measurement, error) {
	if value <= 0 {
		return nil, invalid("value must be positive")
	}
	if value > 1000 {
		return nil, invalid("value is out of range")
	}
	return &Measurement{OwnerID: ownerID, Date: NormalizeDate(date), Value: value}, nil
}
