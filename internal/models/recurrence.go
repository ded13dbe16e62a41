package models

import (
	"time"
)

type RecurrenceFrequency string

const (
	FrequencyDaily   RecurrenceFrequency = "daily"
	FrequencyWeekly  RecurrenceFrequency = "weekly"
	FrequencyMonthly RecurrenceFrequency = "monthly"
)

// RecurrencePlan turns one base booking into a series of future bookings.
// Each generated occurrence is a full Booking of its own, linked back through
// BaseBookingID.
type RecurrencePlan struct {
	IsRecurring   bool                `json:"isRecurring" bson:"is_recurring"`
	Frequency     RecurrenceFrequency `json:"frequency,omitempty" bson:"frequency,omitempty"`
	TimeFrame     string              `json:"timeFrame,omitempty" bson:"time_frame,omitempty"`
	Duration      *RecurrenceDuration `json:"duration,omitempty" bson:"duration,omitempty"`
	StartDate     *time.Time          `json:"startDate,omitempty" bson:"start_date,omitempty"`
	EndDate       *time.Time          `json:"endDate,omitempty" bson:"end_date,omitempty"`
	Interval      int                 `json:"interval,omitempty" bson:"interval,omitempty"`
	Occurrences   []string            `json:"occurrences,omitempty" bson:"occurrences,omitempty"`
	BaseBookingID string              `json:"baseBookingId,omitempty" bson:"base_booking_id,omitempty"`
}

// RecurrenceDuration is the total span of the series, e.g. {3, "months"}.
type RecurrenceDuration struct {
	Count int    `json:"count" bson:"count"`
	Unit  string `json:"unit" bson:"unit"`
}

// Step returns the gap between consecutive occurrences. Interval defaults
// to 1 when unset.
func (p *RecurrencePlan) Step() (years, months, days int) {
	interval := p.Interval
	if interval < 1 {
		interval = 1
	}
	switch p.Frequency {
	case FrequencyWeekly:
		return 0, 0, 7 * interval
	case FrequencyMonthly:
		return 0, interval, 0
	default:
		return 0, 0, interval
	}
}
