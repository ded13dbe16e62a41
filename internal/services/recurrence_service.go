package services

import (
	"context"
	"fmt"
	"time"

	"freightlink/internal/models"
	"freightlink/internal/repositories/interfaces"
	"freightlink/internal/utils"
	"freightlink/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecurrenceService expands a recurring booking into its future occurrences.
// Expansion runs after the base booking is persisted and never blocks or
// fails the create call: each occurrence is stored independently and a
// failure to store one does not stop the rest.
type RecurrenceService interface {
	// ResolveWindow computes the [start, end] span of the series from the
	// plan's start date and total duration.
	ResolveWindow(plan *models.RecurrencePlan) (time.Time, time.Time, error)

	// Expand returns a pull iterator over the occurrence bookings the plan
	// generates. The base booking itself covers the start date; iteration
	// begins one step after it.
	Expand(base *models.Booking) (*OccurrenceIterator, error)

	// ExpandAndStore generates and persists every occurrence, then writes
	// the generated request ids back onto the base booking's plan.
	ExpandAndStore(ctx context.Context, base *models.Booking)
}

type recurrenceService struct {
	bookingRepo interfaces.BookingRepository
	logger      *logger.Logger
}

func NewRecurrenceService(bookingRepo interfaces.BookingRepository, logger *logger.Logger) RecurrenceService {
	return &recurrenceService{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

func (s *recurrenceService) ResolveWindow(plan *models.RecurrencePlan) (time.Time, time.Time, error) {
	if plan == nil || plan.StartDate == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("recurrence plan has no start date")
	}
	start := *plan.StartDate

	if plan.EndDate != nil {
		return start, *plan.EndDate, nil
	}
	if plan.Duration == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("recurrence plan has no duration or end date")
	}

	var end time.Time
	switch plan.Duration.Unit {
	case "days", "day":
		end = start.Add(time.Duration(plan.Duration.Count) * 24 * time.Hour)
	case "weeks", "week":
		end = start.Add(time.Duration(plan.Duration.Count) * 7 * 24 * time.Hour)
	case "months", "month":
		// Calendar-aware: Jan 31 + 1 month lands per time.AddDate semantics,
		// it is never a fixed 30-day jump.
		end = start.AddDate(0, plan.Duration.Count, 0)
	case "years", "year":
		end = start.AddDate(plan.Duration.Count, 0, 0)
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", utils.ErrInvalidDurationUnit, plan.Duration.Unit)
	}

	return start, end, nil
}

// OccurrenceIterator yields occurrence bookings one at a time so callers
// never hold a whole multi-year series in memory.
type OccurrenceIterator struct {
	base   *models.Booking
	next   time.Time
	end    time.Time
	years  int
	months int
	days   int
}

// Next returns the next occurrence, or nil when the series is exhausted.
func (it *OccurrenceIterator) Next() *models.Booking {
	if it.next.After(it.end) {
		return nil
	}
	occurrence := newOccurrence(it.base, it.next)
	it.next = it.next.AddDate(it.years, it.months, it.days)
	return occurrence
}

func (s *recurrenceService) Expand(base *models.Booking) (*OccurrenceIterator, error) {
	plan := base.Recurrence
	if plan == nil || !plan.IsRecurring {
		return nil, fmt.Errorf("booking %s has no recurrence plan", base.RequestID)
	}

	start, end, err := s.ResolveWindow(plan)
	if err != nil {
		return nil, err
	}

	years, months, days := plan.Step()
	return &OccurrenceIterator{
		base:   base,
		next:   start.AddDate(years, months, days),
		end:    end,
		years:  years,
		months: months,
		days:   days,
	}, nil
}

func (s *recurrenceService) ExpandAndStore(ctx context.Context, base *models.Booking) {
	iter, err := s.Expand(base)
	if err != nil {
		s.logger.WithError(err).WithBookingID(base.RequestID).Error("recurrence expansion failed")
		return
	}

	var stored []string
	for occurrence := iter.Next(); occurrence != nil; occurrence = iter.Next() {
		if err := s.bookingRepo.Create(ctx, occurrence); err != nil {
			// One failed occurrence never aborts the series.
			s.logger.WithError(err).WithBookingID(base.RequestID).
				WithField("occurrence_pick_up", occurrence.PickUpDate).
				Error("failed to store recurrence occurrence")
			continue
		}
		stored = append(stored, occurrence.RequestID)
	}

	// The resolved window end is part of the stored plan: the recurrence job
	// reads endDate = startDate + duration off the base booking.
	end := iter.end
	updates := map[string]interface{}{
		"recurrence.end_date": end,
		"updated_at":          time.Now(),
	}
	if len(stored) > 0 {
		updates["recurrence.occurrences"] = stored
	}
	if err := s.bookingRepo.Update(ctx, base.ID, updates); err != nil {
		s.logger.WithError(err).WithBookingID(base.RequestID).Error("failed to link occurrences to base booking")
		return
	}
	base.Recurrence.EndDate = &end
	base.Recurrence.Occurrences = stored

	s.logger.LogBookingEvent(base.RequestID, "recurrence_expanded", map[string]interface{}{
		"occurrences": len(stored),
	})
}

// newOccurrence clones the base booking's cargo and route fields into a fresh
// pending scheduled booking for the given pickup time.
func newOccurrence(base *models.Booking, pickUp time.Time) *models.Booking {
	now := time.Now()
	return &models.Booking{
		ID:                 primitive.NilObjectID,
		RequestID:          utils.GenerateRequestID(base.BookingType),
		UserID:             base.UserID,
		BookingType:        base.BookingType,
		BookingMode:        models.BookingModeScheduled,
		WeightKg:           base.WeightKg,
		ProductType:        base.ProductType,
		SpecialRequest:     base.SpecialRequest,
		Perishable:         base.Perishable,
		NeedsRefrigeration: base.NeedsRefrigeration,
		HumidityControl:    base.HumidityControl,
		Insured:            base.Insured,
		Value:              base.Value,
		UrgencyLevel:       base.UrgencyLevel,
		Priority:           base.Priority,
		FromLocation:       base.FromLocation,
		ToLocation:         base.ToLocation,
		Status:             models.BookingStatusPending,
		PickUpDate:         &pickUp,
		SpecialCargo:       base.SpecialCargo,
		Cost:               base.Cost,
		Recurrence: &models.RecurrencePlan{
			IsRecurring:   false,
			BaseBookingID: base.RequestID,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
