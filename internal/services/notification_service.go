package services

import (
	"context"
	"fmt"

	"freightlink/internal/models"
	"freightlink/internal/utils"
	"freightlink/pkg/logger"
	"freightlink/pkg/push"
	"freightlink/pkg/sms"
)

// NotificationService fans booking events out to push and SMS channels.
// Every call is fire-and-forget: delivery failures are logged, never
// propagated, and never block the booking pipeline.
type NotificationService interface {
	NotifyAssignment(booking *models.Booking, transporter *models.Transporter)
	NotifyStatusChange(booking *models.Booking, previous models.BookingStatus)
	NotifyNewLoad(booking *models.Booking, transporter *models.Transporter)
}

type notificationService struct {
	pushProvider push.PushProvider
	smsProvider  sms.SMSProvider
	logger       *logger.Logger
}

// NewNotificationService builds a notification service. Either provider may
// be nil when the channel is not configured; that channel is then skipped.
func NewNotificationService(pushProvider push.PushProvider, smsProvider sms.SMSProvider, logger *logger.Logger) NotificationService {
	return &notificationService{
		pushProvider: pushProvider,
		smsProvider:  smsProvider,
		logger:       logger,
	}
}

func (s *notificationService) NotifyAssignment(booking *models.Booking, transporter *models.Transporter) {
	title := "New booking assigned"
	body := fmt.Sprintf("Booking %s (%s, %.0f kg) from %s to %s has been assigned to you",
		booking.RequestID, booking.ProductType, booking.WeightKg,
		booking.FromLocation.Address, booking.ToLocation.Address)

	go s.deliver(transporter, title, body, map[string]string{
		"type":      "booking_assigned",
		"requestId": booking.RequestID,
	})
}

func (s *notificationService) NotifyStatusChange(booking *models.Booking, previous models.BookingStatus) {
	s.logger.LogBookingEvent(booking.RequestID, "status_changed", map[string]interface{}{
		"from": previous,
		"to":   booking.Status,
	})
}

func (s *notificationService) NotifyNewLoad(booking *models.Booking, transporter *models.Transporter) {
	title := "Load available on your route"
	body := fmt.Sprintf("A %s load of %.0f kg is waiting near %s",
		booking.ProductType, booking.WeightKg, booking.FromLocation.Address)

	go s.deliver(transporter, title, body, map[string]string{
		"type":      "load_available",
		"requestId": booking.RequestID,
	})
}

// deliver pushes through every configured channel, logging and swallowing
// per-channel failures.
func (s *notificationService) deliver(transporter *models.Transporter, title, body string, data map[string]string) {
	ctx, cancel := context.WithTimeout(context.Background(), utils.NotifyTimeout)
	defer cancel()

	if s.pushProvider != nil && transporter.DeviceToken != "" {
		_, err := s.pushProvider.SendNotification(ctx, &push.NotificationRequest{
			Token:    transporter.DeviceToken,
			Title:    title,
			Body:     body,
			Data:     data,
			Priority: "high",
		})
		if err != nil {
			s.logger.WithError(err).WithTransporterID(transporter.ID).Warn("push notification failed")
		}
	}

	if s.smsProvider != nil && transporter.Phone != "" {
		_, err := s.smsProvider.SendSMS(ctx, &sms.SMSRequest{
			To:      transporter.Phone,
			Message: fmt.Sprintf("%s: %s", title, body),
			Type:    "transactional",
		})
		if err != nil {
			s.logger.WithError(err).WithTransporterID(transporter.ID).Warn("sms notification failed")
		}
	}
}
