package push

import "context"

type PushProvider interface {
	SendNotification(ctx context.Context, request *NotificationRequest) (*NotificationResponse, error)
	SendBulkNotifications(ctx context.Context, requests []*NotificationRequest) ([]*NotificationResponse, error)
}

type NotificationRequest struct {
	Token    string            `json:"token"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
	Priority string            `json:"priority,omitempty"`
}

type NotificationResponse struct {
	MessageID string `json:"message_id"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	Token     string `json:"token,omitempty"`
}
