// internal/models/notification.go
package models

// Notification records one delivery attempt of an audit report or alert.
type Notification struct {
	Channel   string `json:"channel"` // "email", "sns"
	Recipient string `json:"recipient"`
	Status    string `json:"status"` // "sent", "skipped", "failed"
	MessageID string `json:"messageId,omitempty"`
}

const (
	ChannelEmail = "email"
	ChannelSNS   = "sns"

	NotificationSent    = "sent"
	NotificationSkipped = "skipped"
	NotificationFailed  = "failed"
)
