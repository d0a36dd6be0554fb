package notifier

import "context"

// DeliveryStatus is the outcome reported by the transport for one message.
type DeliveryStatus string

const (
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	DeliveryRejected  DeliveryStatus = "REJECTED"
	DeliveryUnknown   DeliveryStatus = "UNKNOWN"
)

// Delivery describes what happened to a sent message.
type Delivery struct {
	Status    DeliveryStatus
	Reason    string // Set when Status is DeliveryRejected or DeliveryUnknown
	MessageID string // Transport specific, may be empty
}

// Client sends a plain-text reminder to the single configured recipient.
// This keeps the reminder logic independent from the SMS or Telegram library in use.
// A non-nil error means the outcome is unknown.
type Client interface {
	Send(ctx context.Context, text string) (Delivery, error)
}
