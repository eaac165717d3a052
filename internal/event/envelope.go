package event

import (
	"encoding/json"
	"time"
)

const (
	EventOrderPlaced = "OrderPlaced"
	eventVersion     = 1
)

// Envelope wraps every event published by the service
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// OrderPlacedPayload describes a committed order
type OrderPlacedPayload struct {
	OrderID     uint      `json:"order_id"`
	MemberID    uint      `json:"member_id"`
	ProductID   uint      `json:"product_id"`
	ProductName string    `json:"product_name"`
	OptionID    uint      `json:"option_id"`
	OptionName  string    `json:"option_name"`
	Quantity    int       `json:"quantity"`
	Message     string    `json:"message"`
	OrderedAt   time.Time `json:"ordered_at"`
}
