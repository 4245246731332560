package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPredictionCompleted EventType = "prediction_completed"
	EventTicketRouted        EventType = "ticket_routed"
	EventGroupCreated        EventType = "group_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// PredictionCompletedPayload payload.
type PredictionCompletedPayload struct {
	ExternalKey    string `json:"external_key"`
	Description    string `json:"description"`
	NormalizedText string `json:"normalized_text"`
	Department     string `json:"department"`
	Priority       string `json:"priority"`
	CacheHit       bool   `json:"cache_hit"`
}

// TicketRoutedPayload payload.
type TicketRoutedPayload struct {
	ExternalKey        string `json:"external_key"`
	Backend            string `json:"backend"`
	Department         string `json:"department"`
	Priority           string `json:"priority"`
	GroupName          string `json:"group_name"`
	RemoteTicketID     string `json:"remote_ticket_id"`
	RemoteTicketNumber string `json:"remote_ticket_number,omitempty"`
}

// GroupCreatedPayload payload.
type GroupCreatedPayload struct {
	Backend  string `json:"backend"`
	Name     string `json:"name"`
	RemoteID string `json:"remote_id"`
}
