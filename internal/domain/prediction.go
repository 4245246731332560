package domain

import "time"

// PredictionRecord is the audit trail entry for one classified description.
// Routing fields stay nil until the prediction is used to create a ticket in
// a helpdesk backend.
type PredictionRecord struct {
	ID                 string
	ExternalKey        string
	Description        string
	NormalizedText     string
	Department         string
	Priority           string
	CacheHit           bool
	Backend            *string
	RemoteTicketID     *string
	RemoteTicketNumber *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
