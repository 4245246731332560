package dto

import "time"

// PredictRequest payload.
type PredictRequest struct {
	Description string `json:"description"`
}

// PredictResponse mirrors the prediction result for one description.
type PredictResponse struct {
	Description string `json:"description"`
	Department  string `json:"department"`
	Priority    string `json:"priority"`
	Success     bool   `json:"success"`
}

// CustomerPayload identifies the ticket requester.
type CustomerPayload struct {
	Email     string `json:"email"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// RouteTicketRequest payload for classify-and-route.
type RouteTicketRequest struct {
	Backend     string          `json:"backend"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Customer    CustomerPayload `json:"customer"`
}

// RouteTicketResponse reports the prediction and the created remote ticket.
type RouteTicketResponse struct {
	ExternalKey        string `json:"external_key"`
	Department         string `json:"department"`
	Priority           string `json:"priority"`
	Backend            string `json:"backend"`
	Group              string `json:"group"`
	GroupCreated       bool   `json:"group_created"`
	RemoteTicketID     string `json:"remote_ticket_id"`
	RemoteTicketNumber string `json:"remote_ticket_number,omitempty"`
}

// PredictionRecordResponse is one audit trail entry.
type PredictionRecordResponse struct {
	ExternalKey        string    `json:"external_key"`
	Description        string    `json:"description"`
	Department         string    `json:"department"`
	Priority           string    `json:"priority"`
	CacheHit           bool      `json:"cache_hit"`
	Backend            *string   `json:"backend,omitempty"`
	RemoteTicketID     *string   `json:"remote_ticket_id,omitempty"`
	RemoteTicketNumber *string   `json:"remote_ticket_number,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}
