package helpdesk

import "context"

// Customer identifies the requester a routed ticket is created for.
type Customer struct {
	Email     string
	FirstName string
	LastName  string
}

// Group is a routing destination inside a helpdesk backend.
type Group struct {
	ID   string
	Name string
}

// NewTicket is the backend-agnostic ticket creation payload. Priority
// carries the classifier's canonical label; each connector lowercases it
// before consulting its own priority table.
type NewTicket struct {
	Title      string
	Body       string
	GroupID    string
	CustomerID string
	Priority   string
}

// Ticket references a ticket created in a remote backend.
type Ticket struct {
	ID     string
	Number string
	Title  string
}

// Connector defines the operations every helpdesk backend must implement.
type Connector interface {
	// Name returns the backend identifier used for registry lookup.
	Name() string

	// Ping verifies credentials against the backend.
	Ping(ctx context.Context) error

	// Groups lists the backend's active groups.
	Groups(ctx context.Context) ([]Group, error)

	// CreateGroup provisions a new group and returns it.
	CreateGroup(ctx context.Context, name string) (*Group, error)

	// FindOrCreateCustomer resolves a customer by email, creating the
	// account when absent, and returns the backend customer ID.
	FindOrCreateCustomer(ctx context.Context, customer Customer) (string, error)

	// CreateTicket files a ticket and returns its remote reference.
	CreateTicket(ctx context.Context, ticket NewTicket) (*Ticket, error)
}
