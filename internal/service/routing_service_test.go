package service

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-classifier/internal/config"
	"github.com/spec-kit/ticket-classifier/internal/events"
	"github.com/spec-kit/ticket-classifier/internal/helpdesk"
)

// fakeConnector records calls and serves a fixed group list.
type fakeConnector struct {
	name           string
	groups         []helpdesk.Group
	groupsCalls    int
	createdGroups  []string
	createdTickets []helpdesk.NewTicket
}

func (f *fakeConnector) Name() string               { return f.name }
func (f *fakeConnector) Ping(context.Context) error { return nil }

func (f *fakeConnector) Groups(context.Context) ([]helpdesk.Group, error) {
	f.groupsCalls++
	return f.groups, nil
}

func (f *fakeConnector) CreateGroup(_ context.Context, name string) (*helpdesk.Group, error) {
	f.createdGroups = append(f.createdGroups, name)
	group := helpdesk.Group{ID: "g" + name, Name: name}
	f.groups = append(f.groups, group)
	return &group, nil
}

func (f *fakeConnector) FindOrCreateCustomer(_ context.Context, c helpdesk.Customer) (string, error) {
	return "cust-" + c.Email, nil
}

func (f *fakeConnector) CreateTicket(_ context.Context, t helpdesk.NewTicket) (*helpdesk.Ticket, error) {
	f.createdTickets = append(f.createdTickets, t)
	return &helpdesk.Ticket{ID: "501", Number: "82001", Title: t.Title}, nil
}

func testRoutingService(t *testing.T, connector *fakeConnector, cfg config.RoutingConfig, dispatcher events.Dispatcher) *RoutingService {
	t.Helper()
	registry := helpdesk.NewRegistry()
	registry.Register(connector)
	classification := NewClassificationService(ClassificationDependencies{
		Pipeline:   testPipeline(t),
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})
	return NewRoutingService(RoutingDependencies{
		Classification: classification,
		Registry:       registry,
		Config:         cfg,
		Dispatcher:     dispatcher,
		Logger:         zap.NewNop(),
	})
}

func TestRoute_MatchesExistingGroup(t *testing.T) {
	connector := &fakeConnector{
		name:   "zammad",
		groups: []helpdesk.Group{{ID: "1", Name: "it support"}},
	}
	svc := testRoutingService(t, connector, config.RoutingConfig{DefaultBackend: "zammad"}, nil)

	result, err := svc.Route(context.Background(), RouteInput{
		Title:       "Printer down",
		Description: "the network printer is broken",
		Customer:    helpdesk.Customer{Email: "jane@example.com"},
	})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if result.Backend != "zammad" {
		t.Fatalf("backend = %q, want default zammad", result.Backend)
	}
	if result.Group.ID != "1" || result.GroupCreated {
		t.Fatalf("expected case-insensitive match on existing group, got %+v created=%v",
			result.Group, result.GroupCreated)
	}
	if len(connector.createdGroups) != 0 {
		t.Fatalf("created groups %v, want none", connector.createdGroups)
	}
	if len(connector.createdTickets) != 1 {
		t.Fatalf("created %d tickets, want 1", len(connector.createdTickets))
	}
	ticket := connector.createdTickets[0]
	if ticket.GroupID != "1" || ticket.CustomerID != "cust-jane@example.com" || ticket.Priority != "High" {
		t.Fatalf("unexpected ticket %+v", ticket)
	}
}

func TestRoute_AutoCreatesMissingGroup(t *testing.T) {
	connector := &fakeConnector{name: "zammad"}
	dispatcher := events.NewInMemoryDispatcher()
	var created []events.Event
	dispatcher.Subscribe(events.EventGroupCreated, func(_ context.Context, e events.Event) error {
		created = append(created, e)
		return nil
	})
	svc := testRoutingService(t, connector, config.RoutingConfig{
		DefaultBackend:   "zammad",
		AutoCreateGroups: true,
		GroupPrefix:      "Helpdesk ",
	}, dispatcher)

	result, err := svc.Route(context.Background(), RouteInput{
		Title:       "Printer down",
		Description: "network printer offline",
		Customer:    helpdesk.Customer{Email: "jane@example.com"},
	})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if !result.GroupCreated || result.Group.Name != "Helpdesk IT Support" {
		t.Fatalf("expected auto-created prefixed group, got %+v created=%v",
			result.Group, result.GroupCreated)
	}
	if len(created) != 1 {
		t.Fatalf("published %d group_created events, want 1", len(created))
	}

	// Second route for the same department resolves from the in-process
	// cache without listing groups again.
	calls := connector.groupsCalls
	again, err := svc.Route(context.Background(), RouteInput{
		Title:       "Another printer down",
		Description: "printer on fire",
		Customer:    helpdesk.Customer{Email: "joe@example.com"},
	})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if again.GroupCreated {
		t.Fatal("second route re-created the group")
	}
	if connector.groupsCalls != calls {
		t.Fatalf("group list fetched again: %d calls, want %d", connector.groupsCalls, calls)
	}
}

func TestRoute_AutoCreateDisabled(t *testing.T) {
	connector := &fakeConnector{name: "zammad"}
	svc := testRoutingService(t, connector, config.RoutingConfig{
		DefaultBackend: "zammad",
	}, nil)

	_, err := svc.Route(context.Background(), RouteInput{
		Title:       "Printer down",
		Description: "network printer broken",
		Customer:    helpdesk.Customer{Email: "jane@example.com"},
	})
	if err == nil || !strings.Contains(err.Error(), "auto-creation is disabled") {
		t.Fatalf("error %v, want auto-creation disabled failure", err)
	}
	if len(connector.createdTickets) != 0 {
		t.Fatal("ticket created despite unresolved group")
	}
}

func TestRoute_UnknownBackend(t *testing.T) {
	connector := &fakeConnector{name: "zammad"}
	svc := testRoutingService(t, connector, config.RoutingConfig{DefaultBackend: "zammad"}, nil)
	_, err := svc.Route(context.Background(), RouteInput{
		Backend:     "jira",
		Title:       "Printer down",
		Description: "printer broken",
	})
	if err == nil || !strings.Contains(err.Error(), "unknown helpdesk backend") {
		t.Fatalf("error %v, want unknown backend failure", err)
	}
}

func TestRoute_RequiresTitle(t *testing.T) {
	connector := &fakeConnector{name: "zammad"}
	svc := testRoutingService(t, connector, config.RoutingConfig{DefaultBackend: "zammad"}, nil)
	_, err := svc.Route(context.Background(), RouteInput{
		Title:       "  ",
		Description: "printer broken",
	})
	if err == nil || !strings.Contains(err.Error(), "title is required") {
		t.Fatalf("error %v, want title validation failure", err)
	}
}

func TestRoute_PublishesTicketRouted(t *testing.T) {
	connector := &fakeConnector{
		name:   "zammad",
		groups: []helpdesk.Group{{ID: "1", Name: "IT Support"}},
	}
	dispatcher := events.NewInMemoryDispatcher()
	var routed []events.Event
	dispatcher.Subscribe(events.EventTicketRouted, func(_ context.Context, e events.Event) error {
		routed = append(routed, e)
		return nil
	})
	svc := testRoutingService(t, connector, config.RoutingConfig{DefaultBackend: "zammad"}, dispatcher)

	result, err := svc.Route(context.Background(), RouteInput{
		Title:       "Printer down",
		Description: "network printer broken",
		Customer:    helpdesk.Customer{Email: "jane@example.com"},
	})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(routed) != 1 {
		t.Fatalf("published %d ticket_routed events, want 1", len(routed))
	}
	payload, ok := routed[0].Payload.(events.TicketRoutedPayload)
	if !ok {
		t.Fatalf("payload type %T", routed[0].Payload)
	}
	if payload.ExternalKey != result.Classification.ExternalKey {
		t.Fatal("event not linked to the classification external key")
	}
	if payload.RemoteTicketID != "501" || payload.RemoteTicketNumber != "82001" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}
