package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-classifier/internal/config"
	"github.com/spec-kit/ticket-classifier/internal/events"
	"github.com/spec-kit/ticket-classifier/internal/helpdesk"
)

// RouteInput describes a ticket to classify and file in a helpdesk backend.
type RouteInput struct {
	Backend     string
	Title       string
	Description string
	Customer    helpdesk.Customer
}

// RouteResult carries the prediction together with the created remote
// ticket.
type RouteResult struct {
	Classification *Classification
	Backend        string
	Group          helpdesk.Group
	GroupCreated   bool
	Ticket         *helpdesk.Ticket
}

// RoutingService classifies a description and routes the resulting ticket
// into a helpdesk backend, auto-provisioning the destination group when it
// does not yet exist.
type RoutingService struct {
	classification *ClassificationService
	registry       *helpdesk.Registry
	cfg            config.RoutingConfig
	dispatcher     events.Dispatcher
	logger         *zap.Logger

	mu     sync.Mutex
	groups map[string]helpdesk.Group // backend|lowercase-name → group
}

// RoutingDependencies bundles collaborators for the routing service.
type RoutingDependencies struct {
	Classification *ClassificationService
	Registry       *helpdesk.Registry
	Config         config.RoutingConfig
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewRoutingService constructs the service.
func NewRoutingService(deps RoutingDependencies) *RoutingService {
	return &RoutingService{
		classification: deps.Classification,
		registry:       deps.Registry,
		cfg:            deps.Config,
		dispatcher:     deps.Dispatcher,
		logger:         deps.Logger,
		groups:         make(map[string]helpdesk.Group),
	}
}

// Backends lists the registered helpdesk backends.
func (s *RoutingService) Backends() []string {
	return s.registry.Backends()
}

// Route classifies the description, resolves the predicted department to a
// backend group and files the ticket for the customer.
func (s *RoutingService) Route(ctx context.Context, input RouteInput) (*RouteResult, error) {
	backend := input.Backend
	if backend == "" {
		backend = s.cfg.DefaultBackend
	}
	connector, err := s.registry.Get(backend)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.New("title is required")
	}

	classification, err := s.classification.Classify(ctx, input.Description)
	if err != nil {
		return nil, err
	}

	group, created, err := s.resolveGroup(ctx, connector, classification.Department)
	if err != nil {
		return nil, err
	}

	customerID, err := connector.FindOrCreateCustomer(ctx, input.Customer)
	if err != nil {
		return nil, err
	}

	ticket, err := connector.CreateTicket(ctx, helpdesk.NewTicket{
		Title:      input.Title,
		Body:       input.Description,
		GroupID:    group.ID,
		CustomerID: customerID,
		Priority:   classification.Priority,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket routed",
		zap.String("backend", backend),
		zap.String("department", classification.Department),
		zap.String("priority", classification.Priority),
		zap.String("group", group.Name),
		zap.String("remote_ticket_id", ticket.ID),
	)
	s.publish(ctx, events.EventTicketRouted, events.TicketRoutedPayload{
		ExternalKey:        classification.ExternalKey,
		Backend:            backend,
		Department:         classification.Department,
		Priority:           classification.Priority,
		GroupName:          group.Name,
		RemoteTicketID:     ticket.ID,
		RemoteTicketNumber: ticket.Number,
	})

	return &RouteResult{
		Classification: classification,
		Backend:        backend,
		Group:          group,
		GroupCreated:   created,
		Ticket:         ticket,
	}, nil
}

// resolveGroup maps a predicted department to a backend group by
// case-insensitive name, honoring the configured prefix, and provisions the
// group when auto-creation is enabled. Resolutions are cached per process.
func (s *RoutingService) resolveGroup(ctx context.Context, connector helpdesk.Connector, department string) (helpdesk.Group, bool, error) {
	wanted := s.cfg.GroupPrefix + department
	cacheKey := connector.Name() + "|" + strings.ToLower(wanted)

	s.mu.Lock()
	if group, ok := s.groups[cacheKey]; ok {
		s.mu.Unlock()
		return group, false, nil
	}
	s.mu.Unlock()

	groups, err := connector.Groups(ctx)
	if err != nil {
		return helpdesk.Group{}, false, err
	}
	for _, group := range groups {
		if strings.EqualFold(group.Name, wanted) || strings.EqualFold(group.Name, department) {
			s.remember(cacheKey, group)
			return group, false, nil
		}
	}

	if !s.cfg.AutoCreateGroups {
		return helpdesk.Group{}, false, errors.New("no group matches department " + department + " and auto-creation is disabled")
	}

	created, err := connector.CreateGroup(ctx, wanted)
	if err != nil {
		return helpdesk.Group{}, false, err
	}
	s.remember(cacheKey, *created)
	s.publish(ctx, events.EventGroupCreated, events.GroupCreatedPayload{
		Backend:  connector.Name(),
		Name:     created.Name,
		RemoteID: created.ID,
	})
	return *created, true, nil
}

func (s *RoutingService) remember(key string, group helpdesk.Group) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[key] = group
}

func (s *RoutingService) publish(ctx context.Context, eventType events.EventType, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
