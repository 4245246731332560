package zammad

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ticket-classifier/internal/config"
	"github.com/spec-kit/ticket-classifier/internal/helpdesk"
)

// priorityIDs maps lowercased priority labels to Zammad priority IDs.
var priorityIDs = map[string]int{
	"low":    1,
	"normal": 2,
	"medium": 2,
	"high":   3,
	"urgent": 3,
}

// Connector talks to the Zammad REST API using either an HTTP token or
// basic auth.
type Connector struct {
	baseURL    string
	token      string
	username   string
	password   string
	httpClient *http.Client
}

// New builds a Zammad connector from config.
func New(cfg config.ZammadConfig, timeout time.Duration) (*Connector, error) {
	if !cfg.Configured() {
		return nil, errors.New("zammad credentials not configured: set ZAMMAD_HTTP_TOKEN or both ZAMMAD_USERNAME and ZAMMAD_PASSWORD")
	}
	return &Connector{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		token:      cfg.HTTPToken,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Name implements helpdesk.Connector.
func (c *Connector) Name() string { return "zammad" }

// Ping verifies credentials by fetching the authenticated user.
func (c *Connector) Ping(ctx context.Context) error {
	var me struct {
		ID int `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/users/me", nil, &me); err != nil {
		return err
	}
	if me.ID == 0 {
		return errors.New("zammad authentication returned no user id")
	}
	return nil
}

type group struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Groups lists active Zammad groups.
func (c *Connector) Groups(ctx context.Context) ([]helpdesk.Group, error) {
	var groups []group
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/groups", nil, &groups); err != nil {
		return nil, err
	}
	out := make([]helpdesk.Group, 0, len(groups))
	for _, g := range groups {
		if !g.Active {
			continue
		}
		out = append(out, helpdesk.Group{ID: strconv.Itoa(g.ID), Name: g.Name})
	}
	return out, nil
}

// CreateGroup provisions a group with the defaults the autogroup flow uses.
func (c *Connector) CreateGroup(ctx context.Context, name string) (*helpdesk.Group, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("group name is required")
	}
	payload := map[string]any{
		"name":                 strings.TrimSpace(name),
		"active":               true,
		"follow_up_possible":   "new_ticket",
		"follow_up_assignment": false,
	}
	var created group
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/groups", payload, &created); err != nil {
		return nil, err
	}
	return &helpdesk.Group{ID: strconv.Itoa(created.ID), Name: created.Name}, nil
}

type user struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// FindOrCreateCustomer searches by email and creates a Customer-role user
// when none exists.
func (c *Connector) FindOrCreateCustomer(ctx context.Context, customer helpdesk.Customer) (string, error) {
	if customer.Email == "" {
		return "", errors.New("customer email is required")
	}
	query := url.Values{"query": []string{"email:" + customer.Email}}
	var found []user
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/users/search?"+query.Encode(), nil, &found); err != nil {
		return "", err
	}
	for _, u := range found {
		if strings.EqualFold(u.Email, customer.Email) {
			return strconv.Itoa(u.ID), nil
		}
	}

	payload := map[string]any{
		"email":     customer.Email,
		"firstname": customer.FirstName,
		"lastname":  customer.LastName,
		"roles":     []string{"Customer"},
		// random throwaway password; the account is API-provisioned and
		// never logged into directly
		"password": uuid.NewString(),
	}
	var created user
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/users", payload, &created); err != nil {
		return "", err
	}
	return strconv.Itoa(created.ID), nil
}

type ticket struct {
	ID     int    `json:"id"`
	Number string `json:"number"`
	Title  string `json:"title"`
}

// CreateTicket files a ticket with the classified priority and group.
func (c *Connector) CreateTicket(ctx context.Context, t helpdesk.NewTicket) (*helpdesk.Ticket, error) {
	groupID, err := strconv.Atoi(t.GroupID)
	if err != nil {
		return nil, fmt.Errorf("invalid zammad group id %q", t.GroupID)
	}
	customerID, err := strconv.Atoi(t.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("invalid zammad customer id %q", t.CustomerID)
	}
	payload := map[string]any{
		"title":       t.Title,
		"group_id":    groupID,
		"customer_id": customerID,
		"priority_id": priorityID(t.Priority),
		"article": map[string]any{
			"subject":  t.Title,
			"body":     t.Body,
			"type":     "note",
			"internal": false,
		},
	}
	var created ticket
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/tickets", payload, &created); err != nil {
		return nil, err
	}
	return &helpdesk.Ticket{ID: strconv.Itoa(created.ID), Number: created.Number, Title: created.Title}, nil
}

func priorityID(label string) int {
	if id, ok := priorityIDs[strings.ToLower(strings.TrimSpace(label))]; ok {
		return id
	}
	return priorityIDs["normal"]
}

func (c *Connector) doJSON(ctx context.Context, method, path string, payload, dest any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Token token="+c.token)
	} else {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(data)
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return fmt.Errorf("zammad %s %s: HTTP %d: %s", method, path, resp.StatusCode, snippet)
	}
	if dest == nil {
		return nil
	}
	return json.Unmarshal(data, dest)
}
