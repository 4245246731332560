package zendesk

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

	"github.com/spec-kit/ticket-classifier/internal/config"
	"github.com/spec-kit/ticket-classifier/internal/helpdesk"
)

// priorities maps lowercased priority labels to Zendesk's string priority.
var priorities = map[string]string{
	"low":    "low",
	"normal": "normal",
	"medium": "normal",
	"high":   "high",
	"urgent": "urgent",
}

// Connector talks to the Zendesk v2 REST API with email/token basic auth.
type Connector struct {
	baseURL    string
	email      string
	apiToken   string
	httpClient *http.Client
}

// New builds a Zendesk connector from config.
func New(cfg config.ZendeskConfig, timeout time.Duration) (*Connector, error) {
	if !cfg.Configured() {
		return nil, errors.New("zendesk credentials not configured: set ZENDESK_SUBDOMAIN, ZENDESK_EMAIL and ZENDESK_TOKEN")
	}
	return &Connector{
		baseURL:    fmt.Sprintf("https://%s.zendesk.com/api/v2", cfg.Subdomain),
		email:      cfg.Email,
		apiToken:   cfg.APIToken,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// newWithBaseURL is used by tests to point the connector at a test server.
func newWithBaseURL(baseURL, email, apiToken string) *Connector {
	return &Connector{
		baseURL:    strings.TrimRight(baseURL, "/"),
		email:      email,
		apiToken:   apiToken,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Name implements helpdesk.Connector.
func (c *Connector) Name() string { return "zendesk" }

// Ping verifies credentials by fetching the authenticated user. An
// anonymous response means the token is not actually valid.
func (c *Connector) Ping(ctx context.Context) error {
	var resp struct {
		User struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/users/me.json", nil, &resp); err != nil {
		return err
	}
	if resp.User.ID == 0 || resp.User.Name == "Anonymous user" {
		return errors.New("zendesk authenticated as anonymous user; check token and email")
	}
	return nil
}

// Groups lists Zendesk groups.
func (c *Connector) Groups(ctx context.Context) ([]helpdesk.Group, error) {
	var resp struct {
		Groups []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"groups"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/groups.json", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]helpdesk.Group, 0, len(resp.Groups))
	for _, g := range resp.Groups {
		out = append(out, helpdesk.Group{ID: strconv.FormatInt(g.ID, 10), Name: g.Name})
	}
	return out, nil
}

// CreateGroup provisions a group.
func (c *Connector) CreateGroup(ctx context.Context, name string) (*helpdesk.Group, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("group name is required")
	}
	payload := map[string]any{"group": map[string]any{"name": strings.TrimSpace(name)}}
	var resp struct {
		Group struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"group"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/groups.json", payload, &resp); err != nil {
		return nil, err
	}
	return &helpdesk.Group{ID: strconv.FormatInt(resp.Group.ID, 10), Name: resp.Group.Name}, nil
}

// FindOrCreateCustomer resolves an end user by email, creating one when
// absent.
func (c *Connector) FindOrCreateCustomer(ctx context.Context, customer helpdesk.Customer) (string, error) {
	if customer.Email == "" {
		return "", errors.New("customer email is required")
	}
	query := url.Values{"query": []string{"email:" + customer.Email}}
	var search struct {
		Users []struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
		} `json:"users"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/users/search.json?"+query.Encode(), nil, &search); err != nil {
		return "", err
	}
	for _, u := range search.Users {
		if strings.EqualFold(u.Email, customer.Email) {
			return strconv.FormatInt(u.ID, 10), nil
		}
	}

	payload := map[string]any{"user": map[string]any{
		"name":     strings.TrimSpace(customer.FirstName + " " + customer.LastName),
		"email":    customer.Email,
		"role":     "end-user",
		"verified": true,
	}}
	var created struct {
		User struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/users.json", payload, &created); err != nil {
		return "", err
	}
	return strconv.FormatInt(created.User.ID, 10), nil
}

// CreateTicket files a ticket with the classified priority and group.
func (c *Connector) CreateTicket(ctx context.Context, t helpdesk.NewTicket) (*helpdesk.Ticket, error) {
	groupID, err := strconv.ParseInt(t.GroupID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid zendesk group id %q", t.GroupID)
	}
	requesterID, err := strconv.ParseInt(t.CustomerID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid zendesk requester id %q", t.CustomerID)
	}
	payload := map[string]any{"ticket": map[string]any{
		"subject":      t.Title,
		"comment":      map[string]any{"body": t.Body},
		"group_id":     groupID,
		"requester_id": requesterID,
		"priority":     priority(t.Priority),
	}}
	var resp struct {
		Ticket struct {
			ID      int64  `json:"id"`
			Subject string `json:"subject"`
		} `json:"ticket"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/tickets.json", payload, &resp); err != nil {
		return nil, err
	}
	id := strconv.FormatInt(resp.Ticket.ID, 10)
	return &helpdesk.Ticket{ID: id, Number: id, Title: resp.Ticket.Subject}, nil
}

func priority(label string) string {
	if p, ok := priorities[strings.ToLower(strings.TrimSpace(label))]; ok {
		return p
	}
	return "normal"
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
	req.SetBasicAuth(c.email+"/token", c.apiToken)

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
		return fmt.Errorf("zendesk %s %s: HTTP %d: %s", method, path, resp.StatusCode, snippet)
	}
	if dest == nil {
		return nil
	}
	return json.Unmarshal(data, dest)
}
