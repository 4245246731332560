package zendesk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spec-kit/ticket-classifier/internal/config"
	"github.com/spec-kit/ticket-classifier/internal/helpdesk"
)

func testConnector(t *testing.T, handler http.Handler) *Connector {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return newWithBaseURL(server.URL, "agent@example.com", "api-token")
}

func TestNew_RequiresCredentials(t *testing.T) {
	if _, err := New(config.ZendeskConfig{Subdomain: "acme"}, time.Second); err == nil {
		t.Fatal("expected error without email and token")
	}
}

func TestPing_SendsTokenBasicAuth(t *testing.T) {
	conn := testConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "agent@example.com/token" || pass != "api-token" {
			t.Errorf("basic auth = %q/%q ok=%v", user, pass, ok)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"id": 101, "name": "Agent Smith"},
		})
	}))
	if err := conn.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestPing_RejectsAnonymousUser(t *testing.T) {
	conn := testConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"id": 0, "name": "Anonymous user"},
		})
	}))
	if err := conn.Ping(context.Background()); err == nil {
		t.Fatal("expected error for anonymous authentication")
	}
}

func TestGroups(t *testing.T) {
	conn := testConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"groups": []map[string]any{
				{"id": 360001, "name": "Support"},
				{"id": 360002, "name": "Billing"},
			},
		})
	}))
	groups, err := conn.Groups(context.Background())
	if err != nil {
		t.Fatalf("Groups: %v", err)
	}
	if len(groups) != 2 || groups[0].ID != "360001" || groups[1].Name != "Billing" {
		t.Fatalf("unexpected groups %+v", groups)
	}
}

func TestCreateGroup(t *testing.T) {
	conn := testConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/groups.json" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var payload struct {
			Group struct {
				Name string `json:"name"`
			} `json:"group"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.Group.Name != "IT Support" {
			t.Errorf("group name = %q", payload.Group.Name)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"group": map[string]any{"id": 360010, "name": "IT Support"},
		})
	}))
	group, err := conn.CreateGroup(context.Background(), "IT Support")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if group.ID != "360010" || group.Name != "IT Support" {
		t.Fatalf("unexpected group %+v", group)
	}
}

func TestFindOrCreateCustomer(t *testing.T) {
	conn := testConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/users/search.json":
			json.NewEncoder(w).Encode(map[string]any{"users": []map[string]any{}})
		case r.Method == http.MethodPost && r.URL.Path == "/users.json":
			var payload struct {
				User struct {
					Name     string `json:"name"`
					Email    string `json:"email"`
					Role     string `json:"role"`
					Verified bool   `json:"verified"`
				} `json:"user"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatalf("decode payload: %v", err)
			}
			if payload.User.Role != "end-user" || !payload.User.Verified {
				t.Errorf("user payload %+v", payload.User)
			}
			if payload.User.Name != "Jane Doe" {
				t.Errorf("name = %q", payload.User.Name)
			}
			json.NewEncoder(w).Encode(map[string]any{"user": map[string]any{"id": 9001}})
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}))
	id, err := conn.FindOrCreateCustomer(context.Background(), helpdesk.Customer{
		Email: "jane@example.com", FirstName: "Jane", LastName: "Doe",
	})
	if err != nil {
		t.Fatalf("FindOrCreateCustomer: %v", err)
	}
	if id != "9001" {
		t.Fatalf("id = %q, want 9001", id)
	}
}

func TestCreateTicket_MapsPriority(t *testing.T) {
	cases := []struct {
		priority string
		want     string
	}{
		{"Low", "low"},
		{"Normal", "normal"},
		{"Medium", "normal"},
		{"High", "high"},
		{"Urgent", "urgent"},
		{"anything-else", "normal"},
	}
	for _, tc := range cases {
		conn := testConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var payload struct {
				Ticket struct {
					Subject  string `json:"subject"`
					Priority string `json:"priority"`
					GroupID  int64  `json:"group_id"`
				} `json:"ticket"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatalf("decode payload: %v", err)
			}
			if payload.Ticket.Priority != tc.want {
				t.Errorf("priority %q mapped to %q, want %q", tc.priority, payload.Ticket.Priority, tc.want)
			}
			if payload.Ticket.GroupID != 360001 {
				t.Errorf("group_id = %d", payload.Ticket.GroupID)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"ticket": map[string]any{"id": 77, "subject": payload.Ticket.Subject},
			})
		}))
		ticket, err := conn.CreateTicket(context.Background(), helpdesk.NewTicket{
			Title:      "VPN broken",
			Body:       "cannot connect",
			GroupID:    "360001",
			CustomerID: "9001",
			Priority:   tc.priority,
		})
		if err != nil {
			t.Fatalf("CreateTicket(%s): %v", tc.priority, err)
		}
		if ticket.ID != "77" || ticket.Number != "77" {
			t.Fatalf("unexpected ticket %+v", ticket)
		}
	}
}
