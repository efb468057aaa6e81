// ABOUTME: Tests for the API client error mapping and resource filtering
// ABOUTME: Uses httptest servers to simulate auth failures and list responses
package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/harperreed/revline/models"
)

func TestAuthErrorMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-token", 0)
	_, err := client.ListActions(context.Background(), []string{"lead-1"}, false)

	if !IsAuthError(err) {
		t.Errorf("expected AuthError, got %v", err)
	}
}

func TestNetworkErrorMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 0)
	_, err := client.ListNotes(context.Background(), []string{"lead-1"}, false)

	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Errorf("expected NetworkError, got %v", err)
	}
}

func TestConflictErrorOnWrite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte("duplicate note"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 0)
	_, err := client.CreateNote(context.Background(), models.Note{Content: "x"})

	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if ce.Status != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", ce.Status)
	}
}

func TestListActionsFiltering(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"actions": [
			{"id": "a1", "type": "call", "lead_id": "lead-1"},
			{"id": "a2", "type": "call", "lead_id": "other-lead"},
			{"id": "a3", "type": "record_updated", "lead_id": "lead-1"},
			{"id": "a4", "type": "email", "contact_id": "person-7"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 0)
	actions, err := client.ListActions(context.Background(), []string{"lead-1", "person-7"}, false)
	if err != nil {
		t.Fatalf("ListActions failed: %v", err)
	}

	got := make(map[string]bool)
	for _, a := range actions {
		got[a.ID] = true
	}

	if !got["a1"] || !got["a4"] {
		t.Errorf("expected a1 and a4 to match foreign keys, got %v", got)
	}
	if got["a2"] {
		t.Error("a2 belongs to a different record and must be filtered out")
	}
	if got["a3"] {
		t.Error("housekeeping action types must be excluded")
	}
}

func TestListNotesFiltering(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"notes": [
			{"id": "n1", "company_id": "co-1"},
			{"id": "n2", "lead_id": "unrelated"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 0)
	notes, err := client.ListNotes(context.Background(), []string{"co-1"}, false)
	if err != nil {
		t.Fatalf("ListNotes failed: %v", err)
	}
	if len(notes) != 1 || notes[0].ID != "n1" {
		t.Errorf("expected only n1, got %+v", notes)
	}
}

func TestCacheBustingDiscriminator(t *testing.T) {
	var gotBust bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBust = r.URL.Query().Get("_") != ""
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"actions": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 0)

	_, _ = client.ListActions(context.Background(), []string{"lead-1"}, false)
	if gotBust {
		t.Error("unforced request must not carry a cache-busting param")
	}

	_, _ = client.ListActions(context.Background(), []string{"lead-1"}, true)
	if !gotBust {
		t.Error("forced request must carry a cache-busting param")
	}
}

func TestAuthHeaderSent(t *testing.T) {
	var gotAuth, gotReqID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "u1", "name": "Dana"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-token", 0)
	user, err := client.GetUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
	if gotReqID == "" {
		t.Error("expected a request id header on every call")
	}
	if user.Name != "Dana" {
		t.Errorf("unexpected user: %+v", user)
	}
}
