package notion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"docbridge/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestFetchBlockTree(t *testing.T) {
	// root has two pages of children; the first child has one child of
	// its own
	responses := map[string][]string{
		"/v1/blocks/root/children": {
			`{"results":[{"id":"a","type":"paragraph","has_children":true,"paragraph":{"rich_text":[{"plain_text":"A"}]}}],"has_more":true,"next_cursor":"c1"}`,
			`{"results":[{"id":"b","type":"paragraph","has_children":false,"paragraph":{"rich_text":[{"plain_text":"B"}]}}],"has_more":false}`,
		},
		"/v1/blocks/a/children": {
			`{"results":[{"id":"a1","type":"paragraph","has_children":false,"paragraph":{"rich_text":[{"plain_text":"A1"}]}}],"has_more":false}`,
		},
	}
	calls := map[string]int{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Notion-Version"); got != apiVersion {
			t.Errorf("missing api version header, got %q", got)
		}
		pages, ok := responses[r.URL.Path]
		if !ok {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		idx := calls[r.URL.Path]
		calls[r.URL.Path]++
		if idx >= len(pages) {
			t.Fatalf("too many calls to %s", r.URL.Path)
		}
		if idx > 0 && r.URL.Query().Get("start_cursor") == "" {
			t.Errorf("second page of %s requested without cursor", r.URL.Path)
		}
		fmt.Fprint(w, pages[idx])
	}))
	defer server.Close()

	client := NewClientWithBaseURL("secret", server.URL+"/v1", testLogger())
	blocks, err := client.FetchBlockTree(context.Background(), "root")
	if err != nil {
		t.Fatalf("FetchBlockTree() error: %v", err)
	}

	if len(blocks) != 2 {
		t.Fatalf("expected 2 top-level blocks, got %d", len(blocks))
	}
	if blocks[0].ID != "a" || blocks[1].ID != "b" {
		t.Errorf("sibling order not preserved: %s, %s", blocks[0].ID, blocks[1].ID)
	}
	if len(blocks[0].Children) != 1 || blocks[0].Children[0].ID != "a1" {
		t.Errorf("children of first block not materialized: %+v", blocks[0].Children)
	}
	if len(blocks[1].Children) != 0 {
		t.Errorf("unexpected children on second block")
	}
}

func TestFetchBlockTreeFailurePropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("secret", server.URL+"/v1", testLogger())
	_, err := client.FetchBlockTree(context.Background(), "root")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Errorf("expected upstream error, got %v", err)
	}
}

func TestRetrievePageNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"missing"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("secret", server.URL+"/v1", testLogger())
	_, err := client.RetrievePage(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestListUsers(t *testing.T) {
	responses := []string{
		`{"results":[{"id":"u1","name":"Ana","type":"person","person":{"email":"ana@example.com"}}],"has_more":true,"next_cursor":"c1"}`,
		`{"results":[{"id":"u2","name":"Relay Bot","type":"bot"}],"has_more":false}`,
	}
	call := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/users" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if call > 0 && r.URL.Query().Get("start_cursor") != "c1" {
			t.Errorf("second page requested without cursor")
		}
		fmt.Fprint(w, responses[call])
		call++
	}))
	defer server.Close()

	client := NewClientWithBaseURL("secret", server.URL+"/v1", testLogger())
	users, err := client.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers() error: %v", err)
	}

	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].Person == nil || users[0].Person.Email != "ana@example.com" {
		t.Errorf("person email not parsed: %+v", users[0])
	}
	if users[1].Type != "bot" || users[1].Person != nil {
		t.Errorf("bot user parsed wrong: %+v", users[1])
	}
}
