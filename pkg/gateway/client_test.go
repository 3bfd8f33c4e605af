package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/docdesk/docdesk/pkg/domain"
)

func TestAsk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ask" {
			t.Errorf("path = %s, want /api/ask", r.URL.Path)
		}
		var req askRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Question != "How much leave?" || req.DeptType != "HR" {
			t.Errorf("request = %+v", req)
		}
		if len(req.Documents) != 1 || req.Documents[0].Title != "leave.txt" {
			t.Errorf("documents = %+v", req.Documents)
		}
		if len(req.History) != 2 {
			t.Errorf("history len = %d, want 2", len(req.History))
		}
		json.NewEncoder(w).Encode(askResponse{Text: "20 days."})
	}))
	defer srv.Close()

	c := New(srv.URL)
	text, err := c.Ask(context.Background(),
		[]domain.DocumentRef{{Title: "leave.txt", Content: "Annual leave is 20 days."}},
		"How much leave?",
		[]domain.Turn{
			{Role: domain.RoleUser, Text: "hi"},
			{Role: domain.RoleModel, Text: "hello"},
		},
		domain.DeptHR,
	)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if text != "20 days." {
		t.Errorf("text = %q", text)
	}
}

func TestAskGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "quota exceeded"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Ask(context.Background(), nil, "q", nil, domain.DeptGeneral)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "quota exceeded") || !strings.Contains(err.Error(), "500") {
		t.Errorf("err = %v, want status and payload detail", err)
	}
}

func TestAskUnstructuredError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Ask(context.Background(), nil, "q", nil, domain.DeptGeneral)
	if err == nil || !strings.Contains(err.Error(), "bad gateway") {
		t.Errorf("err = %v, want raw body surfaced", err)
	}
}

func TestSuggest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/suggest" {
			t.Errorf("path = %s, want /api/suggest", r.URL.Path)
		}
		json.NewEncoder(w).Encode(suggestResponse{Suggestions: []string{"Next question?"}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	got, err := c.Suggest(context.Background(), nil, domain.DeptIT)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 1 || got[0] != "Next question?" {
		t.Errorf("suggestions = %v", got)
	}
}
