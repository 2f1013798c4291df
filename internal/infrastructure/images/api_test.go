package images

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ArticleComposer/internal/config"
	"ArticleComposer/internal/domain"
)

func TestAPIClientSearch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Client-ID key" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		if r.URL.Query().Get("query") != "retro consoles" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"results":[{"urls":{"regular":"https://cdn.example.org/a.jpg"}}]}`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, "key")
	got, err := client.Search(context.Background(), "retro consoles")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if got != "https://cdn.example.org/a.jpg" {
		t.Fatalf("unexpected url: %s", got)
	}
}

func TestAPIClientEmptyResults(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	_, err := NewAPIClient(server.URL, "").Search(context.Background(), "q")
	if !errors.Is(err, domain.ErrNoResults) {
		t.Fatalf("expected no results, got %v", err)
	}
}

func TestAPIClientStatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := NewAPIClient(server.URL, "").Search(context.Background(), "q")
	if !errors.Is(err, domain.ErrProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestNewSelectsBackend(t *testing.T) {
	t.Parallel()

	if p, err := New(config.ImagesConfig{Provider: "html", Endpoint: "https://x"}); err != nil {
		t.Fatalf("html provider: %v", err)
	} else if _, ok := p.(*HTMLSearch); !ok {
		t.Fatalf("expected *HTMLSearch, got %T", p)
	}

	if _, err := New(config.ImagesConfig{Provider: "carrier-pigeon"}); err == nil {
		t.Fatalf("expected error for unknown provider")
	}

	p, err := New(config.ImagesConfig{Provider: "static", Placeholder: "https://x/p.png"})
	if err != nil {
		t.Fatalf("static provider: %v", err)
	}
	if got, _ := p.Search(context.Background(), "q"); got != "https://x/p.png" {
		t.Fatalf("unexpected static url: %s", got)
	}
}
