package images

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"ArticleComposer/internal/domain"
)

func TestBuildSearchURL(t *testing.T) {
	t.Parallel()

	u, err := buildSearchURL("https://images.example.org/search?safe=on", "retro consoles")
	if err != nil {
		t.Fatalf("buildSearchURL returned error: %v", err)
	}

	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}

	q := parsed.Query()
	if q.Get("q") != "retro consoles" {
		t.Fatalf("expected q=retro consoles, got %s", q.Get("q"))
	}
	if q.Get("safe") != "on" {
		t.Fatalf("existing params should survive, got %s", parsed.RawQuery)
	}
}

func TestFirstImageSkipsInlineData(t *testing.T) {
	t.Parallel()

	html := `
	<div class="results">
	  <img class="thumb" src="data:image/gif;base64,R0lGOD">
	  <img class="thumb" data-src="/photos/castle.jpg" src="data:image/gif;base64,R0lGOD">
	  <img class="thumb" src="https://cdn.example.org/other.jpg">
	</div>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	got := firstImage(doc, "img.thumb", "https://images.example.org/search?q=castle")
	if got != "https://images.example.org/photos/castle.jpg" {
		t.Fatalf("unexpected image: %s", got)
	}
}

func TestHTMLSearch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "fantasy castle" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`
		<html><body>
		  <img class="logo" src="/logo.png">
		  <figure class="result"><img src="/img/castle-1.jpg"></figure>
		  <figure class="result"><img src="/img/castle-2.jpg"></figure>
		</body></html>`))
	}))
	defer server.Close()

	search := NewHTMLSearch(server.Client(), server.URL+"/search", "figure.result img")

	got, err := search.Search(context.Background(), "fantasy castle")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if got != server.URL+"/img/castle-1.jpg" {
		t.Fatalf("unexpected image url: %s", got)
	}
}

func TestHTMLSearchNoResults(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>nothing here</p></body></html>`))
	}))
	defer server.Close()

	search := NewHTMLSearch(server.Client(), server.URL, "")
	_, err := search.Search(context.Background(), "anything")
	if !errors.Is(err, domain.ErrNoResults) {
		t.Fatalf("expected no results error, got %v", err)
	}
}

func TestHTMLSearchProviderError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	search := NewHTMLSearch(server.Client(), server.URL, "")
	_, err := search.Search(context.Background(), "anything")
	if !errors.Is(err, domain.ErrProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
}
