package images

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ArticleComposer/internal/domain"
	"ArticleComposer/internal/ports"
)

// HTMLSearch scrapes an image search results page and returns the first
// image matched by the selector.
type HTMLSearch struct {
	client   *http.Client
	endpoint string
	selector string
}

var _ ports.ImageProvider = (*HTMLSearch)(nil)

// NewHTMLSearch wires an HTTP client; selector defaults to "img".
func NewHTMLSearch(client *http.Client, endpoint, selector string) *HTMLSearch {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if strings.TrimSpace(selector) == "" {
		selector = "img"
	}
	return &HTMLSearch{client: client, endpoint: endpoint, selector: selector}
}

// Search fetches the results page for query and picks the first usable image.
func (h *HTMLSearch) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("%w: empty query", domain.ErrNoResults)
	}

	pageURL, err := buildSearchURL(h.endpoint, query)
	if err != nil {
		return "", err
	}

	doc, err := h.fetchDocument(ctx, pageURL)
	if err != nil {
		return "", err
	}

	if src := firstImage(doc, h.selector, pageURL); src != "" {
		return src, nil
	}
	return "", fmt.Errorf("%w for %q", domain.ErrNoResults, query)
}

func (h *HTMLSearch) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "ArticleComposer/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request document: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: image search returned %s", domain.ErrProvider, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse document: %v", domain.ErrProvider, err)
	}

	return doc, nil
}

func firstImage(doc *goquery.Document, selector, pageURL string) string {
	base, _ := url.Parse(pageURL)

	var found string
	doc.Find(selector).EachWithBreak(func(_ int, img *goquery.Selection) bool {
		for _, attr := range []string{"data-src", "src"} {
			src, ok := img.Attr(attr)
			src = strings.TrimSpace(src)
			if !ok || src == "" || strings.HasPrefix(src, "data:") {
				continue
			}
			found = resolve(base, src)
			return false
		}
		return true
	})
	return found
}

func resolve(base *url.URL, src string) string {
	ref, err := url.Parse(src)
	if err != nil || base == nil {
		return src
	}
	return base.ResolveReference(ref).String()
}

func buildSearchURL(endpoint, query string) (string, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid image search url %s: %w", endpoint, err)
	}

	q := parsed.Query()
	q.Set("q", query)
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}
