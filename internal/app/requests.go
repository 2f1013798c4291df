package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"ArticleComposer/internal/domain"
)

// requestFile is one entry of a titles YAML file.
type requestFile struct {
	Title        string `yaml:"title"`
	Summary      string `yaml:"summary"`
	ScheduledFor string `yaml:"scheduledFor"`
}

// LoadRequests reads a YAML list of {title, summary, scheduledFor}. Dates use
// RFC 3339 or YYYY-MM-DD (noon in loc).
func LoadRequests(path string, loc *time.Location) ([]domain.ArticleRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read requests %s: %w", path, err)
	}
	return ParseRequests(raw, loc)
}

// ParseRequests decodes the titles YAML document.
func ParseRequests(raw []byte, loc *time.Location) ([]domain.ArticleRequest, error) {
	if loc == nil {
		loc = time.UTC
	}

	var entries []requestFile
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse requests: %w", err)
	}

	out := make([]domain.ArticleRequest, 0, len(entries))
	for i, e := range entries {
		req := domain.ArticleRequest{Title: e.Title, Summary: e.Summary}
		if s := strings.TrimSpace(e.ScheduledFor); s != "" {
			t, err := ParseDate(s, loc)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i+1, err)
			}
			req.ScheduledFor = &t
		}
		out = append(out, req)
	}
	return out, nil
}

// ParseDate accepts RFC 3339 timestamps or plain dates.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	d, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	y, m, day := d.Date()
	return time.Date(y, m, day, 12, 0, 0, 0, loc), nil
}

// TitlesToRequests turns positional titles into requests.
func TitlesToRequests(titles []string) []domain.ArticleRequest {
	out := make([]domain.ArticleRequest, 0, len(titles))
	for _, t := range titles {
		out = append(out, domain.ArticleRequest{Title: t})
	}
	return out
}
