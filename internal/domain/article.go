package domain

import (
	"strings"
	"time"
)

// Fallback content substituted when a stage's external call fails.
const (
	FallbackSummary = "No summary available."
	FallbackContent = "Content generation failed. Please try again."
	FallbackTLDR    = "TL;DR generation failed. Please try again."
	FallbackImage   = "https://placehold.co/1200x630?text=Article"
)

// ArticleRequest is one title queued by the operator for generation.
type ArticleRequest struct {
	ID           string
	Title        string
	Summary      string
	ScheduledFor *time.Time
}

// HasSummary reports whether the operator already supplied a summary.
func (r ArticleRequest) HasSummary() bool {
	return strings.TrimSpace(r.Summary) != ""
}

// GeneratedText is the raw output of a content generator call. Structured
// results fill Title/Summary; plain results only fill Text.
type GeneratedText struct {
	Text       string
	Title      string
	Summary    string
	ImageQuery string
}

// SummaryText extracts a summary from either a structured or a plain result.
func (g GeneratedText) SummaryText() string {
	if s := strings.TrimSpace(g.Summary); s != "" {
		return s
	}
	return strings.TrimSpace(g.Text)
}

// SearchQuery returns the image query hint, falling back to the plain text.
func (g GeneratedText) SearchQuery() string {
	if q := strings.TrimSpace(g.ImageQuery); q != "" {
		return q
	}
	return strings.TrimSpace(g.Text)
}

// GeneratedArticle is the persistable record assembled at the end of a run.
type GeneratedArticle struct {
	ID            string
	Title         string
	Summary       string
	Content       string
	TLDR          string
	Image         string
	AuthorID      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	PublishedDate *time.Time
	ScheduledFor  time.Time
}
