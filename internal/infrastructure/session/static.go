package session

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"ArticleComposer/internal/ports"
)

// StaticProvider exposes the operator identity configured for the CLI.
type StaticProvider struct {
	authorID string
}

var _ ports.SessionProvider = (*StaticProvider)(nil)

// NewStaticProvider keeps authorID only when it is a valid UUID.
func NewStaticProvider(authorID string) *StaticProvider {
	authorID = strings.TrimSpace(authorID)
	if _, err := uuid.Parse(authorID); err != nil {
		authorID = ""
	}
	return &StaticProvider{authorID: authorID}
}

// CurrentAuthorID returns the identity, false when none is configured.
func (p *StaticProvider) CurrentAuthorID(context.Context) (string, bool) {
	if p == nil || p.authorID == "" {
		return "", false
	}
	return p.authorID, true
}
