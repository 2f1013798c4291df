package images

import (
	"context"
	"fmt"
	"strings"

	"ArticleComposer/internal/config"
	"ArticleComposer/internal/ports"
)

// New picks the backend named in configuration.
func New(cfg config.ImagesConfig) (ports.ImageProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "api":
		return NewAPIClient(cfg.Endpoint, cfg.APIKey), nil
	case "html":
		return NewHTMLSearch(nil, cfg.Endpoint, cfg.Selector), nil
	case "static":
		return Static(cfg.Placeholder), nil
	default:
		return nil, fmt.Errorf("image provider %s is not supported", cfg.Provider)
	}
}

// Static always answers with the same URL; used for offline runs.
type Static string

// Search returns the configured URL.
func (s Static) Search(context.Context, string) (string, error) {
	return string(s), nil
}
