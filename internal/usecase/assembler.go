package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ArticleComposer/internal/domain"
	"ArticleComposer/internal/ports"
)

// ArticleAssembler merges stage outputs into a record and writes it.
type ArticleAssembler struct {
	store    ports.ArticleStore
	notifier ports.Notifier
	logger   *slog.Logger
	image    string
}

// NewArticleAssembler wires the store and the optional notifier.
func NewArticleAssembler(store ports.ArticleStore, notifier ports.Notifier, logger *slog.Logger) *ArticleAssembler {
	return &ArticleAssembler{store: store, notifier: notifier, logger: logger, image: domain.FallbackImage}
}

// Build applies fallbacks for every stage that did not complete.
func (a *ArticleAssembler) Build(d Draft, results map[domain.StageKey]StageResult, authorID string, scheduledFor, now time.Time) domain.GeneratedArticle {
	content := d.Content
	if !succeeded(results, domain.StageContent) || content == "" {
		content = domain.FallbackContent
	}

	tldr := d.TLDR
	if !succeeded(results, domain.StageTLDR) || tldr == "" {
		tldr = domain.FallbackTLDR
	}

	image := d.Image
	if image == "" {
		image = a.image
	}

	summary := strings.TrimSpace(d.Request.Summary)
	if summary == "" {
		summary = domain.FallbackSummary
	}

	return domain.GeneratedArticle{
		Title:         d.Request.Title,
		Summary:       summary,
		Content:       content,
		TLDR:          tldr,
		Image:         image,
		AuthorID:      authorID,
		CreatedAt:     now,
		UpdatedAt:     now,
		PublishedDate: nil,
		ScheduledFor:  scheduledFor,
	}
}

// Persist inserts the record. A failure is returned as *domain.PersistError
// and reported through the notifier; it never rolls back generated content.
func (a *ArticleAssembler) Persist(ctx context.Context, article domain.GeneratedArticle) (string, error) {
	if a.store == nil {
		return "", a.fail(ctx, article, errors.New("article store is not configured"))
	}
	if article.ScheduledFor.IsZero() {
		return "", a.fail(ctx, article, errors.New("scheduled_for is required"))
	}

	id, err := a.store.Insert(ctx, article)
	if err != nil {
		return "", a.fail(ctx, article, err)
	}

	if a.logger != nil {
		a.logger.Info("article persisted", "id", id, "title", article.Title, "scheduled_for", article.ScheduledFor.Format(time.RFC3339))
	}
	return id, nil
}

func (a *ArticleAssembler) fail(ctx context.Context, article domain.GeneratedArticle, err error) error {
	perr := &domain.PersistError{Title: article.Title, Err: err}
	if a.logger != nil {
		a.logger.Error("article persist failed", "title", article.Title, "error", err)
	}
	if a.notifier != nil {
		notice := ports.Notice{
			Level:   ports.NoticeError,
			Title:   "Article not saved",
			Message: fmt.Sprintf("%s: %v", article.Title, err),
		}
		if nErr := a.notifier.Notify(ctx, notice); nErr != nil && a.logger != nil {
			a.logger.Debug("persist failure notification failed", "error", nErr)
		}
	}
	return perr
}

func succeeded(results map[domain.StageKey]StageResult, stage domain.StageKey) bool {
	res, ok := results[stage]
	return ok && res.Err == nil
}
