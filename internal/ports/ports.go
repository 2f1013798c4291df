package ports

import (
	"context"
	"time"

	"ArticleComposer/internal/domain"
)

// ContentGenerator produces text for a single stage of an article.
type ContentGenerator interface {
	Generate(ctx context.Context, title string, stage domain.StageKey) (domain.GeneratedText, error)
}

// ImageProvider resolves a search query into an image URL.
type ImageProvider interface {
	Search(ctx context.Context, query string) (string, error)
}

// ArticleStore persists generated articles and answers schedule queries.
type ArticleStore interface {
	LatestFutureScheduled(ctx context.Context, now time.Time) (*time.Time, error)
	Insert(ctx context.Context, article domain.GeneratedArticle) (string, error)
}

// SessionProvider exposes the authenticated operator identity.
type SessionProvider interface {
	CurrentAuthorID(ctx context.Context) (string, bool)
}

// NoticeLevel grades a notification.
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a non-blocking user notification.
type Notice struct {
	Level   NoticeLevel
	Title   string
	Message string
}

// Notifier streams notices to Telegram or other channels.
type Notifier interface {
	Notify(ctx context.Context, notice Notice) error
}

// MetricsRecorder counts stage and run outcomes.
type MetricsRecorder interface {
	ObserveStage(stage domain.StageKey, state domain.StageState)
	ObserveArticle(persisted, failed bool)
	ObserveRun(duration time.Duration, cancelled bool)
}

// RunLock guards against two runs over the same store.
type RunLock interface {
	TryLock() (bool, error)
	Unlock() error
}
