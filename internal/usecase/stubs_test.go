package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ArticleComposer/internal/domain"
	"ArticleComposer/internal/ports"
)

type stubGenerator struct {
	mu       sync.Mutex
	calls    map[domain.StageKey]int
	fail     map[string]map[domain.StageKey]error
	results  map[domain.StageKey]domain.GeneratedText
	onCall   func(title string, stage domain.StageKey)
	panicsOn domain.StageKey
}

func newStubGenerator() *stubGenerator {
	return &stubGenerator{
		calls: map[domain.StageKey]int{},
		fail:  map[string]map[domain.StageKey]error{},
		results: map[domain.StageKey]domain.GeneratedText{
			domain.StageTitleAndSummary: {Title: "", Summary: "generated summary"},
			domain.StageContent:         {Text: "generated content"},
			domain.StageTLDR:            {Text: "generated tldr"},
			domain.StageImage:           {ImageQuery: "image query"},
		},
	}
}

func (g *stubGenerator) failOn(title string, stage domain.StageKey, err error) {
	if g.fail[title] == nil {
		g.fail[title] = map[domain.StageKey]error{}
	}
	g.fail[title][stage] = err
}

func (g *stubGenerator) Generate(ctx context.Context, title string, stage domain.StageKey) (domain.GeneratedText, error) {
	g.mu.Lock()
	g.calls[stage]++
	onCall := g.onCall
	err := g.fail[title][stage]
	res := g.results[stage]
	g.mu.Unlock()

	if onCall != nil {
		onCall(title, stage)
	}
	if g.panicsOn != "" && g.panicsOn == stage {
		panic("generator exploded")
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.GeneratedText{}, fmt.Errorf("%w: %w", domain.ErrNetwork, ctxErr)
	}
	if err != nil {
		return domain.GeneratedText{}, err
	}
	if (stage == domain.StageContent || stage == domain.StageTLDR) && res.Text != "" {
		res.Text = fmt.Sprintf("%s for %s", res.Text, title)
	}
	return res, nil
}

func (g *stubGenerator) count(stage domain.StageKey) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[stage]
}

var _ ports.ContentGenerator = (*stubGenerator)(nil)

type stubImages struct {
	queries []string
	err     error
}

func (s *stubImages) Search(_ context.Context, query string) (string, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return "", s.err
	}
	return "https://images.example.org/" + query + ".jpg", nil
}

type memStore struct {
	mu       sync.Mutex
	latest   *time.Time
	latestEr error
	inserted []domain.GeneratedArticle
	failFor  map[string]error
}

func (m *memStore) LatestFutureScheduled(_ context.Context, now time.Time) (*time.Time, error) {
	if m.latestEr != nil {
		return nil, m.latestEr
	}
	if m.latest != nil && m.latest.After(now) {
		t := *m.latest
		return &t, nil
	}
	return nil, nil
}

func (m *memStore) Insert(ctx context.Context, article domain.GeneratedArticle) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := m.failFor[article.Title]; err != nil {
		return "", err
	}
	m.inserted = append(m.inserted, article)
	return fmt.Sprintf("row-%d", len(m.inserted)), nil
}

type insertHookStore struct {
	*memStore
	onInsert func()
}

func (s *insertHookStore) Insert(ctx context.Context, article domain.GeneratedArticle) (string, error) {
	s.onInsert()
	return s.memStore.Insert(ctx, article)
}

func (m *memStore) byTitle(title string) (domain.GeneratedArticle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.inserted {
		if a.Title == title {
			return a, true
		}
	}
	return domain.GeneratedArticle{}, false
}

type staticSession struct{ id string }

func (s staticSession) CurrentAuthorID(context.Context) (string, bool) {
	return s.id, s.id != ""
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []ports.Notice
}

func (r *recordingNotifier) Notify(_ context.Context, n ports.Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
	return nil
}

type fakeLock struct {
	held     bool
	unlocked int
	err      error
}

func (f *fakeLock) TryLock() (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return !f.held, nil
}

func (f *fakeLock) Unlock() error {
	f.unlocked++
	return nil
}

var errBoom = errors.New("boom")

func fixedNow() time.Time {
	return time.Date(2026, time.March, 10, 8, 30, 0, 0, time.UTC)
}
