package usecase

import (
	"fmt"
	"sync"
	"sync/atomic"

	"ArticleComposer/internal/domain"
)

// Snapshot is an immutable view of run progress. Order lists request IDs in
// processing order; Articles is keyed by request ID.
type Snapshot struct {
	Order    []string
	Articles map[string]domain.ArticleProgress
}

// Len returns the number of tracked articles.
func (s Snapshot) Len() int { return len(s.Order) }

// Get returns the progress of a request.
func (s Snapshot) Get(id string) (domain.ArticleProgress, bool) {
	p, ok := s.Articles[id]
	return p, ok
}

// List returns progress entries in display order.
func (s Snapshot) List() []domain.ArticleProgress {
	out := make([]domain.ArticleProgress, 0, len(s.Order))
	for _, id := range s.Order {
		out = append(out, s.Articles[id])
	}
	return out
}

// ProgressTracker holds per-article stage status for observers. Writers
// replace the whole snapshot; readers never see a partially applied update.
type ProgressTracker struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]

	subsMu  sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int
	closed  bool
}

// NewProgressTracker returns an empty tracker.
func NewProgressTracker() *ProgressTracker {
	t := &ProgressTracker{subs: map[int]chan Snapshot{}}
	t.current.Store(&Snapshot{Articles: map[string]domain.ArticleProgress{}})
	return t
}

// Snapshot returns the latest published state.
func (t *ProgressTracker) Snapshot() Snapshot {
	return *t.current.Load()
}

// Begin creates the entry for a request as it starts processing.
func (t *ProgressTracker) Begin(req domain.ArticleRequest) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.current.Load()
	if _, ok := prev.Articles[req.ID]; ok {
		return fmt.Errorf("request %s already tracked", req.ID)
	}

	next := copySnapshot(prev, 1)
	next.Order = append(next.Order, req.ID)
	next.Articles[req.ID] = domain.NewArticleProgress(req.ID, req.Title)
	t.publish(next)
	return nil
}

// Update replaces one stage entry. Regressions are rejected.
func (t *ProgressTracker) Update(id string, stage domain.StageKey, status domain.StageStatus) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.current.Load()
	article, ok := prev.Articles[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownRequest, id)
	}

	from := article.Status(stage).State
	if !domain.CanTransition(from, status.State) {
		return fmt.Errorf("%w: %s %s -> %s", domain.ErrInvalidTransition, stage, from, status.State)
	}

	updated := article.Clone()
	updated.Steps[stage] = status

	next := copySnapshot(prev, 0)
	next.Articles[id] = updated
	t.publish(next)
	return nil
}

// Subscribe delivers every published snapshot, keeping only the latest one
// when the observer falls behind. cancel stops delivery and closes the channel.
func (t *ProgressTracker) Subscribe(buffer int) (<-chan Snapshot, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)

	t.subsMu.Lock()
	defer t.subsMu.Unlock()
	if t.closed {
		close(ch)
		return ch, func() {}
	}

	id := t.nextSub
	t.nextSub++
	t.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.subsMu.Lock()
			defer t.subsMu.Unlock()
			if sub, ok := t.subs[id]; ok {
				delete(t.subs, id)
				close(sub)
			}
		})
	}
}

// Close ends all subscriptions.
func (t *ProgressTracker) Close() {
	t.subsMu.Lock()
	defer t.subsMu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	for id, ch := range t.subs {
		delete(t.subs, id)
		close(ch)
	}
}

func (t *ProgressTracker) publish(next *Snapshot) {
	t.current.Store(next)

	t.subsMu.Lock()
	defer t.subsMu.Unlock()
	for _, ch := range t.subs {
		offer(ch, *next)
	}
}

func offer(ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}

// copySnapshot copies the outer structures; ArticleProgress values are shared
// because published entries are never mutated.
func copySnapshot(prev *Snapshot, extra int) *Snapshot {
	order := make([]string, len(prev.Order), len(prev.Order)+extra)
	copy(order, prev.Order)

	articles := make(map[string]domain.ArticleProgress, len(prev.Articles)+extra)
	for k, v := range prev.Articles {
		articles[k] = v
	}
	return &Snapshot{Order: order, Articles: articles}
}
