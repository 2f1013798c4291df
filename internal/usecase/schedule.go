package usecase

import (
	"context"
	"fmt"
	"time"

	"ArticleComposer/internal/domain"
	"ArticleComposer/internal/ports"
)

const (
	// DefaultScheduleInterval spaces auto-scheduled articles.
	DefaultScheduleInterval = 7 * 24 * time.Hour
	defaultPublishHour      = 12
)

// ScheduleCalculator derives publish dates for a batch.
type ScheduleCalculator struct {
	store    ports.ArticleStore
	interval time.Duration
	location *time.Location
	now      func() time.Time
}

// NewScheduleCalculator builds a calculator; zero interval means seven days,
// nil location means time.Local.
func NewScheduleCalculator(store ports.ArticleStore, interval time.Duration, loc *time.Location, now func() time.Time) *ScheduleCalculator {
	if interval <= 0 {
		interval = DefaultScheduleInterval
	}
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &ScheduleCalculator{store: store, interval: interval, location: loc, now: now}
}

// Base returns the latest future scheduled date in the store, or tomorrow at
// local noon when there is none.
func (s *ScheduleCalculator) Base(ctx context.Context) (time.Time, error) {
	now := s.now().In(s.location)

	if s.store != nil {
		latest, err := s.store.LatestFutureScheduled(ctx, now)
		if err != nil {
			return time.Time{}, fmt.Errorf("latest scheduled article: %w", err)
		}
		if latest != nil && latest.After(now) {
			return latest.In(s.location), nil
		}
	}

	return TomorrowAtNoon(now), nil
}

// Assign returns one publish date per request, index-aligned. Explicit dates
// are used verbatim and do not move the rolling base.
func (s *ScheduleCalculator) Assign(base time.Time, requests []domain.ArticleRequest) []time.Time {
	out := make([]time.Time, len(requests))
	rolling := base
	for i, req := range requests {
		if req.ScheduledFor != nil {
			out[i] = *req.ScheduledFor
			continue
		}
		rolling = s.advance(rolling)
		out[i] = rolling
	}
	return out
}

// advance keeps wall-clock time across DST changes for whole-day intervals.
func (s *ScheduleCalculator) advance(t time.Time) time.Time {
	const day = 24 * time.Hour
	if s.interval%day == 0 {
		return t.AddDate(0, 0, int(s.interval/day))
	}
	return t.Add(s.interval)
}

// TomorrowAtNoon normalizes to 12:00 of the next calendar day in now's location.
func TomorrowAtNoon(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, defaultPublishHour, 0, 0, 0, now.Location())
}
