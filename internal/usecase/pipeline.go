package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"ArticleComposer/internal/domain"
	"ArticleComposer/internal/ports"
)

const cancelledMessage = "run cancelled"

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Generator ports.ContentGenerator
	Images    ports.ImageProvider
	Store     ports.ArticleStore
	Session   ports.SessionProvider
	Notifier  ports.Notifier
	Metrics   ports.MetricsRecorder
	Lock      ports.RunLock
	Logger    *slog.Logger

	ScheduleInterval time.Duration
	Location         *time.Location
	Now              func() time.Time
	// FallbackImage overrides domain.FallbackImage when non-empty.
	FallbackImage string
}

// Pipeline implements the batch article-generation workflow.
type Pipeline struct {
	session   ports.SessionProvider
	notifier  ports.Notifier
	metrics   ports.MetricsRecorder
	lock      ports.RunLock
	logger    *slog.Logger
	now       func() time.Time
	runner    *StageRunner
	assembler *ArticleAssembler
	schedule  *ScheduleCalculator
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	runner := NewStageRunner(deps.Generator, deps.Images, logger.With("component", "stages"))
	assembler := NewArticleAssembler(deps.Store, deps.Notifier, logger.With("component", "assembler"))
	if image := strings.TrimSpace(deps.FallbackImage); image != "" {
		runner.fallbackImage = image
		assembler.image = image
	}

	return &Pipeline{
		session:   deps.Session,
		notifier:  deps.Notifier,
		metrics:   deps.Metrics,
		lock:      deps.Lock,
		logger:    logger,
		now:       now,
		runner:    runner,
		assembler: assembler,
		schedule:  NewScheduleCalculator(deps.Store, deps.ScheduleInterval, deps.Location, now),
	}
}

// RunResult is the final progress snapshot plus persistence counts.
type RunResult struct {
	Snapshot  Snapshot
	Persisted int
	Failed    int
	Degraded  int
	Cancelled bool
}

// Summary renders the counts for notices and CLI output.
func (r RunResult) Summary() string {
	msg := fmt.Sprintf("%d of %d articles saved", r.Persisted, r.Snapshot.Len())
	if r.Degraded > 0 {
		msg += fmt.Sprintf(", %d with fallback content", r.Degraded)
	}
	if r.Failed > 0 {
		msg += fmt.Sprintf(", %d failed", r.Failed)
	}
	if r.Cancelled {
		msg += " (cancelled)"
	}
	return msg
}

// PlannedArticle pairs a request with the publish date a run would assign.
type PlannedArticle struct {
	Request      domain.ArticleRequest
	ScheduledFor time.Time
}

type runOptions struct {
	tracker *ProgressTracker
}

// RunOption customizes a single run.
type RunOption func(*runOptions)

// WithTracker lets the caller observe progress while the run executes.
func WithTracker(t *ProgressTracker) RunOption {
	return func(o *runOptions) { o.tracker = t }
}

// PrepareRequests trims titles, drops blank ones and assigns stable IDs.
func PrepareRequests(requests []domain.ArticleRequest) []domain.ArticleRequest {
	queue := make([]domain.ArticleRequest, 0, len(requests))
	for _, req := range requests {
		title := strings.TrimSpace(req.Title)
		if title == "" {
			continue
		}
		req.Title = title
		req.Summary = strings.TrimSpace(req.Summary)
		if req.ID == "" {
			req.ID = uuid.NewString()
		}
		queue = append(queue, req)
	}
	return queue
}

// Run validates the batch, schedules it and processes every article in order.
// Stage and persistence failures are recorded in the snapshot; only
// validation, auth, lock and schedule failures abort the run. A cancelled
// context stops the run between stages and returns the partial result with
// the context error.
func (p *Pipeline) Run(ctx context.Context, requests []domain.ArticleRequest, opts ...RunOption) (RunResult, error) {
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}
	tracker := o.tracker
	if tracker == nil {
		tracker = NewProgressTracker()
	}

	queue := PrepareRequests(requests)
	if len(queue) == 0 {
		return RunResult{}, &domain.ValidationError{Reason: "at least one non-empty title is required"}
	}

	authorID, err := p.authorID(ctx)
	if err != nil {
		return RunResult{}, err
	}

	if p.lock != nil {
		locked, err := p.lock.TryLock()
		if err != nil {
			return RunResult{}, fmt.Errorf("acquire run lock: %w", err)
		}
		if !locked {
			return RunResult{}, domain.ErrRunInProgress
		}
		defer func() {
			if err := p.lock.Unlock(); err != nil {
				p.logger.Warn("release run lock", "error", err)
			}
		}()
	}

	base, err := p.schedule.Base(ctx)
	if err != nil {
		return RunResult{}, fmt.Errorf("schedule base: %w", err)
	}
	dates := p.schedule.Assign(base, queue)

	started := p.now()
	p.logger.Info("run started", "articles", len(queue), "schedule_base", base.Format(time.RFC3339))

	interrupted := false
	for i, req := range queue {
		if ctx.Err() != nil {
			interrupted = true
			break
		}
		if !p.processArticle(ctx, tracker, req, dates[i], authorID) {
			interrupted = true
			break
		}
	}

	result := summarize(tracker.Snapshot())
	result.Cancelled = interrupted

	p.logger.Info("run finished",
		"persisted", result.Persisted,
		"failed", result.Failed,
		"degraded", result.Degraded,
		"cancelled", result.Cancelled)

	if p.metrics != nil {
		p.metrics.ObserveRun(p.now().Sub(started), result.Cancelled)
	}
	p.notify(context.WithoutCancel(ctx), ports.Notice{
		Level:   summaryLevel(result),
		Title:   "Article generation finished",
		Message: result.Summary(),
	})

	if result.Cancelled {
		return result, ctx.Err()
	}
	return result, nil
}

// Preview returns the schedule a run would assign, without generating.
func (p *Pipeline) Preview(ctx context.Context, requests []domain.ArticleRequest) ([]PlannedArticle, error) {
	queue := PrepareRequests(requests)
	if len(queue) == 0 {
		return nil, &domain.ValidationError{Reason: "at least one non-empty title is required"}
	}

	base, err := p.schedule.Base(ctx)
	if err != nil {
		return nil, fmt.Errorf("schedule base: %w", err)
	}

	dates := p.schedule.Assign(base, queue)
	planned := make([]PlannedArticle, len(queue))
	for i, req := range queue {
		planned[i] = PlannedArticle{Request: req, ScheduledFor: dates[i]}
	}
	return planned, nil
}

func (p *Pipeline) authorID(ctx context.Context) (string, error) {
	if p.session == nil {
		return "", &domain.AuthError{Reason: "session provider is not configured"}
	}
	id, ok := p.session.CurrentAuthorID(ctx)
	if !ok || strings.TrimSpace(id) == "" {
		return "", &domain.AuthError{Reason: "no authenticated author"}
	}
	return id, nil
}

// processArticle runs the stage sequence for one request. Every failure,
// including a panic in a collaborator, stays inside this article.
// Collaborators get a non-cancellable context so an in-flight call
// finishes; ctx is only consulted between stages. It returns false when
// cancellation stopped the article before its last stage.
func (p *Pipeline) processArticle(ctx context.Context, tracker *ProgressTracker, req domain.ArticleRequest, scheduledFor time.Time, authorID string) (finished bool) {
	logger := p.logger.With("request_id", req.ID, "title", req.Title)

	if err := tracker.Begin(req); err != nil {
		logger.Error("track article", "error", err)
		return true
	}
	callCtx := context.WithoutCancel(ctx)

	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("panic: %v", r)
			logger.Error("article aborted", "error", msg)
			p.abortRemaining(tracker, req.ID, msg)
			p.notifyArticle(ctx, req.Title, msg)
			finished = true
		}
	}()

	draft := &Draft{Request: req}
	results := make(map[domain.StageKey]StageResult, len(domain.Stages()))

	for _, stage := range domain.Stages() {
		if ctx.Err() != nil {
			logger.Warn("article interrupted", "stage", stage)
			p.abortRemaining(tracker, req.ID, cancelledMessage)
			return false
		}

		p.mark(logger, tracker, req.ID, stage, domain.InProgress())

		var status domain.StageStatus
		if p.runner.Handles(stage) {
			res := p.runner.Run(callCtx, stage, draft)
			results[stage] = res
			status = res.Status()
		} else {
			status = p.persist(callCtx, draft, results, authorID, scheduledFor)
		}

		p.mark(logger, tracker, req.ID, stage, status)
		if p.metrics != nil {
			p.metrics.ObserveStage(stage, status.State)
		}
	}

	progress, _ := tracker.Snapshot().Get(req.ID)
	if p.metrics != nil {
		p.metrics.ObserveArticle(progress.Persisted(), progress.IsFailed())
	}
	if progress.Persisted() && progress.IsFailed() {
		p.notifyArticle(ctx, req.Title, "saved with fallback content")
	}
	return true
}

func (p *Pipeline) persist(ctx context.Context, d *Draft, results map[domain.StageKey]StageResult, authorID string, scheduledFor time.Time) domain.StageStatus {
	article := p.assembler.Build(*d, results, authorID, scheduledFor, p.now())
	if _, err := p.assembler.Persist(ctx, article); err != nil {
		var perr *domain.PersistError
		if errors.As(err, &perr) && perr.Err != nil {
			return domain.Failed(perr.Err.Error())
		}
		return domain.Failed(err.Error())
	}
	return domain.Completed()
}

func (p *Pipeline) mark(logger *slog.Logger, tracker *ProgressTracker, id string, stage domain.StageKey, status domain.StageStatus) {
	if err := tracker.Update(id, stage, status); err != nil {
		logger.Warn("progress update rejected", "stage", stage, "error", err)
		return
	}
	logger.Debug("stage status", "stage", stage, "status", status.String())
}

// abortRemaining moves every non-terminal stage to error so the article is terminal.
func (p *Pipeline) abortRemaining(tracker *ProgressTracker, id, message string) {
	progress, ok := tracker.Snapshot().Get(id)
	if !ok {
		return
	}
	for _, stage := range domain.Stages() {
		if progress.Status(stage).State.Terminal() {
			continue
		}
		if err := tracker.Update(id, stage, domain.Failed(message)); err != nil {
			p.logger.Warn("abort stage", "request_id", id, "stage", stage, "error", err)
		}
	}
}

func (p *Pipeline) notifyArticle(ctx context.Context, title, message string) {
	p.notify(context.WithoutCancel(ctx), ports.Notice{
		Level:   ports.NoticeError,
		Title:   "Article issue",
		Message: fmt.Sprintf("%s: %s", title, message),
	})
}

func (p *Pipeline) notify(ctx context.Context, notice ports.Notice) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.Notify(ctx, notice); err != nil {
		p.logger.Debug("notification failed", "error", err)
	}
}

func summarize(snap Snapshot) RunResult {
	result := RunResult{Snapshot: snap}
	for _, progress := range snap.List() {
		switch {
		case !progress.Persisted():
			result.Failed++
		case progress.IsFailed():
			result.Persisted++
			result.Degraded++
		default:
			result.Persisted++
		}
	}
	return result
}

func summaryLevel(r RunResult) ports.NoticeLevel {
	if r.Failed > 0 || r.Cancelled {
		return ports.NoticeError
	}
	return ports.NoticeInfo
}
