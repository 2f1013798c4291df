package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ArticleComposer/internal/domain"
	"ArticleComposer/internal/ports"
)

// Draft is the working copy of one article while its stages run.
type Draft struct {
	Request domain.ArticleRequest
	Content string
	TLDR    string
	Image   string
}

// StageResult is the outcome of a single stage, folded into the tracker by
// the pipeline.
type StageResult struct {
	Stage   domain.StageKey
	Output  string
	Skipped bool
	Err     *domain.StageError
}

// Status converts the result into the terminal tracker status.
func (r StageResult) Status() domain.StageStatus {
	if r.Err != nil {
		return domain.Failed(r.Err.Message())
	}
	return domain.Completed()
}

type stageDef struct {
	key        domain.StageKey
	shouldSkip func(domain.ArticleRequest) bool
	run        func(ctx context.Context, d *Draft) (string, error)
	onError    func(d *Draft)
}

// StageRunner executes one generation stage for one article.
type StageRunner struct {
	generator ports.ContentGenerator
	images    ports.ImageProvider
	logger    *slog.Logger
	stages    map[domain.StageKey]stageDef
	// fallbackImage replaces the image when search fails.
	fallbackImage string
}

// NewStageRunner wires the generation collaborators.
func NewStageRunner(generator ports.ContentGenerator, images ports.ImageProvider, logger *slog.Logger) *StageRunner {
	r := &StageRunner{generator: generator, images: images, logger: logger, fallbackImage: domain.FallbackImage}
	r.stages = map[domain.StageKey]stageDef{
		domain.StageTitleAndSummary: {
			key:        domain.StageTitleAndSummary,
			shouldSkip: domain.ArticleRequest.HasSummary,
			run:        r.runTitleAndSummary,
			onError:    func(d *Draft) { d.Request.Summary = domain.FallbackSummary },
		},
		domain.StageContent: {
			key: domain.StageContent,
			run: r.textStage(domain.StageContent, func(d *Draft, out string) { d.Content = out }),
		},
		domain.StageTLDR: {
			key: domain.StageTLDR,
			run: r.textStage(domain.StageTLDR, func(d *Draft, out string) { d.TLDR = out }),
		},
		domain.StageImage: {
			key:     domain.StageImage,
			run:     r.runImage,
			onError: func(d *Draft) { d.Image = r.fallbackImage },
		},
	}
	return r
}

// Handles reports whether the stage is a generation stage run here.
func (r *StageRunner) Handles(stage domain.StageKey) bool {
	_, ok := r.stages[stage]
	return ok
}

// Run executes the stage against the draft. Errors and panics from
// collaborators are returned inside the result, never propagated.
func (r *StageRunner) Run(ctx context.Context, stage domain.StageKey, d *Draft) (res StageResult) {
	res.Stage = stage

	def, ok := r.stages[stage]
	if !ok {
		res.Err = &domain.StageError{Stage: stage, Err: fmt.Errorf("stage %s is not a generation stage", stage)}
		return res
	}

	if def.shouldSkip != nil && def.shouldSkip(d.Request) {
		r.debug("stage skipped", "stage", stage, "title", d.Request.Title)
		res.Skipped = true
		return res
	}

	defer func() {
		if p := recover(); p != nil {
			res.Output = ""
			res.Err = &domain.StageError{Stage: stage, Err: fmt.Errorf("panic: %v", p)}
			if def.onError != nil {
				def.onError(d)
			}
		}
	}()

	out, err := def.run(ctx, d)
	if err != nil {
		if def.onError != nil {
			def.onError(d)
		}
		r.warn("stage failed", "stage", stage, "title", d.Request.Title, "error", err)
		res.Err = &domain.StageError{Stage: stage, Err: err}
		return res
	}

	res.Output = out
	return res
}

func (r *StageRunner) runTitleAndSummary(ctx context.Context, d *Draft) (string, error) {
	if r.generator == nil {
		return "", errors.New("content generator is not configured")
	}

	text, err := r.generator.Generate(ctx, d.Request.Title, domain.StageTitleAndSummary)
	if err != nil {
		return "", err
	}

	summary := text.SummaryText()
	if summary == "" {
		return "", fmt.Errorf("%w: empty summary", domain.ErrProvider)
	}
	if title := strings.TrimSpace(text.Title); title != "" {
		d.Request.Title = title
	}
	d.Request.Summary = summary
	return summary, nil
}

func (r *StageRunner) textStage(stage domain.StageKey, apply func(*Draft, string)) func(context.Context, *Draft) (string, error) {
	return func(ctx context.Context, d *Draft) (string, error) {
		if r.generator == nil {
			return "", errors.New("content generator is not configured")
		}

		text, err := r.generator.Generate(ctx, d.Request.Title, stage)
		if err != nil {
			return "", err
		}

		out := strings.TrimSpace(text.Text)
		if out == "" {
			return "", fmt.Errorf("%w: empty %s", domain.ErrProvider, stage)
		}
		apply(d, out)
		return out, nil
	}
}

func (r *StageRunner) runImage(ctx context.Context, d *Draft) (string, error) {
	if r.images == nil {
		return "", errors.New("image provider is not configured")
	}

	query := r.imageQuery(ctx, d)
	url, err := r.images.Search(ctx, query)
	if err != nil {
		return "", err
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return "", fmt.Errorf("%w for %q", domain.ErrNoResults, query)
	}

	d.Image = url
	return url, nil
}

// imageQuery asks the generator for a search hint and falls back to the title.
func (r *StageRunner) imageQuery(ctx context.Context, d *Draft) string {
	if r.generator != nil {
		text, err := r.generator.Generate(ctx, d.Request.Title, domain.StageImage)
		if err == nil {
			if q := text.SearchQuery(); q != "" {
				return q
			}
		} else {
			r.debug("image query fallback to title", "title", d.Request.Title, "error", err)
		}
	}
	return d.Request.Title
}

func (r *StageRunner) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func (r *StageRunner) warn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
