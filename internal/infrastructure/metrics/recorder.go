package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"ArticleComposer/internal/domain"
	"ArticleComposer/internal/ports"
)

// Recorder counts stage and article outcomes of a run.
type Recorder struct {
	registry *prometheus.Registry
	stages   *prometheus.CounterVec
	articles *prometheus.CounterVec
	duration prometheus.Gauge
	runs     *prometheus.CounterVec
}

var _ ports.MetricsRecorder = (*Recorder)(nil)

// NewRecorder registers the collectors on a private registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		stages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "article_composer",
			Name:      "stage_results_total",
			Help:      "Terminal stage outcomes by stage and state.",
		}, []string{"stage", "state"}),
		articles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "article_composer",
			Name:      "articles_total",
			Help:      "Processed articles by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "article_composer",
			Name:      "last_run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "article_composer",
			Name:      "runs_total",
			Help:      "Finished runs by status.",
		}, []string{"status"}),
	}
	r.registry.MustRegister(r.stages, r.articles, r.duration, r.runs)
	return r
}

// Registry exposes the collectors, e.g. for tests or a /metrics handler.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveStage counts a terminal stage status.
func (r *Recorder) ObserveStage(stage domain.StageKey, state domain.StageState) {
	if !state.Terminal() {
		return
	}
	r.stages.WithLabelValues(string(stage), string(state)).Inc()
}

// ObserveArticle counts an article once its stages are terminal.
func (r *Recorder) ObserveArticle(persisted, failed bool) {
	outcome := "saved"
	switch {
	case !persisted:
		outcome = "failed"
	case failed:
		outcome = "degraded"
	}
	r.articles.WithLabelValues(outcome).Inc()
}

// ObserveRun records the run duration.
func (r *Recorder) ObserveRun(duration time.Duration, cancelled bool) {
	r.duration.Set(duration.Seconds())
	status := "finished"
	if cancelled {
		status = "cancelled"
	}
	r.runs.WithLabelValues(status).Inc()
}

// Push sends the collected metrics to a Pushgateway.
func (r *Recorder) Push(ctx context.Context, url, job string) error {
	if url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(r.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
