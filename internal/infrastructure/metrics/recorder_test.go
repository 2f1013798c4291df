package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"ArticleComposer/internal/domain"
)

func TestRecorderCountsOutcomes(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.ObserveStage(domain.StageContent, domain.StateInProgress)
	r.ObserveStage(domain.StageContent, domain.StateCompleted)
	r.ObserveStage(domain.StageContent, domain.StateError)
	r.ObserveStage(domain.StageContent, domain.StateError)
	r.ObserveArticle(true, false)
	r.ObserveArticle(true, true)
	r.ObserveArticle(false, true)
	r.ObserveRun(1500*time.Millisecond, false)

	if got := testutil.ToFloat64(r.stages.WithLabelValues("content", "error")); got != 2 {
		t.Fatalf("expected 2 content errors, got %v", got)
	}
	if got := testutil.ToFloat64(r.stages.WithLabelValues("content", "inProgress")); got != 0 {
		t.Fatalf("non-terminal states should not be counted, got %v", got)
	}
	if got := testutil.ToFloat64(r.articles.WithLabelValues("degraded")); got != 1 {
		t.Fatalf("expected 1 degraded article, got %v", got)
	}
	if got := testutil.ToFloat64(r.duration); got != 1.5 {
		t.Fatalf("unexpected duration %v", got)
	}
}

func TestPushSendsToGateway(t *testing.T) {
	t.Parallel()

	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path = req.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	r := NewRecorder()
	r.ObserveRun(time.Second, false)
	if err := r.Push(context.Background(), server.URL, "article_composer"); err != nil {
		t.Fatalf("Push returned error: %v", err)
	}
	if !strings.HasSuffix(path, "/metrics/job/article_composer") {
		t.Fatalf("unexpected push path %s", path)
	}
}
