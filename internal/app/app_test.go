package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticleComposer/internal/config"
	"ArticleComposer/internal/usecase"
)

func fakeCompletions(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		content := "Generated body."
		switch {
		case strings.Contains(string(raw), "json_object"):
			content = `{"title": "Polished", "summary": "Generated summary."}`
		case strings.Contains(string(raw), "TL;DR"):
			content = "- short"
		case strings.Contains(string(raw), "stock photo"):
			content = "castle"
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, llmURL string) config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.LoadFile("")
	cfg.Database = config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    "file:" + filepath.Join(dir, "articles.db") + "?_time_format=sqlite",
	}
	cfg.Generator.Endpoint = llmURL
	cfg.Generator.APIKey = "key"
	cfg.Generator.RequestsPerMinute = 0
	cfg.Images = config.ImagesConfig{Provider: "static", Placeholder: "https://img.example.org/castle.jpg"}
	cfg.Session.AuthorID = "6f1c1c9e-2c55-4f3c-9a4e-1a2b3c4d5e6f"
	cfg.Notifications = config.NotificationConfig{}
	cfg.Metrics = config.MetricsConfig{}
	cfg.LockPath = filepath.Join(dir, "run.lock")
	return cfg
}

func TestGenerateEndToEnd(t *testing.T) {
	llm := fakeCompletions(t)
	ctx := context.Background()

	application, err := New(ctx, testConfig(t, llm.URL), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })
	require.NoError(t, application.Migrate(ctx))

	var (
		mu   sync.Mutex
		seen int
	)
	result, err := application.Generate(ctx, TitlesToRequests([]string{"Top 10 RPGs", "  ", "Retro consoles"}), func(s usecase.Snapshot) {
		mu.Lock()
		seen++
		mu.Unlock()
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Persisted)
	assert.Zero(t, result.Failed)
	assert.Positive(t, seen)
	for _, p := range result.Snapshot.List() {
		assert.True(t, p.IsCompleted(), p.Title)
	}

	planned, err := application.Preview(ctx, TitlesToRequests([]string{"Next"}))
	require.NoError(t, err)
	require.Len(t, planned, 1)
	base := usecase.TomorrowAtNoon(time.Now().In(time.UTC))
	assert.True(t, planned[0].ScheduledFor.Equal(base.AddDate(0, 0, 21)), planned[0].ScheduledFor)
}
