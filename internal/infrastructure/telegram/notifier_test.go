package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ArticleComposer/internal/ports"
)

func TestNotifyPostsMessage(t *testing.T) {
	t.Parallel()

	var got struct {
		path, chat, text, silent string
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		got.path = r.URL.Path
		got.chat = r.PostForm.Get("chat_id")
		got.text = r.PostForm.Get("text")
		got.silent = r.PostForm.Get("disable_notification")
	}))
	defer server.Close()

	n := NewNotifier("token", "42")
	n.apiBase = server.URL
	n.client = server.Client()

	err := n.Notify(context.Background(), ports.Notice{Level: ports.NoticeError, Title: "Article not saved", Message: "T: boom"})
	if err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}

	if got.path != "/bottoken/sendMessage" {
		t.Fatalf("unexpected path: %s", got.path)
	}
	if got.chat != "42" {
		t.Fatalf("unexpected chat id: %s", got.chat)
	}
	if !strings.Contains(got.text, "*Article not saved*") || !strings.Contains(got.text, "T: boom") {
		t.Fatalf("unexpected text: %s", got.text)
	}
	if got.silent != "" {
		t.Fatalf("errors should notify loudly")
	}
}

func TestNotifyRejectsMissingConfig(t *testing.T) {
	t.Parallel()

	if err := NewNotifier("", "").Notify(context.Background(), ports.Notice{}); err == nil {
		t.Fatalf("expected misconfiguration error")
	}
}

func TestNotifyStatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	n := NewNotifier("token", "42")
	n.apiBase = server.URL
	if err := n.Notify(context.Background(), ports.Notice{Message: "x"}); err == nil {
		t.Fatalf("expected status error")
	}
}
