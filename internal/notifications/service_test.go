package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voxreel/internal/config"
	"voxreel/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyVideoReady(context.Background(), "abc123", "/out/video.mp4", time.Minute); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	var captured struct {
		title    string
		tags     string
		priority string
		body     string
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		captured.title = r.Header.Get("Title")
		captured.tags = r.Header.Get("Tags")
		captured.priority = r.Header.Get("Priority")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		captured.body = string(body)
		_ = r.Body.Close()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.RequestTimeout = 5
	svc := notifications.NewService(&cfg)

	if err := svc.NotifyVideoReady(context.Background(), "abc123", "/out/video.mp4", 90*time.Second); err != nil {
		t.Fatalf("notification returned error: %v", err)
	}
	if captured.title != "Voxreel - Video Ready" {
		t.Fatalf("unexpected title %q", captured.title)
	}
	if captured.body != "Video ready in 1m30s: /out/video.mp4" {
		t.Fatalf("unexpected message %q", captured.body)
	}
	if captured.tags != "voxreel,run,completed" || captured.priority != "high" {
		t.Fatalf("unexpected tags/priority %q/%q", captured.tags, captured.priority)
	}

	if err := svc.NotifyError(context.Background(), errors.New("ffmpeg exploded"), "assemble"); err != nil {
		t.Fatalf("notification returned error: %v", err)
	}
	if captured.body != "Run failed during assemble: ffmpeg exploded" {
		t.Fatalf("unexpected error message %q", captured.body)
	}
	if captured.priority != "high" {
		t.Fatalf("errors should be high priority, got %q", captured.priority)
	}
}

func TestNtfyServiceSurfacesHTTPFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}
