package yandexgpt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/currilab/curricula-backend/config"
	"github.com/currilab/curricula-backend/internal/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func newTestClient(t *testing.T, baseURL string, retries int) Client {
	t.Helper()
	c, err := NewClient(config.LLMConfig{
		APIKey:     "test-key",
		FolderID:   "test-folder",
		BaseURL:    baseURL,
		MaxRetries: retries,
	}, testLogger(t))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func completionBody(text string) string {
	return `{"result": {"alternatives": [{"message": {"role": "assistant", "text": ` +
		mustJSON(text) + `}}]}}`
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestCompleteSuccess(t *testing.T) {
	var gotAuth, gotURI string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req completionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotURI = req.ModelURI
		w.Write([]byte(completionBody("привет")))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 0)
	text, err := c.Complete(context.Background(), []Message{{Role: "user", Text: "hi"}}, Options{Lite: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "привет" {
		t.Errorf("text = %q", text)
	}
	if gotAuth != "Api-Key test-key" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotURI != "gpt://test-folder/yandexgpt-lite" {
		t.Errorf("modelUri = %q", gotURI)
	}
}

func TestCompleteModelSelection(t *testing.T) {
	var gotURI string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req completionRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotURI = req.ModelURI
		w.Write([]byte(completionBody("ok")))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 0)
	if _, err := c.Complete(context.Background(), []Message{{Role: "user", Text: "hi"}}, Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotURI != "gpt://test-folder/yandexgpt" {
		t.Errorf("modelUri = %q", gotURI)
	}
}

func TestCompleteRetriesOn429(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(completionBody("после повтора")))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 2)
	text, err := c.Complete(context.Background(), []Message{{Role: "user", Text: "hi"}}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "после повтора" {
		t.Errorf("text = %q", text)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestCompleteNoRetryOn400(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "bad request"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 3)
	if _, err := c.Complete(context.Background(), []Message{{Role: "user", Text: "hi"}}, Options{}); err == nil {
		t.Fatal("expected an error")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 400)", calls)
	}
}

func TestCompleteServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": {"message": "folder not found"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 0)
	_, err := c.Complete(context.Background(), []Message{{Role: "user", Text: "hi"}}, Options{})
	if err == nil || !strings.Contains(err.Error(), "service error") {
		t.Fatalf("expected a service error, got %v", err)
	}
}

func TestCompleteEmptyAlternatives(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": {"alternatives": []}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 0)
	if _, err := c.Complete(context.Background(), []Message{{Role: "user", Text: "hi"}}, Options{}); err == nil {
		t.Fatal("expected an error for empty alternatives")
	}
}

func TestCompleteNoMessages(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:0", 0)
	if _, err := c.Complete(context.Background(), nil, Options{}); err == nil {
		t.Fatal("expected an error for empty messages")
	}
}

func TestNewClientMissingKey(t *testing.T) {
	t.Setenv("YANDEX_API_KEY", "")
	t.Setenv("YANDEX_FOLDER_ID", "")
	if _, err := NewClient(config.LLMConfig{}, testLogger(t)); err == nil {
		t.Fatal("expected an error without an api key")
	}
}
