package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

func fakeServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["model"] != "test-model" {
			t.Errorf("unexpected model %v", req["model"])
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"choices": []any{map[string]any{"index": 0, "finish_reason": "stop", "message": map[string]any{"role": "assistant", "content": content}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerateJSON(t *testing.T) {
	srv := fakeServer(t, `{"questions":[{"content":"Why Go?","type":"VERBAL"}]}`)
	log, _ := logger.New("test")
	c, err := NewClient(log, Config{APIKey: "k", Model: "test-model", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	var out struct {
		Questions []struct {
			Content string `json:"content"`
			Type    string `json:"type"`
		} `json:"questions"`
	}
	if err := c.GenerateJSON(context.Background(), "sys", "user", &out); err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
	if len(out.Questions) != 1 || out.Questions[0].Content != "Why Go?" {
		t.Fatalf("unexpected decode %+v", out)
	}
}

func TestGenerateText(t *testing.T) {
	srv := fakeServer(t, "  hello there  ")
	log, _ := logger.New("test")
	c, err := NewClient(log, Config{APIKey: "k", Model: "test-model", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	got, err := c.GenerateText(context.Background(), "sys", "hi")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if got != "hello there" {
		t.Fatalf("GenerateText: got %q", got)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	log, _ := logger.New("test")
	if _, err := NewClient(log, Config{}); err == nil {
		t.Fatalf("expected error without api key")
	}
}
