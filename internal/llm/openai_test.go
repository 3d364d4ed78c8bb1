package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testConfig(baseURL string) Config {
	cfg := Config{
		APIKey:  "test-key",
		BaseURL: baseURL,
	}
	if err := cfg.Normalize(); err != nil {
		panic(err)
	}
	return cfg
}

func completionBody(content string) string {
	return `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"model": "gpt-3.5-turbo",
		"choices": [
			{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": ` + jsonString(content) + `}}
		]
	}`
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestCompleteSuccess(t *testing.T) {
	var gotAuth string
	var gotReq struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int64   `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("hello there")))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	reply := c.Complete(context.Background(), "tell me a joke")

	if reply != "hello there" {
		t.Fatalf("reply = %q", reply)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
	if gotReq.Model != "gpt-3.5-turbo" {
		t.Fatalf("model = %q", gotReq.Model)
	}
	if gotReq.Temperature != 0.7 {
		t.Fatalf("temperature = %v", gotReq.Temperature)
	}
	if gotReq.MaxTokens != 100 {
		t.Fatalf("max_tokens = %d", gotReq.MaxTokens)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" || gotReq.Messages[0].Content != "tell me a joke" {
		t.Fatalf("messages = %+v", gotReq.Messages)
	}
}

func TestCompleteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	if reply := c.Complete(context.Background(), "hi"); reply != FallbackReply {
		t.Fatalf("reply = %q, want fallback", reply)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "chatcmpl-2", "object": "chat.completion", "choices": []}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	if reply := c.Complete(context.Background(), "hi"); reply != FallbackReply {
		t.Fatalf("reply = %q, want fallback", reply)
	}
}

func TestCompleteBlankContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("   ")))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	if reply := c.Complete(context.Background(), "hi"); reply != FallbackReply {
		t.Fatalf("reply = %q, want fallback", reply)
	}
}

func TestCompleteUnreachable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.TimeoutSeconds = 1

	c := NewClient(cfg)
	if reply := c.Complete(context.Background(), "hi"); reply != FallbackReply {
		t.Fatalf("reply = %q, want fallback", reply)
	}
}

func TestConfigNormalize(t *testing.T) {
	cfg := Config{APIKey: "k"}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Model != DefaultModel || cfg.Temperature != DefaultTemperature ||
		cfg.MaxTokens != DefaultMaxTokens || cfg.TimeoutSeconds != DefaultTimeoutSeconds {
		t.Fatalf("defaults not applied: %+v", cfg)
	}

	var missing Config
	err := missing.Normalize()
	if err == nil || !strings.Contains(err.Error(), "api_key") {
		t.Fatalf("expected api_key error, got %v", err)
	}
}
