package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"
)

func chatCompletion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message": map[string]any{
				"role":    "assistant",
				"content": content,
			},
		}},
		"usage": map[string]any{
			"prompt_tokens":     1000,
			"completion_tokens": 100,
			"total_tokens":      1100,
		},
	}
}

func TestOpenAIOCRClient_Recognize(t *testing.T) {
	t.Run("transcribes image", func(t *testing.T) {
		var body map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
				t.Errorf("unexpected authorization: %s", auth)
			}
			json.NewDecoder(r.Body).Decode(&body)
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(chatCompletion("```\nREPUBLICA BOLIVARIANA DE VENEZUELA\n\nV-12345678\n```"))
		}))
		defer server.Close()

		c := NewOpenAIOCRClient(OpenAIOCRConfig{APIKey: "test-key", BaseURL: server.URL})
		result, err := c.Recognize(context.Background(), []byte("img"), MIMEPNG)
		if err != nil {
			t.Fatalf("Recognize() error = %v", err)
		}

		want := []string{"REPUBLICA BOLIVARIANA DE VENEZUELA", "V-12345678"}
		if !reflect.DeepEqual(result.Lines, want) {
			t.Errorf("Lines = %q, want %q", result.Lines, want)
		}
		if body["model"] != OpenAIOCRDefaultModel {
			t.Errorf("model = %v, want %v", body["model"], OpenAIOCRDefaultModel)
		}
		if !strings.Contains(mustJSON(t, body["messages"]), "data:image/png;base64,") {
			t.Error("request should carry the image as a data URL")
		}
		if result.CostUSD <= 0 {
			t.Errorf("CostUSD = %v, want > 0", result.CostUSD)
		}
		if result.Metadata["total_tokens"] != int64(1100) {
			t.Errorf("total_tokens = %v, want 1100", result.Metadata["total_tokens"])
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "3")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"message":"rate limit","type":"rate_limit_error"}}`))
		}))
		defer server.Close()

		c := NewOpenAIOCRClient(OpenAIOCRConfig{APIKey: "test-key", BaseURL: server.URL})
		_, err := c.Recognize(context.Background(), []byte("img"), MIMEJPEG)

		var rl *RateLimitError
		if !errors.As(err, &rl) {
			t.Fatalf("error = %v, want RateLimitError", err)
		}
		if rl.RetryAfter != 3*time.Second {
			t.Errorf("RetryAfter = %v, want 3s", rl.RetryAfter)
		}
	})

	t.Run("rejects pdf", func(t *testing.T) {
		c := NewOpenAIOCRClient(OpenAIOCRConfig{APIKey: "test-key", BaseURL: "http://127.0.0.1:1"})
		_, err := c.Recognize(context.Background(), []byte("%PDF"), MIMEPDF)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("error = %v, want ErrUnsupportedFormat", err)
		}
	})
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"```\nA\nB\n```", "A\nB"},
		{"```text\nA\n```", "A"},
		{"```\nA\n\n```\n", "A"},
	}
	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}
