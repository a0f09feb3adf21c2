package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"pantrybot/internal/model"
)

func completionResponse(content, finishReason string) Response {
	return Response{Choices: []Choice{{
		Message:      Message{Role: "assistant", Content: content},
		FinishReason: finishReason,
	}}}
}

func TestClient_Complete(t *testing.T) {
	var gotAuth string
	var gotReq Request

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(completionResponse("Tomato soup.", "stop")); err != nil {
			t.Errorf("failed to encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Model: "gpt-4o-mini"}, zap.NewNop())

	result, err := client.Complete(context.Background(), "sk-test", "suggest a recipe")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if result != "Tomato soup." {
		t.Errorf("Complete() = %q", result)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReq.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "developer" {
		t.Errorf("Messages = %+v", gotReq.Messages)
	}
}

func TestClient_CompleteContinuesTruncatedResponse(t *testing.T) {
	requests := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")

		var resp Response
		if requests == 1 {
			resp = completionResponse("part one ", "length")
		} else {
			resp = completionResponse("part two", "stop")
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("failed to encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Model: "gpt-4o-mini"}, zap.NewNop())

	result, err := client.Complete(context.Background(), "sk-test", "suggest a recipe")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if requests != 2 {
		t.Errorf("requests = %d, want 2", requests)
	}
	if result != "part one part two" {
		t.Errorf("Complete() = %q, want concatenated parts", result)
	}
}

func TestClient_CompleteStopsAfterMaxContinuations(t *testing.T) {
	requests := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		// Каждый ответ обрезан: клиент должен остановиться сам
		if err := json.NewEncoder(w).Encode(completionResponse("x", "length")); err != nil {
			t.Errorf("failed to encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Model: "gpt-4o-mini"}, zap.NewNop())

	result, err := client.Complete(context.Background(), "sk-test", "prompt")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if requests != maxContinuations+1 {
		t.Errorf("requests = %d, want %d", requests, maxContinuations+1)
	}
	if result != strings.Repeat("x", maxContinuations+1) {
		t.Errorf("Complete() = %q", result)
	}
}

func TestClient_CompleteErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Model: "gpt-4o-mini"}, zap.NewNop())

	_, err := client.Complete(context.Background(), "bad-key", "prompt")
	if err == nil {
		t.Fatal("Expected error for 401 response")
	}

	metrics := client.GetMetrics()
	if metrics["failed_requests"].(int64) != 1 {
		t.Errorf("failed_requests = %v, want 1", metrics["failed_requests"])
	}
}

func TestBuildRecipePrompt(t *testing.T) {
	items := []model.TodoItem{
		{Summary: "milk", Due: "2026-09-02"},
		{Summary: "eggs"},
	}

	prompt := BuildRecipePrompt(items, "fr")

	if !strings.Contains(prompt, "milk (2026-09-02), eggs") {
		t.Errorf("prompt missing ingredient list: %q", prompt)
	}
	if !strings.Contains(prompt, "suggest 2 or 3 recipes") {
		t.Errorf("prompt missing recipe request: %q", prompt)
	}
	if !strings.Contains(prompt, "best-before dates") {
		t.Errorf("prompt missing best-before hint: %q", prompt)
	}
	if !strings.Contains(prompt, "answer absolutely in the language: fr.") {
		t.Errorf("prompt missing language instruction: %q", prompt)
	}
}
