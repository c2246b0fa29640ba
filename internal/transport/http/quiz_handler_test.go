package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"quiz-room-service/internal/app"
	"quiz-room-service/internal/domain"
	"quiz-room-service/internal/infra/memory"
)

func TestQuizAuthoringEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	NewQuizHandler(app.NewQuizService(memory.NewQuizStore())).Register(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	// Create a quiz.
	resp := postJSON(t, server.URL+"/quiz", map[string]any{"name": "Capitals"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create quiz status %d", resp.StatusCode)
	}
	var quiz domain.Quiz
	decodeBody(t, resp, &quiz)
	if quiz.ID == "" || quiz.Name != "Capitals" {
		t.Fatalf("unexpected quiz: %+v", quiz)
	}

	// Append a question.
	resp = postJSON(t, server.URL+"/question", map[string]any{
		"quizId": quiz.ID,
		"question": map[string]any{
			"text": "Capital of France?",
			"answers": []map[string]any{
				{"text": "Paris", "isCorrect": true},
				{"text": "Lyon", "isCorrect": false},
			},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add question status %d", resp.StatusCode)
	}
	var updated domain.Quiz
	decodeBody(t, resp, &updated)
	if len(updated.Questions) != 1 || updated.Questions[0].ID == "" {
		t.Fatalf("unexpected updated quiz: %+v", updated)
	}

	// Fetch it back.
	resp = getURL(t, fmt.Sprintf("%s/quiz/%s", server.URL, quiz.ID))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get quiz status %d", resp.StatusCode)
	}
	var fetched domain.Quiz
	decodeBody(t, resp, &fetched)
	if len(fetched.Questions) != 1 || !fetched.Questions[0].Answers[0].Correct {
		t.Fatalf("authoring responses keep correctness flags: %+v", fetched)
	}

	// List.
	resp = getURL(t, server.URL+"/quiz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status %d", resp.StatusCode)
	}
	var all []domain.Quiz
	decodeBody(t, resp, &all)
	if len(all) != 1 {
		t.Fatalf("expected 1 quiz, got %d", len(all))
	}
}

func TestQuizAuthoringErrors(t *testing.T) {
	mux := http.NewServeMux()
	NewQuizHandler(app.NewQuizService(memory.NewQuizStore())).Register(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	resp := postJSON(t, server.URL+"/quiz", map[string]any{"name": ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty name should be 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = getURL(t, server.URL+"/quiz/nope")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing quiz should be 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/question", map[string]any{
		"quizId":   "nope",
		"question": map[string]any{"text": "q", "answers": []map[string]any{{"text": "a"}}},
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("question for missing quiz should be 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func getURL(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
