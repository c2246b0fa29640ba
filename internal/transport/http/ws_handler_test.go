package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quiz-room-service/internal/app"
	"quiz-room-service/internal/domain"
	"quiz-room-service/internal/infra/memory"
)

func TestQuizSessionFlow(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	host := dialWS(t, server)
	defer host.Close()

	// Start a session.
	writeEvent(t, host, "startQuiz", map[string]any{"quizId": "quiz-1", "roomName": "R"})
	ack := waitForAck(t, host, "startQuiz")
	if ack["success"] != true || ack["roomId"] != "R" {
		t.Fatalf("unexpected startQuiz ack: %+v", ack)
	}

	// The starter joins their own room.
	writeEvent(t, host, "joinRoom", map[string]any{"playerName": "Alice", "roomId": "R"})
	ack = waitForAck(t, host, "joinRoom")
	if ack["success"] != true {
		t.Fatalf("unexpected joinRoom ack: %+v", ack)
	}
	joined := waitForType(t, host, "playerJoined")
	players, _ := joined["players"].([]any)
	if joined["playerName"] != "Alice" || len(players) != 1 {
		t.Fatalf("unexpected playerJoined payload: %+v", joined)
	}

	// Answer the first question.
	writeEvent(t, host, "submitAnswer", map[string]any{"roomId": "R", "answer": "A1"})
	ack = waitForAck(t, host, "submitAnswer")
	if ack["success"] != true || ack["message"] != "Answer submitted successfully" {
		t.Fatalf("unexpected submitAnswer ack: %+v", ack)
	}

	// Advance: question 2 is broadcast with correctness stripped.
	writeEvent(t, host, "nextQuestion", map[string]any{"roomId": "R"})
	next := waitForType(t, host, "nextQuestion")
	question, _ := next["question"].(map[string]any)
	if question == nil {
		t.Fatalf("expected question payload, got %+v", next)
	}
	answers, _ := question["answers"].([]any)
	if len(answers) == 0 {
		t.Fatalf("expected answer options, got %+v", question)
	}
	for _, a := range answers {
		option := a.(map[string]any)
		if _, leaked := option["isCorrect"]; leaked {
			t.Fatalf("broadcast leaked correctness: %+v", option)
		}
	}

	// Overwrite the answer for question 2, then finish the quiz.
	writeEvent(t, host, "submitAnswer", map[string]any{"roomId": "R", "answer": "A2"})
	waitForAck(t, host, "submitAnswer")

	writeEvent(t, host, "nextQuestion", map[string]any{"roomId": "R"})
	ended := waitForType(t, host, "quizEnded")
	pairs, _ := ended["answers"].([]any)
	if len(pairs) != 1 {
		t.Fatalf("expected one revealed answer, got %+v", ended)
	}
	pair := pairs[0].([]any)
	if pair[1] != "A2" {
		t.Fatalf("expected latest answer A2, got %+v", pair)
	}

	// The room is gone: a fresh join must fail.
	writeEvent(t, host, "joinRoom", map[string]any{"playerName": "Bob", "roomId": "R"})
	ack = waitForAck(t, host, "joinRoom")
	if ack["success"] != false || ack["message"] != "Room does not exist" {
		t.Fatalf("expected join failure on ended room, got %+v", ack)
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	conn := dialWS(t, server)
	defer conn.Close()

	writeEvent(t, conn, "joinRoom", map[string]any{"playerName": "Alice", "roomId": "nowhere"})
	ack := waitForAck(t, conn, "joinRoom")
	if ack["success"] != false || ack["message"] != "Room does not exist" {
		t.Fatalf("unexpected ack: %+v", ack)
	}
}

func TestJoinValidation(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	conn := dialWS(t, server)
	defer conn.Close()

	writeEvent(t, conn, "joinRoom", map[string]any{"playerName": "", "roomId": "R"})
	ack := waitForAck(t, conn, "joinRoom")
	if ack["success"] != false || ack["message"] != "Player name is required" {
		t.Fatalf("unexpected ack: %+v", ack)
	}

	writeEvent(t, conn, "joinRoom", map[string]any{"playerName": "Alice", "roomId": ""})
	ack = waitForAck(t, conn, "joinRoom")
	if ack["success"] != false || ack["message"] != "Room name is required" {
		t.Fatalf("unexpected ack: %+v", ack)
	}
}

func TestDisconnectBroadcastsPlayerLeft(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	alice := dialWS(t, server)
	defer alice.Close()

	writeEvent(t, alice, "startQuiz", map[string]any{"quizId": "quiz-1", "roomName": "R"})
	waitForAck(t, alice, "startQuiz")
	writeEvent(t, alice, "joinRoom", map[string]any{"playerName": "Alice", "roomId": "R"})
	waitForAck(t, alice, "joinRoom")

	bob := dialWS(t, server)
	writeEvent(t, bob, "joinRoom", map[string]any{"playerName": "Bob", "roomId": "R"})
	waitForAck(t, bob, "joinRoom")

	// Alice sees Bob arrive, then leave when his connection drops.
	joined := waitForType(t, alice, "playerJoined")
	if joined["playerName"] != "Alice" {
		t.Fatalf("expected Alice's own join first, got %+v", joined)
	}
	joined = waitForType(t, alice, "playerJoined")
	if joined["playerName"] != "Bob" {
		t.Fatalf("expected Bob's join, got %+v", joined)
	}

	bob.Close()

	left := waitForType(t, alice, "playerLeft")
	players, _ := left["players"].([]any)
	if len(players) != 1 {
		t.Fatalf("expected one remaining player, got %+v", left)
	}
	remaining := players[0].(map[string]any)
	if remaining["name"] != "Alice" {
		t.Fatalf("expected Alice remaining, got %+v", remaining)
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.NewSeededQuizStore(map[string]domain.Quiz{"quiz-1": sampleQuiz()})
	repo := memory.NewQuizRepository(store, time.Minute)
	games := app.NewGameService(memory.NewRoomRegistry(), repo, false)
	quizzes := app.NewQuizService(store)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", NewSessionHandler(games).ServeWS)
	NewQuizHandler(quizzes).Register(mux)
	return httptest.NewServer(mux)
}

func dialWS(t *testing.T, server *httptest.Server) *wsClient {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return &wsClient{t: t, conn: conn}
}

func writeEvent(t *testing.T, conn *wsClient, eventType string, payload map[string]any) {
	t.Helper()
	if err := conn.conn.WriteJSON(map[string]any{"type": eventType, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", eventType, err)
	}
}

type wsMessage struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// wsClient wraps a connection with a backlog so tests can wait for a specific
// message while keeping the interleaved ones (ack vs broadcast order between
// the writer and the forwarders is not fixed).
type wsClient struct {
	t       *testing.T
	conn    *websocket.Conn
	backlog []wsMessage
}

func (c *wsClient) Close() error {
	return c.conn.Close()
}

func (c *wsClient) waitFor(want string, match func(wsMessage) bool) map[string]any {
	c.t.Helper()
	for i, msg := range c.backlog {
		if match(msg) {
			c.backlog = append(c.backlog[:i], c.backlog[i+1:]...)
			return msg.Payload
		}
	}
	for i := 0; i < 10; i++ {
		var msg wsMessage
		_ = c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.t.Fatalf("read json waiting for %s: %v", want, err)
		}
		if match(msg) {
			return msg.Payload
		}
		c.backlog = append(c.backlog, msg)
	}
	c.t.Fatalf("no %s message received", want)
	return nil
}

func waitForType(t *testing.T, conn *wsClient, msgType string) map[string]any {
	t.Helper()
	return conn.waitFor(msgType, func(msg wsMessage) bool { return msg.Type == msgType })
}

func waitForAck(t *testing.T, conn *wsClient, event string) map[string]any {
	t.Helper()
	return conn.waitFor("ack:"+event, func(msg wsMessage) bool {
		return msg.Type == "ack" && msg.Payload["event"] == event
	})
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:   "quiz-1",
		Name: "General knowledge",
		Questions: []domain.Question{
			{
				ID:   "q1",
				Text: "What is 2 + 2?",
				Answers: []domain.AnswerOption{
					{Text: "3", Correct: false},
					{Text: "4", Correct: true},
					{Text: "5", Correct: false},
				},
			},
			{
				ID:   "q2",
				Text: "Which planet is closest to the sun?",
				Answers: []domain.AnswerOption{
					{Text: "Venus", Correct: false},
					{Text: "Mercury", Correct: true},
				},
			},
		},
	}
}
