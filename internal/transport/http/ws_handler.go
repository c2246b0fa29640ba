package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"quiz-room-service/internal/app"
	"quiz-room-service/internal/domain"
)

// SessionHandler upgrades HTTP requests to websockets and maps the session
// event protocol onto the game use cases. Every inbound event gets exactly one
// acknowledgment, success or failure; room broadcasts arrive as separate
// messages through the connection's subscriptions.
type SessionHandler struct {
	games    *app.GameService
	upgrader websocket.Upgrader
}

func NewSessionHandler(games *app.GameService) *SessionHandler {
	return &SessionHandler{
		games: games,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinRoomPayload struct {
	PlayerName string `json:"playerName"`
	RoomID     string `json:"roomId"`
}

type startQuizPayload struct {
	QuizID   string `json:"quizId"`
	RoomName string `json:"roomName"`
}

type submitAnswerPayload struct {
	RoomID string `json:"roomId"`
	Answer string `json:"answer"`
}

type nextQuestionPayload struct {
	RoomID string `json:"roomId"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type ackPayload struct {
	Event   string `json:"event"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

// ServeWS runs one client connection: a writer goroutine serializes all
// outbound traffic, a forwarder per joined room pumps broadcasts into it, and
// the read loop dispatches events. Closing the connection (or any read error)
// sweeps the player out of every room.
func (h *SessionHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	log.Printf("new connection: %s", connID)

	send := make(chan outboundMessage, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	var forwarders sync.WaitGroup

	go func() {
		defer close(writerDone)
		var failed bool
		for msg := range send {
			if failed {
				// Keep draining so producers never block on a dead peer.
				continue
			}
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				failed = true
			}
		}
	}()

	forward := func(events <-chan app.Event) {
		defer forwarders.Done()
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage{Type: string(ev.Type), Payload: ev.Payload}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}

	// roomID -> cancel; only touched from this goroutine.
	subscriptions := make(map[string]func())

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		switch inbound.Type {
		case "joinRoom":
			var payload joinRoomPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- failAck("joinRoom", "invalid joinRoom payload")
				continue
			}
			events, cancel, err := h.games.JoinRoom(payload.RoomID, connID, payload.PlayerName)
			if err != nil {
				send <- failAck("joinRoom", ackMessage("joinRoom", err))
				continue
			}
			if prev, ok := subscriptions[payload.RoomID]; ok {
				prev()
			}
			subscriptions[payload.RoomID] = cancel
			forwarders.Add(1)
			go forward(events)
			log.Printf("%s joined room %s", payload.PlayerName, payload.RoomID)
			send <- outboundMessage{Type: "ack", Payload: ackPayload{
				Event:   "joinRoom",
				Success: true,
				Message: "Joined the room successfully",
				RoomID:  payload.RoomID,
			}}

		case "startQuiz":
			var payload startQuizPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- failAck("startQuiz", "invalid startQuiz payload")
				continue
			}
			roomID, err := h.games.StartQuiz(r.Context(), payload.QuizID, payload.RoomName)
			if err != nil {
				send <- failAck("startQuiz", ackMessage("startQuiz", err))
				continue
			}
			log.Printf("quiz started with room id: %s", roomID)
			send <- outboundMessage{Type: "ack", Payload: ackPayload{
				Event:   "startQuiz",
				Success: true,
				Message: "Quiz started successfully",
				RoomID:  roomID,
			}}

		case "submitAnswer":
			var payload submitAnswerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- failAck("submitAnswer", "invalid submitAnswer payload")
				continue
			}
			if err := h.games.SubmitAnswer(payload.RoomID, connID, payload.Answer); err != nil {
				send <- failAck("submitAnswer", ackMessage("submitAnswer", err))
				continue
			}
			send <- outboundMessage{Type: "ack", Payload: ackPayload{
				Event:   "submitAnswer",
				Success: true,
				Message: "Answer submitted successfully",
			}}

		case "nextQuestion":
			var payload nextQuestionPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- failAck("nextQuestion", "invalid nextQuestion payload")
				continue
			}
			if err := h.games.Advance(payload.RoomID); err != nil {
				send <- failAck("nextQuestion", ackMessage("nextQuestion", err))
				continue
			}
			send <- outboundMessage{Type: "ack", Payload: ackPayload{
				Event:   "nextQuestion",
				Success: true,
			}}

		default:
			send <- failAck(inbound.Type, "unsupported event type")
		}
	}

	log.Printf("connection closed: %s", connID)
	for _, cancel := range subscriptions {
		cancel()
	}
	h.games.Disconnect(connID)
	close(closeSignals)
	forwarders.Wait()
	close(send)
	<-writerDone
}

func failAck(event, message string) outboundMessage {
	return outboundMessage{Type: "ack", Payload: ackPayload{
		Event:   event,
		Success: false,
		Message: message,
	}}
}

// ackMessage renders sentinel errors as the human-readable acknowledgment
// text each event promises. Room lookup failures are worded differently on
// join than on the in-session events.
func ackMessage(event string, err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyPlayerName):
		return "Player name is required"
	case errors.Is(err, domain.ErrEmptyRoomName):
		if event == "startQuiz" {
			return "A room name is required to start a quiz"
		}
		return "Room name is required"
	case errors.Is(err, domain.ErrEmptyQuizID):
		return "A quiz is required to start a quiz"
	case errors.Is(err, domain.ErrRoomNotFound):
		if event == "joinRoom" {
			return "Room does not exist"
		}
		return "Room not found"
	case errors.Is(err, domain.ErrRoomExists):
		return "There is already a quiz going on with this room name"
	case errors.Is(err, domain.ErrQuizNotFound):
		return "Quiz not found"
	case errors.Is(err, domain.ErrNoQuestions):
		return "Quiz has no questions"
	default:
		return err.Error()
	}
}
