package app

import (
	"sync"

	"quiz-room-service/internal/domain"
)

// Room is the state machine for one live quiz session: membership, question
// progression and the answers pending for the current question. All mutations
// on a room are serialized by its mutex; distinct rooms share no state.
//
// A room is only ever materialized in the Active state (questions assigned,
// index in range). The Ended state is instantaneous: the terminal advance
// marks the room closed under its own lock, so a registry lookup racing the
// delete observes a closed room and gets ErrRoomNotFound, never Ended.
type Room struct {
	id     string
	retain bool

	mu        sync.Mutex
	closed    bool
	players   []domain.Player
	questions []domain.Question
	current   int
	answers   map[string]string
	order     []string // playerIDs in first-submission order
	history   []RoundAnswers

	subscribers map[string]chan Event
}

// NewRoom builds an Active room over a session-local question list. When
// retain is set, answers are snapshotted per question on every advance instead
// of the legacy behavior of one shared map for the whole session.
func NewRoom(id string, questions []domain.Question, retain bool) *Room {
	return &Room{
		id:          id,
		retain:      retain,
		questions:   questions,
		answers:     make(map[string]string),
		subscribers: make(map[string]chan Event),
	}
}

// ID returns the room identifier.
func (r *Room) ID() string {
	return r.id
}

// Join appends a player and subscribes them to the room's broadcasts. The
// returned channel receives every subsequent broadcast, starting with the
// playerJoined event for this join; cancel unsubscribes and is safe to call
// after the room has been closed.
func (r *Room) Join(playerID, playerName string) (<-chan Event, func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, nil, domain.ErrRoomNotFound
	}

	r.players = append(r.players, domain.Player{ID: playerID, Name: playerName})

	ch := make(chan Event, 8)
	if old, ok := r.subscribers[playerID]; ok {
		close(old)
	}
	r.subscribers[playerID] = ch

	r.broadcastLocked(Event{Type: EventPlayerJoined, Payload: PlayerJoinedPayload{
		PlayerName: playerName,
		Players:    r.rosterLocked(),
	}})

	cancel := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if cur, ok := r.subscribers[playerID]; ok && cur == ch {
			delete(r.subscribers, playerID)
			close(ch)
		}
	}
	return ch, cancel, nil
}

// SubmitAnswer upserts the caller's answer for the current question. Last
// write wins; submissions are not checked against the roster. Answers stay
// private until the quizEnded reveal.
func (r *Room) SubmitAnswer(playerID, answer string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return domain.ErrRoomNotFound
	}
	if _, ok := r.answers[playerID]; !ok {
		r.order = append(r.order, playerID)
	}
	r.answers[playerID] = answer
	return nil
}

// Advance moves the room to the next question. In range it broadcasts
// nextQuestion with correctness stripped; past the end it broadcasts the
// quizEnded reveal and closes the room, reporting ended=true so the caller can
// drop it from the registry.
func (r *Room) Advance() (ended bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false, domain.ErrRoomNotFound
	}

	pending := r.pendingAnswersLocked()
	if r.retain && r.current < len(r.questions) {
		r.history = append(r.history, RoundAnswers{
			QuestionID: r.questions[r.current].ID,
			Answers:    pending,
		})
		r.answers = make(map[string]string)
		r.order = nil
	}

	r.current++
	if r.current >= len(r.questions) {
		payload := QuizEndedPayload{Message: "Quiz has ended!", Answers: pending}
		if r.retain {
			payload.AnswersByQuestion = r.history
		}
		r.broadcastLocked(Event{Type: EventQuizEnded, Payload: payload})
		r.closeLocked()
		return true, nil
	}

	r.broadcastLocked(Event{Type: EventNextQuestion, Payload: NextQuestionPayload{
		Question: r.questions[r.current].View(),
	}})
	return false, nil
}

// RemovePlayer drops a player from the room, closing their subscription.
// A removal that leaves members behind broadcasts playerLeft to them. The
// reported emptiness reflects the roster after removal so sweeps can reap
// rooms that never gained a member.
func (r *Room) RemovePlayer(playerID string) (removed, empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false, false
	}

	// A rejoin appends a duplicate roster entry, so filter every occurrence.
	kept := r.players[:0]
	for _, p := range r.players {
		if p.ID == playerID {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	r.players = kept
	if ch, ok := r.subscribers[playerID]; ok {
		delete(r.subscribers, playerID)
		close(ch)
	}
	if len(r.players) == 0 {
		return removed, true
	}
	if removed {
		r.broadcastLocked(Event{Type: EventPlayerLeft, Payload: PlayerLeftPayload{
			PlayerID: playerID,
			Players:  r.rosterLocked(),
		}})
	}
	return removed, false
}

// Close marks the room terminal and drops all subscriptions. Idempotent.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeLocked()
}

// Players returns a snapshot of the roster in join order.
func (r *Room) Players() []domain.Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rosterLocked()
}

// CurrentIndex returns the current question index.
func (r *Room) CurrentIndex() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Room) closeLocked() {
	if r.closed {
		return
	}
	r.closed = true
	for id, ch := range r.subscribers {
		delete(r.subscribers, id)
		close(ch)
	}
}

func (r *Room) rosterLocked() []domain.Player {
	roster := make([]domain.Player, len(r.players))
	copy(roster, r.players)
	return roster
}

func (r *Room) pendingAnswersLocked() []domain.AnswerPair {
	pairs := make([]domain.AnswerPair, 0, len(r.order))
	for _, playerID := range r.order {
		pairs = append(pairs, domain.AnswerPair{playerID, r.answers[playerID]})
	}
	return pairs
}

// broadcastLocked fans the event out to every subscriber without blocking the
// critical section: a full channel has its oldest event dropped so slow
// consumers only ever lag, never stall the room.
func (r *Room) broadcastLocked(ev Event) {
	for _, ch := range r.subscribers {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}
