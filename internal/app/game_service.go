package app

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"quiz-room-service/internal/domain"
)

// RoomRegistry abstracts how active rooms are tracked (in-memory, Redis-marked, etc).
// Implementations must make Add/Get/Delete linearizable per room ID.
type RoomRegistry interface {
	// Add registers a room, failing with domain.ErrRoomExists if its ID is
	// already active. A deleted room's ID may be reused.
	Add(room *Room) error
	Get(roomID string) (*Room, bool)
	// Delete is idempotent.
	Delete(roomID string)
	// Snapshot returns the active rooms at a point in time, so sweeps can
	// visit every room without holding the registry lock across room work.
	Snapshot() []*Room
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// GameService contains the room-protocol use cases: one method per client
// event, each returning a sentinel error the transport maps onto its
// acknowledgment. Broadcast fan-out happens inside the rooms themselves.
type GameService struct {
	rooms   RoomRegistry
	quizzes QuizRepository
	retain  bool

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewGameService(rooms RoomRegistry, quizzes QuizRepository, retainAnswers bool) *GameService {
	return NewGameServiceWithRand(rooms, quizzes, retainAnswers, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewGameServiceWithRand allows deterministic shuffles in tests.
func NewGameServiceWithRand(rooms RoomRegistry, quizzes QuizRepository, retainAnswers bool, rnd *rand.Rand) *GameService {
	return &GameService{rooms: rooms, quizzes: quizzes, retain: retainAnswers, rnd: rnd}
}

// StartQuiz resolves the quiz, shuffles its answer options for this session
// and registers a fresh room under roomName. The quiz lookup (the only
// operation here that may touch I/O) completes before any registry mutation,
// so no room lock is ever held across it. Returns the new room's ID.
func (s *GameService) StartQuiz(ctx context.Context, quizID, roomName string) (string, error) {
	if roomName == "" {
		return "", domain.ErrEmptyRoomName
	}
	if quizID == "" {
		return "", domain.ErrEmptyQuizID
	}

	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return "", err
	}
	if len(quiz.Questions) == 0 {
		return "", domain.ErrNoQuestions
	}

	s.rndMu.Lock()
	questions := ShuffleAnswers(quiz.Questions, s.rnd)
	s.rndMu.Unlock()

	room := NewRoom(roomName, questions, s.retain)
	if err := s.rooms.Add(room); err != nil {
		return "", err
	}
	return roomName, nil
}

// JoinRoom adds a player to an existing room and returns the broadcast channel
// for their membership plus its cancel function. Joining never creates a room.
func (s *GameService) JoinRoom(roomID, playerID, playerName string) (<-chan Event, func(), error) {
	if playerName == "" {
		return nil, nil, domain.ErrEmptyPlayerName
	}
	if roomID == "" {
		return nil, nil, domain.ErrEmptyRoomName
	}
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return nil, nil, domain.ErrRoomNotFound
	}
	return room.Join(playerID, playerName)
}

// SubmitAnswer records a player's answer for the room's current question.
func (s *GameService) SubmitAnswer(roomID, playerID, answer string) error {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.ErrRoomNotFound
	}
	return room.SubmitAnswer(playerID, answer)
}

// Advance moves a room to its next question, dropping the room from the
// registry when the question list is exhausted.
func (s *GameService) Advance(roomID string) error {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.ErrRoomNotFound
	}
	ended, err := room.Advance()
	if ended {
		s.rooms.Delete(roomID)
	}
	return err
}

// Disconnect removes the connection's player from every active room, reaping
// rooms left empty. Membership is not indexed by connection, so this sweeps
// the registry snapshot; each room is visited under its own lock only.
func (s *GameService) Disconnect(playerID string) {
	for _, room := range s.rooms.Snapshot() {
		_, empty := room.RemovePlayer(playerID)
		if empty {
			room.Close()
			s.rooms.Delete(room.ID())
		}
	}
}
