package app

import "quiz-room-service/internal/domain"

// EventType discriminates broadcast events delivered to room members.
type EventType string

const (
	EventPlayerJoined EventType = "playerJoined"
	EventPlayerLeft   EventType = "playerLeft"
	EventNextQuestion EventType = "nextQuestion"
	EventQuizEnded    EventType = "quizEnded"
)

// Event is a message fanned out to every subscriber of a room.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

// PlayerJoinedPayload announces a new member together with the full roster.
type PlayerJoinedPayload struct {
	PlayerName string          `json:"playerName"`
	Players    []domain.Player `json:"players"`
}

// PlayerLeftPayload announces a departure together with the remaining roster.
type PlayerLeftPayload struct {
	PlayerID string          `json:"playerId"`
	Players  []domain.Player `json:"players"`
}

// NextQuestionPayload carries the next question with correctness flags stripped.
type NextQuestionPayload struct {
	Question domain.QuestionView `json:"question"`
}

// RoundAnswers groups the answers collected while one question was current.
// Only populated when the room retains per-question answers.
type RoundAnswers struct {
	QuestionID string              `json:"questionId"`
	Answers    []domain.AnswerPair `json:"answers"`
}

// QuizEndedPayload is the terminal broadcast. Answers holds the submissions
// pending at the moment the quiz ended, in first-submission order.
// AnswersByQuestion is present only in retain mode.
type QuizEndedPayload struct {
	Message           string              `json:"message"`
	Answers           []domain.AnswerPair `json:"answers"`
	AnswersByQuestion []RoundAnswers      `json:"answersByQuestion,omitempty"`
}
