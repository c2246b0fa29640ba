package domain

import "errors"

var (
	// ErrRoomNotFound is returned when a room ID does not name an active room.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomExists is returned when a room ID is already in use by an active room.
	ErrRoomExists = errors.New("room already exists")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrEmptyPlayerName is returned when a player tries to join without a name.
	ErrEmptyPlayerName = errors.New("player name is required")
	// ErrEmptyRoomName is returned when an event names no room.
	ErrEmptyRoomName = errors.New("room name is required")
	// ErrEmptyQuizID is returned when a start request names no quiz.
	ErrEmptyQuizID = errors.New("quiz id is required")
	// ErrNoQuestions is returned when a quiz cannot be played because it has no questions.
	ErrNoQuestions = errors.New("quiz has no questions")
	// ErrEmptyQuizName is returned when an author creates a quiz without a name.
	ErrEmptyQuizName = errors.New("quiz name is required")
	// ErrInvalidQuestion is returned when an authored question has no text or no options.
	ErrInvalidQuestion = errors.New("question needs text and at least one answer")
)
