package app

import (
	"math/rand"

	"quiz-room-service/internal/domain"
)

// ShuffleAnswers returns a session-local copy of questions with each question's
// answer options independently permuted. The source slice is never mutated, so
// the stored quiz keeps its authored order. Every member of a room is shown the
// same permutation because the shuffle runs once per session, not per player.
func ShuffleAnswers(questions []domain.Question, rnd *rand.Rand) []domain.Question {
	shuffled := make([]domain.Question, len(questions))
	for i, q := range questions {
		answers := make([]domain.AnswerOption, len(q.Answers))
		copy(answers, q.Answers)
		rnd.Shuffle(len(answers), func(a, b int) {
			answers[a], answers[b] = answers[b], answers[a]
		})
		q.Answers = answers
		shuffled[i] = q
	}
	return shuffled
}
