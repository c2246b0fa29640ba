package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-room-service/internal/domain"
)

// QuizStore is an in-memory implementation of app.QuizStore, useful for
// running without Postgres and as a fixture in tests.
type QuizStore struct {
	mu      sync.RWMutex
	quizzes map[string]domain.Quiz
}

func NewQuizStore() *QuizStore {
	return &QuizStore{quizzes: make(map[string]domain.Quiz)}
}

// NewSeededQuizStore builds a store preloaded with quizzes keyed by ID.
func NewSeededQuizStore(quizzes map[string]domain.Quiz) *QuizStore {
	store := NewQuizStore()
	for id, quiz := range quizzes {
		quiz.ID = id
		store.quizzes[id] = quiz
	}
	return store
}

func (s *QuizStore) Create(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[quiz.ID] = cloneQuiz(quiz)
	return nil
}

func (s *QuizStore) AddQuestion(_ context.Context, quizID string, question domain.Question) (domain.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	quiz = cloneQuiz(quiz)
	quiz.Questions = append(quiz.Questions, question)
	s.quizzes[quizID] = quiz
	return cloneQuiz(quiz), nil
}

func (s *QuizStore) GetByID(_ context.Context, quizID string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return cloneQuiz(quiz), nil
}

func (s *QuizStore) List(_ context.Context) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quizzes := make([]domain.Quiz, 0, len(s.quizzes))
	for _, quiz := range s.quizzes {
		quizzes = append(quizzes, cloneQuiz(quiz))
	}
	sort.Slice(quizzes, func(i, j int) bool { return quizzes[i].ID < quizzes[j].ID })
	return quizzes, nil
}

// LoadQuiz lets the store double as a QuizLoader behind the caching repositories.
func (s *QuizStore) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.GetByID(ctx, quizID)
}

// cloneQuiz deep-copies a quiz so callers can't mutate stored state.
func cloneQuiz(quiz domain.Quiz) domain.Quiz {
	questions := make([]domain.Question, len(quiz.Questions))
	for i, q := range quiz.Questions {
		answers := make([]domain.AnswerOption, len(q.Answers))
		copy(answers, q.Answers)
		q.Answers = answers
		questions[i] = q
	}
	quiz.Questions = questions
	return quiz
}
