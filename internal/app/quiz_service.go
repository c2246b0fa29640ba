package app

import (
	"context"

	"github.com/google/uuid"

	"quiz-room-service/internal/domain"
)

// QuizStore is the durable store of quiz definitions.
type QuizStore interface {
	Create(ctx context.Context, quiz domain.Quiz) error
	AddQuestion(ctx context.Context, quizID string, question domain.Question) (domain.Quiz, error)
	GetByID(ctx context.Context, quizID string) (domain.Quiz, error)
	List(ctx context.Context) ([]domain.Quiz, error)
}

// QuizService contains the quiz authoring use cases. It assigns IDs and
// validates drafts; storage is delegated to the QuizStore port.
type QuizService struct {
	store QuizStore
}

func NewQuizService(store QuizStore) *QuizService {
	return &QuizService{store: store}
}

// CreateQuiz registers an empty quiz under a fresh ID.
func (s *QuizService) CreateQuiz(ctx context.Context, name string) (domain.Quiz, error) {
	if name == "" {
		return domain.Quiz{}, domain.ErrEmptyQuizName
	}
	quiz := domain.Quiz{
		ID:        uuid.NewString(),
		Name:      name,
		Questions: []domain.Question{},
	}
	if err := s.store.Create(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// AddQuestion appends an authored question to a quiz and returns the updated quiz.
func (s *QuizService) AddQuestion(ctx context.Context, quizID string, draft domain.QuestionDraft) (domain.Quiz, error) {
	if draft.Text == "" || len(draft.Answers) == 0 {
		return domain.Quiz{}, domain.ErrInvalidQuestion
	}
	question := domain.Question{
		ID:      uuid.NewString(),
		Text:    draft.Text,
		Answers: draft.Answers,
	}
	return s.store.AddQuestion(ctx, quizID, question)
}

// FindByID loads one quiz definition.
func (s *QuizService) FindByID(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.store.GetByID(ctx, quizID)
}

// FindAll lists every stored quiz.
func (s *QuizService) FindAll(ctx context.Context) ([]domain.Quiz, error) {
	return s.store.List(ctx)
}
