package memory

import (
	"context"
	"testing"

	"quiz-room-service/internal/domain"
)

func TestQuizStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewQuizStore()

	quiz := domain.Quiz{ID: "id-1", Name: "Capitals"}
	if err := store.Create(ctx, quiz); err != nil {
		t.Fatalf("create: %v", err)
	}

	question := domain.Question{
		ID:   "q1",
		Text: "Capital of France?",
		Answers: []domain.AnswerOption{
			{Text: "Paris", Correct: true},
			{Text: "Lyon", Correct: false},
		},
	}
	updated, err := store.AddQuestion(ctx, "id-1", question)
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	if len(updated.Questions) != 1 {
		t.Fatalf("expected 1 question, got %+v", updated.Questions)
	}

	got, err := store.GetByID(ctx, "id-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Questions) != 1 || got.Questions[0].Text != "Capital of France?" {
		t.Fatalf("unexpected quiz: %+v", got)
	}

	// Returned quizzes are detached copies.
	got.Questions[0].Answers[0].Text = "mutated"
	reread, _ := store.GetByID(ctx, "id-1")
	if reread.Questions[0].Answers[0].Text != "Paris" {
		t.Fatalf("stored quiz was mutated through a returned copy")
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 quiz, got %d", len(all))
	}
}

func TestQuizStoreMissing(t *testing.T) {
	ctx := context.Background()
	store := NewQuizStore()

	if _, err := store.GetByID(ctx, "none"); err != domain.ErrQuizNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := store.AddQuestion(ctx, "none", domain.Question{ID: "q"}); err != domain.ErrQuizNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := store.LoadQuiz(ctx, "none"); err != domain.ErrQuizNotFound {
		t.Fatalf("expected not found via loader, got %v", err)
	}
}
