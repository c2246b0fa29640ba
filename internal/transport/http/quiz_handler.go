package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"quiz-room-service/internal/app"
	"quiz-room-service/internal/domain"
)

// QuizHandler exposes the quiz authoring REST surface.
type QuizHandler struct {
	quizzes *app.QuizService
}

func NewQuizHandler(quizzes *app.QuizService) *QuizHandler {
	return &QuizHandler{quizzes: quizzes}
}

// Register mounts the authoring routes on the mux.
func (h *QuizHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /quiz", h.createQuiz)
	mux.HandleFunc("POST /question", h.addQuestion)
	mux.HandleFunc("GET /quiz/{quizid}", h.getQuiz)
	mux.HandleFunc("GET /quiz", h.listQuizzes)
}

type createQuizRequest struct {
	Name string `json:"name"`
}

type addQuestionRequest struct {
	QuizID   string               `json:"quizId"`
	Question domain.QuestionDraft `json:"question"`
}

func (h *QuizHandler) createQuiz(w http.ResponseWriter, r *http.Request) {
	var req createQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	quiz, err := h.quizzes.CreateQuiz(r.Context(), req.Name)
	if err != nil {
		writeQuizError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}

func (h *QuizHandler) addQuestion(w http.ResponseWriter, r *http.Request) {
	var req addQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	quiz, err := h.quizzes.AddQuestion(r.Context(), req.QuizID, req.Question)
	if err != nil {
		writeQuizError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}

func (h *QuizHandler) getQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizzes.FindByID(r.Context(), r.PathValue("quizid"))
	if err != nil {
		writeQuizError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *QuizHandler) listQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.quizzes.FindAll(r.Context())
	if err != nil {
		writeQuizError(w, err)
		return
	}
	if quizzes == nil {
		quizzes = []domain.Quiz{}
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func writeQuizError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmptyQuizName), errors.Is(err, domain.ErrInvalidQuestion):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("quiz handler error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
