package domain

// Player is a participant in a room, identified by their connection ID.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AnswerOption is one possible answer to a question.
type AnswerOption struct {
	Text    string `json:"text"`
	Correct bool   `json:"isCorrect"`
}

// Question is a quiz question with its answer options.
type Question struct {
	ID      string         `json:"id"`
	Text    string         `json:"text"`
	Answers []AnswerOption `json:"answers"`
}

// QuestionDraft is a question as submitted by an author, before an ID is assigned.
type QuestionDraft struct {
	Text    string         `json:"text"`
	Answers []AnswerOption `json:"answers"`
}

// Quiz is a named, ordered collection of questions.
type Quiz struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
}

// AnswerOptionView is an answer option as shown to players: text only, so the
// correctness flag has no field to leak through.
type AnswerOptionView struct {
	Text string `json:"text"`
}

// QuestionView is the client-facing form of a question.
type QuestionView struct {
	ID      string             `json:"id"`
	Text    string             `json:"text"`
	Answers []AnswerOptionView `json:"answers"`
}

// View strips correctness flags from a question for broadcasting.
func (q Question) View() QuestionView {
	answers := make([]AnswerOptionView, 0, len(q.Answers))
	for _, a := range q.Answers {
		answers = append(answers, AnswerOptionView{Text: a.Text})
	}
	return QuestionView{ID: q.ID, Text: q.Text, Answers: answers}
}

// AnswerPair is a submitted answer as a [playerId, answer] tuple, the shape
// revealed in the quizEnded broadcast.
type AnswerPair [2]string
