package model

// StartSessionRequest is the body of POST /v1/sessions
type StartSessionRequest struct {
	Domain     string `json:"domain"`
	Topic      string `json:"topic,omitempty"`
	Difficulty string `json:"difficulty,omitempty"` // defaults to medium
}

// SessionResponse pairs a session with the question currently asked
type SessionResponse struct {
	Session  *SessionView   `json:"session"`
	Question *QuestionView  `json:"question,omitempty"`
	Done     bool           `json:"done"`
	Report   *SessionReport `json:"report,omitempty"`
}

// SubmitAnswerRequest is the body of POST /v1/sessions/{id}/answers
type SubmitAnswerRequest struct {
	Answer string `json:"answer"`
}

// SubmitAnswerResponse is returned after an answer has been evaluated
type SubmitAnswerResponse struct {
	SessionID      string          `json:"sessionId"`
	QuestionNumber int             `json:"questionNumber"`
	Score          ScoreResult     `json:"score"`
	Feedback       string          `json:"feedback,omitempty"`
	MissingPoints  []string        `json:"missingPoints"`
	Issues         []string        `json:"issues"`
	Decision       PolicyDecision  `json:"decision"`
	NextQuestion   *QuestionView   `json:"nextQuestion,omitempty"`
	Done           bool            `json:"done"`
	Degraded       bool            `json:"degraded"`
	Report         *SessionReport  `json:"report,omitempty"`
	Claims         ExtractedClaims `json:"claims"`
}

// EvaluateRequest is the body of the stateless POST /v1/evaluate
type EvaluateRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Rubric   Rubric `json:"rubric"`
}
