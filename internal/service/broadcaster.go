package service

// Session event types pushed over WebSocket
const (
	EventAnswerEvaluated = "answer_evaluated"
	EventNextQuestion    = "next_question"
	EventSessionEnded    = "session_ended"
)

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToSession(sessionID string, msgType string, payload interface{})
}
