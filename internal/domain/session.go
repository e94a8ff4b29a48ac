package domain

import "time"

// Modos de evaluacion.
const (
	ModeGuided = "guided"
	ModeOpen   = "open"
)

const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"

	StageWelcome   = "welcome"
	StageQuestions = "questions"
	StageResults   = "results"
)

// ValidMode indica si el modo de chat es soportado.
func ValidMode(mode string) bool {
	return mode == ModeGuided || mode == ModeOpen
}

type ChatSession struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	ChatMode          string    `json:"chat_mode"`
	CurrentQuestionID *int64    `json:"current_question_id,omitempty"`
	ConversationStage string    `json:"conversation_stage"`
	Status            string    `json:"status"`
	StartedAt         time.Time `json:"started_at"`
	LastActivity      time.Time `json:"last_activity"`
}
