package domain

import "time"

const (
	MessageTypeUser   = "user"
	MessageTypeBot    = "bot"
	MessageTypeSystem = "system"
)

type ChatMessage struct {
	ID           int64     `json:"id"`
	SessionID    int64     `json:"session_id"`
	MessageType  string    `json:"message_type"`
	Content      string    `json:"content"`
	MessageOrder int       `json:"message_order"`
	SentAt       time.Time `json:"sent_at"`
}
