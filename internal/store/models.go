package store

import "time"

const (
	OutcomeConnected = "connected"
	OutcomeError     = "error"
)

// Attempt is one create-conversation attempt and how it ended.
type Attempt struct {
	ID              string    `json:"id"`
	ReplicaID       string    `json:"replica_id"`
	PersonaID       string    `json:"persona_id"`
	Language        string    `json:"language"`
	Source          string    `json:"source"`
	Outcome         string    `json:"outcome"`
	ConversationID  string    `json:"conversation_id,omitempty"`
	ConversationURL string    `json:"conversation_url,omitempty"`
	ErrorKind       string    `json:"error_kind,omitempty"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	HTTPStatus      int       `json:"http_status,omitempty"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
}
