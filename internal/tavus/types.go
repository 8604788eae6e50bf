package tavus

// ConversationRequest is the body of POST /conversations.
type ConversationRequest struct {
	ReplicaID  string                 `json:"replica_id"`
	PersonaID  string                 `json:"persona_id"`
	Properties ConversationProperties `json:"properties"`
}

type ConversationProperties struct {
	ParticipantLeftTimeout int    `json:"participant_left_timeout"`
	Language               string `json:"language"`
}

// Conversation is a created session. ConversationURL is the join URL handed
// to the call widget.
type Conversation struct {
	ConversationURL string `json:"conversation_url"`
	ConversationID  string `json:"conversation_id"`
	Status          string `json:"status"`
}

// APIErrorBody is the error document returned on non-2xx responses.
type APIErrorBody struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

// ConversationOptions overrides configured identities for one attempt.
// Empty fields fall back to configuration.
type ConversationOptions struct {
	ReplicaID string `json:"replica_id,omitempty"`
	PersonaID string `json:"persona_id,omitempty"`
	Language  string `json:"language,omitempty"`
}
