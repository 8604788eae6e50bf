package conversation

import "errors"

type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateConnected State = "connected"
	StateError     State = "error"
)

var (
	// ErrAttemptInFlight rejects a start while a previous one is loading.
	ErrAttemptInFlight   = errors.New("attempt_in_flight")
	ErrInvalidTransition = errors.New("invalid_transition")
)

// Snapshot is the observable state of one controller. ConversationURL is set
// only in StateConnected and Error only in StateError.
type Snapshot struct {
	State           State  `json:"state"`
	ConversationURL string `json:"conversation_url,omitempty"`
	ConversationID  string `json:"conversation_id,omitempty"`
	Error           string `json:"error,omitempty"`
}
