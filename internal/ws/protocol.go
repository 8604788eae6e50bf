package ws

import (
	"agronomo-ia/internal/conversation"
	"agronomo-ia/internal/tavus"
)

const ProtocolVersion = "1.0"

const (
	TypeStart         = "start"
	TypeLeave         = "leave"
	TypeState         = "state"
	TypeCommandResult = "command_result"
)

// StartMessage asks the page's controller to begin an attempt. Empty fields
// use the server configuration.
type StartMessage struct {
	Type      string `json:"type"`
	ReplicaID string `json:"replica_id,omitempty"`
	PersonaID string `json:"persona_id,omitempty"`
	Language  string `json:"language,omitempty"`
}

func (m StartMessage) Options() tavus.ConversationOptions {
	return tavus.ConversationOptions{
		ReplicaID: m.ReplicaID,
		PersonaID: m.PersonaID,
		Language:  m.Language,
	}
}

type StateMessage struct {
	Type            string             `json:"type"`
	ProtocolVersion string             `json:"protocol_version"`
	State           conversation.State `json:"state"`
	ConversationURL string             `json:"conversation_url,omitempty"`
	ConversationID  string             `json:"conversation_id,omitempty"`
	Error           string             `json:"error,omitempty"`
}

func newStateMessage(s conversation.Snapshot) StateMessage {
	return StateMessage{
		Type:            TypeState,
		ProtocolVersion: ProtocolVersion,
		State:           s.State,
		ConversationURL: s.ConversationURL,
		ConversationID:  s.ConversationID,
		Error:           s.Error,
	}
}

// CommandResult reports a rejected command. Accepted commands are answered
// by state messages only.
type CommandResult struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Command         string `json:"command"`
	Ok              bool   `json:"ok"`
	Error           string `json:"error,omitempty"`
}
