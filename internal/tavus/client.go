package tavus

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"agronomo-ia/internal/config"

	"github.com/rs/zerolog/log"
)

const (
	apiKeyHeader    = "x-api-key"
	defaultLanguage = "spanish"
)

// Client creates conversations. It holds an explicit copy of the settings it
// was built with and never reads the environment.
type Client struct {
	cfg  config.TavusConfig
	http *httpClient
}

func NewClient(cfg config.TavusConfig) *Client {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.DefaultTavusBaseURL
	}
	if strings.TrimSpace(cfg.Language) == "" {
		cfg.Language = defaultLanguage
	}
	if cfg.ParticipantLeftTimeout < 0 {
		cfg.ParticipantLeftTimeout = 0
	}
	return &Client{cfg: cfg, http: newHTTPClient(cfg.HTTPTimeout)}
}

// Configured reports whether attempts without overrides can be built.
func (c *Client) Configured() bool {
	return len(c.cfg.Missing()) == 0
}

// BuildRequest resolves overrides against configuration. It fails with
// *ConfigError when a required value is absent.
func (c *Client) BuildRequest(opts ConversationOptions) (ConversationRequest, error) {
	replicaID := strings.TrimSpace(opts.ReplicaID)
	if replicaID == "" {
		replicaID = c.cfg.ReplicaID
	}
	personaID := strings.TrimSpace(opts.PersonaID)
	if personaID == "" {
		personaID = c.cfg.PersonaID
	}
	language := strings.TrimSpace(opts.Language)
	if language == "" {
		language = c.cfg.Language
	}

	var missing []string
	if c.cfg.APIKey == "" {
		missing = append(missing, "TAVUS_API_KEY")
	}
	if replicaID == "" {
		missing = append(missing, "TAVUS_REPLICA_ID")
	}
	if personaID == "" {
		missing = append(missing, "TAVUS_PERSONA_ID")
	}
	if len(missing) > 0 {
		return ConversationRequest{}, &ConfigError{Missing: missing}
	}

	return ConversationRequest{
		ReplicaID: replicaID,
		PersonaID: personaID,
		Properties: ConversationProperties{
			ParticipantLeftTimeout: c.cfg.ParticipantLeftTimeout,
			Language:               language,
		},
	}, nil
}

// CreateConversation issues exactly one POST /conversations. There are no
// retries.
func (c *Client) CreateConversation(ctx context.Context, opts ConversationOptions) (*Conversation, error) {
	body, err := c.BuildRequest(opts)
	if err != nil {
		return nil, err
	}

	status, raw, err := c.http.postJSON(ctx, c.cfg.BaseURL+"/conversations", map[string]string{apiKeyHeader: c.cfg.APIKey}, body)
	if err != nil {
		if status != 0 {
			return nil, &ParseError{HTTPStatus: status, Err: err}
		}
		return nil, &TransportError{Err: err}
	}

	if status < 200 || status >= 300 {
		return nil, decodeAPIError(status, raw)
	}

	var conv Conversation
	if err := json.Unmarshal(raw, &conv); err != nil {
		return nil, &ParseError{HTTPStatus: status, Err: err}
	}
	if strings.TrimSpace(conv.ConversationURL) == "" {
		return nil, &ParseError{HTTPStatus: status, Err: errors.New("conversation_url missing")}
	}
	log.Debug().
		Str("conversation_id", conv.ConversationID).
		Str("status", conv.Status).
		Msg("tavus conversation created")
	return &conv, nil
}

func decodeAPIError(status int, raw []byte) error {
	var body APIErrorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return &ParseError{HTTPStatus: status, Err: err}
	}
	return &APIError{HTTPStatus: status, Code: body.Error, Message: body.Message}
}
