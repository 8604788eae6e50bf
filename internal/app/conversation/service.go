package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agronomo-ia/internal/observability"
	"agronomo-ia/internal/store"
	"agronomo-ia/internal/tavus"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	SourceWS  = "ws"
	SourceAPI = "api"
	SourceMCP = "mcp"

	maxOverrideLen = 128
	recordTimeout  = 3 * time.Second
)

// Creator is the remote conversation API.
type Creator interface {
	BuildRequest(opts tavus.ConversationOptions) (tavus.ConversationRequest, error)
	CreateConversation(ctx context.Context, opts tavus.ConversationOptions) (*tavus.Conversation, error)
}

// AttemptStore persists attempts. It is optional.
type AttemptStore interface {
	RecordAttempt(ctx context.Context, a *store.Attempt) error
	ListAttempts(ctx context.Context, limit, offset int) ([]store.Attempt, error)
	GetAttempt(ctx context.Context, id string) (*store.Attempt, error)
	CountAttemptsByOutcome(ctx context.Context) (map[string]int64, error)
}

type Service struct {
	client   Creator
	attempts AttemptStore
	metrics  *observability.Metrics
	now      func() time.Time
}

// NewService wires the API client to attempt recording and metrics. attempts
// and metrics may be nil.
func NewService(client Creator, attempts AttemptStore, metrics *observability.Metrics) *Service {
	return &Service{
		client:   client,
		attempts: attempts,
		metrics:  metrics,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) HistoryEnabled() bool {
	return s.attempts != nil
}

// Create runs one attempt on behalf of source and records its outcome.
func (s *Service) Create(ctx context.Context, source string, opts tavus.ConversationOptions) (*tavus.Conversation, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	started := s.now()
	conv, err := s.client.CreateConversation(ctx, opts)
	finished := s.now()

	outcome := store.OutcomeConnected
	if err != nil {
		outcome = store.OutcomeError
	}
	if s.metrics != nil {
		s.metrics.ObserveAttempt(source, outcome, finished.Sub(started))
	}

	var ev *zerolog.Event
	if err != nil {
		ev = log.Warn().Err(err).Str("kind", string(tavus.KindOf(err))).Int("http_status", tavus.HTTPStatusOf(err))
	} else {
		ev = log.Info().Str("conversation_id", conv.ConversationID).Str("status", conv.Status)
	}
	ev.Str("source", source).
		Dur("latency", finished.Sub(started)).
		Str("outcome", outcome).
		Msg("conversation attempt")

	s.record(ctx, source, opts, conv, err, started, finished)
	return conv, err
}

// History lists recorded attempts, newest first.
func (s *Service) History(ctx context.Context, limit, offset int) ([]store.Attempt, error) {
	if s.attempts == nil {
		return nil, ErrHistoryDisabled
	}
	return s.attempts.ListAttempts(ctx, limit, offset)
}

func (s *Service) Attempt(ctx context.Context, id string) (*store.Attempt, error) {
	if s.attempts == nil {
		return nil, ErrHistoryDisabled
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidRequest)
	}
	return s.attempts.GetAttempt(ctx, id)
}

// Summary counts recorded attempts per outcome.
func (s *Service) Summary(ctx context.Context) (map[string]int64, error) {
	if s.attempts == nil {
		return nil, ErrHistoryDisabled
	}
	counts, err := s.attempts.CountAttemptsByOutcome(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range []string{store.OutcomeConnected, store.OutcomeError} {
		if _, ok := counts[o]; !ok {
			counts[o] = 0
		}
	}
	return counts, nil
}

// Starter adapts the service to the state controller for one source.
func (s *Service) Starter(source string) *SourceStarter {
	return &SourceStarter{svc: s, source: source}
}

type SourceStarter struct {
	svc    *Service
	source string
}

func (st *SourceStarter) Create(ctx context.Context, opts tavus.ConversationOptions) (*tavus.Conversation, error) {
	return st.svc.Create(ctx, st.source, opts)
}

func (s *Service) record(ctx context.Context, source string, opts tavus.ConversationOptions, conv *tavus.Conversation, err error, started, finished time.Time) {
	if s.attempts == nil {
		return
	}
	a := &store.Attempt{
		ReplicaID:  strings.TrimSpace(opts.ReplicaID),
		PersonaID:  strings.TrimSpace(opts.PersonaID),
		Language:   strings.TrimSpace(opts.Language),
		Source:     source,
		StartedAt:  started,
		FinishedAt: finished,
	}
	if req, buildErr := s.client.BuildRequest(opts); buildErr == nil {
		a.ReplicaID = req.ReplicaID
		a.PersonaID = req.PersonaID
		a.Language = req.Properties.Language
	}
	if err != nil {
		a.Outcome = store.OutcomeError
		a.ErrorKind = string(tavus.KindOf(err))
		a.ErrorMessage = err.Error()
		a.HTTPStatus = tavus.HTTPStatusOf(err)
	} else {
		a.Outcome = store.OutcomeConnected
		a.ConversationID = conv.ConversationID
		a.ConversationURL = conv.ConversationURL
	}

	recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if recErr := s.attempts.RecordAttempt(recCtx, a); recErr != nil {
		log.Error().Err(recErr).Str("source", source).Msg("record conversation attempt failed")
	}
}

func validateOptions(opts tavus.ConversationOptions) error {
	for name, v := range map[string]string{
		"replica_id": opts.ReplicaID,
		"persona_id": opts.PersonaID,
		"language":   opts.Language,
	} {
		if len(strings.TrimSpace(v)) > maxOverrideLen {
			return fmt.Errorf("%w: %s too long", ErrInvalidRequest, name)
		}
	}
	return nil
}
