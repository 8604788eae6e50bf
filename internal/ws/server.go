package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"agronomo-ia/internal/conversation"
	"agronomo-ia/internal/observability"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

// Client is one page. It owns exactly one controller, so a reload starts
// from idle.
type Client struct {
	conn *websocket.Conn
	ctrl *conversation.Controller

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

type Server struct {
	starter  conversation.Starter
	metrics  *observability.Metrics
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*Client]bool
}

func NewServer(starter conversation.Starter, metrics *observability.Metrics, allowAnyOrigin bool) *Server {
	return &Server{
		starter: starter,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return allowAnyOrigin || sameOrigin(r)
			},
		},
		clients: map[*Client]bool{},
	}
}

// sameOrigin accepts non-browser clients (no Origin) and same-host pages.
func sameOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{conn: conn, send: make(chan []byte, sendBuffer)}
	client.ctrl = conversation.NewController(s.starter, func(snap conversation.Snapshot) {
		s.observeTransition(snap)
		s.sendJSON(client, newStateMessage(snap))
	})

	s.mu.Lock()
	s.clients[client] = true
	active := len(s.clients)
	s.mu.Unlock()
	s.setActive(active)
	log.Debug().Str("remote", r.RemoteAddr).Msg("state channel opened")

	s.sendJSON(client, newStateMessage(client.ctrl.Snapshot()))
	go s.writeLoop(client)
	s.readLoop(client)
}

// ActiveCount returns the number of open page connections.
func (s *Server) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close drops every connection. In-flight attempts finish in the background
// and their results are discarded.
func (s *Server) Close() {
	s.mu.Lock()
	clients := make([]*Client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()
	for _, c := range clients {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		_ = c.conn.Close()
	}
}

func (s *Server) readLoop(c *Client) {
	defer func() {
		s.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		var base struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &base); err != nil {
			s.reject(c, "", "invalid_message")
			continue
		}
		s.countMessage("inbound", base.Type)
		switch base.Type {
		case TypeStart:
			var start StartMessage
			if err := json.Unmarshal(msg, &start); err != nil {
				s.reject(c, TypeStart, "invalid_message")
				continue
			}
			s.handleStart(c, start)
		case TypeLeave:
			if _, err := c.ctrl.Leave(); err != nil {
				s.reject(c, TypeLeave, commandError(err))
			}
		default:
			s.reject(c, base.Type, "invalid_message")
		}
	}
}

// handleStart runs the attempt off the read loop so leave and pings are
// still served while loading. The attempt is not tied to the connection.
func (s *Server) handleStart(c *Client, start StartMessage) {
	go func() {
		if _, err := c.ctrl.Start(context.Background(), start.Options()); err != nil {
			s.reject(c, TypeStart, commandError(err))
		}
	}()
}

func (s *Server) writeLoop(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) unregister(c *Client) {
	s.mu.Lock()
	delete(s.clients, c)
	active := len(s.clients)
	s.mu.Unlock()
	s.setActive(active)

	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
	log.Debug().Str("state", string(c.ctrl.Snapshot().State)).Msg("state channel closed")
}

func (s *Server) reject(c *Client, command, code string) {
	s.sendJSON(c, CommandResult{
		Type:            TypeCommandResult,
		ProtocolVersion: ProtocolVersion,
		Command:         command,
		Ok:              false,
		Error:           code,
	})
}

// sendJSON never blocks: it may run under the controller lock.
func (s *Server) sendJSON(c *Client, v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("marshal state channel message failed")
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- msg:
		s.countMessage("outbound", messageType(v))
	default:
		log.Warn().Msg("state channel send buffer full; dropping message")
	}
}

func (s *Server) observeTransition(snap conversation.Snapshot) {
	if s.metrics != nil {
		s.metrics.StateTransitions.WithLabelValues(string(snap.State)).Inc()
	}
}

func (s *Server) setActive(n int) {
	if s.metrics != nil {
		s.metrics.ActiveConnections.Set(float64(n))
	}
}

func (s *Server) countMessage(direction, typ string) {
	if s.metrics == nil {
		return
	}
	switch typ {
	case TypeStart, TypeLeave, TypeState, TypeCommandResult:
	default:
		typ = "other"
	}
	s.metrics.WSMessages.WithLabelValues(direction, typ).Inc()
}

func messageType(v any) string {
	switch v.(type) {
	case StateMessage:
		return TypeState
	case CommandResult:
		return TypeCommandResult
	default:
		return "other"
	}
}

func commandError(err error) string {
	switch {
	case errors.Is(err, conversation.ErrAttemptInFlight):
		return "attempt_in_flight"
	case errors.Is(err, conversation.ErrInvalidTransition):
		return "invalid_transition"
	default:
		return "internal_error"
	}
}
