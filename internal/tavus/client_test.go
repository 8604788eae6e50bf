package tavus

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"agronomo-ia/internal/config"
)

func TestCreateConversationRequestShape(t *testing.T) {
	var calls atomic.Int32
	var gotBody map[string]any
	var gotKey, gotPath, gotMethod, gotCT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		gotKey = r.Header.Get("x-api-key")
		gotCT = r.Header.Get("Content-Type")
		gotPath = r.URL.Path
		gotMethod = r.Method
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"conversation_url":"https://x.daily.co/room","conversation_id":"abc","status":"active"}`))
	}))
	defer srv.Close()

	c := NewClient(fullConfig(srv.URL + "/v2/"))
	conv, err := c.CreateConversation(context.Background(), ConversationOptions{
		ReplicaID: "r-override",
		PersonaID: "p-override",
		Language:  "english",
	})
	if err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected exactly one request, got %d", calls.Load())
	}
	if gotMethod != http.MethodPost || gotPath != "/v2/conversations" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
	if gotKey != "key-1" || gotCT != "application/json" {
		t.Fatalf("unexpected headers key=%q content-type=%q", gotKey, gotCT)
	}
	if gotBody["replica_id"] != "r-override" || gotBody["persona_id"] != "p-override" {
		t.Fatalf("unexpected ids in body: %v", gotBody)
	}
	props, ok := gotBody["properties"].(map[string]any)
	if !ok {
		t.Fatalf("properties missing: %v", gotBody)
	}
	if v, ok := props["participant_left_timeout"].(float64); !ok || v != 0 {
		t.Fatalf("participant_left_timeout = %v, want 0", props["participant_left_timeout"])
	}
	if props["language"] != "english" {
		t.Fatalf("language = %v, want english", props["language"])
	}
	if conv.ConversationURL != "https://x.daily.co/room" || conv.ConversationID != "abc" || conv.Status != "active" {
		t.Fatalf("unexpected conversation: %+v", conv)
	}
}

func TestCreateConversationUsesConfiguredDefaults(t *testing.T) {
	var got ConversationRequest
	c := newTestClient(fullConfig("https://tavus.test/v2"), func(r *http.Request) (*http.Response, error) {
		if r.URL.String() != "https://tavus.test/v2/conversations" {
			t.Errorf("unexpected url %s", r.URL)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		return jsonResponse(http.StatusOK, `{"conversation_url":"https://x.daily.co/room","conversation_id":"abc","status":"active"}`), nil
	})

	if _, err := c.CreateConversation(context.Background(), ConversationOptions{}); err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	want := ConversationRequest{
		ReplicaID:  "replica-1",
		PersonaID:  "persona-1",
		Properties: ConversationProperties{ParticipantLeftTimeout: 0, Language: "spanish"},
	}
	if got != want {
		t.Fatalf("request = %+v, want %+v", got, want)
	}
}

func TestCreateConversationMissingConfigMakesNoRequest(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.TavusConfig
		opts    ConversationOptions
		missing string
	}{
		{name: "api key", cfg: config.TavusConfig{ReplicaID: "r", PersonaID: "p"}, missing: "TAVUS_API_KEY"},
		{name: "replica", cfg: config.TavusConfig{APIKey: "k", PersonaID: "p"}, missing: "TAVUS_REPLICA_ID"},
		{name: "persona", cfg: config.TavusConfig{APIKey: "k", ReplicaID: "r"}, missing: "TAVUS_PERSONA_ID"},
		{name: "override does not cover key", cfg: config.TavusConfig{}, opts: ConversationOptions{ReplicaID: "r", PersonaID: "p"}, missing: "TAVUS_API_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			c := newTestClient(tt.cfg, func(*http.Request) (*http.Response, error) {
				calls.Add(1)
				return jsonResponse(http.StatusOK, `{}`), nil
			})
			_, err := c.CreateConversation(context.Background(), tt.opts)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if !strings.Contains(cfgErr.Error(), tt.missing) {
				t.Fatalf("error %q should name %s", cfgErr.Error(), tt.missing)
			}
			if KindOf(err) != KindConfiguration {
				t.Fatalf("KindOf = %s, want configuration", KindOf(err))
			}
			if calls.Load() != 0 {
				t.Fatalf("expected no requests, got %d", calls.Load())
			}
		})
	}
}

func TestCreateConversationOverridesSatisfyMissingIDs(t *testing.T) {
	c := newTestClient(config.TavusConfig{APIKey: "k"}, func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"conversation_url":"https://x.daily.co/room","conversation_id":"abc","status":"active"}`), nil
	})
	if c.Configured() {
		t.Fatal("client without ids should not report configured")
	}
	if _, err := c.CreateConversation(context.Background(), ConversationOptions{ReplicaID: "r", PersonaID: "p"}); err != nil {
		t.Fatalf("create conversation: %v", err)
	}
}

func TestCreateConversationAPIError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "message preferred", body: `{"error":"bad_request","message":"invalid persona_id","status_code":400}`, want: "Error 400: invalid persona_id"},
		{name: "falls back to error", body: `{"error":"bad_request","status_code":400}`, want: "Error 400: bad_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(fullConfig("https://tavus.test/v2"), func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusBadRequest, tt.body), nil
			})
			_, err := c.CreateConversation(context.Background(), ConversationOptions{})
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.HTTPStatus != http.StatusBadRequest || apiErr.Error() != tt.want {
				t.Fatalf("unexpected api error: %d %q", apiErr.HTTPStatus, apiErr.Error())
			}
			if HTTPStatusOf(err) != http.StatusBadRequest {
				t.Fatalf("HTTPStatusOf = %d, want 400", HTTPStatusOf(err))
			}
		})
	}
}

func TestCreateConversationParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "malformed error body", status: http.StatusInternalServerError, body: `<html>oops</html>`},
		{name: "malformed success body", status: http.StatusOK, body: `{"conversation_url":`},
		{name: "success without url", status: http.StatusOK, body: `{"conversation_id":"abc","status":"active"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(fullConfig("https://tavus.test/v2"), func(*http.Request) (*http.Response, error) {
				return jsonResponse(tt.status, tt.body), nil
			})
			_, err := c.CreateConversation(context.Background(), ConversationOptions{})
			if KindOf(err) != KindParse {
				t.Fatalf("KindOf = %s (%v), want parse", KindOf(err), err)
			}
			if HTTPStatusOf(err) != tt.status {
				t.Fatalf("HTTPStatusOf = %d, want %d", HTTPStatusOf(err), tt.status)
			}
		})
	}
}

func TestCreateConversationTransportError(t *testing.T) {
	c := newTestClient(fullConfig("https://tavus.test/v2"), func(*http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	})
	_, err := c.CreateConversation(context.Background(), ConversationOptions{})
	var transErr *TransportError
	if !errors.As(err, &transErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if KindOf(err) != KindTransport {
		t.Fatalf("KindOf = %s, want transport", KindOf(err))
	}
}

func TestKindOfUnknown(t *testing.T) {
	if KindOf(nil) != "" {
		t.Fatalf("KindOf(nil) = %q, want empty", KindOf(nil))
	}
	if KindOf(errors.New("boom")) != KindUnknown {
		t.Fatalf("KindOf(plain) = %q, want unknown", KindOf(errors.New("boom")))
	}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}
