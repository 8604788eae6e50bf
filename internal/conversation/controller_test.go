package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"agronomo-ia/internal/tavus"
)

type fakeStarter struct {
	mu      sync.Mutex
	calls   int
	lastOpt tavus.ConversationOptions
	gate    chan struct{}
	results []fakeResult
}

type fakeResult struct {
	conv *tavus.Conversation
	err  error
}

func (f *fakeStarter) Create(_ context.Context, opts tavus.ConversationOptions) (*tavus.Conversation, error) {
	f.mu.Lock()
	idx := f.calls
	f.calls++
	f.lastOpt = opts
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	r := f.results[idx%len(f.results)]
	return r.conv, r.err
}

func (f *fakeStarter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recorder) observe(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) states() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]State, 0, len(r.snaps))
	for _, s := range r.snaps {
		out = append(out, s.State)
	}
	return out
}

func (r *recorder) all() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Snapshot(nil), r.snaps...)
}

var successConv = &tavus.Conversation{ConversationURL: "https://x.daily.co/room", ConversationID: "abc", Status: "active"}

var badPersonaErr = &tavus.APIError{HTTPStatus: 400, Code: "bad_request", Message: "invalid persona_id"}

func TestControllerStartSuccess(t *testing.T) {
	starter := &fakeStarter{results: []fakeResult{{conv: successConv}}}
	rec := &recorder{}
	c := NewController(starter, rec.observe)

	if got := c.Snapshot(); got.State != StateIdle || got.ConversationURL != "" {
		t.Fatalf("initial snapshot = %+v, want idle", got)
	}
	snap, err := c.Start(context.Background(), tavus.ConversationOptions{Language: "spanish"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if snap.State != StateConnected || snap.ConversationURL != "https://x.daily.co/room" || snap.ConversationID != "abc" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.Error != "" {
		t.Fatalf("connected snapshot carries error %q", snap.Error)
	}
	assertStates(t, rec.states(), StateLoading, StateConnected)
	if starter.lastOpt.Language != "spanish" {
		t.Fatalf("options not forwarded: %+v", starter.lastOpt)
	}
}

func TestControllerStartAPIError(t *testing.T) {
	starter := &fakeStarter{results: []fakeResult{{err: badPersonaErr}}}
	rec := &recorder{}
	c := NewController(starter, rec.observe)

	snap, err := c.Start(context.Background(), tavus.ConversationOptions{})
	if err != nil {
		t.Fatalf("start should not return starter errors: %v", err)
	}
	if snap.State != StateError {
		t.Fatalf("state = %s, want error", snap.State)
	}
	if !strings.Contains(snap.Error, "400") || !strings.Contains(snap.Error, "invalid persona_id") {
		t.Fatalf("error %q should mention status and message", snap.Error)
	}
	if snap.ConversationURL != "" {
		t.Fatalf("error snapshot carries url %q", snap.ConversationURL)
	}
	assertStates(t, rec.states(), StateLoading, StateError)
}

func TestControllerGenericMessageForNonAPIErrors(t *testing.T) {
	errs := []error{
		&tavus.ConfigError{Missing: []string{"TAVUS_API_KEY"}},
		&tavus.TransportError{Err: errors.New("dial tcp")},
		&tavus.ParseError{HTTPStatus: 200, Err: errors.New("bad json")},
		errors.New("boom"),
	}
	for _, e := range errs {
		c := NewController(&fakeStarter{results: []fakeResult{{err: e}}})
		snap, _ := c.Start(context.Background(), tavus.ConversationOptions{})
		if snap.State != StateError || snap.Error != genericFailureMessage {
			t.Fatalf("%T: snapshot = %+v, want generic error", e, snap)
		}
	}
}

func TestControllerNilConversationIsError(t *testing.T) {
	c := NewController(&fakeStarter{results: []fakeResult{{}}})
	snap, _ := c.Start(context.Background(), tavus.ConversationOptions{})
	if snap.State != StateError {
		t.Fatalf("state = %s, want error", snap.State)
	}
}

func TestControllerLeaveFromConnected(t *testing.T) {
	rec := &recorder{}
	c := NewController(&fakeStarter{results: []fakeResult{{conv: successConv}}}, rec.observe)
	if _, err := c.Start(context.Background(), tavus.ConversationOptions{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	snap, err := c.Leave()
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	if snap != (Snapshot{State: StateIdle}) {
		t.Fatalf("leave snapshot = %+v, want bare idle", snap)
	}
	assertStates(t, rec.states(), StateLoading, StateConnected, StateIdle)
}

func TestControllerLeaveFromErrorAndIdle(t *testing.T) {
	c := NewController(&fakeStarter{results: []fakeResult{{err: badPersonaErr}}})
	if snap, err := c.Leave(); err != nil || snap.State != StateIdle {
		t.Fatalf("leave from idle = %+v, %v", snap, err)
	}
	_, _ = c.Start(context.Background(), tavus.ConversationOptions{})
	snap, err := c.Leave()
	if err != nil {
		t.Fatalf("leave from error: %v", err)
	}
	if snap.State != StateIdle || snap.Error != "" {
		t.Fatalf("leave snapshot = %+v, want idle without error", snap)
	}
}

func TestControllerRetryClearsErrorBeforeLoading(t *testing.T) {
	starter := &fakeStarter{results: []fakeResult{{err: badPersonaErr}, {conv: successConv}}}
	rec := &recorder{}
	c := NewController(starter, rec.observe)

	_, _ = c.Start(context.Background(), tavus.ConversationOptions{})
	snap, err := c.Start(context.Background(), tavus.ConversationOptions{})
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if snap.State != StateConnected {
		t.Fatalf("retry state = %s, want connected", snap.State)
	}
	snaps := rec.all()
	if len(snaps) != 4 {
		t.Fatalf("expected 4 transitions, got %+v", snaps)
	}
	if snaps[2].State != StateLoading || snaps[2].Error != "" {
		t.Fatalf("retry loading snapshot = %+v, want loading without stale error", snaps[2])
	}
}

func TestControllerStartWhileLoadingIsRejected(t *testing.T) {
	starter := &fakeStarter{gate: make(chan struct{}), results: []fakeResult{{conv: successConv}}}
	c := NewController(starter)

	done := make(chan Snapshot, 1)
	go func() {
		snap, _ := c.Start(context.Background(), tavus.ConversationOptions{})
		done <- snap
	}()
	waitForState(t, c, StateLoading)

	if _, err := c.Start(context.Background(), tavus.ConversationOptions{}); !errors.Is(err, ErrAttemptInFlight) {
		t.Fatalf("second start err = %v, want ErrAttemptInFlight", err)
	}
	if _, err := c.Leave(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("leave while loading err = %v, want ErrInvalidTransition", err)
	}
	close(starter.gate)

	select {
	case snap := <-done:
		if snap.State != StateConnected {
			t.Fatalf("first start ended in %s", snap.State)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first start did not finish")
	}
	if starter.callCount() != 1 {
		t.Fatalf("starter called %d times, want 1", starter.callCount())
	}
}

func TestControllerStartWhileConnectedIsRejected(t *testing.T) {
	starter := &fakeStarter{results: []fakeResult{{conv: successConv}}}
	c := NewController(starter)
	_, _ = c.Start(context.Background(), tavus.ConversationOptions{})

	snap, err := c.Start(context.Background(), tavus.ConversationOptions{})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if snap.State != StateConnected || starter.callCount() != 1 {
		t.Fatalf("connected call should be untouched: %+v calls=%d", snap, starter.callCount())
	}
}

func waitForState(t *testing.T, c *Controller, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.Snapshot().State == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("controller never reached %s (now %s)", want, c.Snapshot().State)
}

func assertStates(t *testing.T, got []State, want ...State) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("states = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("states = %v, want %v", got, want)
		}
	}
}
