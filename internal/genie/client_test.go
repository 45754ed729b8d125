package genie

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// genieStub serves the two-endpoint conversation API, answering the poll with
// the configured sequence of responses, one per attempt.
func genieStub(t *testing.T, wantKey string, polls []pollResponse) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var pollCount atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /conversations", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer "+wantKey {
			t.Errorf("post authorization = %q", got)
		}
		var req postRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding post body: %v", err)
		}
		if req.Question == "" {
			t.Errorf("post carried an empty question")
		}
		json.NewEncoder(w).Encode(postResponse{ConversationID: "conv-1", MessageID: "msg-1"})
	})
	mux.HandleFunc("GET /conversations/conv-1/messages/msg-1", func(w http.ResponseWriter, r *http.Request) {
		n := int(pollCount.Add(1)) - 1
		if n >= len(polls) {
			n = len(polls) - 1
		}
		json.NewEncoder(w).Encode(polls[n])
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &pollCount
}

func TestAskPendingThenCompleted(t *testing.T) {
	srv, polls := genieStub(t, "key-1", []pollResponse{
		{Status: StatusPending},
		{Status: StatusPending},
		{Status: StatusCompleted, Text: "42 players joined"},
	})

	c := NewClient(srv.URL, "key-1", time.Millisecond, 10)
	got, err := c.Ask(context.Background(), "how many players joined?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if got != "42 players joined" {
		t.Errorf("answer = %q", got)
	}
	if n := polls.Load(); n != 3 {
		t.Errorf("polled %d times, want 3", n)
	}
}

func TestAskRendersRows(t *testing.T) {
	srv, _ := genieStub(t, "key-1", []pollResponse{
		{Status: StatusCompleted, Text: "Top scores", Rows: [][]string{
			{"Ana", "8"},
			{"Ben", "0"},
		}},
	})

	c := NewClient(srv.URL, "key-1", time.Millisecond, 5)
	got, err := c.Ask(context.Background(), "top scores")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	want := "Top scores\nAna\t8\nBen\t0"
	if got != want {
		t.Errorf("answer = %q, want %q", got, want)
	}
}

func TestAskFailedStatus(t *testing.T) {
	srv, _ := genieStub(t, "key-1", []pollResponse{
		{Status: StatusFailed},
	})

	c := NewClient(srv.URL, "key-1", time.Millisecond, 5)
	if _, err := c.Ask(context.Background(), "q"); err == nil {
		t.Fatalf("expected an error for FAILED status")
	} else if !strings.Contains(err.Error(), "failed") {
		t.Errorf("error = %v, want mention of failed", err)
	}
}

func TestAskExhaustsPollBudget(t *testing.T) {
	srv, polls := genieStub(t, "key-1", []pollResponse{
		{Status: StatusPending},
	})

	c := NewClient(srv.URL, "key-1", time.Millisecond, 4)
	_, err := c.Ask(context.Background(), "q")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if n := polls.Load(); n != 4 {
		t.Errorf("polled %d times, want 4", n)
	}
}

func TestAskContextCancelled(t *testing.T) {
	srv, _ := genieStub(t, "key-1", []pollResponse{
		{Status: StatusPending},
	})

	c := NewClient(srv.URL, "key-1", time.Hour, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Ask(ctx, "q"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestAskUnconfigured(t *testing.T) {
	c := NewClient("", "", time.Millisecond, 1)
	if c.IsConfigured() {
		t.Fatalf("empty base URL should report unconfigured")
	}
	if _, err := c.Ask(context.Background(), "q"); err == nil {
		t.Fatalf("unconfigured Ask must fail")
	}
}
