package game

import (
	"context"
	"time"
)

// Audience is the targeting layer the room broadcasts through. The websocket
// hub implements it; the room never touches raw connections except for
// per-identity unicast, which it resolves through the roster at send time.
type Audience interface {
	// JoinAdmin adds conn to the privileged group.
	JoinAdmin(conn Conn)
	// JoinWaiting adds conn to the waiting/player group.
	JoinWaiting(conn Conn)
	// IsAdmin reports current membership in the privileged group. Checked
	// at the moment of each admin-only call, not at join time.
	IsAdmin(conn Conn) bool
	// Leave removes conn from every group.
	Leave(conn Conn)
	// Reset empties both groups.
	Reset()

	ToAdmins(ev Event)
	ToWaiting(ev SharedEvent)
	ToAll(ev SharedEvent)
}

// ResultRecord is one finished-question row handed to the results sink.
type ResultRecord struct {
	Identity   string    `json:"identity"`
	Answer     string    `json:"answer"`
	Seconds    float64   `json:"seconds"`
	Score      float64   `json:"score"`
	Rank       int       `json:"rank"`
	Correct    bool      `json:"correct"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ResultsSink is the append-only external store for finished-game results.
// Calls are strictly best-effort: the room logs failures and never lets them
// touch the in-memory session.
type ResultsSink interface {
	Append(ctx context.Context, gameID string, records []ResultRecord) error
	Clear(ctx context.Context, gameID string) error
}

// noAnswerSentinel is logged in place of an answer for participants who
// never submitted one.
const noAnswerSentinel = "<no answer>"
