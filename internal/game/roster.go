package game

import "time"

// Conn is the transport handle for one connected client. The hub's client
// type satisfies it; tests use fakes.
type Conn interface {
	ID() string
	Send(ev Event)
}

// Participant is one non-admin player, keyed by identity (the validated
// contact address). The conn reference is ephemeral and is replaced on
// reconnect; Connected must be checked before using it.
type Participant struct {
	Identity      string
	Name          string
	Score         float64
	Answer        *string
	AnswerSeconds *float64
	Connected     bool
	Conn          Conn
}

// Roster tracks participants by identity with a secondary index from conn ID
// to identity for O(1) disconnect handling. It is not internally locked: the
// owning Room serializes all access under its own mutex.
type Roster struct {
	players map[string]*Participant
	order   []string
	byConn  map[string]string
}

func NewRoster() *Roster {
	return &Roster{
		players: make(map[string]*Participant),
		byConn:  make(map[string]string),
	}
}

// JoinPlayer inserts a participant or, when the identity is already known,
// reattaches it to the new connection. Score and answer history survive the
// rejoin; only the conn reference and connectivity flag change.
func (r *Roster) JoinPlayer(identity, name string, conn Conn) *Participant {
	p, ok := r.players[identity]
	if !ok {
		p = &Participant{Identity: identity, Name: name}
		r.players[identity] = p
		r.order = append(r.order, identity)
	}
	if p.Conn != nil {
		delete(r.byConn, p.Conn.ID())
	}
	if name != "" {
		p.Name = name
	}
	p.Conn = conn
	p.Connected = true
	r.byConn[conn.ID()] = identity
	return p
}

// Get returns the participant for identity, or nil.
func (r *Roster) Get(identity string) *Participant {
	return r.players[identity]
}

// ByConn resolves a connection ID to its participant, or nil.
func (r *Roster) ByConn(connID string) *Participant {
	identity, ok := r.byConn[connID]
	if !ok {
		return nil
	}
	return r.players[identity]
}

// RecordAnswer sets the answer and its latency exactly once per question.
// The first answer wins; repeats and unknown identities are no-ops. Returns
// true when the answer was recorded.
func (r *Roster) RecordAnswer(identity, answer string, questionStart, at time.Time) bool {
	p, ok := r.players[identity]
	if !ok || p.Answer != nil {
		return false
	}
	latency := at.Sub(questionStart).Seconds()
	p.Answer = &answer
	p.AnswerSeconds = &latency
	return true
}

// MarkDisconnected flips connectivity for the participant attached to connID.
// The participant itself stays: its score must survive for final standings.
func (r *Roster) MarkDisconnected(connID string) *Participant {
	identity, ok := r.byConn[connID]
	if !ok {
		return nil
	}
	delete(r.byConn, connID)
	p := r.players[identity]
	p.Connected = false
	return p
}

// AllAnswered reports whether every participant, connected or not, has a
// recorded answer. False for an empty roster.
func (r *Roster) AllAnswered() bool {
	if len(r.players) == 0 {
		return false
	}
	for _, p := range r.players {
		if p.Answer == nil {
			return false
		}
	}
	return true
}

// AnsweredCount returns how many participants have answered this question.
func (r *Roster) AnsweredCount() int {
	n := 0
	for _, p := range r.players {
		if p.Answer != nil {
			n++
		}
	}
	return n
}

// ResetAnswers clears the per-question answer fields on every participant.
func (r *Roster) ResetAnswers() {
	for _, p := range r.players {
		p.Answer = nil
		p.AnswerSeconds = nil
	}
}

// Participants returns all participants in insertion order.
func (r *Roster) Participants() []*Participant {
	out := make([]*Participant, 0, len(r.order))
	for _, identity := range r.order {
		out = append(out, r.players[identity])
	}
	return out
}

// Infos returns the roster view used in join/leave events.
func (r *Roster) Infos() []PlayerInfo {
	out := make([]PlayerInfo, 0, len(r.order))
	for _, identity := range r.order {
		p := r.players[identity]
		out = append(out, PlayerInfo{PlayerID: p.Identity, Name: p.Name, Connected: p.Connected})
	}
	return out
}

// Len returns the number of participants, connected or not.
func (r *Roster) Len() int {
	return len(r.players)
}

// Reset drops every participant and index entry. Full game reset only.
func (r *Roster) Reset() {
	r.players = make(map[string]*Participant)
	r.order = nil
	r.byConn = make(map[string]string)
}
