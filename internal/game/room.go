package game

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Phase is one state of the session state machine.
type Phase string

const (
	PhaseWaiting     Phase = "waiting"
	PhasePhotos      Phase = "photos"
	PhaseQuestion    Phase = "question"
	PhaseLeaderboard Phase = "leaderboard"
)

// Question is the single question a session runs.
type Question struct {
	Text   string
	Answer string
}

// Config carries the per-room settings.
type Config struct {
	RoomID          string
	AdminIdentity   string
	Question        Question
	PhotoSeconds    int
	QuestionSeconds int
	MaxPoints       float64
}

// Room is one live trivia session: the phase state machine, roster, token
// registry and scoring, fanning events out through an Audience. All state is
// owned by the room and guarded by a single mutex held for the duration of
// every phase transition and answer-recording operation; the all-answered
// shortcut depends on that read-then-act atomicity.
type Room struct {
	cfg      Config
	logger   *slog.Logger
	audience Audience
	sink     ResultsSink
	tokens   *TokenRegistry

	// sinkMu serializes all sink calls so a result append from a finished
	// question can never land after the clear that discards that game.
	sinkMu sync.Mutex

	mu             sync.Mutex
	roster         *Roster
	started        bool
	phase          Phase
	questionIndex  int
	totalQuestions int
	photoLeft      int
	questionLeft   int
	questionStart  time.Time
	questionEnd    time.Time
	leaderboard    []LeaderboardEntry
	scored         bool
	active         *countdown
	epoch          uint64

	// Injectable for tests; real rooms run on the wall clock.
	now          func() time.Time
	tickInterval time.Duration
}

func NewRoom(cfg Config, audience Audience, sink ResultsSink, tokens *TokenRegistry, logger *slog.Logger) *Room {
	return &Room{
		cfg:            cfg,
		logger:         logger,
		audience:       audience,
		sink:           sink,
		tokens:         tokens,
		roster:         NewRoster(),
		phase:          PhaseWaiting,
		totalQuestions: 1,
		now:            time.Now,
		tickInterval:   time.Second,
	}
}

// Tokens exposes the room's token registry to the HTTP auth surface.
func (r *Room) Tokens() *TokenRegistry { return r.tokens }

func (r *Room) questionView() QuestionView {
	return QuestionView{
		Index: r.questionIndex,
		Total: r.totalQuestions,
		Text:  r.cfg.Question.Text,
	}
}

// broadcast sends ev to both standing audiences.
func (r *Room) broadcast(ev SharedEvent) {
	r.audience.ToAdmins(ev)
	r.audience.ToWaiting(ev)
}

// JoinAdmin authenticates conn into the privileged audience. The identity
// must equal the configured admin identity and the token must be valid;
// failing either is reported only to the caller.
func (r *Room) JoinAdmin(conn Conn, token, identity string) {
	if !r.authorizeAdmin(conn, token, identity) {
		return
	}
	r.audience.JoinAdmin(conn)

	r.mu.Lock()
	snapshot := PlayerJoined{PlayerCount: r.roster.Len(), Players: r.roster.Infos()}
	r.mu.Unlock()
	conn.Send(snapshot)
}

// JoinPlayer authenticates conn as a player and inserts or reattaches the
// identity in the roster. Rejoining with a known identity preserves score
// and answer history; only the connection reference changes.
func (r *Room) JoinPlayer(conn Conn, token, identity, name string) {
	if !r.tokens.IsValid(token) {
		conn.Send(ErrorEvent{Code: "unauthorized", Message: "invalid or expired session token"})
		return
	}

	r.mu.Lock()
	r.roster.JoinPlayer(identity, name, conn)
	ev := PlayerJoined{PlayerCount: r.roster.Len(), Players: r.roster.Infos()}
	r.mu.Unlock()

	r.audience.JoinWaiting(conn)
	r.broadcast(ev)
}

// StartGame moves WAITING → PHOTOS. Admin only.
func (r *Room) StartGame(conn Conn, token, identity string) {
	if !r.authorizeAdmin(conn, token, identity) {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseWaiting {
		conn.Send(ErrorEvent{Code: "bad-phase", Message: "game already started"})
		return
	}

	r.started = true
	r.questionIndex = 0
	r.phase = PhasePhotos
	r.photoLeft = r.cfg.PhotoSeconds

	r.broadcast(GameStarted{Phase: PhasePhotos, Question: r.questionView()})
	r.logger.Info("game started", "room", r.cfg.RoomID, "players", r.roster.Len())

	r.active = startCountdown(r.cfg.PhotoSeconds, r.tickInterval,
		func(c *countdown, left int) { r.onTick(c, PhasePhotos, left) },
		r.onPhotosDone,
	)
}

func (r *Room) onTick(c *countdown, phase Phase, left int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != c || r.phase != phase {
		return
	}
	switch phase {
	case PhasePhotos:
		r.photoLeft = left
	case PhaseQuestion:
		r.questionLeft = left
	}
	r.broadcast(TimerUpdate{Phase: phase, TimeLeft: left})
}

// onPhotosDone moves PHOTOS → QUESTION when the photo countdown expires.
func (r *Room) onPhotosDone(c *countdown) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != c || r.phase != PhasePhotos {
		return
	}
	r.active = nil

	r.phase = PhaseQuestion
	r.questionStart = r.now()
	r.questionLeft = r.cfg.QuestionSeconds
	r.scored = false
	r.roster.ResetAnswers()

	r.broadcast(PhaseChanged{Phase: PhaseQuestion, Question: r.questionView()})

	r.active = startCountdown(r.cfg.QuestionSeconds, r.tickInterval,
		func(c *countdown, left int) { r.onTick(c, PhaseQuestion, left) },
		r.onQuestionTimeout,
	)
}

func (r *Room) onQuestionTimeout(c *countdown) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != c || r.phase != PhaseQuestion {
		return
	}
	r.active = nil
	r.endQuestionLocked()
}

// SubmitAnswer records conn's answer for the current question. The first
// answer wins; duplicates, unknown connections and out-of-phase submissions
// are silent no-ops. When every participant has answered, the question ends
// immediately.
func (r *Room) SubmitAnswer(conn Conn, answer string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseQuestion {
		return
	}
	p := r.roster.ByConn(conn.ID())
	if p == nil {
		return
	}
	if !r.roster.RecordAnswer(p.Identity, answer, r.questionStart, r.now()) {
		return
	}

	r.audience.ToAll(AnswerSubmitted{
		PlayerID:   p.Identity,
		PlayerName: p.Name,
		Answered:   r.roster.AnsweredCount(),
		Total:      r.roster.Len(),
	})

	if r.roster.AllAnswered() {
		if r.active != nil {
			r.active.cancel()
			r.active = nil
		}
		r.endQuestionLocked()
	}
}

// endQuestionLocked runs the QUESTION → LEADERBOARD transition: scoring,
// result broadcast, then best-effort persistence. Caller holds r.mu. The
// scored flag guarantees the sequence runs at most once per question even
// though the timeout and all-answered paths race.
func (r *Room) endQuestionLocked() {
	if r.scored {
		return
	}
	r.scored = true
	r.phase = PhaseLeaderboard
	r.questionEnd = r.now()

	elapsed := r.questionEnd.Sub(r.questionStart).Seconds()
	board := scoreQuestion(r.roster.Participants(), r.cfg.Question.Answer, r.cfg.MaxPoints, elapsed)
	r.leaderboard = board

	r.audience.ToAdmins(AdminGameEnded{Leaderboard: board})

	total := len(board)
	for i, entry := range board {
		p := r.roster.Get(entry.PlayerID)
		if p == nil || !p.Connected || p.Conn == nil {
			continue
		}
		p.Conn.Send(PlayerGameEnded{Rank: i + 1, Score: entry.Score, TotalPlayers: total})
	}

	records := make([]ResultRecord, len(board))
	for i, entry := range board {
		answer := noAnswerSentinel
		if p := r.roster.Get(entry.PlayerID); p != nil && p.Answer != nil {
			answer = *p.Answer
		}
		seconds := elapsed
		if entry.Seconds != nil {
			seconds = *entry.Seconds
		}
		records[i] = ResultRecord{
			Identity:   entry.PlayerID,
			Answer:     answer,
			Seconds:    seconds,
			Score:      entry.Score,
			Rank:       i + 1,
			Correct:    entry.Correct,
			OccurredAt: r.questionEnd,
		}
	}

	r.logger.Info("question ended", "room", r.cfg.RoomID, "elapsed_s", elapsed, "entries", total)

	// Persistence is fire-and-forget: it starts only after the broadcast and
	// can never roll back or delay the in-memory session.
	go r.persistResults(records, r.epoch)
}

// persistResults appends records unless the game they belong to has been
// reset in the meantime. The epoch is re-checked under the room lock after
// sinkMu is held, so the write is either fenced out or finishes before any
// later clear can run.
func (r *Room) persistResults(records []ResultRecord, epoch uint64) {
	if r.sink == nil || len(records) == 0 {
		return
	}

	r.sinkMu.Lock()
	defer r.sinkMu.Unlock()

	r.mu.Lock()
	stale := r.epoch != epoch
	r.mu.Unlock()
	if stale {
		r.logger.Info("dropping results from a discarded game", "room", r.cfg.RoomID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.sink.Append(ctx, r.cfg.RoomID, records); err != nil {
		r.logger.Error("persisting results", "room", r.cfg.RoomID, "error", err)
	}
}

// ResetGame returns the room to its initial state from any phase: countdown
// cancelled, roster cleared, every token revoked, both audiences emptied.
// Admin only.
func (r *Room) ResetGame(conn Conn, token, identity string) {
	if !r.authorizeAdmin(conn, token, identity) {
		return
	}
	r.reset()
}

// NewGame is ResetGame plus clearing the persisted results for this room,
// for when the admin wants a clean slate including history. The clear runs
// synchronously before the reset broadcast; the epoch bump up front fences
// out any in-flight append from the question that just ended. Admin only.
func (r *Room) NewGame(conn Conn, token, identity string) {
	if !r.authorizeAdmin(conn, token, identity) {
		return
	}

	r.mu.Lock()
	r.epoch++
	r.mu.Unlock()

	if r.sink != nil {
		r.sinkMu.Lock()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := r.sink.Clear(ctx, r.cfg.RoomID); err != nil {
			r.logger.Error("clearing persisted results", "room", r.cfg.RoomID, "error", err)
		}
		cancel()
		r.sinkMu.Unlock()
	}
	r.reset()
}

func (r *Room) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil {
		r.active.cancel()
		r.active = nil
	}

	// Announce before tearing down memberships so every connected party
	// hears it.
	r.audience.ToAll(GameReset{})

	r.tokens.RevokeAll()
	r.roster.Reset()
	r.audience.Reset()

	r.started = false
	r.phase = PhaseWaiting
	r.questionIndex = 0
	r.photoLeft = 0
	r.questionLeft = 0
	r.questionStart = time.Time{}
	r.questionEnd = time.Time{}
	r.leaderboard = nil
	r.scored = false
	r.epoch++

	r.logger.Info("game reset", "room", r.cfg.RoomID, "epoch", r.epoch)
}

// Disconnect detaches conn. A matching participant is flagged disconnected
// but keeps its score; unknown connections are a no-op.
func (r *Room) Disconnect(conn Conn) {
	r.audience.Leave(conn)

	r.mu.Lock()
	p := r.roster.MarkDisconnected(conn.ID())
	if p == nil {
		r.mu.Unlock()
		return
	}
	ev := PlayerLeft{PlayerCount: r.roster.Len(), Players: r.roster.Infos()}
	r.mu.Unlock()

	r.broadcast(ev)
}

func (r *Room) authorizeAdmin(conn Conn, token, identity string) bool {
	if !r.tokens.IsValid(token) || identity != r.cfg.AdminIdentity {
		conn.Send(ErrorEvent{Code: "unauthorized", Message: "admin authorization required"})
		return false
	}
	return true
}

// Phase returns the current phase.
func (r *Room) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// Leaderboard returns the standings computed at the last question end.
func (r *Room) Leaderboard() []LeaderboardEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaderboard
}
