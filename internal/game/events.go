package game

// Event is one realtime payload pushed to connected clients. The concrete
// payload types below form a closed set; the Type method doubles as the wire
// event name.
type Event interface {
	EventType() string
}

// SharedEvent marks payloads that may be sent on the waiting/player channel.
// Admin-only payloads deliberately do not implement it, so they cannot be
// handed to ToWaiting or ToAll.
type SharedEvent interface {
	Event
	shared()
}

// PlayerInfo is the roster view embedded in join/leave events.
type PlayerInfo struct {
	PlayerID  string `json:"playerId"`
	Name      string `json:"playerName"`
	Connected bool   `json:"connected"`
}

// QuestionView is the client-facing shape of the current question.
type QuestionView struct {
	Index int    `json:"index"`
	Total int    `json:"total"`
	Text  string `json:"text"`
}

type PlayerJoined struct {
	PlayerCount int          `json:"playerCount"`
	Players     []PlayerInfo `json:"players"`
}

func (PlayerJoined) EventType() string { return "player-joined" }
func (PlayerJoined) shared()           {}

type PlayerLeft struct {
	PlayerCount int          `json:"playerCount"`
	Players     []PlayerInfo `json:"players"`
}

func (PlayerLeft) EventType() string { return "player-left" }
func (PlayerLeft) shared()           {}

type GameStarted struct {
	Phase    Phase        `json:"phase"`
	Question QuestionView `json:"question"`
}

func (GameStarted) EventType() string { return "game-started" }
func (GameStarted) shared()           {}

type TimerUpdate struct {
	Phase    Phase `json:"phase"`
	TimeLeft int   `json:"timeLeft"`
}

func (TimerUpdate) EventType() string { return "timer-update" }
func (TimerUpdate) shared()           {}

type PhaseChanged struct {
	Phase    Phase        `json:"phase"`
	Question QuestionView `json:"question"`
}

func (PhaseChanged) EventType() string { return "phase-changed" }
func (PhaseChanged) shared()           {}

type AnswerSubmitted struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Answered   int    `json:"answered"`
	Total      int    `json:"total"`
}

func (AnswerSubmitted) EventType() string { return "answer-submitted" }
func (AnswerSubmitted) shared()           {}

// AdminGameEnded carries the full ranked leaderboard. Admin channel only.
type AdminGameEnded struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

func (AdminGameEnded) EventType() string { return "admin-game-ended" }

// PlayerGameEnded is the per-identity result slice, unicast to each player.
type PlayerGameEnded struct {
	Rank         int     `json:"rank"`
	Score        float64 `json:"score"`
	TotalPlayers int     `json:"totalPlayers"`
}

func (PlayerGameEnded) EventType() string { return "player-game-ended" }
func (PlayerGameEnded) shared()           {}

type GameReset struct{}

func (GameReset) EventType() string { return "game-reset" }
func (GameReset) shared()           {}

type ChatbotStarted struct{}

func (ChatbotStarted) EventType() string { return "chatbot-started" }

type ChatbotResponse struct {
	Answer string `json:"answer"`
}

func (ChatbotResponse) EventType() string { return "chatbot-response" }

type ChatbotError struct {
	Message string `json:"message"`
}

func (ChatbotError) EventType() string { return "chatbot-error" }

// ErrorEvent is sent only to the connection that caused it.
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (ErrorEvent) EventType() string { return "error" }
