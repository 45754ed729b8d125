package server

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/launchday/trivia/internal/game"
)

type recordingConn struct {
	id string

	mu     sync.Mutex
	events []game.Event
}

func (c *recordingConn) ID() string { return c.id }

func (c *recordingConn) Send(ev game.Event) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

func (c *recordingConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func testHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHubTargeting(t *testing.T) {
	h := testHub()

	admin := &recordingConn{id: "admin"}
	player := &recordingConn{id: "player"}
	lurker := &recordingConn{id: "lurker"}

	h.Register(admin)
	h.Register(player)
	h.Register(lurker)
	h.JoinAdmin(admin)
	h.JoinWaiting(player)

	h.ToAdmins(game.AdminGameEnded{})
	if admin.count() != 1 || player.count() != 0 || lurker.count() != 0 {
		t.Errorf("admin broadcast leaked: admin=%d player=%d lurker=%d",
			admin.count(), player.count(), lurker.count())
	}

	h.ToWaiting(game.TimerUpdate{})
	if player.count() != 1 || lurker.count() != 0 {
		t.Errorf("waiting broadcast missed or leaked: player=%d lurker=%d",
			player.count(), lurker.count())
	}

	// ToAll reaches every registered connection, grouped or not.
	h.ToAll(game.GameReset{})
	if admin.count() != 2 || player.count() != 2 || lurker.count() != 1 {
		t.Errorf("ToAll delivery: admin=%d player=%d lurker=%d",
			admin.count(), player.count(), lurker.count())
	}
}

func TestHubIsAdmin(t *testing.T) {
	h := testHub()

	admin := &recordingConn{id: "admin"}
	player := &recordingConn{id: "player"}
	h.Register(admin)
	h.Register(player)
	h.JoinAdmin(admin)

	if !h.IsAdmin(admin) {
		t.Errorf("joined admin not recognized")
	}
	if h.IsAdmin(player) {
		t.Errorf("player recognized as admin")
	}

	h.Leave(admin)
	if h.IsAdmin(admin) {
		t.Errorf("departed admin still recognized")
	}
}

func TestHubResetKeepsConnections(t *testing.T) {
	h := testHub()

	admin := &recordingConn{id: "admin"}
	player := &recordingConn{id: "player"}
	h.Register(admin)
	h.Register(player)
	h.JoinAdmin(admin)
	h.JoinWaiting(player)

	h.Reset()

	if h.IsAdmin(admin) {
		t.Errorf("reset should clear the admin group")
	}
	h.ToAdmins(game.AdminGameEnded{})
	h.ToWaiting(game.TimerUpdate{})
	if admin.count() != 0 || player.count() != 0 {
		t.Errorf("group sends after reset: admin=%d player=%d", admin.count(), player.count())
	}

	// The physical connections survive: the reset notice still reaches them.
	h.ToAll(game.GameReset{})
	if admin.count() != 1 || player.count() != 1 {
		t.Errorf("ToAll after reset: admin=%d player=%d", admin.count(), player.count())
	}
}

func TestHubLeaveRemovesEverywhere(t *testing.T) {
	h := testHub()

	player := &recordingConn{id: "player"}
	h.Register(player)
	h.JoinWaiting(player)

	h.Leave(player)

	h.ToWaiting(game.TimerUpdate{})
	h.ToAll(game.GameReset{})
	if player.count() != 0 {
		t.Errorf("departed connection still receives events: %d", player.count())
	}
}
