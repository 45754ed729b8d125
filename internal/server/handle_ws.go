package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/launchday/trivia/internal/game"
	"github.com/launchday/trivia/internal/genie"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// clientMessage is every message a client can send over the socket. Fields
// beyond Type are populated per message kind.
type clientMessage struct {
	Type     string `json:"type"`
	Token    string `json:"token,omitempty"`
	Identity string `json:"identity,omitempty"`
	Name     string `json:"name,omitempty"`
	Answer   string `json:"answer,omitempty"`
	Question string `json:"question,omitempty"`
}

func handleWS(logger *slog.Logger, hub *Hub, room *game.Room, chat *genie.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("websocket upgrade failed", "error", err)
			return
		}

		client := newWSClient(newConnID(), conn, logger)
		hub.Register(client)
		go client.writePump()

		defer func() {
			room.Disconnect(client)
			client.close()
			conn.Close()
		}()

		for {
			var msg clientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				logger.Debug("ws read ended", "conn", client.ID(), "error", err)
				return
			}

			switch msg.Type {
			case "join-admin", "rejoin-admin":
				room.JoinAdmin(client, msg.Token, msg.Identity)
			case "join-player":
				room.JoinPlayer(client, msg.Token, msg.Identity, msg.Name)
			case "start-game":
				room.StartGame(client, msg.Token, msg.Identity)
			case "submit-answer":
				room.SubmitAnswer(client, msg.Answer)
			case "reset-game":
				room.ResetGame(client, msg.Token, msg.Identity)
			case "new-game":
				room.NewGame(client, msg.Token, msg.Identity)
			case "chatbot-question":
				handleChatQuestion(r.Context(), logger, hub, client, chat, msg.Question)
			default:
				// Unknown message types from stale clients are no-ops.
			}
		}
	}
}

// handleChatQuestion relays a free-text admin question to the query service
// and returns the answer to that same connection only. Membership in the
// admin group is verified now, not at join time. The call blocks this
// client's read loop while polling but holds no game state lock.
func handleChatQuestion(ctx context.Context, logger *slog.Logger, hub *Hub, client *wsClient, chat *genie.Client, question string) {
	if !hub.IsAdmin(client) {
		client.Send(game.ErrorEvent{Code: "unauthorized", Message: "chat is available to the admin only"})
		return
	}

	question = strings.TrimSpace(question)
	if question == "" {
		client.Send(game.ChatbotError{Message: "question is required"})
		return
	}
	if chat == nil || !chat.IsConfigured() {
		client.Send(game.ChatbotError{Message: "chat service is not configured"})
		return
	}

	client.Send(game.ChatbotStarted{})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	answer, err := chat.Ask(ctx, question)
	if err != nil {
		logger.Error("chat query failed", "error", err)
		client.Send(game.ChatbotError{Message: "the query service did not return an answer"})
		return
	}
	client.Send(game.ChatbotResponse{Answer: answer})
}

func newConnID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("conn-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
