package server

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/launchday/trivia/internal/game"
)

// AdminLoginRequest is the request body for POST /api/admin/login.
type AdminLoginRequest struct {
	Identity string `json:"identity"`
	Password string `json:"password"`
}

// AdminLoginResponse carries the session token for the admin console.
type AdminLoginResponse struct {
	Token    string `json:"token"`
	Identity string `json:"identity"`
}

// handleAdminLogin lets the host skip the directory flow: a password checked
// against the configured bcrypt hash yields a session token for the admin
// identity. Disabled when no hash is configured.
func handleAdminLogin(adminIdentity, passwordHash string, tokens *game.TokenRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if passwordHash == "" {
			writeError(w, http.StatusForbidden, "admin login is not configured")
			return
		}

		var req AdminLoginRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Identity = strings.TrimSpace(strings.ToLower(req.Identity))
		if req.Identity == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "identity and password are required")
			return
		}

		if !strings.EqualFold(req.Identity, adminIdentity) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		writeJSON(w, http.StatusOK, AdminLoginResponse{
			Token:    tokens.Issue(),
			Identity: adminIdentity,
		})
	}
}
