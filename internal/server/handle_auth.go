package server

import (
	"net/http"
	"strings"

	"github.com/launchday/trivia/internal/directory"
	"github.com/launchday/trivia/internal/game"
)

// IdentityRequest is the request body for POST /api/auth/identity.
type IdentityRequest struct {
	Identity string `json:"identity"`
}

// IdentityResponse carries the one-shot temporary credential.
type IdentityResponse struct {
	Credential string `json:"credential"`
}

// SessionRequest is the request body for POST /api/auth/session.
type SessionRequest struct {
	Identity   string `json:"identity"`
	Credential string `json:"credential"`
	Period     string `json:"period"`
}

// SessionResponse carries the session token used on every privileged call.
type SessionResponse struct {
	Token string `json:"token"`
}

// VerifyRequest is the request body for POST /api/auth/verify.
type VerifyRequest struct {
	Token string `json:"token"`
}

type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// handleAuthIdentity checks the identity against the employee directory and,
// when known, issues a temporary credential for the second auth step.
func handleAuthIdentity(dir directory.Directory, credentials *game.TokenRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req IdentityRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Identity = strings.TrimSpace(req.Identity)
		if req.Identity == "" {
			writeError(w, http.StatusBadRequest, "identity is required")
			return
		}

		known, err := dir.Exists(r.Context(), req.Identity)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !known {
			writeError(w, http.StatusUnauthorized, "unknown identity")
			return
		}

		writeJSON(w, http.StatusOK, IdentityResponse{Credential: credentials.Issue()})
	}
}

// handleAuthSession exchanges a temporary credential plus a period claim for
// a session token. The credential is consumed whether or not the claim
// matches; a failed claim means starting over from the identity step.
func handleAuthSession(dir directory.Directory, credentials, tokens *game.TokenRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SessionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Identity = strings.TrimSpace(req.Identity)
		req.Period = strings.TrimSpace(req.Period)
		if req.Identity == "" || req.Credential == "" || req.Period == "" {
			writeError(w, http.StatusBadRequest, "identity, credential and period are required")
			return
		}

		if !credentials.IsValid(req.Credential) {
			writeError(w, http.StatusUnauthorized, "invalid or expired credential")
			return
		}
		credentials.Revoke(req.Credential)

		matches, err := dir.MatchesPeriod(r.Context(), req.Identity, req.Period)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !matches {
			writeError(w, http.StatusUnauthorized, "period does not match our records")
			return
		}

		writeJSON(w, http.StatusOK, SessionResponse{Token: tokens.Issue()})
	}
}

// handleAuthVerify reports whether a session token is still valid.
func handleAuthVerify(tokens *game.TokenRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VerifyRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		writeJSON(w, http.StatusOK, VerifyResponse{Valid: tokens.IsValid(req.Token)})
	}
}
