package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/launchday/trivia/internal/game"
)

// fakeDirectory is a fixed identity→period map.
type fakeDirectory map[string]string

func (d fakeDirectory) Exists(ctx context.Context, identity string) (bool, error) {
	_, ok := d[strings.ToLower(identity)]
	return ok, nil
}

func (d fakeDirectory) MatchesPeriod(ctx context.Context, identity, period string) (bool, error) {
	stored, ok := d[strings.ToLower(identity)]
	return ok && strings.EqualFold(stored, period), nil
}

func authRouter(t *testing.T) (*chi.Mux, *game.TokenRegistry, *game.TokenRegistry) {
	t.Helper()
	dir := fakeDirectory{
		"ana.torres@example.com": "January 2026",
	}
	credentials := game.NewTokenRegistry()
	tokens := game.NewTokenRegistry()

	r := chi.NewRouter()
	r.Post("/api/auth/identity", handleAuthIdentity(dir, credentials))
	r.Post("/api/auth/session", handleAuthSession(dir, credentials, tokens))
	r.Post("/api/auth/verify", handleAuthVerify(tokens))
	return r, credentials, tokens
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("encoding request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthFullFlow(t *testing.T) {
	r, _, tokens := authRouter(t)

	// Step 1: known identity gets a temporary credential.
	w := postJSON(t, r, "/api/auth/identity", IdentityRequest{Identity: "Ana.Torres@example.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("identity step: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var ident IdentityResponse
	json.NewDecoder(w.Body).Decode(&ident)
	if ident.Credential == "" {
		t.Fatalf("identity step returned no credential")
	}

	// Step 2: credential plus the right period claim yields a session token.
	w = postJSON(t, r, "/api/auth/session", SessionRequest{
		Identity:   "ana.torres@example.com",
		Credential: ident.Credential,
		Period:     "january 2026",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("session step: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var sess SessionResponse
	json.NewDecoder(w.Body).Decode(&sess)
	if sess.Token == "" {
		t.Fatalf("session step returned no token")
	}
	if !tokens.IsValid(sess.Token) {
		t.Errorf("issued token is not in the registry")
	}

	// Step 3: the token verifies.
	w = postJSON(t, r, "/api/auth/verify", VerifyRequest{Token: sess.Token})
	if w.Code != http.StatusOK {
		t.Fatalf("verify step: expected 200, got %d", w.Code)
	}
	var ver VerifyResponse
	json.NewDecoder(w.Body).Decode(&ver)
	if !ver.Valid {
		t.Errorf("fresh token should verify")
	}
}

func TestAuthIdentityUnknown(t *testing.T) {
	r, _, _ := authRouter(t)

	w := postJSON(t, r, "/api/auth/identity", IdentityRequest{Identity: "nobody@example.com"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthIdentityEmpty(t *testing.T) {
	r, _, _ := authRouter(t)

	w := postJSON(t, r, "/api/auth/identity", IdentityRequest{Identity: "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthSessionWrongPeriodConsumesCredential(t *testing.T) {
	r, credentials, _ := authRouter(t)

	cred := credentials.Issue()

	w := postJSON(t, r, "/api/auth/session", SessionRequest{
		Identity:   "ana.torres@example.com",
		Credential: cred,
		Period:     "February 2026",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong period: expected 401, got %d: %s", w.Code, w.Body.String())
	}

	// The credential is spent even on a failed claim: retrying with the right
	// period must fail until the identity step is repeated.
	w = postJSON(t, r, "/api/auth/session", SessionRequest{
		Identity:   "ana.torres@example.com",
		Credential: cred,
		Period:     "January 2026",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("reused credential: expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthSessionBogusCredential(t *testing.T) {
	r, _, _ := authRouter(t)

	w := postJSON(t, r, "/api/auth/session", SessionRequest{
		Identity:   "ana.torres@example.com",
		Credential: "999999",
		Period:     "January 2026",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthVerifyRevokedToken(t *testing.T) {
	r, _, tokens := authRouter(t)

	tok := tokens.Issue()
	tokens.RevokeAll()

	w := postJSON(t, r, "/api/auth/verify", VerifyRequest{Token: tok})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var ver VerifyResponse
	json.NewDecoder(w.Body).Decode(&ver)
	if ver.Valid {
		t.Errorf("revoked token should not verify")
	}
}
