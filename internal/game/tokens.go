package game

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
)

// TokenRegistry holds the set of currently valid opaque session tokens.
// Tokens are six random decimal digits: enough for a single-room event with
// at most a few hundred participants, and explicitly not a general-purpose
// security scheme. A token carries no identity binding; callers present an
// identity string alongside the token on every privileged call.
type TokenRegistry struct {
	mu    sync.Mutex
	valid map[string]struct{}
}

func NewTokenRegistry() *TokenRegistry {
	return &TokenRegistry{valid: make(map[string]struct{})}
}

// Issue generates a fresh token, unique among the currently valid set, and
// adds it to that set.
func (t *TokenRegistry) Issue() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	for {
		tok := randomDigits()
		if _, taken := t.valid[tok]; taken {
			continue
		}
		t.valid[tok] = struct{}{}
		return tok
	}
}

// IsValid reports whether tok is in the valid set.
func (t *TokenRegistry) IsValid(tok string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.valid[tok]
	return ok
}

// Revoke removes a single token. Used to consume one-shot temporary
// credentials; unknown tokens are a no-op.
func (t *TokenRegistry) Revoke(tok string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.valid, tok)
}

// RevokeAll empties the valid set, forcibly logging out every session.
func (t *TokenRegistry) RevokeAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.valid = make(map[string]struct{})
}

func randomDigits() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		panic(fmt.Sprintf("reading random source: %v", err))
	}
	return fmt.Sprintf("%06d", n.Int64())
}
