package directory

import (
	"context"
	"log/slog"
	"strings"
)

// Fallback wraps a primary Directory with a fixed in-memory identity→period
// mapping. When the primary is unreachable it answers from the local map, so
// an outage of the employee store never blocks the event.
type Fallback struct {
	primary Directory
	local   map[string]string
	logger  *slog.Logger
}

// NewFallback builds a Fallback. Keys of local are identities; values are
// their arrival periods. Lookups are case-insensitive on both sides.
func NewFallback(primary Directory, local map[string]string, logger *slog.Logger) *Fallback {
	m := make(map[string]string, len(local))
	for identity, period := range local {
		m[strings.ToLower(strings.TrimSpace(identity))] = period
	}
	return &Fallback{primary: primary, local: m, logger: logger}
}

func (f *Fallback) Exists(ctx context.Context, identity string) (bool, error) {
	ok, err := f.primary.Exists(ctx, identity)
	if err == nil {
		return ok, nil
	}
	f.logger.Warn("directory unreachable, using local fallback", "error", err)
	_, found := f.local[strings.ToLower(strings.TrimSpace(identity))]
	return found, nil
}

func (f *Fallback) MatchesPeriod(ctx context.Context, identity, period string) (bool, error) {
	ok, err := f.primary.MatchesPeriod(ctx, identity, period)
	if err == nil {
		return ok, nil
	}
	f.logger.Warn("directory unreachable, using local fallback", "error", err)
	stored, found := f.local[strings.ToLower(strings.TrimSpace(identity))]
	if !found {
		return false, nil
	}
	return strings.EqualFold(strings.TrimSpace(stored), strings.TrimSpace(period)), nil
}
