package server

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// HealthResponse maps dependency name to its status.
type HealthResponse map[string]HealthCheck

type HealthCheck struct {
	Status string `json:"status"`
}

func handleHealth(logger *slog.Logger, db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	type checker struct {
		name  string
		check func(context.Context) error
	}

	checkers := []checker{
		{"sqlite", func(ctx context.Context) error { return db.PingContext(ctx) }},
	}
	if rdb != nil {
		checkers = append(checkers, checker{"redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() }})
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		resp := HealthResponse{}
		status := http.StatusOK

		for _, c := range checkers {
			if err := c.check(ctx); err != nil {
				logger.Error("health check failed", "name", c.name, "error", err)
				resp[c.name] = HealthCheck{Status: "error"}
				status = http.StatusServiceUnavailable
				continue
			}
			resp[c.name] = HealthCheck{Status: "ok"}
		}

		writeJSON(w, status, resp)
	}
}
