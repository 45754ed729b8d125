package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/launchday/trivia/internal/config"
	"github.com/launchday/trivia/internal/database"
	"github.com/launchday/trivia/internal/directory"
	"github.com/launchday/trivia/internal/game"
	"github.com/launchday/trivia/internal/genie"
	"github.com/launchday/trivia/internal/migrations"
	"github.com/launchday/trivia/internal/server"
	"github.com/launchday/trivia/internal/sink"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Employee directory (SQLite) ---
	db, err := database.Open(ctx, cfg.DirectoryDBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	if err := directory.SeedDemo(ctx, logger, db); err != nil {
		return fmt.Errorf("seeding directory: %w", err)
	}
	logger.Info("connected to employee directory", "path", cfg.DirectoryDBPath)

	dir := directory.NewFallback(directory.NewStore(db), localDirectory(cfg), logger)

	// --- Results store (Redis) ---
	// Unreachability is tolerated: results logging is best-effort.
	rdb, err := openRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("results store unreachable, results will be dropped", "error", err)
	}
	var results game.ResultsSink
	if rdb != nil {
		defer rdb.Close()
		results = sink.NewRedis(rdb)
		logger.Info("connected to results store")
	}

	// --- Game room ---
	hub := server.NewHub(logger)
	room := game.NewRoom(game.Config{
		RoomID:          cfg.GameID,
		AdminIdentity:   cfg.AdminIdentity,
		Question:        game.Question{Text: cfg.QuestionText, Answer: cfg.CorrectAnswer},
		PhotoSeconds:    cfg.PhotoSeconds,
		QuestionSeconds: cfg.QuestionSeconds,
		MaxPoints:       cfg.MaxPoints,
	}, hub, results, game.NewTokenRegistry(), logger)

	chat := genie.NewClient(cfg.GenieURL, cfg.GenieAPIKey,
		time.Duration(cfg.GeniePollSeconds)*time.Second, cfg.GeniePollAttempts)

	// --- HTTP server ---
	srv := server.New(cfg.HTTPAddr, server.Deps{
		Logger:            logger,
		DB:                db,
		Redis:             rdb,
		Room:              room,
		Hub:               hub,
		Credentials:       game.NewTokenRegistry(),
		Directory:         dir,
		Genie:             chat,
		AdminIdentity:     cfg.AdminIdentity,
		AdminPasswordHash: cfg.AdminPasswordHash,
		SPADir:            cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

// localDirectory is the in-memory oracle used when the employee store is
// unreachable. The admin identity is always present so the host can log in
// during an outage.
func localDirectory(cfg *config.Config) map[string]string {
	return map[string]string{
		cfg.AdminIdentity: "January 2026",
	}
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
