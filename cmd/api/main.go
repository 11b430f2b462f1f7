package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/randomtoy/chess-scoresheet/internal/adapters/memory"
	pgstore "github.com/randomtoy/chess-scoresheet/internal/adapters/postgres"
	redisstore "github.com/randomtoy/chess-scoresheet/internal/adapters/redis"
	"github.com/randomtoy/chess-scoresheet/internal/config"
	"github.com/randomtoy/chess-scoresheet/internal/domain/oracle"
	"github.com/randomtoy/chess-scoresheet/internal/ports"
	transporthttp "github.com/randomtoy/chess-scoresheet/internal/transport/http"
	"github.com/randomtoy/chess-scoresheet/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	records, closeStore := openRecordStore(cfg, logger)
	defer closeStore()

	sessions := memory.NewSessions()
	drafts := usecase.NewDrafts(sessions, time.Duration(cfg.Debounce), logger)

	h := transporthttp.NewHandlers(
		usecase.NewGameStarter(sessions, oracle.ChessFactory, logger),
		usecase.NewGameGetter(sessions, drafts),
		usecase.NewMoveSubmitter(sessions, drafts, logger),
		usecase.NewMoveUndoer(sessions, drafts, logger),
		usecase.NewGameFinisher(sessions, records, drafts, logger),
		usecase.NewRecordLibrary(records, logger),
	)

	e := transporthttp.New(h, transporthttp.Options{
		AllowOrigins: cfg.AllowOrigins,
		RateLimit:    cfg.RateLimit,
		Logger:       logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if idle := time.Duration(cfg.SessionIdle); idle > 0 {
		reaper := usecase.NewSessionReaper(sessions, drafts, idle, logger)
		go reaper.Run(ctx, time.Minute)
	}

	go func() {
		logger.Info("starting", zap.String("port", cfg.Port), zap.Duration("debounce", time.Duration(cfg.Debounce)))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	if lvl.Level() == zap.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	return cfg.Build()
}

// openRecordStore picks postgres, then redis, then memory, depending on which
// URL is configured.
func openRecordStore(cfg *config.Config, logger *zap.Logger) (ports.RecordStore, func()) {
	switch {
	case cfg.DatabaseURL != "":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			logger.Fatal("pgxpool.New", zap.Error(err))
		}

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pingCancel()
		if err := pool.Ping(pingCtx); err != nil {
			logger.Fatal("db ping", zap.Error(err))
		}
		logger.Info("connected to database")
		return pgstore.New(pool), pool.Close

	case cfg.RedisURL != "":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rdb, err := redisstore.Dial(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		logger.Info("connected to redis")
		return redisstore.New(rdb), func() { _ = rdb.Close() }

	default:
		logger.Warn("no DATABASE_URL or REDIS_URL; records are kept in memory")
		return memory.NewRecords(), func() {}
	}
}
