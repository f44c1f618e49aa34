package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/contestify/contest-api/internal/api"
	"github.com/contestify/contest-api/internal/config"
	"github.com/contestify/contest-api/internal/db"
	"github.com/contestify/contest-api/internal/lock"
	"github.com/contestify/contest-api/internal/logger"
	"github.com/contestify/contest-api/internal/service"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	conf, postgresDB, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer func() {
		if err := db.Close(postgresDB); err != nil {
			zap.L().Error("failed to close database", zap.Error(err))
		}
	}()

	config.Watch(configPath, func(updated *config.AppConfig) {
		if err := logger.SetLevel(updated.API.LogLevel); err != nil {
			zap.L().Warn("ignoring invalid log level", zap.String("level", updated.API.LogLevel))
			return
		}
		zap.L().Info("log level updated", zap.String("level", updated.API.LogLevel))
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	locker, closeLocker, err := newLocker(ctx, conf.Redis)
	if err != nil {
		return err
	}
	defer closeLocker()

	s := api.NewServer(conf, postgresDB, locker)

	srv := &http.Server{
		Addr:              ":" + s.Config.API.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown -> %w", err)
	}

	return nil
}

// newLocker picks the Redis locker when an address is configured so that
// confirmations are serialised across replicas.
func newLocker(ctx context.Context, conf *config.RedisConfig) (service.Locker, func(), error) {
	if !conf.Enabled() {
		zap.L().Info("redis not configured, using in-process locks")
		return lock.NewLocalLocker(), func() {}, nil
	}

	rdb, err := lock.NewRedisClient(ctx, conf)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis -> %w", err)
	}

	return lock.NewRedisLocker(rdb, conf.LockTTL), func() { _ = rdb.Close() }, nil
}
