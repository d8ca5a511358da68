// Command latticed runs the HTTP backend: it loads configuration, opens the
// connection pool, provisions indexes once, seeds the first superuser, and
// serves the API until signalled.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/jacentio/lattice/internal/auth"
	"github.com/jacentio/lattice/internal/config"
	"github.com/jacentio/lattice/internal/httpapi"
	"github.com/jacentio/lattice/internal/service"
	"github.com/jacentio/lattice/model"
	"github.com/jacentio/lattice/store"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if err := run(*configPath, &logger); err != nil {
		logger.Fatal().Err(err).Msg("latticed failed")
	}
}

func run(configPath string, logger *zerolog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		*logger = logger.Level(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := store.NewPool(connectCtx, cfg.MongoURI, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = pool.Close(shutdownCtx)
	}()

	if err := pool.Provision(ctx,
		model.Users.EnsureIndexes,
		model.Items.EnsureIndexes,
	); err != nil {
		return err
	}
	logger.Info().Msg("indexes provisioned")

	users := service.NewUsers()
	if err := seedSuperuser(ctx, pool, users, cfg, logger); err != nil {
		return err
	}

	tokens := auth.NewTokens(cfg.SecretKey, cfg.TokenTTL)
	api := httpapi.New(pool, users, service.NewItems(), tokens, *logger)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("listening")
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}

// seedSuperuser creates the initial privileged account when configured and
// absent. Safe to run on every start.
func seedSuperuser(ctx context.Context, pool *store.Pool, users *service.Users, cfg *config.Config, logger *zerolog.Logger) error {
	if cfg.FirstSuperuser == "" || cfg.FirstSuperuserPassword == "" {
		return nil
	}

	scope := pool.Acquire()
	defer scope.Close()

	existing, err := users.GetByEmail(ctx, scope, cfg.FirstSuperuser)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	if _, err := users.Create(ctx, scope, service.CreateUserInput{
		Email:       cfg.FirstSuperuser,
		Password:    cfg.FirstSuperuserPassword,
		IsActive:    true,
		IsSuperuser: true,
	}); err != nil && !errors.Is(err, service.ErrEmailTaken) {
		return err
	}
	logger.Info().Str("email", model.CanonicalEmail(cfg.FirstSuperuser)).Msg("seeded first superuser")
	return nil
}
