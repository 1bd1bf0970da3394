package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ftcaleb/marketing-kasiverse/internal/config"
	"github.com/ftcaleb/marketing-kasiverse/internal/database"
	"github.com/ftcaleb/marketing-kasiverse/internal/repository"
	"github.com/ftcaleb/marketing-kasiverse/internal/repository/hosted"
	"github.com/ftcaleb/marketing-kasiverse/internal/repository/postgres"
	"github.com/ftcaleb/marketing-kasiverse/internal/router"
	"github.com/ftcaleb/marketing-kasiverse/pkg/logger"
)

func main() {
	// .env is a local-dev convenience; absence is fine in deployment.
	_ = godotenv.Load()

	cfg := config.Load()
	l := logger.New(cfg.Env)
	if err := cfg.Validate(); err != nil {
		l.Fatal().Err(err).Msg("invalid configuration")
	}

	var (
		identity repository.IdentityProvider
		notes    repository.NoteRepository
	)
	switch cfg.ProviderMode {
	case config.ModeHosted:
		c := hosted.New(cfg.ProviderURL, cfg.ProviderKey)
		identity, notes = c, c
	case config.ModePostgres:
		pool, err := database.Open(context.Background(), cfg)
		if err != nil {
			l.Fatal().Err(err).Msg("db connect failed")
		}
		defer pool.Close()
		identity = postgres.NewIdentity(pool, cfg.SessionSecret, cfg.SessionTTL)
		notes = postgres.NewNoteRepo(pool)
	}

	r := router.New(l, identity, notes, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		l.Info().Str("addr", srv.Addr).Str("provider", cfg.ProviderMode).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	l.Info().Msg("shutdown complete")
}
