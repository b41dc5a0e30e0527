package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-library-server/authen"
	"github.com/jrsteele09/go-library-server/catalog"
	catalogpg "github.com/jrsteele09/go-library-server/catalog/postgres"
	fakecatalogrepos "github.com/jrsteele09/go-library-server/catalog/repofakes"
	"github.com/jrsteele09/go-library-server/internal/config"
	"github.com/jrsteele09/go-library-server/internal/db"
	"github.com/jrsteele09/go-library-server/server"
	"github.com/jrsteele09/go-library-server/sessions"
	"github.com/jrsteele09/go-library-server/sessions/redisrepo"
	"github.com/jrsteele09/go-library-server/users"
	userspg "github.com/jrsteele09/go-library-server/users/postgres"
	fakeuserrepo "github.com/jrsteele09/go-library-server/users/repofake"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userRepo, catalogRepos, cleanup, err := buildStores(ctx, c)
	if err != nil {
		return err
	}
	defer cleanup()

	sessionRepo, err := buildSessionRepo(ctx, c)
	if err != nil {
		return err
	}

	authenticator, err := authen.New(
		authen.Repos{Users: userRepo, Sessions: sessionRepo},
		authen.WithIdleTimeout(c.GetSessionIdleTimeout()),
		authen.WithLogger(log.With().Str("component", "authen").Logger()),
	)
	if err != nil {
		return err
	}

	if interval := c.GetSessionSweepInterval(); interval > 0 {
		sweeper := sessions.NewSweeper(sessionRepo, c.GetSessionIdleTimeout(), interval,
			sessions.WithSweeperLogger(log.With().Str("component", "sweeper").Logger()))
		go sweeper.Run(ctx)
	}

	circ, err := catalog.NewCirculation(catalogRepos,
		catalog.WithCirculationLogger(log.With().Str("component", "circulation").Logger()))
	if err != nil {
		return err
	}

	srv, err := server.New(c, authenticator, catalogRepos.Books, circ)
	if err != nil {
		return err
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)

	<-ctx.Done()
	return shutdown(httpServer)
}

// buildStores wires Postgres when a DSN is configured; without one the
// server runs on in-memory fakes seeded with a bootstrap admin, which only
// makes sense for local development.
func buildStores(ctx context.Context, c config.Config) (users.Repo, catalog.Repos, func(), error) {
	dsn := c.GetPostgresDSN()
	if dsn == "" {
		log.Warn().Msg("POSTGRES_DSN not set, running on in-memory stores")
		userRepo := fakeuserrepo.NewFakeUserRepo()
		seedAdmin(ctx, userRepo)
		return userRepo, fakecatalogrepos.NewRepos(), func() {}, nil
	}

	if err := db.RunMigrations(dsn); err != nil {
		return nil, catalog.Repos{}, nil, fmt.Errorf("migrations: %w", err)
	}
	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		return nil, catalog.Repos{}, nil, err
	}
	return userspg.New(pool), catalogpg.NewRepos(pool), pool.Close, nil
}

func buildSessionRepo(ctx context.Context, c config.Config) (sessions.Repo, error) {
	addr := c.GetRedisAddr()
	if addr == "" {
		return sessions.NewInMemoryRepo(), nil
	}
	return redisrepo.New(ctx, redisrepo.Config{
		Addr:     addr,
		Password: c.GetRedisPassword(),
		DB:       c.GetRedisDB(),
	}, c.GetSessionIdleTimeout())
}

func seedAdmin(ctx context.Context, repo users.Repo) {
	password := config.GetEnv("BOOTSTRAP_ADMIN_PASSWORD", "admin")
	err := repo.Upsert(ctx, &users.User{
		Username:     "admin",
		PasswordHash: users.HashPassword(password),
		FullName:     "Bootstrap Admin",
		Role:         users.RoleAdmin,
		Status:       users.StatusActive,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to seed bootstrap admin")
	}
}

func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func listenAndServe(server *http.Server) {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
