// Package server wires configuration, storage, identity services and the
// gRPC and HTTP transports into a runnable application.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophid/internal/logging"
	"github.com/dmitrijs2005/gophid/internal/server/auth"
	"github.com/dmitrijs2005/gophid/internal/server/config"
	"github.com/dmitrijs2005/gophid/internal/server/guard"
	"github.com/dmitrijs2005/gophid/internal/server/httpapi"
	"github.com/dmitrijs2005/gophid/internal/server/oauth"
	"github.com/dmitrijs2005/gophid/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophid/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophid/internal/server/services"

	gs "github.com/dmitrijs2005/gophid/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	identity *services.IdentityService
	guard    *guard.Guard
	google   httpapi.ExternalProvider

	closers []io.Closer
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger}

	repo, err := app.initAccounts(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	tokens := auth.NewTokenIssuer([]byte(c.SecretKey), c.AccessTokenValidityDuration)
	identity, err := services.NewIdentityService(repo, auth.NewBcryptHasher(c.BcryptCost), tokens, logger)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.identity = identity
	app.guard = guard.New(tokens, repo, logger)

	if c.GoogleEnabled() {
		states, err := app.initStateStore(ctx)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.google = oauth.NewGoogleProvider(oauth.GoogleConfig{
			ClientID:     c.GoogleClientID,
			ClientSecret: c.GoogleClientSecret,
			RedirectURL:  c.GoogleRedirectURL,
			StateTTL:     c.OAuthStateTTL,
		}, states)
	} else {
		logger.Info(ctx, "Google sign-in disabled, no client id configured")
	}

	return app, nil
}

func (app *App) initAccounts(ctx context.Context) (accounts.Repository, error) {
	if app.config.DatabaseDSN == "" {
		app.logger.Warn(ctx, "No database DSN configured, accounts are kept in memory")
		return accounts.NewInMemoryRepository(), nil
	}

	m := repomanager.NewPostgresRepositoryManager()
	db, err := m.Open(ctx, app.config.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, db)

	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	return m.Accounts(db), nil
}

func (app *App) initStateStore(ctx context.Context) (oauth.StateStore, error) {
	if app.config.RedisAddr == "" {
		app.logger.Warn(ctx, "No Redis configured, OAuth state is kept in memory")
		return oauth.NewMemoryStateStore(), nil
	}

	client, err := oauth.ConnectRedis(app.config.RedisAddr)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, client)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping error: %w", err)
	}

	return oauth.NewRedisStateStore(client), nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.identity, app.guard)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	h := httpapi.NewHandler(app.identity, app.guard, app.google, app.config.FrontendURL, app.logger)
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, httpapi.NewRouter(h), app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves gRPC and HTTP until ctx is cancelled, a termination signal
// arrives or one of the servers fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.Close()
	app.logger.Info(context.Background(), "App stopped")
}

// Close releases the database and Redis connections.
func (app *App) Close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			app.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	app.closers = nil
}
