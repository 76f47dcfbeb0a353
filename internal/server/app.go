// Package server wires the PropMan API together: storage backend, services
// and the HTTP transport, plus signal handling and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/propman/internal/logging"
	"github.com/dmitrijs2005/propman/internal/server/config"
	"github.com/dmitrijs2005/propman/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/propman/internal/server/rest"
	"github.com/dmitrijs2005/propman/internal/server/services"
)

type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	server runner
}

// openRepositories is a seam for tests.
var openRepositories = repomanager.Open

// NewApp connects to storage, applies migrations and builds the HTTP server.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	repos, err := openRepositories(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close(ctx)
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	us := services.NewUserService(repos, c)
	ps := services.NewPropertyService(repos)
	srv := rest.NewServer(c.Address, logger, us, ps, c.CORSOrigins, c.ShutdownTimeout)

	return &App{config: c, logger: logger, repos: repos, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run blocks until the server stops, either on a signal, on ctx
// cancellation or on a serve error. Storage is closed on the way out.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, err.Error())
	}

	if cerr := app.repos.Close(context.Background()); cerr != nil {
		app.logger.Error(ctx, "close storage", "error", cerr.Error())
	}

	app.logger.Info(ctx, "Stopped")
	return err
}
