package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/propman/internal/client/client"
	"github.com/dmitrijs2005/propman/internal/client/config"
	"github.com/dmitrijs2005/propman/internal/client/properties"
	"github.com/dmitrijs2005/propman/internal/client/session"
	"github.com/dmitrijs2005/propman/internal/client/tokenstore"
	"github.com/dmitrijs2005/propman/internal/logging"
)

type App struct {
	config  *config.Config
	session *session.Controller
	view    *properties.View
	closer  io.Closer
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp opens the token database and builds the API client, session and
// view on top of it.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	store, err := tokenstore.OpenSQLite(ctx, c.TokenDBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing token store: %w", err)
	}

	api := client.NewHTTPClient(c.ServerURL, store, c.RequestTimeout, logger)

	a := newApp(api, store, logger, os.Stdin, os.Stdout)
	a.config = c
	a.closer = store
	return a, nil
}

func newApp(api client.Client, store tokenstore.Store, logger logging.Logger, in io.Reader, out io.Writer) *App {
	if logger == nil {
		logger = logging.Nop()
	}
	return &App{
		session: session.New(api, store, logger),
		view:    properties.NewView(api, logger),
		logger:  logger.With("module", "cli"),
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

// Run resolves the stored session, then serves the REPL until EOF or exit.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	printlnFn("Welcome to PropMan CLI (type 'help' for commands)")
	a.start(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) start(ctx context.Context) {
	printlnFn(session.MsgLoading)
	a.session.Start(ctx)

	if a.isLoggedIn() {
		printlnFn(fmt.Sprintf("Signed in as %s", a.session.User().DisplayName()))
		a.mountView(ctx)
	}
}

func (a *App) close() {
	a.view.Unmount()
	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			a.logger.Error(context.Background(), "close token store", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.State().Authenticated()
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return "guest"
	}
	if name := a.session.User().DisplayName(); name != "" {
		return name
	}
	return "signed in"
}

// protected runs the route guard and prints the placeholder when the
// session does not allow protected content.
func (a *App) protected() bool {
	gate := session.Guard(a.session.State())
	if gate != session.GateContent {
		printlnFn(gate.Placeholder())
		return false
	}
	return true
}

// mountView loads the list and waits for the result.
func (a *App) mountView(ctx context.Context) {
	f := a.view.Mount(ctx)
	select {
	case <-f.Done():
	case <-ctx.Done():
		f.Cancel()
		return
	}
	if snap := a.view.Snapshot(); snap.LoadErr != "" {
		printlnFn(snap.LoadErr)
	}
}
