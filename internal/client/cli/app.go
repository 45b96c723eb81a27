package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/comparehub/internal/client/catalog"
	"github.com/dmitrijs2005/comparehub/internal/client/challenge"
	"github.com/dmitrijs2005/comparehub/internal/client/config"
	"github.com/dmitrijs2005/comparehub/internal/client/repositories/storage"
	"github.com/dmitrijs2005/comparehub/internal/client/services"
	"github.com/dmitrijs2005/comparehub/internal/client/share"
	"github.com/dmitrijs2005/comparehub/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB

	authService    services.AuthService
	catalogService services.CatalogService
	alertService   services.AlertService
	provider       challenge.Provider
	store          share.Store

	listing *catalog.Listing
	compare *catalog.Comparison

	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time

	mu       sync.Mutex
	mode     Mode
	userName string
}

// NewApp opens local storage and builds the services described by c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogFormat, c.LogLevel, os.Stderr)

	db, err := storage.InitDatabase(ctx, c.DBPath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	a := &App{
		config:  c,
		log:     logger,
		db:      db,
		compare: catalog.NewComparison(),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		now:     time.Now,
	}

	apiClient, err := newAPIClient(ctx, c, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a.provider = a.newProvider(c.Challenge)
	a.store = newStore(c)
	a.authService = services.NewAuthService(apiClient, db, a.provider, services.WithAuthLogger(logger))
	a.catalogService = services.NewCatalogService(apiClient, c.PageSize, logger)
	a.alertService = services.NewAlertService(storage.NewSQLiteRepository(db))

	return a, nil
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userName != ""
}

func (a *App) setUser(name string) {
	a.mu.Lock()
	a.userName = name
	a.mu.Unlock()
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.mode != "" {
		s = s + string(a.mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Run restores the stored session, then runs the REPL and the connectivity
// watcher until the user exits or ctx is cancelled. Session storage is
// cleared on the way out.
func (a *App) Run(ctx context.Context) error {
	defer a.shutdown()

	fmt.Fprintln(a.out, "Welcome to CompareHub CLI (type 'help' for commands)")
	a.restoreSession(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
		return nil
	})
	g.Go(func() error {
		defer cancel()
		runREPL(ctx, a, a.getStatus, a.reader)
		return nil
	})

	return g.Wait()
}

func (a *App) restoreSession(ctx context.Context) {
	s, err := a.authService.Session(ctx)
	if err != nil {
		a.log.Warn(ctx, "session not readable", "error", err)
		return
	}
	if s.LoggedIn {
		a.setUser(s.Email)
		fmt.Fprintf(a.out, "Signed in as %s\n", s.Email)
	}
}

// shutdown mirrors closing the browser tab: session-scoped values go away,
// local ones stay.
func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := storage.NewSQLiteRepository(a.db).Clear(ctx, storage.ScopeSession); err != nil {
		a.log.Warn(ctx, "clear session storage", "error", err)
	}
	if c, ok := a.provider.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.log.Warn(ctx, "close challenge provider", "error", err)
		}
	}
	if err := a.authService.Close(ctx); err != nil {
		a.log.Warn(ctx, "close api client", "error", err)
	}
	if err := a.db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		a.log.Warn(ctx, "close database", "error", err)
	}
}

// StartOnlineStatusWatcher pings the API every interval and flips the
// prompt between online and offline. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	check := func() {
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := a.authService.Ping(pctx)
		cancel()

		if err != nil {
			if ctx.Err() == nil {
				a.setMode(ModeOffline)
			}
			return
		}
		a.setMode(ModeOnline)
	}

	check()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			check()
		case <-ctx.Done():
			return
		}
	}
}
