// Package server wires the fanbox server together: storage, credential and
// token services, the authentication gate and the HTTP and gRPC transports.
// It also handles graceful shutdown on SIGINT/SIGTERM/SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/fanbox/internal/logging"
	"github.com/dmitrijs2005/fanbox/internal/server/auth"
	"github.com/dmitrijs2005/fanbox/internal/server/config"
	"github.com/dmitrijs2005/fanbox/internal/server/credentials"
	"github.com/dmitrijs2005/fanbox/internal/server/gate"
	"github.com/dmitrijs2005/fanbox/internal/server/httpserver"
	"github.com/dmitrijs2005/fanbox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fanbox/internal/server/services"

	gs "github.com/dmitrijs2005/fanbox/internal/server/grpc"
)

// MemoryDSN selects the in-process store instead of PostgreSQL.
const MemoryDSN = "memory"

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	users    *services.UserService
	messages *services.MessageService
	gate     *gate.Gate
	// tokenValidity is the issuer's effective lifetime, used for cookies.
	tokenValidity time.Duration
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

// NewApp validates the configuration, prepares storage and builds the
// services. A missing signing secret is fatal.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	issuer, err := auth.NewIssuer(c.SecretKey, c.TokenValidityDuration)
	if err != nil {
		return nil, err
	}

	var (
		db *sql.DB
		rm repomanager.RepositoryManager
	)
	if c.DatabaseDSN == MemoryDSN {
		rm = repomanager.NewInMemoryRepositoryManager()
	} else {
		db, err = openDB(c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm = repomanager.NewPostgresRepositoryManager()
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	us := services.NewUserService(db, rm, credentials.NewCodec(), issuer, logger, c.StoreTimeout)
	ms := services.NewMessageService(db, rm, logger, c.StoreTimeout)

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		users:    us,
		messages: ms,
		gate:     gate.New(issuer, us, logger),

		tokenValidity: issuer.Validity(),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.users, app.messages, app.gate)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) newHTTPServer() *httpserver.HTTPServer {
	return httpserver.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.users, app.messages, app.gate,
		app.tokenValidity, app.config.SecureCookies)
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := app.newHTTPServer()
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves both transports until a signal arrives, ctx is canceled or one
// transport fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

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

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "error closing db", "error", err)
		}
	}

	app.logger.Info(ctx, "App stopped")
}
