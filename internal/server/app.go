// Package server wires configuration, storage, the auth service and the
// gRPC and metrics endpoints into a runnable application.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
	"github.com/dmitrijs2005/gatekeeper/internal/server/config"
	"github.com/dmitrijs2005/gatekeeper/internal/server/mail"
	"github.com/dmitrijs2005/gatekeeper/internal/server/obs"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gatekeeper/internal/server/services"

	gs "github.com/dmitrijs2005/gatekeeper/internal/server/grpc"
)

// openPostgres is a seam for tests.
var openPostgres = repomanager.OpenPostgres

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	mailer  mail.Mailer
	service *services.AuthService
	guard   *auth.Guard
	metrics *obs.Metrics
}

// NewApp validates c and builds every component. For postgres storage it
// opens the database and applies pending migrations.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger := logging.NewJSONLogger(logOut, c.LogLevel)

	var (
		db *sql.DB
		rm repomanager.RepositoryManager
	)

	switch c.Storage {
	case config.StoragePostgres:
		var err error
		db, err = openPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm = repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	default:
		rm = repomanager.NewMemoryRepositoryManager()
		logger.Warn(ctx, "Using in-memory user directory, data is lost on restart")
	}

	hasher, err := auth.NewPasswordHasher(c.PasswordHasher)
	if err != nil {
		return nil, err
	}

	var mailer mail.Mailer
	if c.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:      c.SMTPHost,
			Port:      c.SMTPPort,
			User:      c.SMTPUser,
			Password:  c.SMTPPassword,
			From:      c.MailFrom,
			OriginURL: c.AppOriginURL,
		})
	} else {
		mailer = mail.NewLogMailer(logger)
	}

	issuer := auth.NewTokenIssuer()
	svc := services.NewAuthService(db, rm, hasher, issuer, mailer, logger, c)
	guard := auth.NewGuard(auth.NewResolver(issuer, []byte(c.AccessTokenSecret)), gs.Routes())

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		mailer:  mailer,
		service: svc,
		guard:   guard,
		metrics: obs.NewMetrics(),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) func() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigs:
			cancelFunc()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.service, app.guard, app.metrics,
		gs.RateLimit{PerSecond: app.config.LoginRatePerSecond, Burst: app.config.LoginRateBurst})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context) {
	if app.config.MetricsAddr == "" {
		return
	}
	if err := app.metrics.Serve(ctx, app.config.MetricsAddr, app.logger); err != nil {
		app.logger.Error(ctx, "metrics server stopped", "error", err)
	}
}

// Run blocks until ctx is cancelled, a termination signal arrives or the
// gRPC server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	stopSignals := app.initSignalHandler(cancelFunc)
	defer stopSignals()

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startMetricsServer(ctx)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(context.Background(), "db close", "error", err)
		}
	}
	app.logger.Info(context.Background(), "Stopped")
}
