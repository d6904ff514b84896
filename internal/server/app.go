// Package server assembles the ring keeper server: it opens the database,
// applies the schema, builds the services and runs the HTTP API until the
// process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/ringkeeper/internal/logging"
	"github.com/dmitrijs2005/ringkeeper/internal/server/auth"
	"github.com/dmitrijs2005/ringkeeper/internal/server/config"
	"github.com/dmitrijs2005/ringkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/ringkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ringkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

// Core is what the server and the admin command line share: an open,
// migrated database and the services built on it.
type Core struct {
	DB     *sql.DB
	Tokens *auth.TokenService
	Users  *services.UserService
	Rings  *services.RingService
}

// OpenCore opens the database, applies migrations and builds the services.
func OpenCore(ctx context.Context, c *config.Config) (*Core, error) {
	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	tokens := auth.NewTokenService(c.SecretKey, c.TokenValidityDuration)

	return &Core{
		DB:     db,
		Tokens: tokens,
		Users:  services.NewUserService(db, rm, tokens),
		Rings:  services.NewRingService(db, rm),
	}, nil
}

// Close closes the database.
func (c *Core) Close() error {
	if err := c.DB.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

type App struct {
	config       *config.Config
	logger       logging.Logger
	core         *Core
	imageService *services.ImageService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	core, err := OpenCore(ctx, c)
	if err != nil {
		return nil, err
	}

	return &App{
		config:       c,
		logger:       logger,
		core:         core,
		imageService: services.NewImageService(c),
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	gin.SetMode(gin.ReleaseMode)

	s := httpapi.NewServer(app.config.HTTPAddress, app.logger, app.core.Users, app.core.Rings,
		app.imageService, app.core.Tokens, app.config.RequestTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.core.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
	app.logger.Info(ctx, "App stopped")
}
