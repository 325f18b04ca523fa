// Package server initializes and runs the FoodDiary backend: it opens the
// database, runs migrations, wires the services, starts the cleanup scheduler
// and serves the REST API until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/fooddiary/internal/logging"
	"github.com/dmitrijs2005/fooddiary/internal/server/cleanup"
	"github.com/dmitrijs2005/fooddiary/internal/server/config"
	"github.com/dmitrijs2005/fooddiary/internal/server/httpapi"
	"github.com/dmitrijs2005/fooddiary/internal/server/mail"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
	"github.com/dmitrijs2005/fooddiary/internal/server/openai"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fooddiary/internal/server/services"
	"github.com/dmitrijs2005/fooddiary/internal/server/storage"
)

const startupTimeout = 30 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	cleanup *cleanup.Service
	server  *httpapi.Server
}

// OpenDB opens the PostgreSQL pool through the pgx stdlib driver and checks
// that it is reachable.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	db, err := OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	sender, err := mail.NewSender(ctx, c, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("mail init error: %w", err)
	}
	templates := mail.NewTemplateService(rm.EmailTemplates(db), sender, c.AppURL, logger)
	if err := templates.SeedDefaults(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("email templates seed error: %w", err)
	}

	objects := storage.NewS3Storage(c)
	if !c.AIEnabled() {
		logger.Warn(ctx, "OpenAI API key is not set, AI endpoints are disabled")
	}

	svc := httpapi.Services{
		Users:         services.NewUserService(db, rm, templates, c),
		Products:      services.NewProductService(db, rm),
		Recipes:       services.NewRecipeService(db, rm),
		Meals:         services.NewMealService(db, rm),
		ShoppingLists: services.NewShoppingListService(db, rm),
		Weights:       services.NewMeasurementService(db, rm, models.MeasurementWeight),
		Waists:        services.NewMeasurementService(db, rm, models.MeasurementWaist),
		Cycles:        services.NewCycleService(db, rm),
		Hydration:     services.NewHydrationService(db, rm),
		Statistics:    services.NewStatisticsService(db, rm),
		Assets:        services.NewAssetService(db, rm, objects, logger),
		AI:            services.NewAIService(db, rm, openai.NewClient(c), objects, c, logger),
		Admin:         services.NewAdminService(db, rm, templates, objects, c, logger),
	}

	srv, err := httpapi.NewServer(c, logger, svc)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		cleanup: cleanup.NewService(db, rm, objects, c, logger),
		server:  srv,
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
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.cleanup.Start(); err != nil {
		app.logger.Error(ctx, "cleanup scheduler not started", "error", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	app.cleanup.Stop(stopCtx)

	if err := app.db.Close(); err != nil {
		app.logger.Error(stopCtx, "closing database", "error", err)
	}

	app.logger.Info(stopCtx, "App stopped")
}
