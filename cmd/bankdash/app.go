package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/agamariel/bankdash/internal/auth"
	"github.com/agamariel/bankdash/internal/config"
	"github.com/agamariel/bankdash/internal/handlers"
	"github.com/agamariel/bankdash/internal/idempotency"
	"github.com/agamariel/bankdash/internal/migrations"
	"github.com/agamariel/bankdash/internal/services"
	"github.com/agamariel/bankdash/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
)

// App структура для управления приложением и его зависимостями.
type App struct {
	cfg        *config.Config
	dbPool     *pgxpool.Pool
	redis      *redis.Client
	echo       *echo.Echo
	worker     *services.SnapshotWorker
	workerDone <-chan struct{}

	// Владелец токена перечитывается из users на каждый защищённый запрос
	users *storage.PostgresUserStorage

	// Handlers
	userHandler        *handlers.UserHandler
	accountHandler     *handlers.AccountHandler
	moneyHandler       *handlers.MoneyHandler
	transactionHandler *handlers.TransactionHandler
	dashboardHandler   *handlers.DashboardHandler
}

// NewApp создаёт и инициализирует новое приложение.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{
		cfg: cfg,
	}

	if err := app.initDatabase(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initCache(ctx); err != nil {
		app.dbPool.Close()
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	app.initDependencies()
	app.initServer()

	return app, nil
}

// initDatabase выполняет миграции и открывает пул соединений.
func (app *App) initDatabase(ctx context.Context) error {
	if app.cfg.DatabaseURI == "" {
		return fmt.Errorf("DATABASE_URI is required")
	}

	log.Println("Running database migrations...")
	sqlDB, err := sql.Open("pgx", app.cfg.DatabaseURI)
	if err != nil {
		return fmt.Errorf("unable to open database connection: %w", err)
	}
	defer sqlDB.Close()

	if err := migrations.Run(sqlDB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Migrations completed successfully")

	dbPool, err := pgxpool.New(ctx, app.cfg.DatabaseURI)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return fmt.Errorf("unable to ping database: %w", err)
	}

	app.dbPool = dbPool
	log.Println("Successfully connected to database")

	return nil
}

// initCache подключает Redis для ключей идемпотентности.
// Без REDIS_ADDRESS повторные запросы не дедуплицируются.
func (app *App) initCache(ctx context.Context) error {
	if app.cfg.RedisAddress == "" {
		log.Println("WARNING: REDIS_ADDRESS is not configured. Idempotency keys are ignored!")
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: app.cfg.RedisAddress})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("unable to ping redis at %s: %w", app.cfg.RedisAddress, err)
	}

	app.redis = client
	log.Printf("Connected to redis at %s", app.cfg.RedisAddress)
	return nil
}

// initDependencies инициализирует storage, services и handlers.
func (app *App) initDependencies() {
	// Storage layer
	userStorage := storage.NewPostgresUserStorage(app.dbPool)
	app.users = userStorage
	accountStorage := storage.NewPostgresAccountStorage(app.dbPool)
	transactionStorage := storage.NewPostgresTransactionStorage(app.dbPool)
	reportingStorage := storage.NewPostgresReportingStorage(app.dbPool)

	// Service layer
	userService := services.NewUserService(userStorage, app.cfg.JWTSecret, app.cfg.TokenExpiration)
	accountService := services.NewAccountService(accountStorage)
	moneyService := services.NewMoneyService(app.dbPool, accountStorage, transactionStorage)
	transactionService := services.NewTransactionService(accountStorage, transactionStorage)
	dashboardService := services.NewDashboardService(reportingStorage, accountStorage)

	// Handler layer
	app.userHandler = handlers.NewUserHandler(userService, app.cfg.TokenExpiration)
	app.accountHandler = handlers.NewAccountHandler(accountService)
	app.moneyHandler = handlers.NewMoneyHandler(moneyService)
	app.transactionHandler = handlers.NewTransactionHandler(transactionService)
	app.dashboardHandler = handlers.NewDashboardHandler(dashboardService)

	if app.cfg.SnapshotInterval > 0 {
		logger := log.New(os.Stdout, "[snapshots] ", log.LstdFlags)
		app.worker = services.NewSnapshotWorker(reportingStorage, app.cfg.SnapshotInterval, logger)
	} else {
		log.Println("Snapshot worker is disabled")
	}
}

// initServer инициализирует HTTP-сервер и настраивает маршруты.
func (app *App) initServer() {
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, idempotency.HeaderKey},
	}))

	// Публичные маршруты (не требуют аутентификации)
	e.POST("/api/user/register", app.userHandler.Register)
	e.POST("/api/user/login", app.userHandler.Login)

	// Защищённые маршруты (требуют аутентификации)
	api := e.Group("/api")
	api.Use(auth.JWTMiddleware(app.cfg.JWTSecret, app.users))

	api.GET("/dashboard", app.dashboardHandler.Summary)
	api.GET("/snapshots", app.dashboardHandler.Snapshots)

	api.POST("/accounts", app.accountHandler.Create)
	api.GET("/accounts", app.accountHandler.List)
	api.GET("/accounts/:id", app.accountHandler.Get)
	api.DELETE("/accounts/:id", app.accountHandler.Delete)
	api.GET("/accounts/:id/transactions", app.transactionHandler.ListByAccount)
	api.GET("/transactions", app.transactionHandler.List)

	var moneyMiddleware []echo.MiddlewareFunc
	if app.redis != nil {
		store := idempotency.NewRedisStore(app.redis, app.cfg.IdempotencyTTL)
		moneyMiddleware = append(moneyMiddleware, idempotency.Middleware(store))
	}
	api.POST("/accounts/:id/withdrawals", app.moneyHandler.Withdraw, moneyMiddleware...)
	api.POST("/accounts/:id/deposits", app.moneyHandler.Deposit, moneyMiddleware...)

	api.GET("/users", app.userHandler.List)
	api.PUT("/user/password", app.userHandler.ChangePassword)
	api.POST("/users/:id/activate", app.userHandler.Activate)
	api.POST("/users/:id/deactivate", app.userHandler.Deactivate)
	api.DELETE("/users/:id", app.userHandler.Delete)

	app.echo = e
}

// Start запускает приложение.
func (app *App) Start(ctx context.Context) error {
	if app.worker != nil {
		log.Printf("Starting snapshot worker (interval %s)...", app.cfg.SnapshotInterval)
		app.workerDone = app.worker.Start(ctx)
	}

	log.Printf("Starting server on %s", app.cfg.RunAddress)
	if err := app.echo.Start(app.cfg.RunAddress); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}

// Shutdown корректно завершает работу приложения.
func (app *App) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")

	if err := app.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	// Воркер останавливается отменой контекста Start
	if app.workerDone != nil {
		select {
		case <-app.workerDone:
		case <-ctx.Done():
			log.Println("snapshot worker did not stop in time")
		}
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			log.Printf("failed to close redis client: %v", err)
		}
	}

	if app.dbPool != nil {
		app.dbPool.Close()
	}

	log.Println("Server gracefully stopped")
	return nil
}
