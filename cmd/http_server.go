package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/hrms-backend/internal"
	"github.com/frahmantamala/hrms-backend/internal/audit"
	auditPostgres "github.com/frahmantamala/hrms-backend/internal/audit/postgres"
	"github.com/frahmantamala/hrms-backend/internal/auth"
	authPostgres "github.com/frahmantamala/hrms-backend/internal/auth/postgres"
	"github.com/frahmantamala/hrms-backend/internal/employee"
	employeePostgres "github.com/frahmantamala/hrms-backend/internal/employee/postgres"
	"github.com/frahmantamala/hrms-backend/internal/team"
	teamPostgres "github.com/frahmantamala/hrms-backend/internal/team/postgres"
	"github.com/frahmantamala/hrms-backend/internal/transport/rest"
	"github.com/frahmantamala/hrms-backend/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.InitWithOptions(config.Observability.Logging.Level, config.Observability.Logging.Format)
	appLogger := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	auditRepo := auditPostgres.NewAuditRepository(gormDB)
	recorder := audit.NewRecorder(auditRepo, appLogger)

	authRepo := authPostgres.NewRepository(gormDB)
	tokens := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.TokenDuration)
	authService := auth.NewService(authRepo, tokens, recorder, config.Security.BCryptCost, appLogger)
	authHandler := auth.NewHandler(authService)

	employeeRepo := employeePostgres.NewRepository(gormDB)
	employeeService := employee.NewService(employeeRepo, recorder, appLogger)
	employeeHandler := employee.NewHandler(employeeService)

	teamRepo := teamPostgres.NewRepository(gormDB)
	teamService := team.NewService(teamRepo, recorder, appLogger)
	teamHandler := team.NewHandler(teamService)

	auditService := audit.NewService(auditRepo, appLogger)
	auditHandler := audit.NewHandler(auditService)

	router := chi.NewRouter()
	includeErrorDetails := os.Getenv("APP_ENV") != "production"
	rest.RegisterAllRoutes(router, db.DB, config.Server.OriginList(), includeErrorDetails,
		authHandler, employeeHandler, teamHandler, auditHandler, appLogger)

	return &Dependencies{
		Config: config,
		Logger: appLogger,
		DB:     db,
		Router: router,
	}, nil
}

// initDB opens the raw pgx connection pool used for health checks and by the
// orm layer.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm wraps the existing pool. TranslateError turns driver unique
// violations into gorm.ErrDuplicatedKey, which the membership repository
// depends on.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
}
