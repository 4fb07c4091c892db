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

	"github.com/corelearn/training-management/internal"
	"github.com/corelearn/training-management/internal/analytics"
	"github.com/corelearn/training-management/internal/auth"
	"github.com/corelearn/training-management/internal/certificate"
	certificatePostgres "github.com/corelearn/training-management/internal/certificate/postgres"
	"github.com/corelearn/training-management/internal/core/events"
	"github.com/corelearn/training-management/internal/feedback"
	feedbackPostgres "github.com/corelearn/training-management/internal/feedback/postgres"
	"github.com/corelearn/training-management/internal/notification"
	notificationPostgres "github.com/corelearn/training-management/internal/notification/postgres"
	"github.com/corelearn/training-management/internal/registration"
	registrationPostgres "github.com/corelearn/training-management/internal/registration/postgres"
	"github.com/corelearn/training-management/internal/training"
	trainingPostgres "github.com/corelearn/training-management/internal/training/postgres"
	"github.com/corelearn/training-management/internal/transport/middleware"
	"github.com/corelearn/training-management/internal/transport/rest"
	"github.com/corelearn/training-management/internal/user"
	userPostgres "github.com/corelearn/training-management/internal/user/postgres"
	"github.com/corelearn/training-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
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
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
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

	logger.Init(os.Getenv("APP_ENV"))
	log := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// gorm shares the pgx stdlib pool so repositories and the health check
	// see the same connections.
	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	if config.Observability.Metrics.Enabled {
		middleware.InitMetrics()
	}

	bus := events.NewEventBus(log)

	userRepo := userPostgres.NewUserRepository(gormDB)
	trainingRepo := trainingPostgres.NewTrainingRepository(gormDB)
	registrationRepo := registrationPostgres.NewRegistrationRepository(gormDB)
	certificateRepo := certificatePostgres.NewCertificateRepository(gormDB)
	notificationRepo := notificationPostgres.NewNotificationRepository(gormDB)
	feedbackRepo := feedbackPostgres.NewFeedbackRepository(gormDB)

	userService := user.NewService(userRepo, log)
	trainingService := training.NewService(trainingRepo, log)
	notificationService := notification.NewService(notificationRepo, log)

	tokens := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.AccessTokenDuration)
	authService := auth.NewService(userRepo, tokens, log)

	policy := registration.PolicyFromName(config.Workflow.AssignmentPolicy)
	registrationService := registration.NewService(registrationRepo, userService, trainingService, policy, bus, log)

	filePolicy := certificate.FilePolicy{
		MaxSizeBytes: config.Certificates.MaxFileSizeBytes,
		AllowedTypes: config.Certificates.AllowedFileTypes,
	}
	storage := certificate.PathStorage{BasePath: "/certificates"}
	certificateService := certificate.NewService(certificateRepo, notificationService, storage, bus,
		filePolicy, config.Certificates.ExpiryHorizonDays, log)

	feedbackService := feedback.NewService(feedbackRepo, trainingService, log)
	analyticsService := analytics.NewService(trainingRepo, registrationRepo, certificateRepo, userRepo,
		config.Certificates.ExpiryHorizonDays, log)

	handlers := rest.Handlers{
		Auth:         auth.NewHandler(authService),
		User:         user.NewHandler(userService),
		Training:     training.NewHandler(trainingService),
		Registration: registration.NewHandler(registrationService),
		Certificate:  certificate.NewHandler(certificateService),
		Notification: notification.NewHandler(notificationService),
		Feedback:     feedback.NewHandler(feedbackService),
		Analytics:    analytics.NewHandler(analyticsService),
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, handlers, log)

	return &Dependencies{
		Config: config,
		Logger: log,
		DB:     db,
		Router: router,
	}, nil
}

// initDB initializes the database connection
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
