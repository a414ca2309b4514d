package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medbridge-api/config"
	deliveryHttp "medbridge-api/internal/delivery/http"
	"medbridge-api/internal/delivery/http/handler"
	"medbridge-api/internal/delivery/http/middleware"
	"medbridge-api/internal/infrastructure/cache"
	"medbridge-api/internal/infrastructure/database"
	"medbridge-api/internal/infrastructure/metrics"
	"medbridge-api/internal/repository"
	"medbridge-api/internal/service"
	"medbridge-api/internal/usecase"
	"medbridge-api/pkg/jwt"
	"medbridge-api/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server

	notifier  *service.NotificationService
	logCloser io.Closer
}

// Base loads configuration, configures logging and connects to the database.
// Commands that do not serve HTTP stop here.
func Base() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	app := &App{Config: cfg}
	app.Log, app.logCloser = setupLogger(cfg.Log)
	app.Log.Info("Configuration loaded successfully")

	db, err := database.NewPostgresConnection(cfg.DB, app.Log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	return app, nil
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app, err := Base()
	if err != nil {
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(app.Config.Redis, app.Log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	app.Server = app.initializeServer()

	return app, nil
}

// setupLogger configures the standard logrus logger. When a log file is set,
// output goes to stdout and a size-rotated file.
func setupLogger(cfg config.LogConfig) (*logrus.Logger, io.Closer) {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.File == "" {
		log.SetOutput(os.Stdout)
		return log, nil
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	return log, rotator
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer() *http.Server {
	cfg := app.Config
	log := app.Log

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	appMetrics := metrics.New()

	// Initialize repositories
	transactor := repository.NewTransactor(app.DB)
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	profileRepo := repository.NewUserProfileRepository()
	doctorRepo := repository.NewChinaDoctorRepository()
	availabilityRepo := repository.NewDoctorAvailabilityRepository()
	consultationRepo := repository.NewConsultationRepository()
	reviewRepo := repository.NewDoctorReviewRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	tokenRepo := repository.NewTokenRepository(app.RedisClient)

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	bookingValidator := service.NewBookingValidator(cfg.App.Location, availabilityRepo, consultationRepo)
	slotLocker := service.NewRedisSlotLocker(app.RedisClient, cfg.Lock.SlotTTL, log)
	triager := service.NewKeywordTriager()
	app.notifier = service.NewNotificationService(cfg.SMTP, cfg.App.Location, log)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(transactor, log, userRepo, roleRepo, profileRepo, tokenRepo, auditService, jwtService)
	profileUsecase := usecase.NewUserProfileUsecase(transactor, log, profileRepo, auditService)
	doctorUsecase := usecase.NewChinaDoctorUsecase(transactor, log, doctorRepo, auditService)
	availabilityUsecase := usecase.NewDoctorAvailabilityUsecase(transactor, log, cfg.App.Location, availabilityRepo, doctorRepo, auditService)
	consultationUsecase := usecase.NewConsultationUsecase(
		transactor,
		log,
		consultationRepo,
		doctorRepo,
		profileRepo,
		bookingValidator,
		slotLocker,
		triager,
		app.notifier,
		auditService,
		appMetrics,
	)
	reviewUsecase := usecase.NewDoctorReviewUsecase(transactor, log, reviewRepo, consultationRepo, doctorRepo, auditService, appMetrics)
	triageUsecase := usecase.NewTriageUsecase(log, triager, appMetrics)
	auditLogUsecase := usecase.NewAuditLogUsecase(transactor, log, auditLogRepo)

	// Initialize router
	router := deliveryHttp.NewRouter(deliveryHttp.RouterParams{
		AuthHandler:         handler.NewAuthHandler(authUsecase, customValidator),
		ProfileHandler:      handler.NewUserProfileHandler(profileUsecase, customValidator),
		DoctorHandler:       handler.NewDoctorHandler(doctorUsecase, reviewUsecase, customValidator),
		AvailabilityHandler: handler.NewDoctorAvailabilityHandler(availabilityUsecase, customValidator),
		ConsultationHandler: handler.NewConsultationHandler(consultationUsecase, reviewUsecase, customValidator),
		TriageHandler:       handler.NewTriageHandler(triageUsecase, customValidator),
		AuditLogHandler:     handler.NewAuditLogHandler(auditLogUsecase),
		AuthMiddleware:      middleware.NewAuthMiddleware(jwtService, tokenRepo, log),
		CORSMiddleware:      middleware.NewCORSMiddleware(app.Config.App.CORSOrigins),
		LoggingMiddleware:   middleware.NewLoggingMiddleware(log),
		MetricsMiddleware:   middleware.NewMetricsMiddleware(appMetrics),
		MetricsHandler:      appMetrics.Handler(),
	})

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s, timezone: %s", app.Config.App.Env, app.Config.App.Timezone)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close drains pending notifications and closes all connections
func (app *App) Close() {
	if app.notifier != nil {
		// One SMTP timeout of grace on top of the per-message timeout.
		ctx, cancel := context.WithTimeout(context.Background(), 2*app.Config.SMTP.Timeout)
		if err := app.notifier.Shutdown(ctx); err != nil {
			app.Log.Warnf("Abandoned in-flight notifications: %v", err)
		}
		cancel()
	}

	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}

	if app.logCloser != nil {
		app.logCloser.Close()
	}
}
