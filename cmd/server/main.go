package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm/logger"

	_ "carwash/docs" // swagger docs

	"carwash/internal/auth"
	"carwash/internal/cache"
	"carwash/internal/config"
	"carwash/internal/db"
	"carwash/internal/handler"
	"carwash/internal/media"
	"carwash/internal/metrics"
	"carwash/internal/repository"
	"carwash/internal/router"
	"carwash/internal/service"
)

// @title Car Wash Booking API
// @version 1.0
// @description Car wash booking API with services, time slots, bookings, reviews and JWT authentication.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(logLevel(cfg.LogLevel))

	gormDB, err := db.Open(db.Options{
		Driver:          cfg.DBDriver,
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime(),
		LogLevel:        gormLogLevel(cfg.LogLevel),
	})
	if err != nil {
		e.Logger.Fatalf("database init: %v", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		e.Logger.Fatalf("database handle: %v", err)
	}
	defer sqlDB.Close()

	if cfg.ResetDB {
		e.Logger.Warn("RESET_DB=true detected, dropping all tables...")
		if err := db.Reset(gormDB); err != nil {
			e.Logger.Fatalf("reset database: %v", err)
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		e.Logger.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	repos := repository.New(gormDB)

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL(), cfg.RefreshTokenTTL())
	gate := auth.NewGate(tokens)

	var images service.ImageStore
	s3cfg := media.S3Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.S3PublicURL,
	}
	if s3cfg.Enabled() {
		images = media.NewUploader(media.NewProcessor(cfg.ImageMaxWidth, media.DefaultQuality), media.NewS3Store(s3cfg))
		e.Logger.Infof("image uploads stored in bucket %s", s3cfg.Bucket)
	} else {
		e.Logger.Warn("S3_BUCKET not set, image uploads are disabled")
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New("carwash")
		if err := m.RegisterDB(sqlDB, cfg.DBDriver); err != nil {
			e.Logger.Warnf("register db metrics: %v", err)
		}
	}

	bookingOpts := service.BookingOptions{StrictStatus: cfg.StrictBookingSM, Logger: e.Logger}
	if m != nil {
		bookingOpts.Recorder = m
	}

	authService := service.NewAuthService(repos.Users, tokens)
	catalogService := service.NewCatalogService(repos.Services, cacheClient, images)
	slotService := service.NewSlotService(repos)
	bookingService := service.NewBookingService(repos, bookingOpts)
	reviewService := service.NewReviewService(repos)
	userService := service.NewUserService(repos.Users, cacheClient, images)

	if cfg.SeedOnStart {
		seeder := service.NewSeeder(repos, e.Logger)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		created, err := seeder.SeedUsers(ctx, service.DefaultSeedUsers(cfg.AdminEmail, cfg.AdminPassword))
		cancel()
		if err != nil {
			e.Logger.Fatalf("seed users: %v", err)
		}
		e.Logger.Infof("seeded %d users", created)
	}

	router.Register(e, cfg, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Services: handler.NewServiceHandler(catalogService),
		Slots:    handler.NewSlotHandler(slotService),
		Bookings: handler.NewBookingHandler(bookingService),
		Reviews:  handler.NewReviewHandler(reviewService),
		Users:    handler.NewUserHandler(userService),
		System: handler.NewSystemHandler(cfg.Env, map[string]handler.Pinger{
			"database": handler.PingFunc(sqlDB.PingContext),
		}),
	}, gate, m)

	e.Logger.Infof("Swagger documentation available at: %s", swaggerURL(cfg))

	go func() {
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatalf("server start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	e.Logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Errorf("server shutdown: %v", err)
	}
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}

func logLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.Info
	case "error":
		return logger.Error
	case "off":
		return logger.Silent
	default:
		return logger.Warn
	}
}
