package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-attendance/internal/analytics"
	"ms-attendance/internal/attendance"
	"ms-attendance/internal/attendance/attendance_api"
	attendance_db "ms-attendance/internal/attendance/db"
	"ms-attendance/internal/auth"
	auth_db "ms-attendance/internal/auth/db"
	"ms-attendance/internal/config"
	"ms-attendance/internal/database/migrations"
	"ms-attendance/internal/kafka"
	"ms-attendance/internal/logger"
	"ms-attendance/internal/qr"
	"ms-attendance/internal/services"
	service_db "ms-attendance/internal/services/db"
	"ms-attendance/internal/services/service_api"
	"ms-attendance/internal/sse"
)

func connectDatabase(cfg *config.Config, log *logger.Logger) *bun.DB {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.Database.DSN)
		if err == nil {
			err = sqldb.Ping()
		}
		if err == nil {
			break
		}
		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	log.Info("DATABASE", "PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New())
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting Attendance Service initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	}

	cfg := config.Load()
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("CONFIG", "JWT_SECRET not set")
	}

	bunDB := connectDatabase(cfg, log)
	defer bunDB.Close()

	if cfg.Database.AutoMigrate {
		runner := migrations.NewRunner(bunDB, migrations.MigrateOptions{
			MigrationsDir: cfg.Database.MigrationsDir,
			AutoMigrate:   true,
		})
		if err := runner.MigrateUp(); err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
		}
		log.Info("DATABASE", "Migrations up to date")
	}

	// Session cache is optional; without Redis every admin request hits the
	// user store, which is fine at this scale.
	var sessionCache *auth.SessionCache
	if cfg.Redis.Enabled {
		redisClient, err := auth.InitializeSessionCache(cfg.Redis.Addr, log)
		if err != nil {
			log.Warn("AUTH", fmt.Sprintf("Redis unavailable, continuing without session cache: %v", err))
		} else {
			defer redisClient.Close()
			sessionCache = auth.NewSessionCache(redisClient, cfg.Auth.SessionTTL)
		}
	}

	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		topics := []string{cfg.Kafka.Topics.CheckinRecorded, cfg.Kafka.Topics.ServiceCreated}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, topics); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		}
		producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.CheckinRecorded, cfg.Kafka.Topics.ServiceCreated)
		defer producer.Close()
		log.Info("KAFKA", "Kafka producer initialized")
	}

	serviceDB := &service_db.DB{Bun: bunDB}
	serviceService := services.NewServiceService(serviceDB)
	if producer != nil {
		serviceService.Publisher = producer
	}

	emitter := sse.NewCheckinEventEmitter()

	attendanceService := attendance.NewAttendanceService(
		&attendance_db.DB{Bun: bunDB},
		serviceDB,
		cfg.Checkin.Window,
	)
	attendanceService.Emitter = emitter
	if producer != nil {
		attendanceService.Publisher = producer
	}

	analyticsService := analytics.NewService(bunDB, cfg.Checkin.Window)
	qrGen := qr.NewGenerator(cfg.Checkin.PublicBaseURL)

	serviceHandler := service_api.NewHandler(serviceService, analyticsService, qrGen, log)
	attendanceHandler := attendance_api.NewHandler(attendanceService, emitter, log)

	authenticator := auth.NewAuthenticator(
		auth.NewTokenVerifier(cfg.Auth.JWTSecret),
		&auth_db.DB{Bun: bunDB},
		sessionCache,
		log,
	)

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		// --- Public Routes ---
		serviceHandler.RegisterPublicRoutes(r)
		attendanceHandler.RegisterPublicRoutes(r)

		// --- Admin Routes ---
		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticator.Middleware())
			r.Use(auth.RequireAdmin)
			serviceHandler.RegisterAdminRoutes(r)
			attendanceHandler.RegisterAdminRoutes(r)
		})
	})
	log.Info("ROUTER", "Public routes registered under /api, admin routes under /api/admin")

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", "🚀 Attendance Service running on "+cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "✅ Attendance Service shutdown complete")
	}
}
