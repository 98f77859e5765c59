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
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"campus-events/internal/admin"
	admin_api "campus-events/internal/admin/api"
	admin_db "campus-events/internal/admin/db"
	"campus-events/internal/admin/session"
	"campus-events/internal/config"
	"campus-events/internal/database/migrations"
	"campus-events/internal/events"
	events_api "campus-events/internal/events/api"
	events_db "campus-events/internal/events/db"
	"campus-events/internal/logger"
	"campus-events/internal/reports"
	reports_api "campus-events/internal/reports/api"
	"campus-events/internal/students"
	students_api "campus-events/internal/students/api"
	students_db "campus-events/internal/students/db"
	"campus-events/internal/utils"
)

func verifyConnections(ctx context.Context, cfg *config.Config, log *logger.Logger) (*bun.DB, *redis.Client) {
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

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("Redis connection successful to %s", cfg.Redis.Addr))

	return bunDB, redisClient
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting campus events service")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	}
	cfg := config.Load()

	ctx := context.Background()
	bunDB, redisClient := verifyConnections(ctx, cfg, log)
	defer bunDB.Close()
	defer redisClient.Close()

	runner := migrations.NewRunner(bunDB, migrations.MigrateOptions{
		MigrationsDir: cfg.Migrations.Dir,
		AutoMigrate:   cfg.Migrations.AutoMigrate,
	})
	if err := runner.RunMigrations(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
	}
	log.Info("DATABASE", "Schema is up to date")

	adminDB := &admin_db.DB{Bun: bunDB}
	if err := adminDB.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Admin seed failed: %v", err))
	}

	sessionStore := session.NewRedisStore(redisClient, cfg.Session.TTL)
	adminService := admin.NewService(adminDB, sessionStore, log)
	eventService := events.NewService(&events_db.DB{Bun: bunDB})
	studentService := students.NewService(&students_db.DB{Bun: bunDB})
	reportService := reports.NewService(bunDB)

	eventHandler := events_api.NewHandler(eventService, log)
	studentHandler := students_api.NewHandler(studentService, log)
	adminHandler := admin_api.NewHandler(adminService, reportService, log, cfg.Session.CookieName, cfg.Session.TTL)
	reportHandler := reports_api.NewHandler(reportService, log)

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	requireAdmin := admin.RequireAdmin(adminService, cfg.Session.CookieName)

	r.Route("/api", func(r chi.Router) {
		// --- Public routes ---
		r.Get("/events", eventHandler.GetEvents)
		r.Get("/students", studentHandler.GetStudents)
		r.Post("/students", studentHandler.RegisterStudent)
		r.Get("/admin", adminHandler.HandleAdmin)
		r.Post("/admin", adminHandler.HandleAdmin)

		// --- Admin-gated routes ---
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/events", eventHandler.CreateEvent)
			r.Put("/events", eventHandler.UpdateEvent)
			r.Delete("/events", eventHandler.DeleteEvent)
			r.Delete("/students", studentHandler.DeleteStudent)
			r.Get("/export", reportHandler.ExportCSV)
		})
	})
	log.Info("ROUTER", "Routes registered under /api")

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Campus events service running on %s", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	} else {
		log.Info("HTTP", "Campus events service shutdown complete")
	}
}
