package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/novacredit/engine/internal/app"
	"github.com/novacredit/engine/internal/domain/consent/postgres"
	"github.com/novacredit/engine/internal/domain/identity"
	"github.com/novacredit/engine/internal/platform/config"
	"github.com/novacredit/engine/internal/platform/httptransport"
	"github.com/novacredit/engine/internal/platform/logging"
	"github.com/novacredit/engine/internal/platform/metrics"
	"github.com/novacredit/engine/internal/platform/middleware"
	"github.com/novacredit/engine/internal/platform/migrations"
	"github.com/novacredit/engine/internal/transport/httpapi"

	redis "github.com/go-redis/redis/v8"
)

func main() {
	config.LoadDotEnv("")
	envCfg := config.FromEnv()

	addr := flag.String("addr", envCfg.Addr, "HTTP listen address")
	dsn := flag.String("dsn", envCfg.DatabaseDSN, "Postgres DSN for the consent store (optional)")
	runMigrations := flag.Bool("migrate", true, "apply embedded consent-store migrations on startup (requires -dsn)")
	configPath := flag.String("config", ".env", "path to a .env file loaded after flag parsing; it sets only variables not already set, and settings read before it (addr, dsn, service name, Redis URL, keys) are not affected")
	uidaiURL := flag.String("uidai-url", config.GetEnv("UIDAI_BASE_URL", ""), "UIDAI Auth API base URL")
	uidaiAUA := flag.String("uidai-aua", config.GetEnv("UIDAI_AUA_CODE", ""), "UIDAI AUA code path segment")
	aaRequestURL := flag.String("aa-request-url", config.GetEnv("AA_REQUEST_URL", ""), "Account Aggregator FI-request endpoint")
	aaFetchURL := flag.String("aa-fetch-url", config.GetEnv("AA_FETCH_URL", ""), "Account Aggregator FI-fetch endpoint")
	flag.Parse()

	config.LoadDotEnv(*configPath)

	logger := logging.NewFromEnv(envCfg.ServiceName)
	metricsRecorder := metrics.New(envCfg.ServiceName)

	var stores app.Stores
	if *dsn != "" {
		sqlxDB, err := sqlx.Open("postgres", *dsn)
		if err != nil {
			log.Fatalf("open consent store db: %v", err)
		}
		defer sqlxDB.Close()

		if err := sqlxDB.PingContext(context.Background()); err != nil {
			log.Fatalf("ping consent store db: %v", err)
		}
		if *runMigrations {
			if err := migrations.Apply(context.Background(), sqlxDB.DB); err != nil {
				log.Fatalf("apply migrations: %v", err)
			}
		}
		stores.ConsentPrimary = postgres.New(sqlxDB)
	}

	if envCfg.RedisURL != "" {
		opt, err := redis.ParseURL(envCfg.RedisURL)
		if err != nil {
			log.Fatalf("parse REDIS_URL: %v", err)
		}
		client := redis.NewClient(opt)
		stores.IdentityTracker = identity.NewRedisStore(client, envCfg.AadhaarMaxTries, envCfg.AadhaarLockout)
	}

	uidaiClient := httptransport.NewUIDAIClient(*uidaiURL, *uidaiAUA, 30*time.Second)
	aaClient := httptransport.NewAAClient(*aaRequestURL, *aaFetchURL, envCfg.AAClientAPIKey, envCfg.FIUEntityID, envCfg.AAWaitTimeout)

	application, err := app.New(envCfg, stores,
		app.WithLogger(logger),
		app.WithMetrics(metricsRecorder),
		app.WithAadhaarBackend(uidaiClient),
		app.WithAABackend(aaClient),
	)
	if err != nil {
		log.Fatalf("build application: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := application.Start(ctx); err != nil {
		log.Fatalf("start application: %v", err)
	}

	handler := httpapi.NewHandler(application)

	router := chi.NewRouter()
	router.Use(middleware.NewRecovery(logger).Handler)
	router.Use(middleware.RequestLogging(logger))
	router.Use(middleware.NewSecurityHeaders(nil).Handler)
	router.Use(middleware.NewCORS(middleware.CORSConfig{AllowedOrigins: config.SplitAndTrimCSV(config.GetEnv("CORS_ALLOWED_ORIGINS", ""))}).Handler)
	router.Use(middleware.NewRateLimiter(60, time.Minute, 10, logger).Handler)
	router.Use(middleware.NewBodyLimit(0).Handler)
	router.Use(middleware.NewTimeout(30 * time.Second).Handler)
	router.Use(middleware.Metrics(envCfg.ServiceName, metricsRecorder))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Mount("/v1", handler.Routes())

	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
	}

	go func() {
		log.Printf("%s listening on %s", envCfg.ServiceName, *addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := application.Stop(shutdownCtx); err != nil {
		log.Printf("application stop: %v", err)
	}
}
