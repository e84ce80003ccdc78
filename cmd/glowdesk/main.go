package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/glowdesk/glowdesk/internal/booking"
	"github.com/glowdesk/glowdesk/internal/handlers"
	"github.com/glowdesk/glowdesk/internal/outbox"
	"github.com/glowdesk/glowdesk/internal/storage"
	"github.com/glowdesk/glowdesk/libs/config"
	"github.com/glowdesk/glowdesk/libs/db"
	"github.com/glowdesk/glowdesk/libs/httpx"
	"github.com/glowdesk/glowdesk/libs/kafkax"
	otelx "github.com/glowdesk/glowdesk/libs/otel"
	"github.com/glowdesk/glowdesk/libs/runtime"
)

func main() {
	service := config.String("SERVICE_NAME", "glowdesk")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}

	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	outboxRepo := outbox.NewRepository(pool)
	scheduleRepo := storage.NewScheduleRepository(pool)
	appointmentRepo := storage.NewAppointmentRepository(pool, outboxRepo)
	svc := booking.NewService(scheduleRepo, appointmentRepo)

	kafkaBrokers := config.String("KAFKA_BROKERS", "")
	if kafkaBrokers != "" {
		publisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
			Brokers:   kafkaBrokers,
			PollEvery: config.Duration("OUTBOX_POLL_INTERVAL", 2*time.Second),
			BatchSize: config.Int("OUTBOX_BATCH_SIZE", 50),
		})
		go publisher.Run(ctx)
	} else {
		logger.Warn("KAFKA_BROKERS not set; outbox events will accumulate unpublished")
	}

	readyChecks := []runtime.ReadyCheck{
		{Name: "db", Check: db.ReadyCheck(pool)},
	}
	if kafkaBrokers != "" {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(kafkaBrokers)})
	}

	// Public endpoints are rate limited per client. With Redis the window is
	// shared across replicas; without it each replica counts on its own.
	rateLimit := config.Int("RATE_LIMIT_REQUESTS", 60)
	rateWindow := config.Duration("RATE_LIMIT_WINDOW", time.Minute)
	var publicLimit httpx.Middleware
	if redisAddr := config.String("REDIS_ADDR", ""); redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		defer func() { _ = rdb.Close() }()
		limiter := httpx.NewRedisRateLimiter(rdb, rateLimit, rateWindow, service)
		publicLimit = limiter.Middleware(logger, true)
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "redis", Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	} else {
		publicLimit = httpx.NewRateLimiter(rateLimit, rateWindow).Middleware()
	}

	bookingHandler := handlers.NewBookingHandler(svc, logger)
	adminHandler := handlers.NewAdminHandler(scheduleRepo, logger)

	mux := runtime.NewBaseMuxWithReady(readyChecks...)

	public := func(h http.HandlerFunc) http.Handler {
		return publicLimit(h)
	}
	mux.Handle("/api/v1/slots", public(bookingHandler.Slots))
	mux.Handle("/api/v1/appointments/book", public(bookingHandler.Create))
	mux.HandleFunc("/api/v1/appointments", bookingHandler.List)
	mux.HandleFunc("/api/v1/appointments/cancel", bookingHandler.Cancel)
	mux.HandleFunc("/api/v1/appointments/status", bookingHandler.UpdateStatus)
	mux.HandleFunc("/api/v1/appointments/archive", bookingHandler.Archive)

	mux.HandleFunc("/api/v1/admin/locations", adminHandler.Locations)
	mux.HandleFunc("/api/v1/admin/hours", adminHandler.Hours)
	mux.HandleFunc("/api/v1/admin/staff", adminHandler.Staff)
	mux.HandleFunc("/api/v1/admin/availability", adminHandler.Availability)
	mux.HandleFunc("/api/v1/admin/time-off", adminHandler.TimeOff)
	mux.HandleFunc("/api/v1/admin/services", adminHandler.Services)

	cors := httpx.CORSPolicy{
		AllowedOrigins: strings.Split(config.String("CORS_ALLOWED_ORIGINS", ""), ","),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "X-Location-Id", "X-Request-Id"},
		MaxAge:         10 * time.Minute,
	}
	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithCORS(cors),
		httpx.WithBodyLimit(1<<20),
		httpx.WithTimeout(config.Duration("REQUEST_TIMEOUT", 30*time.Second)),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, service)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
