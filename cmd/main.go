package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/sbilibin2017/gw-expense-tracker/docs"
	"github.com/sbilibin2017/gw-expense-tracker/internal/handlers"
	"github.com/sbilibin2017/gw-expense-tracker/internal/health"
	"github.com/sbilibin2017/gw-expense-tracker/internal/jwt"
	"github.com/sbilibin2017/gw-expense-tracker/internal/logger"
	"github.com/sbilibin2017/gw-expense-tracker/internal/middlewares"
	"github.com/sbilibin2017/gw-expense-tracker/internal/migrations"
	"github.com/sbilibin2017/gw-expense-tracker/internal/repositories"
	"github.com/sbilibin2017/gw-expense-tracker/internal/services"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// config holds every setting read from the environment.
type config struct {
	AppHost  string
	AppPort  string
	GRPCPort string
	LogLevel string

	PGHost         string
	PGPort         int
	PGUser         string
	PGPassword     string
	PGDB           string
	PGMaxOpenConns int
	PGMaxIdleConns int

	RedisHost         string
	RedisPort         int
	RedisDB           int
	RedisPassword     string
	RedisPoolSize     int
	RedisMinIdleConns int

	AnalyticsCacheTTL   time.Duration
	BulkConcurrency     int
	HealthCheckInterval time.Duration

	RateLimitWindow  time.Duration
	RateLimitMax     int64
	RateLimitAuthMax int64

	KafkaBrokers []string
	KafkaTopic   string

	JWTSecretKey  string
	JWTExpiration time.Duration
}

// @title gw-expense-tracker API
// @version 1.0.0
// @description Expense tracker with offline-first sync and spending analytics
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service. Version: %s, Commit: %s, Build: %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns the
// application, database, Redis, Kafka, rate limiting and JWT configuration.
func parseConfig(path string) (cfg config, err error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}
	getInt := func(key, defaultValue string, dst *int) {
		if err != nil {
			return
		}
		if *dst, err = strconv.Atoi(getEnv(key, defaultValue)); err != nil {
			err = fmt.Errorf("%s: %w", key, err)
		}
	}
	getSeconds := func(key, defaultValue string, dst *time.Duration) {
		var n int
		getInt(key, defaultValue, &n)
		*dst = time.Duration(n) * time.Second
	}

	// Application config
	cfg.AppHost = getEnv("APP_HOST", "localhost")
	cfg.AppPort = getEnv("APP_PORT", "8080")
	cfg.GRPCPort = getEnv("GRPC_PORT", "50051")
	cfg.LogLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	cfg.PGHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.PGUser = getEnv("POSTGRES_USER", "user")
	cfg.PGPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.PGDB = getEnv("POSTGRES_DB", "database")
	getInt("POSTGRES_PORT", "5432", &cfg.PGPort)
	getInt("POSTGRES_MAX_OPEN_CONNS", "16", &cfg.PGMaxOpenConns)
	getInt("POSTGRES_MAX_IDLE_CONNS", "8", &cfg.PGMaxIdleConns)

	// Redis config
	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	getInt("REDIS_PORT", "6379", &cfg.RedisPort)
	getInt("REDIS_DB", "0", &cfg.RedisDB)
	getInt("REDIS_POOL_SIZE", "10", &cfg.RedisPoolSize)
	getInt("REDIS_MIN_IDLE_CONNS", "2", &cfg.RedisMinIdleConns)

	// Service tuning
	getSeconds("ANALYTICS_CACHE_TTL_SECOND", "300", &cfg.AnalyticsCacheTTL)
	getInt("BULK_INSERT_CONCURRENCY", "8", &cfg.BulkConcurrency)
	getSeconds("HEALTH_CHECK_INTERVAL_SECOND", "15", &cfg.HealthCheckInterval)

	// Rate limiting config
	var rateMax, rateAuthMax int
	getSeconds("RATE_LIMIT_WINDOW_SECOND", "900", &cfg.RateLimitWindow)
	getInt("RATE_LIMIT_MAX", "100", &rateMax)
	getInt("RATE_LIMIT_AUTH_MAX", "50", &rateAuthMax)
	cfg.RateLimitMax = int64(rateMax)
	cfg.RateLimitAuthMax = int64(rateAuthMax)

	// Kafka config
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", "expense-tracker.transactions")

	// JWT config
	cfg.JWTSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	getSeconds("JWT_EXP_SECOND", "86400", &cfg.JWTExpiration)

	return cfg, err
}

// dsn returns the PostgreSQL connection string.
func (c config) dsn() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDB)
}

// run initializes the logger, database, Redis, Kafka, health and HTTP servers.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	decimal.MarshalJSONWithoutQuotes = true

	// Apply migrations and connect to PostgreSQL
	logger.Log.Infof("Connecting to PostgreSQL at %s:%d/%s", cfg.PGHost, cfg.PGPort, cfg.PGDB)
	if err := migrations.Up(cfg.dsn()); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.dsn())
	if err != nil {
		return fmt.Errorf("postgres connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.PGMaxOpenConns)
	db.SetMaxIdleConns(cfg.PGMaxIdleConns)

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection error: %w", err)
	}
	defer rdb.Close()

	// Kafka producer, disabled without brokers
	var kafkaWriter services.KafkaWriter
	if len(cfg.KafkaBrokers) > 0 {
		w := &kafka.Writer{
			Addr:                   kafka.TCP(cfg.KafkaBrokers...),
			Topic:                  cfg.KafkaTopic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			Async:                  true,
		}
		defer w.Close()
		kafkaWriter = w
		logger.Log.Infow("Kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Log.Warn("KAFKA_BROKERS is empty, transaction events are not published")
	}

	// Health server
	healthSrv := health.New(fmt.Sprintf("%s:%s", cfg.AppHost, cfg.GRPCPort), cfg.HealthCheckInterval, map[string]health.Check{
		"postgres": health.DBCheck(db),
		"redis":    health.RedisCheck(rdb),
	})

	docs.SwaggerInfo.Host = fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort)
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler: newRouter(cfg, db, rdb, kafkaWriter),
	}

	// Graceful shutdown
	errChan := make(chan error, 2)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go healthSrv.Watch(ctxShutdown)

	go func() {
		logger.Log.Infof("gRPC health server listening on %s:%s", cfg.AppHost, cfg.GRPCPort)
		if err := healthSrv.Start(); err != nil {
			errChan <- fmt.Errorf("gRPC health server failed: %w", err)
		}
	}()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.AppHost, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping servers...")
	case serveErr = <-errChan:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}
	healthSrv.Stop()

	logger.Log.Info("Servers stopped gracefully")
	return serveErr
}

// newRouter wires repositories, services and handlers into the HTTP API.
func newRouter(cfg config, db *sqlx.DB, rdb *redis.Client, kafkaWriter services.KafkaWriter) http.Handler {
	tokens := jwt.New(jwt.WithSecretKey(cfg.JWTSecretKey), jwt.WithExpiration(cfg.JWTExpiration))

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	txReadRepo := repositories.NewTransactionReadRepository(db)
	txWriteRepo := repositories.NewTransactionWriteRepository(db, cfg.BulkConcurrency)
	categoryRepo := repositories.NewCategoryRepository(db)
	analyticsRepo := repositories.NewAnalyticsRepository(db)
	analyticsCache := repositories.NewAnalyticsCacheRepository(rdb, cfg.AnalyticsCacheTTL)
	rateLimitRepo := repositories.NewRateLimitRepository(rdb)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, tokens)
	txService := services.NewTransactionService(txReadRepo, txWriteRepo, analyticsCache, kafkaWriter)
	syncService := services.NewSyncService(txReadRepo, txWriteRepo, analyticsCache, kafkaWriter)
	analyticsService := services.NewAnalyticsService(analyticsRepo, analyticsCache)
	categoryService := services.NewCategoryService(categoryRepo)

	authMiddleware := middlewares.AuthMiddleware(tokens)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware)
	r.Use(middlewares.RateLimitMiddleware(rateLimitRepo, middlewares.RateLimit{
		Scope:   "global",
		Limit:   cfg.RateLimitMax,
		Window:  cfg.RateLimitWindow,
		Message: middlewares.TooManyRequestsMessage,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middlewares.RateLimitMiddleware(rateLimitRepo, middlewares.RateLimit{
				Scope:   "auth",
				Limit:   cfg.RateLimitAuthMax,
				Window:  cfg.RateLimitWindow,
				Message: middlewares.TooManyAuthRequestsMessage,
			}))
			r.Post("/register", handlers.NewRegisterHandler(authService))
			r.Post("/login", handlers.NewLoginHandler(authService))
			r.With(authMiddleware).Get("/me", handlers.NewMeHandler(authService))
		})

		// Protected routes with JWT middleware
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Get("/transactions", handlers.NewListTransactionsHandler(txService))
			r.Post("/transactions", handlers.NewCreateTransactionHandler(txService))
			r.Get("/transactions/{id}", handlers.NewGetTransactionHandler(txService))
			r.Put("/transactions/{id}", handlers.NewUpdateTransactionHandler(txService))
			r.Delete("/transactions/{id}", handlers.NewDeleteTransactionHandler(txService))

			r.Post("/sync/transactions", handlers.NewBulkCreateHandler(syncService))
			r.Put("/sync/transactions", handlers.NewBulkUpdateHandler(syncService))
			r.Get("/sync/unsynced", handlers.NewUnsyncedHandler(syncService))
			r.Patch("/sync/mark-synced", handlers.NewMarkSyncedHandler(syncService))
			r.Get("/sync/status", handlers.NewSyncStatusHandler(syncService))

			r.Get("/analytics/summary", handlers.NewSummaryHandler(analyticsService))
			r.Get("/analytics/categories", handlers.NewCategoryBreakdownHandler(analyticsService))
			r.Get("/analytics/trends", handlers.NewTrendsHandler(analyticsService))

			r.Get("/categories", handlers.NewListCategoriesHandler(categoryService))
			r.Post("/categories", handlers.NewCreateCategoryHandler(categoryService))
			r.Get("/categories/{id}", handlers.NewGetCategoryHandler(categoryService))
			r.Put("/categories/{id}", handlers.NewRenameCategoryHandler(categoryService))
			r.Delete("/categories/{id}", handlers.NewDeleteCategoryHandler(categoryService))
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.AppHost, cfg.AppPort)),
	))

	return r
}
