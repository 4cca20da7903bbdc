package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/shoplite/storeassist/internal/config"
	"github.com/shoplite/storeassist/internal/db"
	dbRedis "github.com/shoplite/storeassist/internal/db/redis"
	"github.com/shoplite/storeassist/internal/domain"
	domret "github.com/shoplite/storeassist/internal/domain/retrieval"
	logpkg "github.com/shoplite/storeassist/internal/logger"
	"github.com/shoplite/storeassist/internal/metrics"
	"github.com/shoplite/storeassist/internal/repository/embcache"
	chiTransport "github.com/shoplite/storeassist/internal/transport/chi"
	openaiT "github.com/shoplite/storeassist/internal/transport/openai"
	answeruc "github.com/shoplite/storeassist/internal/usecase/answer"
	healthuc "github.com/shoplite/storeassist/internal/usecase/health"
	indexeruc "github.com/shoplite/storeassist/internal/usecase/indexer"
	retrievaluc "github.com/shoplite/storeassist/internal/usecase/retrieval"
	"github.com/shoplite/storeassist/internal/version"
)

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting storeassist API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("strategy", cfg.Retrieval.Strategy),
	)

	ctx := context.Background()

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRetrievalMetrics()

	// Optional embedding cache backend
	var store db.Store
	if len(cfg.Cache.Addrs) > 0 {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to embedding cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// Embedder chain: OpenAI -> Cached. Built only for the vector strategy.
	var queryEmbedder retrievaluc.Embedder
	var batchEmbedder domain.BatchEmbedder
	var embChecker healthuc.EmbeddingChecker
	if cfg.Retrieval.Strategy == "vector" {
		base := openaiT.NewEmbedder(&openaiT.EmbedderConfig{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Provider:   "openai",
			Logger:     logger,
		})
		embChecker = base

		queryEmbedder, batchEmbedder = base, base
		if store != nil {
			cached := embcache.New(base, store,
				time.Duration(cfg.Cache.TTLHours)*time.Hour, metrics.EmbeddingCacheTotal, logger)
			queryEmbedder, batchEmbedder = cached, cached
		}
		logger.Info("Embedder created",
			zap.String("model", cfg.Embedding.Model),
			zap.Int("dimensions", cfg.Embedding.Dimensions),
			zap.Bool("cached", store != nil),
		)
	}

	// Initial knowledge snapshot. A failed build is fatal: the service is
	// useless without its knowledge base.
	indexerSvc := indexeruc.New(cfg.Knowledge.Path, batchEmbedder, logger)
	snapshot, err := indexerSvc.Build(ctx)
	if err != nil {
		logger.Fatal("Failed to build knowledge index", zap.Error(err))
	}

	var strategy retrievaluc.Strategy
	switch cfg.Retrieval.Strategy {
	case "vector":
		strategy = retrievaluc.NewVectorStrategy(queryEmbedder, *cfg.Retrieval.VectorThreshold,
			domret.Calibration{High: *cfg.Retrieval.VectorHigh, Medium: *cfg.Retrieval.VectorMedium})
	case "keyword":
		strategy = retrievaluc.NewKeywordStrategy(*cfg.Retrieval.KeywordThreshold,
			domret.Calibration{High: *cfg.Retrieval.KeywordHigh, Medium: *cfg.Retrieval.KeywordMedium})
	default:
		logger.Fatal("Unknown retrieval strategy",
			zap.String("strategy", cfg.Retrieval.Strategy), zap.Error(domain.ErrUnknownStrategy))
	}

	expander := retrievaluc.NewExpander(
		retrievaluc.DefaultSynonyms(), retrievaluc.DefaultPhrasings(), cfg.Retrieval.MaxCandidates)
	engine := retrievaluc.New(strategy, expander, snapshot, cfg.Retrieval.TopK, logger)

	// Generation backend is optional; replies degrade to canned text without it.
	var generator answeruc.Generator
	if g := openaiT.NewGenerator(&openaiT.GeneratorConfig{
		APIKey:  cfg.Generation.APIKey,
		BaseURL: cfg.Generation.BaseURL,
		Model:   cfg.Generation.Model,
		Timeout: time.Duration(cfg.Generation.TimeoutSec) * time.Second,
		Logger:  logger,
	}); g != nil {
		generator = g
	} else {
		logger.Warn("No generation API key configured, chat replies will degrade")
	}

	answerSvc := answeruc.NewService(engine, generator, cfg.Generation.MaxTokensLimit, logger)

	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(cachePinger, embChecker, engine)

	server := chiTransport.NewServer(
		answerSvc, indexeruc.Bind(indexerSvc, engine), healthSvc,
		cfg.Service.Name, cfg.Generation.Model, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
