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
	"go.uber.org/zap"

	"github.com/prethrift/prethrift/internal/config"
	dbRedis "github.com/prethrift/prethrift/internal/db/redis"
	logpkg "github.com/prethrift/prethrift/internal/logger"
	"github.com/prethrift/prethrift/internal/metrics"
	"github.com/prethrift/prethrift/internal/ontology"
	catalogrepo "github.com/prethrift/prethrift/internal/repository/catalog"
	"github.com/prethrift/prethrift/internal/repository/embcache"
	feedbackrepo "github.com/prethrift/prethrift/internal/repository/feedback"
	chiTransport "github.com/prethrift/prethrift/internal/transport/chi"
	openaiTransport "github.com/prethrift/prethrift/internal/transport/openai"
	feedbackuc "github.com/prethrift/prethrift/internal/usecase/feedback"
	healthuc "github.com/prethrift/prethrift/internal/usecase/health"
	ingestuc "github.com/prethrift/prethrift/internal/usecase/ingest"
	preferenceuc "github.com/prethrift/prethrift/internal/usecase/preference"
	queryuc "github.com/prethrift/prethrift/internal/usecase/query"
	rankinguc "github.com/prethrift/prethrift/internal/usecase/ranking"
	searchuc "github.com/prethrift/prethrift/internal/usecase/search"
	"github.com/prethrift/prethrift/internal/version"
)

func main() {
	// Load configuration based on ENV
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

	logger.Info("Starting prethrift API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("built", version.Date),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.Register()

	// Repositories
	catalogRepo := catalogrepo.New(store)
	feedbackRepo := feedbackrepo.New(store)

	// AI providers. Description embeddings flow through the key-value cache
	// so re-ingesting an unchanged garment skips the provider.
	baseEmbedder := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	embedder := embcache.New(baseEmbedder, store, metrics.CacheTotal, logger)

	extractor := openaiTransport.NewExtractor(&openaiTransport.ExtractorConfig{
		APIKey:   cfg.Extraction.APIKey,
		BaseURL:  cfg.Extraction.BaseURL,
		Model:    cfg.Extraction.Model,
		Provider: cfg.Extraction.Provider,
		Logger:   logger,
	})
	logger.Info("Providers created",
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.String("extraction_model", cfg.Extraction.Model),
	)

	// Ontology classifier, shared by ingestion and query normalization
	classifier := ontology.New(ontology.DefaultVocabulary(), ontology.DefaultSynonyms()).
		WithCacheMetrics(metrics.CacheTotal)

	// Use case services
	parser := queryuc.NewParser(extractor, embedder, classifier, logger).
		WithCacheMetrics(metrics.CacheTotal)
	prefSvc := preferenceuc.New(feedbackRepo, feedbackRepo, catalogRepo, logger)
	engine := rankinguc.New(rankingWeights(cfg.Ranking))
	searchSvc := searchuc.New(parser, prefSvc, catalogRepo, engine)
	feedbackSvc := feedbackuc.New(catalogRepo, feedbackRepo, prefSvc, logger)
	ingestSvc := ingestuc.New(classifier, embedder, catalogRepo, logger)
	healthSvc := healthuc.New(store, baseEmbedder, extractor)

	// Create chi server
	server := chiTransport.NewServer(
		searchSvc, feedbackSvc, ingestSvc,
		catalogRepo, extractor, classifier, parser, healthSvc,
		logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

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

// rankingWeights maps the config section onto the engine's weight set.
func rankingWeights(rc config.RankingConfig) rankinguc.Weights {
	return rankinguc.Weights{
		TextSimilarity:   rc.TextSimilarity,
		AttributeOverlap: rc.AttributeOverlap,
		PreferenceWeight: rc.PreferenceWeight,
		PositiveProfile:  rc.PositiveProfile,
		NegativePenalty:  rc.NegativePenalty,
	}
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
