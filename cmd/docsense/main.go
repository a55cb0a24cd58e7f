package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docsense/internal/config"
	"github.com/kailas-cloud/docsense/internal/domain/analysis"
	"github.com/kailas-cloud/docsense/internal/domain/text"
	logpkg "github.com/kailas-cloud/docsense/internal/logger"
	"github.com/kailas-cloud/docsense/internal/metrics"
	sessionrepo "github.com/kailas-cloud/docsense/internal/repository/session"
	mcpTransport "github.com/kailas-cloud/docsense/internal/transport/mcp"
	restTransport "github.com/kailas-cloud/docsense/internal/transport/rest"
	analyzeuc "github.com/kailas-cloud/docsense/internal/usecase/analyze"
	classifyuc "github.com/kailas-cloud/docsense/internal/usecase/classify"
	fallbackuc "github.com/kailas-cloud/docsense/internal/usecase/fallback"
	healthuc "github.com/kailas-cloud/docsense/internal/usecase/health"
	searchuc "github.com/kailas-cloud/docsense/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/docsense/internal/usecase/session"
	"github.com/kailas-cloud/docsense/internal/version"
)

func main() {
	stdio := flag.Bool("stdio", false, "serve MCP over stdio instead of HTTP")
	flag.Parse()

	// Load .env if present; real environment wins.
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

	logger.Info("Starting docsense server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("stdio", *stdio),
	)

	// Register engine metrics explicitly (no init())
	metrics.RegisterEngineMetrics()

	// Build services — composition root
	classifier := classifyuc.New().WithMinScore(cfg.Engine.ClassifyMinScore)
	analyzer := analyzeuc.New().WithDefaults(cfg.Engine.SummaryLength, cfg.Engine.WordsPerMinute)
	searcher := searchuc.New()

	store := sessionrepo.New()
	if cfg.Session.MaxDocuments > 0 {
		var policy sessionrepo.Policy = sessionrepo.EvictOldest{}
		if cfg.Session.Eviction == "reject_new" {
			policy = sessionrepo.RejectNew{}
		}
		store = store.WithLimit(cfg.Session.MaxDocuments, policy)
	}

	sessions := sessionuc.New(store, classifier)
	fallback := fallbackuc.New(classifier, analyzer, logger)
	health := healthuc.New(store, engineSelfCheck{classifier: classifier, analyzer: analyzer})

	mcpServer := mcpTransport.NewServer(
		sessions, analyzer, classifier, searcher, fallback, cfg.OwnerNumber, logger,
	).WithSearchDefaults(cfg.Engine.ContextChars, cfg.Engine.MaxHits)

	if *stdio {
		runStdio(mcpServer, logger)
		return
	}

	restServer := restTransport.NewServer(
		sessions, analyzer, classifier, searcher, fallback, health, logger,
	).WithSearchDefaults(cfg.Engine.ContextChars, cfg.Engine.MaxHits)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(restTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	restServer.Routes(r)

	if cfg.MCP.Enabled {
		r.Mount(cfg.MCP.Path, mcpServer.HTTPHandler())
		logger.Info("MCP transport mounted", zap.String("path", cfg.MCP.Path))
	}

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

// runStdio serves MCP tools over stdio until the process is signalled.
func runStdio(server *mcpTransport.Server, logger *zap.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Serving MCP over stdio")
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("MCP stdio server error", zap.Error(err))
	}
	logger.Info("MCP stdio server stopped")
}

// engineSelfCheck exercises the classify and analyze path on a fixed
// probe text so /health catches a broken engine, not just a dead store.
type engineSelfCheck struct {
	classifier *classifyuc.Service
	analyzer   *analyzeuc.Service
}

func (e engineSelfCheck) SelfCheck(_ context.Context) error {
	const probe = "Health probe sentence. It verifies the analysis pipeline answers."

	n := text.Normalize(probe)
	cat, confidence := e.classifier.Classify(&n, probe)
	res, err := e.analyzer.Analyze("", &n, cat, confidence, analysis.Statistics, analyzeuc.Options{})
	if err != nil {
		return fmt.Errorf("engine self check: %w", err)
	}
	if res.Stats().Words == 0 {
		return fmt.Errorf("engine self check: empty stats for non-empty probe")
	}
	return nil
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
