// checkmate-api serves the community-note generation API. Configuration is
// taken from the environment:
//
//	PORT                 listen port (default 8080)
//	GEMINI_API_KEY       Gemini API key (falls back to GOOGLE_API_KEY)
//	SEARCH_ENDPOINT      URL of the web search service
//	SCREENSHOT_ENDPOINT  URL of the screenshot capture service
//	LOG_LEVEL            debug | info | warn | error (default info)
//	LOG_FORMAT           json | text (default json)
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	checkmate "github.com/bettersg/checkmate-agent"
	"github.com/bettersg/checkmate-agent/logging"
	"github.com/bettersg/checkmate-agent/model/gemini"
	"github.com/bettersg/checkmate-agent/server"
	"github.com/bettersg/checkmate-agent/store"
	"github.com/bettersg/checkmate-agent/tool"
	"github.com/bettersg/checkmate-agent/tools"
)

func main() {
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:   parseLevel(os.Getenv("LOG_LEVEL")),
		Format:  envOr("LOG_FORMAT", "json"),
		Service: "checkmate-api",
	})

	ctx := context.Background()

	llm, err := gemini.NewModel(ctx, func(o *gemini.Options) {
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			o.APIKey = key
		}
	})
	if err != nil {
		logger.Error("startup.model", "error", err.Error())
		os.Exit(1)
	}

	artifacts := store.NewArtifactStore()
	checks := store.NewCheckStore()

	registry := tool.MustNewRegistry(
		tools.NewInferIntentTool(),
		tools.NewPlanNextStepTool(),
		tools.NewSearchGoogleTool(tools.NewHTTPSearcher(envOr("SEARCH_ENDPOINT", "http://localhost:8081/search"))),
		tools.NewScreenshotTool(tools.NewHTTPCapturer(envOr("SCREENSHOT_ENDPOINT", "http://localhost:8082/screenshot")), artifacts),
		tools.NewSubmitReportTool(tools.NewReviewer(llm)),
	)

	checker := checkmate.NewChecker(llm, registry, tools.NewSummariser(llm), func(o *checkmate.Options) {
		o.Logger = logger
	})

	srv := server.New(checker, checks, artifacts, func(o *server.Options) {
		o.Logger = logger
	})

	addr := ":" + envOr("PORT", "8080")
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// Agent runs routinely take minutes; no write timeout.
	}

	go func() {
		logger.Info("startup.listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server.failed", "error", err.Error())
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutdown.begin")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown.error", "error", err.Error())
	}
	logger.Info("shutdown.complete")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLevel(s string) logging.LogLevel {
	switch s {
	case "debug":
		return logging.LogLevelDebug
	case "warn":
		return logging.LogLevelWarn
	case "error":
		return logging.LogLevelError
	default:
		return logging.LogLevelInfo
	}
}
