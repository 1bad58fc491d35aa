package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BerylCAtieno/binko-idea-agent/internal/a2a"
	"github.com/BerylCAtieno/binko-idea-agent/internal/api"
	"github.com/BerylCAtieno/binko-idea-agent/internal/config"
	"github.com/BerylCAtieno/binko-idea-agent/internal/generator"
	"github.com/BerylCAtieno/binko-idea-agent/internal/llm"
	"github.com/BerylCAtieno/binko-idea-agent/internal/store"
	"github.com/BerylCAtieno/binko-idea-agent/internal/validation"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the A2A agent endpoint",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sqlStore, err := store.Open(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer sqlStore.Close()

	if err := sqlStore.EnsureSchema(ctx); err != nil {
		return err
	}
	ideas := store.NewCachedStore(sqlStore, cfg.Generation.CacheSize, cfg.Generation.CacheTTL)

	invoker, closeClient, err := newInvoker(ctx, cfg.LLM, cfg.Generation)
	if err != nil {
		return err
	}
	defer closeClient()

	policy := validation.DefaultPolicy()
	if cfg.Generation.PolicyFile != "" {
		policy, err = validation.LoadPolicyFile(cfg.Generation.PolicyFile)
		if err != nil {
			return err
		}
		logger.Info("Loaded validation policy", zap.String("path", cfg.Generation.PolicyFile))
	}

	service := generator.NewService(ideas, invoker, policy, generator.Config{
		MaxAttempts:    cfg.Generation.MaxAttempts,
		CandidateLimit: cfg.Generation.CandidateLimit,
	}, logger)

	gin.SetMode(cfg.Server.GinMode)
	router := api.NewRouter(api.Options{
		CORSOrigins:        cfg.Server.CORSOrigins,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
	}, ideas, service, logger)
	a2a.NewHandler(service, logger).Register(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Binko.ai starting",
			zap.String("port", cfg.Server.Port),
			zap.String("environment", cfg.Environment),
			zap.String("agent_card", fmt.Sprintf("http://localhost:%s/.well-known/agent.json", cfg.Server.Port)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newInvoker selects the model backend. With no credential the returned
// invoker is nil and every request is served by the fallback generator.
func newInvoker(ctx context.Context, llmCfg config.LLMConfig, genCfg config.GenerationConfig) (generator.Invoker, func(), error) {
	noop := func() {}
	if llmCfg.APIKey == "" {
		logger.Warn("No model API key configured, serving fallback ideas only")
		return nil, noop, nil
	}

	var client llm.Client
	closeClient := noop
	switch llmCfg.Provider {
	case config.ProviderGemini:
		gemini, err := llm.NewGeminiClient(ctx, llmCfg.APIKey, llmCfg.Model)
		if err != nil {
			return nil, noop, err
		}
		client = gemini
		closeClient = func() { _ = gemini.Close() }
	default:
		client = llm.NewOpenAIClient(llmCfg.APIKey, llmCfg.BaseURL, llmCfg.Model, llmCfg.Timeout)
	}

	logger.Info("Model backend configured",
		zap.String("provider", client.Name()),
		zap.String("model", llmCfg.Model))

	invoker := llm.NewInvoker(client, logger,
		llm.WithMaxRetries(genCfg.ModelRetries),
		llm.WithSampling(llmCfg.Temperature, llmCfg.MaxTokens))
	return invoker, closeClient, nil
}
