package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/katakuxiko/promptforms/internal/api"
	"github.com/katakuxiko/promptforms/internal/config"
	"github.com/katakuxiko/promptforms/internal/metrics"
	"github.com/katakuxiko/promptforms/internal/service"
	"github.com/katakuxiko/promptforms/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// .env is optional
	envErr := godotenv.Load()

	// config
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)
	if envErr != nil && !os.IsNotExist(envErr) {
		log.Warn("could not read .env", "error", envErr)
	}

	// services
	llm := service.NewLLMClient(cfg, nil)
	runner := service.NewRunner(llm, service.RunnerOptions{
		CredentialPrefix: cfg.CredentialPrefix,
		MapConcurrency:   cfg.MapConcurrency,
		Timeout:          cfg.RequestTimeout,
		Logger:           log,
		Metrics:          metrics.NewFormMetrics(prometheus.DefaultRegisterer),
	})

	// api
	app := api.NewApp(cfg.MaxUploadBytes, log)
	api.RegisterRoutes(app, api.NewHandler(runner, llm, cfg.CredentialPrefix, log), prometheus.DefaultGatherer)

	log.Info("server started", "addr", cfg.ServerAddr, "base_url", cfg.BaseURL, "model", cfg.CompletionModel, "api", cfg.CompletionAPI)
	if err := app.Listen(cfg.ServerAddr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
