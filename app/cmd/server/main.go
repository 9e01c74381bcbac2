package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"emailcomposer/app/config"
	"emailcomposer/app/usecase"
	"emailcomposer/internal/infrastructure/llm"
	"emailcomposer/internal/infrastructure/mail"
	"emailcomposer/internal/infrastructure/metrics"
	"emailcomposer/internal/infrastructure/transport"
)

func main() {
	// logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// load config
	if err := config.LoadDotEnv(); err != nil {
		logger.Warn("dotenv load failed", "err", err)
	}
	cfg, err := config.Load(os.Getenv(config.EnvConfigFile))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logConfig(logger, cfg)

	// LLM client
	llmClient := llm.NewOpenAIGenerator(
		cfg.LLM.APIKey,
		cfg.LLM.BaseURL,
		cfg.LLM.Model,
		cfg.LLM.Temperature,
		cfg.LLM.Timeout,
		logger,
	)

	// Mail relay
	mailer := mail.NewSMTPSender(mail.SMTPConfig{
		Host:        cfg.Mail.Host,
		Port:        cfg.Mail.Port,
		Username:    cfg.Mail.User,
		Password:    cfg.Mail.Password,
		InsecureTLS: cfg.Mail.InsecureTLS,
		Timeout:     cfg.Mail.Timeout,
	}, logger)

	emailSvc := usecase.NewEmailService(llmClient, mailer, cfg.Mail.User, logger)

	// Transport (HTTP handlers)
	handler := transport.NewEmailHandler(emailSvc, logger, prometheus.DefaultRegisterer)

	// Router and server
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	metricsSrv := metrics.NewServer(cfg.Metrics.Addr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		logger.Info("starting metrics server", "addr", metricsSrv.Addr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "err", err)
		}
	}()

	// Start HTTP server
	go func() {
		logger.Info("starting HTTP server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "err", err)
			cancel()
		}
	}()

	// OS signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutdown signal received")
	case <-ctx.Done():
		logger.Info("context cancelled")
	}

	// Shutdown sequence
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown error", "err", err)
	}

	logger.Info("service stopped")
}

// logConfig reports which settings are present without printing secrets.
func logConfig(logger *slog.Logger, cfg config.Config) {
	logger.Info("configuration loaded",
		"llm_base_url", cfg.LLM.BaseURL,
		"llm_model", cfg.LLM.Model,
		"llm_api_key_set", cfg.LLM.APIKey != "",
		"mail_user", cfg.Mail.User,
		"mail_password_set", cfg.Mail.Password != "",
		"smtp", fmt.Sprintf("%s:%d", cfg.Mail.Host, cfg.Mail.Port),
		"smtp_timeout", cfg.Mail.Timeout,
	)
	for _, key := range cfg.Missing() {
		logger.Warn("required setting missing; calls that need it will fail", "env", key)
	}
}
