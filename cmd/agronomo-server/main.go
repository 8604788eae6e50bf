package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	appconversation "agronomo-ia/internal/app/conversation"
	"agronomo-ia/internal/config"
	"agronomo-ia/internal/logging"
	"agronomo-ia/internal/observability"
	"agronomo-ia/internal/store"
	"agronomo-ia/internal/tavus"
	httptransport "agronomo-ia/internal/transport/http"
	"agronomo-ia/internal/ws"

	"github.com/rs/zerolog/log"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)
	defer func() { _ = logging.Close() }()

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("load server config failed")
	}
	tavusCfg, err := config.LoadTavus()
	if err != nil {
		log.Fatal().Err(err).Msg("load tavus config failed")
	}
	if missing := tavusCfg.Missing(); len(missing) > 0 {
		log.Warn().Str("missing", strings.Join(missing, ",")).Msg("tavus not fully configured; conversation attempts will fail")
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)
	client := tavus.NewClient(tavusCfg)

	var (
		attempts appconversation.AttemptStore
		pinger   httptransport.Pinger
		st       *store.Store
	)
	if cfg.PostgresDSN != "" {
		st, err = store.New(context.Background(), cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("store init failed")
		}
		if err := st.Ping(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("db ping failed")
		}
		if cfg.MigrateOnStart {
			if err := st.Migrate(context.Background()); err != nil {
				log.Fatal().Err(err).Msg("migrate failed")
			}
		}
		attempts = st
		pinger = st
	} else {
		log.Info().Msg("POSTGRES_DSN not set; attempt history disabled")
	}

	svc := appconversation.NewService(client, attempts, metrics)
	wsSrv := ws.NewServer(svc.Starter(appconversation.SourceWS), metrics, cfg.AllowAnyOrigin)

	r := httptransport.NewRouter(cfg, httptransport.Deps{
		Service:    svc,
		Store:      pinger,
		Metrics:    metrics,
		WS:         wsSrv,
		Configured: client.Configured,
	})
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	wsSrv.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		_ = server.Close()
	}
	if st != nil {
		st.Close()
	}
	log.Info().Msg("shutdown complete")
}
