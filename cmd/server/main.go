package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/reviewhub/xmpp-relay/internal/api"
	"github.com/reviewhub/xmpp-relay/internal/config"
	"github.com/reviewhub/xmpp-relay/internal/dispatch"
	"github.com/reviewhub/xmpp-relay/internal/metrics"
	"github.com/reviewhub/xmpp-relay/internal/xmpp"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	// ---- configuration ----
	srvCfg := config.LoadServer()

	// Settings are re-read per dispatch through config.Env; validating once
	// here rejects a broken deployment at startup instead of at first event.
	if _, err := config.LoadSettings(); err != nil {
		logger.Fatal("invalid notification settings", zap.Error(err))
	}
	settings := config.Env{}

	// ---- core dependencies ----
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	courier := xmpp.NewCourier(xmpp.NetDialer{}, logger, m.CourierHooks())
	dispatcher := dispatch.New(settings, courier, logger, m.DispatchHooks())

	// ---- HTTP server ----
	router := api.NewRouter(dispatcher, settings, reg, logger)
	srv := &http.Server{
		Addr:         ":" + srvCfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  srvCfg.ReadTimeout,
		WriteTimeout: srvCfg.WriteTimeout,
	}

	// Start server in a goroutine so it does not block the shutdown listener.
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ---- graceful shutdown ----
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	// In-flight dispatches finish within the server write timeout; sessions
	// are one-shot, so there is nothing else to drain.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), srvCfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped cleanly")
}
