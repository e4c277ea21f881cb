package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/ssn-relay/internal/config"
)

// NewServer builds the ingress HTTP server. Every path accepts POSTed chat
// events; /health and /metrics answer GET.
func NewServer(relay EventRelay, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           NewRouter(relay, cfg, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// NewRouter builds the gin engine behind NewServer.
func NewRouter(relay EventRelay, cfg config.Config, logger *zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(RequestIDMiddleware(), RecoveryMiddleware(logger), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)
	if cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	events := NewEventHandlers(relay, cfg.MaxBodyBytes, logger)
	router.NoRoute(events.Ingest)

	return router
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
