package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	pushDelivery "collab-notify/internal/push/delivery"
	pushUsecase "collab-notify/internal/push/usecase"
	triggerDelivery "collab-notify/internal/trigger/delivery"
	"collab-notify/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Handler struct {
	eventHandler *triggerDelivery.EventHandler
	pushUsecase  pushUsecase.PushUsecase
	verifier     pushDelivery.TokenVerifier
	config       *config.Config
	log          zerolog.Logger
}

func NewHandler(eventHandler *triggerDelivery.EventHandler, pushUc pushUsecase.PushUsecase, verifier pushDelivery.TokenVerifier, cfg *config.Config, log zerolog.Logger) *Handler {
	return &Handler{
		eventHandler: eventHandler,
		pushUsecase:  pushUc,
		verifier:     verifier,
		config:       cfg,
		log:          log.With().Str("component", "http").Logger(),
	}
}

// Engine builds the gin engine with all routes.
func (h *Handler) Engine() *gin.Engine {
	gin.SetMode(h.config.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())

	SetupRoutes(r, h.eventHandler, h.pushUsecase, h.verifier)
	return r
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		h.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

// Serve runs srv until ctx is done or the listener fails, then shuts it down
// gracefully. It returns the listener error, if any, instead of exiting so
// callers still run their deferred cleanup.
func Serve(ctx context.Context, srv *http.Server, log zerolog.Logger) error {
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-serverErr:
		runErr = fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	return runErr
}
