package api

import (
	"net/http"

	pushDelivery "collab-notify/internal/push/delivery"
	pushUsecase "collab-notify/internal/push/usecase"
	triggerDelivery "collab-notify/internal/trigger/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, eventHandler *triggerDelivery.EventHandler, pushUsecase pushUsecase.PushUsecase, verifier pushDelivery.TokenVerifier) {
	tokenHandler := pushDelivery.NewTokenHandler(pushUsecase)

	// Eventarc push target for Firestore document events
	r.POST("/events", eventHandler.Receive)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// FCM routes (protected)
		fcm := api.Group("/fcm")
		fcm.Use(pushDelivery.AuthMiddleware(verifier))
		{
			fcm.POST("/register", tokenHandler.RegisterToken)
			fcm.DELETE("/devices/:deviceId", tokenHandler.UnregisterDevice)
		}
	}
}
