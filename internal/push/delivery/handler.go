package delivery

import (
	"errors"
	"net/http"

	"collab-notify/internal/push/domain"
	"collab-notify/internal/push/usecase"

	"github.com/gin-gonic/gin"
)

type RegisterTokenRequest struct {
	DeviceID string `json:"device_id" binding:"required,max=256"`
	Token    string `json:"token" binding:"required,max=4096"`
	Platform string `json:"platform" binding:"required,oneof=android ios web"`
}

type TokenHandler struct {
	pushUsecase usecase.PushUsecase
}

func NewTokenHandler(pushUsecase usecase.PushUsecase) *TokenHandler {
	return &TokenHandler{pushUsecase: pushUsecase}
}

// RegisterToken stores the caller's device token.
func (h *TokenHandler) RegisterToken(c *gin.Context) {
	var req RegisterTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString(userIDKey)
	if err := h.pushUsecase.RegisterToken(c.Request.Context(), userID, req.DeviceID, req.Token, req.Platform); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "token registered"})
}

// UnregisterDevice removes one of the caller's devices.
func (h *TokenHandler) UnregisterDevice(c *gin.Context) {
	userID := c.GetString(userIDKey)
	if err := h.pushUsecase.UnregisterDevice(c.Request.Context(), userID, c.Param("deviceId")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "device unregistered"})
}

func statusFor(err error) int {
	if errors.Is(err, domain.ErrInvalidDevice) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
