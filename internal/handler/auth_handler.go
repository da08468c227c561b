package handler

import (
	"crypto/subtle"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/survival-companion/backend-go/pkg/auth"
	"github.com/survival-companion/backend-go/pkg/logger"
	"github.com/survival-companion/backend-go/pkg/response"
)

// TokenRequest pairs a client device using the code shown on the handheld
type TokenRequest struct {
	PairingCode string `json:"pairing_code" binding:"required"`
	DeviceName  string `json:"device_name"`
}

// TokenResponse is an issued device token
type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	DeviceID  string    `json:"device_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthHandler issues device tokens
type AuthHandler struct {
	jwt         *auth.JWTService
	pairingCode string
	log         *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(jwt *auth.JWTService, pairingCode string, log *logger.Logger) *AuthHandler {
	return &AuthHandler{jwt: jwt, pairingCode: pairingCode, log: log.WithComponent("auth")}
}

// IssueToken handles POST /api/v1/auth/token
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "pairing_code is required")
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.PairingCode), []byte(h.pairingCode)) != 1 {
		h.log.Warn("Pairing rejected", zap.String("client_ip", c.ClientIP()))
		response.Unauthorized(c, "Invalid pairing code")
		return
	}

	deviceID := uuid.NewString()
	token, expiresAt, err := h.jwt.GenerateToken(deviceID, req.DeviceName)
	if err != nil {
		respondError(c, err, nil)
		return
	}

	h.log.Info("Device paired",
		zap.String("device_id", deviceID),
		zap.String("device_name", req.DeviceName),
	)
	response.Created(c, TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		DeviceID:  deviceID,
		ExpiresAt: expiresAt,
	})
}
