package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ranchprice/internal/service/session"
)

// OperatorHeader identifies the operator owning a session.
const OperatorHeader = "X-Operator-ID"

// SessionHandler exposes per-operator application state.
type SessionHandler struct {
	sessions *session.Manager
	logger   *zap.Logger
}

// NewSessionHandler constructs the session handler.
func NewSessionHandler(sessions *session.Manager, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{sessions: sessions, logger: logger}
}

// Get returns the operator's current state.
func (h *SessionHandler) Get(c *gin.Context) {
	operator, ok := operatorID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.sessions.Get(operator))
}

// SelectRanch records the ranch the operator is working on.
func (h *SessionHandler) SelectRanch(c *gin.Context) {
	operator, ok := operatorID(c)
	if !ok {
		return
	}

	var req struct {
		RanchID string `json:"ranchId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ranchId is required"})
		return
	}

	state := h.sessions.SelectRanch(operator, req.RanchID)
	h.logger.Debug("ranch selected", zap.String("operator", operator), zap.String("ranch_id", req.RanchID))
	c.JSON(http.StatusOK, state)
}

// Logout clears the operator's state.
func (h *SessionHandler) Logout(c *gin.Context) {
	operator, ok := operatorID(c)
	if !ok {
		return
	}
	h.sessions.Clear(operator)
	c.Status(http.StatusNoContent)
}

func operatorID(c *gin.Context) (string, bool) {
	operator := c.GetHeader(OperatorHeader)
	if operator == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": OperatorHeader + " header is required"})
		return "", false
	}
	return operator, true
}
