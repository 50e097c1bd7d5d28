package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves the liveness routes of one service
type HealthHandler struct {
	BaseHandler
	service string
	db      Pinger
	timeout time.Duration
}

// HealthResponse is the body of the health probe
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// NewHealthHandler creates a health handler. A nil db (memory storage) is
// always healthy.
func NewHealthHandler(service string, db Pinger) *HealthHandler {
	return &HealthHandler{service: service, db: db, timeout: 2 * time.Second}
}

// Root answers GET / with the service name
func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, h.service)
}

// Health answers {"status":"UP"}, or 503 with "DOWN" when the database does
// not answer a ping.
func (h *HealthHandler) Health(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, HealthResponse{Status: "UP"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status: "DOWN",
			Checks: map[string]string{"db": err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "UP", Checks: map[string]string{"db": "UP"}})
}
