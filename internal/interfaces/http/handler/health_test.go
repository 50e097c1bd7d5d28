package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (p fakePinger) PingContext(ctx context.Context) error {
	return p.err
}

func healthRouter(h *HealthHandler) *gin.Engine {
	r := gin.New()
	r.GET("/", h.Root)
	r.GET("/payment-service/actuator/health", h.Health)
	return r
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		db         Pinger
		wantStatus int
		wantBody   string
	}{
		{
			name:       "memory storage",
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"UP"}`,
		},
		{
			name:       "database up",
			db:         fakePinger{},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"UP","checks":{"db":"UP"}}`,
		},
		{
			name:       "database down",
			db:         fakePinger{err: errors.New("connection refused")},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"DOWN","checks":{"db":"connection refused"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := healthRouter(NewHealthHandler("payment-service", tt.db))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payment-service/actuator/health", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestHealthHandler_Root(t *testing.T) {
	r := healthRouter(NewHealthHandler("payment-service", nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "payment-service", w.Body.String())
}
