package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping calls f.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// SystemHandler serves liveness and the API index.
type SystemHandler struct {
	env    string
	checks map[string]Pinger
}

// NewSystemHandler creates a handler; checks are probed by Health.
func NewSystemHandler(env string, checks map[string]Pinger) *SystemHandler {
	return &SystemHandler{env: env, checks: checks}
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Environment string            `json:"environment"`
	Checks      map[string]string `json:"checks,omitempty"`
}

// Health godoc
// @Summary Liveness probe
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *SystemHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "OK", Timestamp: time.Now().UTC(), Environment: h.env}
	status := http.StatusOK
	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
		for name, check := range h.checks {
			if err := check.Ping(ctx); err != nil {
				resp.Checks[name] = "down"
				resp.Status = "DEGRADED"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "up"
		}
	}
	return c.JSON(status, resp)
}

// Index godoc
// @Summary API index
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *SystemHandler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Car Wash Booking API",
		"version": "1.0.0",
		"endpoints": echo.Map{
			"auth":     "/api/auth",
			"services": "/api/services",
			"slots":    "/api/slots",
			"bookings": "/api/bookings",
			"reviews":  "/api/reviews",
			"users":    "/api/users",
			"health":   "/health",
			"docs":     "/swagger/index.html",
		},
	})
}
