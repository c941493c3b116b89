package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/invoice-dashboard/internal/middleware"
	"github.com/deppfellow/invoice-dashboard/internal/server"
	"github.com/labstack/echo/v4"
)

// healthCheck probes one dependency. Only critical failures make the
// service unhealthy; the dashboard reads need the database but not Redis.
type healthCheck struct {
	name     string
	critical bool
	ping     func(ctx context.Context) error
}

// HealthHandler serves /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
	checks  []healthCheck
	timeout time.Duration
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	cfg := s.Config.Observability.HealthChecks

	var checks []healthCheck
	if cfg.ShouldCheck("database") && s.DB != nil {
		checks = append(checks, healthCheck{name: "database", critical: true, ping: s.DB.Pool.Ping})
	}
	if cfg.ShouldCheck("redis") && s.Redis != nil {
		checks = append(checks, healthCheck{name: "redis", ping: func(ctx context.Context) error {
			return s.Redis.Ping(ctx).Err()
		}})
	}

	return &HealthHandler{
		Handler: NewHandler(s),
		checks:  checks,
		timeout: cfg.Timeout,
	}
}

type checkResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type healthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]checkResult `json:"checks"`
}

// CheckHealth answers 200 when every critical dependency responds and 503
// otherwise. A failing non-critical dependency reports "degraded".
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := healthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]checkResult, len(h.checks)),
	}

	for _, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
		checkStart := time.Now()
		err := check.ping(ctx)
		elapsed := time.Since(checkStart)
		cancel()

		if err == nil {
			response.Checks[check.name] = checkResult{Status: "healthy", ResponseTime: elapsed.String()}
			logger.Debug().Str("check", check.name).Dur("response_time", elapsed).Msg("health check passed")
			continue
		}

		response.Checks[check.name] = checkResult{Status: "unhealthy", ResponseTime: elapsed.String(), Error: err.Error()}
		logger.Error().Err(err).Str("check", check.name).Dur("response_time", elapsed).Msg("health check failed")
		h.recordFailure(check.name, elapsed, err)

		switch {
		case check.critical:
			response.Status = "unhealthy"
		case response.Status == "healthy":
			response.Status = "degraded"
		}
	}

	if response.Status == "unhealthy" {
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("health check failed")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) recordFailure(name string, elapsed time.Duration, err error) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}
	app.RecordCustomEvent("HealthCheckError", map[string]any{
		"check_type":       name,
		"operation":        "health_check",
		"error_type":       name + "_unhealthy",
		"response_time_ms": elapsed.Milliseconds(),
		"error_message":    err.Error(),
	})
}
