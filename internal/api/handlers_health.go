package api

import (
	"context"
	"net/http"
	"time"

	"github.com/projecthelena/greetpay/internal/logging"
	"github.com/projecthelena/greetpay/internal/probe"
)

const readinessTimeout = 2 * time.Second

// ReadinessResponse reports the outcome of each dependency check.
type ReadinessResponse struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks"`
}

// Healthz answers liveness probes with a bare "ok".
// @Summary      Liveness probe
// @Tags         health
// @Produce      plain
// @Success      200  {string} string "ok"
// @Router       /healthz [get]
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "ok")
}

// Readyz runs every checker and reports 503 if any of them fails.
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object} ReadinessResponse
// @Failure      503  {object} ReadinessResponse
// @Router       /readyz [get]
func Readyz(checkers ...probe.Checker) http.HandlerFunc {
	logger := logging.New("readiness")

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		resp := ReadinessResponse{Status: "ok", Checks: make(map[string]string, len(checkers))}
		status := http.StatusOK
		for _, c := range checkers {
			if err := c.Check(ctx); err != nil {
				logger.Warn().Err(err).Str("check", c.Name()).Msg("dependency check failed")
				resp.Checks[c.Name()] = err.Error()
				resp.Status = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[c.Name()] = "ok"
		}

		writeJSON(w, status, resp)
	}
}
