// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/mercado/internal/platform/constants"
	"github.com/taibuivan/mercado/internal/platform/respond"
)

// probeTimeout bounds every readiness check.
const probeTimeout = 2 * time.Second

// Probe is one named readiness check.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

type probeResult struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers returns the /health and /ready handlers. Probes run in
// order on every /ready request.
func NewHealthHandlers(logger *slog.Logger, probes ...Probe) (liveness, readiness http.HandlerFunc) {
	liveness = func(writer http.ResponseWriter, _ *http.Request) {
		respond.OK(writer, map[string]string{
			constants.FieldStatus:  "ok",
			constants.FieldApp:     constants.AppName,
			constants.FieldVersion: constants.AppVersion,
		})
	}

	readiness = func(writer http.ResponseWriter, request *http.Request) {
		results := make([]probeResult, 0, len(probes))
		ready := true

		for _, probe := range probes {
			ctx, cancel := context.WithTimeout(request.Context(), probeTimeout)
			err := probe.Check(ctx)
			cancel()

			result := probeResult{Name: probe.Name, OK: err == nil}
			if err != nil {
				ready = false
				result.Error = err.Error()
				logger.Error("readiness_check_failed", slog.String("dependency", probe.Name), slog.Any("error", err))
			}
			results = append(results, result)
		}

		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "degraded", http.StatusServiceUnavailable
		}

		respond.Data(writer, code, map[string]any{
			constants.FieldStatus: status,
			constants.FieldChecks: results,
		})
	}

	return liveness, readiness
}
