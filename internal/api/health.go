// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/tagraph/internal/platform/constants"
	"github.com/taibuivan/tagraph/internal/platform/respond"
)

// checkTimeout bounds a single dependency check.
const checkTimeout = 2 * time.Second

// HealthCheck is one named dependency check for the /ready endpoint.
type HealthCheck struct {
	Name  string
	Check func(context context.Context) error
}

// HealthStatus reports runtime figures that do not gate readiness.
type HealthStatus struct {
	// PendingReindexJobs returns the reindex queue depth.
	PendingReindexJobs func() int
}

type healthHandler struct {
	checks []HealthCheck
	status HealthStatus
	logger *slog.Logger
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(checks []HealthCheck, status HealthStatus, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{checks: checks, status: status, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (liveness check).
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{constants.FieldStatus: "ok"})
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// readiness handles GET /ready (readiness check).
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := make([]checkResult, 0, len(handler.checks))
	isSystemReady := true

	for _, check := range handler.checks {
		context, cancel := context.WithTimeout(request.Context(), checkTimeout)
		err := check.Check(context)
		cancel()

		result := checkResult{Name: check.Name, IsOK: err == nil}
		if err != nil {
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.Error("readiness_check_failed", slog.String("dependency", check.Name), slog.Any("error", err))
		}
		results = append(results, result)
	}

	payload := map[string]any{
		constants.FieldStatus: "ready",
		constants.FieldChecks: results,
	}
	if handler.status.PendingReindexJobs != nil {
		payload["pending_reindex_jobs"] = handler.status.PendingReindexJobs()
	}

	if !isSystemReady {
		payload[constants.FieldStatus] = "degraded"
		respond.Status(writer, http.StatusServiceUnavailable, payload)
		return
	}

	respond.OK(writer, payload)
}
