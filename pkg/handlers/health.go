package handlers

import (
	"net/http"
	"runtime"

	"go.uber.org/zap"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/logging"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/services"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Binary string `json:"binary"`
	Reason string `json:"reason,omitempty"`
}

// PingResponse contains service status and version information.
type PingResponse struct {
	Status              string `json:"status"`
	Version             string `json:"version"`
	Service             string `json:"service"`
	GoVersion           string `json:"go_version"`
	FastTransferVersion string `json:"fasttransfer_version,omitempty"`
	VersionDetected     bool   `json:"version_detected"`
	BinaryPath          string `json:"binary_path,omitempty"`
}

// HealthHandler handles health check and ping endpoints.
type HealthHandler struct {
	version string
	service services.TransferService
	logger  *zap.Logger
}

// NewHealthHandler creates a HealthHandler reporting on service.
func NewHealthHandler(version string, service services.TransferService, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{version: version, service: service, logger: logger}
}

// RegisterRoutes registers the health handler's routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ping", h.Ping)
}

// Health handles GET /health. The server is healthy when the FastTransfer
// binary is usable; otherwise it answers 503 with the reason.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{Status: "ok", Binary: "available"}
	status := http.StatusOK
	if err := h.service.BinaryError(); err != nil {
		response = HealthResponse{Status: "degraded", Binary: "unavailable", Reason: logging.SanitizeError(err)}
		status = http.StatusServiceUnavailable
	}

	if err := WriteJSON(w, status, response); err != nil {
		h.logger.Error("Failed to encode health response", zap.Error(err))
	}
}

// Ping handles GET /ping with server and FastTransfer version details.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	response := PingResponse{
		Status:    "ok",
		Version:   h.version,
		Service:   "fasttransfer-mcp",
		GoVersion: runtime.Version(),
	}

	if info, err := h.service.VersionInfo(r.Context(), false); err == nil {
		response.FastTransferVersion = info.Version
		response.VersionDetected = info.Detected
		response.BinaryPath = info.BinaryPath
	} else {
		response.Status = "degraded"
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode ping response", zap.Error(err))
	}
}
