package handlers

import (
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/mcp"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/middleware"
)

// MCPPath is where the streamable HTTP transport is mounted.
const MCPPath = "/mcp"

// MCPHandler handles MCP protocol requests over HTTP.
type MCPHandler struct {
	httpServer *server.StreamableHTTPServer
	logger     *zap.Logger
}

// NewMCPHandler creates a new MCP handler from an MCP server.
func NewMCPHandler(mcpServer *mcp.Server, logger *zap.Logger) *MCPHandler {
	return &MCPHandler{
		httpServer: mcpServer.NewStreamableHTTPServer(),
		logger:     logger,
	}
}

// RegisterRoutes mounts the MCP endpoint. Non-POST requests are rejected before
// the JSON-RPC body is read and logged.
func (h *MCPHandler) RegisterRoutes(mux *http.ServeMux) {
	loggedHandler := middleware.MCPRequestLogger(h.logger)(h.httpServer)
	mux.Handle(MCPPath, requirePOST(loggedHandler))
}

// requirePOST returns 405 Method Not Allowed for non-POST requests.
// The stateless streamable transport only accepts JSON-RPC over POST.
func requirePOST(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			_ = ErrorResponse(w, http.StatusMethodNotAllowed, "method_not_allowed", "MCP requests must use POST")
			return
		}
		next.ServeHTTP(w, r)
	})
}
