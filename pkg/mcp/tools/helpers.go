package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/logging"
)

// trimString removes leading and trailing whitespace from a string.
// This is a common helper used across MCP tool parameter validation.
func trimString(s string) string {
	return strings.TrimSpace(s)
}

// arguments returns the request arguments as a map, or an empty map if none were sent.
func arguments(req mcp.CallToolRequest) map[string]any {
	if args, ok := req.Params.Arguments.(map[string]any); ok && args != nil {
		return args
	}
	return map[string]any{}
}

// getOptionalBool extracts an optional boolean parameter from the request.
func getOptionalBool(req mcp.CallToolRequest, key string) (bool, bool) {
	val, ok := arguments(req)[key].(bool)
	return val, ok
}

// jsonResult marshals a response into a text tool result.
func jsonResult(response any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// errorResult turns a service error into a structured result when the caller can
// act on it, and into a Go error otherwise.
func errorResult(logger *zap.Logger, tool string, err error) (*mcp.CallToolResult, error) {
	if result := NewServiceErrorResult(err); result != nil {
		if IsInputError(err) {
			logger.Debug("Tool rejected input", zap.String("tool", tool), zap.String("error", logging.SanitizeError(err)))
		} else {
			logger.Warn("Tool failed", zap.String("tool", tool), zap.String("error", logging.SanitizeError(err)))
		}
		return result, nil
	}

	logger.Error("Tool failed unexpectedly", zap.String("tool", tool), zap.String("error", logging.SanitizeError(err)))
	return nil, fmt.Errorf("%s failed: %s", tool, logging.SanitizeError(err))
}
