package mcp

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/logging"
)

// AuditLogger writes one log entry per MCP tool call.
type AuditLogger struct {
	logger *zap.Logger

	// startTimes tracks when tool calls begin, keyed by request ID.
	startTimes sync.Map
}

// NewAuditLogger creates an AuditLogger that records MCP tool calls.
func NewAuditLogger(logger *zap.Logger) *AuditLogger {
	return &AuditLogger{
		logger: logger.Named("mcp-audit"),
	}
}

// Hooks returns mcp-go Hooks configured to capture tool call events.
func (a *AuditLogger) Hooks() *server.Hooks {
	hooks := &server.Hooks{}
	hooks.AddBeforeCallTool(a.beforeCallTool)
	hooks.AddAfterCallTool(a.afterCallTool)
	hooks.AddOnError(a.onError)
	return hooks
}

func (a *AuditLogger) beforeCallTool(_ context.Context, id any, _ *mcplib.CallToolRequest) {
	a.startTimes.Store(id, time.Now())
}

func (a *AuditLogger) afterCallTool(_ context.Context, id any, req *mcplib.CallToolRequest, result *mcplib.CallToolResult) {
	startTime, _ := a.loadAndDeleteStart(id)

	fields := a.callFields(req, time.Since(startTime))
	if result != nil && result.IsError {
		fields = append(fields, zap.Bool("success", false), zap.String("error_code", errorCode(result)))
		a.logger.Warn("MCP tool call returned an error result", fields...)
		return
	}

	fields = append(fields, zap.Bool("success", true))
	a.logger.Info("MCP tool call", fields...)
}

func (a *AuditLogger) onError(_ context.Context, id any, method mcplib.MCPMethod, message any, err error) {
	if method != mcplib.MethodToolsCall {
		return
	}

	req, ok := message.(*mcplib.CallToolRequest)
	if !ok {
		return
	}

	startTime, _ := a.loadAndDeleteStart(id)

	fields := a.callFields(req, time.Since(startTime))
	fields = append(fields,
		zap.Bool("success", false),
		zap.String("error", logging.SanitizeError(err)))
	a.logger.Error("MCP tool call failed", fields...)
}

func (a *AuditLogger) loadAndDeleteStart(id any) (time.Time, bool) {
	if v, ok := a.startTimes.LoadAndDelete(id); ok {
		return v.(time.Time), true
	}
	return time.Now(), false
}

func (a *AuditLogger) callFields(req *mcplib.CallToolRequest, duration time.Duration) []zap.Field {
	args, _ := req.Params.Arguments.(map[string]any)
	return []zap.Field{
		zap.String("tool", req.Params.Name),
		zap.Duration("duration", duration),
		zap.Strings("argument_keys", argumentKeys(args)),
		zap.Any("arguments", logging.SanitizeArguments(args)),
	}
}

// argumentKeys returns the top-level argument names, sorted.
func argumentKeys(args map[string]any) []string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// errorCode extracts the code of a structured error result, or "" if there is none.
func errorCode(result *mcplib.CallToolResult) string {
	for _, c := range result.Content {
		tc, ok := c.(mcplib.TextContent)
		if !ok {
			continue
		}
		var partial struct {
			Code string `json:"code"`
		}
		if err := json.Unmarshal([]byte(tc.Text), &partial); err == nil {
			return partial.Code
		}
	}
	return ""
}
