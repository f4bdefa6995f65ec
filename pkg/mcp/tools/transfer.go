package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/models"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/services"
)

// TransferToolDeps contains dependencies for the FastTransfer tools.
type TransferToolDeps struct {
	Service services.TransferService
	Logger  *zap.Logger
}

// RegisterTransferTools registers every FastTransfer tool with the MCP server.
func RegisterTransferTools(s *server.MCPServer, deps *TransferToolDeps) {
	registerPreviewTransferTool(s, deps)
	registerExecuteTransferTool(s, deps)
	registerValidateConnectionTool(s, deps)
	registerListCombinationsTool(s, deps)
	registerSuggestParallelismTool(s, deps)
	registerGetVersionTool(s, deps)
}

type previewResponse struct {
	*services.Preview
	NextSteps []string `json:"next_steps"`
}

func registerPreviewTransferTool(s *server.MCPServer, deps *TransferToolDeps) {
	tool := mcp.NewTool(
		"preview_transfer_command",
		mcp.WithDescription(
			"Build and preview a FastTransfer command without running it. "+
				"The request is validated against the installed FastTransfer version; every problem is reported at once. "+
				"Passwords and connection strings are masked in the displayed command. "+
				"The response also contains execute_command, the full command to pass to execute_transfer after review.",
		),
		mcp.WithObject(
			"source",
			mcp.Required(),
			mcp.Description("Source connection: type, database, one authentication method and exactly one of table, query or file_input"),
			mcp.Properties(connectionProperties(enumOf(models.ValidSourceTypes))),
		),
		mcp.WithObject(
			"target",
			mcp.Required(),
			mcp.Description("Target connection: type, database, table and one authentication method"),
			mcp.Properties(connectionProperties(enumOf(models.ValidTargetTypes))),
		),
		mcp.WithObject(
			"options",
			mcp.Description("Transfer options (parallelism, load mode, column mapping)"),
			mcp.Properties(optionsProperties()),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var request models.TransferRequest
		if err := models.Decode(arguments(req), &request); err != nil {
			return errorResult(deps.Logger, "preview_transfer_command", err)
		}

		preview, err := deps.Service.Preview(ctx, request)
		if err != nil {
			return errorResult(deps.Logger, "preview_transfer_command", err)
		}

		return jsonResult(previewResponse{
			Preview: preview,
			NextSteps: []string{
				"Review the command and the explanation carefully",
				"Call execute_transfer with execute_command (not the masked command) and confirmation set to true",
				fmt.Sprintf("Executions are logged with secrets masked to %s", preview.LogDir),
			},
		})
	})
}

type executeResponse struct {
	Status          string   `json:"status"`
	ExecutionID     string   `json:"execution_id"`
	ReturnCode      int      `json:"return_code"`
	DurationSeconds float64  `json:"duration_seconds"`
	Stdout          string   `json:"stdout"`
	Stderr          string   `json:"stderr,omitempty"`
	LogPath         string   `json:"log_path,omitempty"`
	LogWarning      string   `json:"log_warning,omitempty"`
	Troubleshooting []string `json:"troubleshooting,omitempty"`
}

var troubleshootingSteps = []string{
	"Check database credentials and connectivity",
	"Verify that the table and schema names exist",
	"Check the FastTransfer documentation for the error details",
	"Review the full log file for more information",
}

func registerExecuteTransferTool(s *server.MCPServer, deps *TransferToolDeps) {
	tool := mcp.NewTool(
		"execute_transfer",
		mcp.WithDescription(
			"Run a FastTransfer command previously built by preview_transfer_command. "+
				"Requires confirmation=true. The command must start with the configured FastTransfer binary "+
				"and must contain the real secrets (use execute_command from the preview, not the masked display). "+
				"Moves data between databases and may truncate the target table.",
		),
		mcp.WithString(
			"command",
			mcp.Required(),
			mcp.Description("The execute_command value returned by preview_transfer_command"),
		),
		mcp.WithBoolean(
			"confirmation",
			mcp.Required(),
			mcp.Description("Must be true to run the transfer"),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		commandLine, err := req.RequireString("command")
		if err != nil {
			return NewErrorResult(CodeInvalidParameters, "command parameter is required"), nil
		}
		confirmed, _ := getOptionalBool(req, "confirmation")

		result, err := deps.Service.Execute(ctx, trimString(commandLine), confirmed)
		if err != nil {
			return errorResult(deps.Logger, "execute_transfer", err)
		}

		response := executeResponse{
			Status:          "success",
			ExecutionID:     result.ExecutionID.String(),
			ReturnCode:      result.ReturnCode,
			DurationSeconds: result.Duration.Seconds(),
			Stdout:          result.Stdout,
			Stderr:          result.Stderr,
			LogPath:         result.LogPath,
			LogWarning:      result.LogWarning,
		}
		if !result.Succeeded() {
			response.Status = "failed"
			response.Troubleshooting = troubleshootingSteps
		}
		return jsonResult(response)
	})
}
