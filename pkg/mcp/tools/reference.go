package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/models"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/services"
)

func registerValidateConnectionTool(s *server.MCPServer, deps *TransferToolDeps) {
	tool := mcp.NewTool(
		"validate_connection",
		mcp.WithDescription(
			"Check the parameters of one source or target connection without connecting to it. "+
				"Reports the authentication method in use, every structural problem, and advisory issues "+
				"such as a server without a port or a connection string that does not parse.",
		),
		mcp.WithObject(
			"connection",
			mcp.Required(),
			mcp.Description("Connection to check; the type must belong to the given side"),
			mcp.Properties(connectionProperties(nil)),
		),
		mcp.WithString(
			"side",
			mcp.Required(),
			mcp.Enum(string(models.SideSource), string(models.SideTarget)),
			mcp.Description("Whether the connection is the source or the target of a transfer"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var request models.ConnectionValidationRequest
		if err := models.Decode(arguments(req), &request); err != nil {
			return errorResult(deps.Logger, "validate_connection", err)
		}

		report, err := deps.Service.ValidateConnection(ctx, request)
		if err != nil {
			return errorResult(deps.Logger, "validate_connection", err)
		}
		return jsonResult(report)
	})
}

type combinationsResponse struct {
	Combinations []services.Combination `json:"combinations"`
	Notes        []string               `json:"notes"`
}

func registerListCombinationsTool(s *server.MCPServer, deps *TransferToolDeps) {
	tool := mcp.NewTool(
		"list_supported_combinations",
		mcp.WithDescription("List the source to target database combinations FastTransfer supports."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(combinationsResponse{
			Combinations: deps.Service.SupportedCombinations(),
			Notes:        services.CombinationNotes,
		})
	})
}

type parallelismResponse struct {
	*services.ParallelismSuggestion
	Input models.ParallelismSuggestionRequest `json:"input"`
	Notes []string                            `json:"other_methods"`
}

func registerSuggestParallelismTool(s *server.MCPServer, deps *TransferToolDeps) {
	tool := mcp.NewTool(
		"suggest_parallelism_method",
		mcp.WithDescription(
			"Recommend a FastTransfer parallelism method from the source database type and the shape of the table. "+
				"Engine-native methods (Ctid, Rowid, NZDataSlice, Physloc) are preferred; small tables get no parallelism.",
		),
		mcp.WithString(
			"source_type",
			mcp.Required(),
			mcp.Enum(enumOf(models.ValidSourceTypes)...),
			mcp.Description("FastTransfer source connection type"),
		),
		mcp.WithBoolean(
			"has_numeric_key",
			mcp.Required(),
			mcp.Description("Whether the table has a numeric key column"),
		),
		mcp.WithBoolean(
			"has_identity_column",
			mcp.Description("Whether the table has an identity or auto-increment column (default false)"),
		),
		mcp.WithString(
			"table_size_estimate",
			mcp.Required(),
			mcp.Enum(string(models.TableSizeSmall), string(models.TableSizeMedium), string(models.TableSizeLarge)),
			mcp.Description("Rough table size"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var request models.ParallelismSuggestionRequest
		if err := models.Decode(arguments(req), &request); err != nil {
			return errorResult(deps.Logger, "suggest_parallelism_method", err)
		}

		suggestion, err := deps.Service.SuggestParallelism(request)
		if err != nil {
			return errorResult(deps.Logger, "suggest_parallelism_method", err)
		}
		return jsonResult(parallelismResponse{
			ParallelismSuggestion: suggestion,
			Input:                 request,
			Notes:                 services.MethodNotes,
		})
	})
}

func registerGetVersionTool(s *server.MCPServer, deps *TransferToolDeps) {
	tool := mcp.NewTool(
		"get_version",
		mcp.WithDescription(
			"Report the detected FastTransfer version, the binary path, and the connection types, "+
				"parallelism methods and features that version supports. "+
				"When the version cannot be detected, the capabilities of the latest known version are reported.",
		),
		mcp.WithBoolean(
			"refresh",
			mcp.Description("Probe the binary again instead of using the cached version (default false)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		refresh, _ := getOptionalBool(req, "refresh")

		info, err := deps.Service.VersionInfo(ctx, refresh)
		if err != nil {
			return errorResult(deps.Logger, "get_version", err)
		}
		return jsonResult(info)
	})
}
