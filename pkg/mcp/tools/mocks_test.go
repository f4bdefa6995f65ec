package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/executor"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/models"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/services"
)

// mockTransferService records the requests it receives and returns canned values.
type mockTransferService struct {
	preview       *services.Preview
	result        *executor.ExecutionResult
	report        *services.ConnectionReport
	suggestion    *services.ParallelismSuggestion
	versionInfo   *services.VersionInfo
	err           error
	lastRequest   models.TransferRequest
	lastCommand   string
	lastConfirmed bool
	lastRefresh   bool
}

func (m *mockTransferService) Preview(ctx context.Context, req models.TransferRequest) (*services.Preview, error) {
	m.lastRequest = req
	return m.preview, m.err
}

func (m *mockTransferService) Execute(ctx context.Context, commandLine string, confirmed bool) (*executor.ExecutionResult, error) {
	m.lastCommand = commandLine
	m.lastConfirmed = confirmed
	return m.result, m.err
}

func (m *mockTransferService) ValidateConnection(ctx context.Context, req models.ConnectionValidationRequest) (*services.ConnectionReport, error) {
	return m.report, m.err
}

func (m *mockTransferService) SuggestParallelism(req models.ParallelismSuggestionRequest) (*services.ParallelismSuggestion, error) {
	return m.suggestion, m.err
}

func (m *mockTransferService) SupportedCombinations() []services.Combination {
	return []services.Combination{{Source: "PostgreSQL", Targets: []string{"SQL Server"}}}
}

func (m *mockTransferService) VersionInfo(ctx context.Context, refresh bool) (*services.VersionInfo, error) {
	m.lastRefresh = refresh
	return m.versionInfo, m.err
}

func (m *mockTransferService) BinaryError() error {
	return nil
}

// toolResponse is the wire shape of a tools/call response.
type toolResponse struct {
	Result *struct {
		IsError bool `json:"isError"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func newToolServer(svc services.TransferService) *server.MCPServer {
	s := server.NewMCPServer("test", "1.0.0", server.WithToolCapabilities(true))
	RegisterTransferTools(s, &TransferToolDeps{Service: svc, Logger: zap.NewNop()})
	return s
}

// callTool sends a tools/call message and decodes the JSON-RPC response.
func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) toolResponse {
	t.Helper()
	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params":  map[string]any{"name": name, "arguments": args},
	})
	require.NoError(t, err)

	raw, err := json.Marshal(s.HandleMessage(context.Background(), msg))
	require.NoError(t, err)

	var resp toolResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	return resp
}

// getTextContent returns the text of the first content item of a successful call.
func getTextContent(t *testing.T, resp toolResponse) string {
	t.Helper()
	require.Nil(t, resp.Error, "expected a tool result, got a JSON-RPC error")
	require.NotNil(t, resp.Result)
	require.NotEmpty(t, resp.Result.Content)
	return resp.Result.Content[0].Text
}

// decodeText unmarshals the text content of a call into out.
func decodeText(t *testing.T, resp toolResponse, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(getTextContent(t, resp)), out))
}
