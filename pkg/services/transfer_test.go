package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-shellwords"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/apperrors"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/executor"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/models"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/validation"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/version"
)

type stubProber struct {
	output string
	err    error
}

func (p stubProber) Probe(context.Context, string, ...string) ([]byte, error) {
	return []byte(p.output), p.err
}

func writeBinary(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "FastTransfer")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func newTestService(t *testing.T, binaryPath string, prober version.Prober) TransferService {
	t.Helper()
	logger := zap.NewNop()
	return NewTransferService(
		Settings{BinaryPath: binaryPath, Timeout: 5 * time.Second, LogDir: t.TempDir()},
		version.NewDetector(binaryPath, prober, nil, time.Second, logger),
		validation.NewValidator(nil),
		executor.NewSupervisor(logger),
		logger,
	)
}

func detectedProber() version.Prober {
	return stubProber{output: "FastTransfer Version 0.16.0.0"}
}

func pgToMSSQL() models.TransferRequest {
	return models.TransferRequest{
		Source: models.ConnectionConfig{
			Type:     "pgsql",
			Server:   "pg.internal:5432",
			Database: "sales",
			Schema:   "public",
			Table:    "orders",
			User:     "reader",
			Password: "s3cr3t!",
		},
		Target: models.ConnectionConfig{
			Type:        "msbulk",
			Server:      "mssql.internal,1433",
			Database:    "dw",
			Schema:      "dbo",
			Table:       "orders",
			TrustedAuth: true,
		},
		Options: models.TransferOptions{Method: models.MethodCtid},
	}
}

func TestCheckBinary(t *testing.T) {
	dir := t.TempDir()

	executable := filepath.Join(dir, "FastTransfer")
	require.NoError(t, os.WriteFile(executable, []byte("#!/bin/sh\n"), 0o755))

	plain := filepath.Join(dir, "not-executable")
	require.NoError(t, os.WriteFile(plain, []byte("data"), 0o644))

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "executable file", path: executable},
		{name: "empty path", path: "", wantErr: "not set"},
		{name: "missing", path: filepath.Join(dir, "missing"), wantErr: "not found"},
		{name: "directory", path: dir, wantErr: "not a regular file"},
		{name: "not executable", path: plain, wantErr: "not executable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckBinary(tt.path)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrConfiguration))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPreview(t *testing.T) {
	bin := writeBinary(t, "exit 0")
	svc := newTestService(t, bin, detectedProber())

	p, err := svc.Preview(context.Background(), pgToMSSQL())
	require.NoError(t, err)

	assert.True(t, p.VersionDetected)
	assert.Equal(t, "0.16.0.0", p.Version)
	assert.Contains(t, p.Command, "--sourcepassword ******")
	assert.NotContains(t, p.Command, "s3cr3t!")
	assert.Contains(t, p.ExecuteCommand, "s3cr3t!")
	assert.Empty(t, p.Warnings)

	parsed, err := shellwords.Parse(p.ExecuteCommand)
	require.NoError(t, err)
	assert.Equal(t, p.Argv(), parsed)

	assert.Equal(t, []string{
		"1. Read from pgsql table: sales.public.orders",
		"2. Write to msbulk table: dw.dbo.orders",
		"3. Mode: APPEND to existing target table data",
		"4. Parallelism: Ctid method with degree -2",
		"5. Column mapping: Position",
	}, p.Explanation)
}

func TestPreview_ValidationError(t *testing.T) {
	bin := writeBinary(t, "exit 0")
	svc := newTestService(t, bin, detectedProber())

	req := pgToMSSQL()
	req.Source.Type = "mysql"
	req.Options.Degree = new(int)
	*req.Options.Degree = 5000

	_, err := svc.Preview(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.True(t, errors.Is(err, apperrors.ErrCompatibility))
	assert.Len(t, validation.Violations(err), 2)
}

func TestPreview_Warnings(t *testing.T) {
	bin := writeBinary(t, "exit 0")
	svc := newTestService(t, bin, stubProber{output: "garbage"})

	req := pgToMSSQL()
	req.Source.Table = "'; DROP TABLE users--"
	req.Options.LoadMode = models.LoadModeTruncate

	p, err := svc.Preview(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, p.VersionDetected)
	assert.Empty(t, p.Version)
	require.Len(t, p.Warnings, 3)
	assert.Contains(t, p.Warnings[0], "could not be detected")
	assert.Contains(t, p.Warnings[0], "0.16.0.0")
	assert.Contains(t, p.Warnings[1], "source.table")
	assert.Contains(t, p.Warnings[2], "dbo.orders")
}

func TestPreview_MultipleStatementWarning(t *testing.T) {
	bin := writeBinary(t, "exit 0")
	svc := newTestService(t, bin, detectedProber())

	req := pgToMSSQL()
	req.Source.Table = ""
	req.Source.Schema = ""
	req.Source.Query = "SELECT * FROM orders; SELECT * FROM refunds"

	p, err := svc.Preview(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, p.Warnings, 1)
	assert.Equal(t, "source.query appears to contain more than one SQL statement", p.Warnings[0])
}

func TestPreview_BinaryUnavailable(t *testing.T) {
	svc := newTestService(t, filepath.Join(t.TempDir(), "missing"), detectedProber())

	_, err := svc.Preview(context.Background(), pgToMSSQL())
	assert.True(t, errors.Is(err, apperrors.ErrConfiguration))
	assert.True(t, errors.Is(svc.BinaryError(), apperrors.ErrConfiguration))
}

func TestExecute(t *testing.T) {
	bin := writeBinary(t, `echo "args: $#"; echo "rows copied: 10"`)
	svc := newTestService(t, bin, detectedProber())

	p, err := svc.Preview(context.Background(), pgToMSSQL())
	require.NoError(t, err)

	result, err := svc.Execute(context.Background(), p.ExecuteCommand, true)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ReturnCode)
	assert.Contains(t, result.Stdout, "rows copied: 10")
	assert.Contains(t, result.Stdout, "args: "+strconv.Itoa(len(p.Argv())-1))
	require.NotEmpty(t, result.LogPath)

	logContent, err := os.ReadFile(result.LogPath)
	require.NoError(t, err)
	assert.NotContains(t, string(logContent), "s3cr3t!")
	assert.Contains(t, string(logContent), "--sourcepassword ******")
}

func TestExecute_Rejections(t *testing.T) {
	bin := writeBinary(t, "exit 0")
	svc := newTestService(t, bin, detectedProber())

	tests := []struct {
		name      string
		command   string
		confirmed bool
		want      error
	}{
		{name: "not confirmed", command: bin + " --method None", confirmed: false, want: apperrors.ErrConfirmationRequired},
		{name: "empty", command: "   ", confirmed: true, want: apperrors.ErrCommandRejected},
		{name: "unbalanced quote", command: bin + ` --sourcetable "orders`, confirmed: true, want: apperrors.ErrCommandRejected},
		{name: "other binary", command: "/bin/rm -rf /tmp/x", confirmed: true, want: apperrors.ErrCommandRejected},
		{name: "masked password", command: bin + " --sourcepassword ******", confirmed: true, want: apperrors.ErrCommandRejected},
		{name: "masked inline password", command: bin + " --targetpassword=******", confirmed: true, want: apperrors.ErrCommandRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Execute(context.Background(), tt.command, tt.confirmed)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestExecute_ConfirmationCheckedBeforeBinary(t *testing.T) {
	svc := newTestService(t, filepath.Join(t.TempDir(), "missing"), detectedProber())

	_, err := svc.Execute(context.Background(), "anything", false)
	assert.True(t, errors.Is(err, apperrors.ErrConfirmationRequired))

	_, err = svc.Execute(context.Background(), "anything", true)
	assert.True(t, errors.Is(err, apperrors.ErrConfiguration))
}

func TestExecute_AcceptsUncleanedBinaryPath(t *testing.T) {
	bin := writeBinary(t, "exit 0")
	svc := newTestService(t, bin, detectedProber())

	dir, name := filepath.Split(bin)
	result, err := svc.Execute(context.Background(), dir+"./"+name+" --method None", true)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ReturnCode)
}

func TestVersionInfo(t *testing.T) {
	bin := writeBinary(t, "exit 0")
	svc := newTestService(t, bin, detectedProber())

	info, err := svc.VersionInfo(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, info.Detected)
	assert.Equal(t, "0.16.0.0", info.Version)
	assert.Equal(t, bin, info.BinaryPath)
	assert.Contains(t, info.Capabilities.SourceTypes, "pgsql")

	refreshed, err := svc.VersionInfo(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, info, refreshed)
}

func TestVersionInfo_Undetected(t *testing.T) {
	bin := writeBinary(t, "exit 0")
	svc := newTestService(t, bin, stubProber{err: errors.New("boom")})

	info, err := svc.VersionInfo(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, info.Detected)
	assert.Empty(t, info.Version)
	assert.True(t, info.Capabilities.SupportsFileInput)
}

func TestExplain(t *testing.T) {
	req := pgToMSSQL()
	req.Source.Table = ""
	req.Source.Query = "SELECT 1"
	req.Options = models.TransferOptions{
		Method:              models.MethodRangeID,
		DistributeKeyColumn: "id",
		Degree:              new(int),
		LoadMode:            models.LoadModeTruncate,
		MapMethod:           models.MapMethodName,
	}
	*req.Options.Degree = 8

	steps := Explain(req)
	assert.Equal(t, "1. Execute query on pgsql (pg.internal:5432/sales)", steps[0])
	assert.Equal(t, "3. Mode: TRUNCATE target table before loading (all existing data will be deleted)", steps[2])
	assert.Equal(t, "4. Parallelism: RangeId method on column 'id' with degree 8", steps[3])
	assert.Equal(t, "5. Column mapping: Name", steps[4])

	req.Source.Query = ""
	req.Source.Type = "duckdbstream"
	req.Source.FileInput = "/data/orders.parquet"
	assert.True(t, strings.HasPrefix(Explain(req)[0], "1. Import file '/data/orders.parquet' via duckdbstream"))
}
