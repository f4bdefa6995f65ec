package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/microsoft/go-mssqldb/msdsn"
	"go.uber.org/zap"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/config"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/models"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/validation"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/version"
)

// connectionCheckNote is attached to every report: nothing here opens a connection.
const connectionCheckNote = "This validates parameters only. Actual connectivity is tested during transfer execution."

// ConnectionReport is the result of a parameter check on one connection.
// Valid reflects Violations only; Issues are advisory.
type ConnectionReport struct {
	Side       models.Side            `json:"side"`
	Type       string                 `json:"type"`
	Server     string                 `json:"server,omitempty"`
	Database   string                 `json:"database,omitempty"`
	AuthMode   models.AuthMode        `json:"auth_mode,omitempty"`
	Valid      bool                   `json:"valid"`
	Violations []validation.Violation `json:"violations,omitempty"`
	Issues     []string               `json:"issues,omitempty"`
	Note       string                 `json:"note"`
}

func (s *transferService) ValidateConnection(ctx context.Context, req models.ConnectionValidationRequest) (*ConnectionReport, error) {
	conn := req.Connection
	caps := s.capabilities(ctx)

	violations := validation.Violations(s.validator.ValidateConnection(conn, req.Side, &caps))

	report := &ConnectionReport{
		Side:       req.Side,
		Type:       conn.Type,
		Server:     conn.Server,
		Database:   conn.Database,
		Valid:      len(violations) == 0,
		Violations: violations,
		Issues:     connectionIssues(&conn, req.Side, s.settings.InDocker),
		Note:       connectionCheckNote,
	}
	if modes := conn.AuthModes(); len(modes) == 1 {
		report.AuthMode = modes[0]
	}

	s.logger.Debug("Checked connection parameters",
		zap.String("side", string(req.Side)),
		zap.String("type", conn.Type),
		zap.Int("violations", len(violations)),
		zap.Int("issues", len(report.Issues)))
	return report, nil
}

// capabilities resolves capabilities without probing a binary that failed its check.
func (s *transferService) capabilities(ctx context.Context) version.Capabilities {
	if s.binaryErr != nil {
		return s.detector.Registry().Resolve(nil)
	}
	return s.detector.Capabilities(ctx)
}

// connectionIssues returns advisory findings for a connection. Findings never
// quote the connect string, which may embed a password.
func connectionIssues(conn *models.ConnectionConfig, side models.Side, inDocker bool) []string {
	var issues []string

	if conn.ConnectString == "" && conn.DSN == "" && conn.Server != "" && !strings.ContainsAny(conn.Server, `:,\`) {
		issues = append(issues, fmt.Sprintf(
			"Server '%s' may need a port (e.g., localhost:5432) or an instance name (e.g., host\\SQLEXPRESS)", conn.Server))
	}

	if hint := config.DockerHostHint(conn.Server, inDocker); hint != "" {
		issues = append(issues, hint)
	}

	if conn.ConnectString != "" {
		if issue := lintConnectString(conn.Type, side, conn.ConnectString); issue != "" {
			issues = append(issues, issue)
		}
	}
	return issues
}

// lintConnectString parses connect strings whose syntax a Go driver understands:
// SQL Server strings with go-mssqldb and PostgreSQL URLs with pgconn.
func lintConnectString(connType string, side models.Side, connStr string) string {
	switch {
	case isSQLServerType(connType, side):
		if _, err := msdsn.Parse(connStr); err != nil {
			return "connect_string is not a valid SQL Server connection string"
		}
	case isPostgresType(connType, side) && isPostgresURL(connStr):
		if _, err := pgconn.ParseConfig(connStr); err != nil {
			return "connect_string is not a valid PostgreSQL connection URL"
		}
	}
	return ""
}

func isSQLServerType(connType string, side models.Side) bool {
	if side == models.SideTarget {
		return models.TargetType(connType) == models.TargetMSBulk
	}
	return models.SourceType(connType) == models.SourceMSSQL
}

func isPostgresType(connType string, side models.Side) bool {
	if side == models.SideTarget {
		return models.TargetType(connType).Family() == models.FamilyPostgres
	}
	return models.SourceType(connType).Family() == models.FamilyPostgres
}

func isPostgresURL(connStr string) bool {
	lower := strings.ToLower(strings.TrimSpace(connStr))
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}
