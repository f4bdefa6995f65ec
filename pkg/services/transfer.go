package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"
	"go.uber.org/zap"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/apperrors"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/command"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/config"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/executor"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/models"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/sql"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/validation"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/version"
)

// TransferService defines the operations exposed by the MCP tools and the CLI.
type TransferService interface {
	// Preview validates a request and renders the command it would run.
	Preview(ctx context.Context, req models.TransferRequest) (*Preview, error)

	// Execute runs a previewed command. confirmed must be true.
	Execute(ctx context.Context, commandLine string, confirmed bool) (*executor.ExecutionResult, error)

	// ValidateConnection checks the parameters of a single connection without connecting.
	ValidateConnection(ctx context.Context, req models.ConnectionValidationRequest) (*ConnectionReport, error)

	// SuggestParallelism recommends a parallelism method for a table.
	SuggestParallelism(req models.ParallelismSuggestionRequest) (*ParallelismSuggestion, error)

	// SupportedCombinations lists the database pairs FastTransfer can move data between.
	SupportedCombinations() []Combination

	// VersionInfo reports the detected binary version and its capabilities.
	// refresh discards the cached detection first.
	VersionInfo(ctx context.Context, refresh bool) (*VersionInfo, error)

	// BinaryError returns the binary check failure, or nil when the binary is usable.
	BinaryError() error
}

// Settings are the values of Config the service needs.
type Settings struct {
	BinaryPath string
	Timeout    time.Duration
	LogDir     string
	InDocker   bool
}

// SettingsFromConfig extracts Settings from the loaded configuration.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		BinaryPath: cfg.BinaryPath,
		Timeout:    cfg.Timeout(),
		LogDir:     cfg.LogDir,
		InDocker:   config.IsRunningInDocker(),
	}
}

// Preview is a validated request rendered for review.
type Preview struct {
	// Command is the multi-line display form with secrets masked.
	Command string `json:"command"`
	// ExecuteCommand is the unmasked single-line form to pass to execute_transfer.
	ExecuteCommand  string   `json:"execute_command"`
	Explanation     []string `json:"explanation"`
	Warnings        []string `json:"warnings,omitempty"`
	Version         string   `json:"fasttransfer_version,omitempty"`
	VersionDetected bool     `json:"version_detected"`
	LogDir          string   `json:"log_dir"`

	argv []string
}

// Argv returns a copy of the synthesized argument vector.
func (p *Preview) Argv() []string {
	return append([]string(nil), p.argv...)
}

// VersionInfo describes the configured binary.
type VersionInfo struct {
	Version      string               `json:"version,omitempty"`
	Detected     bool                 `json:"detected"`
	BinaryPath   string               `json:"binary_path"`
	Capabilities version.Capabilities `json:"capabilities"`
}

type transferService struct {
	settings   Settings
	binaryErr  error
	detector   *version.Detector
	validator  *validation.Validator
	builder    *command.Builder
	supervisor *executor.Supervisor
	logger     *zap.Logger
}

// NewTransferService creates the service and checks the binary once.
// A failed check is logged and kept; the operations that need the binary
// return it instead of running.
func NewTransferService(
	settings Settings,
	detector *version.Detector,
	validator *validation.Validator,
	supervisor *executor.Supervisor,
	logger *zap.Logger,
) TransferService {
	if settings.Timeout <= 0 {
		settings.Timeout = executor.DefaultTimeout
	}

	s := &transferService{
		settings:   settings,
		binaryErr:  CheckBinary(settings.BinaryPath),
		detector:   detector,
		validator:  validator,
		builder:    command.NewBuilder(settings.BinaryPath),
		supervisor: supervisor,
		logger:     logger.Named("transfer"),
	}
	if s.binaryErr != nil {
		s.logger.Warn("FastTransfer binary unavailable", zap.Error(s.binaryErr))
	}
	return s
}

func (s *transferService) BinaryError() error {
	return s.binaryErr
}

func (s *transferService) Preview(ctx context.Context, req models.TransferRequest) (*Preview, error) {
	if s.binaryErr != nil {
		return nil, s.binaryErr
	}

	v, detected := s.detector.Detect(ctx)
	caps := s.detector.Capabilities(ctx)

	validated, err := s.validator.ValidateTransfer(req, &caps)
	if err != nil {
		return nil, err
	}

	argv := s.builder.Build(validated)
	normalized := validated.Request()

	p := &Preview{
		Command:         command.Format(argv, true),
		ExecuteCommand:  command.ShellLine(argv),
		Explanation:     Explain(normalized),
		Warnings:        s.previewWarnings(normalized, detected),
		VersionDetected: detected,
		LogDir:          s.settings.LogDir,
		argv:            argv,
	}
	if detected {
		p.Version = v.String()
	}

	s.logger.Debug("Built transfer preview",
		zap.String("command", strings.Join(command.Mask(argv), " ")),
		zap.Int("warnings", len(p.Warnings)))
	return p, nil
}

func (s *transferService) previewWarnings(req models.TransferRequest, detected bool) []string {
	var warnings []string

	if !detected {
		if latest, ok := s.detector.Registry().Latest(); ok {
			warnings = append(warnings, fmt.Sprintf(
				"FastTransfer version could not be detected; the request was checked against %s capabilities", latest.Version))
		}
	}

	for _, r := range sql.CheckTransferRequest(req) {
		warnings = append(warnings, fmt.Sprintf(
			"%s looks like a SQL injection pattern (fingerprint %s)", r.Field, r.Fingerprint))
	}
	for _, r := range sql.CheckTransferStatements(req) {
		warnings = append(warnings, fmt.Sprintf("%s appears to contain more than one SQL statement", r.Field))
	}

	if req.Options.LoadMode == models.LoadModeTruncate {
		warnings = append(warnings, fmt.Sprintf(
			"load mode Truncate deletes every existing row of %s before loading", req.Target.QualifiedTable()))
	}

	for _, side := range []struct {
		name string
		conn models.ConnectionConfig
	}{{"source", req.Source}, {"target", req.Target}} {
		if hint := config.DockerHostHint(side.conn.Server, s.settings.InDocker); hint != "" {
			warnings = append(warnings, side.name+": "+hint)
		}
	}
	return warnings
}

func (s *transferService) Execute(ctx context.Context, commandLine string, confirmed bool) (*executor.ExecutionResult, error) {
	if !confirmed {
		return nil, fmt.Errorf("%w: set confirmation to true after reviewing the command", apperrors.ErrConfirmationRequired)
	}
	if s.binaryErr != nil {
		return nil, s.binaryErr
	}

	argv, err := s.parseCommand(commandLine)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Starting FastTransfer execution",
		zap.String("command", strings.Join(command.Mask(argv), " ")))

	return s.supervisor.Execute(ctx, argv, s.settings.Timeout, s.settings.LogDir)
}

// parseCommand splits a command line and checks that it runs the configured binary
// with real secrets.
func (s *transferService) parseCommand(commandLine string) ([]string, error) {
	commandLine = strings.TrimSpace(commandLine)
	if commandLine == "" {
		return nil, fmt.Errorf("%w: command is empty; pass execute_command from preview_transfer_command", apperrors.ErrCommandRejected)
	}

	argv, err := shellwords.Parse(commandLine)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse command: %v", apperrors.ErrCommandRejected, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: command is empty", apperrors.ErrCommandRejected)
	}

	if filepath.Clean(argv[0]) != filepath.Clean(s.settings.BinaryPath) {
		return nil, fmt.Errorf("%w: command must start with the configured FastTransfer binary %s", apperrors.ErrCommandRejected, s.settings.BinaryPath)
	}

	for i, tok := range argv[1:] {
		masked := tok == command.RedactionMarker && command.IsSensitiveFlag(argv[i])
		if name, value, ok := strings.Cut(tok, "="); ok && command.IsSensitiveFlag(name) && value == command.RedactionMarker {
			masked = true
		}
		if masked {
			return nil, fmt.Errorf("%w: command contains masked secrets; use execute_command from the preview, not the display command", apperrors.ErrCommandRejected)
		}
	}
	return argv, nil
}

func (s *transferService) VersionInfo(ctx context.Context, refresh bool) (*VersionInfo, error) {
	if s.binaryErr != nil {
		return nil, s.binaryErr
	}

	var (
		v        version.Version
		detected bool
	)
	if refresh {
		v, detected = s.detector.Redetect(ctx)
	} else {
		v, detected = s.detector.Detect(ctx)
	}

	info := &VersionInfo{
		Detected:     detected,
		BinaryPath:   s.settings.BinaryPath,
		Capabilities: s.detector.Capabilities(ctx),
	}
	if detected {
		info.Version = v.String()
	}
	return info, nil
}
