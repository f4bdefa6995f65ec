// Package executor runs a FastTransfer command as a child process under a timeout
// and records a masked execution log.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/apperrors"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/command"
)

// DefaultTimeout bounds a transfer when no timeout is configured.
const DefaultTimeout = 30 * time.Minute

// killGrace is how long Wait keeps reading output after the child was killed.
const killGrace = 2 * time.Second

// ExecutionResult is the outcome of a process that ran to completion.
// A non-zero ReturnCode is a normal result, not an error.
type ExecutionResult struct {
	ExecutionID uuid.UUID     `json:"execution_id"`
	ReturnCode  int           `json:"return_code"`
	Stdout      string        `json:"stdout"`
	Stderr      string        `json:"stderr"`
	Duration    time.Duration `json:"duration"`
	LogPath     string        `json:"log_path,omitempty"`
	LogWarning  string        `json:"log_warning,omitempty"`
}

// Succeeded reports whether the process exited with code 0.
func (r *ExecutionResult) Succeeded() bool {
	return r.ReturnCode == 0
}

// Supervisor runs one child process per Execute call. It keeps no state between calls.
type Supervisor struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewSupervisor creates a supervisor that logs through logger.
func NewSupervisor(logger *zap.Logger) *Supervisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Supervisor{
		logger: logger.Named("executor"),
		now:    time.Now,
	}
}

// Execute runs argv and waits up to timeout for it to finish.
//
// A process that runs past the timeout is killed and reported as an error
// wrapping apperrors.ErrExecutionTimeout. A process that cannot be started is
// reported as an error wrapping apperrors.ErrExecutionSpawn. When logDir is not
// empty a masked log is written there; a failed write only sets LogWarning.
func (s *Supervisor) Execute(ctx context.Context, argv []string, timeout time.Duration, logDir string) (*ExecutionResult, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: empty command", apperrors.ErrExecutionSpawn)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	id := uuid.New()
	masked := command.Mask(argv)
	logger := s.logger.With(zap.String("execution_id", id.String()))
	logger.Info("Executing FastTransfer command",
		zap.String("command", strings.Join(masked, " ")),
		zap.Duration("timeout", timeout))

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = killGrace

	start := s.now()
	if err := cmd.Start(); err != nil {
		logger.Error("Failed to start FastTransfer", zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrExecutionSpawn, argv[0], err)
	}
	waitErr := cmd.Wait()
	duration := s.now().Sub(start)

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		logger.Error("FastTransfer execution timed out", zap.Duration("timeout", timeout))
		return nil, fmt.Errorf("%w after %s", apperrors.ErrExecutionTimeout, timeout)
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) && !errors.Is(waitErr, exec.ErrWaitDelay) {
		logger.Error("FastTransfer execution failed", zap.Error(waitErr))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExecutionSpawn, waitErr)
	}

	result := &ExecutionResult{
		ExecutionID: id,
		ReturnCode:  cmd.ProcessState.ExitCode(),
		Stdout:      stdout.String(),
		Stderr:      stderr.String(),
		Duration:    duration,
	}

	logger.Info("FastTransfer completed",
		zap.Int("return_code", result.ReturnCode),
		zap.Duration("duration", duration))

	if logDir != "" {
		entry := logEntry{
			id:         id,
			started:    start,
			duration:   duration,
			returnCode: result.ReturnCode,
			command:    masked,
			stdout:     result.Stdout,
			stderr:     result.Stderr,
		}
		path, err := writeLog(logDir, entry)
		if err != nil {
			logger.Warn("Failed to write execution log", zap.String("log_dir", logDir), zap.Error(err))
			result.LogWarning = fmt.Sprintf("execution log not written: %v", err)
		} else {
			result.LogPath = path
		}
	}

	return result, nil
}
