package version

import (
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/logging"
)

// DefaultProbeTimeout bounds the `--version` probe when no timeout is configured.
const DefaultProbeTimeout = 10 * time.Second

// probeWaitDelay is how long the probe keeps reading output once the binary
// has exited or been killed. Children that inherit the pipe are cut off after it.
const probeWaitDelay = time.Second

// probeArgs is the invocation that makes FastTransfer print its version and exit.
var probeArgs = []string{"--version", "--nobanner"}

// Prober runs a binary and returns its combined stdout and stderr.
// A non-zero exit is not an error as long as output was produced.
type Prober interface {
	Probe(ctx context.Context, binaryPath string, args ...string) ([]byte, error)
}

// ExecProber probes binaries on the local host.
type ExecProber struct{}

// Probe runs the binary with os/exec.
func (ExecProber) Probe(ctx context.Context, binaryPath string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binaryPath, args...)
	cmd.WaitDelay = probeWaitDelay
	out, err := cmd.CombinedOutput()
	if ctx.Err() != nil {
		return out, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) || errors.Is(err, exec.ErrWaitDelay) {
		return out, nil
	}
	return out, err
}

// Detector probes a FastTransfer binary once and caches the result.
//
// The cache is never invalidated on its own: if the binary is replaced while the
// process runs, the cached version is stale until Redetect is called.
type Detector struct {
	binaryPath string
	prober     Prober
	registry   *Registry
	timeout    time.Duration
	logger     *zap.Logger

	mu       sync.Mutex
	done     bool
	detected *Version
}

// NewDetector creates a Detector for the binary. A nil prober uses ExecProber,
// a nil registry uses DefaultRegistry, and a zero timeout uses DefaultProbeTimeout.
func NewDetector(binaryPath string, prober Prober, registry *Registry, timeout time.Duration, logger *zap.Logger) *Detector {
	if prober == nil {
		prober = ExecProber{}
	}
	if registry == nil {
		registry = DefaultRegistry()
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{
		binaryPath: binaryPath,
		prober:     prober,
		registry:   registry,
		timeout:    timeout,
		logger:     logger.Named("version"),
	}
}

// BinaryPath returns the path of the probed binary.
func (d *Detector) BinaryPath() string {
	return d.binaryPath
}

// Registry returns the registry used to resolve capabilities.
func (d *Detector) Registry() *Registry {
	return d.registry
}

// Detect returns the binary version, probing it on the first call only.
// Failures are logged and cached as "undetected" (false); Detect never errors.
func (d *Detector) Detect(ctx context.Context) (Version, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.done {
		d.detected = d.probe(ctx)
		d.done = true
	}
	if d.detected == nil {
		return Version{}, false
	}
	return *d.detected, true
}

// Redetect drops the cached result and probes the binary again.
func (d *Detector) Redetect(ctx context.Context) (Version, bool) {
	d.mu.Lock()
	d.done = false
	d.detected = nil
	d.mu.Unlock()

	return d.Detect(ctx)
}

// Capabilities resolves the capabilities of the detected version, detecting first if needed.
// Repeated calls with the same cached version return equal values.
func (d *Detector) Capabilities(ctx context.Context) Capabilities {
	v, ok := d.Detect(ctx)
	if !ok {
		return d.registry.Resolve(nil)
	}
	return d.registry.Resolve(&v)
}

func (d *Detector) probe(ctx context.Context) *Version {
	probeCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	out, err := d.prober.Probe(probeCtx, d.binaryPath, probeArgs...)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			d.logger.Warn("Version detection timed out",
				zap.String("binary_path", d.binaryPath),
				zap.Duration("timeout", d.timeout))
		case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
			d.logger.Warn("Binary not found", zap.String("binary_path", d.binaryPath))
		default:
			d.logger.Warn("Version detection failed",
				zap.String("binary_path", d.binaryPath),
				zap.Error(err))
		}
		return nil
	}

	output := strings.TrimSpace(string(out))
	v, ok := parseProbeOutput(output)
	if !ok {
		d.logger.Warn("Could not parse version from output",
			zap.String("binary_path", d.binaryPath),
			zap.String("output", logging.TruncateString(output, 200)))
		return nil
	}

	d.logger.Info("Detected FastTransfer version", zap.String("version", v.String()))
	return &v
}
