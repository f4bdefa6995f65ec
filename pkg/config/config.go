package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/apperrors"
)

// DefaultConfigPath is read when no --config flag is given. A missing file is not an error.
const DefaultConfigPath = "config.yaml"

// Transports the MCP server can listen on.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds all configuration for fasttransfer-mcp.
// Configuration can come from a YAML file or environment variables.
// Environment variables always override YAML values.
type Config struct {
	Version string `yaml:"-"` // Set at load time, not from config

	// FastTransfer binary
	BinaryPath                 string `yaml:"binary_path" env:"FASTTRANSFER_PATH" env-default:"./fasttransfer/FastTransfer"`
	TimeoutSeconds             int    `yaml:"timeout_seconds" env:"FASTTRANSFER_TIMEOUT" env-default:"1800"`
	VersionProbeTimeoutSeconds int    `yaml:"version_probe_timeout_seconds" env:"FASTTRANSFER_VERSION_TIMEOUT" env-default:"10"`
	LogDir                     string `yaml:"log_dir" env:"FASTTRANSFER_LOG_DIR" env-default:"./logs"`

	// Server logging: debug, info, warn, error
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	// MCP transport
	Transport string `yaml:"transport" env:"MCP_TRANSPORT" env-default:"stdio"`
	BindAddr  string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port      string `yaml:"port" env:"PORT" env-default:"8765"`
}

// Load reads configuration from path with environment variable overrides.
// If path does not exist, configuration comes from the environment alone.
// The version parameter is injected at build time and set on the returned Config.
func Load(version, path string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if path == "" {
		path = DefaultConfigPath
	}

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("%w: failed to read %s: %v", apperrors.ErrConfiguration, path, err)
		}
	case errors.Is(statErr, fs.ErrNotExist):
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("%w: failed to read environment: %v", apperrors.ErrConfiguration, err)
		}
	default:
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConfiguration, statErr)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConfiguration, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.BinaryPath == "" {
		return errors.New("binary_path must not be empty")
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	if c.VersionProbeTimeoutSeconds <= 0 {
		return fmt.Errorf("version_probe_timeout_seconds must be positive, got %d", c.VersionProbeTimeoutSeconds)
	}
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("transport must be %q or %q, got %q", TransportStdio, TransportHTTP, c.Transport)
	}
	if c.Transport == TransportHTTP {
		if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
			return fmt.Errorf("port must be a number between 0 and 65535, got %q", c.Port)
		}
	}
	return nil
}

// Timeout is the wall-clock limit for one transfer.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ProbeTimeout is the limit for the `--version` probe.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.VersionProbeTimeoutSeconds) * time.Second
}

// ListenAddr is the host:port the HTTP transport binds to.
func (c *Config) ListenAddr() string {
	return c.BindAddr + ":" + c.Port
}
