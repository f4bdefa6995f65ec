package config

import (
	"os"
	"strings"
	"sync"
)

var (
	isDockerOnce   sync.Once
	isDockerResult bool
)

// IsRunningInDocker returns true if the application is running inside a Docker container.
// Detection is based on the presence of /.dockerenv file which exists in all Docker containers.
// The result is cached after the first call.
func IsRunningInDocker() bool {
	isDockerOnce.Do(func() {
		_, err := os.Stat("/.dockerenv")
		isDockerResult = err == nil
	})
	return isDockerResult
}

// IsLoopbackServer reports whether a FastTransfer server value (host, host:port,
// host,port or host\instance) points at the local machine.
func IsLoopbackServer(server string) bool {
	host := server
	if i := strings.IndexAny(host, `:,\`); i >= 0 {
		host = host[:i]
	}
	switch strings.ToLower(strings.TrimSpace(host)) {
	case "localhost", "127.0.0.1", ".", "(local)":
		return true
	default:
		return false
	}
}

// DockerHostHint explains that a loopback server inside a container refers to the
// container itself. Returns "" when no hint applies.
func DockerHostHint(server string, inDocker bool) string {
	if !inDocker || !IsLoopbackServer(server) {
		return ""
	}
	return "server points at localhost but FastTransfer runs inside a container; use host.docker.internal to reach the host machine"
}
