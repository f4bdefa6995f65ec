package executor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var logRule = strings.Repeat("=", 80)

// logEntry is what gets persisted for one execution. command must already be masked.
type logEntry struct {
	id         uuid.UUID
	started    time.Time
	duration   time.Duration
	returnCode int
	command    []string
	stdout     string
	stderr     string
}

// logFileName derives a unique file name from the start time and execution ID.
func logFileName(e logEntry) string {
	return fmt.Sprintf("fasttransfer_%s_%s.log", e.started.Format("20060102_150405"), e.id.String()[:8])
}

// writeLog creates logDir if needed and writes the entry to a new file in it.
// The file is always closed, and a partially written file is removed.
func writeLog(logDir string, e logEntry) (path string, err error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return "", fmt.Errorf("create log directory: %w", err)
	}

	name := filepath.Join(logDir, logFileName(e))
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("create log file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close log file: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(name)
			path = ""
		}
	}()

	if _, err = f.WriteString(renderLog(e)); err != nil {
		return "", fmt.Errorf("write log file: %w", err)
	}
	return name, nil
}

func renderLog(e logEntry) string {
	var b strings.Builder
	b.WriteString("FastTransfer Execution Log\n")
	b.WriteString(logRule + "\n\n")
	fmt.Fprintf(&b, "Execution ID: %s\n", e.id)
	fmt.Fprintf(&b, "Timestamp: %s\n", e.started.Format(time.RFC3339))
	fmt.Fprintf(&b, "Duration: %.2f seconds\n", e.duration.Seconds())
	fmt.Fprintf(&b, "Return Code: %d\n\n", e.returnCode)
	fmt.Fprintf(&b, "Command:\n%s\n\n", strings.Join(e.command, " "))
	b.WriteString(logRule + "\n")
	fmt.Fprintf(&b, "STDOUT:\n%s\n\n", e.stdout)
	b.WriteString(logRule + "\n")
	fmt.Fprintf(&b, "STDERR:\n%s\n", e.stderr)
	return b.String()
}
