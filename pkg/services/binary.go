package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/apperrors"
)

// CheckBinary verifies that path names an executable regular file.
// Every failure wraps apperrors.ErrConfiguration.
func CheckBinary(path string) error {
	if path == "" {
		return fmt.Errorf("%w: FastTransfer binary path is not set", apperrors.ErrConfiguration)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: FastTransfer binary not found at %s (set FASTTRANSFER_PATH)", apperrors.ErrConfiguration, path)
		}
		return fmt.Errorf("%w: cannot access FastTransfer binary at %s: %v", apperrors.ErrConfiguration, path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: FastTransfer binary path %s is not a regular file", apperrors.ErrConfiguration, path)
	}
	if info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("%w: FastTransfer binary at %s is not executable", apperrors.ErrConfiguration, path)
	}
	return nil
}
