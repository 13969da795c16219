package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPathManager implements path management functionality
type DefaultPathManager struct{}

// NewDefaultPathManager creates a new path manager
func NewDefaultPathManager() *DefaultPathManager {
	return &DefaultPathManager{}
}

// GetDefaultOutputDir returns results/<EXCHANGE>_<interval>
func (p *DefaultPathManager) GetDefaultOutputDir(exchange, interval string) string {
	e := strings.ToUpper(strings.TrimSpace(exchange))
	i := strings.TrimSpace(interval)
	if e == "" {
		e = "UNKNOWN"
	}
	if i == "" {
		i = "unknown"
	}

	return filepath.Join("results", fmt.Sprintf("%s_%s", e, i))
}

// EnsureDirectoryExists creates the parent directory of path
func (p *DefaultPathManager) EnsureDirectoryExists(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// DefaultOutputDir is a package-level convenience function
func DefaultOutputDir(exchange, interval string) string {
	return NewDefaultPathManager().GetDefaultOutputDir(exchange, interval)
}
