package printing

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/benossaliha2/cloud-printer/internal/domain/printing"
)

// DefaultHelperPaths are the SumatraPDF install locations checked in order
var DefaultHelperPaths = []string{
	`C:\Program Files\SumatraPDF\SumatraPDF.exe`,
	`C:\Program Files (x86)\SumatraPDF\SumatraPDF.exe`,
}

// HelperResolver finds the print helper executable
type HelperResolver interface {
	Locate() (string, error)
}

// HelperLocator checks a fixed list of candidate paths for the print helper
type HelperLocator struct {
	paths []string
}

// NewHelperLocator creates a locator over paths. Nil selects DefaultHelperPaths.
func NewHelperLocator(paths []string) *HelperLocator {
	if paths == nil {
		paths = DefaultHelperPaths
	}
	return &HelperLocator{paths: paths}
}

// Paths returns the candidate paths in lookup order
func (l *HelperLocator) Paths() []string {
	return l.paths
}

// Locate returns the first candidate that exists
func (l *HelperLocator) Locate() (string, error) {
	for _, p := range l.paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if resolved, err := resolveBinaryPath(p); err == nil {
			return resolved, nil
		}
	}
	return "", printing.NewError(printing.ErrCodeHelperNotFound,
		"print helper not found in: "+strings.Join(l.paths, ", "), nil)
}

// resolveBinaryPath finds the full path to the binary
func resolveBinaryPath(path string) (string, error) {
	if filepath.IsAbs(path) || filepath.VolumeName(path) != "" {
		info, err := os.Stat(path)
		if err != nil {
			return "", err
		}
		if info.IsDir() {
			return "", os.ErrNotExist
		}
		return path, nil
	}

	return exec.LookPath(path)
}

var _ HelperResolver = (*HelperLocator)(nil)
