package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// SanitizeOutputPath checks that path can receive a written document and
// returns it cleaned and absolute.
//
// The parent directory must already exist. The target itself may be missing
// or a regular file; symlinks and directories are refused so that a document
// never lands somewhere other than the named file.
func SanitizeOutputPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("pathutil: empty output path")
	}
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("pathutil: cannot resolve absolute path: %w", err)
	}

	parent, err := os.Stat(filepath.Dir(abs))
	if err != nil {
		return "", fmt.Errorf("pathutil: output directory: %w", err)
	}
	if !parent.IsDir() {
		return "", fmt.Errorf("pathutil: output parent is not a directory: %s", filepath.Dir(abs))
	}

	info, err := os.Lstat(abs)
	if os.IsNotExist(err) {
		return abs, nil
	}
	if err != nil {
		return "", fmt.Errorf("pathutil: cannot stat output path: %w", err)
	}
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		return "", fmt.Errorf("pathutil: refusing to write to symlink: %s", abs)
	case info.IsDir():
		return "", fmt.Errorf("pathutil: output path is a directory: %s", abs)
	}
	return abs, nil
}
