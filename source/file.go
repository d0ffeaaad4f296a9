package source

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/erraggy/refparser/referrors"
)

// FileResolver reads file:// URLs from the local file system.
type FileResolver struct {
	// RootDir, when set, confines reads to files inside this directory.
	// References escaping it fail with IsPathTraversal set.
	RootDir string
	// MaxSize is the maximum file size in bytes (0 uses DefaultMaxSize).
	MaxSize int64
}

// Name implements Resolver.
func (f *FileResolver) Name() string { return "file" }

// CanResolve implements Resolver.
func (f *FileResolver) CanResolve(u *url.URL) bool {
	return u.Scheme == "file"
}

// Read implements Resolver.
func (f *FileResolver) Read(ctx context.Context, u *url.URL) (*Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := FilePath(u)
	if f.RootDir != "" {
		if err := f.checkConfined(path); err != nil {
			return nil, &referrors.UnresolvableSourceError{
				URL:             u.String(),
				Resolver:        f.Name(),
				IsPathTraversal: true,
				Message:         err.Error(),
			}
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: failed to open %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := readLimited(file, f.MaxSize, "file "+path)
	if err != nil {
		return nil, err
	}
	return &Resource{
		URL:         u.String(),
		Data:        data,
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Resolver:    f.Name(),
	}, nil
}

// checkConfined ensures path lies inside RootDir.
func (f *FileResolver) checkConfined(path string) error {
	absRoot, err := filepath.Abs(f.RootDir)
	if err != nil {
		return fmt.Errorf("failed to resolve root directory: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve file path: %w", err)
	}
	// filepath.Rel also fails for paths on different Windows volumes.
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%s is outside %s", absPath, absRoot)
	}
	return nil
}

// FilePath converts a file:// URL into an OS path.
func FilePath(u *url.URL) string {
	p := u.Path
	if runtime.GOOS == "windows" && len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p)
}
