package utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes objects below a directory on disk. It stands in for R2
// when no bucket is configured.
type LocalStore struct {
	Root string
}

// EnsureDir creates the store's root directory if it doesn't exist
func (l *LocalStore) EnsureDir() error {
	return os.MkdirAll(l.Root, os.ModePerm)
}

func (l *LocalStore) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	destPath := filepath.Join(l.Root, clean)

	// ✅ Ensure the directory for the destination file exists
	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return "", err
	}
	tmp := destPath + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, destPath); err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(destPath), nil
}
