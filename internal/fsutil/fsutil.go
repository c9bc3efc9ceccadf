// Package fsutil holds file helpers shared by the writers of build output.
package fsutil

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

const (
	DirPerm  fs.FileMode = 0o755
	FilePerm fs.FileMode = 0o644
)

// WriteFileAtomic writes data to path through a temp file and rename,
// creating parent directories as needed.
func WriteFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return fmt.Errorf("create parent of %s: %w", path, err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	// atomic.WriteFile leaves new files with the temp file's 0600 mode.
	if err := os.Chmod(path, FilePerm); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	return nil
}

// Within reports whether target is root or lies below it. Both paths must
// already be cleaned and absolute.
func Within(root, target string) bool {
	if target == root {
		return true
	}
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// CopyTree copies regular files from src into dst, preserving relative layout.
// It returns the number of files copied.
func CopyTree(src, dst string) (int, error) {
	count := 0
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, DirPerm)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := CopyFile(path, target); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return count, nil
}

// CopyFile copies the regular file src to dst, creating dst's parent.
func CopyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), DirPerm); err != nil {
		return err
	}
	// #nosec G304 -- src comes from a configured directory
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	// #nosec G304 -- dst is derived from the output directory
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, FilePerm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
