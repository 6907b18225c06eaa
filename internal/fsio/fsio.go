// Package fsio provides the file-level copy primitive used by the engine:
// destination-collision handling on top of the platform copy syscalls, plus
// directory creation.
package fsio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"offload/internal/platform"
)

// EnsureDir creates the directory at the joined path elements if it does not
// exist and returns the resulting path.
func EnsureDir(elem ...string) (string, error) {
	dir := filepath.Join(elem...)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}
	return dir, nil
}

// CollisionPath returns the path a copy lands at when dst is already taken:
// a "_copy" suffix inserted before the extension.
func CollisionPath(dst string) string {
	ext := filepath.Ext(dst)
	stem := strings.TrimSuffix(dst, ext)
	return stem + "_copy" + ext
}

// Copy copies src to dst whole. If dst already exists the file is written to
// CollisionPath(dst) instead, never overwriting the original. The check is
// path-level only; content dedup is the caller's concern. Returns the final
// destination path and the number of bytes written.
func Copy(src, dst string) (string, int64, error) {
	if _, err := os.Lstat(dst); err == nil {
		dst = CollisionPath(dst)
	}

	info, err := os.Lstat(src)
	if err != nil {
		return "", 0, fmt.Errorf("stat source %s: %w", src, err)
	}

	dstFd, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("create %s: %w", dst, err)
	}

	result, err := platform.CopyFile(platform.CopyFileParams{
		SrcPath: src,
		DstFd:   dstFd,
		Size:    info.Size(),
	})
	if cerr := dstFd.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// A partial destination is worse than none: the next run would see
		// the path taken and divert the retry to the _copy name.
		_ = os.Remove(dst)
		return "", result.BytesWritten, fmt.Errorf("copy %s: %w", src, err)
	}

	return dst, result.BytesWritten, nil
}
