package fsio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	root := t.TempDir()

	dir, err := EnsureDir(root, "Drive_sdb1_copy", "Priority_jpg")
	require.NoError(t, err)
	assert.DirExists(t, dir)

	// Idempotent.
	again, err := EnsureDir(root, "Drive_sdb1_copy", "Priority_jpg")
	require.NoError(t, err)
	assert.Equal(t, dir, again)
}

func TestCollisionPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/out/photo.jpg", "/out/photo_copy.jpg"},
		{"/out/archive.tar.gz", "/out/archive.tar_copy.gz"},
		{"/out/noext", "/out/noext_copy"},
		{"/out/.hidden", "/out/_copy.hidden"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CollisionPath(tt.in))
		})
	}
}

func TestCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(src, []byte("content"), 0o644))

	final, n, err := Copy(src, dst)
	require.NoError(t, err)
	assert.Equal(t, dst, final)
	assert.Equal(t, int64(7), n)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), got)
}

func TestCopy_CollisionNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	src1 := filepath.Join(dir, "src1.txt")
	src2 := filepath.Join(dir, "src2.txt")
	dst := filepath.Join(dir, "name.txt")
	require.NoError(t, os.WriteFile(src1, []byte("first"), 0o644))
	require.NoError(t, os.WriteFile(src2, []byte("second"), 0o644))

	final1, _, err := Copy(src1, dst)
	require.NoError(t, err)
	assert.Equal(t, dst, final1)

	final2, _, err := Copy(src2, dst)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "name_copy.txt"), final2)

	// The first copy is untouched.
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got)

	got, err = os.ReadFile(final2)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestCopy_MissingSource(t *testing.T) {
	dir := t.TempDir()
	_, _, err := Copy(filepath.Join(dir, "nope.txt"), filepath.Join(dir, "out.txt"))
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "out.txt"))
}
