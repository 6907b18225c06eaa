package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		want string
		typ  Type
	}{
		{want: "Waiting", typ: Waiting},
		{want: "VolumeDetected", typ: VolumeDetected},
		{want: "VolumeStarted", typ: VolumeStarted},
		{want: "ScanStarted", typ: ScanStarted},
		{want: "BucketStarted", typ: BucketStarted},
		{want: "FileCopied", typ: FileCopied},
		{want: "FileSkipped", typ: FileSkipped},
		{want: "FileFailed", typ: FileFailed},
		{want: "BucketDrained", typ: BucketDrained},
		{want: "VolumeDone", typ: VolumeDone},
		{want: "VerifyFailed", typ: VerifyFailed},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestTypeStringUnknown(t *testing.T) {
	assert.Equal(t, "Unknown", Type(999).String())
	assert.Equal(t, "Unknown", Type(0).String())
}

func TestEventZeroValue(t *testing.T) {
	var e Event
	assert.Equal(t, Type(0), e.Type)
	assert.True(t, e.Timestamp.IsZero())
	assert.Empty(t, e.Path)
	assert.Zero(t, e.Size)
	assert.Zero(t, e.Files)
	assert.Zero(t, e.Bytes)
	require.NoError(t, e.Error)
}

func TestEventFields(t *testing.T) {
	now := time.Now()
	e := Event{
		Type:      FileCopied,
		Timestamp: now,
		Volume:    "sdb1",
		Bucket:    "Priority 1 (JPG)",
		Path:      "/mnt/sdb1/photo.jpg",
		Dst:       "/out/Drive_sdb1_copy/Priority_jpg/photo.jpg",
		Size:      1024,
	}
	assert.Equal(t, FileCopied, e.Type)
	assert.Equal(t, now, e.Timestamp)
	assert.Equal(t, "sdb1", e.Volume)
	assert.Equal(t, "Priority 1 (JPG)", e.Bucket)
	assert.Equal(t, "/mnt/sdb1/photo.jpg", e.Path)
	assert.Equal(t, int64(1024), e.Size)
}
