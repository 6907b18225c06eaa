package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	Waiting Type = iota + 1
	VolumeDetected
	VolumeStarted
	ScanStarted
	BucketStarted
	FileCopied
	FileSkipped
	FileFailed
	BucketDrained
	VolumeDone
	VerifyFailed
)

var typeNames = [...]string{
	Waiting:        "Waiting",
	VolumeDetected: "VolumeDetected",
	VolumeStarted:  "VolumeStarted",
	ScanStarted:    "ScanStarted",
	BucketStarted:  "BucketStarted",
	FileCopied:     "FileCopied",
	FileSkipped:    "FileSkipped",
	FileFailed:     "FileFailed",
	BucketDrained:  "BucketDrained",
	VolumeDone:     "VolumeDone",
	VerifyFailed:   "VerifyFailed",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single progress or summary event from the engine.
type Event struct {
	Type      Type
	Timestamp time.Time
	Volume    string // volume ID (VolumeDetected, VolumeStarted, VolumeDone)
	Bucket    string // bucket label, e.g. "Priority 1 (JPG)" or "Non-priority"
	Path      string // source path (per-file events)
	Dst       string // destination path or bucket directory
	Size      int64  // file size (per-file events) or volume used space
	Files     int64  // files copied in a bucket (BucketDrained)
	Bytes     int64  // bytes copied in a bucket (BucketDrained)
	Error     error
}
