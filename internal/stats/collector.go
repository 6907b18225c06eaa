package stats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Collector tracks copy-session statistics using atomic counters. The engine
// writes, presenters read; neither side ever blocks the other.
type Collector struct {
	filesScanned  atomic.Int64
	filesCopied   atomic.Int64
	filesSkipped  atomic.Int64
	filesFailed   atomic.Int64
	bytesCopied   atomic.Int64
	dirsCreated   atomic.Int64
	volumesCopied atomic.Int64
	startTime     time.Time
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	FilesScanned  int64
	FilesCopied   int64
	FilesSkipped  int64
	FilesFailed   int64
	BytesCopied   int64
	DirsCreated   int64
	VolumesCopied int64
	Elapsed       time.Duration
}

func (c *Collector) AddFilesScanned(n int64)  { c.filesScanned.Add(n) }
func (c *Collector) AddFilesCopied(n int64)   { c.filesCopied.Add(n) }
func (c *Collector) AddFilesSkipped(n int64)  { c.filesSkipped.Add(n) }
func (c *Collector) AddFilesFailed(n int64)   { c.filesFailed.Add(n) }
func (c *Collector) AddBytesCopied(n int64)   { c.bytesCopied.Add(n) }
func (c *Collector) AddDirsCreated(n int64)   { c.dirsCreated.Add(n) }
func (c *Collector) AddVolumesCopied(n int64) { c.volumesCopied.Add(n) }

// Snapshot returns a consistent point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FilesScanned:  c.filesScanned.Load(),
		FilesCopied:   c.filesCopied.Load(),
		FilesSkipped:  c.filesSkipped.Load(),
		FilesFailed:   c.filesFailed.Load(),
		BytesCopied:   c.bytesCopied.Load(),
		DirsCreated:   c.dirsCreated.Load(),
		VolumesCopied: c.volumesCopied.Load(),
		Elapsed:       c.Elapsed(),
	}
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"scanned=%d copied=%d skipped=%d failed=%d bytes=%d dirs=%d volumes=%d",
		s.FilesScanned, s.FilesCopied, s.FilesSkipped, s.FilesFailed,
		s.BytesCopied, s.DirsCreated, s.VolumesCopied,
	)
}
