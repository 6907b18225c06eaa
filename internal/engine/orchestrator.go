package engine

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"offload/internal/event"
	"offload/internal/fsio"
	"offload/internal/ledger"
	"offload/internal/notify"
	"offload/internal/stats"
	"offload/internal/volume"
)

// Config describes a copy session. It is immutable for the session's
// duration; changing settings requires a new session.
type Config struct {
	OutputRoot      string
	Priorities      []string // normalized extension list, tier order
	Disabled        []string
	PriorityEnabled bool
	OnlyPriority    bool
	Verify          bool
	PollInterval    time.Duration

	Ledger   *ledger.Ledger
	Volumes  volume.Lister
	Notifier notify.Notifier
	Triggers notify.Triggers
	Events   chan<- event.Event
	Stats    *stats.Collector
}

// pendingFile describes a file discovered during the walk but not yet copied.
type pendingFile struct {
	key  string // ledger form of the fingerprint
	path string
	size int64
}

// Orchestrator drives the scan and drain passes over one volume at a time.
// It owns the ledger exclusively for the duration of a run.
type Orchestrator struct {
	cfg        Config
	classifier *Classifier
	led        *ledger.Ledger
	stats      *stats.Collector
	notifier   notify.Notifier
}

// NewOrchestrator creates an orchestrator for the session described by cfg.
func NewOrchestrator(cfg Config) *Orchestrator {
	o := &Orchestrator{
		cfg:        cfg,
		classifier: NewClassifier(cfg.Priorities, cfg.Disabled, cfg.PriorityEnabled),
		led:        cfg.Ledger,
		stats:      cfg.Stats,
		notifier:   cfg.Notifier,
	}
	if o.led == nil {
		o.led = ledger.OpenEphemeral()
	}
	if o.stats == nil {
		o.stats = stats.NewCollector()
	}
	if o.notifier == nil {
		o.notifier = notify.Noop{}
	}
	return o
}

// ProcessVolume copies one volume's files into <output>/Drive_<id>_copy,
// running the full Scanning -> DrainTier -> DrainNonPriority sequence. An
// error means the volume's output tree was inaccessible; per-file failures
// never surface here.
func (o *Orchestrator) ProcessVolume(ctx context.Context, vol volume.Volume) error {
	outDir, err := fsio.EnsureDir(o.cfg.OutputRoot, "Drive_"+vol.ID+"_copy")
	if err != nil {
		return err
	}
	o.stats.AddDirsCreated(1)
	o.emit(event.Event{Type: event.VolumeStarted, Volume: vol.ID, Dst: outDir})

	if !o.classifier.Enabled() {
		if err := o.copyAll(ctx, vol, outDir); err != nil {
			return err
		}
	} else {
		buckets, nonPriority, err := o.scan(ctx, vol, outDir)
		if err != nil {
			return err
		}
		if err := o.drainTiers(ctx, buckets, outDir); err != nil {
			return err
		}
		if !o.cfg.OnlyPriority {
			if err := o.drainNonPriority(ctx, nonPriority, outDir); err != nil {
				return err
			}
		}
	}

	o.stats.AddVolumesCopied(1)
	o.emit(event.Event{Type: event.VolumeDone, Volume: vol.ID, Dst: outDir})
	return nil
}

// scan walks the volume. Tier-0 files are copied inline; every other
// non-disabled file is buffered as a pendingFile for a later drain pass.
func (o *Orchestrator) scan(ctx context.Context, vol volume.Volume, outDir string) ([][]pendingFile, []pendingFile, error) {
	o.emit(event.Event{Type: event.ScanStarted, Volume: vol.ID})

	buckets := make([][]pendingFile, o.classifier.Tiers())
	var nonPriority []pendingFile

	label := fmt.Sprintf("Priority 1 (%s)", o.classifier.TierName(0))
	var tier0Dir string
	var tier0Files, tier0Bytes int64

	err := filepath.WalkDir(vol.Path, func(path string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			slog.Warn("scan error", "path", path, "error", err)
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			slog.Warn("stat failed", "path", path, "error", err)
			return nil
		}
		o.stats.AddFilesScanned(1)

		// A file we cannot fingerprint is skipped for this pass; with no
		// fingerprint recorded it stays eligible for a future run.
		fp, err := FingerprintFile(path, info.Size())
		if err != nil {
			slog.Warn("fingerprint failed", "path", path, "error", err)
			o.stats.AddFilesFailed(1)
			o.emit(event.Event{Type: event.FileFailed, Path: path, Error: err})
			return nil
		}
		key := fp.String()

		if o.led.Contains(key) {
			o.stats.AddFilesSkipped(1)
			o.emit(event.Event{Type: event.FileSkipped, Path: path, Size: info.Size()})
			return nil
		}

		route := o.classifier.Classify(filepath.Ext(d.Name()))
		switch {
		case route.Kind == RouteDisabled:
			return nil

		case route.Kind == RouteNonPriority:
			nonPriority = append(nonPriority, pendingFile{key: key, path: path, size: info.Size()})
			return nil

		case route.Tier == 0:
			if tier0Dir == "" {
				tier0Dir, err = o.bucketDir(outDir, "Priority_"+o.classifier.TierExt(0)[1:], label)
				if err != nil {
					return err
				}
			}
			if n, ok := o.copyOne(tier0Dir, path, key, label); ok {
				tier0Files++
				tier0Bytes += n
			}
			return nil

		default:
			buckets[route.Tier] = append(buckets[route.Tier], pendingFile{key: key, path: path, size: info.Size()})
			return nil
		}
	})
	if err != nil {
		return nil, nil, err
	}

	if perr := o.led.Persist(); perr != nil {
		slog.Error("persist ledger", "error", perr)
	}
	o.emit(event.Event{Type: event.BucketDrained, Bucket: label, Files: tier0Files, Bytes: tier0Bytes})

	if o.cfg.Triggers.AfterFirstPriority || o.cfg.Triggers.AfterEveryPriority {
		o.notifier.Notify("Finished "+label+".", o.bucketMessage(tier0Files, tier0Bytes, o.classifier.TierName(0)))
	}
	return buckets, nonPriority, nil
}

// drainTiers copies the buffered tiers 1..N-1 in priority order, persisting
// the ledger once per tier visited.
func (o *Orchestrator) drainTiers(ctx context.Context, buckets [][]pendingFile, outDir string) error {
	var cumFiles, cumBytes int64
	notifyAfterLast := false

	for tier := 1; tier < o.classifier.Tiers(); tier++ {
		name := o.classifier.TierName(tier)
		label := fmt.Sprintf("Priority %d (%s)", tier+1, name)
		var files, bytes int64

		if len(buckets[tier]) > 0 {
			dir, err := o.bucketDir(outDir, "Priority_"+o.classifier.TierExt(tier)[1:], label)
			if err != nil {
				return err
			}
			for _, pf := range buckets[tier] {
				if cerr := ctx.Err(); cerr != nil {
					return cerr
				}
				if n, ok := o.copyOne(dir, pf.path, pf.key, label); ok {
					files++
					bytes += n
				}
			}
		}

		if err := o.led.Persist(); err != nil {
			slog.Error("persist ledger", "error", err)
		}
		o.emit(event.Event{Type: event.BucketDrained, Bucket: label, Files: files, Bytes: bytes})
		cumFiles += files
		cumBytes += bytes

		if o.cfg.Triggers.AfterEveryPriority {
			o.notifier.Notify("Finished "+label+".", o.bucketMessage(files, bytes, name))
		} else if o.cfg.Triggers.AfterLastPriority {
			notifyAfterLast = true
		}
	}

	// With no tiers beyond the first there is no last-priority event.
	if notifyAfterLast {
		o.notifier.Notify("Copied last priority files", o.bucketMessage(cumFiles, cumBytes, ""))
	}
	return nil
}

// drainNonPriority copies the buffered non-priority files. Skipped entirely
// when the session copies only priority files.
func (o *Orchestrator) drainNonPriority(ctx context.Context, pending []pendingFile, outDir string) error {
	const label = "Non-priority"
	var files, bytes int64

	if len(pending) > 0 {
		dir, err := o.bucketDir(outDir, "Non-priority", label)
		if err != nil {
			return err
		}
		for _, pf := range pending {
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			if n, ok := o.copyOne(dir, pf.path, pf.key, label); ok {
				files++
				bytes += n
			}
		}
	}

	if err := o.led.Persist(); err != nil {
		slog.Error("persist ledger", "error", err)
	}
	o.emit(event.Event{Type: event.BucketDrained, Bucket: label, Files: files, Bytes: bytes})

	if o.cfg.Triggers.AfterAllTransfers {
		o.notifier.Notify("Finished copying Non-priority files", o.bucketMessage(files, bytes, label))
	}
	return nil
}

// copyAll handles the priority-disabled session: every non-disabled file is
// copied straight into All_files_copied during the walk.
func (o *Orchestrator) copyAll(ctx context.Context, vol volume.Volume, outDir string) error {
	o.emit(event.Event{Type: event.ScanStarted, Volume: vol.ID})

	const label = "All files"
	var dir string
	var files, bytes int64

	err := filepath.WalkDir(vol.Path, func(path string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			slog.Warn("scan error", "path", path, "error", err)
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			slog.Warn("stat failed", "path", path, "error", err)
			return nil
		}
		o.stats.AddFilesScanned(1)

		fp, err := FingerprintFile(path, info.Size())
		if err != nil {
			slog.Warn("fingerprint failed", "path", path, "error", err)
			o.stats.AddFilesFailed(1)
			o.emit(event.Event{Type: event.FileFailed, Path: path, Error: err})
			return nil
		}
		key := fp.String()

		if o.led.Contains(key) {
			o.stats.AddFilesSkipped(1)
			o.emit(event.Event{Type: event.FileSkipped, Path: path, Size: info.Size()})
			return nil
		}
		if o.classifier.Classify(filepath.Ext(d.Name())).Kind == RouteDisabled {
			return nil
		}

		if dir == "" {
			dir, err = o.bucketDir(outDir, "All_files_copied", label)
			if err != nil {
				return err
			}
		}
		if n, ok := o.copyOne(dir, path, key, label); ok {
			files++
			bytes += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	if perr := o.led.Persist(); perr != nil {
		slog.Error("persist ledger", "error", perr)
	}
	o.emit(event.Event{Type: event.BucketDrained, Bucket: label, Files: files, Bytes: bytes})

	if o.cfg.Triggers.AfterAllTransfers {
		title := fmt.Sprintf("Finished copying all files from disk %s", vol.ID)
		o.notifier.Notify(title, o.bucketMessage(files, bytes, ""))
	}
	return nil
}

// copyOne copies a single file into dir, verifies it when configured, and
// records its fingerprint in the ledger. Failures are logged and counted;
// the fingerprint is left unrecorded so the file is retried next run.
// The ledger is re-checked here because buffered records can share a
// fingerprint with a file copied after they were buffered.
func (o *Orchestrator) copyOne(dir, srcPath, key, bucket string) (int64, bool) {
	if o.led.Contains(key) {
		o.stats.AddFilesSkipped(1)
		o.emit(event.Event{Type: event.FileSkipped, Path: srcPath, Bucket: bucket})
		return 0, false
	}

	dst := filepath.Join(dir, filepath.Base(srcPath))
	final, n, err := fsio.Copy(srcPath, dst)
	if err != nil {
		slog.Warn("copy failed", "src", srcPath, "error", err)
		o.stats.AddFilesFailed(1)
		o.emit(event.Event{Type: event.FileFailed, Path: srcPath, Bucket: bucket, Error: err})
		return 0, false
	}

	if o.cfg.Verify {
		if err := VerifyCopy(srcPath, final); err != nil {
			_ = os.Remove(final)
			slog.Warn("verify failed", "src", srcPath, "dst", final, "error", err)
			o.stats.AddFilesFailed(1)
			o.emit(event.Event{Type: event.VerifyFailed, Path: srcPath, Dst: final, Error: err})
			return 0, false
		}
	}

	o.led.Add(key)
	o.stats.AddFilesCopied(1)
	o.stats.AddBytesCopied(n)
	o.emit(event.Event{Type: event.FileCopied, Path: srcPath, Dst: final, Size: n, Bucket: bucket})
	return n, true
}

// bucketDir ensures a bucket directory exists and announces it.
func (o *Orchestrator) bucketDir(outDir, name, label string) (string, error) {
	dir, err := fsio.EnsureDir(outDir, name)
	if err != nil {
		return "", err
	}
	o.stats.AddDirsCreated(1)
	o.emit(event.Event{Type: event.BucketStarted, Bucket: label, Dst: dir})
	return dir, nil
}

// bucketMessage is the human summary used in notifications. name is the tier
// name for the zero-file case, or "" for generic wording.
func (o *Orchestrator) bucketMessage(files, bytes int64, name string) string {
	if files > 0 {
		return fmt.Sprintf("Copied %d files of total size of %s.", files, humanize.IBytes(uint64(bytes)))
	}
	if name != "" {
		return fmt.Sprintf("No %s files have been found. No files were copied.", name)
	}
	return "No files were copied."
}

func (o *Orchestrator) emit(e event.Event) {
	if o.cfg.Events == nil {
		return
	}
	e.Timestamp = time.Now()
	o.cfg.Events <- e
}
