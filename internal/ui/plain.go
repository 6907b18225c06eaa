package ui

import (
	"fmt"
	"io"
	"strings"

	"offload/internal/event"
	"offload/internal/stats"
)

// plainPresenter writes one line per event of interest to stdout. Per-file
// lines are gated behind verbose; bucket and drive milestones always print.
type plainPresenter struct {
	w       io.Writer
	errW    io.Writer
	stats   *stats.Collector
	outRoot string
	verbose bool
}

func (p *plainPresenter) Run(events <-chan event.Event) error {
	for ev := range events {
		p.handleEvent(ev)
	}
	return nil
}

func (p *plainPresenter) handleEvent(ev event.Event) {
	switch ev.Type {
	case event.Waiting:
		fmt.Fprintln(p.w, "Insert a removable drive to begin. Waiting...")
	case event.VolumeDetected:
		if ev.Size > 0 {
			fmt.Fprintf(p.w, "Detected drive %s (%s used).\n", ev.Volume, FormatBytes(ev.Size))
		} else {
			fmt.Fprintf(p.w, "Detected drive %s.\n", ev.Volume)
		}
	case event.VolumeStarted:
		fmt.Fprintf(p.w, "Copying drive %s to %s.\n", ev.Volume, ev.Dst)
	case event.ScanStarted:
		fmt.Fprintln(p.w, "Scanning files...")
	case event.BucketStarted:
		fmt.Fprintf(p.w, "Started copying %s files to %s.\n", ev.Bucket, p.strip(ev.Dst))
	case event.FileCopied:
		if p.verbose {
			fmt.Fprintf(p.w, "%s  %s\n", p.strip(ev.Dst), FormatBytes(ev.Size))
		}
	case event.FileSkipped:
		if p.verbose {
			fmt.Fprintf(p.w, "%s  skipped (already copied)\n", ev.Path)
		}
	case event.FileFailed:
		errMsg := "error"
		if ev.Error != nil {
			errMsg = ev.Error.Error()
		}
		fmt.Fprintf(p.errW, "%s  %s\n", ev.Path, errMsg)
	case event.VerifyFailed:
		fmt.Fprintf(p.errW, "MISMATCH: %s\n", ev.Path)
	case event.BucketDrained:
		if ev.Files > 0 {
			fmt.Fprintf(p.w, "Finished %s. Copied %s files of total size of %s.\n",
				ev.Bucket, FormatCount(ev.Files), FormatBytes(ev.Bytes))
		} else {
			fmt.Fprintf(p.w, "Finished %s. No files were copied.\n", ev.Bucket)
		}
	case event.VolumeDone:
		fmt.Fprintf(p.w, "Finished drive %s. It is safe to remove it.\n", ev.Volume)
	}
}

// strip trims the output root prefix so lines stay short.
func (p *plainPresenter) strip(path string) string {
	if p.outRoot == "" {
		return path
	}
	trimmed := strings.TrimPrefix(path, p.outRoot)
	return strings.TrimPrefix(trimmed, "/")
}

func (p *plainPresenter) Summary() string {
	return completionSummary(p.stats.Snapshot())
}
