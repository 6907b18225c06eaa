package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"offload/internal/event"
	"offload/internal/stats"
)

func runPlain(t *testing.T, p *plainPresenter, evs ...event.Event) {
	t.Helper()
	events := make(chan event.Event, len(evs))
	for _, ev := range evs {
		events <- ev
	}
	close(events)
	assert.NoError(t, p.Run(events))
}

func TestPlainPresenterMilestones(t *testing.T) {
	var out, errOut bytes.Buffer
	p := &plainPresenter{w: &out, errW: &errOut, stats: stats.NewCollector(), outRoot: "/dst"}

	runPlain(t, p,
		event.Event{Type: event.Waiting},
		event.Event{Type: event.VolumeDetected, Volume: "SDCARD", Size: 2048},
		event.Event{Type: event.VolumeStarted, Volume: "SDCARD", Dst: "/dst/Drive_SDCARD_copy"},
		event.Event{Type: event.BucketStarted, Bucket: "Priority 1 (JPG)", Dst: "/dst/Drive_SDCARD_copy/Priority_jpg"},
		event.Event{Type: event.BucketDrained, Bucket: "Priority 1 (JPG)", Files: 10, Bytes: 1024 * 1024},
		event.Event{Type: event.BucketDrained, Bucket: "Non-priority", Files: 0},
		event.Event{Type: event.VolumeDone, Volume: "SDCARD"},
	)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 7)
	assert.Contains(t, lines[0], "Waiting")
	assert.Contains(t, lines[1], "Detected drive SDCARD")
	assert.Contains(t, lines[3], "Drive_SDCARD_copy/Priority_jpg")
	assert.NotContains(t, lines[3], "/dst/", "output root is stripped")
	assert.Equal(t, "Finished Priority 1 (JPG). Copied 10 files of total size of 1.0 MiB.", lines[4])
	assert.Equal(t, "Finished Non-priority. No files were copied.", lines[5])
	assert.Contains(t, lines[6], "safe to remove")
	assert.Empty(t, errOut.String())
}

func TestPlainPresenterPerFileLinesNeedVerbose(t *testing.T) {
	var out, errOut bytes.Buffer
	p := &plainPresenter{w: &out, errW: &errOut, stats: stats.NewCollector()}

	runPlain(t, p,
		event.Event{Type: event.FileCopied, Dst: "Priority_jpg/a.jpg", Size: 1024},
		event.Event{Type: event.FileSkipped, Path: "/vol/a.jpg"},
	)
	assert.Empty(t, out.String())

	p.verbose = true
	runPlain(t, p,
		event.Event{Type: event.FileCopied, Dst: "Priority_jpg/a.jpg", Size: 1024},
		event.Event{Type: event.FileSkipped, Path: "/vol/a.jpg"},
	)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "a.jpg")
	assert.Contains(t, lines[1], "skipped")
}

func TestPlainPresenterErrorsGoToStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	p := &plainPresenter{w: &out, errW: &errOut, stats: stats.NewCollector()}

	runPlain(t, p,
		event.Event{Type: event.FileFailed, Path: "/vol/broken.jpg", Error: assert.AnError},
		event.Event{Type: event.VerifyFailed, Path: "/vol/bad.jpg"},
	)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "broken.jpg")
	assert.Contains(t, errOut.String(), "MISMATCH: /vol/bad.jpg")
}

func TestQuietPresenterSilent(t *testing.T) {
	p := &quietPresenter{stats: stats.NewCollector()}
	events := make(chan event.Event, 1)
	events <- event.Event{Type: event.FileCopied, Size: 10}
	close(events)

	assert.NoError(t, p.Run(events))
	assert.Empty(t, p.Summary())
}
