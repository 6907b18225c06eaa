package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"offload/internal/event"
	"offload/internal/stats"
	"offload/internal/volume"
)

const defaultPollInterval = 2 * time.Second

// Result is the outcome of a copy session.
type Result struct {
	Stats stats.Snapshot
	Err   error
}

// Run polls for removable volumes and processes each one sequentially,
// returning once every volume present at detection time has been handled.
// While no volume is attached it keeps polling until the context is
// cancelled, announcing the wait once.
func Run(ctx context.Context, cfg Config) Result {
	o := NewOrchestrator(cfg)
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	waiting := false
	for {
		vols, err := cfg.Volumes.List()
		if err != nil {
			return Result{Stats: o.stats.Snapshot(), Err: fmt.Errorf("list volumes: %w", err)}
		}
		if len(vols) == 0 {
			if !waiting {
				o.emit(event.Event{Type: event.Waiting})
				waiting = true
			}
			select {
			case <-ctx.Done():
				return Result{Stats: o.stats.Snapshot(), Err: ctx.Err()}
			case <-time.After(interval):
			}
			continue
		}

		var firstErr error
		for _, vol := range vols {
			if used, err := volume.UsedSpace(vol); err == nil {
				o.emit(event.Event{Type: event.VolumeDetected, Volume: vol.ID, Size: int64(used)})
			} else {
				o.emit(event.Event{Type: event.VolumeDetected, Volume: vol.ID})
			}

			if err := o.ProcessVolume(ctx, vol); err != nil {
				if ctx.Err() != nil {
					return Result{Stats: o.stats.Snapshot(), Err: ctx.Err()}
				}
				// An inaccessible output tree aborts this volume only; the
				// remaining volumes still get their turn.
				slog.Error("volume failed", "volume", vol.ID, "error", err)
				if firstErr == nil {
					firstErr = err
				}
			}
		}
		return Result{Stats: o.stats.Snapshot(), Err: firstErr}
	}
}
