package ui

import (
	"offload/internal/event"
	"offload/internal/stats"
)

// quietPresenter consumes events but produces no output.
type quietPresenter struct {
	stats *stats.Collector
}

func (p *quietPresenter) Run(events <-chan event.Event) error {
	for range events {
		// Counters are written by the engine directly; presenters only read
		// from the collector, never write.
	}
	return nil
}

func (p *quietPresenter) Summary() string {
	return ""
}
