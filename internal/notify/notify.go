package notify

import (
	"log/slog"

	"github.com/gen2brain/beeep"
)

// Notifier delivers fire-and-forget desktop notifications. Delivery failures
// are never surfaced to callers.
type Notifier interface {
	Notify(title, body string)
}

// Triggers selects which copy milestones raise a notification.
type Triggers struct {
	AfterAllTransfers  bool
	AfterEveryPriority bool
	AfterFirstPriority bool
	AfterLastPriority  bool
}

// Desktop sends notifications through the platform notification service.
type Desktop struct {
	AppName string
}

func (d *Desktop) Notify(title, body string) {
	if err := beeep.Notify(title, body, ""); err != nil {
		slog.Debug("notification failed", "app", d.AppName, "title", title, "error", err)
	}
}

// Noop discards all notifications.
type Noop struct{}

func (Noop) Notify(string, string) {}
