package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoop(t *testing.T) {
	// Must not panic; Noop is the notifier used under --no-notify.
	Noop{}.Notify("title", "body")
}

func TestTriggersZeroValue(t *testing.T) {
	var tr Triggers
	assert.False(t, tr.AfterAllTransfers)
	assert.False(t, tr.AfterEveryPriority)
	assert.False(t, tr.AfterFirstPriority)
	assert.False(t, tr.AfterLastPriority)
}
