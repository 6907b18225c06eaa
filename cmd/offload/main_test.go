package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offload/internal/engine"
	"offload/internal/stats"
)

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var exitErr *exitError
	require.ErrorAs(t, err, &exitErr)
	return exitErr.code
}

func TestSessionExit(t *testing.T) {
	volErr := errors.New("output tree inaccessible")

	tests := []struct {
		name   string
		result engine.Result
		want   int
	}{
		{"clean run", engine.Result{Stats: stats.Snapshot{FilesCopied: 5}}, 0},
		{"nothing to copy", engine.Result{}, 0},
		{"per-file failures exit partial", engine.Result{
			Stats: stats.Snapshot{FilesCopied: 4, FilesFailed: 1},
		}, 1},
		{"only failures still exit partial", engine.Result{
			Stats: stats.Snapshot{FilesFailed: 3},
		}, 1},
		{"volume error after copies", engine.Result{
			Stats: stats.Snapshot{FilesCopied: 2},
			Err:   volErr,
		}, 1},
		{"volume error with nothing copied", engine.Result{Err: volErr}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(t, sessionExit(tt.result)))
		})
	}
}
