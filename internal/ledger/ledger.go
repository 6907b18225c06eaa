// Package ledger persists the set of fingerprints already copied in prior
// runs, so a re-run over the same media copies nothing twice.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
)

// Ledger owns the set of copied fingerprints. It is loaded once at session
// start and flushed to disk at bucket boundaries; callers never touch the
// underlying container.
type Ledger struct {
	path      string
	ephemeral bool
	set       map[string]struct{}
	dirty     bool
}

// Open loads the ledger at path. A missing or malformed file is treated as an
// empty ledger and a fresh empty file is written in its place.
func Open(path string) (*Ledger, error) {
	l := &Ledger{path: path, set: make(map[string]struct{})}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read ledger %s: %w", path, err)
		}
		if err := l.writeFile(); err != nil {
			return nil, err
		}
		return l, nil
	}

	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		// Corrupt state is recovered, not fatal: start over with an empty
		// ledger and rewrite the file.
		if err := l.writeFile(); err != nil {
			return nil, err
		}
		return l, nil
	}

	for _, fp := range entries {
		l.set[fp] = struct{}{}
	}
	return l, nil
}

// OpenEphemeral returns an empty in-memory ledger whose Persist and Reset are
// no-ops on disk. Prior-run history is neither consulted nor altered.
func OpenEphemeral() *Ledger {
	return &Ledger{ephemeral: true, set: make(map[string]struct{})}
}

// Contains reports whether fp has already been copied.
func (l *Ledger) Contains(fp string) bool {
	_, ok := l.set[fp]
	return ok
}

// Add records fp as copied. The change is in-memory until Persist.
func (l *Ledger) Add(fp string) {
	if _, ok := l.set[fp]; ok {
		return
	}
	l.set[fp] = struct{}{}
	l.dirty = true
}

// Len returns the number of recorded fingerprints.
func (l *Ledger) Len() int {
	return len(l.set)
}

// Persist overwrites the durable copy with the current set. It is a no-op for
// ephemeral ledgers and when nothing changed since the last persist, so
// callers may invoke it once per bucket unconditionally.
func (l *Ledger) Persist() error {
	if l.ephemeral || !l.dirty {
		return nil
	}
	if err := l.writeFile(); err != nil {
		return err
	}
	l.dirty = false
	return nil
}

// Reset empties the ledger and overwrites the durable copy with an empty
// record.
func (l *Ledger) Reset() error {
	l.set = make(map[string]struct{})
	l.dirty = false
	if l.ephemeral {
		return nil
	}
	return l.writeFile()
}

// Path returns the durable file path, or "" for ephemeral ledgers.
func (l *Ledger) Path() string {
	return l.path
}

// writeFile writes the full set as a JSON array via a temp file and rename,
// so a crash mid-write leaves the previous ledger intact.
func (l *Ledger) writeFile() error {
	entries := make([]string, 0, len(l.set))
	for fp := range l.set {
		entries = append(entries, fp)
	}
	sort.Strings(entries)

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}

	tmp := l.path + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

// DefaultPath returns the ledger location under the user state directory.
func DefaultPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "offload", "state.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "offload-state.json")
	}
	return filepath.Join(home, ".local", "state", "offload", "state.json")
}
