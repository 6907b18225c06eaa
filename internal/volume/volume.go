package volume

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"
)

// Volume is a removable storage device currently attached to the host.
type Volume struct {
	ID   string // short identifier used for the Drive_<id>_copy directory
	Path string // mount point to walk
}

// Lister enumerates currently-attached removable volumes.
type Lister interface {
	List() ([]Volume, error)
}

// UsedSpace returns the number of bytes in use on the volume.
func UsedSpace(v Volume) (uint64, error) {
	usage, err := disk.Usage(v.Path)
	if err != nil {
		return 0, fmt.Errorf("usage %s: %w", v.Path, err)
	}
	return usage.Used, nil
}

// removableRoots are mount-point prefixes under which desktop environments
// mount removable media.
var removableRoots = []string{
	"/media/",
	"/run/media/",
	"/Volumes/",
	"/mnt/",
}

// pseudoFstypes are filesystem types that never correspond to removable media.
var pseudoFstypes = map[string]struct{}{
	"tmpfs":    {},
	"devtmpfs": {},
	"proc":     {},
	"sysfs":    {},
	"overlay":  {},
	"squashfs": {},
	"cgroup2":  {},
	"autofs":   {},
}

// SystemLister lists removable volumes from the OS mount table.
type SystemLister struct {
	// Roots overrides the default mount-point prefixes when non-nil.
	Roots []string
}

// List returns every mounted volume whose mount point sits under a removable
// media root. Mount-point location is a heuristic; the mount table does not
// carry a portable removable flag.
func (l *SystemLister) List() ([]Volume, error) {
	parts, err := disk.Partitions(false)
	if err != nil {
		return nil, fmt.Errorf("list partitions: %w", err)
	}

	roots := l.Roots
	if roots == nil {
		roots = removableRoots
	}

	var vols []Volume
	for _, p := range parts {
		if _, ok := pseudoFstypes[p.Fstype]; ok {
			continue
		}
		if !underAny(p.Mountpoint, roots) {
			continue
		}
		vols = append(vols, Volume{
			ID:   filepath.Base(p.Mountpoint),
			Path: p.Mountpoint,
		})
	}
	return vols, nil
}

func underAny(mountpoint string, roots []string) bool {
	for _, root := range roots {
		if strings.HasPrefix(mountpoint, root) && mountpoint != strings.TrimSuffix(root, "/") {
			return true
		}
	}
	return false
}
