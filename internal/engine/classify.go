package engine

import "strings"

// RouteKind is the classification outcome for one file.
type RouteKind int

const (
	RoutePriority    RouteKind = iota // copy to the tier's Priority_<ext> bucket
	RouteNonPriority                  // copy to the Non-priority bucket
	RouteDisabled                     // never copied
)

// Route is a classified destination: a tier index when Kind is RoutePriority,
// otherwise kind alone.
type Route struct {
	Kind RouteKind
	Tier int
}

// NormalizeExtensions builds a priority list from raw configured entries:
// lower-cased, dot-prefixed, longer than the dot alone. Invalid and duplicate
// entries are dropped, first occurrence wins, order preserved.
func NormalizeExtensions(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, ext := range raw {
		ext = strings.ToLower(ext)
		if len(ext) <= 1 || ext[0] != '.' {
			continue
		}
		if _, dup := seen[ext]; dup {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	return out
}

// Classifier maps file extensions to priority tiers. Tier index is position
// in the configured list; tier 0 is copied eagerly during the scan.
type Classifier struct {
	enabled  bool
	order    []string
	tiers    map[string]int
	disabled map[string]struct{}
}

// NewClassifier builds a classifier from an already-normalized priority list
// and a raw disabled-extension set. Priority membership overrides disabling.
func NewClassifier(priorities, disabled []string, enabled bool) *Classifier {
	c := &Classifier{
		enabled:  enabled && len(priorities) > 0,
		order:    priorities,
		tiers:    make(map[string]int, len(priorities)),
		disabled: make(map[string]struct{}, len(disabled)),
	}
	for i, ext := range priorities {
		c.tiers[ext] = i
	}
	for _, ext := range disabled {
		c.disabled[strings.ToLower(ext)] = struct{}{}
	}
	return c
}

// Classify routes a file extension. Comparison is case-insensitive.
func (c *Classifier) Classify(ext string) Route {
	ext = strings.ToLower(ext)

	if c.enabled {
		if tier, ok := c.tiers[ext]; ok {
			return Route{Kind: RoutePriority, Tier: tier}
		}
	}
	if _, ok := c.disabled[ext]; ok {
		return Route{Kind: RouteDisabled}
	}
	return Route{Kind: RouteNonPriority}
}

// Enabled reports whether priority routing is active for the session.
func (c *Classifier) Enabled() bool {
	return c.enabled
}

// Tiers returns the number of priority tiers.
func (c *Classifier) Tiers() int {
	return len(c.order)
}

// TierExt returns the extension for a tier index, dot included.
func (c *Classifier) TierExt(tier int) string {
	return c.order[tier]
}

// TierName returns the bare upper-cased extension used in directory names and
// messages, e.g. "JPG" for tier of ".jpg".
func (c *Classifier) TierName(tier int) string {
	return strings.ToUpper(c.order[tier][1:])
}
