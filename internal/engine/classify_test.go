package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeExtensions(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want []string
	}{
		{
			name: "lowercases and keeps order",
			raw:  []string{".JPG", ".txt"},
			want: []string{".jpg", ".txt"},
		},
		{
			name: "drops duplicates first wins",
			raw:  []string{".jpg", ".TXT", ".Jpg", ".txt"},
			want: []string{".jpg", ".txt"},
		},
		{
			name: "drops invalid entries",
			raw:  []string{"jpg", ".", "", ".mp4"},
			want: []string{".mp4"},
		},
		{
			name: "empty input",
			raw:  nil,
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeExtensions(tt.raw))
		})
	}
}

func TestClassify_PriorityEnabled(t *testing.T) {
	c := NewClassifier([]string{".jpg", ".txt"}, []string{".mov"}, true)

	tests := []struct {
		ext  string
		want Route
	}{
		{".jpg", Route{Kind: RoutePriority, Tier: 0}},
		{".JPG", Route{Kind: RoutePriority, Tier: 0}},
		{".txt", Route{Kind: RoutePriority, Tier: 1}},
		{".mov", Route{Kind: RouteDisabled}},
		{".MOV", Route{Kind: RouteDisabled}},
		{".png", Route{Kind: RouteNonPriority}},
		{"", Route{Kind: RouteNonPriority}},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.ext))
		})
	}
}

// An extension in both lists is copied at its tier: priority membership
// overrides disabling.
func TestClassify_PriorityOverridesDisabled(t *testing.T) {
	c := NewClassifier([]string{".mov"}, []string{".mov"}, true)
	assert.Equal(t, Route{Kind: RoutePriority, Tier: 0}, c.Classify(".mov"))
}

func TestClassify_PriorityDisabledSession(t *testing.T) {
	c := NewClassifier([]string{".jpg"}, []string{".mov"}, false)

	assert.False(t, c.Enabled())
	assert.Equal(t, Route{Kind: RouteNonPriority}, c.Classify(".jpg"))
	assert.Equal(t, Route{Kind: RouteDisabled}, c.Classify(".mov"))
	assert.Equal(t, Route{Kind: RouteNonPriority}, c.Classify(".png"))
}

// An empty priority list disables routing even when the session asks for it.
func TestClassify_EmptyPriorityList(t *testing.T) {
	c := NewClassifier(nil, []string{".mov"}, true)
	assert.False(t, c.Enabled())
	assert.Equal(t, Route{Kind: RouteNonPriority}, c.Classify(".jpg"))
}

func TestTierNames(t *testing.T) {
	c := NewClassifier([]string{".jpg", ".txt"}, nil, true)
	assert.Equal(t, 2, c.Tiers())
	assert.Equal(t, ".jpg", c.TierExt(0))
	assert.Equal(t, "JPG", c.TierName(0))
	assert.Equal(t, "TXT", c.TierName(1))
}
