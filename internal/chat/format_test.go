package chat

import (
	"testing"
	"time"

	"github.com/trousseauhq/trousseau/internal/types"
)

func TestSameGroup(t *testing.T) {
	base := time.Now().UnixMilli()
	tests := []struct {
		name string
		prev types.Message
		next types.Message
		want bool
	}{
		{
			"same author within window",
			types.Message{AuthorID: "a", CreatedAt: base},
			types.Message{AuthorID: "a", CreatedAt: base + 1000},
			true,
		},
		{
			"different author",
			types.Message{AuthorID: "a", CreatedAt: base},
			types.Message{AuthorID: "b", CreatedAt: base + 1000},
			false,
		},
		{
			"same author beyond window",
			types.Message{AuthorID: "a", CreatedAt: base},
			types.Message{AuthorID: "a", CreatedAt: base + groupWindow.Milliseconds() + 1},
			false,
		},
		{
			"pending message starts its own group",
			types.Message{AuthorID: "a", CreatedAt: base, Delivery: types.DeliveryConfirmed},
			types.Message{AuthorID: "a", CreatedAt: base + 1000, Delivery: types.DeliveryPending},
			false,
		},
	}
	for _, tt := range tests {
		if got := sameGroup(tt.prev, tt.next); got != tt.want {
			t.Errorf("%s: sameGroup = %v, expected %v", tt.name, got, tt.want)
		}
	}
}

func TestFormatStampRecent(t *testing.T) {
	now := time.Now()
	got := formatStamp(now.UnixMilli())
	if got != now.Format("15:04") {
		t.Errorf("formatStamp(now) = %q, expected clock time", got)
	}
}

func TestTruncateLine(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten..", 13, "exactly ten.."},
		{"a longer label entirely", 10, "a longer …"},
		{"ab", 1, "a"},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := truncateLine(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncateLine(%q, %d) = %q, expected %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}
