package feed

import "testing"

func TestSubjectFor(t *testing.T) {
	tests := []struct {
		workspaceID string
		want        string
	}{
		{"ws-1", "chat.ws-1.messages"},
		{"atelier", "chat.atelier.messages"},
	}
	for _, tt := range tests {
		if got := subjectFor(tt.workspaceID); got != tt.want {
			t.Errorf("subjectFor(%q) = %q, expected %q", tt.workspaceID, got, tt.want)
		}
	}
}
