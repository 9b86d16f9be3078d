package cache

import (
	"strings"
	"testing"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name     string
		key      Key
		expected string
	}{
		{
			name:     "board_only",
			key:      Key{Board: "abc123"},
			expected: "board:snapshot:abc123",
		},
		{
			name:     "with_statuses",
			key:      Key{Board: "abc123", Statuses: []string{"planned", "done"}},
			expected: "board:snapshot:abc123:statuses=done,planned",
		},
		{
			name:     "statuses_normalized",
			key:      Key{Board: "abc123", Statuses: []string{" Done ", "PLANNED"}},
			expected: "board:snapshot:abc123:statuses=done,planned",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.key.String()
			if got != tt.expected {
				t.Errorf("Key.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestKey_String_FilterOrderIrrelevant(t *testing.T) {
	a := Key{Board: "b", Statuses: []string{"planned", "in progress", "done"}}
	b := Key{Board: "b", Statuses: []string{"done", "planned", "in progress"}}

	if a.String() != b.String() {
		t.Errorf("Filter order split the cache: %q vs %q", a.String(), b.String())
	}
}

func TestBoardID(t *testing.T) {
	id := BoardID("secret-token")

	if strings.Contains(id, "secret-token") {
		t.Error("BoardID must not contain the raw token")
	}
	if len(id) != 16 {
		t.Errorf("Expected 16 hex chars, got %d", len(id))
	}
	if id != BoardID("secret-token") {
		t.Error("BoardID must be deterministic")
	}
	if id == BoardID("other-token") {
		t.Error("Different tokens must yield different ids")
	}
}
