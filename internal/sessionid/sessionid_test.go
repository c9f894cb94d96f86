package sessionid

import (
	"strings"
	"testing"
)

func TestNew_HasThreePartFormat(t *testing.T) {
	id, err := New()
	if err != nil {
		t.Fatalf("New err: %v", err)
	}
	parts := strings.Split(id, "-")
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d: %q", len(parts), id)
	}
	if len(parts[2]) != 4 {
		t.Fatalf("expected 4-char tail, got %q", parts[2])
	}
}

func TestNew_ProducesVariedIDs(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := New()
		if err != nil {
			t.Fatalf("New err: %v", err)
		}
		seen[id] = true
	}
	if len(seen) < 45 {
		t.Fatalf("expected high uniqueness across 50 draws, got %d distinct", len(seen))
	}
}
