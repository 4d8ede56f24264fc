package uuid

import (
	"testing"

	guuid "github.com/google/uuid"
)

func TestNewIDProducesUniqueUUIDs(t *testing.T) {
	t.Parallel()

	g := Generator{}
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := g.NewID()
		if err != nil {
			t.Fatalf("NewID() error = %v", err)
		}
		if _, err := guuid.Parse(id); err != nil {
			t.Fatalf("NewID() produced invalid UUID %q: %v", id, err)
		}
		if seen[id] {
			t.Fatalf("NewID() produced duplicate %q", id)
		}
		seen[id] = true
	}
}
