package util

import "testing"

func TestGenerateSeed(t *testing.T) {
	seen := make(map[uint64]bool)
	for i := 0; i < 10; i++ {
		seen[GenerateSeed()] = true
	}
	if len(seen) < 2 {
		t.Errorf("expected different seeds, got %v", seen)
	}
}
