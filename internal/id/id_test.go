package id

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	got, err := Generate("poem")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !strings.HasPrefix(got, "poem-") {
		t.Errorf("expected poem- prefix, got %q", got)
	}

	// prefix + dash + 21-char nanoid
	if len(got) != len("poem-")+21 {
		t.Errorf("unexpected length %d for %q", len(got), got)
	}
}

func TestGenerateUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id, err := Generate("user")
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestMustGenerate(t *testing.T) {
	id := MustGenerate("session")
	if !strings.HasPrefix(id, "session-") {
		t.Errorf("expected session- prefix, got %q", id)
	}
}
