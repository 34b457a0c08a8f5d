package identifier

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Parallel()

	id := New("app")
	if !strings.HasPrefix(id, "APP-") {
		t.Fatalf("expected upper-cased prefix, got %q", id)
	}
	if len(id) != len("APP-")+8 {
		t.Fatalf("expected 8 hex chars after the prefix, got %q", id)
	}
	if id != strings.ToUpper(id) {
		t.Fatalf("expected upper case, got %q", id)
	}
}

func TestNewDefaultsEmptyPrefix(t *testing.T) {
	t.Parallel()

	if id := New("  "); !strings.HasPrefix(id, "ID-") {
		t.Fatalf("expected ID- fallback, got %q", id)
	}
}

func TestNewIsUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := New("REV")
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}
