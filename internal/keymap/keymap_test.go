package keymap

import (
	"testing"
)

func TestByContext(t *testing.T) {
	tests := []struct {
		name            string
		context         string
		expectMinLength int
	}{
		{"global context", ContextGlobal, 5},
		{"playback context", ContextPlayback, 10},
		{"list context", ContextList, 4},
		{"library context", ContextLibrary, 2},
		{"queue context", ContextQueue, 2},
		{"unknown context returns empty", "unknown", 0},
		{"empty context returns empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ByContext(tt.context)

			if tt.expectMinLength == 0 && len(result) != 0 {
				t.Errorf("ByContext(%q) returned %d items, expected empty", tt.context, len(result))
			}
			if len(result) < tt.expectMinLength {
				t.Errorf("ByContext(%q) returned %d items, expected at least %d", tt.context, len(result), tt.expectMinLength)
			}
			for _, binding := range result {
				if binding.Context != tt.context {
					t.Errorf("binding context = %q, want %q", binding.Context, tt.context)
				}
			}
		})
	}
}

func TestAll_EveryBindingComplete(t *testing.T) {
	for _, b := range All {
		if b.Action == "" {
			t.Errorf("binding %v has no action", b.Keys)
		}
		if len(b.Keys) == 0 {
			t.Errorf("action %q has no keys", b.Action)
		}
		if b.Description == "" {
			t.Errorf("action %q has no description", b.Action)
		}
	}
}

func TestAll_NoKeyBoundTwiceInContext(t *testing.T) {
	seen := make(map[string]Action)
	for _, b := range All {
		for _, k := range b.Keys {
			id := b.Context + "/" + k
			if prev, ok := seen[id]; ok && prev != b.Action {
				t.Errorf("key %q in %s bound to %q and %q", k, b.Context, prev, b.Action)
			}
			seen[id] = b.Action
		}
	}
}
