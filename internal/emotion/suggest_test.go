package emotion

import (
	"testing"

	"github.com/ashureev/study-companion/internal/domain"
)

type fixedPicker int

func (f fixedPicker) IntN(int) int { return int(f) }

func TestSuggest(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range domain.Emotions {
		s := Suggest(e)
		if s == "" {
			t.Fatalf("Suggest(%s) returned empty string", e)
		}
		if s == FallbackSuggestion {
			t.Fatalf("Suggest(%s) fell back", e)
		}
		seen[s] = true
	}
	if len(seen) != len(domain.Emotions) {
		t.Fatalf("expected distinct suggestions, got %d", len(seen))
	}

	if got := Suggest("Bored"); got != FallbackSuggestion {
		t.Fatalf("Suggest(unknown) = %q, want fallback", got)
	}
}

func TestMotivation(t *testing.T) {
	for i := range Motivations {
		if got := Motivation(fixedPicker(i)); got != Motivations[i] {
			t.Fatalf("Motivation(%d) = %q, want %q", i, got, Motivations[i])
		}
	}
}
