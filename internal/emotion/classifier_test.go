package emotion

import (
	"strings"
	"testing"

	"github.com/ashureev/study-companion/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.Emotion
	}{
		{"empty", "", domain.EmotionNeutral},
		{"nonsense", "xyz nonsense", domain.EmotionNeutral},
		{"happy", "I feel happy today", domain.EmotionHappy},
		{"uppercase", "I AM SO EXCITED", domain.EmotionHappy},
		{"sad", "feeling upset about the exam", domain.EmotionSad},
		{"angry", "I am furious", domain.EmotionAngry},
		{"stressed", "so much anxiety", domain.EmotionStressed},
		{"telugu happy", "chala santhosham ga undi", domain.EmotionHappy},
		{"telugu sad", "lopala baadha", domain.EmotionSad},
		{"telugu angry", "naaku kopam vastundi", domain.EmotionAngry},
		{"telugu stressed", "exam ante bhayam", domain.EmotionStressed},
		{"happy beats sad", "sad but also good", domain.EmotionHappy},
		{"sad beats angry", "angry and sad", domain.EmotionSad},
		{"angry beats stressed", "stress makes me mad", domain.EmotionAngry},
		{"substring match", "on a crusade", domain.EmotionSad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			if got.Emotion != tt.want {
				t.Fatalf("Classify(%q) = %s, want %s", tt.text, got.Emotion, tt.want)
			}
			if got.Glyph != tt.want.Glyph() {
				t.Fatalf("Classify(%q) glyph = %q, want %q", tt.text, got.Glyph, tt.want.Glyph())
			}
		})
	}
}

func TestClassifyAlwaysReturnsKnownLabel(t *testing.T) {
	inputs := []string{"", " ", "\n\t", "🙂", strings.Repeat("a", 4096), "ÉTÉ"}
	for _, in := range inputs {
		if got := Classify(in); !got.Emotion.Valid() {
			t.Fatalf("Classify(%q) returned unknown label %q", in, got.Emotion)
		}
	}
}

func TestParseLexiconRejectsUnknownEmotion(t *testing.T) {
	_, err := ParseLexicon([]byte("rules:\n  - emotion: Bored\n    keywords: [meh]\n"))
	if err == nil {
		t.Fatal("expected error for unknown emotion")
	}
}

func TestParseLexiconRejectsNeutralRule(t *testing.T) {
	_, err := ParseLexicon([]byte("rules:\n  - emotion: Neutral\n    keywords: [ok]\n"))
	if err == nil {
		t.Fatal("expected error for neutral rule")
	}
}

func TestParseLexiconRuleOrderIsPriority(t *testing.T) {
	c, err := ParseLexicon([]byte(`
rules:
  - emotion: Stressed
    keywords: [exam]
  - emotion: Happy
    keywords: [exam, fun]
`))
	if err != nil {
		t.Fatalf("ParseLexicon: %v", err)
	}
	if got := c.Classify("Exam was fun").Emotion; got != domain.EmotionStressed {
		t.Fatalf("expected first rule to win, got %s", got)
	}
}
