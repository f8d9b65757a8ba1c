package emotion

import "github.com/ashureev/study-companion/internal/domain"

// FallbackSuggestion is returned for labels outside the fixed set.
const FallbackSuggestion = "Stay motivated!"

var suggestions = map[domain.Emotion]string{
	domain.EmotionHappy:    "Keep up the positive energy! Continue studying with focus.",
	domain.EmotionSad:      "Take a short break, listen to calm music and restart.",
	domain.EmotionAngry:    "Practice deep breathing for 2 minutes before studying.",
	domain.EmotionStressed: "Break your tasks into small goals. You can do it!",
	domain.EmotionNeutral:  "Maintain steady focus and consistency.",
}

// Suggest returns the study advice for an emotion.
func Suggest(e domain.Emotion) string {
	if s, ok := suggestions[e]; ok {
		return s
	}
	return FallbackSuggestion
}

// Motivations are the quotes shown after each analysis.
var Motivations = []string{
	"You are stronger than you think 💪",
	"Every day is a fresh start 🌅",
	"Keep going 🚀",
	"Believe in yourself 🌟",
}

// Picker draws a uniform index in [0, n).
type Picker interface {
	IntN(n int) int
}

// Motivation picks one quote uniformly.
func Motivation(p Picker) string {
	return Motivations[p.IntN(len(Motivations))]
}
