package domain

// Emotion is one of the fixed mood categories a text entry can be classified into.
type Emotion string

const (
	EmotionHappy    Emotion = "Happy"
	EmotionSad      Emotion = "Sad"
	EmotionAngry    Emotion = "Angry"
	EmotionStressed Emotion = "Stressed"
	EmotionNeutral  Emotion = "Neutral"
)

// Emotions lists every label in display order.
var Emotions = []Emotion{
	EmotionHappy,
	EmotionSad,
	EmotionAngry,
	EmotionStressed,
	EmotionNeutral,
}

var glyphs = map[Emotion]string{
	EmotionHappy:    "😊",
	EmotionSad:      "😢",
	EmotionAngry:    "😡",
	EmotionStressed: "😰",
	EmotionNeutral:  "😐",
}

// Glyph returns the display emoji for the emotion, or the neutral glyph for
// unknown values.
func (e Emotion) Glyph() string {
	if g, ok := glyphs[e]; ok {
		return g
	}
	return glyphs[EmotionNeutral]
}

// Valid reports whether e is one of the fixed labels.
func (e Emotion) Valid() bool {
	_, ok := glyphs[e]
	return ok
}
