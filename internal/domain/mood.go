package domain

import "time"

// DateLayout is the day-granularity format mood dates are stored in.
const DateLayout = "2006-01-02"

// MoodRecord is one classified mood entry in a user's history.
type MoodRecord struct {
	Emotion Emotion   `json:"emotion"`
	Date    time.Time `json:"date"`
}

// Day truncates t to its calendar date. The year, month and day are taken in
// t's own location and the result is midnight UTC, so dates compare and
// subtract without DST surprises.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a calendar date.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
