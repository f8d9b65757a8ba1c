package api

import (
	"net/http"
	"strings"

	"github.com/ashureev/study-companion/internal/domain"
	"github.com/ashureev/study-companion/internal/emotion"
	"github.com/ashureev/study-companion/internal/identity"
)

type moodRequest struct {
	Text string `json:"text"`
}

type moodResponse struct {
	Emotion    domain.Emotion `json:"emotion"`
	Glyph      string         `json:"glyph"`
	Suggestion string         `json:"suggestion"`
	Motivation string         `json:"motivation"`
	Date       string         `json:"date"`
}

// SubmitMood classifies the submitted text, logs the result to the user's
// history and returns it with a suggestion and a motivational quote.
func (h *Handler) SubmitMood(w http.ResponseWriter, r *http.Request) {
	userID := identity.UsernameFromContext(r.Context())

	var req moodRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		Error(w, http.StatusUnprocessableEntity, "Please enter some text")
		return
	}

	res := h.classifier.Classify(text)
	rec, err := h.moods.Record(r.Context(), userID, res.Emotion)
	if err != nil {
		storeError(w, "Failed to record mood", err, userID)
		return
	}

	JSON(w, http.StatusCreated, moodResponse{
		Emotion:    res.Emotion,
		Glyph:      res.Glyph,
		Suggestion: emotion.Suggest(res.Emotion),
		Motivation: emotion.Motivation(h.picker),
		Date:       rec.Date.Format(domain.DateLayout),
	})
}

// MoodHistory returns the overall and weekly distributions. The optional
// as_of query parameter (YYYY-MM-DD) anchors the weekly window; it defaults
// to today.
func (h *Handler) MoodHistory(w http.ResponseWriter, r *http.Request) {
	userID := identity.UsernameFromContext(r.Context())

	asOf := h.moods.Today()
	if v := r.URL.Query().Get("as_of"); v != "" {
		day, err := domain.ParseDay(v)
		if err != nil {
			Error(w, http.StatusBadRequest, "as_of must be YYYY-MM-DD")
			return
		}
		asOf = day
	}

	summary, err := h.moods.Summarize(r.Context(), userID, asOf)
	if err != nil {
		storeError(w, "Failed to load mood history", err, userID)
		return
	}
	JSON(w, http.StatusOK, summary)
}
