package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/ashureev/study-companion/internal/domain"
	"github.com/ashureev/study-companion/internal/emotion"
	"github.com/ashureev/study-companion/internal/history"
)

func TestSubmitMoodRecordsAndResponds(t *testing.T) {
	env := newTestEnv(t)
	env.signup("asha")

	var got moodResponse
	code := env.do(http.MethodPost, "/api/moods", moodRequest{Text: "I feel SO happy today"}, &got)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}

	want := moodResponse{
		Emotion:    domain.EmotionHappy,
		Glyph:      domain.EmotionHappy.Glyph(),
		Suggestion: emotion.Suggest(domain.EmotionHappy),
		Motivation: emotion.Motivations[0],
		Date:       "2026-10-19",
	}
	if got != want {
		t.Fatalf("unexpected response\n got %+v\nwant %+v", got, want)
	}

	recs, err := env.repo.ListMoods(context.Background(), "asha")
	if err != nil {
		t.Fatalf("ListMoods failed: %v", err)
	}
	if len(recs) != 1 || recs[0].Emotion != domain.EmotionHappy {
		t.Fatalf("expected one Happy record, got %+v", recs)
	}
}

func TestSubmitMoodRejectsEmptyText(t *testing.T) {
	env := newTestEnv(t)
	env.signup("asha")

	for _, text := range []string{"", "   \t\n"} {
		var body map[string]string
		if code := env.do(http.MethodPost, "/api/moods", moodRequest{Text: text}, &body); code != http.StatusUnprocessableEntity {
			t.Fatalf("text %q: expected 422, got %d", text, code)
		}
		if body["error"] == "" {
			t.Fatalf("text %q: expected an error message", text)
		}
	}

	recs, err := env.repo.ListMoods(context.Background(), "asha")
	if err != nil {
		t.Fatalf("ListMoods failed: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("empty text must not be recorded, got %+v", recs)
	}
}

func TestMoodHistory(t *testing.T) {
	env := newTestEnv(t)
	env.signup("asha")

	var empty history.Summary
	if code := env.do(http.MethodGet, "/api/moods/history", nil, &empty); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if empty.HasHistory {
		t.Fatal("new user should have no history")
	}
	if len(empty.Weekly) != 7 {
		t.Fatalf("expected 7 weekly entries, got %d", len(empty.Weekly))
	}

	for _, text := range []string{"great day", "so much tension", "nothing much"} {
		if code := env.do(http.MethodPost, "/api/moods", moodRequest{Text: text}, nil); code != http.StatusCreated {
			t.Fatalf("submit %q: expected 201, got %d", text, code)
		}
	}

	var sum history.Summary
	if code := env.do(http.MethodGet, "/api/moods/history", nil, &sum); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if !sum.HasHistory || sum.AsOf != "2026-10-19" {
		t.Fatalf("unexpected summary header %+v", sum)
	}
	if sum.Overall[domain.EmotionHappy] != 1 || sum.Overall[domain.EmotionStressed] != 1 || sum.Overall[domain.EmotionNeutral] != 1 {
		t.Fatalf("unexpected overall distribution %v", sum.Overall)
	}
	if n := sum.Weekly.Count("Monday"); n != 3 {
		t.Fatalf("expected 3 entries on Monday, got %d", n)
	}

	var old history.Summary
	if code := env.do(http.MethodGet, "/api/moods/history?as_of=2026-09-01", nil, &old); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	for _, dc := range old.Weekly {
		if dc.Count != 0 {
			t.Fatalf("window ending 2026-09-01 should be empty, got %+v", old.Weekly)
		}
	}

	if code := env.do(http.MethodGet, "/api/moods/history?as_of=19-10-2026", nil, nil); code != http.StatusBadRequest {
		t.Fatalf("bad as_of: expected 400, got %d", code)
	}
}
