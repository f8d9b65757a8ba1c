// Package history appends classified moods to a user's log and aggregates the
// log into chart-ready distributions.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/ashureev/study-companion/internal/domain"
	"github.com/ashureev/study-companion/internal/store"
)

// WeekWindow is how far back WeeklyDistribution looks. Both ends are
// inclusive, so a record dated exactly WeekWindow before as-of is counted.
const WeekWindow = 7 * 24 * time.Hour

// Weekdays is the fixed Monday-first order of the weekly breakdown.
var Weekdays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// DayCount is the number of entries recorded on one weekday.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// Weekly is the seven-entry weekday breakdown, always Monday..Sunday.
type Weekly []DayCount

// Count returns the count for the given weekday name, or 0.
func (w Weekly) Count(day string) int {
	for _, dc := range w {
		if dc.Day == day {
			return dc.Count
		}
	}
	return 0
}

// Distribution counts entries per emotion. Emotions never recorded are absent.
type Distribution map[domain.Emotion]int

// Service reads and appends mood history through a MoodRepository.
type Service struct {
	repo store.MoodRepository
	now  func() time.Time
}

// NewService creates a history service using the wall clock.
func NewService(repo store.MoodRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// NewServiceWithClock creates a history service with an explicit clock.
func NewServiceWithClock(repo store.MoodRepository, now func() time.Time) *Service {
	return &Service{repo: repo, now: now}
}

// Today returns the current calendar date according to the service clock.
func (s *Service) Today() time.Time {
	return domain.Day(s.now())
}

// Append adds one record and returns once it has been persisted.
func (s *Service) Append(ctx context.Context, username string, e domain.Emotion, date time.Time) error {
	if !e.Valid() {
		return fmt.Errorf("append mood for %s: unknown emotion %q", username, e)
	}
	rec := domain.MoodRecord{Emotion: e, Date: domain.Day(date)}
	if err := s.repo.AppendMood(ctx, username, rec); err != nil {
		return fmt.Errorf("append mood for %s: %w", username, err)
	}
	return nil
}

// Record appends an entry dated today.
func (s *Service) Record(ctx context.Context, username string, e domain.Emotion) (domain.MoodRecord, error) {
	rec := domain.MoodRecord{Emotion: e, Date: s.Today()}
	if err := s.Append(ctx, username, e, rec.Date); err != nil {
		return domain.MoodRecord{}, err
	}
	return rec, nil
}

// OverallDistribution counts every entry in the user's history by emotion.
// A user with no history gets an empty distribution.
func (s *Service) OverallDistribution(ctx context.Context, username string) (Distribution, error) {
	records, err := s.repo.ListMoods(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("load history for %s: %w", username, err)
	}
	dist := make(Distribution)
	for _, rec := range records {
		dist[rec.Emotion]++
	}
	return dist, nil
}

// WeeklyDistribution counts the entries dated within the window ending at
// asOf, grouped by weekday name. All seven weekdays are always present.
func (s *Service) WeeklyDistribution(ctx context.Context, username string, asOf time.Time) (Weekly, error) {
	to := domain.Day(asOf)
	from := to.Add(-WeekWindow)

	records, err := s.repo.ListMoodsBetween(ctx, username, from, to)
	if err != nil {
		return nil, fmt.Errorf("load weekly history for %s: %w", username, err)
	}

	counts := make(map[time.Weekday]int, len(Weekdays))
	for _, rec := range records {
		if rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		counts[rec.Date.Weekday()]++
	}

	weekly := make(Weekly, 0, len(Weekdays))
	for _, wd := range Weekdays {
		weekly = append(weekly, DayCount{Day: wd.String(), Count: counts[wd]})
	}
	return weekly, nil
}

// Summary bundles both charts for one user.
type Summary struct {
	HasHistory bool         `json:"has_history"`
	Overall    Distribution `json:"overall"`
	Weekly     Weekly       `json:"weekly"`
	AsOf       string       `json:"as_of"`
}

// Summarize computes both distributions as of the given date.
func (s *Service) Summarize(ctx context.Context, username string, asOf time.Time) (*Summary, error) {
	overall, err := s.OverallDistribution(ctx, username)
	if err != nil {
		return nil, err
	}
	weekly, err := s.WeeklyDistribution(ctx, username, asOf)
	if err != nil {
		return nil, err
	}
	return &Summary{
		HasHistory: len(overall) > 0,
		Overall:    overall,
		Weekly:     weekly,
		AsOf:       domain.Day(asOf).Format(domain.DateLayout),
	}, nil
}
