package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ashureev/study-companion/internal/domain"
	"github.com/ashureev/study-companion/internal/emotion"
	"github.com/ashureev/study-companion/internal/history"
	"github.com/ashureev/study-companion/internal/store"
	"github.com/spf13/cobra"
)

var historyAsOf string

// classifyCmd runs the classifier on its arguments.
var classifyCmd = &cobra.Command{
	Use:   "classify <text...>",
	Short: "Classify text and print the emotion, glyph and suggestion",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			return errors.New("please enter some text")
		}
		res := emotion.Classify(text)
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n%s\n", res.Glyph, res.Emotion, emotion.Suggest(res.Emotion))
		return nil
	},
}

// historyCmd prints both distributions for one user.
var historyCmd = &cobra.Command{
	Use:   "history <username>",
	Short: "Print a user's overall and weekly mood distributions",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	repo, err := store.NewSQLite(dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	svc := history.NewService(repo)
	asOf := svc.Today()
	if historyAsOf != "" {
		if asOf, err = domain.ParseDay(historyAsOf); err != nil {
			return fmt.Errorf("--as-of must be YYYY-MM-DD: %w", err)
		}
	}

	sum, err := svc.Summarize(cmd.Context(), args[0], asOf)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !sum.HasHistory {
		fmt.Fprintf(out, "No mood history for %s yet.\n", args[0])
		return nil
	}

	fmt.Fprintln(out, "Overall:")
	for _, e := range domain.Emotions {
		if n := sum.Overall[e]; n > 0 {
			fmt.Fprintf(out, "  %s %-8s %d\n", e.Glyph(), e, n)
		}
	}
	from := asOf.AddDate(0, 0, -int(history.WeekWindow/(24*time.Hour)))
	fmt.Fprintf(out, "Week %s..%s:\n", from.Format(domain.DateLayout), sum.AsOf)
	for _, dc := range sum.Weekly {
		fmt.Fprintf(out, "  %-9s %d\n", dc.Day, dc.Count)
	}
	return nil
}
