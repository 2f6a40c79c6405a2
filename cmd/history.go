package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quizadv/quizadv/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "List recent sessions, or the questions of one session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if len(args) == 1 {
			return printAttempts(cmd, s.EventRepo(), args[0])
		}

		limit, _ := cmd.Flags().GetInt("limit")
		sessions, err := s.EventRepo().QuerySessions(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %-12s  %s\n", "Session", "Date", "Subject", "Score")
		fmt.Println(strings.Repeat("─", 80))
		for _, r := range sessions {
			fmt.Printf("%-36s  %-16s  %-12s  %d/%d\n",
				r.SessionID,
				r.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(r.Subject, 12),
				r.Correct, r.Attempted)
		}
		fmt.Println("\nRun `quizadv history <session>` to see its questions.")
		return nil
	},
}

func printAttempts(cmd *cobra.Command, repo store.EventRepo, sessionID string) error {
	attempts, err := repo.QueryAttempts(cmd.Context(), sessionID)
	if err != nil {
		return fmt.Errorf("query attempts: %w", err)
	}
	if len(attempts) == 0 {
		return fmt.Errorf("no questions recorded for session %s", sessionID)
	}

	sep := strings.Repeat("─", 60)
	for _, a := range attempts {
		ok := "✓"
		if !a.Correct {
			ok = "✗"
		}
		fmt.Println(sep)
		fmt.Printf("Q%d  %s  [%s → %s]  %.1fs\n", a.Round, ok, a.Level, a.NextLevel, float64(a.TimeMs)/1000)
		fmt.Println(a.QuestionText)
		fmt.Printf("Answer:  %s\n", a.CorrectAnswer)
		if !a.Correct {
			fmt.Printf("Given:   %s\n", orNone(a.LearnerAnswer))
		}
	}
	fmt.Println(sep)
	return nil
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to list")
}
