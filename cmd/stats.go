package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/quizadv/quizadv/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show results of recorded sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		sessions, err := s.EventRepo().QuerySessions(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		fmt.Printf("%-16s  %-12s  %-12s  %-16s  %-6s  %9s  %7s  %8s\n",
			"Date", "Player", "Subject", "Topic", "Level", "Correct", "Acc", "Time")
		fmt.Println(strings.Repeat("─", 98))
		for _, r := range sessions {
			fmt.Printf("%-16s  %-12s  %-12s  %-16s  %-6s  %4d/%-4d  %6.1f%%  %7.1fs\n",
				r.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(r.Name, 12),
				truncate(r.Subject, 12),
				truncate(r.Topic, 16),
				r.Level,
				r.Correct, r.Attempted,
				percent(r.Correct, r.Attempted),
				r.DurationSecs,
			)
		}

		attempted := lo.SumBy(sessions, func(r store.SessionRecord) int { return r.Attempted })
		correct := lo.SumBy(sessions, func(r store.SessionRecord) int { return r.Correct })
		skipped := lo.SumBy(sessions, func(r store.SessionRecord) int { return r.Skipped })
		fmt.Println(strings.Repeat("─", 98))
		fmt.Printf("Sessions: %d  Questions: %d  Correct: %d  Skipped: %d  Accuracy: %.1f%%\n",
			len(sessions), attempted, correct, skipped, percent(correct, attempted))

		bySubject := lo.GroupBy(sessions, func(r store.SessionRecord) string { return r.Subject })
		if len(bySubject) > 1 {
			subjects := lo.Keys(bySubject)
			slices.Sort(subjects)
			fmt.Println()
			for _, subj := range subjects {
				rs := bySubject[subj]
				c := lo.SumBy(rs, func(r store.SessionRecord) int { return r.Correct })
				a := lo.SumBy(rs, func(r store.SessionRecord) int { return r.Attempted })
				fmt.Printf("  %-12s  %3d sessions  %6.1f%%\n", truncate(subj, 12), len(rs), percent(c, a))
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 0, "Only consider the most recent N sessions (0 = all)")
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
