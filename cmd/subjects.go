package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quizadv/quizadv/internal/subject"
)

var subjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "List the subject catalog and predictor codes",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%-4s  %-12s  %s\n", "Menu", "Subject", "Code")
		fmt.Println(strings.Repeat("─", 26))
		for i, s := range subject.All() {
			fmt.Printf("%-4d  %-12s  %d\n", i+1, s, s.Code())
		}
		fmt.Printf("\nOther subjects are accepted and encoded as %d.\n", subject.UnknownCode)
	},
}
