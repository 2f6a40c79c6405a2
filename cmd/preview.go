package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quizadv/quizadv/internal/mcq"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview generated questions for a subject (no database)",
	Long: `Generate and validate questions without playing them.

This is a stateless developer tool: no database, no tracker, no events.
Useful for evaluating question quality for a subject and topic.`,
	RunE: runPreview,
}

func init() {
	addSetupFlags(previewCmd)
	previewCmd.Flags().Int("count", 5, "Number of questions to generate")
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	count, _ := cmd.Flags().GetInt("count")
	if count < 1 {
		return fmt.Errorf("--count must be at least 1")
	}
	setup, err := parseSetup(cmd)
	if err != nil {
		return err
	}

	gen, err := newGenerator(ctx, nil)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	fmt.Printf("Subject: %s  Topic: %s  Level: %s\n", setup.Subject, orNone(setup.Topic), setup.Level.Title())
	fmt.Printf("Generating %d questions...\n\n", count)

	var valid, invalid, failed int
	var prior []string
	for i := 1; i <= count; i++ {
		input := mcq.GenerateInput{
			Subject:        setup.Subject,
			Level:          setup.Level,
			Topic:          setup.Topic,
			PriorQuestions: prior,
		}
		payload, err := gen.Generate(ctx, input)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed++
			fmt.Printf("Question %d: generation failed: %v\n\n", i, err)
			continue
		}
		if text := payload.QuestionText(); text != "" {
			prior = append(prior, text)
		}

		if verr := mcq.Validate(payload); verr != nil {
			invalid++
			fmt.Printf("Question %d: invalid [%s]: %s\n\n", i, verr.Validator, verr.Reason)
			continue
		}
		q, err := mcq.Decode(payload, input)
		if err != nil {
			invalid++
			fmt.Printf("Question %d: decode failed: %v\n\n", i, err)
			continue
		}

		valid++
		fmt.Printf("── Question %d/%d (difficulty %d/10) ──\n", i, count, q.DifficultyScore)
		fmt.Println(q.Text)
		for j, c := range q.Choices {
			mark := " "
			if j == q.AnswerIndex {
				mark = "*"
			}
			fmt.Printf(" %s%d) %s\n", mark, j+1, c)
		}
		fmt.Printf("Explanation: %s\n\n", q.Explanation)
	}

	fmt.Println(strings.Repeat("─", 40))
	fmt.Printf("Valid: %d  Invalid: %d  Failed: %d\n", valid, invalid, failed)
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
