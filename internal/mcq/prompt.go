package mcq

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an assistant that generates one multiple-choice question (MCQ) for learners aged 14-19.

Return output ONLY as a JSON object with keys: question, choices (list of 4 strings), answer_index (0-3), explanation, difficulty_score (1-10).

Constraints:
- Make options plausible and of similar length.
- Exactly 4 choices, all different.
- answer_index must point to the correct choice.
- difficulty_score: integer 1 (very easy) to 10 (very hard).
- Keep the question short (30 words or fewer).
- Do not repeat or rephrase any of the previous questions listed.`

// buildUserMessage renders the per-question details.
func buildUserMessage(input GenerateInput, cfg Config) string {
	topic := strings.TrimSpace(input.Topic)
	if topic == "" {
		topic = "General"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", input.Subject)
	fmt.Fprintf(&b, "Difficulty: %s\n", input.Level)
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Previous questions: %s\n", buildDedup(input.PriorQuestions, cfg.MaxPriorQuestions))
	b.WriteString("\nGenerate 1 question now.")
	return b.String()
}

// buildDedup joins the most recent max prior questions with ", ".
// Returns "None" if there are no prior questions.
func buildDedup(prior []string, max int) string {
	prior = RecentQuestions(prior, max)
	if len(prior) == 0 {
		return "None"
	}
	return strings.Join(prior, ", ")
}

// RecentQuestions returns the last max entries of prior, or all of them
// when max is not positive.
func RecentQuestions(prior []string, max int) []string {
	if max > 0 && len(prior) > max {
		return prior[len(prior)-max:]
	}
	return prior
}
