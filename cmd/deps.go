package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quizadv/quizadv/internal/difficulty"
	"github.com/quizadv/quizadv/internal/llm"
	"github.com/quizadv/quizadv/internal/mcq"
	"github.com/quizadv/quizadv/internal/predictor"
	"github.com/quizadv/quizadv/internal/session"
	"github.com/quizadv/quizadv/internal/store"
	"github.com/quizadv/quizadv/internal/subject"
)

// defaultDataset is used when neither --dataset nor QUIZADV_DATASET is set.
const defaultDataset = "data/mcq_training_data.csv"

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZADV_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveDataset returns the training dataset path: --dataset, then
// QUIZADV_DATASET, then the bundled sample.
func resolveDataset(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("dataset"); p != "" {
		return p
	}
	if p := os.Getenv(llm.EnvPrefix + "DATASET"); p != "" {
		return p
	}
	return defaultDataset
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// loadRecommender fits the level predictor. On failure it warns and
// returns nil so sessions fall back to the tracker rules.
func loadRecommender(cmd *cobra.Command) session.Recommender {
	path := resolveDataset(cmd)
	p, err := predictor.Load(path, predictor.WithLogger(logger))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Level predictor unavailable:", err)
		fmt.Fprintln(os.Stderr, "Difficulty will follow the rule-based recommendation.")
		return nil
	}
	logger.Debug("level predictor fitted", "dataset", path,
		"examples", p.Examples(), "training_accuracy", p.TrainingAccuracy())
	return p
}

// newGenerator builds the question generator from the environment.
// events may be nil, in which case LLM calls are not recorded.
func newGenerator(ctx context.Context, events store.EventRepo) (mcq.Generator, error) {
	provider, err := llm.NewProviderFromEnv(ctx, events)
	if err != nil {
		return nil, err
	}
	return mcq.New(provider, mcq.DefaultConfig()), nil
}

// parseSetup turns the --subject, --topic and --level flags into a
// session setup. Subjects outside the catalog are allowed and only
// lose their predictor signal.
func parseSetup(cmd *cobra.Command) (session.Setup, error) {
	subjVal, _ := cmd.Flags().GetString("subject")
	topic, _ := cmd.Flags().GetString("topic")
	levelVal, _ := cmd.Flags().GetString("level")

	if strings.TrimSpace(subjVal) == "" {
		return session.Setup{}, fmt.Errorf("--subject is required")
	}
	subj, ok := subject.Lookup(subjVal)
	if !ok {
		logger.Warn("subject not in catalog", "subject", subjVal)
	}
	level, err := difficulty.Parse(levelVal)
	if err != nil {
		return session.Setup{}, err
	}
	return session.Setup{Subject: subj, Topic: strings.TrimSpace(topic), Level: level}, nil
}

func playerName(cmd *cobra.Command) string {
	name, _ := cmd.Flags().GetString("name")
	return strings.TrimSpace(name)
}

func addSetupFlags(cmd *cobra.Command) {
	cmd.Flags().String("subject", "", "Subject: Math, Biology, Indian Law, Geography or English")
	cmd.Flags().String("topic", "", "Topic within the subject")
	cmd.Flags().String("level", "easy", "Starting difficulty: easy, medium or hard")
}
