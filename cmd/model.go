package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/quizadv/quizadv/internal/difficulty"
	"github.com/quizadv/quizadv/internal/predictor"
	"github.com/quizadv/quizadv/internal/subject"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Inspect the level predictor",
}

var modelInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Fit the predictor and report on it",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolveDataset(cmd)
		p, err := predictor.Load(path, predictor.WithLogger(logger))
		if err != nil {
			return err
		}

		labels := lo.Map(p.Classes(), func(c int, _ int) string {
			return fmt.Sprintf("%d (%s)", c, difficulty.FromLabel(c).Title())
		})
		fmt.Printf("Dataset:            %s\n", path)
		fmt.Printf("Columns:            %s\n", strings.Join(predictor.Columns, ", "))
		fmt.Printf("Examples:           %d\n", p.Examples())
		fmt.Printf("Classes:            %s\n", strings.Join(labels, ", "))
		fmt.Printf("Training accuracy:  %.2f%%\n", p.TrainingAccuracy()*100)
		return nil
	},
}

var modelPredictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the next level for one set of features",
	Example: `  quizadv model predict --subject Math --accuracy 80 --avg-time 6.5 --streak 3 --level medium`,
	RunE: func(cmd *cobra.Command, args []string) error {
		subjVal, _ := cmd.Flags().GetString("subject")
		accuracy, _ := cmd.Flags().GetFloat64("accuracy")
		avgSecs, _ := cmd.Flags().GetFloat64("avg-time")
		streak, _ := cmd.Flags().GetInt("streak")
		levelVal, _ := cmd.Flags().GetString("level")

		if accuracy < 0 || accuracy > 100 {
			return fmt.Errorf("--accuracy must be between 0 and 100")
		}
		level, err := difficulty.Parse(levelVal)
		if err != nil {
			return err
		}
		subj, ok := subject.Lookup(subjVal)
		if !ok {
			fmt.Printf("Subject %q is not in the catalog; predicting with code %d.\n", subjVal, subject.UnknownCode)
		}

		p, err := predictor.Load(resolveDataset(cmd), predictor.WithLogger(logger))
		if err != nil {
			return err
		}
		label := p.PredictLabel(predictor.Features{
			Subject:     subj,
			AccuracyPct: accuracy,
			AvgTime:     time.Duration(avgSecs * float64(time.Second)),
			Streak:      streak,
			Level:       level,
		})
		fmt.Printf("Predicted label: %d\n", label)
		fmt.Printf("Next level:      %s\n", difficulty.FromLabel(label).Title())
		return nil
	},
}

func init() {
	f := modelPredictCmd.Flags()
	f.String("subject", "Math", "Subject name")
	f.Float64("accuracy", 0, "Session accuracy in percent (0-100)")
	f.Float64("avg-time", 0, "Seconds taken on the last question")
	f.Int("streak", 0, "Current correct-answer streak")
	f.String("level", "easy", "Current difficulty: easy, medium or hard")

	modelCmd.AddCommand(modelInfoCmd)
	modelCmd.AddCommand(modelPredictCmd)
}
