package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/quizadv/quizadv/internal/console"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play one session in line mode",
	Example: `  quizadv play --subject Math --topic fractions --level medium
  quizadv play --subject "Indian Law" --name Asha`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		setup, err := parseSetup(cmd)
		if err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		gen, err := newGenerator(ctx, st.EventRepo())
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}

		name := playerName(cmd)
		if name == "" {
			name = "Player"
		}
		sh := console.New(os.Stdin, os.Stdout, console.Config{
			Name:        name,
			Generator:   gen,
			Recommender: loadRecommender(cmd),
			Events:      st.EventRepo(),
			Logger:      logger,
		})
		if _, err := sh.Play(ctx, setup); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	},
}

func init() {
	addSetupFlags(playCmd)
}
