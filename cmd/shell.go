package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quizadv/quizadv/internal/app"
	"github.com/quizadv/quizadv/internal/console"
)

// runShell opens the store, builds dependencies, and launches the
// full-screen UI or, with --plain, the line-mode shell.
func runShell(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	events := st.EventRepo()
	gen, err := newGenerator(ctx, events)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "New sessions will be unavailable.")
	}
	rec := loadRecommender(cmd)

	if plain, _ := cmd.Flags().GetBool("plain"); plain {
		sh := console.New(os.Stdin, os.Stdout, console.Config{
			Name:        playerName(cmd),
			Generator:   gen,
			Recommender: rec,
			Events:      events,
			Logger:      logger,
		})
		return sh.Run(ctx)
	}

	return app.Run(app.Options{
		Name:        playerName(cmd),
		Generator:   gen,
		Recommender: rec,
		Events:      events,
		Logger:      logger,
	})
}
