package main

import (
	"os"

	"github.com/quizadv/quizadv/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
