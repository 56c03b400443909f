package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/sevigo/review-bot/internal/core"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, core.ErrConfiguration) {
			slog.Error("invalid configuration", "error", err)
		} else {
			slog.Error("cli failed to run", "error", err)
		}
		os.Exit(1)
	}
}
