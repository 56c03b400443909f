package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	githubToken string
	ollamaHost  string
)

var rootCmd = &cobra.Command{
	Use:   "review-bot",
	Short: "review-bot runs AI code reviews on pull requests from the command line.",
	Long: `A CLI for running the review committee against a single GitHub pull request,
typically from a CI job where GITHUB_REPOSITORY and PR_NUMBER are set.`,
	SilenceUsage: true,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&githubToken, "github-token", "t", "", "GitHub Token")
	rootCmd.PersistentFlags().StringVar(&ollamaHost, "ollama-host", "", "Ollama base URL")

	for key, flag := range map[string]string{
		"GITHUB_TOKEN": "github-token",
		"OLLAMA_HOST":  "ollama-host",
	} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			slog.Error("Error binding flag", "error", err)
			os.Exit(1)
		}
	}
}

// initConfig reads ENV variables if set.
func initConfig() {
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
