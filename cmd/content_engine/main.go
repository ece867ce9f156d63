// Package main provides the content_engine CLI: the HTTP API server plus
// offline generation and scoring commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "content_engine",
	Short: "Korean marketing copy generator with explainable quality scoring",
	Long: "content_engine drafts blog posts, captions, scripts, emails and ads with an LLM " +
		"and scores every draft for SEO, trust risk and predicted performance.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
