package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kdjkdj1234567890-bit/content-engine/internal/generation"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/observability"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/scoring"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score existing copy offline",
	Long: `Run the SEO, trust and performance analyzers on a file (or stdin with --file -)
and print the composite grade. No network calls are made.`,
	RunE: runScore,
}

var (
	scoreFile     string
	scoreTitle    string
	scoreKeyword  string
	scoreType     string
	scoreTone     string
	scoreRules    string
	scoreJSON     bool
	scoreMinScore int
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreFile, "file", "f", "", "Path to the copy to score, or - for stdin (required)")
	scoreCmd.Flags().StringVar(&scoreTitle, "title", "", "Title; defaults to the first heading for blog and youtube")
	scoreCmd.Flags().StringVarP(&scoreKeyword, "keyword", "k", "", "Target keyword for SEO analysis")
	scoreCmd.Flags().StringVarP(&scoreType, "type", "t", "blog", "Content type: blog, instagram, youtube, email, ad")
	scoreCmd.Flags().StringVar(&scoreTone, "tone", "", "Tone the copy was written in")
	scoreCmd.Flags().StringVar(&scoreRules, "rules", "", "YAML scoring rule overrides")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print the report as JSON")
	scoreCmd.Flags().IntVar(&scoreMinScore, "min-score", 0, "Fail when the composite score is below this value")

	if err := scoreCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	content, err := readInput(cmd, scoreFile)
	if err != nil {
		return err
	}

	contentType, err := types.ParseContentType(scoreType)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	rulesFile := scoreRules
	if rulesFile == "" {
		rulesFile = cfg.RulesFile
	}
	scorer, err := loadScorer(rulesFile)
	if err != nil {
		return err
	}

	title := scoreTitle
	if title == "" && contentType.HasTitle() {
		title = generation.ExtractTitle(content)
	}

	report, err := scorer.Evaluate(cmd.Context(), scoring.Input{
		Content:     content,
		Title:       title,
		Keyword:     scoreKeyword,
		ContentType: contentType,
		Tone:        scoreTone,
		SkipSEO:     !contentType.HasSEO(),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if scoreJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	} else {
		observability.NewPrinter(out).PrintReport(report)
	}

	if scoreMinScore > 0 && report.Quality.Score < scoreMinScore {
		return fmt.Errorf("quality score %d is below the minimum of %d", report.Quality.Score, scoreMinScore)
	}
	return nil
}

// readInput reads path, or the command's stdin for "-"
func readInput(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}
