package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kdjkdj1234567890-bit/content-engine/internal/llm"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/server"
)

var (
	servePort       int
	serveDailyLimit int
	serveRulesFile  string
	serveTier       string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing /generate, /generate/stream, /analyze, /usage and /generations.
Usage counters and history are kept in Postgres when DATABASE_URL is set, in memory otherwise.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().IntVar(&serveDailyLimit, "daily-limit", 0, "Free generations per user per UTC day (default 3)")
	serveCmd.Flags().StringVar(&serveRulesFile, "rules", "", "YAML scoring rule overrides")
	serveCmd.Flags().StringVar(&serveTier, "tier", "", "Model tier: lite, standard or advanced")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("daily-limit") {
		cfg.DailyLimit = serveDailyLimit
	}
	if serveRulesFile != "" {
		cfg.RulesFile = serveRulesFile
	}
	if serveTier != "" {
		cfg.ModelTier = serveTier
	}

	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	tier, err := llm.ParseModelTier(cfg.ModelTier)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Port:        cfg.Port,
		DatabaseURL: cfg.DatabaseURL,
		APIKey:      cfg.APIKey,
		ModelTier:   tier,
		Model:       cfg.Model,
		DailyLimit:  cfg.DailyLimit,
		RulesFile:   cfg.RulesFile,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
