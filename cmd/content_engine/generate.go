package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kdjkdj1234567890-bit/content-engine/internal/generation"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/llm"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/observability"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft and score copy for a keyword",
	Long: `Draft copy for each requested content type with Gemini, then score every draft.
Requires GEMINI_API_KEY (or --api-key). Daily free limits apply to the API server only.`,
	RunE: runGenerate,
}

var (
	generateKeyword    string
	generateTypes      []string
	generateTone       string
	generateIndustry   string
	generateAudience   string
	generateTeam       string
	generateBrandVoice string
	generateRules      string
	generateTier       string
	generateModel      string
	generateAPIKey     string
	generateJSON       bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateKeyword, "keyword", "k", "", "Topic keyword (required)")
	generateCmd.Flags().StringSliceVarP(&generateTypes, "type", "t", []string{"blog"}, "Content types: blog, instagram, youtube, email, ad")
	generateCmd.Flags().StringVar(&generateTone, "tone", "", "professional, friendly, humorous, urgent or luxurious")
	generateCmd.Flags().StringVar(&generateIndustry, "industry", "", "Industry context")
	generateCmd.Flags().StringVar(&generateAudience, "audience", "", "Target audience")
	generateCmd.Flags().StringVar(&generateTeam, "team", "", "Writing team: content or sales")
	generateCmd.Flags().StringVar(&generateBrandVoice, "brand-voice", "", "Brand voice description")
	generateCmd.Flags().StringVar(&generateRules, "rules", "", "YAML scoring rule overrides")
	generateCmd.Flags().StringVar(&generateTier, "tier", "", "Model tier: lite, standard or advanced")
	generateCmd.Flags().StringVar(&generateModel, "model", "", "Gemini model for the tier (overrides GEMINI_MODEL env var)")
	generateCmd.Flags().StringVar(&generateAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "Print results as JSON")

	if err := generateCmd.MarkFlagRequired("keyword"); err != nil {
		panic(fmt.Sprintf("failed to mark keyword flag as required: %v", err))
	}

	rootCmd.AddCommand(generateCmd)
}

// buildGenerateRequest turns the generate flags into a validated request
func buildGenerateRequest() (*types.GenerateRequest, error) {
	req := &types.GenerateRequest{
		Keyword:        generateKeyword,
		Tone:           generateTone,
		Industry:       generateIndustry,
		TargetAudience: generateAudience,
		Details: types.GenerationDetails{
			Team:       generateTeam,
			BrandVoice: generateBrandVoice,
		},
	}
	for _, raw := range generateTypes {
		ct, err := types.ParseContentType(raw)
		if err != nil {
			return nil, err
		}
		req.Types = append(req.Types, ct)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return req, nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	req, err := buildGenerateRequest()
	if err != nil {
		return err
	}

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	apiKey := generateAPIKey
	if apiKey == "" {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required (set --api-key or GEMINI_API_KEY)")
	}
	if generateTier != "" {
		cfg.ModelTier = generateTier
	}
	tier, err := llm.ParseModelTier(cfg.ModelTier)
	if err != nil {
		return err
	}
	rulesFile := generateRules
	if rulesFile == "" {
		rulesFile = cfg.RulesFile
	}
	scorer, err := loadScorer(rulesFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	llmConfig := llm.DefaultConfig()
	model := generateModel
	if model == "" {
		model = cfg.Model
	}
	if model != "" {
		llmConfig = llmConfig.WithModel(tier, model)
	}
	client, err := llm.NewClient(ctx, llmConfig, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	svc := generation.NewService(client, generation.WithScorer(scorer), generation.WithTier(tier))
	printer := observability.NewPrinter(cmd.OutOrStdout())

	start := time.Now()
	var onResult func(*types.GeneratedContent)
	if !generateJSON {
		onResult = printer.PrintGenerated
	}
	results, err := svc.GenerateEach(ctx, req, onResult)
	if err != nil {
		return err
	}

	if generateJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Results   map[types.ContentType]*types.GeneratedContent `json:"results"`
			PoweredBy string                                        `json:"powered_by"`
		}{results, llmConfig.PoweredBy(tier)})
	}
	printer.PrintFooter(llmConfig.PoweredBy(tier), time.Since(start))
	return nil
}
