package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kdjkdj1234567890-bit/content-engine/internal/config"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/server"
)

var tokenUser string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for a user",
	Long: `Sign an HS256 token with JWT_SECRET. Requests carrying the token are counted
against the user's own daily quota instead of the caller's IP address.`,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVarP(&tokenUser, "user", "u", "", "User ID to embed in the token (required)")
	if err := tokenCmd.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("failed to mark user flag as required: %v", err))
	}
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	if jwtCfg == nil {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}

	token, err := server.NewJWTService(jwtCfg).GenerateToken(tokenUser)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
