package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// execute runs the root command in-process with fresh flag state
func execute(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RULES_FILE", "")
	t.Setenv("MODEL_TIER", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("PORT", "")
	t.Setenv("FREE_DAILY_LIMIT", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
