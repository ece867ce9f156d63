package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kdjkdj1234567890-bit/content-engine/schemas"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [name]",
	Short: "List or print the bundled JSON schemas",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, name := range schemas.Names() {
				fmt.Fprintln(out, name)
			}
			return nil
		}
		content, err := schemas.Load(args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, content)
		return err
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
