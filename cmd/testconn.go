package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var testConnCmd = &cobra.Command{
	Use:   "test-connection",
	Short: "Probe the upstream report index",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initScraper(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		result := env.Scraper.TestConnection(cmd.Context())

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return eris.Wrap(err, "test-connection: encode")
		}
		if result.Status != "success" {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(testConnCmd)
}
