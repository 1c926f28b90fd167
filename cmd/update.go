package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var updateForce bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Run one collection cycle",
	Long:  "Fetches the report index, scrapes new weekly roundups, extracts market data, and persists the merged result.",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initScraper(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		result := env.Scraper.Update(cmd.Context(), updateForce)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return eris.Wrap(err, "update: encode result")
		}
		if result.Status == "error" {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	updateCmd.Flags().BoolVar(&updateForce, "force", false, "bypass the recency gate")
	rootCmd.AddCommand(updateCmd)
}
