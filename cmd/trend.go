package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var trendDays int

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Report the index direction over recent history",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initScraper(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(env.Scraper.Trend(trendDays)), "trend: encode")
	},
}

func init() {
	trendCmd.Flags().IntVar(&trendDays, "days", 0, "analysis window in days (default from config)")
	rootCmd.AddCommand(trendCmd)
}
