package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the collected dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initScraper(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(env.Scraper.Statistics()), "stats: encode")
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
