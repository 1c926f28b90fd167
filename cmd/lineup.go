package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sealane-research/roundup-cli/internal/lineup"
)

var lineupCmd = &cobra.Command{
	Use:   "lineup",
	Short: "Track port calls matching the keyword groups",
	Long:  "Commands for updating and inspecting the port authority vessel movement feed.",
}

func initLineup() (*lineup.Scraper, error) {
	keywords := lineup.DefaultKeywords()
	if cfg.Lineup.KeywordsFile != "" {
		kw, err := lineup.LoadKeywords(cfg.Lineup.KeywordsFile)
		if err != nil {
			return nil, err
		}
		keywords = kw
	}

	client := lineup.NewClient(lineup.ClientOptions{
		BaseURL:   cfg.Lineup.BaseURL,
		FeedPath:  cfg.Lineup.FeedPath,
		Delay:     cfg.Lineup.Delay(),
		Timeout:   cfg.Scrape.Timeout(),
		UserAgent: cfg.Scrape.UserAgent,
	})

	return lineup.NewScraper(client, lineup.NewMatcher(keywords), cfg.Data.Dir, cfg.Lineup.MinInterval())
}

var lineupUpdateForce bool

var lineupUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch the movement feed and merge matching calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := initLineup()
		if err != nil {
			return err
		}

		result := s.Update(cmd.Context(), lineupUpdateForce)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return eris.Wrap(err, "lineup update: encode")
		}
		if result.Status == "error" {
			os.Exit(1)
		}
		return nil
	},
}

var lineupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the accumulated port calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := initLineup()
		if err != nil {
			return err
		}

		vessels := s.Vessels()
		if len(vessels) == 0 {
			fmt.Fprintln(os.Stderr, "No vessels tracked yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTYPE\tOPERATOR\tCALL\tSITUATION")
		for _, v := range vessels {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", v.Name, v.Type, v.Operator, v.CallNumber, v.Situation)
		}
		return w.Flush()
	},
}

func init() {
	lineupUpdateCmd.Flags().BoolVar(&lineupUpdateForce, "force", false, "bypass the recency gate")
	lineupCmd.AddCommand(lineupUpdateCmd)
	lineupCmd.AddCommand(lineupListCmd)
	rootCmd.AddCommand(lineupCmd)
}
