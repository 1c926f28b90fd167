package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show scraper state and the latest snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initScraper(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		state := env.Scraper.State()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Phase:\t%s\n", env.Scraper.Phase())
		if state.LastUpdate != nil {
			fmt.Fprintf(w, "Last update:\t%s\n", state.LastUpdate.Format(time.RFC3339))
		} else {
			fmt.Fprintf(w, "Last update:\tnever\n")
		}
		fmt.Fprintf(w, "Total reports:\t%d\n", state.TotalReports)
		fmt.Fprintf(w, "Update count:\t%d\n", state.UpdateCount)
		if state.LastError != "" {
			fmt.Fprintf(w, "Last error:\t%s\n", state.LastError)
		}

		if latest := env.Scraper.Latest(); latest != nil {
			p := message.NewPrinter(language.English)
			fmt.Fprintf(w, "Scraped at:\t%s\n", latest.ScrapedAt.Format(time.RFC3339))
			if latest.Index != nil {
				fmt.Fprintf(w, "BDI:\t%s\n", p.Sprintf("%d", latest.Index.Value))
			}
			if latest.CompositeRate != nil {
				fmt.Fprintf(w, "P5 (avg 5TC):\t$%s/day\n", p.Sprintf("%d", *latest.CompositeRate))
			}
			for class, rate := range latest.ClassRates {
				fmt.Fprintf(w, "%s:\t$%s/day\n", class, p.Sprintf("%d", rate))
			}
			if latest.Sentiment != "" {
				fmt.Fprintf(w, "Sentiment:\t%s\n", latest.Sentiment)
			}
			fmt.Fprintf(w, "Quality:\t%d/3\n", latest.QualityScore())
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
