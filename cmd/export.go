package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sealane-research/roundup-cli/internal/roundup"
)

var (
	exportOut    string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the collected snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initScraper(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		switch exportFormat {
		case "csv":
			data, err := env.Scraper.ExportCSV(roundup.Filter{})
			if err != nil {
				return err
			}
			if exportOut == "" {
				fmt.Print(data)
				return nil
			}
			return eris.Wrapf(os.WriteFile(exportOut, []byte(data), 0o644), "export: write %s", exportOut)
		case "xlsx":
			if exportOut == "" {
				return eris.New("export: --out is required for xlsx")
			}
			f, err := os.Create(exportOut)
			if err != nil {
				return eris.Wrapf(err, "export: create %s", exportOut)
			}
			defer f.Close()
			return env.Scraper.ExportXLSX(roundup.Filter{}, f)
		default:
			return eris.Errorf("export: unknown format %q", exportFormat)
		}
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout for csv)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "export format: csv or xlsx")
	rootCmd.AddCommand(exportCmd)
}
