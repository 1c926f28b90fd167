package roundup

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sealane-research/roundup-cli/internal/model"
)

// exportHeaders is the fixed export column order.
var exportHeaders = []string{
	"Scraped At", "BDI Value", "BDI Change", "BDI Change %", "P5 Value",
	"Capesize Rate", "Panamax Rate", "Supramax Rate", "Handysize Rate",
	"Market Sentiment", "Data Quality Score",
}

func exportRow(snapshot model.MarketSnapshot) []string {
	row := make([]string, 0, len(exportHeaders))
	row = append(row, snapshot.ScrapedAt.Format(time.RFC3339))

	if snapshot.Index != nil {
		row = append(row, strconv.Itoa(snapshot.Index.Value))
		row = append(row, formatFloat(snapshot.Index.Change))
		row = append(row, formatFloat(snapshot.Index.ChangePct))
	} else {
		row = append(row, "", "", "")
	}

	if snapshot.CompositeRate != nil {
		row = append(row, strconv.Itoa(*snapshot.CompositeRate))
	} else {
		row = append(row, "")
	}

	for _, class := range model.Classes() {
		if rate, ok := snapshot.ClassRate(class); ok {
			row = append(row, strconv.Itoa(rate))
		} else {
			row = append(row, "")
		}
	}

	row = append(row, snapshot.Sentiment)
	row = append(row, strconv.Itoa(snapshot.QualityScore()))
	return row
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// ExportCSV renders the filtered snapshots as CSV. An empty result set
// yields an empty string, not a lone header row.
func (s *Scraper) ExportCSV(f Filter) (string, error) {
	snapshots := s.Snapshots(f)
	if len(snapshots) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeaders); err != nil {
		return "", eris.Wrap(err, "roundup: write csv header")
	}
	for _, snapshot := range snapshots {
		if err := w.Write(exportRow(snapshot)); err != nil {
			return "", eris.Wrap(err, "roundup: write csv row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", eris.Wrap(err, "roundup: flush csv")
	}
	return buf.String(), nil
}

// ExportXLSX renders the filtered snapshots as a single-sheet workbook.
func (s *Scraper) ExportXLSX(f Filter, w io.Writer) error {
	snapshots := s.Snapshots(f)

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Market Data")
	if err != nil {
		return eris.Wrap(err, "roundup: add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().Value = h
	}
	for _, snapshot := range snapshots {
		row := sheet.AddRow()
		for _, v := range exportRow(snapshot) {
			row.AddCell().Value = v
		}
	}

	return eris.Wrap(file.Write(w), "roundup: write xlsx")
}
