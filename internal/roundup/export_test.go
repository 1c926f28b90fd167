package roundup

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sealane-research/roundup-cli/internal/model"
)

func TestExportRow_ColumnOrder(t *testing.T) {
	change, pct := -45.0, -2.9
	p5 := 14000
	snapshot := model.MarketSnapshot{
		ScrapedAt:     time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC),
		Index:         &model.IndexReading{Value: 1500, Change: &change, ChangePct: &pct},
		CompositeRate: &p5,
		ClassRates: map[model.VesselClass]int{
			model.ClassCapesize:  22000,
			model.ClassHandysize: 10500,
		},
		Sentiment: "positive",
	}

	row := exportRow(snapshot)
	require.Len(t, row, len(exportHeaders))

	assert.Equal(t, "2025-07-04T12:00:00Z", row[0])
	assert.Equal(t, "1500", row[1])
	assert.Equal(t, "-45", row[2])
	assert.Equal(t, "-2.9", row[3])
	assert.Equal(t, "14000", row[4])
	assert.Equal(t, "22000", row[5]) // capesize
	assert.Equal(t, "", row[6])      // panamax absent
	assert.Equal(t, "", row[7])      // supramax absent
	assert.Equal(t, "10500", row[8]) // handysize
	assert.Equal(t, "positive", row[9])
	assert.Equal(t, "3", row[10])
}

func TestExportXLSX(t *testing.T) {
	listing := &stubListing{entries: []model.ReportDescriptor{descriptor("27", "/news/w27")}}
	fetcher := &stubPageFetcher{pages: map[string]string{"https://example.com/news/w27": reportText}}
	s := newTestScraper(t, listing, fetcher)
	require.Equal(t, StatusSuccess, s.Update(context.Background(), false).Status)

	var buf bytes.Buffer
	require.NoError(t, s.ExportXLSX(Filter{}, &buf))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	assert.Equal(t, "Market Data", file.Sheets[0].Name)
	require.Len(t, file.Sheets[0].Rows, 2)
	assert.Equal(t, "Scraped At", file.Sheets[0].Rows[0].Cells[0].Value)
}
