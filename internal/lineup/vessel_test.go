package lineup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVessel_Identity(t *testing.T) {
	v := Vessel{Name: "MSC ANNA", CallNumber: "2025/1042"}
	assert.Equal(t, "MSC ANNA_2025/1042", v.Identity())
}

func TestVessel_SearchText(t *testing.T) {
	v := Vessel{
		Name:       "GRAIN TRADER",
		Type:       "VRAQUIER",
		Operator:   "MASS CEREALES",
		Provenance: "ROUEN",
		Situation:  "A QUAI",
		Consignee:  "COMATAM",
	}
	text := v.SearchText()
	assert.Contains(t, text, "VRAQUIER")
	assert.Contains(t, text, "ROUEN")
	assert.Contains(t, text, "COMATAM")
}

func TestVessel_Enrich_ParsesFeedTimestamp(t *testing.T) {
	now := time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC)

	v := Vessel{SituationAt: "/Date(1751630400000+0100)/"}
	v.Enrich(now)

	assert.Equal(t, now, v.ScrapedAt)
	require.NotNil(t, v.ParsedDate)
	assert.Equal(t, time.UnixMilli(1751630400000), *v.ParsedDate)
}

func TestVessel_Enrich_NegativeZoneOffset(t *testing.T) {
	v := Vessel{SituationAt: "/Date(1751630400000-0500)/"}
	v.Enrich(time.Now())

	require.NotNil(t, v.ParsedDate)
	assert.Equal(t, time.UnixMilli(1751630400000), *v.ParsedDate)
}

func TestVessel_Enrich_IgnoresMalformedTimestamp(t *testing.T) {
	cases := []string{"", "04/07/2025", "/Date(abc)/", "/Date()/"}
	for _, raw := range cases {
		v := Vessel{SituationAt: raw}
		v.Enrich(time.Now())
		assert.Nil(t, v.ParsedDate, "input %q", raw)
	}
}
