package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealane-research/roundup-cli/internal/model"
)

func TestIndex_Level(t *testing.T) {
	reading := Index("The BDI: 1,500 closed out the week on 4 Jul 2025.")
	require.NotNil(t, reading)

	assert.Equal(t, 1500, reading.Value)
	assert.Equal(t, "4 Jul 2025", reading.Date)
}

func TestIndex_PatternPrecedence(t *testing.T) {
	// BDI battery lists the explicit label before the broad Index fallback;
	// the labelled value must win even when both are present.
	reading := Index("Index: 9999 ... BDI: 1500")
	require.NotNil(t, reading)
	assert.Equal(t, 1500, reading.Value)
}

func TestIndex_Components(t *testing.T) {
	text := "BCI 5TC shedding $22,000 while the BPI 5TC at $15,250 and BSI 5TC at $13,000."
	reading := Index(text)
	require.NotNil(t, reading)

	assert.Equal(t, 22000, reading.Components["bci_5tc"])
	assert.Equal(t, 15250, reading.Components["bpi_5tc"])
	assert.Equal(t, 13000, reading.Components["bsi_5tc"])
}

func TestIndex_ChangeBothGroups(t *testing.T) {
	reading := Index("BDI: 1500, -45 (-2.9%) on the week")
	require.NotNil(t, reading)

	require.NotNil(t, reading.Change)
	require.NotNil(t, reading.ChangePct)
	assert.Equal(t, -45.0, *reading.Change)
	assert.Equal(t, -2.9, *reading.ChangePct)
}

func TestIndex_Absent(t *testing.T) {
	assert.Nil(t, Index("nothing numeric about shipping here"))
}

func TestComposite(t *testing.T) {
	value, tc := Composite("P5 around $14,000 with 9-11 months trading at $15,250")
	require.NotNil(t, value)
	assert.Equal(t, 14000, *value)

	require.NotNil(t, tc)
	assert.Equal(t, "9-11", tc.Period)
	assert.Equal(t, 15250, tc.Rate)
}

func TestComposite_Absent(t *testing.T) {
	value, tc := Composite("quiet week, nothing fixed")
	assert.Nil(t, value)
	assert.Nil(t, tc)
}

func TestRoutes(t *testing.T) {
	routes := Routes("C3: $24,500 and C5 rates around $10,750 held")
	require.NotNil(t, routes)

	assert.Equal(t, 24500, routes["C3"])
	assert.Equal(t, 10750, routes["C5"])
}

func TestClassRates(t *testing.T) {
	text := "Capesize: 22,000 Panamax: 15,250 Supramax: 13,000 Handysize: 10,500"
	rates := ClassRates(text)
	require.NotNil(t, rates)

	assert.Equal(t, 22000, rates[model.ClassCapesize])
	assert.Equal(t, 15250, rates[model.ClassPanamax])
	assert.Equal(t, 13000, rates[model.ClassUltramaxSupramax])
	assert.Equal(t, 10500, rates[model.ClassHandysize])
}

func TestClassRates_Partial(t *testing.T) {
	rates := ClassRates("Capesize: 22,000 only")
	require.NotNil(t, rates)

	assert.Equal(t, 22000, rates[model.ClassCapesize])
	_, ok := rates[model.ClassPanamax]
	assert.False(t, ok)
}

func TestSentiment(t *testing.T) {
	assert.Equal(t, "bullish", Sentiment("Owners remained Bullish into the close"))
	assert.Equal(t, "steady", Sentiment("rates held steady"))
	assert.Equal(t, "", Sentiment("no view expressed"))
}

func TestParseInt(t *testing.T) {
	n, ok := parseInt("15,250")
	assert.True(t, ok)
	assert.Equal(t, 15250, n)

	_, ok = parseInt("n/a")
	assert.False(t, ok)
}

func TestComputeCompositeIndex(t *testing.T) {
	assert.Equal(t, 153.72, ComputeCompositeIndex(2000, 1000, 1000))
	assert.Equal(t, 0.0, ComputeCompositeIndex(0, 0, 0))
}
