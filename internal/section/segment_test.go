package section

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sealane-research/roundup-cli/internal/model"
)

func TestSegment_HeaderBounds(t *testing.T) {
	sections := Segment("Capesize: alpha text. Panamax: beta text.")

	assert.Contains(t, sections[model.ClassCapesize], "alpha text")
	assert.NotContains(t, sections[model.ClassCapesize], "beta")
	assert.Contains(t, sections[model.ClassPanamax], "beta text")
}

func TestSegment_AllFourClasses(t *testing.T) {
	text := "Capesize rates firmed this week. " +
		"Panamax activity was muted. " +
		"Ultramax / Supramax tonnage tightened in the Pacific. " +
		"Handysize held steady across both basins. " +
		"Previous Next Latest News"

	sections := Segment(text)

	assert.Contains(t, sections[model.ClassCapesize], "rates firmed")
	assert.Contains(t, sections[model.ClassPanamax], "activity was muted")
	assert.Contains(t, sections[model.ClassUltramaxSupramax], "tonnage tightened")
	assert.Contains(t, sections[model.ClassHandysize], "held steady")
	// last section stops at the trailing marker
	assert.NotContains(t, sections[model.ClassHandysize], "Latest News")
}

func TestSegment_MissingClassYieldsEmpty(t *testing.T) {
	sections := Segment("Capesize rates firmed. Handysize held steady.")

	assert.NotEmpty(t, sections[model.ClassCapesize])
	assert.Empty(t, sections[model.ClassPanamax])
	assert.Empty(t, sections[model.ClassUltramaxSupramax])
}

func TestSegment_NoText(t *testing.T) {
	sections := Segment("")
	for _, class := range model.Classes() {
		assert.Empty(t, sections[class])
	}
}

func TestFallbackSegment(t *testing.T) {
	text := "the capesize market saw improved sentiment before panamax trading opened and the handysize sector followed"
	sections := map[model.VesselClass]string{}

	fallbackSegment(text, sections)

	assert.Contains(t, sections[model.ClassCapesize], "capesize market")
	assert.NotContains(t, sections[model.ClassCapesize], "panamax")
	assert.Contains(t, sections[model.ClassHandysize], "handysize sector")
}

func TestFallbackSegment_CueRequired(t *testing.T) {
	// label present but none of the cue words inside the span
	sections := map[model.VesselClass]string{}
	fallbackSegment("capesize tonnage list only", sections)
	assert.Empty(t, sections[model.ClassCapesize])
}

func TestClean_StripsBoilerplate(t *testing.T) {
	in := "Capesize rates firmed. This site uses cookies and   extra   spaces."
	out := Clean(in)

	assert.Equal(t, "Capesize rates firmed. and extra spaces.", out)
}

func TestClean_Empty(t *testing.T) {
	assert.Equal(t, "", Clean("   \n\t  "))
}
