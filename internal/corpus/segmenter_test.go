package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentTwoArticles(t *testing.T) {
	text := "ARTICLE 1 Vehicles must stop. ARTICLE 2 Pedestrians have right of way."

	sections := Segment(text)
	require.Len(t, sections, 2)

	assert.Equal(t, "Vehicles must stop.", sections[0].Text)
	assert.Equal(t, "1", sections[0].Article)
	assert.Equal(t, "Pedestrians have right of way.", sections[1].Text)
	assert.Equal(t, "2", sections[1].Article)
}

func TestSegmentReturnsOneSectionPerMarkerInOrder(t *testing.T) {
	text := "PREÁMBULO que se descarta. " +
		"ARTÍCULO 1. Ámbito. Las normas aplican en todo el territorio. " +
		"Artículo 2. Definiciones. Para la aplicación de este código. " +
		"artículo 15. Sanciones. El conductor será sancionado."

	sections := Segment(text)
	require.Len(t, sections, 3)

	assert.Equal(t, []string{"1", "2", "15"}, []string{
		sections[0].Article, sections[1].Article, sections[2].Article,
	})
	assert.Equal(t, "Ámbito. Las normas aplican en todo el territorio.", sections[0].Text)
	assert.Equal(t, "Definiciones. Para la aplicación de este código.", sections[1].Text)
	assert.Equal(t, "Sanciones. El conductor será sancionado.", sections[2].Text)
}

func TestSegmentNoMarkers(t *testing.T) {
	assert.Empty(t, Segment("Texto sin encabezados de ninguna clase."))
	assert.Empty(t, Segment(""))
}

func TestSegmentMarkerMidLine(t *testing.T) {
	text := "considerando lo anterior, ARTÍCULO 7. Licencias. Se requiere licencia."

	sections := Segment(text)
	require.Len(t, sections, 1)
	assert.Equal(t, "7", sections[0].Article)
	assert.Equal(t, "Licencias. Se requiere licencia.", sections[0].Text)
}

func TestCleanSectionTextStripsHeaderOnce(t *testing.T) {
	cleaned := CleanSectionText("ARTÍCULO 3°. - Normas. Ver ARTÍCULO 12 para excepciones.")
	assert.Equal(t, "Normas. Ver ARTÍCULO 12 para excepciones.", cleaned)
}

func TestCleanSectionTextIdempotent(t *testing.T) {
	once := CleanSectionText("ARTÍCULO 5. Velocidad. La velocidad máxima será de sesenta.")
	twice := CleanSectionText(once)
	assert.Equal(t, once, twice)
}

func TestCleanSectionTextNoUppercaseAfterHeader(t *testing.T) {
	// No uppercase boundary: the section survives unchanged apart from
	// trimming.
	assert.Equal(t, "ARTÍCULO 9 ...", CleanSectionText("  ARTÍCULO 9 ...  "))
	assert.Equal(t, "ARTÍCULO 9", CleanSectionText("ARTÍCULO 9"))
	assert.Equal(t, "ARTÍCULO 9 sin mayúscula", CleanSectionText("ARTÍCULO 9 sin mayúscula"))
}

func TestCleanSectionTextWithoutHeader(t *testing.T) {
	assert.Equal(t, "Texto normal.", CleanSectionText("  Texto normal.  "))
}

func TestSegmentAccentedUppercaseBoundary(t *testing.T) {
	sections := Segment("ARTÍCULO 4. Órganos de tránsito. Son autoridades.")
	require.Len(t, sections, 1)
	assert.Equal(t, "Órganos de tránsito. Son autoridades.", sections[0].Text)
}
