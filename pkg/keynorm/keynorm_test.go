package keynorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Run("Should lowercase and strip non-alphanumerics", func(t *testing.T) {
		assert.Equal(t, "cvrlastmonthgoogle", Normalize("CVR Last Month – Google"))
		assert.Equal(t, "cvrlastmonthgoogle", Normalize("cvr_last_month_google"))
	})

	t.Run("Should join drifted header spellings to one key", func(t *testing.T) {
		assert.Equal(t, Normalize("Active RIDs (30d)"), Normalize("active_rids_30d"))
	})

	t.Run("Should keep digits", func(t *testing.T) {
		assert.Equal(t, "revenue2024q1", Normalize("Revenue 2024 / Q1"))
	})

	t.Run("Should return empty string for empty input", func(t *testing.T) {
		assert.Equal(t, "", Normalize(""))
	})

	t.Run("Should strip unicode punctuation and symbols", func(t *testing.T) {
		assert.Equal(t, "cpc", Normalize("CPC (€)"))
	})

	t.Run("Should be idempotent", func(t *testing.T) {
		inputs := []string{"", "Parent Account", "rid", "% Conv – Déjà", "A1_b2 C3"}
		for _, in := range inputs {
			once := Normalize(in)
			assert.Equal(t, once, Normalize(once))
		}
	})
}
