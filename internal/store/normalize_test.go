package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testAliases() aliasMap {
	return aliasMap{
		"man united":        "Manchester United",
		"man utd":           "Manchester United",
		"manchester united": "Manchester United",
		"spurs":             "Tottenham",
		"tottenham":         "Tottenham",
	}
}

func TestCanonical(t *testing.T) {
	a := testAliases()

	assert.Equal(t, "Manchester United", a.Canonical("Man United"))
	assert.Equal(t, "Manchester United", a.Canonical("  man utd  "))
	assert.Equal(t, "Tottenham", a.Canonical("SPURS"))

	// Suffix heuristic: "Spurs FC" resolves through the stripped form.
	assert.Equal(t, "Tottenham", a.Canonical("Spurs FC"))

	// Unmapped names fall back to the trimmed input.
	assert.Equal(t, "Wrexham", a.Canonical(" Wrexham "))
}

func TestStripFC(t *testing.T) {
	assert.Equal(t, "Liverpool", stripFC("Liverpool FC"))
	assert.Equal(t, "Barcelona", stripFC("FC Barcelona"))
	assert.Equal(t, "Everton", stripFC("Everton"))
}

func TestNameVariants(t *testing.T) {
	a := testAliases()

	variants := a.nameVariants("Man United")
	assert.Contains(t, variants, "man united")
	assert.Contains(t, variants, "manchester united")
	assert.Contains(t, variants, "man united fc")
	assert.Contains(t, variants, "manchester united fc")

	// All lowercased, no duplicates.
	seen := map[string]bool{}
	for _, v := range variants {
		assert.Equal(t, strings.ToLower(v), v)
		assert.False(t, seen[v], "duplicate variant %q", v)
		seen[v] = true
	}
}

func TestNameVariants_FCForms(t *testing.T) {
	a := aliasMap{}
	variants := a.nameVariants("Liverpool FC")
	assert.Contains(t, variants, "liverpool fc")
	assert.Contains(t, variants, "liverpool")
}
