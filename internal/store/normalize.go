package store

import "strings"

// aliasMap maps lowercased source names to canonical team names. It is
// loaded once at store construction and read-only afterwards.
type aliasMap map[string]string

// Canonical resolves a raw name through the alias map. Unmapped names fall
// back to the trimmed input.
func (a aliasMap) Canonical(name string) string {
	trimmed := strings.TrimSpace(name)
	if canon, ok := a[strings.ToLower(trimmed)]; ok {
		return canon
	}
	// Heuristic: an aliased name may carry a spurious suffix.
	if canon, ok := a[strings.ToLower(stripFC(trimmed))]; ok {
		return canon
	}
	return trimmed
}

// stripFC removes a trailing or leading "FC" token.
func stripFC(name string) string {
	if strings.HasSuffix(name, " FC") {
		return strings.TrimSuffix(name, " FC")
	}
	if strings.HasPrefix(name, "FC ") {
		return strings.TrimPrefix(name, "FC ")
	}
	return name
}

// nameVariants generates the lookup candidates for a raw team name:
// the original, its lowercase, the canonical form and its lowercase, and
// the "FC"-suffixed and -stripped variants. All variants are lowercased for
// the LOWER(column) = ANY($1) comparison and deduplicated.
func (a aliasMap) nameVariants(name string) []string {
	trimmed := strings.TrimSpace(name)
	canon := a.Canonical(trimmed)

	raw := []string{
		trimmed,
		canon,
		trimmed + " FC",
		stripFC(trimmed),
		canon + " FC",
		stripFC(canon),
	}

	seen := make(map[string]struct{}, len(raw))
	variants := make([]string, 0, len(raw))
	for _, v := range raw {
		lower := strings.ToLower(v)
		if lower == "" {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		variants = append(variants, lower)
	}
	return variants
}
