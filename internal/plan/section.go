package plan

import (
	"strings"
	"unicode"
)

// SectionUncategorized buckets strategies with no section; it always renders
// last.
const SectionUncategorized = "uncategorized"

// Canonical report order. Unknown section keys order after these, in the
// order they were first seen; uncategorized is always last.
var canonicalSectionOrder = []string{
	"recommendations",
	"buildNetWorth",
	"implementingTaxStrategies",
	"protectingWhatMatters",
	"leavingALegacy",
}

var sectionTitles = map[string]string{
	"recommendations":           "RECOMMENDATIONS",
	"buildNetWorth":             "BUILD NET WORTH",
	"implementingTaxStrategies": "IMPLEMENTING TAX STRATEGIES",
	"protectingWhatMatters":     "PROTECTING WHAT MATTERS",
	"leavingALegacy":            "LEAVING A LEGACY",
	SectionUncategorized:        "UNCATEGORIZED",
}

// CanonicalSections returns the fixed section order for catalog browsing and
// report assembly.
func CanonicalSections() []string {
	out := make([]string, len(canonicalSectionOrder))
	copy(out, canonicalSectionOrder)
	return out
}

// SectionTitle returns the uppercase display heading for a section key.
// Unknown keys are humanized from camelCase ("estatePlanning" → "ESTATE
// PLANNING") so forward-compatible sections still render sensibly.
func SectionTitle(key string) string {
	if key == "" {
		key = SectionUncategorized
	}
	if title, ok := sectionTitles[key]; ok {
		return title
	}
	return strings.ToUpper(splitCamelCase(key))
}

// orderSectionKeys sorts section keys seen in first-seen order into render
// order: canonical sections first, then unknown keys as first seen, then
// uncategorized.
func orderSectionKeys(seen []string) []string {
	present := make(map[string]bool, len(seen))
	for _, key := range seen {
		present[key] = true
	}

	out := make([]string, 0, len(seen))
	for _, key := range canonicalSectionOrder {
		if present[key] {
			out = append(out, key)
			present[key] = false
		}
	}
	for _, key := range seen {
		if key == SectionUncategorized || !present[key] {
			continue
		}
		out = append(out, key)
		present[key] = false
	}
	if present[SectionUncategorized] {
		out = append(out, SectionUncategorized)
	}
	return out
}

func splitCamelCase(key string) string {
	var b strings.Builder
	for i, r := range key {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
