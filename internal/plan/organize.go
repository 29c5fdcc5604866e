package plan

import (
	"sort"
	"strings"

	"github.com/planweaver/planweaver-backend/internal/types"
)

// Filter narrows the catalog browsing view. SearchText is a case-insensitive
// substring match over title, content, description, category and subsection;
// Section is "all" (or empty) or an exact section key.
type Filter struct {
	SearchText string
	Section    string
}

// Subsection is one named group within a section, sorted by key among its
// siblings.
type Subsection struct {
	Key        string
	Strategies []*types.Strategy
}

// OrganizedSection is one section of the browsing view: strategies with no
// subsection in Direct, the rest grouped under Subsections.
type OrganizedSection struct {
	Section     string
	Title       string
	Direct      []*types.Strategy
	Subsections []Subsection
}

// Organize projects a flat strategy list into the two-level browsing
// taxonomy. Purely a projection: no side effects, safe to recompute on every
// keystroke of a search box. Unlike report compilation, members here are
// sorted alphabetically by title; the two orderings are deliberately
// different views of the same data.
func Organize(all []*types.Strategy, filter Filter) []OrganizedSection {
	search := strings.ToLower(strings.TrimSpace(filter.SearchText))
	sectionFilter := strings.TrimSpace(filter.Section)

	type sectionGroup struct {
		direct      []*types.Strategy
		subsections map[string][]*types.Strategy
	}
	groups := make(map[string]*sectionGroup)
	var seen []string

	for _, s := range all {
		if s == nil {
			continue
		}
		if !matchesSearch(s, search) {
			continue
		}
		key := s.Section
		if key == "" {
			key = SectionUncategorized
		}
		if sectionFilter != "" && sectionFilter != "all" && sectionFilter != key {
			continue
		}

		group, ok := groups[key]
		if !ok {
			group = &sectionGroup{subsections: make(map[string][]*types.Strategy)}
			groups[key] = group
			seen = append(seen, key)
		}

		// Subsection wins over category; category only stands in for
		// legacy rows that predate the subsection field.
		subKey := s.Subsection
		if subKey == "" {
			subKey = s.Category
		}
		if subKey == "" {
			group.direct = append(group.direct, s)
		} else {
			group.subsections[subKey] = append(group.subsections[subKey], s)
		}
	}

	out := make([]OrganizedSection, 0, len(groups))
	for _, key := range orderSectionKeys(seen) {
		group := groups[key]
		sortByTitle(group.direct)

		subKeys := make([]string, 0, len(group.subsections))
		for subKey := range group.subsections {
			subKeys = append(subKeys, subKey)
		}
		sort.Strings(subKeys)

		subsections := make([]Subsection, 0, len(subKeys))
		for _, subKey := range subKeys {
			members := group.subsections[subKey]
			sortByTitle(members)
			subsections = append(subsections, Subsection{Key: subKey, Strategies: members})
		}

		out = append(out, OrganizedSection{
			Section:     key,
			Title:       SectionTitle(key),
			Direct:      group.direct,
			Subsections: subsections,
		})
	}
	return out
}

func matchesSearch(s *types.Strategy, search string) bool {
	if search == "" {
		return true
	}
	for _, haystack := range []string{s.Title, s.Content, s.Description, s.Category, s.Subsection} {
		if strings.Contains(strings.ToLower(haystack), search) {
			return true
		}
	}
	return false
}

func sortByTitle(strategies []*types.Strategy) {
	sort.SliceStable(strategies, func(i, j int) bool {
		return strategies[i].Title < strategies[j].Title
	})
}
