package plan

import (
	"strings"

	"github.com/planweaver/planweaver-backend/internal/types"
)

// Compile assembles the report body from a client's strategy configurations
// and the full catalog (builtin and custom treated uniformly).
//
// Disabled configs are skipped; configs whose strategy id is not in the
// catalog are silently dropped, so a stale reference to a deleted strategy
// never fails the whole compile. Sections render in canonical order, each
// non-empty one headed by its uppercase title; members keep configuration
// order, not title order. The worst possible outcome is visible {{...}}
// tokens or missing sections — compilation itself cannot fail.
func Compile(configs []types.ClientStrategyConfig, catalog []*types.Strategy) string {
	byID := make(map[string]*types.Strategy, len(catalog))
	for _, s := range catalog {
		if s != nil {
			byID[s.ID] = s
		}
	}

	members := make(map[string][]string)
	var seen []string
	for _, cfg := range configs {
		if !cfg.IsEnabled {
			continue
		}
		strategy, ok := byID[cfg.StrategyID]
		if !ok {
			continue
		}
		rendered := RenderStrategy(strategy, NormalizeInputValues(cfg.InputValues))
		key := strategy.Section
		if key == "" {
			key = SectionUncategorized
		}
		if _, ok := members[key]; !ok {
			seen = append(seen, key)
		}
		members[key] = append(members[key], rendered)
	}

	var blocks []string
	for _, key := range orderSectionKeys(seen) {
		texts := members[key]
		if len(texts) == 0 {
			continue
		}
		var b strings.Builder
		b.WriteString(SectionTitle(key))
		for _, text := range texts {
			b.WriteString("\n\n")
			b.WriteString(text)
		}
		blocks = append(blocks, b.String())
	}

	return strings.TrimSpace(strings.Join(blocks, "\n\n"))
}
