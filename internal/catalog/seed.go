package catalog

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/planweaver/planweaver-backend/internal/logger"
	"github.com/planweaver/planweaver-backend/internal/types"
)

const seedPathEnv = "CATALOG_SEED_YAML"

//go:embed builtin.yaml
var builtinSeedFS embed.FS

type seedFile struct {
	Version    int            `yaml:"version"`
	Strategies []seedStrategy `yaml:"strategies"`
}

type seedStrategy struct {
	ID          string                 `yaml:"id"`
	Title       string                 `yaml:"title"`
	Description string                 `yaml:"description"`
	Category    string                 `yaml:"category"`
	Section     string                 `yaml:"section"`
	Subsection  string                 `yaml:"subsection"`
	Content     string                 `yaml:"content"`
	InputFields []types.InputFieldSpec `yaml:"inputFields"`
}

// BuiltinStrategies loads the builtin catalog seed: CATALOG_SEED_YAML when
// set, the embedded builtin.yaml otherwise. A broken seed degrades to a
// minimal hardcoded catalog so the server still starts.
func BuiltinStrategies(log *logger.Logger) []*types.Strategy {
	raw, source, err := readSeed()
	if err != nil {
		if log != nil {
			log.Warn("Catalog seed unreadable, using fallback", "source", source, "error", err)
		}
		return fallbackStrategies()
	}

	strategies, err := parseSeed(raw)
	if err != nil {
		if log != nil {
			log.Warn("Catalog seed invalid, using fallback", "source", source, "error", err)
		}
		return fallbackStrategies()
	}
	if log != nil {
		log.Info("Builtin catalog seed loaded", "source", source, "strategies", len(strategies))
	}
	return strategies
}

func readSeed() ([]byte, string, error) {
	if path := strings.TrimSpace(os.Getenv(seedPathEnv)); path != "" {
		raw, err := os.ReadFile(path)
		return raw, path, err
	}
	raw, err := builtinSeedFS.ReadFile("builtin.yaml")
	return raw, "embedded", err
}

func parseSeed(raw []byte) ([]*types.Strategy, error) {
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse seed yaml: %w", err)
	}
	if len(file.Strategies) == 0 {
		return nil, fmt.Errorf("seed declares no strategies")
	}

	seen := make(map[string]bool, len(file.Strategies))
	out := make([]*types.Strategy, 0, len(file.Strategies))
	for i, entry := range file.Strategies {
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			return nil, fmt.Errorf("seed strategy %d has no id", i)
		}
		if seen[id] {
			return nil, fmt.Errorf("seed strategy id %q duplicated", id)
		}
		seen[id] = true

		s := &types.Strategy{
			ID:          id,
			Title:       entry.Title,
			Description: entry.Description,
			Category:    entry.Category,
			Section:     entry.Section,
			Subsection:  entry.Subsection,
			Content:     entry.Content,
			IsCustom:    false,
		}
		if err := s.SetFields(entry.InputFields); err != nil {
			return nil, fmt.Errorf("seed strategy %q fields: %w", id, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func fallbackStrategies() []*types.Strategy {
	emergency := &types.Strategy{
		ID:          "emergency-fund",
		Title:       "Emergency Fund",
		Description: "Baseline liquidity cushion.",
		Section:     "protectingWhatMatters",
		Content:     "Maintain an emergency fund of {{months}} months of essential expenses in a high-interest savings account.",
		IsCustom:    false,
	}
	_ = emergency.SetFields([]types.InputFieldSpec{
		{ID: "months", Label: "Months of expenses", Type: types.FieldTypeNumber, DefaultValue: 3},
	})

	review := &types.Strategy{
		ID:          "annual-review",
		Title:       "Annual Plan Review",
		Description: "Standing recommendation.",
		Section:     "recommendations",
		Content:     "Review this financial plan together at least once per year and after any major life event.",
		IsCustom:    false,
	}
	_ = review.SetFields(nil)

	return []*types.Strategy{emergency, review}
}
