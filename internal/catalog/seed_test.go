package catalog

import (
	"testing"

	"github.com/planweaver/planweaver-backend/internal/types"
)

func TestEmbeddedSeedParses(t *testing.T) {
	raw, err := builtinSeedFS.ReadFile("builtin.yaml")
	if err != nil {
		t.Fatalf("read embedded seed: %v", err)
	}
	strategies, err := parseSeed(raw)
	if err != nil {
		t.Fatalf("parse embedded seed: %v", err)
	}
	if len(strategies) == 0 {
		t.Fatalf("embedded seed is empty")
	}

	seen := map[string]bool{}
	sections := map[string]bool{}
	for _, s := range strategies {
		if s.ID == "" {
			t.Fatalf("seed strategy with empty id: %+v", s)
		}
		if seen[s.ID] {
			t.Fatalf("duplicate seed id %q", s.ID)
		}
		seen[s.ID] = true
		if s.IsCustom {
			t.Fatalf("seed strategy %q marked custom", s.ID)
		}
		sections[s.Section] = true

		for _, f := range s.Fields() {
			if f.ID == "" {
				t.Fatalf("strategy %q declares a field with no id", s.ID)
			}
			if f.Type == types.FieldTypeSelect && len(f.Options) == 0 {
				t.Fatalf("strategy %q select field %q has no options", s.ID, f.ID)
			}
		}
	}

	for _, section := range []string{"recommendations", "buildNetWorth", "implementingTaxStrategies", "protectingWhatMatters", "leavingALegacy"} {
		if !sections[section] {
			t.Fatalf("seed covers no strategy in section %q", section)
		}
	}
}

func TestSeedDefaultsNormalize(t *testing.T) {
	raw, err := builtinSeedFS.ReadFile("builtin.yaml")
	if err != nil {
		t.Fatalf("read embedded seed: %v", err)
	}
	strategies, err := parseSeed(raw)
	if err != nil {
		t.Fatalf("parse embedded seed: %v", err)
	}

	var emergency *types.Strategy
	for _, s := range strategies {
		if s.ID == "emergency-fund" {
			emergency = s
		}
	}
	if emergency == nil {
		t.Fatalf("emergency-fund missing from seed")
	}
	fields := emergency.Fields()
	if len(fields) != 1 || fields[0].ID != "months" {
		t.Fatalf("emergency-fund fields = %+v", fields)
	}
	if fields[0].DefaultValue == nil {
		t.Fatalf("emergency-fund months default missing")
	}
}

func TestParseSeedRejectsDuplicates(t *testing.T) {
	raw := []byte(`
version: 1
strategies:
  - id: dup
    title: One
  - id: dup
    title: Two
`)
	if _, err := parseSeed(raw); err == nil {
		t.Fatalf("duplicate ids accepted")
	}
}

func TestFallbackStrategies(t *testing.T) {
	strategies := fallbackStrategies()
	if len(strategies) == 0 {
		t.Fatalf("fallback catalog empty")
	}
	for _, s := range strategies {
		if s.ID == "" || s.IsCustom {
			t.Fatalf("bad fallback strategy: %+v", s)
		}
	}
}
