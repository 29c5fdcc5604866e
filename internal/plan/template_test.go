package plan

import (
	"testing"

	"github.com/planweaver/planweaver-backend/internal/types"
)

func mustStrategy(t *testing.T, id, section, title, content string, fields ...types.InputFieldSpec) *types.Strategy {
	t.Helper()
	s := &types.Strategy{ID: id, Section: section, Title: title, Content: content}
	if len(fields) > 0 {
		if err := s.SetFields(fields); err != nil {
			t.Fatalf("set fields: %v", err)
		}
	}
	return s
}

func TestSubstitute(t *testing.T) {
	cases := []struct {
		name     string
		content  string
		resolved map[string]Value
		want     string
	}{
		{
			name:     "basic_replacement",
			content:  "Save {{amount}} monthly at {{rate}}%.",
			resolved: map[string]Value{"amount": NumberValue(250), "rate": NumberValue(2.5)},
			want:     "Save 250 monthly at 2.5%.",
		},
		{
			name:     "unresolved_placeholder_left_verbatim",
			content:  "Save {{amount}} monthly",
			resolved: map[string]Value{},
			want:     "Save {{amount}} monthly",
		},
		{
			name:     "nil_map_is_identity",
			content:  "No placeholders here.",
			resolved: nil,
			want:     "No placeholders here.",
		},
		{
			name:     "partial_resolution",
			content:  "{{known}} and {{unknown}}",
			resolved: map[string]Value{"known": TextValue("resolved")},
			want:     "resolved and {{unknown}}",
		},
		{
			name:     "non_identifier_braces_untouched",
			content:  "literal {{with space}} and {{hy-phen}} stay",
			resolved: map[string]Value{"with": TextValue("x")},
			want:     "literal {{with space}} and {{hy-phen}} stay",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Substitute(tc.content, tc.resolved)
			if got != tc.want {
				t.Fatalf("Substitute(%q) = %q, want %q", tc.content, got, tc.want)
			}
		})
	}
}

func TestSubstituteDoesNotRescanReplacedValues(t *testing.T) {
	resolved := map[string]Value{
		"outer": TextValue("{{inner}}"),
		"inner": TextValue("should never appear"),
	}
	got := Substitute("value: {{outer}}", resolved)
	if got != "value: {{inner}}" {
		t.Fatalf("Substitute = %q, want replaced value left unexpanded", got)
	}
}

func TestSubstituteIdempotentOnSubstitutedOutput(t *testing.T) {
	resolved := map[string]Value{"amount": NumberValue(250)}
	once := Substitute("Save {{amount}} monthly", resolved)
	twice := Substitute(once, resolved)
	if once != twice {
		t.Fatalf("second pass changed output: %q vs %q", once, twice)
	}
}

func TestRenderStrategyAppendsConditionalParagraphs(t *testing.T) {
	s := mustStrategy(t, "s1", "buildNetWorth", "TFSA", "Contribute {{amount}} to your TFSA.",
		types.InputFieldSpec{ID: "amount", Type: types.FieldTypeNumber, DefaultValue: float64(500)},
		types.InputFieldSpec{
			ID:   "hasEmployerMatch",
			Type: types.FieldTypeToggle,
			ConditionalText: &types.ConditionalText{
				WhenTrue:  "Capture the full employer match first.",
				WhenFalse: "No employer match applies.",
			},
		},
		types.InputFieldSpec{
			ID:   "spousal",
			Type: types.FieldTypeToggle,
			ConditionalText: &types.ConditionalText{
				WhenTrue: "Consider a spousal contribution as well.",
			},
		},
	)

	supplied := map[string]Value{
		"hasEmployerMatch": BooleanValue(true),
		"spousal":          BooleanValue(true),
	}
	got := RenderStrategy(s, supplied)
	want := "Contribute 500 to your TFSA.\n\n" +
		"Capture the full employer match first.\n\n" +
		"Consider a spousal contribution as well."
	if got != want {
		t.Fatalf("RenderStrategy = %q, want %q", got, want)
	}
}

func TestRenderStrategyFalseToggleWithoutFalseHalf(t *testing.T) {
	s := mustStrategy(t, "s1", "buildNetWorth", "TFSA", "Base content.",
		types.InputFieldSpec{
			ID:              "flag",
			Type:            types.FieldTypeToggle,
			ConditionalText: &types.ConditionalText{WhenTrue: "Bonus paragraph."},
		},
	)
	got := RenderStrategy(s, map[string]Value{"flag": BooleanValue(false)})
	if got != "Base content." {
		t.Fatalf("RenderStrategy = %q, want no extra line", got)
	}
}
