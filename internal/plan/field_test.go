package plan

import (
	"testing"

	"github.com/planweaver/planweaver-backend/internal/types"
)

func TestResolveFieldSuppliedWins(t *testing.T) {
	field := types.InputFieldSpec{ID: "rate", Type: types.FieldTypeNumber, DefaultValue: float64(5)}
	supplied := map[string]Value{"rate": NumberValue(7)}

	res := ResolveField(field, supplied)
	if res.Value == nil || res.Value.Raw != "7" {
		t.Fatalf("resolved = %+v, want 7", res.Value)
	}
}

func TestResolveFieldDefaultFallback(t *testing.T) {
	field := types.InputFieldSpec{ID: "rate", Type: types.FieldTypeNumber, DefaultValue: float64(5)}

	res := ResolveField(field, nil)
	if res.Value == nil || res.Value.Raw != "5" {
		t.Fatalf("resolved = %+v, want default 5", res.Value)
	}
}

func TestResolveFieldUnresolved(t *testing.T) {
	field := types.InputFieldSpec{ID: "amount", Type: types.FieldTypeNumber}

	res := ResolveField(field, nil)
	if res.Value != nil {
		t.Fatalf("resolved = %+v, want nil", res.Value)
	}
	if res.ExtraText != "" {
		t.Fatalf("extra text = %q, want empty", res.ExtraText)
	}
}

func TestResolveFieldDateRetag(t *testing.T) {
	field := types.InputFieldSpec{ID: "reviewDate", Type: types.FieldTypeDate}
	supplied := map[string]Value{"reviewDate": TextValue("2026-01-15")}

	res := ResolveField(field, supplied)
	if res.Value == nil || res.Value.Kind != KindDate || res.Value.Raw != "2026-01-15" {
		t.Fatalf("resolved = %+v, want date 2026-01-15", res.Value)
	}
}

func TestResolveFieldToggleConditionalText(t *testing.T) {
	cases := []struct {
		name      string
		cond      *types.ConditionalText
		supplied  map[string]Value
		defVal    any
		wantExtra string
	}{
		{
			name:      "true_half",
			cond:      &types.ConditionalText{WhenTrue: "Bonus paragraph."},
			supplied:  map[string]Value{"hasTFSA": BooleanValue(true)},
			wantExtra: "Bonus paragraph.",
		},
		{
			name:      "false_half",
			cond:      &types.ConditionalText{WhenTrue: "Bonus paragraph.", WhenFalse: "Open one first."},
			supplied:  map[string]Value{"hasTFSA": BooleanValue(false)},
			wantExtra: "Open one first.",
		},
		{
			name:      "false_with_no_false_half",
			cond:      &types.ConditionalText{WhenTrue: "Bonus paragraph."},
			supplied:  map[string]Value{"hasTFSA": BooleanValue(false)},
			wantExtra: "",
		},
		{
			name:      "default_drives_toggle",
			cond:      &types.ConditionalText{WhenTrue: "Bonus paragraph."},
			defVal:    true,
			wantExtra: "Bonus paragraph.",
		},
		{
			name:      "unresolved_toggle_appends_nothing",
			cond:      &types.ConditionalText{WhenTrue: "Bonus paragraph.", WhenFalse: "Open one first."},
			wantExtra: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			field := types.InputFieldSpec{
				ID:              "hasTFSA",
				Type:            types.FieldTypeToggle,
				DefaultValue:    tc.defVal,
				ConditionalText: tc.cond,
			}
			res := ResolveField(field, tc.supplied)
			if res.ExtraText != tc.wantExtra {
				t.Fatalf("extra text = %q, want %q", res.ExtraText, tc.wantExtra)
			}
		})
	}
}
