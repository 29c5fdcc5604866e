package plan

import (
	"github.com/planweaver/planweaver-backend/internal/types"
)

// FieldResolution is the outcome of resolving one declared input field.
// Value is nil when neither a supplied value nor a default exists, in which
// case the placeholder stays verbatim in the output. ExtraText carries the
// conditional paragraph a toggle field contributes.
type FieldResolution struct {
	Value     *Value
	ExtraText string
}

// ResolveField resolves one field against the client's supplied values:
// supplied wins, then the field default, else unresolved. For toggle fields
// the matching half of ConditionalText becomes ExtraText; an unresolved
// toggle contributes no conditional text at all.
func ResolveField(field types.InputFieldSpec, supplied map[string]Value) FieldResolution {
	var resolved *Value
	if v, ok := supplied[field.ID]; ok {
		resolved = &v
	} else if field.DefaultValue != nil {
		if v, ok := FromJSON(field.DefaultValue); ok {
			resolved = &v
		}
	}
	if resolved != nil && field.Type == types.FieldTypeDate {
		retagged := Value{Kind: KindDate, Raw: resolved.Raw}
		resolved = &retagged
	}

	extra := ""
	if field.Type == types.FieldTypeToggle && field.ConditionalText != nil && resolved != nil {
		if resolved.Bool() {
			extra = field.ConditionalText.WhenTrue
		} else {
			extra = field.ConditionalText.WhenFalse
		}
	}

	return FieldResolution{Value: resolved, ExtraText: extra}
}
