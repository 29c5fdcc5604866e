// Package plan is the strategy template compilation engine: field
// resolution, placeholder substitution, catalog organization and report
// assembly. Everything in here is pure and synchronous; nothing errors for
// data-shape reasons. Missing values degrade to visible unexpanded
// placeholders, dangling strategy references drop out of the output.
package plan

import (
	"encoding/json"
	"strconv"
	"strings"
)

type Kind string

const (
	KindText    Kind = "text"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindDate    Kind = "date"
)

// Value is the engine's uniform representation of one supplied or defaulted
// field value. Loose JSON input (string|number|bool) is normalized into
// {Kind, Raw} at the boundary so the resolver and substitutor operate over
// one concrete type instead of an untyped map.
type Value struct {
	Kind Kind
	Raw  string
}

func TextValue(raw string) Value  { return Value{Kind: KindText, Raw: raw} }
func NumberValue(f float64) Value { return Value{Kind: KindNumber, Raw: formatNumber(f)} }
func BooleanValue(b bool) Value   { return Value{Kind: KindBoolean, Raw: strconv.FormatBool(b)} }

func (v Value) String() string { return v.Raw }

// Bool reports the boolean interpretation used by toggle fields.
func (v Value) Bool() bool {
	return v.Raw == "true"
}

// FromJSON normalizes one loose JSON value. The second return is false when
// the input is nil or of a shape the engine does not carry (objects, arrays).
func FromJSON(v any) (Value, bool) {
	switch t := v.(type) {
	case string:
		return TextValue(t), true
	case bool:
		return BooleanValue(t), true
	case float64:
		return NumberValue(t), true
	case float32:
		return NumberValue(float64(t)), true
	case int:
		return NumberValue(float64(t)), true
	case int64:
		return NumberValue(float64(t)), true
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return NumberValue(f), true
		}
		return TextValue(t.String()), true
	}
	return Value{}, false
}

// NormalizeInputValues converts a client's raw inputValues map into engine
// values, dropping entries that cannot be represented.
func NormalizeInputValues(raw map[string]any) map[string]Value {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]Value, len(raw))
	for id, v := range raw {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		val, ok := FromJSON(v)
		if !ok {
			continue
		}
		out[id] = val
	}
	return out
}

// formatNumber renders without a trailing ".0" so JSON 250 substitutes as
// "250" and 2.50 as "2.5".
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
