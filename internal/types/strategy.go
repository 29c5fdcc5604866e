package types

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Strategy is one catalog entry: a content template plus the input fields it
// declares. Builtin rows (IsCustom=false) are editable but never deletable;
// custom rows are both. Builtin and custom share one table and one id space.
type Strategy struct {
	ID          string         `gorm:"primaryKey;column:id" json:"id"`
	Title       string         `gorm:"not null;column:title" json:"title"`
	Description string         `gorm:"column:description" json:"description"`
	Category    string         `gorm:"index;column:category" json:"category"`
	Section     string         `gorm:"index;column:section" json:"section"`
	Subsection  string         `gorm:"index;column:subsection" json:"subsection"`
	Content     string         `gorm:"column:content" json:"content"`
	InputFields datatypes.JSON `gorm:"column:input_fields" json:"input_fields"`
	IsCustom    bool           `gorm:"not null;default:false;column:is_custom" json:"is_custom"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (Strategy) TableName() string {
	return "strategy"
}

// Fields decodes InputFields. A malformed column yields an empty list rather
// than an error: a strategy with unreadable fields still compiles, its
// placeholders just stay unexpanded.
func (s *Strategy) Fields() []InputFieldSpec {
	if s == nil || len(s.InputFields) == 0 {
		return nil
	}
	var fields []InputFieldSpec
	if err := json.Unmarshal(s.InputFields, &fields); err != nil {
		return nil
	}
	return fields
}

// SetFields encodes the declared fields back into the JSON column.
func (s *Strategy) SetFields(fields []InputFieldSpec) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	s.InputFields = datatypes.JSON(raw)
	return nil
}

// Clone returns a shallow copy with its own InputFields buffer, so callers
// holding a snapshot never observe later catalog mutations.
func (s *Strategy) Clone() *Strategy {
	if s == nil {
		return nil
	}
	cp := *s
	if len(s.InputFields) > 0 {
		cp.InputFields = make(datatypes.JSON, len(s.InputFields))
		copy(cp.InputFields, s.InputFields)
	}
	return &cp
}

const (
	FieldTypeText     = "text"
	FieldTypeNumber   = "number"
	FieldTypeSelect   = "select"
	FieldTypeTextarea = "textarea"
	FieldTypeDate     = "date"
	FieldTypeToggle   = "toggle"
)

// ConditionalText carries the extra prose attached to a toggle field. Each
// non-empty half is appended as its own paragraph depending on the resolved
// boolean.
type ConditionalText struct {
	WhenTrue  string `json:"whenTrue,omitempty" yaml:"whenTrue"`
	WhenFalse string `json:"whenFalse,omitempty" yaml:"whenFalse"`
}

// InputFieldSpec declares one substitutable parameter of a strategy. Pure
// JSON contract, not a DB model; rows store the ordered list in
// Strategy.InputFields.
type InputFieldSpec struct {
	ID              string           `json:"id" yaml:"id"`
	Label           string           `json:"label" yaml:"label"`
	Placeholder     string           `json:"placeholder,omitempty" yaml:"placeholder"`
	Required        bool             `json:"required,omitempty" yaml:"required"`
	Type            string           `json:"type" yaml:"type"`
	Options         []string         `json:"options,omitempty" yaml:"options"`
	DefaultValue    any              `json:"defaultValue,omitempty" yaml:"defaultValue"`
	ConditionalText *ConditionalText `json:"conditionalText,omitempty" yaml:"conditionalText"`
}

// ClientStrategyConfig is a client's decision to include and parameterize one
// strategy. InputValues keys need not cover every declared field; values are
// JSON string|number|bool.
type ClientStrategyConfig struct {
	StrategyID  string         `json:"strategyId"`
	IsEnabled   bool           `json:"isEnabled"`
	InputValues map[string]any `json:"inputValues,omitempty"`
}
