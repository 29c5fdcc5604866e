package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Report is the compiled artifact. The configuration list is stored verbatim
// next to the generated text so a report can be audited or replayed; the text
// itself is a frozen snapshot and is never re-rendered after catalog edits.
type Report struct {
	ID                     uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                 uuid.UUID      `gorm:"index;not null" json:"user_id"`
	User                   *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	ClientProfileID        *uuid.UUID     `gorm:"type:uuid;index" json:"client_profile_id,omitempty"`
	ClientData             datatypes.JSON `gorm:"column:client_data" json:"client_data"`
	StrategyConfigurations datatypes.JSON `gorm:"column:strategy_configurations" json:"strategy_configurations"`
	GeneratedReport        string         `gorm:"column:generated_report" json:"generated_report"`
	CreatedAt              time.Time      `gorm:"not null" json:"created_at"`
}

func (Report) TableName() string {
	return "report"
}
