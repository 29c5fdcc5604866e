package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ClientProfile is one advisor-owned client record: the opaque intake data
// blob plus the client's saved strategy selections.
type ClientProfile struct {
	ID                     uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                 uuid.UUID      `gorm:"index;not null" json:"user_id"`
	User                   *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Name                   string         `gorm:"not null;column:name" json:"name"`
	Data                   datatypes.JSON `gorm:"column:data" json:"data"`
	StrategyConfigurations datatypes.JSON `gorm:"column:strategy_configurations" json:"strategy_configurations"`
	CreatedAt              time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt              time.Time      `gorm:"not null" json:"updated_at"`
}

func (ClientProfile) TableName() string {
	return "client_profile"
}

func (p *ClientProfile) Configs() []ClientStrategyConfig {
	if p == nil || len(p.StrategyConfigurations) == 0 {
		return nil
	}
	var configs []ClientStrategyConfig
	if err := json.Unmarshal(p.StrategyConfigurations, &configs); err != nil {
		return nil
	}
	return configs
}

func (p *ClientProfile) SetConfigs(configs []ClientStrategyConfig) error {
	raw, err := json.Marshal(configs)
	if err != nil {
		return err
	}
	p.StrategyConfigurations = datatypes.JSON(raw)
	return nil
}
