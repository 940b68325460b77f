package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CommissionTypeFlat       = "flat"
	CommissionTypePercentage = "percentage"
)

// CommissionRule: aturan milik satu ancestor. TargetTier = tier member
// perujuk yang penjualannya memicu aturan ini. PackageID nil = berlaku
// untuk semua paket (fallback); aturan ber-scope paket menang.
type CommissionRule struct {
	RuleID uuid.UUID `gorm:"column:rule_id;type:uuid;primaryKey" json:"rule_id"`

	RuleOwnerMemberID uuid.UUID  `gorm:"column:rule_owner_member_id;type:uuid;not null;index:idx_rules_owner_tier" json:"rule_owner_member_id"`
	RuleTargetTier    string     `gorm:"column:rule_target_tier;type:varchar(16);not null;index:idx_rules_owner_tier" json:"rule_target_tier"`
	RulePackageID     *uuid.UUID `gorm:"column:rule_package_id;type:uuid" json:"rule_package_id,omitempty"`

	RuleType  string  `gorm:"column:rule_type;type:varchar(16);not null" json:"rule_type"`
	RuleValue float64 `gorm:"column:rule_value;not null;check:rule_value > 0" json:"rule_value"`

	CreatedAt time.Time      `gorm:"column:rule_created_at;autoCreateTime" json:"rule_created_at"`
	UpdatedAt time.Time      `gorm:"column:rule_updated_at;autoUpdateTime" json:"rule_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:rule_deleted_at;index" json:"rule_deleted_at,omitempty"`
}

func (CommissionRule) TableName() string { return "commission_rules" }

func (r *CommissionRule) BeforeCreate(tx *gorm.DB) error {
	if r.RuleID == uuid.Nil {
		r.RuleID = uuid.New()
	}
	return nil
}
