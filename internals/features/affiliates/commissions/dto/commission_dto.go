package dto

import (
	"github.com/google/uuid"
)

type CreateRuleRequest struct {
	RuleOwnerMemberID uuid.UUID  `json:"rule_owner_member_id" validate:"required"`
	RuleTargetTier    string     `json:"rule_target_tier" validate:"required,oneof=pusat cabang mitra agen reseller"`
	RulePackageID     *uuid.UUID `json:"rule_package_id,omitempty"`
	RuleType          string     `json:"rule_type" validate:"required,oneof=flat percentage"`
	RuleValue         float64    `json:"rule_value" validate:"required,gt=0"`
}

type UpdateRuleRequest struct {
	RuleType  *string  `json:"rule_type,omitempty" validate:"omitempty,oneof=flat percentage"`
	RuleValue *float64 `json:"rule_value,omitempty" validate:"omitempty,gt=0"`
}

type DisburseRequest struct {
	EntryID uuid.UUID `json:"entry_id" validate:"required"`
}
