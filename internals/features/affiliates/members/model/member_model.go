package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"travelku_backend/internals/constants"
)

/* ===================== Model ===================== */

type Member struct {
	MemberID uuid.UUID `gorm:"column:member_id;type:uuid;primaryKey" json:"member_id"`

	MemberName  string  `gorm:"column:member_name;type:varchar(100);not null" json:"member_name"`
	MemberEmail string  `gorm:"column:member_email;type:varchar(120);not null;uniqueIndex" json:"member_email"`
	MemberPhone *string `gorm:"column:member_phone;type:varchar(24)" json:"member_phone,omitempty"`

	MemberPasswordHash string `gorm:"column:member_password_hash;type:varchar(100);not null" json:"-"`

	// Posisi di jaringan keagenan (pusat/cabang/mitra/agen/reseller)
	MemberTier     string     `gorm:"column:member_tier;type:varchar(16);not null" json:"member_tier"`
	MemberParentID *uuid.UUID `gorm:"column:member_parent_id;type:uuid;index" json:"member_parent_id,omitempty"`

	// Kode unik yang dipakai di link referral
	MemberAffiliateCode string `gorm:"column:member_affiliate_code;type:varchar(16);not null;uniqueIndex" json:"member_affiliate_code"`

	MemberIsActive bool `gorm:"column:member_is_active;not null;default:true" json:"member_is_active"`

	CreatedAt time.Time      `gorm:"column:member_created_at;autoCreateTime" json:"member_created_at"`
	UpdatedAt time.Time      `gorm:"column:member_updated_at;autoUpdateTime" json:"member_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:member_deleted_at;index" json:"member_deleted_at,omitempty"`
}

func (Member) TableName() string { return "members" }

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.MemberID == uuid.Nil {
		m.MemberID = uuid.New()
	}
	return nil
}

/* ===================== Helpers ===================== */

func (m *Member) IsPusat() bool {
	return m.MemberTier == constants.TierPusat
}

func (m *Member) TierRank() int {
	return constants.TierRank[m.MemberTier]
}
