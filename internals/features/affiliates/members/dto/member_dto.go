package dto

import (
	"time"

	"github.com/google/uuid"

	"travelku_backend/internals/features/affiliates/members/model"
)

/* =========================================================
   REQUEST DTOs
========================================================= */

type RegisterMemberRequest struct {
	MemberName     string     `json:"member_name" validate:"required,min=2,max=100"`
	MemberEmail    string     `json:"member_email" validate:"required,email"`
	MemberPhone    *string    `json:"member_phone,omitempty" validate:"omitempty,min=8,max=24"`
	MemberPassword string     `json:"member_password" validate:"required,min=8"`
	MemberTier     string     `json:"member_tier" validate:"required,oneof=pusat cabang mitra agen reseller"`
	MemberParentID *uuid.UUID `json:"member_parent_id,omitempty"`

	// Kosongkan untuk digenerate otomatis
	MemberAffiliateCode string `json:"member_affiliate_code,omitempty" validate:"omitempty,alphanum,min=4,max=16"`
}

/* =========================================================
   RESPONSE DTOs
========================================================= */

type MemberResponse struct {
	MemberID            uuid.UUID  `json:"member_id"`
	MemberName          string     `json:"member_name"`
	MemberEmail         string     `json:"member_email"`
	MemberPhone         *string    `json:"member_phone,omitempty"`
	MemberTier          string     `json:"member_tier"`
	MemberParentID      *uuid.UUID `json:"member_parent_id,omitempty"`
	MemberAffiliateCode string     `json:"member_affiliate_code"`
	MemberIsActive      bool       `json:"member_is_active"`
	MemberCreatedAt     time.Time  `json:"member_created_at"`
}

func FromModel(m *model.Member) MemberResponse {
	return MemberResponse{
		MemberID:            m.MemberID,
		MemberName:          m.MemberName,
		MemberEmail:         m.MemberEmail,
		MemberPhone:         m.MemberPhone,
		MemberTier:          m.MemberTier,
		MemberParentID:      m.MemberParentID,
		MemberAffiliateCode: m.MemberAffiliateCode,
		MemberIsActive:      m.MemberIsActive,
		MemberCreatedAt:     m.CreatedAt,
	}
}

type DownlineEntry struct {
	MemberID   uuid.UUID `json:"member_id"`
	MemberName string    `json:"member_name"`
	MemberTier string    `json:"member_tier"`
	PathLength int       `json:"path_length"`
}
