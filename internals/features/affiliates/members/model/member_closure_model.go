package model

import (
	"time"

	"github.com/google/uuid"
)

// MemberClosure: tabel closure hirarki member.
// Satu baris per pasangan (ancestor, descendant) dengan jaraknya;
// setiap member punya self-edge (M, M, 0). Baris tidak pernah
// diubah atau dihapus setelah ditulis (tidak ada pindah parent).
type MemberClosure struct {
	MemberClosureAncestorID   uuid.UUID `gorm:"column:member_closure_ancestor_id;type:uuid;primaryKey" json:"member_closure_ancestor_id"`
	MemberClosureDescendantID uuid.UUID `gorm:"column:member_closure_descendant_id;type:uuid;primaryKey;index" json:"member_closure_descendant_id"`

	MemberClosurePathLength int `gorm:"column:member_closure_path_length;not null;check:member_closure_path_length >= 0" json:"member_closure_path_length"`

	CreatedAt time.Time `gorm:"column:member_closure_created_at;autoCreateTime" json:"member_closure_created_at"`
}

func (MemberClosure) TableName() string { return "member_closures" }
