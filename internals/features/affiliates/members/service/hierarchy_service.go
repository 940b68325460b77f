package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"travelku_backend/internals/constants"
	"travelku_backend/internals/features/affiliates/members/model"
)

var (
	ErrMemberNotFound     = errors.New("member tidak ditemukan")
	ErrParentNotFound     = errors.New("parent member tidak ditemukan")
	ErrParentNotAttached  = errors.New("parent member belum terpasang di hirarki")
	ErrIntegrityViolation = errors.New("member sudah terpasang di hirarki")
	ErrInvalidTier        = errors.New("tier member tidak dikenal")
	ErrInvalidParentTier  = errors.New("parent harus berada di tier yang lebih tinggi")
	ErrDuplicateMember    = errors.New("email atau kode affiliate sudah terdaftar")
)

/* =========================================================
   Hierarchy Service
   Closure table: "semua ancestor X" dan "semua descendant X"
   cukup satu query berindeks, tanpa rekursi per level.
   Jalur panas: walk upline tiap pembayaran terkonfirmasi.
========================================================= */

type HierarchyService struct {
	DB *gorm.DB
}

func NewHierarchyService(db *gorm.DB) *HierarchyService {
	return &HierarchyService{DB: db}
}

type AncestorRow struct {
	AncestorID uuid.UUID `gorm:"column:member_closure_ancestor_id" json:"ancestor_id"`
	PathLength int       `gorm:"column:member_closure_path_length" json:"path_length"`
}

type DescendantRow struct {
	MemberID   uuid.UUID `gorm:"column:member_id" json:"member_id"`
	MemberName string    `gorm:"column:member_name" json:"member_name"`
	MemberTier string    `gorm:"column:member_tier" json:"member_tier"`
	PathLength int       `gorm:"column:member_closure_path_length" json:"path_length"`
}

/* ===================== Attach ===================== */

// Attach pasang member baru ke hirarki: self-edge (M, M, 0) plus salinan
// seluruh ancestor parent dengan jarak +1. Semua edge ditulis dalam satu
// transaksi — edge yang setengah jadi akan merusak perhitungan komisi
// member itu selamanya tanpa pernah muncul error.
func (s *HierarchyService) Attach(ctx context.Context, memberID uuid.UUID, parentID *uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.attachIn(tx, memberID, parentID)
	})
}

func (s *HierarchyService) attachIn(tx *gorm.DB, memberID uuid.UUID, parentID *uuid.UUID) error {
	self := model.MemberClosure{
		MemberClosureAncestorID:   memberID,
		MemberClosureDescendantID: memberID,
		MemberClosurePathLength:   0,
	}
	if err := tx.Create(&self).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrIntegrityViolation
		}
		return err
	}

	if parentID == nil {
		return nil
	}

	// Seluruh ancestor parent (termasuk self-edge parent, L=0)
	var parentAncestors []model.MemberClosure
	if err := tx.
		Where("member_closure_descendant_id = ?", *parentID).
		Find(&parentAncestors).Error; err != nil {
		return err
	}
	if len(parentAncestors) == 0 {
		return ErrParentNotAttached
	}

	edges := make([]model.MemberClosure, 0, len(parentAncestors))
	for _, pa := range parentAncestors {
		edges = append(edges, model.MemberClosure{
			MemberClosureAncestorID:   pa.MemberClosureAncestorID,
			MemberClosureDescendantID: memberID,
			MemberClosurePathLength:   pa.MemberClosurePathLength + 1,
		})
	}
	if err := tx.Create(&edges).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrIntegrityViolation
		}
		return err
	}
	return nil
}

/* ===================== Queries ===================== */

// AncestorsOf: upline lengkap termasuk diri sendiri (L=0), terdekat dulu.
func (s *HierarchyService) AncestorsOf(ctx context.Context, memberID uuid.UUID) ([]AncestorRow, error) {
	return s.AncestorsOfIn(s.DB.WithContext(ctx), memberID)
}

// AncestorsOfIn versi yang ikut transaksi pemanggil (dipakai engine komisi).
func (s *HierarchyService) AncestorsOfIn(tx *gorm.DB, memberID uuid.UUID) ([]AncestorRow, error) {
	var rows []AncestorRow
	err := tx.
		Model(&model.MemberClosure{}).
		Select("member_closure_ancestor_id, member_closure_path_length").
		Where("member_closure_descendant_id = ?", memberID).
		Order("member_closure_path_length ASC").
		Scan(&rows).Error
	return rows, err
}

// DescendantsOf: downline tanpa diri sendiri, terdekat dulu (laporan jaringan).
func (s *HierarchyService) DescendantsOf(ctx context.Context, memberID uuid.UUID) ([]DescendantRow, error) {
	var rows []DescendantRow
	err := s.DB.WithContext(ctx).
		Model(&model.MemberClosure{}).
		Select("members.member_id, members.member_name, members.member_tier, member_closures.member_closure_path_length").
		Joins("JOIN members ON members.member_id = member_closures.member_closure_descendant_id").
		Where("member_closures.member_closure_ancestor_id = ? AND member_closures.member_closure_path_length > 0", memberID).
		Where("members.member_deleted_at IS NULL").
		Order("member_closures.member_closure_path_length ASC").
		Scan(&rows).Error
	return rows, err
}

/* ===================== Provisioning ===================== */

type RegisterMemberInput struct {
	Name          string
	Email         string
	Phone         *string
	Password      string
	Tier          string
	ParentID      *uuid.UUID
	AffiliateCode string // kosong = digenerate
}

// RegisterMember buat record member + pasang ke hirarki dalam satu transaksi.
// Gagal attach berarti provisioning gagal total (tidak ada member setengah jadi).
func (s *HierarchyService) RegisterMember(ctx context.Context, in RegisterMemberInput) (*model.Member, error) {
	tier := strings.ToLower(strings.TrimSpace(in.Tier))
	if !constants.IsValidTier(tier) {
		return nil, ErrInvalidTier
	}

	if tier == constants.TierPusat && in.ParentID != nil {
		return nil, ErrInvalidParentTier
	}

	var parent *model.Member
	if in.ParentID != nil {
		var p model.Member
		if err := s.DB.WithContext(ctx).
			First(&p, "member_id = ? AND member_is_active = ?", *in.ParentID, true).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if !constants.TierIsAbove(p.MemberTier, tier) {
			return nil, ErrInvalidParentTier
		}
		parent = &p
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(in.AffiliateCode))
	if code == "" {
		code, err = generateAffiliateCode()
		if err != nil {
			return nil, err
		}
	}

	m := model.Member{
		MemberName:          strings.TrimSpace(in.Name),
		MemberEmail:         strings.ToLower(strings.TrimSpace(in.Email)),
		MemberPhone:         in.Phone,
		MemberPasswordHash:  string(hash),
		MemberTier:          tier,
		MemberParentID:      in.ParentID,
		MemberAffiliateCode: code,
		MemberIsActive:      true,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateMember
			}
			return err
		}
		var parentID *uuid.UUID
		if parent != nil {
			parentID = &parent.MemberID
		}
		return s.attachIn(tx, m.MemberID, parentID)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] member %s terdaftar (tier=%s, kode=%s)", m.MemberID, m.MemberTier, m.MemberAffiliateCode)
	return &m, nil
}

// Deactivate nonaktifkan member (soft). Edge hirarki tidak disentuh:
// reorganisasi = member baru, bukan mutasi edge, supaya snapshot tier
// di buku besar komisi tetap bisa diaudit.
func (s *HierarchyService) Deactivate(ctx context.Context, memberID uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Model(&model.Member{}).
		Where("member_id = ?", memberID).
		Update("member_is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func generateAffiliateCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("TR%s", strings.ToUpper(hex.EncodeToString(b))), nil
}
