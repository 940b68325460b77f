package service

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"travelku_backend/internals/constants"
	"travelku_backend/internals/features/affiliates/commissions/model"
	membermodel "travelku_backend/internals/features/affiliates/members/model"
	membersvc "travelku_backend/internals/features/affiliates/members/service"
	bookingmodel "travelku_backend/internals/features/travels/bookings/model"
	departuremodel "travelku_backend/internals/features/travels/departures/model"
)

var (
	ErrRuleNotFound    = errors.New("aturan komisi tidak ditemukan")
	ErrRuleConflict    = errors.New("aturan komisi bentrok untuk owner+tier yang sama")
	ErrInvalidRule     = errors.New("aturan komisi tidak valid")
	ErrEntryNotFound   = errors.New("entri ledger tidak ditemukan")
	ErrAlreadyPaid     = errors.New("entri ledger sudah dibayar")
	ErrBookingNotFound = errors.New("booking tidak ditemukan")
)

/* =========================================================
   Commission Engine
   Dipanggil HANYA oleh konfirmasi pembayaran (webhook atau
   verifikasi manual admin), tidak pernah oleh orchestrator.
   Penanda booking_commission_posted_at menjamin posting
   paling banyak satu kali walau webhook diulang.
========================================================= */

type CommissionService struct {
	DB        *gorm.DB
	Hierarchy *membersvc.HierarchyService
}

func NewCommissionService(db *gorm.DB) *CommissionService {
	return &CommissionService{DB: db, Hierarchy: membersvc.NewHierarchyService(db)}
}

/* ===================== Rules ===================== */

type CreateRuleInput struct {
	OwnerMemberID uuid.UUID
	TargetTier    string
	PackageID     *uuid.UUID
	Type          string
	Value         float64
}

// CreateRule tolak aturan kedua yang ambigu: unscoped ganda per
// owner+tier, atau scoped ganda per owner+tier+paket.
func (s *CommissionService) CreateRule(ctx context.Context, in CreateRuleInput) (*model.CommissionRule, error) {
	tier := strings.ToLower(strings.TrimSpace(in.TargetTier))
	if !constants.IsValidTier(tier) {
		return nil, ErrInvalidRule
	}
	if in.Type != model.CommissionTypeFlat && in.Type != model.CommissionTypePercentage {
		return nil, ErrInvalidRule
	}
	if in.Value <= 0 || (in.Type == model.CommissionTypePercentage && in.Value > 100) {
		return nil, ErrInvalidRule
	}

	q := s.DB.WithContext(ctx).
		Model(&model.CommissionRule{}).
		Where("rule_owner_member_id = ? AND rule_target_tier = ?", in.OwnerMemberID, tier)
	if in.PackageID == nil {
		q = q.Where("rule_package_id IS NULL")
	} else {
		q = q.Where("rule_package_id = ?", *in.PackageID)
	}
	var dup int64
	if err := q.Count(&dup).Error; err != nil {
		return nil, err
	}
	if dup > 0 {
		return nil, ErrRuleConflict
	}

	r := model.CommissionRule{
		RuleOwnerMemberID: in.OwnerMemberID,
		RuleTargetTier:    tier,
		RulePackageID:     in.PackageID,
		RuleType:          in.Type,
		RuleValue:         in.Value,
	}
	if err := s.DB.WithContext(ctx).Create(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

type UpdateRuleInput struct {
	Type  *string
	Value *float64
}

// UpdateRule ubah tipe/nilai aturan. Tidak retroaktif: entri ledger yang
// sudah diposting tidak tersentuh.
func (s *CommissionService) UpdateRule(ctx context.Context, ruleID uuid.UUID, in UpdateRuleInput) (*model.CommissionRule, error) {
	var r model.CommissionRule
	if err := s.DB.WithContext(ctx).First(&r, "rule_id = ?", ruleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}

	if in.Type != nil {
		if *in.Type != model.CommissionTypeFlat && *in.Type != model.CommissionTypePercentage {
			return nil, ErrInvalidRule
		}
		r.RuleType = *in.Type
	}
	if in.Value != nil {
		r.RuleValue = *in.Value
	}
	if r.RuleValue <= 0 || (r.RuleType == model.CommissionTypePercentage && r.RuleValue > 100) {
		return nil, ErrInvalidRule
	}

	if err := s.DB.WithContext(ctx).Save(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *CommissionService) DeleteRule(ctx context.Context, ruleID uuid.UUID) error {
	res := s.DB.WithContext(ctx).Delete(&model.CommissionRule{}, "rule_id = ?", ruleID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

func (s *CommissionService) ListRulesOf(ctx context.Context, ownerID uuid.UUID) ([]model.CommissionRule, error) {
	var rows []model.CommissionRule
	err := s.DB.WithContext(ctx).
		Where("rule_owner_member_id = ?", ownerID).
		Order("rule_target_tier ASC, rule_created_at ASC").
		Find(&rows).Error
	return rows, err
}

/* ===================== Trigger ===================== */

// TriggerForBooking posting komisi untuk satu booking yang pembayarannya
// terkonfirmasi. Seluruhnya dalam satu transaksi:
//  1. klaim penanda booking_commission_posted_at (conditional UPDATE);
//     nol baris + booking ada = sudah diposting, no-op.
//  2. tanpa affiliator = commit penanda saja, nol entri, bukan error.
//  3. walk upline affiliator (termasuk diri sendiri), cocokkan aturan
//     ber-scope paket dulu baru fallback unscoped per ancestor.
//  4. flat = round(value); percentage = round(value/100 * totalPrice);
//     hasil <= 0 dilewati.
func (s *CommissionService) TriggerForBooking(ctx context.Context, bookingID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		res := tx.Model(&bookingmodel.Booking{}).
			Where("booking_id = ? AND booking_commission_posted_at IS NULL", bookingID).
			Update("booking_commission_posted_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&bookingmodel.Booking{}).
				Where("booking_id = ?", bookingID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrBookingNotFound
			}
			log.Printf("[INFO] komisi booking %s sudah pernah diposting, dilewati", bookingID)
			return nil
		}

		var b bookingmodel.Booking
		if err := tx.First(&b, "booking_id = ?", bookingID).Error; err != nil {
			return err
		}
		if b.BookingAffiliatorMemberID == nil {
			// Booking organik tetap ditandai supaya retry tidak menghitung ulang
			return nil
		}

		var affiliator membermodel.Member
		if err := tx.First(&affiliator, "member_id = ?", *b.BookingAffiliatorMemberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("[WARN] affiliator %s booking %s tidak ditemukan, komisi dilewati", *b.BookingAffiliatorMemberID, bookingID)
				return nil
			}
			return err
		}

		var dep departuremodel.Departure
		if err := tx.First(&dep, "departure_id = ?", b.BookingDepartureID).Error; err != nil {
			return err
		}

		ancestors, err := s.Hierarchy.AncestorsOfIn(tx, affiliator.MemberID)
		if err != nil {
			return err
		}

		entries := make([]model.CommissionLedgerEntry, 0, len(ancestors))
		for _, anc := range ancestors {
			matched, err := matchRuleIn(tx, anc.AncestorID, affiliator.MemberTier, dep.DeparturePackageID)
			if err != nil {
				return err
			}
			if matched == nil {
				continue
			}

			amount := computeAmount(matched, b.BookingTotalPriceIDR)
			if amount <= 0 {
				continue
			}

			var recipient membermodel.Member
			if err := tx.Select("member_tier").
				First(&recipient, "member_id = ?", anc.AncestorID).Error; err != nil {
				return err
			}

			entries = append(entries, model.CommissionLedgerEntry{
				EntryBookingID:         b.BookingID,
				EntryRecipientMemberID: anc.AncestorID,
				EntryRecipientTier:     recipient.MemberTier,
				EntryRuleType:          matched.RuleType,
				EntryAmountIDR:         amount,
				EntryStatus:            model.LedgerStatusPending,
			})
		}

		if len(entries) == 0 {
			return nil
		}
		if err := tx.Create(&entries).Error; err != nil {
			return err
		}
		log.Printf("[INFO] komisi booking %s diposting: %d entri", bookingID, len(entries))
		return nil
	})
}

// matchRuleIn cari aturan milik satu owner untuk tier affiliator.
// Scoped menang atas unscoped; scoped ganda = konfigurasi rusak.
func matchRuleIn(tx *gorm.DB, ownerID uuid.UUID, targetTier string, packageID uuid.UUID) (*model.CommissionRule, error) {
	var rules []model.CommissionRule
	if err := tx.
		Where("rule_owner_member_id = ? AND rule_target_tier = ?", ownerID, targetTier).
		Where("rule_package_id IS NULL OR rule_package_id = ?", packageID).
		Find(&rules).Error; err != nil {
		return nil, err
	}

	var unscoped *model.CommissionRule
	var scoped []*model.CommissionRule
	for i := range rules {
		if rules[i].RulePackageID != nil {
			scoped = append(scoped, &rules[i])
		} else {
			unscoped = &rules[i]
		}
	}

	switch {
	case len(scoped) > 1:
		return nil, ErrRuleConflict
	case len(scoped) == 1:
		return scoped[0], nil
	default:
		return unscoped, nil
	}
}

func computeAmount(r *model.CommissionRule, totalPriceIDR int64) int64 {
	if r.RuleType == model.CommissionTypeFlat {
		return int64(math.Round(r.RuleValue))
	}
	return int64(math.Round(r.RuleValue / 100 * float64(totalPriceIDR)))
}

/* ===================== Ledger ===================== */

// Disburse tandai satu entri terbayar. Conditional UPDATE: pending ->
// paid sekali saja; percobaan kedua mengembalikan ErrAlreadyPaid dengan
// stempel pembayaran pertama tetap utuh.
func (s *CommissionService) Disburse(ctx context.Context, entryID, payerID uuid.UUID) error {
	now := time.Now()
	res := s.DB.WithContext(ctx).
		Model(&model.CommissionLedgerEntry{}).
		Where("entry_id = ? AND entry_status = ?", entryID, model.LedgerStatusPending).
		Updates(map[string]interface{}{
			"entry_status":  model.LedgerStatusPaid,
			"entry_paid_by": payerID,
			"entry_paid_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.DB.WithContext(ctx).
			Model(&model.CommissionLedgerEntry{}).
			Where("entry_id = ?", entryID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrEntryNotFound
		}
		return ErrAlreadyPaid
	}
	return nil
}

func (s *CommissionService) ListFor(ctx context.Context, memberID uuid.UUID) ([]model.CommissionLedgerEntry, error) {
	var rows []model.CommissionLedgerEntry
	err := s.DB.WithContext(ctx).
		Where("entry_recipient_member_id = ?", memberID).
		Order("entry_created_at DESC").
		Find(&rows).Error
	return rows, err
}

type CommissionSummary struct {
	PendingTotalIDR int64 `gorm:"column:pending_total_idr" json:"pending_total_idr"`
	PaidTotalIDR    int64 `gorm:"column:paid_total_idr" json:"paid_total_idr"`
	EntryCount      int64 `gorm:"column:entry_count" json:"entry_count"`
}

// SummaryFor agregat dashboard affiliate dalam satu SELECT.
func (s *CommissionService) SummaryFor(ctx context.Context, memberID uuid.UUID) (*CommissionSummary, error) {
	var sum CommissionSummary
	err := s.DB.WithContext(ctx).
		Model(&model.CommissionLedgerEntry{}).
		Select(
			"COALESCE(SUM(CASE WHEN entry_status = 'pending' THEN entry_amount_idr ELSE 0 END), 0) AS pending_total_idr, "+
				"COALESCE(SUM(CASE WHEN entry_status = 'paid' THEN entry_amount_idr ELSE 0 END), 0) AS paid_total_idr, "+
				"COUNT(*) AS entry_count").
		Where("entry_recipient_member_id = ?", memberID).
		Scan(&sum).Error
	if err != nil {
		return nil, err
	}
	return &sum, nil
}
