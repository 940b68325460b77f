package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"travelku_backend/internals/constants"
	"travelku_backend/internals/features/affiliates/commissions/model"
	membermodel "travelku_backend/internals/features/affiliates/members/model"
	membersvc "travelku_backend/internals/features/affiliates/members/service"
	bookingmodel "travelku_backend/internals/features/travels/bookings/model"
	departuremodel "travelku_backend/internals/features/travels/departures/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&membermodel.Member{},
		&membermodel.MemberClosure{},
		&model.CommissionRule{},
		&model.CommissionLedgerEntry{},
		&bookingmodel.Booking{},
		&departuremodel.Departure{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedMember(t *testing.T, db *gorm.DB, tier string, parent *membermodel.Member) *membermodel.Member {
	t.Helper()

	code := "TR" + strings.ToUpper(uuid.NewString()[:6])
	m := membermodel.Member{
		MemberName:          tier + "-" + code,
		MemberEmail:         code + "@travelku.id",
		MemberPasswordHash:  "x",
		MemberTier:          tier,
		MemberAffiliateCode: code,
		MemberIsActive:      true,
	}
	var parentID *uuid.UUID
	if parent != nil {
		m.MemberParentID = &parent.MemberID
		parentID = &parent.MemberID
	}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("seed member %s: %v", tier, err)
	}
	if err := membersvc.NewHierarchyService(db).Attach(context.Background(), m.MemberID, parentID); err != nil {
		t.Fatalf("attach member %s: %v", tier, err)
	}
	return &m
}

type commissionEnv struct {
	db       *gorm.DB
	svc      *CommissionService
	pusat    *membermodel.Member
	agen     *membermodel.Member
	reseller *membermodel.Member
	dep      *departuremodel.Departure
}

// rantai pusat -> agen -> reseller plus satu keberangkatan
func newCommissionEnv(t *testing.T) *commissionEnv {
	t.Helper()

	db := openTestDB(t)
	pusat := seedMember(t, db, constants.TierPusat, nil)
	agen := seedMember(t, db, constants.TierAgen, pusat)
	reseller := seedMember(t, db, constants.TierReseller, agen)

	dep := departuremodel.Departure{
		DeparturePackageID:      uuid.New(),
		DepartureDate:           time.Now().AddDate(0, 2, 0),
		DepartureTotalSeats:     40,
		DeparturePriceQuadIDR:   10_000_000,
		DeparturePriceTripleIDR: 12_000_000,
		DeparturePriceDoubleIDR: 15_000_000,
	}
	if err := db.Create(&dep).Error; err != nil {
		t.Fatalf("seed departure: %v", err)
	}

	return &commissionEnv{
		db:       db,
		svc:      NewCommissionService(db),
		pusat:    pusat,
		agen:     agen,
		reseller: reseller,
		dep:      &dep,
	}
}

func seedBooking(t *testing.T, env *commissionEnv, affiliator *membermodel.Member, totalPriceIDR int64) *bookingmodel.Booking {
	t.Helper()

	b := bookingmodel.Booking{
		BookingPilgrimID:     uuid.New(),
		BookingDepartureID:   env.dep.DepartureID,
		BookingRoomType:      departuremodel.RoomTypeQuad,
		BookingTotalPriceIDR: totalPriceIDR,
	}
	if affiliator != nil {
		b.BookingAffiliatorMemberID = &affiliator.MemberID
		b.BookingAffiliateCode = &affiliator.MemberAffiliateCode
	}
	if err := env.db.Create(&b).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return &b
}

func mustCreateRule(t *testing.T, env *commissionEnv, in CreateRuleInput) *model.CommissionRule {
	t.Helper()
	r, err := env.svc.CreateRule(context.Background(), in)
	if err != nil {
		t.Fatalf("create rule: %v", err)
	}
	return r
}

func ledgerOf(t *testing.T, env *commissionEnv, bookingID uuid.UUID) []model.CommissionLedgerEntry {
	t.Helper()
	var rows []model.CommissionLedgerEntry
	if err := env.db.Where("entry_booking_id = ?", bookingID).
		Order("entry_created_at ASC").Find(&rows).Error; err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	return rows
}

func TestTriggerPostsPercentageCommission(t *testing.T) {
	env := newCommissionEnv(t)
	ctx := context.Background()

	mustCreateRule(t, env, CreateRuleInput{
		OwnerMemberID: env.pusat.MemberID,
		TargetTier:    constants.TierReseller,
		Type:          model.CommissionTypePercentage,
		Value:         5,
	})
	b := seedBooking(t, env, env.reseller, 10_000_000)

	if err := env.svc.TriggerForBooking(ctx, b.BookingID); err != nil {
		t.Fatalf("trigger: %v", err)
	}

	rows := ledgerOf(t, env, b.BookingID)
	if len(rows) != 1 {
		t.Fatalf("entri ledger = %d, mau 1", len(rows))
	}
	e := rows[0]
	if e.EntryAmountIDR != 500_000 {
		t.Errorf("amount = %d, mau 500000", e.EntryAmountIDR)
	}
	if e.EntryRecipientMemberID != env.pusat.MemberID {
		t.Errorf("recipient = %s, mau pusat", e.EntryRecipientMemberID)
	}
	if e.EntryRecipientTier != constants.TierPusat {
		t.Errorf("tier snapshot = %q, mau pusat", e.EntryRecipientTier)
	}
	if e.EntryStatus != model.LedgerStatusPending {
		t.Errorf("status = %q, mau pending", e.EntryStatus)
	}

	var after bookingmodel.Booking
	if err := env.db.First(&after, "booking_id = ?", b.BookingID).Error; err != nil {
		t.Fatalf("reload booking: %v", err)
	}
	if after.BookingCommissionPostedAt == nil {
		t.Error("penanda commission_posted_at harus terisi")
	}
}

func TestTriggerNoAffiliatorPostsNothing(t *testing.T) {
	env := newCommissionEnv(t)
	ctx := context.Background()

	mustCreateRule(t, env, CreateRuleInput{
		OwnerMemberID: env.pusat.MemberID,
		TargetTier:    constants.TierReseller,
		Type:          model.CommissionTypePercentage,
		Value:         5,
	})
	b := seedBooking(t, env, nil, 10_000_000)

	if err := env.svc.TriggerForBooking(ctx, b.BookingID); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if rows := ledgerOf(t, env, b.BookingID); len(rows) != 0 {
		t.Fatalf("booking organik tidak boleh punya entri, dapat %d", len(rows))
	}

	// penanda tetap terisi supaya retry tidak menghitung ulang
	var after bookingmodel.Booking
	if err := env.db.First(&after, "booking_id = ?", b.BookingID).Error; err != nil {
		t.Fatalf("reload booking: %v", err)
	}
	if after.BookingCommissionPostedAt == nil {
		t.Error("penanda commission_posted_at harus terisi walau tanpa affiliator")
	}
}

func TestTriggerSkipsAncestorsWithoutRule(t *testing.T) {
	env := newCommissionEnv(t)
	ctx := context.Background()

	// hanya pusat dan agen punya aturan untuk tier reseller; reseller
	// sendiri tidak, jadi ancestor tanpa aturan dilewati diam-diam
	mustCreateRule(t, env, CreateRuleInput{
		OwnerMemberID: env.pusat.MemberID,
		TargetTier:    constants.TierReseller,
		Type:          model.CommissionTypeFlat,
		Value:         200_000,
	})
	mustCreateRule(t, env, CreateRuleInput{
		OwnerMemberID: env.agen.MemberID,
		TargetTier:    constants.TierReseller,
		Type:          model.CommissionTypeFlat,
		Value:         150_000,
	})
	b := seedBooking(t, env, env.reseller, 10_000_000)

	if err := env.svc.TriggerForBooking(ctx, b.BookingID); err != nil {
		t.Fatalf("trigger: %v", err)
	}

	rows := ledgerOf(t, env, b.BookingID)
	if len(rows) != 2 {
		t.Fatalf("entri ledger = %d, mau 2", len(rows))
	}
	byRecipient := map[uuid.UUID]int64{}
	for _, e := range rows {
		byRecipient[e.EntryRecipientMemberID] = e.EntryAmountIDR
	}
	if byRecipient[env.pusat.MemberID] != 200_000 {
		t.Errorf("komisi pusat = %d, mau 200000", byRecipient[env.pusat.MemberID])
	}
	if byRecipient[env.agen.MemberID] != 150_000 {
		t.Errorf("komisi agen = %d, mau 150000", byRecipient[env.agen.MemberID])
	}
	if _, ok := byRecipient[env.reseller.MemberID]; ok {
		t.Error("reseller tanpa aturan tidak boleh dapat entri")
	}
}

func TestScopedRuleBeatsUnscoped(t *testing.T) {
	env := newCommissionEnv(t)
	ctx := context.Background()

	mustCreateRule(t, env, CreateRuleInput{
		OwnerMemberID: env.pusat.MemberID,
		TargetTier:    constants.TierReseller,
		Type:          model.CommissionTypeFlat,
		Value:         100_000,
	})
	pkg := env.dep.DeparturePackageID
	mustCreateRule(t, env, CreateRuleInput{
		OwnerMemberID: env.pusat.MemberID,
		TargetTier:    constants.TierReseller,
		PackageID:     &pkg,
		Type:          model.CommissionTypeFlat,
		Value:         250_000,
	})
	b := seedBooking(t, env, env.reseller, 10_000_000)

	if err := env.svc.TriggerForBooking(ctx, b.BookingID); err != nil {
		t.Fatalf("trigger: %v", err)
	}

	rows := ledgerOf(t, env, b.BookingID)
	if len(rows) != 1 {
		t.Fatalf("entri ledger = %d, mau 1", len(rows))
	}
	if rows[0].EntryAmountIDR != 250_000 {
		t.Errorf("aturan ber-scope paket harus menang: amount = %d, mau 250000", rows[0].EntryAmountIDR)
	}
}

func TestSelfReferralRuleApplies(t *testing.T) {
	env := newCommissionEnv(t)
	ctx := context.Background()

	// affiliator bisa dapat komisi dari penjualannya sendiri (path 0)
	mustCreateRule(t, env, CreateRuleInput{
		OwnerMemberID: env.reseller.MemberID,
		TargetTier:    constants.TierReseller,
		Type:          model.CommissionTypePercentage,
		Value:         2,
	})
	b := seedBooking(t, env, env.reseller, 10_000_000)

	if err := env.svc.TriggerForBooking(ctx, b.BookingID); err != nil {
		t.Fatalf("trigger: %v", err)
	}

	rows := ledgerOf(t, env, b.BookingID)
	if len(rows) != 1 {
		t.Fatalf("entri ledger = %d, mau 1", len(rows))
	}
	if rows[0].EntryRecipientMemberID != env.reseller.MemberID {
		t.Errorf("recipient = %s, mau reseller sendiri", rows[0].EntryRecipientMemberID)
	}
	if rows[0].EntryAmountIDR != 200_000 {
		t.Errorf("amount = %d, mau 200000", rows[0].EntryAmountIDR)
	}
}

func TestTriggerRetryPostsOnce(t *testing.T) {
	env := newCommissionEnv(t)
	ctx := context.Background()

	mustCreateRule(t, env, CreateRuleInput{
		OwnerMemberID: env.pusat.MemberID,
		TargetTier:    constants.TierReseller,
		Type:          model.CommissionTypePercentage,
		Value:         5,
	})
	b := seedBooking(t, env, env.reseller, 10_000_000)

	if err := env.svc.TriggerForBooking(ctx, b.BookingID); err != nil {
		t.Fatalf("trigger pertama: %v", err)
	}
	// webhook Midtrans bisa mengirim notifikasi yang sama berkali-kali
	if err := env.svc.TriggerForBooking(ctx, b.BookingID); err != nil {
		t.Fatalf("trigger kedua harus no-op, dapat: %v", err)
	}

	if rows := ledgerOf(t, env, b.BookingID); len(rows) != 1 {
		t.Fatalf("retry tidak boleh posting ganda: entri = %d, mau 1", len(rows))
	}
}

func TestTriggerUnknownBooking(t *testing.T) {
	env := newCommissionEnv(t)

	err := env.svc.TriggerForBooking(context.Background(), uuid.New())
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("err = %v, mau ErrBookingNotFound", err)
	}
}

func TestCreateRuleConflict(t *testing.T) {
	env := newCommissionEnv(t)
	ctx := context.Background()

	base := CreateRuleInput{
		OwnerMemberID: env.pusat.MemberID,
		TargetTier:    constants.TierReseller,
		Type:          model.CommissionTypeFlat,
		Value:         100_000,
	}
	mustCreateRule(t, env, base)

	// unscoped kedua untuk owner+tier yang sama ditolak
	if _, err := env.svc.CreateRule(ctx, base); !errors.Is(err, ErrRuleConflict) {
		t.Fatalf("unscoped ganda: err = %v, mau ErrRuleConflict", err)
	}

	pkg := env.dep.DeparturePackageID
	scoped := base
	scoped.PackageID = &pkg
	mustCreateRule(t, env, scoped)

	// scoped kedua untuk owner+tier+paket yang sama ditolak
	if _, err := env.svc.CreateRule(ctx, scoped); !errors.Is(err, ErrRuleConflict) {
		t.Fatalf("scoped ganda: err = %v, mau ErrRuleConflict", err)
	}

	// paket berbeda tetap boleh
	otherPkg := uuid.New()
	other := base
	other.PackageID = &otherPkg
	if _, err := env.svc.CreateRule(ctx, other); err != nil {
		t.Fatalf("scope paket lain harus boleh: %v", err)
	}
}

func TestDisburseThenAlreadyPaid(t *testing.T) {
	env := newCommissionEnv(t)
	ctx := context.Background()

	mustCreateRule(t, env, CreateRuleInput{
		OwnerMemberID: env.pusat.MemberID,
		TargetTier:    constants.TierReseller,
		Type:          model.CommissionTypePercentage,
		Value:         5,
	})
	b := seedBooking(t, env, env.reseller, 10_000_000)
	if err := env.svc.TriggerForBooking(ctx, b.BookingID); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	entry := ledgerOf(t, env, b.BookingID)[0]

	payer := uuid.New()
	if err := env.svc.Disburse(ctx, entry.EntryID, payer); err != nil {
		t.Fatalf("disburse: %v", err)
	}

	var paid model.CommissionLedgerEntry
	if err := env.db.First(&paid, "entry_id = ?", entry.EntryID).Error; err != nil {
		t.Fatalf("reload entry: %v", err)
	}
	if paid.EntryStatus != model.LedgerStatusPaid {
		t.Errorf("status = %q, mau paid", paid.EntryStatus)
	}
	if paid.EntryPaidBy == nil || *paid.EntryPaidBy != payer {
		t.Error("paid_by harus payer pertama")
	}
	if paid.EntryPaidAt == nil {
		t.Fatal("paid_at harus terisi")
	}
	firstPaidAt := *paid.EntryPaidAt

	// percobaan kedua: error, stempel pembayaran pertama tidak berubah
	if err := env.svc.Disburse(ctx, entry.EntryID, uuid.New()); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("disburse kedua: err = %v, mau ErrAlreadyPaid", err)
	}
	var again model.CommissionLedgerEntry
	if err := env.db.First(&again, "entry_id = ?", entry.EntryID).Error; err != nil {
		t.Fatalf("reload entry: %v", err)
	}
	if *again.EntryPaidBy != payer || !again.EntryPaidAt.Equal(firstPaidAt) {
		t.Error("stempel pembayaran pertama harus tetap utuh")
	}

	if err := env.svc.Disburse(ctx, uuid.New(), payer); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("entry fiktif: err = %v, mau ErrEntryNotFound", err)
	}
}

func TestSummaryAggregates(t *testing.T) {
	env := newCommissionEnv(t)
	ctx := context.Background()

	mustCreateRule(t, env, CreateRuleInput{
		OwnerMemberID: env.pusat.MemberID,
		TargetTier:    constants.TierReseller,
		Type:          model.CommissionTypePercentage,
		Value:         5,
	})

	b1 := seedBooking(t, env, env.reseller, 10_000_000) // 500k
	b2 := seedBooking(t, env, env.reseller, 20_000_000) // 1000k
	for _, b := range []*bookingmodel.Booking{b1, b2} {
		if err := env.svc.TriggerForBooking(ctx, b.BookingID); err != nil {
			t.Fatalf("trigger: %v", err)
		}
	}

	// bayar satu entri
	first := ledgerOf(t, env, b1.BookingID)[0]
	if err := env.svc.Disburse(ctx, first.EntryID, uuid.New()); err != nil {
		t.Fatalf("disburse: %v", err)
	}

	sum, err := env.svc.SummaryFor(ctx, env.pusat.MemberID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.PendingTotalIDR != 1_000_000 {
		t.Errorf("pending = %d, mau 1000000", sum.PendingTotalIDR)
	}
	if sum.PaidTotalIDR != 500_000 {
		t.Errorf("paid = %d, mau 500000", sum.PaidTotalIDR)
	}
	if sum.EntryCount != 2 {
		t.Errorf("count = %d, mau 2", sum.EntryCount)
	}
}
