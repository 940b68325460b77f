package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"travelku_backend/internals/features/travels/departures/model"
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

	if err := db.AutoMigrate(&model.Departure{}, &model.SeatLock{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedDeparture(t *testing.T, db *gorm.DB, totalSeats, bookedSeats int) *model.Departure {
	t.Helper()

	d := model.Departure{
		DeparturePackageID:      uuid.New(),
		DepartureDate:           time.Now().AddDate(0, 2, 0),
		DepartureTotalSeats:     totalSeats,
		DepartureBookedSeats:    bookedSeats,
		DeparturePriceQuadIDR:   28_000_000,
		DeparturePriceTripleIDR: 31_000_000,
		DeparturePriceDoubleIDR: 35_000_000,
	}
	if err := db.Create(&d).Error; err != nil {
		t.Fatalf("seed departure: %v", err)
	}
	return &d
}

func TestAvailabilityCountsOnlyLiveLocks(t *testing.T) {
	db := openTestDB(t)
	s := NewSeatInventoryService(db)
	d := seedDeparture(t, db, 40, 12)

	// satu lock hidup, satu sudah kadaluarsa
	live := model.SeatLock{
		SeatLockDepartureID: d.DepartureID,
		SeatLockKey:         uuid.NewString(),
		SeatLockExpiresAt:   time.Now().Add(10 * time.Minute),
	}
	stale := model.SeatLock{
		SeatLockDepartureID: d.DepartureID,
		SeatLockKey:         uuid.NewString(),
		SeatLockExpiresAt:   time.Now().Add(-1 * time.Minute),
	}
	if err := db.Create(&live).Error; err != nil {
		t.Fatalf("seed live lock: %v", err)
	}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("seed stale lock: %v", err)
	}

	avail, err := s.Availability(context.Background(), d.DepartureID)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if avail.Total != 40 || avail.Booked != 12 || avail.Locked != 1 {
		t.Fatalf("unexpected snapshot: %+v", avail)
	}
	if avail.Remaining != 40-12-1 {
		t.Fatalf("remaining = %d, want %d", avail.Remaining, 40-12-1)
	}
}

func TestAvailabilityUnknownDeparture(t *testing.T) {
	db := openTestDB(t)
	s := NewSeatInventoryService(db)

	_, err := s.Availability(context.Background(), uuid.New())
	if !errors.Is(err, ErrDepartureNotFound) {
		t.Fatalf("expected ErrDepartureNotFound, got %v", err)
	}
}

func TestReserveRedeemRoundTrip(t *testing.T) {
	db := openTestDB(t)
	s := NewSeatInventoryService(db)
	d := seedDeparture(t, db, 5, 0)

	lock, err := s.Reserve(context.Background(), d.DepartureID, 5*time.Minute)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if lock.SeatLockKey == "" || !lock.SeatLockExpiresAt.After(time.Now()) {
		t.Fatalf("lock malformed: %+v", lock)
	}

	// kunci lain tidak pernah sukses
	if ok, err := s.Redeem(context.Background(), uuid.NewString()); err != nil || ok {
		t.Fatalf("redeem foreign key: ok=%v err=%v", ok, err)
	}

	ok, err := s.Redeem(context.Background(), lock.SeatLockKey)
	if err != nil || !ok {
		t.Fatalf("redeem own key: ok=%v err=%v", ok, err)
	}

	// kunci yang sama kedua kalinya harus gagal
	if ok, err := s.Redeem(context.Background(), lock.SeatLockKey); err != nil || ok {
		t.Fatalf("second redeem: ok=%v err=%v", ok, err)
	}
}

func TestRedeemExpiredLockFails(t *testing.T) {
	db := openTestDB(t)
	s := NewSeatInventoryService(db)
	d := seedDeparture(t, db, 5, 0)

	stale := model.SeatLock{
		SeatLockDepartureID: d.DepartureID,
		SeatLockKey:         uuid.NewString(),
		SeatLockExpiresAt:   time.Now().Add(-1 * time.Second),
	}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("seed stale lock: %v", err)
	}

	if ok, err := s.Redeem(context.Background(), stale.SeatLockKey); err != nil || ok {
		t.Fatalf("redeem expired: ok=%v err=%v", ok, err)
	}
}

func TestReserveWhenExhausted(t *testing.T) {
	db := openTestDB(t)
	s := NewSeatInventoryService(db)
	d := seedDeparture(t, db, 2, 2)

	_, err := s.Reserve(context.Background(), d.DepartureID, time.Minute)
	if !errors.Is(err, ErrInventoryExhausted) {
		t.Fatalf("expected ErrInventoryExhausted, got %v", err)
	}
}

func TestReserveCountsLiveLocksAgainstCapacity(t *testing.T) {
	db := openTestDB(t)
	s := NewSeatInventoryService(db)
	d := seedDeparture(t, db, 2, 0)

	if _, err := s.Reserve(context.Background(), d.DepartureID, time.Minute); err != nil {
		t.Fatalf("reserve 1: %v", err)
	}
	if _, err := s.Reserve(context.Background(), d.DepartureID, time.Minute); err != nil {
		t.Fatalf("reserve 2: %v", err)
	}
	if _, err := s.Reserve(context.Background(), d.DepartureID, time.Minute); !errors.Is(err, ErrInventoryExhausted) {
		t.Fatalf("expected ErrInventoryExhausted on third reserve, got %v", err)
	}
}

func TestConsumeFlipsStatusFull(t *testing.T) {
	db := openTestDB(t)
	s := NewSeatInventoryService(db)
	d := seedDeparture(t, db, 2, 0)

	if err := s.Consume(context.Background(), d.DepartureID); err != nil {
		t.Fatalf("consume 1: %v", err)
	}
	var mid model.Departure
	if err := db.First(&mid, "departure_id = ?", d.DepartureID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if mid.DepartureBookedSeats != 1 || mid.DepartureStatus != model.DepartureStatusAvailable {
		t.Fatalf("after first consume: seats=%d status=%s", mid.DepartureBookedSeats, mid.DepartureStatus)
	}

	if err := s.Consume(context.Background(), d.DepartureID); err != nil {
		t.Fatalf("consume 2: %v", err)
	}
	var full model.Departure
	if err := db.First(&full, "departure_id = ?", d.DepartureID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if full.DepartureBookedSeats != 2 || full.DepartureStatus != model.DepartureStatusFull {
		t.Fatalf("after second consume: seats=%d status=%s", full.DepartureBookedSeats, full.DepartureStatus)
	}

	if err := s.Consume(context.Background(), d.DepartureID); !errors.Is(err, ErrInventoryExhausted) {
		t.Fatalf("expected ErrInventoryExhausted past capacity, got %v", err)
	}
}

// Dua consume berbarengan pada kapasitas 1: tepat satu yang sukses dan
// booked_seats tidak pernah melewati total_seats.
func TestConcurrentConsumeNeverOversells(t *testing.T) {
	db := openTestDB(t)
	s := NewSeatInventoryService(db)
	d := seedDeparture(t, db, 1, 0)

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.Consume(context.Background(), d.DepartureID)
		}()
	}
	wg.Wait()
	close(results)

	succeeded, exhausted := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInventoryExhausted):
			exhausted++
		default:
			t.Fatalf("unexpected consume error: %v", err)
		}
	}
	if succeeded != 1 || exhausted != attempts-1 {
		t.Fatalf("succeeded=%d exhausted=%d, want 1/%d", succeeded, exhausted, attempts-1)
	}

	var final model.Departure
	if err := db.First(&final, "departure_id = ?", d.DepartureID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if final.DepartureBookedSeats != 1 {
		t.Fatalf("booked seats overshoot: %d", final.DepartureBookedSeats)
	}
	if final.DepartureStatus != model.DepartureStatusFull {
		t.Fatalf("status = %s, want full", final.DepartureStatus)
	}
}

func TestSweepExpiredIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	s := NewSeatInventoryService(db)
	d := seedDeparture(t, db, 10, 0)

	for i := 0; i < 3; i++ {
		stale := model.SeatLock{
			SeatLockDepartureID: d.DepartureID,
			SeatLockKey:         uuid.NewString(),
			SeatLockExpiresAt:   time.Now().Add(-time.Minute),
		}
		if err := db.Create(&stale).Error; err != nil {
			t.Fatalf("seed stale lock %d: %v", i, err)
		}
	}
	live := model.SeatLock{
		SeatLockDepartureID: d.DepartureID,
		SeatLockKey:         uuid.NewString(),
		SeatLockExpiresAt:   time.Now().Add(time.Hour),
	}
	if err := db.Create(&live).Error; err != nil {
		t.Fatalf("seed live lock: %v", err)
	}

	n, err := s.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 3 {
		t.Fatalf("swept %d locks, want 3", n)
	}

	// sapuan kedua langsung setelahnya: himpunan lock tidak berubah
	n, err = s.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if n != 0 {
		t.Fatalf("second sweep removed %d locks, want 0", n)
	}

	var remaining int64
	if err := db.Model(&model.SeatLock{}).Count(&remaining).Error; err != nil {
		t.Fatalf("count locks: %v", err)
	}
	if remaining != 1 {
		t.Fatalf("remaining locks = %d, want 1", remaining)
	}
}
