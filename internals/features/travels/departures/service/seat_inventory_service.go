package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"travelku_backend/internals/features/travels/departures/model"
)

var (
	ErrDepartureNotFound  = errors.New("keberangkatan tidak ditemukan")
	ErrInventoryExhausted = errors.New("kursi sudah habis")
)

// DefaultLockTTL: lama hold kursi selama user mengisi form pendaftaran.
const DefaultLockTTL = 15 * time.Minute

/* =========================================================
   Seat Inventory Service
   Semua koordinasi lewat store relasional; request stateless.
   Konsumsi kursi dan redeem lock wajib satu statement kondisional
   (rows-affected), bukan read-then-write.
========================================================= */

type SeatInventoryService struct {
	DB *gorm.DB
}

func NewSeatInventoryService(db *gorm.DB) *SeatInventoryService {
	return &SeatInventoryService{DB: db}
}

type Availability struct {
	Total     int `json:"total"`
	Booked    int `json:"booked"`
	Locked    int `json:"locked"`
	Remaining int `json:"remaining"`
}

/* ===================== Availability ===================== */

// Availability: remaining = total − booked − locked, dengan locked =
// jumlah lock yang belum kadaluarsa saat dipanggil.
func (s *SeatInventoryService) Availability(ctx context.Context, departureID uuid.UUID) (Availability, error) {
	return s.availabilityIn(s.DB.WithContext(ctx), departureID, time.Now())
}

func (s *SeatInventoryService) availabilityIn(db *gorm.DB, departureID uuid.UUID, now time.Time) (Availability, error) {
	var d model.Departure
	if err := db.First(&d, "departure_id = ?", departureID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Availability{}, ErrDepartureNotFound
		}
		return Availability{}, err
	}

	var locked int64
	if err := db.Model(&model.SeatLock{}).
		Where("seat_lock_departure_id = ? AND seat_lock_expires_at > ?", departureID, now).
		Count(&locked).Error; err != nil {
		return Availability{}, err
	}

	return Availability{
		Total:     d.DepartureTotalSeats,
		Booked:    d.DepartureBookedSeats,
		Locked:    int(locked),
		Remaining: d.DepartureTotalSeats - d.DepartureBookedSeats - int(locked),
	}, nil
}

/* ===================== Reserve / Redeem ===================== */

// Reserve terbitkan seat lock baru untuk satu kursi. Ini akuntansi
// kapasitas advisory — kursi baru benar-benar terpakai saat Consume.
func (s *SeatInventoryService) Reserve(ctx context.Context, departureID uuid.UUID, ttl time.Duration) (*model.SeatLock, error) {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}

	// sapu lock kadaluarsa dulu biar hitungan locked tidak menumpuk
	if _, err := s.SweepExpired(ctx); err != nil {
		log.Printf("[WARN] sweep sebelum reserve gagal: %v", err)
	}

	now := time.Now()
	avail, err := s.availabilityIn(s.DB.WithContext(ctx), departureID, now)
	if err != nil {
		return nil, err
	}
	if avail.Remaining <= 0 {
		return nil, ErrInventoryExhausted
	}

	lock := model.SeatLock{
		SeatLockDepartureID: departureID,
		SeatLockKey:         uuid.NewString(),
		SeatLockExpiresAt:   now.Add(ttl),
	}
	if err := s.DB.WithContext(ctx).Create(&lock).Error; err != nil {
		return nil, err
	}
	return &lock, nil
}

// Redeem hapus lock yang masih hidup dalam satu delete kondisional;
// dua redeemer pada kunci yang sama tidak mungkin sama-sama sukses.
// false = tidak ada lock hidup untuk kunci ini (caller cek Availability ulang).
func (s *SeatInventoryService) Redeem(ctx context.Context, lockKey string) (bool, error) {
	res := s.DB.WithContext(ctx).
		Where("seat_lock_key = ? AND seat_lock_expires_at > ?", lockKey, time.Now()).
		Delete(&model.SeatLock{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

/* ===================== Consume ===================== */

// Consume pakai satu kursi: increment + flip status full dalam SATU
// update kondisional. Read-then-write di sini bisa bikin booked_seats
// melewati total_seats saat booking berbarengan.
func (s *SeatInventoryService) Consume(ctx context.Context, departureID uuid.UUID) error {
	return s.ConsumeIn(s.DB.WithContext(ctx), departureID)
}

// ConsumeIn versi yang ikut transaksi pemanggil (dipakai orkestrator booking).
func (s *SeatInventoryService) ConsumeIn(tx *gorm.DB, departureID uuid.UUID) error {
	res := tx.Model(&model.Departure{}).
		Where("departure_id = ? AND departure_booked_seats < departure_total_seats", departureID).
		Updates(map[string]interface{}{
			"departure_booked_seats": gorm.Expr("departure_booked_seats + 1"),
			"departure_status": gorm.Expr(
				"CASE WHEN departure_booked_seats + 1 >= departure_total_seats THEN ? ELSE departure_status END",
				model.DepartureStatusFull,
			),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInventoryExhausted
	}
	return nil
}

/* ===================== Sweep ===================== */

// SweepExpired hapus semua lock kadaluarsa. Idempoten: aman dijalankan
// terjadwal maupun oportunistik, hapus baris yang sudah hilang = no-op.
func (s *SeatInventoryService) SweepExpired(ctx context.Context) (int64, error) {
	res := s.DB.WithContext(ctx).
		Where("seat_lock_expires_at <= ?", time.Now()).
		Delete(&model.SeatLock{})
	return res.RowsAffected, res.Error
}
