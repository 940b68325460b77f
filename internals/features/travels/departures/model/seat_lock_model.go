package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeatLock: hold sementara atas satu kursi selama alur pendaftaran
// multi-step, sebelum record booking ada. Tidak terikat identitas user,
// hanya pemegang kuncinya. Lewat expires_at baris ini berhenti dihitung
// sebagai terkunci walau belum disapu.
type SeatLock struct {
	SeatLockID uuid.UUID `gorm:"column:seat_lock_id;type:uuid;primaryKey" json:"seat_lock_id"`

	SeatLockDepartureID uuid.UUID `gorm:"column:seat_lock_departure_id;type:uuid;not null;index" json:"seat_lock_departure_id"`

	SeatLockKey       string    `gorm:"column:seat_lock_key;type:varchar(64);not null;uniqueIndex" json:"seat_lock_key"`
	SeatLockExpiresAt time.Time `gorm:"column:seat_lock_expires_at;not null;index" json:"seat_lock_expires_at"`

	CreatedAt time.Time `gorm:"column:seat_lock_created_at;autoCreateTime" json:"seat_lock_created_at"`
}

func (SeatLock) TableName() string { return "seat_locks" }

func (l *SeatLock) BeforeCreate(tx *gorm.DB) error {
	if l.SeatLockID == uuid.Nil {
		l.SeatLockID = uuid.New()
	}
	return nil
}
