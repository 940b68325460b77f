package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingStatusActive    = "active"
	BookingStatusCancelled = "cancelled"
)

// Booking: satu kursi pada satu keberangkatan untuk satu jamaah.
// Affiliator di-resolve sekali dari kode afiliasi saat create dan tidak
// pernah diubah setelahnya.
type Booking struct {
	BookingID uuid.UUID `gorm:"column:booking_id;type:uuid;primaryKey" json:"booking_id"`

	BookingPilgrimID   uuid.UUID `gorm:"column:booking_pilgrim_id;type:uuid;not null;index" json:"booking_pilgrim_id"`
	BookingDepartureID uuid.UUID `gorm:"column:booking_departure_id;type:uuid;not null;index" json:"booking_departure_id"`

	BookingRoomType      string `gorm:"column:booking_room_type;type:varchar(16);not null" json:"booking_room_type"`
	BookingTotalPriceIDR int64  `gorm:"column:booking_total_price_idr;not null;check:booking_total_price_idr > 0" json:"booking_total_price_idr"`

	// Snapshot kode yang dipakai saat pendaftaran (bisa kosong = organik)
	BookingAffiliatorMemberID *uuid.UUID `gorm:"column:booking_affiliator_member_id;type:uuid;index" json:"booking_affiliator_member_id,omitempty"`
	BookingAffiliateCode      *string    `gorm:"column:booking_affiliate_code;type:varchar(16)" json:"booking_affiliate_code,omitempty"`

	BookingStatus string `gorm:"column:booking_status;type:varchar(16);not null;default:'active'" json:"booking_status"`

	// Penanda komisi sudah diposting; diisi sekali oleh commission engine
	BookingCommissionPostedAt *time.Time `gorm:"column:booking_commission_posted_at" json:"booking_commission_posted_at,omitempty"`

	CreatedAt time.Time      `gorm:"column:booking_created_at;autoCreateTime" json:"booking_created_at"`
	UpdatedAt time.Time      `gorm:"column:booking_updated_at;autoUpdateTime" json:"booking_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:booking_deleted_at;index" json:"booking_deleted_at,omitempty"`
}

func (Booking) TableName() string { return "bookings" }

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.BookingID == uuid.Nil {
		b.BookingID = uuid.New()
	}
	return nil
}
