package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */

const (
	DepartureStatusAvailable = "available"
	DepartureStatusLastCall  = "last_call"
	DepartureStatusFull      = "full"
	DepartureStatusDeparted  = "departed"
)

const (
	RoomTypeQuad   = "quad"
	RoomTypeTriple = "triple"
	RoomTypeDouble = "double"
)

// urutan siklus hidup keberangkatan; transisi mundur tidak diizinkan
var departureStatusOrder = map[string]int{
	DepartureStatusAvailable: 0,
	DepartureStatusLastCall:  1,
	DepartureStatusFull:      2,
	DepartureStatusDeparted:  3,
}

func IsValidDepartureStatus(s string) bool {
	_, ok := departureStatusOrder[s]
	return ok
}

// CanTransitionDepartureStatus: maju atau tetap, tidak pernah mundur.
func CanTransitionDepartureStatus(from, to string) bool {
	a, oka := departureStatusOrder[from]
	b, okb := departureStatusOrder[to]
	return oka && okb && b >= a
}

/* ===================== Model ===================== */

type Departure struct {
	DepartureID uuid.UUID `gorm:"column:departure_id;type:uuid;primaryKey" json:"departure_id"`

	DeparturePackageID uuid.UUID `gorm:"column:departure_package_id;type:uuid;not null;index" json:"departure_package_id"`

	DepartureDate time.Time `gorm:"column:departure_date;not null" json:"departure_date"`

	// Kuota kursi: booked tidak boleh melewati total (dijaga juga oleh
	// conditional update di service, bukan cuma constraint ini)
	DepartureTotalSeats  int `gorm:"column:departure_total_seats;not null;check:departure_total_seats >= 0" json:"departure_total_seats"`
	DepartureBookedSeats int `gorm:"column:departure_booked_seats;not null;default:0;check:departure_booked_seats <= departure_total_seats" json:"departure_booked_seats"`

	// Harga per tipe kamar (rupiah)
	DeparturePriceQuadIDR   int64 `gorm:"column:departure_price_quad_idr;not null;check:departure_price_quad_idr >= 0" json:"departure_price_quad_idr"`
	DeparturePriceTripleIDR int64 `gorm:"column:departure_price_triple_idr;not null;check:departure_price_triple_idr >= 0" json:"departure_price_triple_idr"`
	DeparturePriceDoubleIDR int64 `gorm:"column:departure_price_double_idr;not null;check:departure_price_double_idr >= 0" json:"departure_price_double_idr"`

	DepartureStatus string `gorm:"column:departure_status;type:varchar(16);not null;default:'available'" json:"departure_status"`

	CreatedAt time.Time      `gorm:"column:departure_created_at;autoCreateTime" json:"departure_created_at"`
	UpdatedAt time.Time      `gorm:"column:departure_updated_at;autoUpdateTime" json:"departure_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:departure_deleted_at;index" json:"departure_deleted_at,omitempty"`
}

func (Departure) TableName() string { return "departures" }

func (d *Departure) BeforeCreate(tx *gorm.DB) error {
	if d.DepartureID == uuid.Nil {
		d.DepartureID = uuid.New()
	}
	if d.DepartureStatus == "" {
		d.DepartureStatus = DepartureStatusAvailable
	}
	return nil
}

/* ===================== Helpers ===================== */

func (d *Departure) IsOpenForBooking() bool {
	return d.DepartureStatus == DepartureStatusAvailable || d.DepartureStatus == DepartureStatusLastCall
}

// PriceForRoomType: 0 dan false untuk tipe kamar yang tidak dikenal.
func (d *Departure) PriceForRoomType(roomType string) (int64, bool) {
	switch roomType {
	case RoomTypeQuad:
		return d.DeparturePriceQuadIDR, true
	case RoomTypeTriple:
		return d.DeparturePriceTripleIDR, true
	case RoomTypeDouble:
		return d.DeparturePriceDoubleIDR, true
	default:
		return 0, false
	}
}
