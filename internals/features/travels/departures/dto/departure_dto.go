package dto

import (
	"time"

	"github.com/google/uuid"

	"travelku_backend/internals/features/travels/departures/model"
)

/* =========================================================
   REQUEST DTOs
========================================================= */

type CreateDepartureRequest struct {
	DeparturePackageID uuid.UUID `json:"departure_package_id" validate:"required"`
	DepartureDate      time.Time `json:"departure_date" validate:"required"`

	DepartureTotalSeats int `json:"departure_total_seats" validate:"required,gt=0"`

	DeparturePriceQuadIDR   int64 `json:"departure_price_quad_idr" validate:"required,gt=0"`
	DeparturePriceTripleIDR int64 `json:"departure_price_triple_idr" validate:"required,gt=0"`
	DeparturePriceDoubleIDR int64 `json:"departure_price_double_idr" validate:"required,gt=0"`
}

func (r *CreateDepartureRequest) ToModel() *model.Departure {
	return &model.Departure{
		DeparturePackageID:      r.DeparturePackageID,
		DepartureDate:           r.DepartureDate,
		DepartureTotalSeats:     r.DepartureTotalSeats,
		DeparturePriceQuadIDR:   r.DeparturePriceQuadIDR,
		DeparturePriceTripleIDR: r.DeparturePriceTripleIDR,
		DeparturePriceDoubleIDR: r.DeparturePriceDoubleIDR,
		DepartureStatus:         model.DepartureStatusAvailable,
	}
}

type UpdateDepartureStatusRequest struct {
	DepartureStatus string `json:"departure_status" validate:"required,oneof=available last_call full departed"`
}

type ReserveSeatRequest struct {
	// Detik; kosong = default server
	ReserveTTLSeconds int `json:"reserve_ttl_seconds" validate:"omitempty,gt=0,lte=3600"`
}

/* =========================================================
   RESPONSE DTOs
========================================================= */

type ReserveSeatResponse struct {
	LockKey   string    `json:"lock_key"`
	ExpiresAt time.Time `json:"expires_at"`
}
