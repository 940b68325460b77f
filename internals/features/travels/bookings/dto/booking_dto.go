package dto

import (
	"github.com/google/uuid"

	svc "travelku_backend/internals/features/travels/bookings/service"
)

type CreateBookingRequest struct {
	BookingDepartureID uuid.UUID `json:"booking_departure_id" validate:"required"`
	BookingRoomType    string    `json:"booking_room_type" validate:"required,oneof=quad triple double"`

	// Lock dari POST /departures/:id/reserve; kosong = cek availability
	SeatLockKey string `json:"seat_lock_key" validate:"omitempty,uuid4"`

	AffiliateCode string `json:"affiliate_code" validate:"omitempty,min=4,max=16"`

	PilgrimName           string                 `json:"pilgrim_name" validate:"required,min=3,max=120"`
	PilgrimEmail          string                 `json:"pilgrim_email" validate:"required,email"`
	PilgrimPhone          string                 `json:"pilgrim_phone" validate:"required,min=8,max=30"`
	PilgrimPassportNumber *string                `json:"pilgrim_passport_number,omitempty" validate:"omitempty,max=30"`
	PilgrimDocumentMeta   map[string]interface{} `json:"pilgrim_document_meta,omitempty"`
}

func (r *CreateBookingRequest) ToInput() svc.CreateBookingInput {
	return svc.CreateBookingInput{
		DepartureID:   r.BookingDepartureID,
		RoomType:      r.BookingRoomType,
		LockKey:       r.SeatLockKey,
		AffiliateCode: r.AffiliateCode,
		Pilgrim: svc.PilgrimInput{
			Name:           r.PilgrimName,
			Email:          r.PilgrimEmail,
			Phone:          r.PilgrimPhone,
			PassportNumber: r.PilgrimPassportNumber,
			DocumentMeta:   r.PilgrimDocumentMeta,
		},
	}
}

type ManualVerifyRequest struct {
	InvoiceMidtransOrderID string `json:"invoice_midtrans_order_id" validate:"required"`
	PaidVia                string `json:"paid_via" validate:"required,oneof=bank_transfer cash midtrans"`
}
