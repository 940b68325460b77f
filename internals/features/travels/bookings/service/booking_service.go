package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	commsvc "travelku_backend/internals/features/affiliates/commissions/service"
	membermodel "travelku_backend/internals/features/affiliates/members/model"
	"travelku_backend/internals/features/travels/bookings/model"
	departuremodel "travelku_backend/internals/features/travels/departures/model"
	seatsvc "travelku_backend/internals/features/travels/departures/service"
)

var (
	ErrDepartureNotFound    = seatsvc.ErrDepartureNotFound
	ErrInventoryExhausted   = seatsvc.ErrInventoryExhausted
	ErrDepartureClosed      = errors.New("keberangkatan sudah berangkat")
	ErrInvalidRoomType      = errors.New("tipe kamar tidak dikenal")
	ErrAffiliateCodeInvalid = errors.New("kode affiliate tidak dikenal atau nonaktif")
	ErrBookingNotFound      = errors.New("booking tidak ditemukan")
	ErrInvoiceNotFound      = errors.New("invoice tidak ditemukan")
)

/* =========================================================
   Booking Orchestrator
   Alur: cek kursi (redeem lock atau availability) -> satu
   transaksi {jamaah, booking, consume kursi, invoice} ->
   notifikasi best-effort. Posting komisi BUKAN urusan sini;
   itu dipicu konfirmasi pembayaran lewat MarkInvoicePaid.
========================================================= */

type BookingService struct {
	DB          *gorm.DB
	Seats       *seatsvc.SeatInventoryService
	Commissions *commsvc.CommissionService
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{
		DB:          db,
		Seats:       seatsvc.NewSeatInventoryService(db),
		Commissions: commsvc.NewCommissionService(db),
	}
}

type PilgrimInput struct {
	Name           string
	Email          string
	Phone          string
	PassportNumber *string
	DocumentMeta   map[string]interface{}
}

type CreateBookingInput struct {
	DepartureID   uuid.UUID
	RoomType      string
	LockKey       string // opsional, dari POST /departures/:id/reserve
	AffiliateCode string // opsional, kosong = booking organik
	Pilgrim       PilgrimInput
}

type CreateBookingResult struct {
	Pilgrim *model.Pilgrim `json:"pilgrim"`
	Booking *model.Booking `json:"booking"`
	Invoice *model.Invoice `json:"invoice"`
}

// CreateBooking satu kursi untuk satu jamaah. Lock yang berhasil
// di-redeem melewati cek availability (kursinya memang sudah dihitung
// di lock itu); ConsumeIn di dalam transaksi tetap penjaga terakhir
// terhadap oversell.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error) {
	var dep departuremodel.Departure
	if err := s.DB.WithContext(ctx).First(&dep, "departure_id = ?", in.DepartureID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartureNotFound
		}
		return nil, err
	}
	if dep.DepartureStatus == departuremodel.DepartureStatusDeparted {
		return nil, ErrDepartureClosed
	}

	price, ok := dep.PriceForRoomType(in.RoomType)
	if !ok {
		return nil, ErrInvalidRoomType
	}

	// Affiliator di-resolve sekali di sini; setelah booking tercatat,
	// kolomnya tidak pernah diubah lagi
	var affiliator *membermodel.Member
	if code := strings.ToUpper(strings.TrimSpace(in.AffiliateCode)); code != "" {
		var m membermodel.Member
		if err := s.DB.WithContext(ctx).
			First(&m, "member_affiliate_code = ? AND member_is_active = ?", code, true).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAffiliateCodeInvalid
			}
			return nil, err
		}
		affiliator = &m
	}

	redeemed := false
	if strings.TrimSpace(in.LockKey) != "" {
		var err error
		redeemed, err = s.Seats.Redeem(ctx, in.LockKey)
		if err != nil {
			return nil, err
		}
	}
	if !redeemed {
		// tanpa lock hidup: lock hilang dan kursi habis dilaporkan sama
		avail, err := s.Seats.Availability(ctx, in.DepartureID)
		if err != nil {
			return nil, err
		}
		if avail.Remaining <= 0 {
			return nil, ErrInventoryExhausted
		}
	}

	pilgrim := model.Pilgrim{
		PilgrimName:           strings.TrimSpace(in.Pilgrim.Name),
		PilgrimEmail:          strings.ToLower(strings.TrimSpace(in.Pilgrim.Email)),
		PilgrimPhone:          strings.TrimSpace(in.Pilgrim.Phone),
		PilgrimPassportNumber: in.Pilgrim.PassportNumber,
	}
	if len(in.Pilgrim.DocumentMeta) > 0 {
		pilgrim.PilgrimDocumentMeta = datatypes.JSONMap(in.Pilgrim.DocumentMeta)
	}

	booking := model.Booking{
		BookingDepartureID:   in.DepartureID,
		BookingRoomType:      in.RoomType,
		BookingTotalPriceIDR: price,
		BookingStatus:        model.BookingStatusActive,
	}
	if affiliator != nil {
		booking.BookingAffiliatorMemberID = &affiliator.MemberID
		booking.BookingAffiliateCode = &affiliator.MemberAffiliateCode
	}

	var invoice model.Invoice

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&pilgrim).Error; err != nil {
			return err
		}

		booking.BookingPilgrimID = pilgrim.PilgrimID
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		// penjaga oversell; nol baris membatalkan seluruh transaksi
		if err := s.Seats.ConsumeIn(tx, in.DepartureID); err != nil {
			return err
		}

		invoice = model.Invoice{
			InvoiceBookingID:       booking.BookingID,
			InvoiceMidtransOrderID: fmt.Sprintf("TRV-%s", booking.BookingID),
			InvoiceAmountIDR:       price,
			InvoiceStatus:          model.InvoiceStatusUnpaid,
		}
		return tx.Create(&invoice).Error
	})
	if err != nil {
		return nil, err
	}

	result := &CreateBookingResult{Pilgrim: &pilgrim, Booking: &booking, Invoice: &invoice}
	go s.notifyBookingCreated(result)
	return result, nil
}

// notifyBookingCreated: best-effort, tidak pernah menggagalkan booking.
func (s *BookingService) notifyBookingCreated(r *CreateBookingResult) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[WARN] notifikasi booking %s panic: %v", r.Booking.BookingID, rec)
		}
	}()
	log.Printf("[NOTIFY] booking %s dibuat untuk %s (order=%s, total=Rp%d)",
		r.Booking.BookingID, r.Pilgrim.PilgrimName, r.Invoice.InvoiceMidtransOrderID, r.Invoice.InvoiceAmountIDR)
}

/* ===================== Payment confirmation ===================== */

// MarkInvoicePaid tandai invoice terbayar lalu picu posting komisi.
// Aman diulang: update status kondisional, dan TriggerForBooking punya
// penanda sendiri. Webhook yang dikirim ulang Midtrans berakhir no-op.
// Invoice expired boleh dibuka lagi di sini: verifikasi manual transfer
// bank yang datang telat tetap sah selama kursinya masih terpegang.
func (s *BookingService) MarkInvoicePaid(ctx context.Context, midtransOrderID, paidVia string) (*model.Invoice, error) {
	now := time.Now()
	res := s.DB.WithContext(ctx).
		Model(&model.Invoice{}).
		Where("invoice_midtrans_order_id = ? AND invoice_status IN ?",
			midtransOrderID, []string{model.InvoiceStatusUnpaid, model.InvoiceStatusExpired}).
		Updates(map[string]interface{}{
			"invoice_status":   model.InvoiceStatusPaid,
			"invoice_paid_via": paidVia,
			"invoice_paid_at":  now,
		})
	if res.Error != nil {
		return nil, res.Error
	}

	var inv model.Invoice
	if err := s.DB.WithContext(ctx).
		First(&inv, "invoice_midtrans_order_id = ?", midtransOrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}

	// Komisi hanya boleh jalan untuk invoice yang benar-benar paid.
	// Nol baris + status paid = webhook diulang; penanda di engine yang
	// memastikan posting paling banyak satu kali.
	if inv.InvoiceStatus != model.InvoiceStatusPaid {
		return &inv, nil
	}
	if err := s.Commissions.TriggerForBooking(ctx, inv.InvoiceBookingID); err != nil {
		return nil, err
	}
	return &inv, nil
}

/* ===================== Snap token ===================== */

// SnapTokenFor buat (atau pakai ulang) Snap token untuk invoice booking.
func (s *BookingService) SnapTokenFor(ctx context.Context, bookingID uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	if err := s.DB.WithContext(ctx).
		First(&inv, "invoice_booking_id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	if inv.InvoiceSnapToken != nil && *inv.InvoiceSnapToken != "" {
		return &inv, nil
	}

	var b model.Booking
	if err := s.DB.WithContext(ctx).First(&b, "booking_id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	var p model.Pilgrim
	if err := s.DB.WithContext(ctx).First(&p, "pilgrim_id = ?", b.BookingPilgrimID).Error; err != nil {
		return nil, err
	}

	token, redirectURL, err := GenerateSnapToken(inv, p, "Paket Perjalanan "+b.BookingRoomType)
	if err != nil {
		return nil, err
	}

	inv.InvoiceSnapToken = &token
	inv.InvoiceSnapRedirectURL = &redirectURL
	if err := s.DB.WithContext(ctx).Save(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

/* ===================== Queries ===================== */

type BookingDetail struct {
	Booking model.Booking  `json:"booking"`
	Pilgrim *model.Pilgrim `json:"pilgrim,omitempty"`
	Invoice *model.Invoice `json:"invoice,omitempty"`
}

func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDetail, error) {
	var b model.Booking
	if err := s.DB.WithContext(ctx).First(&b, "booking_id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	detail := BookingDetail{Booking: b}

	var p model.Pilgrim
	if err := s.DB.WithContext(ctx).First(&p, "pilgrim_id = ?", b.BookingPilgrimID).Error; err == nil {
		detail.Pilgrim = &p
	}
	var inv model.Invoice
	if err := s.DB.WithContext(ctx).First(&inv, "invoice_booking_id = ?", b.BookingID).Error; err == nil {
		detail.Invoice = &inv
	}
	return &detail, nil
}

type ListBookingsFilter struct {
	AffiliatorMemberID *uuid.UUID
	DepartureID        *uuid.UUID
}

func (s *BookingService) ListBookings(ctx context.Context, f ListBookingsFilter) ([]model.Booking, error) {
	q := s.DB.WithContext(ctx).Model(&model.Booking{})
	if f.AffiliatorMemberID != nil {
		q = q.Where("booking_affiliator_member_id = ?", *f.AffiliatorMemberID)
	}
	if f.DepartureID != nil {
		q = q.Where("booking_departure_id = ?", *f.DepartureID)
	}

	var rows []model.Booking
	err := q.Order("booking_created_at DESC").Find(&rows).Error
	return rows, err
}
