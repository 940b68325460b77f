package controller

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	helper "travelku_backend/internals/helpers"

	dto "travelku_backend/internals/features/travels/bookings/dto"
	model "travelku_backend/internals/features/travels/bookings/model"
	svc "travelku_backend/internals/features/travels/bookings/service"
)

type PaymentController struct {
	DB                *gorm.DB
	Validator         *validator.Validate
	Bookings          *svc.BookingService
	MidtransServerKey string // dipakai untuk verify signature di webhook
}

func NewPaymentController(db *gorm.DB, midtransServerKey string, useProd bool) *PaymentController {
	// init midtrans snap client (sekali saja saat bootstrap)
	svc.InitMidtrans(midtransServerKey, useProd)
	return &PaymentController{
		DB:                db,
		Validator:         validator.New(),
		Bookings:          svc.NewBookingService(db),
		MidtransServerKey: midtransServerKey,
	}
}

/* =======================================================================
   Webhook Midtrans
======================================================================= */

type midtransNotif struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"` // capture, settlement, pending, deny, cancel, expire, failure
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"` // string dari Midtrans
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"` // accept / challenge / deny
	TransactionID     string `json:"transaction_id"`
	SettlementTime    string `json:"settlement_time"`
	// field lain aman diabaikan
}

// POST /payments/midtrans/webhook
func (h *PaymentController) MidtransWebhook(c *fiber.Ctx) error {
	var notif midtransNotif
	if err := c.BodyParser(&notif); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}

	// Verify signature — SHA512(order_id + status_code + gross_amount + ServerKey)
	want := strings.ToLower(notif.SignatureKey)
	raw := notif.OrderID + notif.StatusCode + notif.GrossAmount + h.MidtransServerKey
	got := sha512sum(raw)
	sigValid := want != "" && got == want

	h.logGatewayEvent(c, notif, sigValid)

	if !sigValid {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid signature")
	}

	ts := strings.ToLower(notif.TransactionStatus)
	fraud := strings.ToLower(notif.FraudStatus)

	switch {
	case ts == "settlement", ts == "capture" && fraud == "accept":
		inv, err := h.Bookings.MarkInvoicePaid(c.UserContext(), notif.OrderID, "midtrans:"+notif.PaymentType)
		if err != nil {
			if errors.Is(err, svc.ErrInvoiceNotFound) {
				// balas 200 supaya Midtrans berhenti retry order yang tidak dikenal
				log.Printf("[WARN] webhook untuk order %s tanpa invoice", notif.OrderID)
				return c.JSON(fiber.Map{"status": "ignored", "reason": "invoice not found"})
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{
			"status":         "ok",
			"invoice_id":     inv.InvoiceID,
			"invoice_status": inv.InvoiceStatus,
		})

	case ts == "expire":
		if err := h.DB.WithContext(c.UserContext()).
			Model(&model.Invoice{}).
			Where("invoice_midtrans_order_id = ? AND invoice_status = ?", notif.OrderID, model.InvoiceStatusUnpaid).
			Update("invoice_status", model.InvoiceStatusExpired).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"status": "ok", "invoice_status": model.InvoiceStatusExpired})

	default:
		// pending/deny/cancel/failure: dicatat di event log, invoice tidak berubah
		return c.JSON(fiber.Map{"status": "ok", "transaction_status": notif.TransactionStatus})
	}
}

/* =======================================================================
   Verifikasi manual (admin) — transfer bank di luar gateway
======================================================================= */

// POST /payments/verify
func (h *PaymentController) ManualVerify(c *fiber.Ctx) error {
	var req dto.ManualVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	inv, err := h.Bookings.MarkInvoicePaid(c.UserContext(), req.InvoiceMidtransOrderID, req.PaidVia)
	if err != nil {
		if errors.Is(err, svc.ErrInvoiceNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "invoice tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Pembayaran diverifikasi", inv)
}

/* =======================================================================
   Helpers
======================================================================= */

func sha512sum(s string) string {
	h := sha512.Sum512([]byte(s))
	return hex.EncodeToString(h[:])
}

// logGatewayEvent simpan notifikasi mentah untuk diagnosa. Best-effort:
// gagal mencatat tidak boleh menggagalkan pemrosesan webhook.
func (h *PaymentController) logGatewayEvent(c *fiber.Ctx, notif midtransNotif, sigValid bool) {
	ev := model.PaymentGatewayEvent{
		EventOrderID:           notif.OrderID,
		EventTransactionStatus: notif.TransactionStatus,
		EventSignatureValid:    sigValid,
		EventRawBody: datatypes.JSONMap{
			"transaction_time":   notif.TransactionTime,
			"transaction_status": notif.TransactionStatus,
			"status_code":        notif.StatusCode,
			"order_id":           notif.OrderID,
			"gross_amount":       notif.GrossAmount,
			"payment_type":       notif.PaymentType,
			"fraud_status":       notif.FraudStatus,
			"transaction_id":     notif.TransactionID,
			"settlement_time":    notif.SettlementTime,
		},
	}
	if err := h.DB.WithContext(c.UserContext()).Create(&ev).Error; err != nil {
		log.Printf("[WARN] gagal mencatat gateway event order %s: %v", notif.OrderID, err)
	}
}
