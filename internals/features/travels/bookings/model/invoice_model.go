package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InvoiceStatusUnpaid  = "unpaid"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusExpired = "expired"
)

type Invoice struct {
	InvoiceID uuid.UUID `gorm:"column:invoice_id;type:uuid;primaryKey" json:"invoice_id"`

	InvoiceBookingID uuid.UUID `gorm:"column:invoice_booking_id;type:uuid;not null;index" json:"invoice_booking_id"`

	// Order ID yang dikirim ke Midtrans; dipakai ulang oleh webhook
	InvoiceMidtransOrderID string  `gorm:"column:invoice_midtrans_order_id;type:varchar(64);not null;uniqueIndex" json:"invoice_midtrans_order_id"`
	InvoiceSnapToken       *string `gorm:"column:invoice_snap_token;type:varchar(255)" json:"invoice_snap_token,omitempty"`
	InvoiceSnapRedirectURL *string `gorm:"column:invoice_snap_redirect_url;type:varchar(255)" json:"invoice_snap_redirect_url,omitempty"`

	InvoiceAmountIDR int64  `gorm:"column:invoice_amount_idr;not null;check:invoice_amount_idr > 0" json:"invoice_amount_idr"`
	InvoiceStatus    string `gorm:"column:invoice_status;type:varchar(16);not null;default:'unpaid'" json:"invoice_status"`

	InvoicePaidVia *string    `gorm:"column:invoice_paid_via;type:varchar(40)" json:"invoice_paid_via,omitempty"`
	InvoicePaidAt  *time.Time `gorm:"column:invoice_paid_at" json:"invoice_paid_at,omitempty"`

	CreatedAt time.Time `gorm:"column:invoice_created_at;autoCreateTime" json:"invoice_created_at"`
	UpdatedAt time.Time `gorm:"column:invoice_updated_at;autoUpdateTime" json:"invoice_updated_at"`
}

func (Invoice) TableName() string { return "invoices" }

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.InvoiceID == uuid.Nil {
		i.InvoiceID = uuid.New()
	}
	return nil
}
