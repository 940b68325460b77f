package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LedgerStatusPending = "pending"
	LedgerStatusPaid    = "paid"
)

// CommissionLedgerEntry: buku besar komisi, append-only. Tier penerima
// di-snapshot saat posting supaya promosi tier tidak mengubah sejarah.
type CommissionLedgerEntry struct {
	EntryID uuid.UUID `gorm:"column:entry_id;type:uuid;primaryKey" json:"entry_id"`

	EntryBookingID         uuid.UUID `gorm:"column:entry_booking_id;type:uuid;not null;index" json:"entry_booking_id"`
	EntryRecipientMemberID uuid.UUID `gorm:"column:entry_recipient_member_id;type:uuid;not null;index" json:"entry_recipient_member_id"`
	EntryRecipientTier     string    `gorm:"column:entry_recipient_tier;type:varchar(16);not null" json:"entry_recipient_tier"`

	EntryRuleType  string `gorm:"column:entry_rule_type;type:varchar(16);not null" json:"entry_rule_type"`
	EntryAmountIDR int64  `gorm:"column:entry_amount_idr;not null;check:entry_amount_idr > 0" json:"entry_amount_idr"`

	EntryStatus string     `gorm:"column:entry_status;type:varchar(16);not null;default:'pending'" json:"entry_status"`
	EntryPaidBy *uuid.UUID `gorm:"column:entry_paid_by;type:uuid" json:"entry_paid_by,omitempty"`
	EntryPaidAt *time.Time `gorm:"column:entry_paid_at" json:"entry_paid_at,omitempty"`

	CreatedAt time.Time `gorm:"column:entry_created_at;autoCreateTime" json:"entry_created_at"`
}

func (CommissionLedgerEntry) TableName() string { return "commission_ledger_entries" }

func (e *CommissionLedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.EntryID == uuid.Nil {
		e.EntryID = uuid.New()
	}
	return nil
}
