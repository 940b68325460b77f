package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentGatewayEvent: log mentah notifikasi Midtrans untuk diagnosa.
type PaymentGatewayEvent struct {
	EventID uuid.UUID `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`

	EventOrderID           string `gorm:"column:event_order_id;type:varchar(64);not null;index" json:"event_order_id"`
	EventTransactionStatus string `gorm:"column:event_transaction_status;type:varchar(32);not null" json:"event_transaction_status"`
	EventSignatureValid    bool   `gorm:"column:event_signature_valid;not null" json:"event_signature_valid"`

	EventRawBody datatypes.JSONMap `gorm:"column:event_raw_body;type:jsonb" json:"event_raw_body,omitempty"`

	CreatedAt time.Time `gorm:"column:event_created_at;autoCreateTime" json:"event_created_at"`
}

func (PaymentGatewayEvent) TableName() string { return "payment_gateway_events" }

func (e *PaymentGatewayEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
