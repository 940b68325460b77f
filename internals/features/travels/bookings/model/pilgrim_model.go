package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Pilgrim: data jamaah yang berangkat (satu booking = satu jamaah).
type Pilgrim struct {
	PilgrimID uuid.UUID `gorm:"column:pilgrim_id;type:uuid;primaryKey" json:"pilgrim_id"`

	PilgrimName  string `gorm:"column:pilgrim_name;type:varchar(120);not null" json:"pilgrim_name"`
	PilgrimEmail string `gorm:"column:pilgrim_email;type:varchar(120);not null" json:"pilgrim_email"`
	PilgrimPhone string `gorm:"column:pilgrim_phone;type:varchar(30);not null" json:"pilgrim_phone"`

	PilgrimPassportNumber *string `gorm:"column:pilgrim_passport_number;type:varchar(30)" json:"pilgrim_passport_number,omitempty"`

	// Metadata dokumen (paspor, KTP, vaksin) dari layanan upload
	PilgrimDocumentMeta datatypes.JSONMap `gorm:"column:pilgrim_document_meta;type:jsonb" json:"pilgrim_document_meta,omitempty"`

	CreatedAt time.Time `gorm:"column:pilgrim_created_at;autoCreateTime" json:"pilgrim_created_at"`
	UpdatedAt time.Time `gorm:"column:pilgrim_updated_at;autoUpdateTime" json:"pilgrim_updated_at"`
}

func (Pilgrim) TableName() string { return "pilgrims" }

func (p *Pilgrim) BeforeCreate(tx *gorm.DB) error {
	if p.PilgrimID == uuid.Nil {
		p.PilgrimID = uuid.New()
	}
	return nil
}
