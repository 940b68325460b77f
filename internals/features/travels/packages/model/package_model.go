package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TravelPackage: master paket perjalanan (umrah reguler, plus Turki, dst).
type TravelPackage struct {
	PackageID uuid.UUID `gorm:"column:package_id;type:uuid;primaryKey" json:"package_id"`

	PackageName        string  `gorm:"column:package_name;type:varchar(120);not null" json:"package_name"`
	PackageSlug        string  `gorm:"column:package_slug;type:varchar(140);not null;uniqueIndex" json:"package_slug"`
	PackageDescription *string `gorm:"column:package_description;type:text" json:"package_description,omitempty"`
	PackageDurationDay int     `gorm:"column:package_duration_day;not null;check:package_duration_day > 0" json:"package_duration_day"`

	PackageIsActive bool `gorm:"column:package_is_active;not null;default:true" json:"package_is_active"`

	CreatedAt time.Time      `gorm:"column:package_created_at;autoCreateTime" json:"package_created_at"`
	UpdatedAt time.Time      `gorm:"column:package_updated_at;autoUpdateTime" json:"package_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:package_deleted_at;index" json:"package_deleted_at,omitempty"`
}

func (TravelPackage) TableName() string { return "travel_packages" }

func (p *TravelPackage) BeforeCreate(tx *gorm.DB) error {
	if p.PackageID == uuid.Nil {
		p.PackageID = uuid.New()
	}
	return nil
}
