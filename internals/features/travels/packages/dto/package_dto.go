package dto

import (
	"strings"

	"travelku_backend/internals/features/travels/packages/model"
)

type CreatePackageRequest struct {
	PackageName        string  `json:"package_name" validate:"required,min=3,max=120"`
	PackageSlug        string  `json:"package_slug" validate:"omitempty,min=3,max=140"`
	PackageDescription *string `json:"package_description,omitempty"`
	PackageDurationDay int     `json:"package_duration_day" validate:"required,gt=0,lte=60"`
}

func (r *CreatePackageRequest) ToModel() *model.TravelPackage {
	slug := strings.TrimSpace(r.PackageSlug)
	if slug == "" {
		slug = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(r.PackageName), " ", "-"))
	}
	return &model.TravelPackage{
		PackageName:        strings.TrimSpace(r.PackageName),
		PackageSlug:        slug,
		PackageDescription: r.PackageDescription,
		PackageDurationDay: r.PackageDurationDay,
		PackageIsActive:    true,
	}
}

type UpdatePackageRequest struct {
	PackageName        *string `json:"package_name,omitempty" validate:"omitempty,min=3,max=120"`
	PackageDescription *string `json:"package_description,omitempty"`
	PackageDurationDay *int    `json:"package_duration_day,omitempty" validate:"omitempty,gt=0,lte=60"`
	PackageIsActive    *bool   `json:"package_is_active,omitempty"`
}

func (r *UpdatePackageRequest) Apply(m *model.TravelPackage) {
	if r.PackageName != nil {
		m.PackageName = strings.TrimSpace(*r.PackageName)
	}
	if r.PackageDescription != nil {
		m.PackageDescription = r.PackageDescription
	}
	if r.PackageDurationDay != nil {
		m.PackageDurationDay = *r.PackageDurationDay
	}
	if r.PackageIsActive != nil {
		m.PackageIsActive = *r.PackageIsActive
	}
}
