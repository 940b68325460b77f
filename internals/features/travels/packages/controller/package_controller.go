package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "travelku_backend/internals/helpers"

	dto "travelku_backend/internals/features/travels/packages/dto"
	model "travelku_backend/internals/features/travels/packages/model"
)

type PackageController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewPackageController(db *gorm.DB) *PackageController {
	return &PackageController{DB: db, Validator: validator.New()}
}

// POST /packages
func (h *PackageController) Create(c *fiber.Ctx) error {
	var req dto.CreatePackageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusConflict, "slug paket sudah dipakai")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Paket dibuat", m)
}

// GET /packages
func (h *PackageController) List(c *fiber.Ctx) error {
	q := h.DB.WithContext(c.UserContext()).Model(&model.TravelPackage{})
	if c.Query("active") == "true" {
		q = q.Where("package_is_active = ?", true)
	}

	var rows []model.TravelPackage
	if err := q.Order("package_created_at DESC").Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", rows)
}

// GET /packages/:id
func (h *PackageController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var m model.TravelPackage
	if err := h.DB.WithContext(c.UserContext()).
		First(&m, "package_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "paket tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", m)
}

// PATCH /packages/:id
func (h *PackageController) Patch(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var m model.TravelPackage
	if err := h.DB.WithContext(c.UserContext()).
		First(&m, "package_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "paket tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var patch dto.UpdatePackageRequest
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(patch); err != nil {
		return helper.ValidationError(c, err)
	}

	patch.Apply(&m)
	if err := h.DB.WithContext(c.UserContext()).Save(&m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Paket diperbarui", m)
}

// DELETE /packages/:id (soft)
func (h *PackageController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	res := h.DB.WithContext(c.UserContext()).Delete(&model.TravelPackage{}, "package_id = ?", id)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "paket tidak ditemukan")
	}
	return helper.Success(c, "Paket dihapus", nil)
}
