package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "travelku_backend/internals/helpers"

	dto "travelku_backend/internals/features/affiliates/members/dto"
	model "travelku_backend/internals/features/affiliates/members/model"
	svc "travelku_backend/internals/features/affiliates/members/service"
)

type MemberController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Hierarchy *svc.HierarchyService
}

func NewMemberController(db *gorm.DB) *MemberController {
	return &MemberController{
		DB:        db,
		Validator: validator.New(),
		Hierarchy: svc.NewHierarchyService(db),
	}
}

// POST /members
func (h *MemberController) Register(c *fiber.Ctx) error {
	var req dto.RegisterMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	m, err := h.Hierarchy.RegisterMember(c.UserContext(), svc.RegisterMemberInput{
		Name:          req.MemberName,
		Email:         req.MemberEmail,
		Phone:         req.MemberPhone,
		Password:      req.MemberPassword,
		Tier:          req.MemberTier,
		ParentID:      req.MemberParentID,
		AffiliateCode: req.MemberAffiliateCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrInvalidTier),
			errors.Is(err, svc.ErrInvalidParentTier):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, svc.ErrParentNotFound),
			errors.Is(err, svc.ErrParentNotAttached):
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, svc.ErrDuplicateMember),
			errors.Is(err, svc.ErrIntegrityViolation):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		default:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Member berhasil didaftarkan", dto.FromModel(m))
}

// GET /members/:id
func (h *MemberController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var m model.Member
	if err := h.DB.WithContext(c.UserContext()).
		First(&m, "member_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "member tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "OK", dto.FromModel(&m))
}

// GET /members/:id/downline
func (h *MemberController) Downline(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	rows, err := h.Hierarchy.DescendantsOf(c.UserContext(), id)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	entries := make([]dto.DownlineEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, dto.DownlineEntry{
			MemberID:   r.MemberID,
			MemberName: r.MemberName,
			MemberTier: r.MemberTier,
			PathLength: r.PathLength,
		})
	}

	return helper.Success(c, "OK", entries)
}

// PATCH /members/:id/deactivate
func (h *MemberController) Deactivate(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.Hierarchy.Deactivate(c.UserContext(), id); err != nil {
		if errors.Is(err, svc.ErrMemberNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "member tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "Member dinonaktifkan", nil)
}
