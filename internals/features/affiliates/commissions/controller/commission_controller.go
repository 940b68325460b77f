package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "travelku_backend/internals/helpers"

	dto "travelku_backend/internals/features/affiliates/commissions/dto"
	svc "travelku_backend/internals/features/affiliates/commissions/service"
)

type CommissionController struct {
	DB          *gorm.DB
	Validator   *validator.Validate
	Commissions *svc.CommissionService
}

func NewCommissionController(db *gorm.DB) *CommissionController {
	return &CommissionController{
		DB:          db,
		Validator:   validator.New(),
		Commissions: svc.NewCommissionService(db),
	}
}

/* ===================== Rules (admin) ===================== */

// POST /commission-rules
func (h *CommissionController) CreateRule(c *fiber.Ctx) error {
	var req dto.CreateRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	r, err := h.Commissions.CreateRule(c.UserContext(), svc.CreateRuleInput{
		OwnerMemberID: req.RuleOwnerMemberID,
		TargetTier:    req.RuleTargetTier,
		PackageID:     req.RulePackageID,
		Type:          req.RuleType,
		Value:         req.RuleValue,
	})
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrInvalidRule):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, svc.ErrRuleConflict):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		default:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Aturan komisi dibuat", r)
}

// GET /commission-rules?owner_id=
func (h *CommissionController) ListRules(c *fiber.Ctx) error {
	ownerID, err := helper.ParseUUIDQuery(c, "owner_id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "owner_id wajib uuid")
	}

	rows, err := h.Commissions.ListRulesOf(c.UserContext(), ownerID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", rows)
}

// PATCH /commission-rules/:id
func (h *CommissionController) UpdateRule(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req dto.UpdateRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	r, err := h.Commissions.UpdateRule(c.UserContext(), id, svc.UpdateRuleInput{
		Type:  req.RuleType,
		Value: req.RuleValue,
	})
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrRuleNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, svc.ErrInvalidRule):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		default:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}
	return helper.Success(c, "Aturan komisi diperbarui", r)
}

// DELETE /commission-rules/:id
func (h *CommissionController) DeleteRule(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.Commissions.DeleteRule(c.UserContext(), id); err != nil {
		if errors.Is(err, svc.ErrRuleNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Aturan komisi dihapus", nil)
}

/* ===================== Ledger ===================== */

// GET /commissions/ledger — entri milik member yang login
func (h *CommissionController) MyLedger(c *fiber.Ctx) error {
	memberID := helper.GetUserUUID(c)
	if memberID == uuid.Nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	rows, err := h.Commissions.ListFor(c.UserContext(), memberID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", rows)
}

// GET /commissions/summary — dashboard affiliate
func (h *CommissionController) MySummary(c *fiber.Ctx) error {
	memberID := helper.GetUserUUID(c)
	if memberID == uuid.Nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	sum, err := h.Commissions.SummaryFor(c.UserContext(), memberID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", sum)
}

// GET /commissions/ledger/:member_id — admin lihat ledger member lain
func (h *CommissionController) LedgerOf(c *fiber.Ctx) error {
	memberID, err := helper.ParseUUIDParam(c, "member_id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid member_id")
	}

	rows, err := h.Commissions.ListFor(c.UserContext(), memberID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", rows)
}

// POST /commissions/disburse — admin tandai satu entri terbayar
func (h *CommissionController) Disburse(c *fiber.Ctx) error {
	payerID := helper.GetUserUUID(c)
	if payerID == uuid.Nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req dto.DisburseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if err := h.Commissions.Disburse(c.UserContext(), req.EntryID, payerID); err != nil {
		switch {
		case errors.Is(err, svc.ErrEntryNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, svc.ErrAlreadyPaid):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		default:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}
	return helper.Success(c, "Komisi dibayarkan", nil)
}
