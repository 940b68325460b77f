package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "travelku_backend/internals/helpers"

	dto "travelku_backend/internals/features/travels/departures/dto"
	model "travelku_backend/internals/features/travels/departures/model"
	svc "travelku_backend/internals/features/travels/departures/service"
)

type DepartureController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Seats     *svc.SeatInventoryService
}

func NewDepartureController(db *gorm.DB) *DepartureController {
	return &DepartureController{
		DB:        db,
		Validator: validator.New(),
		Seats:     svc.NewSeatInventoryService(db),
	}
}

// POST /departures
func (h *DepartureController) Create(c *fiber.Ctx) error {
	var req dto.CreateDepartureRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "create departure failed: "+err.Error())
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Keberangkatan dibuat", m)
}

// GET /departures?package_id=&status=
func (h *DepartureController) List(c *fiber.Ctx) error {
	q := h.DB.WithContext(c.UserContext()).Model(&model.Departure{})

	if pkg := c.Query("package_id"); pkg != "" {
		q = q.Where("departure_package_id = ?", pkg)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("departure_status = ?", status)
	}

	var rows []model.Departure
	if err := q.Order("departure_date ASC").Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "OK", rows)
}

// GET /departures/:id
func (h *DepartureController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var m model.Departure
	if err := h.DB.WithContext(c.UserContext()).
		First(&m, "departure_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "keberangkatan tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "OK", m)
}

// PATCH /departures/:id/status — siklus hidup maju, tidak pernah mundur
func (h *DepartureController) SetStatus(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req dto.UpdateDepartureStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var m model.Departure
	if err := h.DB.WithContext(c.UserContext()).
		First(&m, "departure_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "keberangkatan tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if !model.CanTransitionDepartureStatus(m.DepartureStatus, req.DepartureStatus) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "transisi status tidak diizinkan")
	}

	if err := h.DB.WithContext(c.UserContext()).
		Model(&m).
		Update("departure_status", req.DepartureStatus).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "Status diperbarui", m)
}

// GET /departures/:id/availability
func (h *DepartureController) Availability(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	avail, err := h.Seats.Availability(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, svc.ErrDepartureNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "keberangkatan tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "OK", avail)
}

// POST /departures/:id/reserve — mulai alur pendaftaran, pegang 1 kursi
func (h *DepartureController) Reserve(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req dto.ReserveSeatRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
		}
		if err := h.Validator.Struct(req); err != nil {
			return helper.ValidationError(c, err)
		}
	}

	lock, err := h.Seats.Reserve(c.UserContext(), id, time.Duration(req.ReserveTTLSeconds)*time.Second)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrDepartureNotFound):
			return fiber.NewError(fiber.StatusNotFound, "keberangkatan tidak ditemukan")
		case errors.Is(err, svc.ErrInventoryExhausted):
			return fiber.NewError(fiber.StatusConflict, "kursi sudah habis")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Kursi dipegang sementara", dto.ReserveSeatResponse{
		LockKey:   lock.SeatLockKey,
		ExpiresAt: lock.SeatLockExpiresAt,
	})
}
