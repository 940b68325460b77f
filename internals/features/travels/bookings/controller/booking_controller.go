package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "travelku_backend/internals/helpers"

	dto "travelku_backend/internals/features/travels/bookings/dto"
	svc "travelku_backend/internals/features/travels/bookings/service"
)

type BookingController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Bookings  *svc.BookingService
}

func NewBookingController(db *gorm.DB) *BookingController {
	return &BookingController{
		DB:        db,
		Validator: validator.New(),
		Bookings:  svc.NewBookingService(db),
	}
}

// POST /bookings — alur pendaftaran publik
func (h *BookingController) Create(c *fiber.Ctx) error {
	var req dto.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := h.Bookings.CreateBooking(c.UserContext(), req.ToInput())
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrDepartureNotFound):
			return fiber.NewError(fiber.StatusNotFound, "keberangkatan tidak ditemukan")
		case errors.Is(err, svc.ErrDepartureClosed):
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, svc.ErrInvalidRoomType):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, svc.ErrAffiliateCodeInvalid):
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, svc.ErrInventoryExhausted):
			return fiber.NewError(fiber.StatusConflict, "kursi sudah habis")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Booking dibuat", res)
}

// GET /bookings/:id
func (h *BookingController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	detail, err := h.Bookings.GetBooking(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, svc.ErrBookingNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "booking tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", detail)
}

// GET /bookings?affiliator_id=&departure_id= — laporan admin
func (h *BookingController) List(c *fiber.Ctx) error {
	var f svc.ListBookingsFilter
	if raw := c.Query("affiliator_id"); raw != "" {
		id, err := helper.ParseUUIDQuery(c, "affiliator_id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "affiliator_id wajib uuid")
		}
		f.AffiliatorMemberID = &id
	}
	if raw := c.Query("departure_id"); raw != "" {
		id, err := helper.ParseUUIDQuery(c, "departure_id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "departure_id wajib uuid")
		}
		f.DepartureID = &id
	}

	rows, err := h.Bookings.ListBookings(c.UserContext(), f)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", rows)
}

// GET /bookings/mine — booking yang direferensikan member login
func (h *BookingController) Mine(c *fiber.Ctx) error {
	memberID := helper.GetUserUUID(c)
	if memberID == uuid.Nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	rows, err := h.Bookings.ListBookings(c.UserContext(), svc.ListBookingsFilter{
		AffiliatorMemberID: &memberID,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", rows)
}

// POST /bookings/:id/snap-token — buat/pakai ulang Snap token invoice
func (h *BookingController) SnapToken(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	inv, err := h.Bookings.SnapTokenFor(c.UserContext(), id)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrInvoiceNotFound), errors.Is(err, svc.ErrBookingNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		default:
			return fiber.NewError(fiber.StatusBadGateway, "midtrans error: "+err.Error())
		}
	}
	return helper.Success(c, "OK", inv)
}
