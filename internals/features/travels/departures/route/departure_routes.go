package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	departurectl "travelku_backend/internals/features/travels/departures/controller"
	"travelku_backend/internals/middlewares"
)

// DeparturePublicRoutes: katalog + alur pegang kursi.
func DeparturePublicRoutes(r fiber.Router, db *gorm.DB) {
	h := departurectl.NewDepartureController(db)

	grp := r.Group("/departures")
	grp.Get("/", h.List)
	grp.Get("/:id", h.GetByID)
	grp.Get("/:id/availability", h.Availability)
	// reserve dibatasi lebih ketat: satu klik = satu lock kursi
	grp.Post("/:id/reserve", middlewares.ReserveRateLimiter(), h.Reserve)
}

func DepartureAdminRoutes(r fiber.Router, db *gorm.DB) {
	h := departurectl.NewDepartureController(db)

	grp := r.Group("/departures")
	grp.Post("/", h.Create)
	grp.Patch("/:id/status", h.SetStatus)
}
