package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	BookingRoute "travelku_backend/internals/features/travels/bookings/route"
	DepartureRoute "travelku_backend/internals/features/travels/departures/route"
	PackageRoute "travelku_backend/internals/features/travels/packages/route"
)

func TravelPublicRoutes(r fiber.Router, db *gorm.DB, midtransServerKey string, useProd bool) {
	PackageRoute.PackagePublicRoutes(r, db)
	DepartureRoute.DeparturePublicRoutes(r, db)
	BookingRoute.BookingPublicRoutes(r, db, midtransServerKey, useProd)
}

func TravelUserRoutes(r fiber.Router, db *gorm.DB) {
	BookingRoute.BookingUserRoutes(r, db)
}

func TravelAdminRoutes(r fiber.Router, db *gorm.DB, midtransServerKey string, useProd bool) {
	PackageRoute.PackageAdminRoutes(r, db)
	DepartureRoute.DepartureAdminRoutes(r, db)
	BookingRoute.BookingAdminRoutes(r, db, midtransServerKey, useProd)
}
