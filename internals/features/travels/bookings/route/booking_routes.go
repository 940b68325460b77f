package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	bookingctl "travelku_backend/internals/features/travels/bookings/controller"
	"travelku_backend/internals/middlewares"
)

// BookingPublicRoutes: alur pendaftaran jamaah + callback Midtrans.
func BookingPublicRoutes(r fiber.Router, db *gorm.DB, midtransServerKey string, useProd bool) {
	bh := bookingctl.NewBookingController(db)
	ph := bookingctl.NewPaymentController(db, midtransServerKey, useProd)

	grp := r.Group("/bookings")
	grp.Post("/", middlewares.RegisterRateLimiter(), bh.Create)
	grp.Post("/:id/snap-token", bh.SnapToken)

	r.Post("/payments/midtrans/webhook", ph.MidtransWebhook)
}

// BookingUserRoutes: booking hasil referral member login.
func BookingUserRoutes(r fiber.Router, db *gorm.DB) {
	bh := bookingctl.NewBookingController(db)

	grp := r.Group("/bookings")
	grp.Get("/mine", bh.Mine)
}

// BookingAdminRoutes: laporan + verifikasi pembayaran manual.
func BookingAdminRoutes(r fiber.Router, db *gorm.DB, midtransServerKey string, useProd bool) {
	bh := bookingctl.NewBookingController(db)
	ph := bookingctl.NewPaymentController(db, midtransServerKey, useProd)

	grp := r.Group("/bookings")
	grp.Get("/", bh.List)
	grp.Get("/:id", bh.GetByID)

	r.Post("/payments/verify", ph.ManualVerify)
}
