package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"travelku_backend/internals/configs"
	authMiddleware "travelku_backend/internals/middlewares/auth"
	routeDetails "travelku_backend/internals/route/details"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// ===================== GROUPS =====================

	// PUBLIC → tanpa JWT (katalog, pendaftaran, webhook Midtrans)
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public")

	// PRIVATE (USER) → member affiliate login
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api/u",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              configs.JWTSecret,
			AllowCookieFallback: true,
		}),
	)

	// ADMIN → operasional travel (Auth + RoleCheck)
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              configs.JWTSecret,
			AllowCookieFallback: true,
		}),
		authMiddleware.OnlyRoles("admin", "owner"),
	)

	// ===================== MOUNT ROUTES =====================

	log.Println("[INFO] Mounting Travel routes...")
	routeDetails.TravelPublicRoutes(public, db, configs.MidtransServerKey, configs.MidtransUseProd)
	routeDetails.TravelUserRoutes(private, db)
	routeDetails.TravelAdminRoutes(admin, db, configs.MidtransServerKey, configs.MidtransUseProd)

	log.Println("[INFO] Mounting Affiliate routes...")
	routeDetails.AffiliateUserRoutes(private, db)
	routeDetails.AffiliateAdminRoutes(admin, db)
}
