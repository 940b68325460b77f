package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	CommissionRoute "travelku_backend/internals/features/affiliates/commissions/route"
	MemberRoute "travelku_backend/internals/features/affiliates/members/route"
)

func AffiliateUserRoutes(r fiber.Router, db *gorm.DB) {
	MemberRoute.MemberUserRoutes(r, db)
	CommissionRoute.CommissionUserRoutes(r, db)
}

func AffiliateAdminRoutes(r fiber.Router, db *gorm.DB) {
	MemberRoute.MemberAdminRoutes(r, db)
	CommissionRoute.CommissionAdminRoutes(r, db)
}
