package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	memberctl "travelku_backend/internals/features/affiliates/members/controller"
)

// MemberUserRoutes: profil & jaringan milik member login.
func MemberUserRoutes(r fiber.Router, db *gorm.DB) {
	h := memberctl.NewMemberController(db)

	grp := r.Group("/members")
	grp.Get("/:id", h.GetByID)
	grp.Get("/:id/downline", h.Downline)
}

// MemberAdminRoutes: provisioning jaringan oleh admin pusat.
func MemberAdminRoutes(r fiber.Router, db *gorm.DB) {
	h := memberctl.NewMemberController(db)

	grp := r.Group("/members")
	grp.Post("/", h.Register)
	grp.Delete("/:id", h.Deactivate)
}
