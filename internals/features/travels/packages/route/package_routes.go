package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	packagectl "travelku_backend/internals/features/travels/packages/controller"
)

func PackagePublicRoutes(r fiber.Router, db *gorm.DB) {
	h := packagectl.NewPackageController(db)

	grp := r.Group("/packages")
	grp.Get("/", h.List)
	grp.Get("/:id", h.GetByID)
}

func PackageAdminRoutes(r fiber.Router, db *gorm.DB) {
	h := packagectl.NewPackageController(db)

	grp := r.Group("/packages")
	grp.Post("/", h.Create)
	grp.Patch("/:id", h.Patch)
	grp.Delete("/:id", h.Delete)
}
