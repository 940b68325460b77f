package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	commissionctl "travelku_backend/internals/features/affiliates/commissions/controller"
)

// CommissionUserRoutes: dashboard affiliate (ledger + ringkasan sendiri).
func CommissionUserRoutes(r fiber.Router, db *gorm.DB) {
	h := commissionctl.NewCommissionController(db)

	grp := r.Group("/commissions")
	grp.Get("/ledger", h.MyLedger)
	grp.Get("/summary", h.MySummary)
}

// CommissionAdminRoutes: kelola aturan + disbursal.
func CommissionAdminRoutes(r fiber.Router, db *gorm.DB) {
	h := commissionctl.NewCommissionController(db)

	rules := r.Group("/commission-rules")
	rules.Post("/", h.CreateRule)
	rules.Get("/", h.ListRules)
	rules.Patch("/:id", h.UpdateRule)
	rules.Delete("/:id", h.DeleteRule)

	grp := r.Group("/commissions")
	grp.Get("/ledger/:member_id", h.LedgerOf)
	grp.Post("/disburse", h.Disburse)
}
