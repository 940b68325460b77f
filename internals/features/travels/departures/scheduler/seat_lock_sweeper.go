package scheduler

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"travelku_backend/internals/features/travels/departures/service"
)

// StartSeatLockSweeper jalankan sapu lock kadaluarsa tiap menit.
// Sapuan juga terjadi oportunistik sebelum reserve, jadi jadwal ini
// cuma jaring pengaman — tanpa koordinasi antar instance.
func StartSeatLockSweeper(db *gorm.DB) *cron.Cron {
	svc := service.NewSeatInventoryService(db)

	c := cron.New()
	if _, err := c.AddFunc("@every 1m", func() {
		n, err := svc.SweepExpired(context.Background())
		if err != nil {
			log.Printf("[SWEEP ERROR] gagal sapu seat lock: %v", err)
			return
		}
		if n > 0 {
			log.Printf("[SWEEP] %d seat lock kadaluarsa dihapus", n)
		}
	}); err != nil {
		log.Printf("[SWEEP ERROR] gagal daftar jadwal: %v", err)
	}
	c.Start()
	return c
}
