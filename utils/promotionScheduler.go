package utils

import (
	"log"
	"thulobazaar/database"
	"thulobazaar/models"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// InitializePromotionScheduler sets up the promotion expiry sweep
func InitializePromotionScheduler() {
	log.Println("[PROMO-SCHEDULER] Initializing promotion scheduler...")

	c := cron.New()

	// Hourly sweep for promotions past their window
	c.AddFunc("0 * * * *", func() {
		log.Println("[PROMO-SCHEDULER] Running promotion expiry sweep...")
		ExpirePromotions()
	})

	c.Start()
	log.Println("[PROMO-SCHEDULER] Promotion scheduler started - runs hourly")
}

// ExpirePromotions deactivates promotions whose window has passed and
// clears the matching flag on the ad.
func ExpirePromotions() {
	db := database.Database.Db
	now := time.Now()

	var expired []models.AdPromotion
	if err := db.
		Where("is_active = true AND expires_at < ?", now).
		Find(&expired).Error; err != nil {
		log.Printf("[PROMO-SCHEDULER] Error fetching expired promotions: %v", err)
		return
	}

	log.Printf("[PROMO-SCHEDULER] Found %d expired promotions", len(expired))

	for _, promo := range expired {
		updates := map[string]interface{}{}
		switch promo.PromotionType {
		case models.PromotionFeatured:
			updates["is_featured"] = false
			updates["featured_until"] = nil
		case models.PromotionUrgent:
			updates["is_urgent"] = false
			updates["urgent_until"] = nil
		case models.PromotionSticky:
			updates["is_sticky"] = false
			updates["sticky_until"] = nil
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.AdPromotion{}).
				Where("id = ?", promo.ID).
				Update("is_active", false).Error; err != nil {
				return err
			}
			if len(updates) > 0 {
				if err := tx.Model(&models.Ad{}).
					Where("id = ?", promo.AdID).
					Updates(updates).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			log.Printf("[PROMO-SCHEDULER] Error expiring promotion %d: %v", promo.ID, err)
		}
	}
}
