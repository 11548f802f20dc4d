package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PromotionFeatured = "FEATURED"
	PromotionUrgent   = "URGENT"
	PromotionSticky   = "STICKY"
	PromotionBumpUp   = "BUMP_UP"
)

// AdPromotion is a paid, time-bounded visibility boost. At most one row
// per ad is active; activating a new one deactivates the prior.
type AdPromotion struct {
	gorm.Model
	AdID          uint      `json:"ad_id" gorm:"index"`
	TransactionID uint      `json:"transaction_id"`
	PromotionType string    `json:"promotion_type" gorm:"not null"`
	DurationDays  int       `json:"duration_days"`
	ExpiresAt     time.Time `json:"expires_at" gorm:"index"`
	IsActive      bool      `json:"is_active" gorm:"default:true;index"`
}
