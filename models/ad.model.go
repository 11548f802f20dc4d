package models

import (
	"time"

	"gorm.io/gorm"
)

// Ad statuses: ACTIVE, SOLD, REMOVED
type Ad struct {
	gorm.Model
	SellerID    uint    `json:"seller_id" gorm:"index"`
	Title       string  `json:"title" gorm:"not null"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category" gorm:"index"`
	Subcategory string  `json:"subcategory"`
	Location    string  `json:"location"`
	Status      string  `json:"status" gorm:"default:'ACTIVE'"`

	// Promotion flags, kept in sync with the active AdPromotion row.
	IsFeatured    bool       `json:"is_featured" gorm:"default:false"`
	IsUrgent      bool       `json:"is_urgent" gorm:"default:false"`
	IsSticky      bool       `json:"is_sticky" gorm:"default:false"`
	FeaturedUntil *time.Time `json:"featured_until"`
	UrgentUntil   *time.Time `json:"urgent_until"`
	StickyUntil   *time.Time `json:"sticky_until"`
	BumpedAt      *time.Time `json:"bumped_at"`

	IsDeleted bool `json:"is_deleted" gorm:"default:false"`
}
