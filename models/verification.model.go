package models

import "gorm.io/gorm"

const (
	VerificationKindIndividual = "INDIVIDUAL"
	VerificationKindBusiness   = "BUSINESS"

	VerificationStatusPendingPayment = "PENDING_PAYMENT"
	VerificationStatusPendingReview  = "PENDING_REVIEW"
	VerificationStatusApproved       = "APPROVED"
	VerificationStatusRejected       = "REJECTED"
)

// VerificationRequest gates the trust badges. It sits in PENDING_PAYMENT
// until the matching PaymentTransaction verifies, then waits for staff.
type VerificationRequest struct {
	gorm.Model
	UserID       uint   `json:"user_id" gorm:"index"`
	Kind         string `json:"kind" gorm:"not null"`
	DocumentURL  string `json:"document_url"`
	BusinessName string `json:"business_name"`
	Status       string `json:"status" gorm:"default:'PENDING_PAYMENT';index"`
	ReviewerID   uint   `json:"reviewer_id"`
	ReviewNote   string `json:"review_note"`
	IsDeleted    bool   `json:"is_deleted" gorm:"default:false"`
}
