package paymentController

import (
	"encoding/json"
	"fmt"
	"thulobazaar/models"
	"thulobazaar/utils"
	"time"

	"gorm.io/gorm"
)

// FinalizeTransaction applies a gateway-decided status to the stored
// transaction and, on VERIFIED, runs the post-payment side effects.
// The whole step runs in one DB transaction and is idempotent: an
// already-verified row is returned untouched, so a duplicate callback
// can never re-apply a promotion or a verification flip.
func FinalizeTransaction(db *gorm.DB, orderID, newStatus, referenceID string, raw []byte) (*models.PaymentTransaction, error) {
	var transaction models.PaymentTransaction
	var transitioned bool

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).First(&transaction).Error; err != nil {
			return fmt.Errorf("transaction not found")
		}

		// Status guard: VERIFIED is terminal and its side effects ran once.
		if transaction.Status == models.TransactionStatusVerified {
			return nil
		}

		updates := map[string]interface{}{"status": newStatus}
		if referenceID != "" {
			updates["reference_id"] = referenceID
		}
		if len(raw) > 0 {
			updates["gateway_raw"] = raw
		}
		if newStatus == models.TransactionStatusVerified {
			now := time.Now()
			updates["verified_at"] = &now
		}

		if err := tx.Model(&transaction).Updates(updates).Error; err != nil {
			return err
		}
		transaction.Status = newStatus

		if newStatus == models.TransactionStatusVerified {
			if err := applySideEffects(tx, &transaction); err != nil {
				return err
			}
		}
		transitioned = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if transitioned && transaction.Status == models.TransactionStatusVerified {
		notifyVerified(db, &transaction)
	}
	return &transaction, nil
}

// applySideEffects dispatches on paymentType. Runs inside the finalize
// transaction, at most once per PaymentTransaction.
func applySideEffects(tx *gorm.DB, transaction *models.PaymentTransaction) error {
	switch transaction.PaymentType {
	case models.PaymentTypeAdPromotion:
		return activatePromotion(tx, transaction)
	case models.PaymentTypeIndividualVerification, models.PaymentTypeBusinessVerification:
		return activateVerification(tx, transaction)
	}
	return fmt.Errorf("unknown payment type %q", transaction.PaymentType)
}

// activatePromotion replaces any active promotion on the ad with the
// newly paid one and syncs the ad's visibility flags.
func activatePromotion(tx *gorm.DB, transaction *models.PaymentTransaction) error {
	var meta transactionMetadata
	if len(transaction.Metadata) > 0 {
		if err := json.Unmarshal(transaction.Metadata, &meta); err != nil {
			return fmt.Errorf("bad promotion metadata: %v", err)
		}
	}
	if meta.PromotionType == "" {
		return fmt.Errorf("promotion metadata missing promotion_type")
	}
	if meta.DurationDays <= 0 {
		meta.DurationDays = 7
	}

	var ad models.Ad
	if err := tx.Where("id = ? AND is_deleted = false", transaction.RelatedID).First(&ad).Error; err != nil {
		return fmt.Errorf("promoted ad not found")
	}

	// One active promotion per ad: retire the previous one.
	if err := tx.Model(&models.AdPromotion{}).
		Where("ad_id = ? AND is_active = true", ad.ID).
		Update("is_active", false).Error; err != nil {
		return err
	}

	now := time.Now()
	expiresAt := now.AddDate(0, 0, meta.DurationDays)

	promotion := models.AdPromotion{
		AdID:          ad.ID,
		TransactionID: transaction.ID,
		PromotionType: meta.PromotionType,
		DurationDays:  meta.DurationDays,
		ExpiresAt:     expiresAt,
		IsActive:      true,
	}
	if err := tx.Create(&promotion).Error; err != nil {
		return err
	}

	// Reset all flags, then set the one just paid for.
	updates := map[string]interface{}{
		"is_featured":    false,
		"is_urgent":      false,
		"is_sticky":      false,
		"featured_until": nil,
		"urgent_until":   nil,
		"sticky_until":   nil,
	}
	switch meta.PromotionType {
	case models.PromotionFeatured:
		updates["is_featured"] = true
		updates["featured_until"] = expiresAt
	case models.PromotionUrgent:
		updates["is_urgent"] = true
		updates["urgent_until"] = expiresAt
	case models.PromotionSticky:
		updates["is_sticky"] = true
		updates["sticky_until"] = expiresAt
	case models.PromotionBumpUp:
		updates["bumped_at"] = now
	default:
		return fmt.Errorf("unknown promotion type %q", meta.PromotionType)
	}

	return tx.Model(&models.Ad{}).Where("id = ?", ad.ID).Updates(updates).Error
}

// activateVerification moves the paid request from PENDING_PAYMENT to
// PENDING_REVIEW so staff can pick it up.
func activateVerification(tx *gorm.DB, transaction *models.PaymentTransaction) error {
	result := tx.Model(&models.VerificationRequest{}).
		Where("id = ? AND status = ?", transaction.RelatedID, models.VerificationStatusPendingPayment).
		Update("status", models.VerificationStatusPendingReview)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Request already moved on; nothing left to flip.
		var request models.VerificationRequest
		if err := tx.Where("id = ?", transaction.RelatedID).First(&request).Error; err != nil {
			return fmt.Errorf("verification request not found")
		}
	}
	return nil
}

// notifyVerified sends the receipt mail after the transaction commits.
func notifyVerified(db *gorm.DB, transaction *models.PaymentTransaction) {
	var user models.User
	if err := db.Where("id = ?", transaction.UserID).First(&user).Error; err != nil {
		return
	}

	purpose := "ad promotion"
	switch transaction.PaymentType {
	case models.PaymentTypeIndividualVerification:
		purpose = "identity verification"
	case models.PaymentTypeBusinessVerification:
		purpose = "business verification"
	}
	utils.SendPaymentReceiptEmail(user.Email, user.Name, transaction.OrderID, transaction.Amount, purpose)
}
