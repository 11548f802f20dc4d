package paymentController

import (
	"testing"
	"thulobazaar/models"
	"thulobazaar/utils"

	"github.com/stretchr/testify/assert"
)

func TestStatusFromKhalti(t *testing.T) {
	cases := map[string]string{
		"Completed":          models.TransactionStatusVerified,
		"User canceled":      models.TransactionStatusCanceled,
		"Expired":            models.TransactionStatusFailed,
		"Refunded":           models.TransactionStatusFailed,
		"Partially Refunded": models.TransactionStatusFailed,
		"Pending":            models.TransactionStatusPending,
		"Initiated":          models.TransactionStatusPending,
	}
	for gatewayStatus, want := range cases {
		got := statusFromKhalti(&utils.KhaltiVerifyResult{Status: gatewayStatus})
		assert.Equal(t, want, got, "khalti status %q", gatewayStatus)
	}
}

func TestStatusFromEsewa(t *testing.T) {
	cases := map[string]string{
		"COMPLETE":       models.TransactionStatusVerified,
		"CANCELED":       models.TransactionStatusCanceled,
		"NOT_FOUND":      models.TransactionStatusFailed,
		"FULL_REFUND":    models.TransactionStatusFailed,
		"PARTIAL_REFUND": models.TransactionStatusFailed,
		"PENDING":        models.TransactionStatusPending,
		"AMBIGUOUS":      models.TransactionStatusPending,
	}
	for gatewayStatus, want := range cases {
		got := statusFromEsewa(&utils.EsewaVerifyResult{Status: gatewayStatus})
		assert.Equal(t, want, got, "esewa status %q", gatewayStatus)
	}
}

func TestDescribeRelatedEnforcesOwnership(t *testing.T) {
	db := setupTestDb(t)
	ad, transaction := seedAdTransaction(t, db, models.PromotionFeatured, 7)

	label, err := describeRelated(models.PaymentTypeAdPromotion, ad.ID, transaction.UserID)
	assert.NoError(t, err)
	assert.Contains(t, label, ad.Title)

	// Someone else's ad cannot be promoted.
	_, err = describeRelated(models.PaymentTypeAdPromotion, ad.ID, transaction.UserID+1)
	assert.Error(t, err)

	_, err = describeRelated("SOMETHING_ELSE", ad.ID, transaction.UserID)
	assert.Error(t, err)
}
