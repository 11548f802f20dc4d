package paymentController

import (
	"encoding/json"
	"fmt"
	"testing"
	"thulobazaar/config"
	"thulobazaar/database"
	"thulobazaar/models"
	"thulobazaar/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDb(t *testing.T) *gorm.DB {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:           "test-secret",
		SaltRound:        4,
		FrontendURL:      "http://localhost:5173",
		KhaltiApiURL:     "https://dev.khalti.com/api/v2",
		KhaltiSecretKey:  "test-key",
		EsewaApiURL:      "https://rc.esewa.com.np",
		EsewaProductCode: "EPAYTEST",
		EsewaSecretKey:   "test-secret",
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Ad{},
		&models.PaymentTransaction{},
		&models.AdPromotion{},
		&models.VerificationRequest{},
	))

	database.Database = database.DbInstance{Db: db}
	return db
}

func seedAdTransaction(t *testing.T, db *gorm.DB, promotionType string, days int) (*models.Ad, *models.PaymentTransaction) {
	t.Helper()

	user := models.User{Name: "Ramesh", Email: fmt.Sprintf("%s@example.com", t.Name()), Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	ad := models.Ad{SellerID: user.ID, Title: "Used Pulsar 220", Category: "vehicles", Status: "ACTIVE"}
	require.NoError(t, db.Create(&ad).Error)

	meta, _ := json.Marshal(map[string]interface{}{
		"promotion_type": promotionType,
		"duration_days":  days,
	})
	transaction := models.PaymentTransaction{
		UserID:      user.ID,
		OrderID:     utils.GenerateOrderID(),
		Gateway:     models.GatewayKhalti,
		Amount:      500,
		PaymentType: models.PaymentTypeAdPromotion,
		RelatedID:   ad.ID,
		Status:      models.TransactionStatusPending,
		Metadata:    datatypes.JSON(meta),
	}
	require.NoError(t, db.Create(&transaction).Error)
	return &ad, &transaction
}

func TestVerifiedTransactionActivatesPromotion(t *testing.T) {
	db := setupTestDb(t)
	ad, transaction := seedAdTransaction(t, db, models.PromotionFeatured, 7)

	updated, err := FinalizeTransaction(db, transaction.OrderID, models.TransactionStatusVerified, "pidx-123", []byte(`{"status":"Completed"}`))
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusVerified, updated.Status)

	var stored models.PaymentTransaction
	require.NoError(t, db.Where("order_id = ?", transaction.OrderID).First(&stored).Error)
	assert.Equal(t, models.TransactionStatusVerified, stored.Status)
	assert.Equal(t, "pidx-123", stored.ReferenceID)
	assert.NotNil(t, stored.VerifiedAt)

	var promotions []models.AdPromotion
	require.NoError(t, db.Where("ad_id = ?", ad.ID).Find(&promotions).Error)
	require.Len(t, promotions, 1)
	assert.True(t, promotions[0].IsActive)
	assert.Equal(t, models.PromotionFeatured, promotions[0].PromotionType)

	var refreshed models.Ad
	require.NoError(t, db.First(&refreshed, ad.ID).Error)
	assert.True(t, refreshed.IsFeatured)
	assert.NotNil(t, refreshed.FeaturedUntil)
	assert.False(t, refreshed.IsUrgent)
	assert.False(t, refreshed.IsSticky)
}

func TestDuplicateCallbackDoesNotReapplySideEffects(t *testing.T) {
	db := setupTestDb(t)
	ad, transaction := seedAdTransaction(t, db, models.PromotionFeatured, 7)

	_, err := FinalizeTransaction(db, transaction.OrderID, models.TransactionStatusVerified, "pidx-123", nil)
	require.NoError(t, err)

	// Gateways redirect and also get polled; the second delivery must be
	// a no-op.
	_, err = FinalizeTransaction(db, transaction.OrderID, models.TransactionStatusVerified, "pidx-123", nil)
	require.NoError(t, err)

	var count int64
	db.Model(&models.AdPromotion{}).Where("ad_id = ?", ad.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestNewPromotionReplacesActiveOne(t *testing.T) {
	db := setupTestDb(t)
	ad, first := seedAdTransaction(t, db, models.PromotionFeatured, 7)

	_, err := FinalizeTransaction(db, first.OrderID, models.TransactionStatusVerified, "pidx-1", nil)
	require.NoError(t, err)

	meta, _ := json.Marshal(map[string]interface{}{"promotion_type": models.PromotionUrgent, "duration_days": 3})
	second := models.PaymentTransaction{
		UserID:      first.UserID,
		OrderID:     utils.GenerateOrderID(),
		Gateway:     models.GatewayEsewa,
		Amount:      300,
		PaymentType: models.PaymentTypeAdPromotion,
		RelatedID:   ad.ID,
		Status:      models.TransactionStatusPending,
		Metadata:    datatypes.JSON(meta),
	}
	require.NoError(t, db.Create(&second).Error)

	_, err = FinalizeTransaction(db, second.OrderID, models.TransactionStatusVerified, "ref-2", nil)
	require.NoError(t, err)

	var active []models.AdPromotion
	require.NoError(t, db.Where("ad_id = ? AND is_active = true", ad.ID).Find(&active).Error)
	require.Len(t, active, 1)
	assert.Equal(t, models.PromotionUrgent, active[0].PromotionType)

	var refreshed models.Ad
	require.NoError(t, db.First(&refreshed, ad.ID).Error)
	assert.False(t, refreshed.IsFeatured)
	assert.Nil(t, refreshed.FeaturedUntil)
	assert.True(t, refreshed.IsUrgent)
}

func TestVerificationPaymentFlipsRequestOnce(t *testing.T) {
	db := setupTestDb(t)

	user := models.User{Name: "Sita", Email: "sita@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	request := models.VerificationRequest{
		UserID:      user.ID,
		Kind:        models.VerificationKindIndividual,
		DocumentURL: "https://cdn.example.com/doc.pdf",
		Status:      models.VerificationStatusPendingPayment,
	}
	require.NoError(t, db.Create(&request).Error)

	transaction := models.PaymentTransaction{
		UserID:      user.ID,
		OrderID:     utils.GenerateOrderID(),
		Gateway:     models.GatewayKhalti,
		Amount:      100,
		PaymentType: models.PaymentTypeIndividualVerification,
		RelatedID:   request.ID,
		Status:      models.TransactionStatusPending,
	}
	require.NoError(t, db.Create(&transaction).Error)

	_, err := FinalizeTransaction(db, transaction.OrderID, models.TransactionStatusVerified, "pidx-9", nil)
	require.NoError(t, err)

	var refreshed models.VerificationRequest
	require.NoError(t, db.First(&refreshed, request.ID).Error)
	assert.Equal(t, models.VerificationStatusPendingReview, refreshed.Status)

	// Staff approves before a duplicate callback lands; the duplicate
	// must not drag the request back to PENDING_REVIEW.
	require.NoError(t, db.Model(&refreshed).Update("status", models.VerificationStatusApproved).Error)

	_, err = FinalizeTransaction(db, transaction.OrderID, models.TransactionStatusVerified, "pidx-9", nil)
	require.NoError(t, err)

	require.NoError(t, db.First(&refreshed, request.ID).Error)
	assert.Equal(t, models.VerificationStatusApproved, refreshed.Status)
}

func TestFailedThenLateSuccess(t *testing.T) {
	db := setupTestDb(t)
	ad, transaction := seedAdTransaction(t, db, models.PromotionSticky, 14)

	_, err := FinalizeTransaction(db, transaction.OrderID, models.TransactionStatusFailed, "", nil)
	require.NoError(t, err)

	var count int64
	db.Model(&models.AdPromotion{}).Where("ad_id = ?", ad.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	// A later authoritative lookup can still settle the payment.
	updated, err := FinalizeTransaction(db, transaction.OrderID, models.TransactionStatusVerified, "ref-late", nil)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusVerified, updated.Status)

	db.Model(&models.AdPromotion{}).Where("ad_id = ? AND is_active = true", ad.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUnknownOrderIsNotFound(t *testing.T) {
	db := setupTestDb(t)

	_, err := FinalizeTransaction(db, "TBZ-missing", models.TransactionStatusVerified, "", nil)
	assert.Error(t, err)
}
